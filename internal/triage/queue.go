package triage

import (
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/crisis-followup-service/internal/domain"
)

// StatusFilter narrows the queue to one derived status, or all.
type StatusFilter string

const (
	StatusFilterAll       StatusFilter = "ALL"
	StatusFilterPending   StatusFilter = "PENDING"
	StatusFilterOverdue   StatusFilter = "OVERDUE"
	StatusFilterCompleted StatusFilter = "COMPLETED"
)

// PriorityFilter narrows the queue to one priority tier, or all.
type PriorityFilter string

const (
	PriorityFilterAll    PriorityFilter = "ALL"
	PriorityFilterUrgent PriorityFilter = "URGENT"
	PriorityFilterHigh   PriorityFilter = "HIGH"
	PriorityFilterNormal PriorityFilter = "NORMAL"
)

// SortMode selects queue ordering.
type SortMode string

const (
	SortByDueDate  SortMode = "DUE_DATE"
	SortByPriority SortMode = "PRIORITY"
)

// FilterSpec captures case-worker queue filters. Search matches
// case-insensitively against user name and user id.
type FilterSpec struct {
	Search   string
	Status   StatusFilter
	Priority PriorityFilter
}

// Dropped records an event excluded from evaluation, with the reason, so data
// quality problems surface instead of vanishing.
type Dropped struct {
	EventID string
	Reason  string
}

// Result is the outcome of one evaluation pass.
type Result struct {
	Tasks       []domain.FollowUpTask
	Dropped     []Dropped
	EvaluatedAt time.Time
}

// DroppedCount returns how many events were excluded.
func (r Result) DroppedCount() int {
	return len(r.Dropped)
}

const reasonMissingCreatedAt = "missing created-at timestamp"

// Evaluate derives a follow-up task per valid crisis event, applies the
// filter, and sorts. It holds no state between calls and reflects exactly the
// now passed in; callers own any caching. Events without a created-at
// timestamp have no valid task and are dropped, not defaulted.
func Evaluate(events []domain.CrisisEvent, now time.Time, filter FilterSpec, mode SortMode) Result {
	result := Result{Tasks: make([]domain.FollowUpTask, 0, len(events)), EvaluatedAt: now}

	for i := range events {
		ev := &events[i]
		if ev.CreatedAt == nil {
			result.Dropped = append(result.Dropped, Dropped{EventID: ev.ID, Reason: reasonMissingCreatedAt})
			continue
		}
		task := deriveTask(ev, now)
		if matches(task, filter) {
			result.Tasks = append(result.Tasks, task)
		}
	}

	switch mode {
	case SortByPriority:
		// Stable so equal tiers keep their relative order.
		sort.SliceStable(result.Tasks, func(i, j int) bool {
			return result.Tasks[i].Priority.Rank() < result.Tasks[j].Priority.Rank()
		})
	default:
		sort.SliceStable(result.Tasks, func(i, j int) bool {
			return result.Tasks[i].DueAt.Before(result.Tasks[j].DueAt)
		})
	}

	return result
}

func deriveTask(ev *domain.CrisisEvent, now time.Time) domain.FollowUpTask {
	risk := ev.RiskLevel
	if risk == "" {
		risk = domain.RiskLevelUnknown
	}
	followUpType, offset := ResolvePolicy(risk)
	dueAt := DueAt(*ev.CreatedAt, offset)

	return domain.FollowUpTask{
		EventID:          ev.ID,
		UserID:           ev.UserID,
		UserName:         ev.UserName,
		RiskLevel:        risk,
		Type:             followUpType,
		DueAt:            dueAt,
		Priority:         RankPriority(risk),
		Status:           DeriveStatus(ev.Status, ev.ResolvedAt, dueAt, now),
		AssignedWorkerID: ev.AssignedWorkerID,
		LastContactAt:    ev.LastContactAt,
		Notes:            ev.Notes,
	}
}

func matches(task domain.FollowUpTask, filter FilterSpec) bool {
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		name := strings.ToLower(task.UserName)
		id := strings.ToLower(task.UserID)
		if !strings.Contains(name, search) && !strings.Contains(id, search) {
			return false
		}
	}
	if filter.Status != "" && filter.Status != StatusFilterAll {
		if string(task.Status) != string(filter.Status) {
			return false
		}
	}
	if filter.Priority != "" && filter.Priority != PriorityFilterAll {
		if string(task.Priority) != string(filter.Priority) {
			return false
		}
	}
	return true
}
