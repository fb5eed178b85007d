package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("passes domain errors through", func(t *testing.T) {
		err := NewAlreadyCompleted("e1")
		mapped := ToDomainError(err)
		assert.Equal(t, "ALREADY_COMPLETED", mapped.Code)
		assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	})

	t.Run("maps pgx no rows to not found", func(t *testing.T) {
		mapped := ToDomainError(fmt.Errorf("query: %w", pgx.ErrNoRows))
		assert.Equal(t, "NOT_FOUND", mapped.Code)
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		mapped := ToDomainError(errors.New("boom"))
		assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	})
}

func TestDomainErrorMatching(t *testing.T) {
	t.Run("matches by code across instances", func(t *testing.T) {
		first := NewConcurrentModification("e1")
		second := NewConcurrentModification("e2")
		assert.ErrorIs(t, first, second)
	})

	t.Run("source unavailable keeps its cause", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		err := NewSourceUnavailable(cause)

		var domainErr *DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SOURCE_UNAVAILABLE", domainErr.Code)
		assert.Equal(t, http.StatusServiceUnavailable, domainErr.HTTPStatus)
		assert.ErrorIs(t, err, cause)
	})
}
