package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRiskLevel(t *testing.T) {
	t.Run("recognizes enum values regardless of case", func(t *testing.T) {
		assert.Equal(t, RiskLevelCritical, NormalizeRiskLevel("critical"))
		assert.Equal(t, RiskLevelHigh, NormalizeRiskLevel("HIGH"))
		assert.Equal(t, RiskLevelMedium, NormalizeRiskLevel(" Medium "))
		assert.Equal(t, RiskLevelLow, NormalizeRiskLevel("low"))
	})

	t.Run("unrecognized input becomes unknown", func(t *testing.T) {
		assert.Equal(t, RiskLevelUnknown, NormalizeRiskLevel("severe"))
		assert.Equal(t, RiskLevelUnknown, NormalizeRiskLevel(""))
		assert.Equal(t, RiskLevelUnknown, NormalizeRiskLevel("   "))
	})
}
