package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverySettings_WithDefaults(t *testing.T) {
	t.Run("empty settings get defaults", func(t *testing.T) {
		s := RecoverySettings{}.WithDefaults()

		assert.Equal(t, DefaultAbandonmentThresholdMinutes, s.AbandonmentThresholdMinutes)
		assert.Equal(t, DefaultSequenceTimingMinutes, s.SequenceTimingMinutes)
	})

	t.Run("configured values are kept", func(t *testing.T) {
		s := RecoverySettings{
			AbandonmentThresholdMinutes: 30,
			SequenceTimingMinutes:       []int{60, 120},
		}.WithDefaults()

		assert.Equal(t, 30, s.AbandonmentThresholdMinutes)
		assert.Equal(t, []int{60, 120}, s.SequenceTimingMinutes)
	})
}

func TestRecoverySettings_Validate(t *testing.T) {
	valid := RecoverySettings{
		Enabled:                     true,
		AbandonmentThresholdMinutes: 60,
		SequenceTimingMinutes:       []int{120, 1440, 2880},
		DiscountEnabled:             true,
		DiscountPercent:             10,
	}

	t.Run("valid settings", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("timings must be strictly increasing", func(t *testing.T) {
		s := valid
		s.SequenceTimingMinutes = []int{120, 120, 1440}
		assert.Error(t, s.Validate())

		s.SequenceTimingMinutes = []int{1440, 120}
		assert.Error(t, s.Validate())
	})

	t.Run("negative threshold rejected", func(t *testing.T) {
		s := valid
		s.AbandonmentThresholdMinutes = -5
		assert.Error(t, s.Validate())
	})

	t.Run("discount percent bounds", func(t *testing.T) {
		s := valid
		s.DiscountPercent = 95
		assert.Error(t, s.Validate())

		s.DiscountPercent = -1
		assert.Error(t, s.Validate())
	})

	t.Run("malformed exclusion pattern rejected", func(t *testing.T) {
		s := valid
		s.ExcludeEmailPatterns = []string{"[invalid"}
		assert.Error(t, s.Validate())
	})
}

func TestRecoverySettings_ScanRoundTrip(t *testing.T) {
	s := RecoverySettings{
		Enabled:               true,
		MinCartValue:          25.5,
		SequenceTimingMinutes: []int{60, 120},
	}

	value, err := s.Value()
	require.NoError(t, err)

	var scanned RecoverySettings
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, s, scanned)
}
