package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySequenceType(t *testing.T) {
	testCases := []struct {
		name     string
		history  *OrderHistory
		expected SequenceType
	}{
		{
			name:     "no history",
			history:  nil,
			expected: SequenceTypeFirstTime,
		},
		{
			name:     "zero orders",
			history:  &OrderHistory{OrderCount: 0, LifetimeValue: 0},
			expected: SequenceTypeFirstTime,
		},
		{
			name:     "returning customer",
			history:  &OrderHistory{OrderCount: 2, LifetimeValue: 120},
			expected: SequenceTypeReturning,
		},
		{
			name:     "high lifetime value",
			history:  &OrderHistory{OrderCount: 3, LifetimeValue: 800},
			expected: SequenceTypeHighValue,
		},
		{
			name:     "exactly at the high value threshold",
			history:  &OrderHistory{OrderCount: 1, LifetimeValue: HighValueLifetimeThreshold},
			expected: SequenceTypeHighValue,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifySequenceType(tc.history))
		})
	}
}

func TestOrderCompletedEvent_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		e := OrderCompletedEvent{StoreID: "store1", OrderID: "order1"}
		assert.NoError(t, e.Validate())
	})

	t.Run("missing store", func(t *testing.T) {
		e := OrderCompletedEvent{OrderID: "order1"}
		assert.Error(t, e.Validate())
	})

	t.Run("missing order", func(t *testing.T) {
		e := OrderCompletedEvent{StoreID: "store1"}
		assert.Error(t, e.Validate())
	})
}
