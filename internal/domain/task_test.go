package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	before := time.Now().UTC()
	task, err := NewTask("store1", TaskKindSequenceStep, SequenceStepPayload{
		SequenceID: "seq1",
		StepIndex:  2,
	}, 30*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "store1", task.StoreID)
	assert.Equal(t, TaskKindSequenceStep, task.Kind)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Equal(t, DefaultTaskMaxRetries, task.MaxRetries)

	require.NotNil(t, task.NextRunAfter)
	assert.WithinDuration(t, before.Add(30*time.Minute), *task.NextRunAfter, 2*time.Second)

	var payload SequenceStepPayload
	require.NoError(t, json.Unmarshal(task.Payload, &payload))
	assert.Equal(t, "seq1", payload.SequenceID)
	assert.Equal(t, 2, payload.StepIndex)
}

func TestNewTask_InvalidPayload(t *testing.T) {
	_, err := NewTask("store1", TaskKindSequenceStart, make(chan int), 0)
	assert.Error(t, err)
}
