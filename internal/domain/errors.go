package domain

import "errors"

var (
	// ErrCheckoutNotFound is returned when a checkout does not exist
	ErrCheckoutNotFound = errors.New("checkout not found")
	// ErrSequenceNotFound is returned when a sequence does not exist
	ErrSequenceNotFound = errors.New("sequence not found")
	// ErrStoreNotFound is returned when a store does not exist
	ErrStoreNotFound = errors.New("store not found")
	// ErrTaskNotFound is returned when a task does not exist
	ErrTaskNotFound = errors.New("task not found")

	// ErrSequenceAlreadyActive is returned when creating a sequence for a
	// checkout that already has an active one. The partial unique index on
	// recovery_sequences raises this even when two starts race past the
	// existence check.
	ErrSequenceAlreadyActive = errors.New("an active sequence already exists for this checkout")
)
