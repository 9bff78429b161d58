package cyclecount

import (
	"errors"
	"fmt"

	"stocktrack-backend/internal/models"
)

// The engine reports failures through this small taxonomy; the handler
// layer maps each kind onto an HTTP status without inspecting messages.

var (
	ErrNotFound       = errors.New("not found")
	ErrEmptySelection = errors.New("no items match the selected filter")
)

// ValidationError: blank or malformed caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InvalidTransitionError: the requested status change is not in the
// lifecycle table. Always names both states.
type InvalidTransitionError struct {
	From models.CycleCountStatus
	To   models.CycleCountStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// InvalidStateError: the operation itself is not permitted in the
// session's or entry's current state (delete, recount).
type InvalidStateError struct {
	Op     string
	Status string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s while status is %s", e.Op, e.Status)
}
