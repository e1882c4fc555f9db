package utils

import "fmt"

// Recoverable fault types returned by the marketplace engines. Handlers map
// these onto HTTP status codes; none of them should crash the process.

// ValidationError signals malformed or policy-violating input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InvalidStateTransitionError signals an action attempted outside the allowed
// source state (e.g. confirming an already-declined escrow).
type InvalidStateTransitionError struct {
	Entity string
	State  string
	Action string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s %s in state %q", e.Action, e.Entity, e.State)
}

// DeadlineExpiredError signals an action attempted after a hard deadline.
type DeadlineExpiredError struct {
	Deadline string
}

func (e *DeadlineExpiredError) Error() string {
	return "deadline expired at " + e.Deadline
}

// ExtensionLimitExceededError signals the extension budget is spent.
type ExtensionLimitExceededError struct {
	Max int
}

func (e *ExtensionLimitExceededError) Error() string {
	return fmt.Sprintf("extension limit reached (%d)", e.Max)
}

// ConcurrentModificationError signals a lost optimistic-lock race: another
// writer transitioned the record first.
type ConcurrentModificationError struct {
	Entity string
	ID     string
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("concurrent modification of %s %s", e.Entity, e.ID)
}
