package hierarchy

import "fmt"

// NotFoundError reports that a referenced folder or source does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ValidationError reports a request that would violate hierarchy rules.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// OperationFailureError reports a persistence call that was accepted
// but affected no rows where rows were expected.
type OperationFailureError struct {
	Op string
}

func (e *OperationFailureError) Error() string {
	return e.Op + ": no rows affected"
}
