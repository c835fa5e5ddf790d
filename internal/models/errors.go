package models

import "fmt"

// ValidationError reports a malformed or out-of-range draft mutation. It is
// recovered at the handler boundary as inline field feedback and never
// propagates past the draft.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
