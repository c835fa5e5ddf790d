package services

import (
	"errors"
	"fmt"

	"alfredoptarigan/interview-maker/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// InvalidTransitionError reports an operation the current workflow state does
// not permit.
type InvalidTransitionError struct {
	From   models.SessionState
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from state %q", e.Action, e.From)
}

// GenerationFormatError reports a generation response that could not be
// parsed into the required shape. No questions are returned alongside it;
// callers never merge a partial result into the draft.
type GenerationFormatError struct {
	Reason string
}

func (e *GenerationFormatError) Error() string {
	return fmt.Sprintf("generation response format invalid: %s", e.Reason)
}

// NetworkError reports a transport-level failure on an external call. The
// workflow stays in its pre-call state and the user may retry.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// PersistenceError reports a failed or malformed persistence call. No token
// debit is attempted after it.
type PersistenceError struct {
	Status int
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("persistence call failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("persistence call failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// TokenDebitError reports a debit failure after the interview was already
// persisted. The attempt still reads as succeeded; the error exists for
// reconciliation, not for the submitter.
type TokenDebitError struct {
	Err error
}

func (e *TokenDebitError) Error() string {
	return fmt.Sprintf("token debit failed after persistence: %v", e.Err)
}

func (e *TokenDebitError) Unwrap() error { return e.Err }
