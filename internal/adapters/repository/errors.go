package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for store errors.
var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrPostingNotFound      = errors.New("posting not found")
	ErrDuplicateApplication = errors.New("application already exists for candidate and job")
)

// ConflictError reports a failed optimistic-concurrency check: the caller's
// expected version no longer matches the stored one.
type ConflictError struct {
	ApplicationID string
	Expected      int64
	Actual        int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("application %s: version conflict: expected %d, stored %d",
		e.ApplicationID, e.Expected, e.Actual)
}
