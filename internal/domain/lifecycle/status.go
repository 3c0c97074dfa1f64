// Package lifecycle owns the application status state machine.
//
// Valid status graph:
//
//	Applied ──► Interview ──► Offered
//	   │            │
//	   ├────────────┴──► Rejected
//	   └────────────┬──► Withdrawn
//	                │
//	           (Interview)
//
// Offered, Rejected and Withdrawn are terminal states.
package lifecycle

import "fmt"

// Status values for an application.
type Status string

const (
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffered   Status = "Offered"
	StatusRejected  Status = "Rejected"
	StatusWithdrawn Status = "Withdrawn"
)

// validTransitions lists every allowed (from -> to) pair.
var validTransitions = map[Status][]Status{
	StatusApplied:   {StatusInterview, StatusRejected, StatusWithdrawn},
	StatusInterview: {StatusOffered, StatusRejected, StatusWithdrawn},
	// Offered, Rejected and Withdrawn are terminal, no outgoing transitions.
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values. Matching is case-sensitive.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusApplied, StatusInterview, StatusOffered, StatusRejected, StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// CanTransition returns true when moving from -> to is permitted by the
// state machine.
func CanTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true when status permits no outgoing transitions.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
