package model

import "fmt"

// ValidationError reports a malformed or missing required field on a
// collaborator-supplied record. Rejected before scoring.
type ValidationError struct {
	Field   string
	Reason  string
	Subject string
}

func (e *ValidationError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("validation failed for %s: %s %s", e.Subject, e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}
