package lifecycle

import "fmt"

// InvalidTransitionError reports a status change not permitted from the
// current state. The stored state is left unchanged.
type InvalidTransitionError struct {
	ApplicationID string
	From          Status
	To            Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("application %s: transition %s -> %s is not allowed", e.ApplicationID, e.From, e.To)
}
