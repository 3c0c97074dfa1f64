package lifecycle

import (
	"fmt"
	"time"
)

// TransitionRecord is one immutable entry in an application's audit history.
// From is empty for the creation entry.
type TransitionRecord struct {
	Seq   int       `json:"seq"`
	From  Status    `json:"from,omitempty"`
	To    Status    `json:"to"`
	Actor string    `json:"actor"`
	At    time.Time `json:"at"`
}

// Application tracks a candidate's pursuit of one posting through the status
// lifecycle. Version guards concurrent writers; History is append-only and
// is the sole audit trail.
type Application struct {
	ID          string             `json:"id"`
	CandidateID string             `json:"candidate_id"`
	JobID       string             `json:"job_id"`
	Status      Status             `json:"status"`
	Version     int64              `json:"version"`
	History     []TransitionRecord `json:"history"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewApplication creates an application in the initial Applied state with
// version 1 and a single creation history entry.
func NewApplication(id, candidateID, jobID, actor string, at time.Time) Application {
	return Application{
		ID:          id,
		CandidateID: candidateID,
		JobID:       jobID,
		Status:      StatusApplied,
		Version:     1,
		History: []TransitionRecord{
			{Seq: 1, To: StatusApplied, Actor: actor, At: at},
		},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// Transitioned returns a copy of the application advanced to the given
// status, with one appended history entry and an incremented version. The
// receiver is not modified; history slices are never shared between copies.
func (a Application) Transitioned(to Status, actor string, at time.Time) (Application, error) {
	if !CanTransition(a.Status, to) {
		return Application{}, &InvalidTransitionError{ApplicationID: a.ID, From: a.Status, To: to}
	}

	next := a
	next.Status = to
	next.Version = a.Version + 1
	next.UpdatedAt = at
	next.History = make([]TransitionRecord, len(a.History), len(a.History)+1)
	copy(next.History, a.History)
	next.History = append(next.History, TransitionRecord{
		Seq:   len(a.History) + 1,
		From:  a.Status,
		To:    to,
		Actor: actor,
		At:    at,
	})
	return next, nil
}

// Replay reconstructs the current status from the audit history alone.
// It fails on an empty log, a non-creation first entry, an entry whose
// From does not chain with its predecessor, or an illegal transition.
func Replay(history []TransitionRecord) (Status, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("empty transition history")
	}
	if history[0].From != "" {
		return "", fmt.Errorf("first history entry must be a creation entry, got from=%q", history[0].From)
	}
	current := history[0].To
	for _, rec := range history[1:] {
		if rec.From != current {
			return "", fmt.Errorf("history entry %d: from=%q does not chain with %q", rec.Seq, rec.From, current)
		}
		if !CanTransition(rec.From, rec.To) {
			return "", fmt.Errorf("history entry %d: transition %s -> %s is not allowed", rec.Seq, rec.From, rec.To)
		}
		current = rec.To
	}
	return current, nil
}
