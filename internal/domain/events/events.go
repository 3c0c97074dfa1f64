// Package events defines the domain events the service emits. Emission is
// observational: consumers may lag or drop, state changes never depend on it.
package events

import (
	"time"

	"github.com/som23ya/workwale-core/internal/domain/lifecycle"
)

// Kind identifies a domain event type on the wire.
type Kind string

const (
	KindMatchCreated  Kind = "match_created"
	KindStatusChanged Kind = "status_changed"
)

// Event is the envelope published to consumers.
type Event struct {
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	Match  *MatchCreated  `json:"match,omitempty"`
	Status *StatusChanged `json:"status,omitempty"`
}

// MatchCreated is emitted when a scoring run produces a new match record for
// a candidate/job pair.
type MatchCreated struct {
	CandidateID string  `json:"candidate_id"`
	JobID       string  `json:"job_id"`
	Score       float64 `json:"score"`
}

// StatusChanged is emitted after a successful application transition.
type StatusChanged struct {
	ApplicationID string           `json:"application_id"`
	CandidateID   string           `json:"candidate_id"`
	JobID         string           `json:"job_id"`
	From          lifecycle.Status `json:"from"`
	To            lifecycle.Status `json:"to"`
	Actor         string           `json:"actor"`
}

// NewMatchCreated builds a match_created envelope.
func NewMatchCreated(candidateID, jobID string, score float64, at time.Time) Event {
	return Event{
		Kind:      KindMatchCreated,
		Timestamp: at,
		Match: &MatchCreated{
			CandidateID: candidateID,
			JobID:       jobID,
			Score:       score,
		},
	}
}

// NewStatusChanged builds a status_changed envelope.
func NewStatusChanged(applicationID, candidateID, jobID string, from, to lifecycle.Status, actor string, at time.Time) Event {
	return Event{
		Kind:      KindStatusChanged,
		Timestamp: at,
		Status: &StatusChanged{
			ApplicationID: applicationID,
			CandidateID:   candidateID,
			JobID:         jobID,
			From:          from,
			To:            to,
			Actor:         actor,
		},
	}
}
