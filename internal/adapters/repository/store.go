// Package repository defines the persistence interfaces for match sets,
// applications, and collaborator snapshot mirrors, with in-memory and
// Postgres implementations.
package repository

import (
	"context"
	"time"

	"github.com/som23ya/workwale-core/internal/domain/lifecycle"
	"github.com/som23ya/workwale-core/internal/domain/model"
)

// MatchStore provides access to the current match set per candidate.
type MatchStore interface {
	// ReplaceForCandidate atomically swaps the candidate's match set.
	// Readers see either the old set or the new set, never a mix. It
	// returns the subset of records whose (candidate, job) pair had no
	// record in the previous set.
	ReplaceForCandidate(ctx context.Context, candidateID string, records []model.MatchRecord) ([]model.MatchRecord, error)

	// ListForCandidate returns the candidate's current match set in
	// unspecified order. A candidate with no matches yields an empty
	// slice, not an error.
	ListForCandidate(ctx context.Context, candidateID string) ([]model.MatchRecord, error)
}

// ApplicationStore provides access to application aggregates. Concurrent
// transitions on one application are serialized through the version check.
type ApplicationStore interface {
	// Create persists a new application. Returns ErrDuplicateApplication
	// if an application already exists for the same candidate and job.
	Create(ctx context.Context, app lifecycle.Application) error

	// Get returns the application with its full history.
	// Returns ErrApplicationNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (lifecycle.Application, error)

	// Transition applies a status change if and only if the stored
	// version equals expectedVersion. On a stale version it returns a
	// *ConflictError and changes nothing. On success it returns the
	// updated application.
	Transition(ctx context.Context, id string, to lifecycle.Status, expectedVersion int64, actor string, at time.Time) (lifecycle.Application, error)
}

// ProfileSource reads candidate profile snapshots.
type ProfileSource interface {
	// Profile returns the candidate's latest snapshot.
	// Returns ErrCandidateNotFound if the candidate is unknown.
	Profile(ctx context.Context, candidateID string) (model.CandidateProfile, error)

	// CandidateIDs returns every known candidate ID.
	CandidateIDs(ctx context.Context) ([]string, error)
}

// PostingSource reads job posting snapshots.
type PostingSource interface {
	// Posting returns a single posting snapshot.
	// Returns ErrPostingNotFound if the job is unknown.
	Posting(ctx context.Context, jobID string) (model.JobPosting, error)

	// Postings returns every known posting.
	Postings(ctx context.Context) ([]model.JobPosting, error)
}

// ProfileMirror is a ProfileSource that accepts snapshot updates from the
// owning collaborator service.
type ProfileMirror interface {
	ProfileSource
	PutProfile(ctx context.Context, profile model.CandidateProfile) error
}

// PostingMirror is a PostingSource that accepts snapshot updates.
type PostingMirror interface {
	PostingSource
	PutPosting(ctx context.Context, posting model.JobPosting) error
}
