package repository

import (
	"context"
	"sync"
	"time"

	"github.com/som23ya/workwale-core/internal/domain/lifecycle"
	"github.com/som23ya/workwale-core/internal/domain/model"
)

// Memory is an in-memory implementation of every store interface. It backs
// tests and single-node deployments, and serves as the snapshot mirror for
// collaborator data in all deployments.
//
// All maps hold copies; nothing handed out shares slices with stored state.
type Memory struct {
	mu           sync.RWMutex
	matches      map[string][]model.MatchRecord
	applications map[string]lifecycle.Application
	appByPair    map[string]string
	profiles     map[string]model.CandidateProfile
	postings     map[string]model.JobPosting
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		matches:      make(map[string][]model.MatchRecord),
		applications: make(map[string]lifecycle.Application),
		appByPair:    make(map[string]string),
		profiles:     make(map[string]model.CandidateProfile),
		postings:     make(map[string]model.JobPosting),
	}
}

func pairKey(candidateID, jobID string) string {
	return candidateID + "\x00" + jobID
}

// ReplaceForCandidate swaps the candidate's match set under the write lock,
// so readers observe either the previous or the new set in full.
func (m *Memory) ReplaceForCandidate(_ context.Context, candidateID string, records []model.MatchRecord) ([]model.MatchRecord, error) {
	next := make([]model.MatchRecord, len(records))
	for i, rec := range records {
		next[i] = copyMatchRecord(rec)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	previous := make(map[string]struct{}, len(m.matches[candidateID]))
	for _, rec := range m.matches[candidateID] {
		previous[rec.JobID] = struct{}{}
	}

	created := make([]model.MatchRecord, 0)
	for _, rec := range next {
		if _, ok := previous[rec.JobID]; !ok {
			created = append(created, copyMatchRecord(rec))
		}
	}

	m.matches[candidateID] = next
	return created, nil
}

func (m *Memory) ListForCandidate(_ context.Context, candidateID string) ([]model.MatchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.matches[candidateID]
	out := make([]model.MatchRecord, len(stored))
	for i, rec := range stored {
		out[i] = copyMatchRecord(rec)
	}
	return out, nil
}

func (m *Memory) Create(_ context.Context, app lifecycle.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey(app.CandidateID, app.JobID)
	if _, ok := m.appByPair[key]; ok {
		return ErrDuplicateApplication
	}
	if _, ok := m.applications[app.ID]; ok {
		return ErrDuplicateApplication
	}
	m.applications[app.ID] = copyApplication(app)
	m.appByPair[key] = app.ID
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (lifecycle.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	app, ok := m.applications[id]
	if !ok {
		return lifecycle.Application{}, ErrApplicationNotFound
	}
	return copyApplication(app), nil
}

// Transition performs the version check and the status change under one
// critical section, which serializes concurrent transitions per application.
func (m *Memory) Transition(_ context.Context, id string, to lifecycle.Status, expectedVersion int64, actor string, at time.Time) (lifecycle.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	app, ok := m.applications[id]
	if !ok {
		return lifecycle.Application{}, ErrApplicationNotFound
	}
	if app.Version != expectedVersion {
		return lifecycle.Application{}, &ConflictError{
			ApplicationID: id,
			Expected:      expectedVersion,
			Actual:        app.Version,
		}
	}

	next, err := app.Transitioned(to, actor, at)
	if err != nil {
		return lifecycle.Application{}, err
	}
	m.applications[id] = next
	return copyApplication(next), nil
}

func (m *Memory) Profile(_ context.Context, candidateID string) (model.CandidateProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[candidateID]
	if !ok {
		return model.CandidateProfile{}, ErrCandidateNotFound
	}
	return copyProfile(profile), nil
}

func (m *Memory) CandidateIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.profiles))
	for id := range m.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *Memory) PutProfile(_ context.Context, profile model.CandidateProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[profile.ID] = copyProfile(profile)
	return nil
}

func (m *Memory) Posting(_ context.Context, jobID string) (model.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posting, ok := m.postings[jobID]
	if !ok {
		return model.JobPosting{}, ErrPostingNotFound
	}
	return copyPosting(posting), nil
}

func (m *Memory) Postings(_ context.Context) ([]model.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.JobPosting, 0, len(m.postings))
	for _, posting := range m.postings {
		out = append(out, copyPosting(posting))
	}
	return out, nil
}

func (m *Memory) PutPosting(_ context.Context, posting model.JobPosting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.postings[posting.ID] = copyPosting(posting)
	return nil
}

// CandidateCount returns the number of tracked candidate profiles.
func (m *Memory) CandidateCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}

func copyMatchRecord(rec model.MatchRecord) model.MatchRecord {
	out := rec
	out.MatchingSkills = append([]string(nil), rec.MatchingSkills...)
	out.MissingSkills = append([]string(nil), rec.MissingSkills...)
	return out
}

func copyApplication(app lifecycle.Application) lifecycle.Application {
	out := app
	out.History = make([]lifecycle.TransitionRecord, len(app.History))
	copy(out.History, app.History)
	return out
}

func copyProfile(p model.CandidateProfile) model.CandidateProfile {
	out := p
	out.Skills = append([]string(nil), p.Skills...)
	return out
}

func copyPosting(j model.JobPosting) model.JobPosting {
	out := j
	out.RequiredSkills = append([]model.WeightedSkill(nil), j.RequiredSkills...)
	out.PreferredSkills = append([]string(nil), j.PreferredSkills...)
	return out
}
