// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/som23ya/workwale-core/internal/adapters/repository"
	service "github.com/som23ya/workwale-core/internal/app"
	"github.com/som23ya/workwale-core/internal/domain/lifecycle"
	"github.com/som23ya/workwale-core/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	UpsertProfile(ctx context.Context, profile model.CandidateProfile) error
	UpsertPosting(ctx context.Context, posting model.JobPosting) error

	ListMatches(ctx context.Context, candidateID string, floor float64, offset, limit int) (service.MatchPage, error)
	EnqueueRescore(ctx context.Context, candidateID string) (bool, error)

	CreateApplication(ctx context.Context, candidateID, jobID, actor string) (lifecycle.Application, error)
	GetApplication(ctx context.Context, appID string) (lifecycle.Application, error)
	TransitionApplication(ctx context.Context, appID string, to lifecycle.Status, expectedVersion int64, actor string) (lifecycle.Application, error)
}

// MatchPage mirrors the read shape returned by match queries.
type MatchPage = service.MatchPage

// Server wires HTTP routes for the business API.
type Server struct {
	candidatesHandler   *CandidatesHandler
	postingsHandler     *PostingsHandler
	matchesHandler      *MatchesHandler
	applicationsHandler *ApplicationsHandler
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		candidatesHandler:   NewCandidatesHandler(deps),
		postingsHandler:     NewPostingsHandler(deps),
		matchesHandler:      NewMatchesHandler(deps),
		applicationsHandler: NewApplicationsHandler(deps),
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("PUT /candidates/{id}", MetricsMiddleware(s.candidatesHandler.HandlePutCandidate, "candidates"))
	mux.HandleFunc("PUT /postings/{id}", MetricsMiddleware(s.postingsHandler.HandlePutPosting, "postings"))

	mux.HandleFunc("GET /candidates/{id}/matches", MetricsMiddleware(s.matchesHandler.HandleGetMatches, "matches"))
	mux.HandleFunc("POST /candidates/{id}/rescore", MetricsMiddleware(s.matchesHandler.HandlePostRescore, "rescore"))

	mux.HandleFunc("POST /applications", MetricsMiddleware(s.applicationsHandler.HandleCreateApplication, "applications"))
	mux.HandleFunc("GET /applications/{id}", MetricsMiddleware(s.applicationsHandler.HandleGetApplication, "applications"))
	mux.HandleFunc("POST /applications/{id}/transitions", MetricsMiddleware(s.applicationsHandler.HandlePostTransition, "transitions"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeMappedError translates domain errors to their HTTP shapes. Unknown
// errors become an opaque 500 so internals never leak to callers.
func writeMappedError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	var conflict *repository.ConflictError
	var invalid *lifecycle.InvalidTransitionError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "validation_error", verr)
	case errors.Is(err, repository.ErrApplicationNotFound),
		errors.Is(err, repository.ErrCandidateNotFound),
		errors.Is(err, repository.ErrPostingNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrDuplicateApplication):
		writeError(w, http.StatusConflict, "duplicate_application", err)
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, "version_conflict", conflict)
	case errors.As(err, &invalid):
		writeError(w, http.StatusUnprocessableEntity, "invalid_transition", invalid)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// parseTime accepts an RFC3339 timestamp, returning the zero time for "".
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
