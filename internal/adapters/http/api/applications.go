// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/som23ya/workwale-core/internal/domain/lifecycle"
)

// ApplicationDependencies defines the interface for application tracking.
type ApplicationDependencies interface {
	CreateApplication(ctx context.Context, candidateID, jobID, actor string) (lifecycle.Application, error)
	GetApplication(ctx context.Context, appID string) (lifecycle.Application, error)
	TransitionApplication(ctx context.Context, appID string, to lifecycle.Status, expectedVersion int64, actor string) (lifecycle.Application, error)
}

// ApplicationsHandler handles application lifecycle requests.
type ApplicationsHandler struct {
	deps ApplicationDependencies
}

// NewApplicationsHandler creates a new applications handler.
func NewApplicationsHandler(deps ApplicationDependencies) *ApplicationsHandler {
	return &ApplicationsHandler{deps: deps}
}

type createApplicationRequest struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`
	Actor       string `json:"actor"`
}

func (req createApplicationRequest) validate() error {
	switch {
	case strings.TrimSpace(req.CandidateID) == "":
		return ErrBadRequest
	case strings.TrimSpace(req.JobID) == "":
		return ErrBadRequest
	case strings.TrimSpace(req.Actor) == "":
		return ErrBadRequest
	}
	return nil
}

type transitionRequest struct {
	To              string `json:"to"`
	ExpectedVersion int64  `json:"expected_version"`
	Actor           string `json:"actor"`
}

// applicationResponse is the API shape of an application aggregate.
type applicationResponse struct {
	ID          string                       `json:"id"`
	CandidateID string                       `json:"candidate_id"`
	JobID       string                       `json:"job_id"`
	Status      lifecycle.Status             `json:"status"`
	Version     int64                        `json:"version"`
	History     []lifecycle.TransitionRecord `json:"history"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

func toApplicationResponse(app lifecycle.Application) applicationResponse {
	return applicationResponse{
		ID:          app.ID,
		CandidateID: app.CandidateID,
		JobID:       app.JobID,
		Status:      app.Status,
		Version:     app.Version,
		History:     app.History,
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
	}
}

// HandleCreateApplication handles POST /applications requests.
func (h *ApplicationsHandler) HandleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	app, err := h.deps.CreateApplication(r.Context(), req.CandidateID, req.JobID, req.Actor)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toApplicationResponse(app))
}

// HandleGetApplication handles GET /applications/{id} requests.
func (h *ApplicationsHandler) HandleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.deps.GetApplication(r.Context(), r.PathValue("id"))
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

// HandlePostTransition handles POST /applications/{id}/transitions requests.
func (h *ApplicationsHandler) HandlePostTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.Actor) == "" || req.ExpectedVersion < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	to, err := lifecycle.ParseStatus(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	app, err := h.deps.TransitionApplication(r.Context(), r.PathValue("id"), to, req.ExpectedVersion, req.Actor)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}
