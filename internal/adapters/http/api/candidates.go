// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/som23ya/workwale-core/internal/domain/model"
)

// CandidateDependencies defines the interface for candidate snapshot ingestion.
type CandidateDependencies interface {
	UpsertProfile(ctx context.Context, profile model.CandidateProfile) error
}

// CandidatesHandler handles candidate snapshot requests.
type CandidatesHandler struct {
	deps CandidateDependencies
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(deps CandidateDependencies) *CandidatesHandler {
	return &CandidatesHandler{deps: deps}
}

// candidateRequest mirrors the snapshot pushed by the profile service.
type candidateRequest struct {
	Skills          []string `json:"skills"`
	YearsExperience float64  `json:"years_experience"`
	Location        string   `json:"location"`
	SalaryMin       int      `json:"salary_min"`
	SalaryMax       int      `json:"salary_max"`
	WorkType        string   `json:"work_type"`
	UpdatedAt       string   `json:"updated_at"`
}

type ackResponse struct {
	Status string `json:"status"`
}

// HandlePutCandidate handles PUT /candidates/{id} requests.
func (h *CandidatesHandler) HandlePutCandidate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	updatedAt, err := parseTime(req.UpdatedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	profile := model.CandidateProfile{
		ID:              id,
		Skills:          req.Skills,
		YearsExperience: req.YearsExperience,
		Location:        req.Location,
		Salary:          model.SalaryRange{Min: req.SalaryMin, Max: req.SalaryMax},
		WorkType:        model.ParseWorkType(req.WorkType),
		UpdatedAt:       updatedAt,
	}
	if err := h.deps.UpsertProfile(r.Context(), profile); err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "stored"})
}
