// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/som23ya/workwale-core/internal/domain/model"
)

// PostingDependencies defines the interface for posting snapshot ingestion.
type PostingDependencies interface {
	UpsertPosting(ctx context.Context, posting model.JobPosting) error
}

// PostingsHandler handles posting snapshot requests.
type PostingsHandler struct {
	deps PostingDependencies
}

// NewPostingsHandler creates a new postings handler.
func NewPostingsHandler(deps PostingDependencies) *PostingsHandler {
	return &PostingsHandler{deps: deps}
}

// postingRequest mirrors the snapshot pushed by the ingestion service.
type postingRequest struct {
	Title           string               `json:"title"`
	Company         string               `json:"company"`
	RequiredSkills  []weightedSkillInput `json:"required_skills"`
	PreferredSkills []string             `json:"preferred_skills"`
	Location        string               `json:"location"`
	SalaryMin       int                  `json:"salary_min"`
	SalaryMax       int                  `json:"salary_max"`
	WorkType        string               `json:"work_type"`
	PostedAt        string               `json:"posted_at"`
}

type weightedSkillInput struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// HandlePutPosting handles PUT /postings/{id} requests.
func (h *PostingsHandler) HandlePutPosting(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req postingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	postedAt, err := parseTime(req.PostedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	required := make([]model.WeightedSkill, 0, len(req.RequiredSkills))
	for _, s := range req.RequiredSkills {
		required = append(required, model.WeightedSkill{Name: s.Name, Weight: s.Weight})
	}

	posting := model.JobPosting{
		ID:              id,
		Title:           req.Title,
		Company:         req.Company,
		RequiredSkills:  required,
		PreferredSkills: req.PreferredSkills,
		Location:        req.Location,
		Salary:          model.SalaryRange{Min: req.SalaryMin, Max: req.SalaryMax},
		WorkType:        model.ParseWorkType(req.WorkType),
		PostedAt:        postedAt,
	}
	if err := h.deps.UpsertPosting(r.Context(), posting); err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "stored"})
}
