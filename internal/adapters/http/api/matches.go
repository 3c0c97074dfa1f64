// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// MatchDependencies defines the interface for match queries and rescoring.
type MatchDependencies interface {
	ListMatches(ctx context.Context, candidateID string, floor float64, offset, limit int) (MatchPage, error)
	EnqueueRescore(ctx context.Context, candidateID string) (bool, error)
}

// MatchesHandler handles ranked match queries and rescore requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleGetMatches handles GET /candidates/{id}/matches requests.
// Query parameters: min_score (float, optional), offset, limit.
func (h *MatchesHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	query := r.URL.Query()

	floor := -1.0
	if raw := query.Get("min_score"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		floor = parsed
	}

	offset := 0
	if raw := query.Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		offset = parsed
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = parsed
	}

	page, err := h.deps.ListMatches(r.Context(), id, floor, offset, limit)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandlePostRescore handles POST /candidates/{id}/rescore requests. The
// rescore runs asynchronously; a full queue answers 429.
func (h *MatchesHandler) HandlePostRescore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ok, err := h.deps.EnqueueRescore(r.Context(), id)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "queued"})
}
