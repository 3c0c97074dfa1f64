// Package ranking orders match records for presentation. Ordering is total
// and deterministic: score descending, then posting recency descending, then
// job ID ascending, so the same input always produces the same page.
package ranking

import (
	"sort"

	"github.com/som23ya/workwale-core/internal/domain/model"
)

// DefaultFloor is the minimum score a match needs to appear in ranked output.
const DefaultFloor = 50.0

// Ranker filters and orders match records.
type Ranker struct {
	floor float64
}

// New creates a Ranker with the given options.
func New(opts ...Option) *Ranker {
	r := &Ranker{floor: DefaultFloor}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Floor returns the configured score floor.
func (r *Ranker) Floor() float64 {
	return r.floor
}

// Rank returns the records at or above the floor in ranked order. The input
// slice is not modified.
func (r *Ranker) Rank(records []model.MatchRecord) []model.MatchRecord {
	ranked := make([]model.MatchRecord, 0, len(records))
	for _, rec := range records {
		if rec.Score >= r.floor {
			ranked = append(ranked, rec)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return Less(ranked[i], ranked[j])
	})
	return ranked
}

// Less reports whether a ranks strictly before b.
func Less(a, b model.MatchRecord) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.PostedAt.Equal(b.PostedAt) {
		return a.PostedAt.After(b.PostedAt)
	}
	return a.JobID < b.JobID
}

// Page slices a ranked list. A non-positive limit or an offset past the end
// yields an empty slice, never an error.
func Page(ranked []model.MatchRecord, offset, limit int) []model.MatchRecord {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ranked) || limit <= 0 {
		return []model.MatchRecord{}
	}
	end := offset + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[offset:end]
}
