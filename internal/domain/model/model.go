// Package model contains domain models passed between layers.
package model

import (
	"sort"
	"strings"
	"time"
)

// WorkType categorizes where work happens.
type WorkType string

const (
	WorkTypeRemote WorkType = "remote"
	WorkTypeHybrid WorkType = "hybrid"
	WorkTypeOnsite WorkType = "onsite"
)

// ParseWorkType converts a raw string to a WorkType. Unknown values map to
// the empty WorkType, which scoring treats as unspecified.
func ParseWorkType(s string) WorkType {
	switch WorkType(strings.ToLower(strings.TrimSpace(s))) {
	case WorkTypeRemote:
		return WorkTypeRemote
	case WorkTypeHybrid:
		return WorkTypeHybrid
	case WorkTypeOnsite:
		return WorkTypeOnsite
	}
	return ""
}

// SalaryRange is an annual salary band. Both bounds zero means unspecified.
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Unspecified reports whether no salary information is present.
func (r SalaryRange) Unspecified() bool {
	return r.Min == 0 && r.Max == 0
}

// CandidateProfile is a read-only snapshot supplied by the profile
// collaborator. The core never mutates it.
type CandidateProfile struct {
	ID              string
	Skills          []string
	YearsExperience float64
	Location        string
	Salary          SalaryRange
	WorkType        WorkType
	UpdatedAt       time.Time
}

// WeightedSkill is a posting skill requirement with an optional weight.
// A zero weight counts as 1.
type WeightedSkill struct {
	Name   string
	Weight float64
}

// EffectiveWeight returns the weight to use in skill overlap scoring.
func (s WeightedSkill) EffectiveWeight() float64 {
	if s.Weight <= 0 {
		return 1
	}
	return s.Weight
}

// JobPosting is a read-only snapshot supplied by the ingestion collaborator,
// immutable once scored against.
type JobPosting struct {
	ID              string
	Title           string
	Company         string
	RequiredSkills  []WeightedSkill
	PreferredSkills []string
	Location        string
	Salary          SalaryRange
	WorkType        WorkType
	PostedAt        time.Time
}

// FeatureScores holds the per-feature similarity breakdown, each in [0,1].
type FeatureScores struct {
	Skills   float64 `json:"skills"`
	Location float64 `json:"location"`
	Salary   float64 `json:"salary"`
	WorkType float64 `json:"work_type"`
}

// MatchRecord is the current score and explanation for one candidate/posting
// pair. At most one current record exists per (CandidateID, JobID);
// recomputation replaces it atomically.
type MatchRecord struct {
	CandidateID    string        `json:"candidate_id"`
	JobID          string        `json:"job_id"`
	Score          float64       `json:"score"`
	MatchingSkills []string      `json:"matching_skills"`
	MissingSkills  []string      `json:"missing_skills"`
	Features       FeatureScores `json:"features"`
	Explanation    string        `json:"explanation"`
	PostedAt       time.Time     `json:"posted_at"`
	ComputedAt     time.Time     `json:"computed_at"`
}

// NormalizeSkill canonicalizes a skill tag for comparison.
func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSkills canonicalizes, dedupes and sorts a skill tag list.
func NormalizeSkills(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		n := NormalizeSkill(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Validate reports malformed profile snapshots before scoring.
func (p *CandidateProfile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return &ValidationError{Field: "candidate_id", Reason: "must not be empty"}
	}
	if p.Salary.Min < 0 || p.Salary.Max < 0 || (p.Salary.Max > 0 && p.Salary.Min > p.Salary.Max) {
		return &ValidationError{Field: "salary", Reason: "invalid range", Subject: p.ID}
	}
	return nil
}

// Validate reports malformed posting snapshots before scoring.
func (j *JobPosting) Validate() error {
	if strings.TrimSpace(j.ID) == "" {
		return &ValidationError{Field: "job_id", Reason: "must not be empty"}
	}
	if j.Salary.Min < 0 || j.Salary.Max < 0 || (j.Salary.Max > 0 && j.Salary.Min > j.Salary.Max) {
		return &ValidationError{Field: "salary", Reason: "invalid range", Subject: j.ID}
	}
	return nil
}
