// Package matching computes the score and explanation for one candidate
// profile against one job posting.
//
// Score is a pure function: identical inputs always produce an identical
// score and explanation set. No clock, randomness, or map iteration order
// leaks into the result, so recomputation is idempotent.
package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/som23ya/workwale-core/internal/domain/model"
)

// Feature contribution constants.
const (
	maxScore = 100

	// neutralFeature is the contribution of a feature whose inputs are
	// missing on either side. Neutral, not maximal and not zero, so absent
	// data never produces spurious extremes.
	neutralFeature = 0.5

	// adjacentWorkType is the credit for hybrid against remote or onsite.
	adjacentWorkType = 0.5

	// sameRegionCredit is the location credit for a region-level match.
	sameRegionCredit = 0.5

	// preferredBonusCap limits how much preferred-skill coverage can add on
	// top of the required-skill Jaccard.
	preferredBonusCap = 0.3
)

// Weights are the feature weights of the linear combination. They are
// normalized to sum to 1 before use.
type Weights struct {
	Skill    float64
	Location float64
	Salary   float64
	WorkType float64
}

// DefaultWeights returns the documented default feature weighting.
func DefaultWeights() Weights {
	return Weights{Skill: 0.50, Location: 0.20, Salary: 0.15, WorkType: 0.15}
}

// normalized scales the weights so they sum to 1. A non-positive sum falls
// back to the defaults.
func (w Weights) normalized() Weights {
	sum := w.Skill + w.Location + w.Salary + w.WorkType
	if sum <= 0 {
		return DefaultWeights()
	}
	return Weights{
		Skill:    w.Skill / sum,
		Location: w.Location / sum,
		Salary:   w.Salary / sum,
		WorkType: w.WorkType / sum,
	}
}

// Score is the result of evaluating one (profile, posting) pair.
type Score struct {
	Value          float64
	MatchingSkills []string
	MissingSkills  []string
	Features       model.FeatureScores
	Explanation    string
}

// Engine evaluates candidate/posting pairs. Safe for concurrent use; it
// holds only immutable configuration.
type Engine struct {
	weights Weights
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		weights: DefaultWeights(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.weights = e.weights.normalized()
	return e
}

// Score evaluates profile against posting. It performs no I/O and never
// mutates its inputs.
func (e *Engine) Score(profile *model.CandidateProfile, posting *model.JobPosting) (Score, error) {
	if err := profile.Validate(); err != nil {
		return Score{}, err
	}
	if err := posting.Validate(); err != nil {
		return Score{}, err
	}

	skillFeature, matching, missing := skillOverlap(profile, posting)
	features := model.FeatureScores{
		Skills:   skillFeature,
		Location: locationCompatibility(profile, posting),
		Salary:   salaryOverlap(profile.Salary, posting.Salary),
		WorkType: workTypeMatch(profile.WorkType, posting.WorkType),
	}

	value := maxScore * (e.weights.Skill*features.Skills +
		e.weights.Location*features.Location +
		e.weights.Salary*features.Salary +
		e.weights.WorkType*features.WorkType)
	value = math.Round(value*100) / 100
	value = math.Max(0, math.Min(maxScore, value))

	return Score{
		Value:          value,
		MatchingSkills: matching,
		MissingSkills:  missing,
		Features:       features,
		Explanation:    Explain(value, features, matching, missing),
	}, nil
}

// skillOverlap computes the weighted Jaccard of the candidate's skills over
// the posting's required set, with a capped bonus for preferred coverage.
// Empty skill information on either side contributes the neutral value.
func skillOverlap(profile *model.CandidateProfile, posting *model.JobPosting) (feature float64, matching, missing []string) {
	candidate := model.NormalizeSkills(profile.Skills)
	candidateSet := make(map[string]struct{}, len(candidate))
	for _, s := range candidate {
		candidateSet[s] = struct{}{}
	}

	matching = make([]string, 0, len(candidate))
	missing = make([]string, 0, len(posting.RequiredSkills))
	seen := make(map[string]struct{}, len(posting.RequiredSkills))

	var requiredTotal, requiredMatched float64
	for _, req := range posting.RequiredSkills {
		name := model.NormalizeSkill(req.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		w := req.EffectiveWeight()
		requiredTotal += w
		if _, ok := candidateSet[name]; ok {
			requiredMatched += w
			matching = append(matching, name)
		} else {
			missing = append(missing, name)
		}
	}

	var preferredTotal, preferredMatched float64
	for _, p := range model.NormalizeSkills(posting.PreferredSkills) {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		preferredTotal++
		if _, ok := candidateSet[p]; ok {
			preferredMatched++
			matching = append(matching, p)
		}
	}

	sort.Strings(matching)
	sort.Strings(missing)

	if len(candidate) == 0 {
		return neutralFeature, nil, missing
	}
	if requiredTotal == 0 {
		// No required set to measure against; the contribution stays neutral.
		return neutralFeature, matching, missing
	}

	feature = requiredMatched / requiredTotal
	if preferredTotal > 0 {
		feature += (preferredMatched / preferredTotal) * preferredBonusCap
	}
	return math.Min(1, feature), matching, missing
}

// locationCompatibility scores where the candidate is against where the work
// is. Remote postings are compatible with any location.
func locationCompatibility(profile *model.CandidateProfile, posting *model.JobPosting) float64 {
	if posting.WorkType == model.WorkTypeRemote {
		return 1
	}

	candidate := normalizeLocation(profile.Location)
	job := normalizeLocation(posting.Location)
	if candidate == "" || job == "" {
		return neutralFeature
	}
	if candidate == job {
		return 1
	}
	if region(candidate) != "" && region(candidate) == region(job) {
		return sameRegionCredit
	}
	return 0
}

func normalizeLocation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// region extracts the trailing component of a "city, region" location.
func region(loc string) string {
	parts := strings.Split(loc, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-1])
}

// salaryOverlap measures how much of the two salary bands intersect,
// relative to the narrower band. Either side unspecified is neutral.
func salaryOverlap(candidate, posting model.SalaryRange) float64 {
	if candidate.Unspecified() || posting.Unspecified() {
		return neutralFeature
	}

	cMin, cMax := bounds(candidate)
	pMin, pMax := bounds(posting)

	overlap := float64(min(cMax, pMax) - max(cMin, pMin))
	if overlap < 0 {
		return 0
	}

	narrower := math.Min(float64(cMax-cMin), float64(pMax-pMin))
	if narrower == 0 {
		// A point expectation inside the other band is a full match.
		return 1
	}
	return math.Min(1, overlap/narrower)
}

// bounds fills a missing bound from the present one so a half-open range
// still compares sensibly.
func bounds(r model.SalaryRange) (int, int) {
	lo, hi := r.Min, r.Max
	if hi == 0 {
		hi = lo
	}
	if lo == 0 {
		lo = hi
	}
	return lo, hi
}

// workTypeMatch scores work-type preference compatibility. Hybrid is
// adjacent to both remote and onsite.
func workTypeMatch(candidate, posting model.WorkType) float64 {
	if candidate == "" || posting == "" {
		return neutralFeature
	}
	if candidate == posting {
		return 1
	}
	if candidate == model.WorkTypeHybrid || posting == model.WorkTypeHybrid {
		return adjacentWorkType
	}
	return 0
}
