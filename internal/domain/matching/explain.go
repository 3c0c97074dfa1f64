package matching

import (
	"fmt"
	"strings"

	"github.com/som23ya/workwale-core/internal/domain/model"
)

// Explanation thresholds on the 0-100 scale and the 0-1 feature scale.
const (
	strongScore   = 80
	goodScore     = 60
	moderateScore = 40

	strongFeature = 0.8
	goodFeature   = 0.6
)

// Explain renders a human-readable summary of a score breakdown. It is a
// pure function of its arguments so identical scores always explain
// identically.
func Explain(value float64, features model.FeatureScores, matching, missing []string) string {
	parts := make([]string, 0, 5)

	switch {
	case value >= strongScore:
		parts = append(parts, "Excellent match.")
	case value >= goodScore:
		parts = append(parts, "Good match.")
	case value >= moderateScore:
		parts = append(parts, "Moderate match.")
	default:
		parts = append(parts, "Weak match.")
	}

	switch {
	case features.Skills >= strongFeature:
		parts = append(parts, fmt.Sprintf("Strong skills alignment with %d matching skills.", len(matching)))
	case features.Skills >= goodFeature:
		parts = append(parts, fmt.Sprintf("Good skills coverage with %d relevant skills.", len(matching)))
	case len(missing) > 0:
		parts = append(parts, fmt.Sprintf("Missing %d required skills: %s.", len(missing), previewSkills(missing)))
	}

	switch {
	case features.Location >= strongFeature:
		parts = append(parts, "Location is a direct fit.")
	case features.Location >= goodFeature:
		parts = append(parts, "Location is compatible.")
	}

	switch {
	case features.Salary >= strongFeature:
		parts = append(parts, "Salary expectations align with the posted range.")
	case features.Salary < goodFeature && features.Salary != neutralFeature:
		parts = append(parts, "Salary ranges barely overlap.")
	}

	return strings.Join(parts, " ")
}

const previewLimit = 3

func previewSkills(skills []string) string {
	if len(skills) <= previewLimit {
		return strings.Join(skills, ", ")
	}
	return strings.Join(skills[:previewLimit], ", ") + ", ..."
}
