package loadtest

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/som23ya/workwale-core/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileTypeDivisor = 6
)

// Candidate archetype cases.
const (
	caseJuniorGeneralist = 0
	caseMidBackend       = 1
	caseSeniorBackend    = 2
	caseDataEngineer     = 3
	caseFrontend         = 4
	casePolyglot         = 5
)

var skillPool = []string{
	"go", "postgresql", "redis", "docker", "kubernetes",
	"python", "spark", "airflow", "kafka",
	"javascript", "typescript", "react", "css",
	"terraform", "aws", "grpc", "linux",
}

var locations = []string{
	"Pune, Maharashtra",
	"Mumbai, Maharashtra",
	"Bengaluru, Karnataka",
	"Hyderabad, Telangana",
	"Remote",
}

var workTypes = []string{"remote", "hybrid", "onsite"}

var postingTitles = []string{
	"Backend Engineer", "Platform Engineer", "Data Engineer",
	"Frontend Engineer", "Site Reliability Engineer", "Full Stack Engineer",
}

var companies = []string{
	"Acme Systems", "Northwind Labs", "Blue Hills Tech",
	"Kinetic Works", "Lumen Data", "Verdant Software",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomIndex returns a random index in [0, n).
func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// pickSkills selects count distinct skills starting from a random offset.
func pickSkills(count int) []string {
	if count > len(skillPool) {
		count = len(skillPool)
	}
	start := randomIndex(len(skillPool))
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, skillPool[(start+i)%len(skillPool)])
	}
	return out
}

// generateSnapshots creates candidate and posting snapshots with a varied
// archetype distribution so scores spread across the full range.
func generateSnapshots(ctx context.Context, config *Config, stats *Stats) ([]CandidateSnapshot, []PostingSnapshot, error) {
	logger.Get().Info(ctx, "generating snapshots",
		logger.Int("candidates", config.NumCandidates),
		logger.Int("postings", config.NumPostings))

	candidates := make([]CandidateSnapshot, config.NumCandidates)
	for i := range candidates {
		candidates[i] = generateCandidate()
	}

	postings := make([]PostingSnapshot, config.NumPostings)
	for i := range postings {
		postings[i] = generatePosting()
	}

	stats.CandidatesGenerated = len(candidates)
	stats.PostingsGenerated = len(postings)
	logger.Get().Info(ctx, "generated snapshots successfully",
		logger.Int("candidates", len(candidates)),
		logger.Int("postings", len(postings)))

	return candidates, postings, nil
}

// generateCandidate creates one candidate profile from a random archetype.
func generateCandidate() CandidateSnapshot {
	archetype, _ := rand.Int(rand.Reader, big.NewInt(profileTypeDivisor))

	var skills []string
	var years float64
	var salaryMin int

	switch archetype.Int64() {
	case caseJuniorGeneralist:
		skills = pickSkills(3)
		years = 1 + getRandomFloat()*2
		salaryMin = 40_000 + randomIndex(20_000)
	case caseMidBackend:
		skills = []string{"go", "postgresql", "docker"}
		years = 3 + getRandomFloat()*3
		salaryMin = 80_000 + randomIndex(30_000)
	case caseSeniorBackend:
		skills = []string{"go", "postgresql", "redis", "kubernetes", "grpc"}
		years = 6 + getRandomFloat()*6
		salaryMin = 120_000 + randomIndex(50_000)
	case caseDataEngineer:
		skills = []string{"python", "spark", "airflow", "kafka"}
		years = 3 + getRandomFloat()*5
		salaryMin = 90_000 + randomIndex(40_000)
	case caseFrontend:
		skills = []string{"javascript", "typescript", "react", "css"}
		years = 2 + getRandomFloat()*4
		salaryMin = 70_000 + randomIndex(30_000)
	default:
		skills = pickSkills(5 + randomIndex(5))
		years = getRandomFloat() * 12
		salaryMin = 50_000 + randomIndex(100_000)
	}

	return CandidateSnapshot{
		ID:              uuid.New().String(),
		Skills:          skills,
		YearsExperience: years,
		Location:        locations[randomIndex(len(locations))],
		SalaryMin:       salaryMin,
		SalaryMax:       salaryMin + 30_000 + randomIndex(30_000),
		WorkType:        workTypes[randomIndex(len(workTypes))],
		UpdatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
}

// generatePosting creates one job posting with weighted required skills.
func generatePosting() PostingSnapshot {
	required := pickSkills(2 + randomIndex(3))
	weighted := make([]WeightedSkill, len(required))
	for i, name := range required {
		weighted[i] = WeightedSkill{Name: name, Weight: 1 + getRandomFloat()*2}
	}

	salaryMin := 60_000 + randomIndex(80_000)

	return PostingSnapshot{
		ID:              uuid.New().String(),
		Title:           postingTitles[randomIndex(len(postingTitles))],
		Company:         companies[randomIndex(len(companies))],
		RequiredSkills:  weighted,
		PreferredSkills: pickSkills(1 + randomIndex(2)),
		Location:        locations[randomIndex(len(locations))],
		SalaryMin:       salaryMin,
		SalaryMax:       salaryMin + 40_000 + randomIndex(40_000),
		WorkType:        workTypes[randomIndex(len(workTypes))],
		PostedAt:        time.Now().UTC().Add(-time.Duration(randomIndex(720)) * time.Hour).Format(time.RFC3339),
	}
}
