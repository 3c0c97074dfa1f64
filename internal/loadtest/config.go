package loadtest

import "time"

// Config holds configuration for the matching load test
type Config struct {
	BaseURL        string        // Base URL of the service
	NumCandidates  int           // Number of candidate profiles to generate
	NumPostings    int           // Number of job postings to generate
	Workers        int           // Number of concurrent workers
	Timeout        time.Duration // HTTP request timeout
	ProcessingWait time.Duration // Wait between ingestion and match retrieval
	OutputFile     string        // Output file for generated snapshots
	LogFile        string        // Log file for test output
	Verbose        bool          // Enable verbose logging
}

// CandidateSnapshot is the candidate ingestion payload
type CandidateSnapshot struct {
	ID              string   `json:"-"`
	Skills          []string `json:"skills"`
	YearsExperience float64  `json:"years_experience"`
	Location        string   `json:"location"`
	SalaryMin       int      `json:"salary_min"`
	SalaryMax       int      `json:"salary_max"`
	WorkType        string   `json:"work_type"`
	UpdatedAt       string   `json:"updated_at"`
}

// WeightedSkill is one required skill on a posting
type WeightedSkill struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// PostingSnapshot is the posting ingestion payload
type PostingSnapshot struct {
	ID              string          `json:"-"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	RequiredSkills  []WeightedSkill `json:"required_skills"`
	PreferredSkills []string        `json:"preferred_skills"`
	Location        string          `json:"location"`
	SalaryMin       int             `json:"salary_min"`
	SalaryMax       int             `json:"salary_max"`
	WorkType        string          `json:"work_type"`
	PostedAt        string          `json:"posted_at"`
}

// MatchEntry is one ranked match returned by the service
type MatchEntry struct {
	CandidateID string  `json:"candidate_id"`
	JobID       string  `json:"job_id"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
	PostedAt    string  `json:"posted_at"`
}

// MatchPage is the response from the matches endpoint
type MatchPage struct {
	Matches []MatchEntry `json:"matches"`
	Total   int          `json:"total"`
	Partial bool         `json:"partial"`
}

// Application is the application resource returned by the service
type Application struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`
	Status      string `json:"status"`
	Version     int64  `json:"version"`
}

// AckResponse is the response from snapshot ingestion
type AckResponse struct {
	Status string `json:"status"`
}

// Stats holds test statistics
type Stats struct {
	CandidatesGenerated int
	PostingsGenerated   int
	SnapshotsSubmitted  int
	SnapshotsAccepted   int
	SnapshotsFailed     int
	MatchPagesRetrieved int
	MatchesSeen         int
	OrderingViolations  int
	ApplicationsCreated int
	TransitionsApplied  int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
