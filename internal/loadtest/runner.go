package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/som23ya/workwale-core/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete matching load test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting matching load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("candidates", config.NumCandidates),
		logger.Int("postings", config.NumPostings),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("wait", config.ProcessingWait.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate snapshots
	candidates, postings, err := generateSnapshots(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("snapshot generation failed: %w", err)
	}

	// Step 3: Submit snapshots concurrently
	if err := submitSnapshots(ctx, config, candidates, postings, stats); err != nil {
		return fmt.Errorf("snapshot submission failed: %w", err)
	}

	// Step 4: Wait for rescoring
	logger.Get().Info(ctx, "waiting for rescore queue to drain")
	time.Sleep(config.ProcessingWait)

	// Step 5: Retrieve matches concurrently
	pages, err := retrieveMatches(ctx, config, candidates, stats)
	if err != nil {
		return fmt.Errorf("match retrieval failed: %w", err)
	}

	// Step 6: Verify ordering and bounds
	if err := verifyMatches(config, pages, stats); err != nil {
		return fmt.Errorf("match verification failed: %w", err)
	}

	// Step 7: Walk an application through its lifecycle
	if err := exerciseApplications(config, candidates, pages, stats); err != nil {
		return fmt.Errorf("application lifecycle failed: %w", err)
	}

	// Step 8: Save snapshots to file
	if err := saveSnapshotsToFile(ctx, config, candidates, postings); err != nil {
		logger.Get().Warn(ctx, "failed to save snapshots to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// snapshotDump is the saved-file layout.
type snapshotDump struct {
	Candidates []CandidateSnapshot `json:"candidates"`
	Postings   []PostingSnapshot   `json:"postings"`
}

// saveSnapshotsToFile saves the generated snapshots to a JSON file.
func saveSnapshotsToFile(ctx context.Context, config *Config, candidates []CandidateSnapshot, postings []PostingSnapshot) error {
	if len(candidates) == 0 && len(postings) == 0 {
		return fmt.Errorf("no snapshots to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_snapshots_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshotDump{Candidates: candidates, Postings: postings}); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}

	logger.Get().Info(ctx, "snapshots saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var acceptRate, snapshotsPerSecond float64

	if stats.SnapshotsSubmitted > 0 {
		acceptRate = float64(stats.SnapshotsAccepted) / float64(stats.SnapshotsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		snapshotsPerSecond = float64(stats.SnapshotsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("candidatesGenerated", stats.CandidatesGenerated),
		logger.Int("postingsGenerated", stats.PostingsGenerated),
		logger.Int("snapshotsSubmitted", stats.SnapshotsSubmitted),
		logger.Int("snapshotsAccepted", stats.SnapshotsAccepted),
		logger.Int("snapshotsFailed", stats.SnapshotsFailed),
		logger.Int("matchPagesRetrieved", stats.MatchPagesRetrieved),
		logger.Int("matchesSeen", stats.MatchesSeen),
		logger.Int("orderingViolations", stats.OrderingViolations),
		logger.Int("applicationsCreated", stats.ApplicationsCreated),
		logger.Int("transitionsApplied", stats.TransitionsApplied),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("snapshotsPerSecond", snapshotsPerSecond))
}
