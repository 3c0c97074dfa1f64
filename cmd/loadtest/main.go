package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/som23ya/workwale-core/internal/loadtest"
)

// Default configuration constants.
const (
	defaultNumCandidates = 500
	defaultNumPostings   = 50
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultTestTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "Base URL of the service")
		candidates = flag.Int("candidates", defaultNumCandidates, "Number of candidate profiles to generate")
		postings   = flag.Int("postings", defaultNumPostings, "Number of job postings to generate")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		wait       = flag.Duration("wait", loadtest.DefaultProcessingWait, "Wait between ingestion and match retrieval")
		outputFile = flag.String("output", "", "Output file for generated snapshots (default: generated_snapshots_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for test output (default: loadtest_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	// Setup logging
	if err := loadtest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &loadtest.Config{
		BaseURL:        *baseURL,
		NumCandidates:  *candidates,
		NumPostings:    *postings,
		Workers:        *workers,
		Timeout:        *timeout,
		ProcessingWait: *wait,
		OutputFile:     *outputFile,
		LogFile:        *logFile,
		Verbose:        *verbose,
	}

	// Run the test
	if err := loadtest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
