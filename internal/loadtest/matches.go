package loadtest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveMatches reads ranked match pages for all candidates concurrently.
func retrieveMatches(ctx context.Context, config *Config, candidates []CandidateSnapshot, stats *Stats) ([]MatchPage, error) {
	log.Printf("🔎 Retrieving matches for %d candidates with %d workers...", len(candidates), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage
	pages := make([]MatchPage, len(candidates))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					candidateID := candidates[index].ID
					page, err := retrieveSinglePage(client, config.BaseURL, candidateID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get matches for %s: %v", candidateID, err)
						}
					} else {
						pages[index] = page
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						log.Printf("🔎 Matches: %d/%d retrieved (success: %d, failed: %d)",
							total, len(candidates), ret, fail)
					}
				}
			}
		}()
	}

	// Send candidate indices to workers
	go func() {
		defer close(indexChan)
		for i := range candidates {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Update stats
	stats.MatchPagesRetrieved = int(atomic.LoadInt64(&retrieved))
	for _, page := range pages {
		stats.MatchesSeen += len(page.Matches)
	}

	log.Printf(`✅ Match retrieval completed:
   Pages: %d
   Matches: %d
   Failed: %d
`, stats.MatchPagesRetrieved, stats.MatchesSeen, int(atomic.LoadInt64(&failed)))

	return pages, nil
}

// retrieveSinglePage fetches one candidate's ranked matches with no floor so
// the full score spread is visible.
func retrieveSinglePage(client *HTTPClient, baseURL, candidateID string) (MatchPage, error) {
	url := fmt.Sprintf("%s/candidates/%s/matches?min_score=0&limit=100", baseURL, candidateID)

	resp, err := client.Get(url)
	if err != nil {
		return MatchPage{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return MatchPage{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return MatchPage{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var page MatchPage
	if err := unmarshalJSON(body, &page); err != nil {
		return MatchPage{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return page, nil
}
