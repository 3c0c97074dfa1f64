package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

// Put performs a PUT request with JSON body
func (c *HTTPClient) Put(url string, body interface{}) (*http.Response, error) {
	return c.do("PUT", url, body)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(url string, body interface{}) (*http.Response, error) {
	return c.do("POST", url, body)
}

func (c *HTTPClient) do(method, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest(method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// snapshotJob is one ingestion request: a PUT of body to path.
type snapshotJob struct {
	path string
	body interface{}
}

// submitSnapshots pushes postings then candidates through a worker pool.
// Postings go first so candidate rescores see the full posting set.
func submitSnapshots(ctx context.Context, config *Config, candidates []CandidateSnapshot, postings []PostingSnapshot, stats *Stats) error {
	jobs := make([]snapshotJob, 0, len(candidates)+len(postings))
	for i := range postings {
		jobs = append(jobs, snapshotJob{path: "/postings/" + postings[i].ID, body: postings[i]})
	}
	for i := range candidates {
		jobs = append(jobs, snapshotJob{path: "/candidates/" + candidates[i].ID, body: candidates[i]})
	}

	log.Printf("📤 Submitting %d snapshots with %d workers...", len(jobs), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Counters for statistics
	var (
		accepted  int64
		failed    int64
		submitted int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	jobChan := make(chan snapshotJob, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for job := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
					ok := submitSingleSnapshot(client, config.BaseURL+job.path, job.body)

					atomic.AddInt64(&submitted, 1)
					if ok {
						atomic.AddInt64(&accepted, 1)
					} else {
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						acc := atomic.LoadInt64(&accepted)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (accepted: %d, failed: %d)",
								total, len(jobs), acc, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (accepted: %d, failed: %d)",
								total, len(jobs), acc, fail)
						}
					}
				}
			}
		}()
	}

	// Send jobs to workers
	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.SnapshotsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SnapshotsAccepted = int(atomic.LoadInt64(&accepted))
	stats.SnapshotsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Snapshot submission completed:
   Accepted: %d
   Failed: %d
`, stats.SnapshotsAccepted, stats.SnapshotsFailed)

	return nil
}

// submitSingleSnapshot submits one snapshot and reports acceptance.
func submitSingleSnapshot(client *HTTPClient, url string, body interface{}) bool {
	resp, err := client.Put(url, body)
	if err != nil {
		return false
	}

	respBody, err := readResponseBody(resp)
	if err != nil {
		return false
	}

	if resp.StatusCode != StatusOK {
		return false
	}

	var ack AckResponse
	if err := unmarshalJSON(respBody, &ack); err == nil && ack.Status != "" {
		return true
	}
	return true // Assume stored for 200 even if parsing fails
}
