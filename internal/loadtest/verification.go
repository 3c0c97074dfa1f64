package loadtest

import (
	"fmt"
	"log"
	"time"
)

// verifyMatches checks the ordering and score bounds of every retrieved page.
func verifyMatches(config *Config, pages []MatchPage, stats *Stats) error {
	log.Println("🔍 Verifying match pages...")

	if stats.MatchPagesRetrieved == 0 {
		return fmt.Errorf("no match pages to verify")
	}

	violations := 0
	for _, page := range pages {
		violations += countOrderingViolations(page)
		for _, m := range page.Matches {
			if m.Score < 0 || m.Score > 100 {
				violations++
				log.Printf("⚠️  Score out of bounds for %s/%s: %.2f", m.CandidateID, m.JobID, m.Score)
			}
		}
	}

	stats.OrderingViolations = violations
	if violations > 0 {
		return fmt.Errorf("found %d ordering or bound violations", violations)
	}

	displayTopMatches(pages, config.Verbose)

	log.Println("✅ Match verification completed")
	return nil
}

// countOrderingViolations checks score descending, posting recency
// descending, then job ID ascending within one page.
func countOrderingViolations(page MatchPage) int {
	violations := 0
	for i := 1; i < len(page.Matches); i++ {
		prev, cur := page.Matches[i-1], page.Matches[i]
		switch {
		case cur.Score > prev.Score:
			violations++
		case cur.Score == prev.Score:
			prevAt, errA := time.Parse(time.RFC3339, prev.PostedAt)
			curAt, errB := time.Parse(time.RFC3339, cur.PostedAt)
			if errA != nil || errB != nil {
				continue
			}
			if curAt.After(prevAt) {
				violations++
			} else if curAt.Equal(prevAt) && cur.JobID < prev.JobID {
				violations++
			}
		}
	}
	return violations
}

// displayTopMatches shows the strongest match from each of the first pages.
func displayTopMatches(pages []MatchPage, verbose bool) {
	shown := 0
	for _, page := range pages {
		if len(page.Matches) == 0 {
			continue
		}
		top := page.Matches[0]
		log.Printf("   %s -> %s score %.2f", top.CandidateID, top.JobID, top.Score)
		if verbose && top.Explanation != "" {
			log.Printf("      %s", top.Explanation)
		}
		shown++
		if shown >= 10 {
			break
		}
	}
	if shown == 0 {
		log.Println("   (no matches above the floor)")
	}
}

// exerciseApplications walks one application through its lifecycle using the
// first candidate that has at least one match.
func exerciseApplications(config *Config, candidates []CandidateSnapshot, pages []MatchPage, stats *Stats) error {
	log.Println("📋 Exercising application lifecycle...")

	client := newHTTPClient(config.Timeout)

	var candidateID, jobID string
	for i, page := range pages {
		if len(page.Matches) > 0 {
			candidateID = candidates[i].ID
			jobID = page.Matches[0].JobID
			break
		}
	}
	if candidateID == "" {
		log.Println("⚠️  No matches found; skipping application lifecycle")
		return nil
	}

	app, err := createApplication(client, config.BaseURL, candidateID, jobID)
	if err != nil {
		return fmt.Errorf("application creation failed: %w", err)
	}
	stats.ApplicationsCreated++
	log.Printf("   Created application %s (%s, v%d)", app.ID, app.Status, app.Version)

	for _, next := range []string{"Interview", "Offered"} {
		app, err = transitionApplication(client, config.BaseURL, app.ID, next, app.Version)
		if err != nil {
			return fmt.Errorf("transition to %s failed: %w", next, err)
		}
		stats.TransitionsApplied++
		log.Printf("   Transitioned to %s (v%d)", app.Status, app.Version)
	}

	log.Println("✅ Application lifecycle completed")
	return nil
}

// createApplication posts a new application for the pair.
func createApplication(client *HTTPClient, baseURL, candidateID, jobID string) (Application, error) {
	body := map[string]string{
		"candidate_id": candidateID,
		"job_id":       jobID,
		"actor":        "loadtest",
	}
	resp, err := client.Post(baseURL+"/applications", body)
	if err != nil {
		return Application{}, err
	}
	respBody, err := readResponseBody(resp)
	if err != nil {
		return Application{}, err
	}
	if resp.StatusCode != StatusCreated {
		return Application{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}
	var app Application
	if err := unmarshalJSON(respBody, &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// transitionApplication advances an application with an optimistic version check.
func transitionApplication(client *HTTPClient, baseURL, appID, to string, expectedVersion int64) (Application, error) {
	body := map[string]interface{}{
		"to":               to,
		"expected_version": expectedVersion,
		"actor":            "loadtest",
	}
	resp, err := client.Post(baseURL+"/applications/"+appID+"/transitions", body)
	if err != nil {
		return Application{}, err
	}
	respBody, err := readResponseBody(resp)
	if err != nil {
		return Application{}, err
	}
	if resp.StatusCode != StatusOK {
		return Application{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}
	var app Application
	if err := unmarshalJSON(respBody, &app); err != nil {
		return Application{}, err
	}
	return app, nil
}
