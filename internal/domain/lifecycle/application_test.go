package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/som23ya/workwale-core/internal/domain/lifecycle"
)

var testTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestApplication() lifecycle.Application {
	return lifecycle.NewApplication("app-1", "cand-1", "job-1", "cand-1", testTime)
}

func TestNewApplication(t *testing.T) {
	app := newTestApplication()

	if app.Status != lifecycle.StatusApplied {
		t.Errorf("new application status = %s, want %s", app.Status, lifecycle.StatusApplied)
	}
	if app.Version != 1 {
		t.Errorf("new application version = %d, want 1", app.Version)
	}
	if len(app.History) != 1 {
		t.Fatalf("new application history length = %d, want 1", len(app.History))
	}
	entry := app.History[0]
	if entry.Seq != 1 {
		t.Errorf("creation entry seq = %d, want 1", entry.Seq)
	}
	if entry.From != "" {
		t.Errorf("creation entry from = %q, want empty", entry.From)
	}
	if entry.To != lifecycle.StatusApplied {
		t.Errorf("creation entry to = %s, want %s", entry.To, lifecycle.StatusApplied)
	}
	if !entry.At.Equal(testTime) {
		t.Errorf("creation entry at = %v, want %v", entry.At, testTime)
	}
}

func TestTransitioned_Valid(t *testing.T) {
	app := newTestApplication()
	later := testTime.Add(time.Hour)

	next, err := app.Transitioned(lifecycle.StatusInterview, "recruiter-1", later)
	if err != nil {
		t.Fatalf("Transitioned returned unexpected error: %v", err)
	}
	if next.Status != lifecycle.StatusInterview {
		t.Errorf("status = %s, want %s", next.Status, lifecycle.StatusInterview)
	}
	if next.Version != 2 {
		t.Errorf("version = %d, want 2", next.Version)
	}
	if len(next.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(next.History))
	}
	entry := next.History[1]
	if entry.Seq != 2 || entry.From != lifecycle.StatusApplied || entry.To != lifecycle.StatusInterview {
		t.Errorf("transition entry = %+v, want seq 2 Applied -> Interview", entry)
	}
	if entry.Actor != "recruiter-1" {
		t.Errorf("transition actor = %q, want recruiter-1", entry.Actor)
	}
}

func TestTransitioned_Invalid(t *testing.T) {
	app := newTestApplication()

	_, err := app.Transitioned(lifecycle.StatusOffered, "recruiter-1", testTime)
	if err == nil {
		t.Fatal("Applied -> Offered should fail")
	}
	var ite *lifecycle.InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("error type = %T, want *InvalidTransitionError", err)
	}
	if ite.From != lifecycle.StatusApplied || ite.To != lifecycle.StatusOffered {
		t.Errorf("error from/to = %s/%s, want Applied/Offered", ite.From, ite.To)
	}

	// Rejected attempt leaves the original untouched.
	if app.Status != lifecycle.StatusApplied || app.Version != 1 || len(app.History) != 1 {
		t.Errorf("original application mutated after failed transition: %+v", app)
	}
}

func TestTransitioned_FromTerminal(t *testing.T) {
	app := newTestApplication()
	app, err := app.Transitioned(lifecycle.StatusInterview, "recruiter-1", testTime)
	if err != nil {
		t.Fatalf("Applied -> Interview failed: %v", err)
	}
	app, err = app.Transitioned(lifecycle.StatusWithdrawn, "cand-1", testTime)
	if err != nil {
		t.Fatalf("Interview -> Withdrawn failed: %v", err)
	}

	if _, err := app.Transitioned(lifecycle.StatusOffered, "recruiter-1", testTime); err == nil {
		t.Error("Withdrawn -> Offered should fail")
	}
}

func TestTransitioned_HistoryNotShared(t *testing.T) {
	app := newTestApplication()
	next, err := app.Transitioned(lifecycle.StatusInterview, "recruiter-1", testTime)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	next.History[0].Actor = "mutated"
	if app.History[0].Actor == "mutated" {
		t.Error("history slice shared between application copies")
	}
}

func TestReplay(t *testing.T) {
	app := newTestApplication()
	app, _ = app.Transitioned(lifecycle.StatusInterview, "recruiter-1", testTime)
	app, _ = app.Transitioned(lifecycle.StatusOffered, "recruiter-1", testTime)

	status, err := lifecycle.Replay(app.History)
	if err != nil {
		t.Fatalf("Replay returned unexpected error: %v", err)
	}
	if status != lifecycle.StatusOffered {
		t.Errorf("replayed status = %s, want %s", status, lifecycle.StatusOffered)
	}
}

func TestReplay_BrokenChain(t *testing.T) {
	history := []lifecycle.TransitionRecord{
		{Seq: 1, To: lifecycle.StatusApplied, At: testTime},
		{Seq: 2, From: lifecycle.StatusApplied, To: lifecycle.StatusOffered, At: testTime},
	}
	if _, err := lifecycle.Replay(history); err == nil {
		t.Error("Replay should reject a history with an invalid transition")
	}
}

func TestReplay_Empty(t *testing.T) {
	if _, err := lifecycle.Replay(nil); err == nil {
		t.Error("Replay should reject an empty history")
	}
}
