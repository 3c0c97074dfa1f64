package lifecycle_test

import (
	"testing"

	"github.com/som23ya/workwale-core/internal/domain/lifecycle"
)

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"Applied", "Interview", "Offered", "Rejected", "Withdrawn"}
	for _, s := range valid {
		got, err := lifecycle.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValue(t *testing.T) {
	for _, s := range []string{"UNKNOWN", "applied", " Applied", "Applied ", ""} {
		if _, err := lifecycle.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

func TestCanTransition_Valid(t *testing.T) {
	cases := []struct {
		from lifecycle.Status
		to   lifecycle.Status
	}{
		{lifecycle.StatusApplied, lifecycle.StatusInterview},
		{lifecycle.StatusApplied, lifecycle.StatusRejected},
		{lifecycle.StatusApplied, lifecycle.StatusWithdrawn},
		{lifecycle.StatusInterview, lifecycle.StatusOffered},
		{lifecycle.StatusInterview, lifecycle.StatusRejected},
		{lifecycle.StatusInterview, lifecycle.StatusWithdrawn},
	}
	for _, c := range cases {
		if !lifecycle.CanTransition(c.from, c.to) {
			t.Errorf("CanTransition(%s -> %s) should be true", c.from, c.to)
		}
	}
}

func TestCanTransition_SkipLevel(t *testing.T) {
	// Offered can only be reached through Interview.
	if lifecycle.CanTransition(lifecycle.StatusApplied, lifecycle.StatusOffered) {
		t.Error("CanTransition(Applied -> Offered) should be false (skip-level)")
	}
}

func TestCanTransition_FromTerminal(t *testing.T) {
	terminals := []lifecycle.Status{
		lifecycle.StatusOffered, lifecycle.StatusRejected, lifecycle.StatusWithdrawn,
	}
	targets := []lifecycle.Status{
		lifecycle.StatusApplied, lifecycle.StatusInterview, lifecycle.StatusOffered,
		lifecycle.StatusRejected, lifecycle.StatusWithdrawn,
	}
	for _, from := range terminals {
		if !lifecycle.IsTerminal(from) {
			t.Errorf("IsTerminal(%s) should be true", from)
		}
		for _, to := range targets {
			if lifecycle.CanTransition(from, to) {
				t.Errorf("CanTransition(%s -> %s) should be false (terminal state)", from, to)
			}
		}
	}
}

func TestCanTransition_Backwards(t *testing.T) {
	if lifecycle.CanTransition(lifecycle.StatusInterview, lifecycle.StatusApplied) {
		t.Error("CanTransition(Interview -> Applied) should be false (backwards)")
	}
}

func TestCanTransition_Self(t *testing.T) {
	all := []lifecycle.Status{
		lifecycle.StatusApplied, lifecycle.StatusInterview, lifecycle.StatusOffered,
		lifecycle.StatusRejected, lifecycle.StatusWithdrawn,
	}
	for _, s := range all {
		if lifecycle.CanTransition(s, s) {
			t.Errorf("CanTransition(%s -> %s) should be false (self)", s, s)
		}
	}
}

func TestIsTerminal_NonTerminals(t *testing.T) {
	for _, s := range []lifecycle.Status{lifecycle.StatusApplied, lifecycle.StatusInterview} {
		if lifecycle.IsTerminal(s) {
			t.Errorf("IsTerminal(%s) should be false", s)
		}
	}
}
