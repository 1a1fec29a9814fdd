package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("enrollment.enroll", "success", 10*time.Millisecond)
	h.ObserveOperation("quiz.start_attempt", "success", time.Millisecond)
	h.ObserveOperation("enrollment.enroll", "duplicate_enrollment", time.Millisecond)
	h.IncConflict("enrollment.enroll")
	h.IncRetry("quiz.start_attempt")

	if got := h.Statuses("enrollment.enroll"); len(got) != 2 || got[0] != "success" {
		t.Fatalf("unexpected statuses: %+v", got)
	}
	if got := h.LastStatus("enrollment.enroll"); got != "duplicate_enrollment" {
		t.Fatalf("last status: got=%s", got)
	}
	if got := h.LastStatus("missing"); got != "" {
		t.Fatalf("missing op should have no status, got=%s", got)
	}
	if len(h.Conflicts) != 1 || len(h.Retries) != 1 {
		t.Fatalf("unexpected counters conflicts=%v retries=%v", h.Conflicts, h.Retries)
	}
}
