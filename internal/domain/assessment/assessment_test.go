package assessment

import (
	"testing"
	"time"
)

func TestScorePercent(t *testing.T) {
	cases := []struct {
		earned, possible, want int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{2, 3, 67},
		{1, 3, 33},
		{5, 5, 100},
		{0, 7, 0},
	}
	for _, tc := range cases {
		if got := ScorePercent(tc.earned, tc.possible); got != tc.want {
			t.Fatalf("ScorePercent(%d,%d): want=%d got=%d", tc.earned, tc.possible, tc.want, got)
		}
	}
}

func TestAttemptCap(t *testing.T) {
	q := NewQuiz(1, nil, "final")
	if q.AttemptCap() != DefaultMaxAttempts {
		t.Fatalf("default cap: want=%d got=%d", DefaultMaxAttempts, q.AttemptCap())
	}
	q.MaxAttempts = 0
	if q.AttemptCap() != 0 {
		t.Fatalf("unlimited cap: want=0 got=%d", q.AttemptCap())
	}
	q.AllowRetakes = false
	if q.AttemptCap() != 1 {
		t.Fatalf("no-retake cap: want=1 got=%d", q.AttemptCap())
	}
	if !q.IsCourseLevel() {
		t.Fatalf("quiz without lesson should be course-level")
	}
}

func TestDeadline(t *testing.T) {
	q := NewQuiz(1, nil, "timed")
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	if _, ok := q.Deadline(start); ok {
		t.Fatalf("untimed quiz should have no deadline")
	}
	q.TimeLimitMinutes = 30
	d, ok := q.Deadline(start)
	if !ok || !d.Equal(start.Add(30*time.Minute)) {
		t.Fatalf("deadline: got=%v ok=%v", d, ok)
	}
}

func TestAttemptState(t *testing.T) {
	var missing *QuizAttempt
	if got := missing.State(); got != AttemptNotStarted {
		t.Fatalf("nil attempt: want %s got %s", AttemptNotStarted, got)
	}
	open := &QuizAttempt{AttemptNumber: 1}
	if got := open.State(); got != AttemptInProgress {
		t.Fatalf("open attempt: want %s got %s", AttemptInProgress, got)
	}
	open.IsCompleted = true
	if got := open.State(); got != AttemptCompleted {
		t.Fatalf("closed attempt: want %s got %s", AttemptCompleted, got)
	}
}
