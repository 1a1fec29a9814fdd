package learning

import "testing"

func TestEnrollmentTransitions(t *testing.T) {
	cases := []struct {
		from, to EnrollmentStatus
		want     bool
	}{
		{EnrollmentActive, EnrollmentSuspended, true},
		{EnrollmentActive, EnrollmentCompleted, false},
		{EnrollmentSuspended, EnrollmentActive, true},
		{EnrollmentCancelled, EnrollmentActive, true},
		{EnrollmentCancelled, EnrollmentSuspended, false},
		{EnrollmentCompleted, EnrollmentActive, false},
		{EnrollmentCompleted, EnrollmentExpired, true},
		{EnrollmentExpired, EnrollmentActive, true},
		{EnrollmentActive, EnrollmentActive, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: want=%v got=%v", tc.from, tc.to, tc.want, got)
		}
	}
	if EnrollmentStatus("paused").Valid() {
		t.Fatalf("unknown status should be invalid")
	}
}

func TestProgressPercent(t *testing.T) {
	cases := []struct {
		completed, total int64
		want             float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{1, 4, 25},
		{4, 4, 100},
		{5, 4, 100},
	}
	for _, tc := range cases {
		if got := ProgressPercent(tc.completed, tc.total); got != tc.want {
			t.Fatalf("ProgressPercent(%d,%d): want=%v got=%v", tc.completed, tc.total, tc.want, got)
		}
	}
}
