package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NewError(CodeNotFound, "enrollment.mark_completed", "enrollment not found", nil), "enrollment.mark_completed: enrollment not found (not_found)"},
		{NewError(CodeConflict, "quiz.start_attempt", "", nil), "quiz.start_attempt (conflict)"},
		{NewError(CodeValidation, "", "bad price", nil), "bad price (validation)"},
		{NewError(CodeInternal, "", "", nil), "internal"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error(): want=%q got=%q", tc.want, got)
		}
	}
}

func TestCodeOfThroughWrapping(t *testing.T) {
	cause := errors.New("unique violation")
	err := fmt.Errorf("outer: %w", NewError(CodeDuplicateEnrollment, "enrollment.enroll", "already enrolled", cause))
	if !IsCode(err, CodeDuplicateEnrollment) {
		t.Fatalf("expected duplicate_enrollment, got %q", CodeOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors carry no code")
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) should be nil")
	}
}
