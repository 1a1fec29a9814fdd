package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
)

func TestFromAggregate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domainagg.NewError(domainagg.CodeValidation, "Enroll", "bad", nil), http.StatusBadRequest, "validation"},
		{"duplicate", domainagg.NewError(domainagg.CodeDuplicateEnrollment, "Enroll", "", nil), http.StatusConflict, "duplicate_enrollment"},
		{"attempt cap", domainagg.NewError(domainagg.CodeAttemptLimitExceeded, "StartAttempt", "", nil), http.StatusTooManyRequests, "attempt_limit_exceeded"},
		{"restricted", domainagg.NewError(domainagg.CodeRestrictedDeletion, "Delete", "", nil), http.StatusConflict, "restricted_deletion"},
		{"wrapped", fmt.Errorf("handler: %w", domainagg.NewError(domainagg.CodeNotFound, "Get", "", nil)), http.StatusNotFound, "not_found"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromAggregate(tc.err)
			if got == nil || got.Status != tc.status || got.Code != tc.code {
				t.Fatalf("FromAggregate: got=%+v want status=%d code=%s", got, tc.status, tc.code)
			}
			if !errors.Is(got, tc.err) {
				t.Fatalf("api error should unwrap to the original")
			}
		})
	}
	if FromAggregate(nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
}

func TestStatusForUnknownCode(t *testing.T) {
	if got := StatusFor("made_up"); got != http.StatusInternalServerError {
		t.Fatalf("unknown code: got=%d", got)
	}
}

func TestErrorMessage(t *testing.T) {
	var nilErr *Error
	cases := []struct {
		err  *Error
		want string
	}{
		{nilErr, ""},
		{New(http.StatusNotFound, "not_found", errors.New("course 7 not found")), "course 7 not found"},
		{New(http.StatusConflict, "conflict", nil), "conflict"},
		{New(http.StatusTeapot, "", nil), "api error (418)"},
		{&Error{}, "api error"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error(): want %q got %q", tc.want, got)
		}
	}
}
