// Package apierr carries aggregate failures to the HTTP edge as a status plus
// a stable machine code.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	case e.Status != 0:
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

var statusByCode = map[domainagg.ErrorCode]int{
	domainagg.CodeValidation:              http.StatusBadRequest,
	domainagg.CodeInvalidAnswerReference:  http.StatusBadRequest,
	domainagg.CodeNotFound:                http.StatusNotFound,
	domainagg.CodeConflict:                http.StatusConflict,
	domainagg.CodeDuplicateEnrollment:     http.StatusConflict,
	domainagg.CodeAttemptAlreadyCompleted: http.StatusConflict,
	domainagg.CodeRestrictedDeletion:      http.StatusConflict,
	domainagg.CodeAttemptLimitExceeded:    http.StatusTooManyRequests,
	domainagg.CodePreconditionFailed:      http.StatusPreconditionFailed,
	domainagg.CodeInvariantViolation:      http.StatusUnprocessableEntity,
	domainagg.CodeRetryable:               http.StatusServiceUnavailable,
	domainagg.CodeInternal:                http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for an aggregate error code.
func StatusFor(code domainagg.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromAggregate converts an aggregate error into an API error. Errors that
// carry no aggregate code become a 500 with code "internal". nil stays nil.
func FromAggregate(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	return New(StatusFor(code), string(code), err)
}
