// Package apperror defines the failure taxonomy shared by the domain
// services and the HTTP transport. Every domain failure carries a Code that
// identifies the kind of failure and maps to a client-visible HTTP status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a kind of domain failure.
type Code string

const (
	CodePatientNotFound          Code = "PATIENT_NOT_FOUND"
	CodeAttendanceNotFound       Code = "ATTENDANCE_NOT_FOUND"
	CodeAssessmentNotFound       Code = "ASSESSMENT_NOT_FOUND"
	CodeMandatoryFieldsMissing   Code = "MANDATORY_FIELDS_MISSING"
	CodeInvalidData              Code = "INVALID_DATA"
	CodeAssessmentUpdateRejected Code = "ASSESSMENT_UPDATE_REJECTED"
	CodeDeleteOperationFailed    Code = "DELETE_OPERATION_FAILED"
	CodeAttendanceMappingFailed  Code = "ATTENDANCE_MAPPING_FAILED"
)

// HTTPStatus returns the client-visible status for the code: validation
// failures are 400s, absent entities 404s, everything else a 500.
func (c Code) HTTPStatus() int {
	switch c {
	case CodePatientNotFound, CodeAttendanceNotFound, CodeAssessmentNotFound:
		return http.StatusNotFound
	case CodeMandatoryFieldsMissing, CodeInvalidData:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain failure with an identifying code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is makes errors.Is match on the code alone, so callers can compare against
// a sentinel like &Error{Code: CodePatientNotFound}.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New builds a failure with the given code and message.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a failure that records err as its cause. The cause is reported,
// not retried; it stays reachable through errors.Unwrap.
func Wrap(err error, code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// CodeOf extracts the failure code from err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given failure code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
