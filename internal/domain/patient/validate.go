package patient

import (
	"time"

	"github.com/caretrack/caretrack/pkg/apperror"
)

// Validation rules are pure predicates over request payloads. Each returns a
// failure naming the rule that rejected the payload, or nil.

// ValidateCreateRequest checks the mandatory fields of a patient creation
// payload: first name, last name and date of birth. Contact info is optional
// and any non-null date of birth is accepted, future dates included.
func ValidateCreateRequest(req *CreateRequest) error {
	if req == nil {
		return apperror.New(apperror.CodeMandatoryFieldsMissing, "patient request was empty")
	}
	if req.FirstName == nil {
		return apperror.New(apperror.CodeMandatoryFieldsMissing, "mandatory field first_name is missing")
	}
	if req.LastName == nil {
		return apperror.New(apperror.CodeMandatoryFieldsMissing, "mandatory field last_name is missing")
	}
	if req.DOB == nil {
		return apperror.New(apperror.CodeMandatoryFieldsMissing, "mandatory field dob is missing")
	}
	return nil
}

// ValidateAttendanceRequest rejects an absent payload and dates strictly
// before the current date. The current date itself is accepted.
func ValidateAttendanceRequest(req *AttendanceRequest, now time.Time) error {
	if req == nil {
		return apperror.New(apperror.CodeMandatoryFieldsMissing, "attendance request was empty")
	}
	if req.DateOfAttendance == nil {
		return apperror.New(apperror.CodeMandatoryFieldsMissing, "mandatory field date_of_attendance is missing")
	}
	if dateOnly(*req.DateOfAttendance).Before(dateOnly(now)) {
		return apperror.New(apperror.CodeMandatoryFieldsMissing, "date_of_attendance is in the past")
	}
	return nil
}

// ValidateAssessmentRequest rejects an absent payload and missing title or
// points. Negative points are accepted.
func ValidateAssessmentRequest(req *AssessmentRequest) error {
	if req == nil {
		return apperror.New(apperror.CodeMandatoryFieldsMissing, "assessment request was empty")
	}
	if req.Points == nil {
		return apperror.New(apperror.CodeMandatoryFieldsMissing, "mandatory field points is missing")
	}
	if req.Title == nil {
		return apperror.New(apperror.CodeMandatoryFieldsMissing, "mandatory field title is missing")
	}
	return nil
}

// ValidateUpdateRequest enforces the all-or-nothing update contract: every
// updatable field must be present and different from the patient's current
// value, or the whole update is rejected naming the first failing field.
// Fields are checked in a fixed order, not via reflection.
func ValidateUpdateRequest(req *UpdateRequest, current *Patient) error {
	if req == nil {
		return apperror.New(apperror.CodeInvalidData, "update request was empty")
	}
	if !stringFieldChanged(req.FirstName, current.FirstName) {
		return invalidField("first_name")
	}
	if !stringFieldChanged(req.LastName, current.LastName) {
		return invalidField("last_name")
	}
	if req.DOB == nil || req.DOB.Equal(current.DOB) {
		return invalidField("dob")
	}
	if !stringFieldChanged(req.ContactInfo, current.ContactInfo) {
		return invalidField("contact_info")
	}
	return nil
}

func invalidField(name string) error {
	return apperror.New(apperror.CodeInvalidData, "field %s is missing or equal to the current value", name)
}

func stringFieldChanged(updated *string, original string) bool {
	return updated != nil && *updated != "" && *updated != original
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
