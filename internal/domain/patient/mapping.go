package patient

import (
	"time"

	"github.com/google/uuid"
)

// Request payloads. Every mutable field is a pointer so that validation can
// tell an absent field from a zero value.

type CreateRequest struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	DOB         *time.Time `json:"dob"`
	ContactInfo *string    `json:"contact_info"`
}

type UpdateRequest struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	DOB         *time.Time `json:"dob"`
	ContactInfo *string    `json:"contact_info"`
}

type AttendanceRequest struct {
	DateOfAttendance *time.Time `json:"date_of_attendance"`
}

type AssessmentRequest struct {
	Title  *string `json:"title"`
	Points *int    `json:"points"`
}

type ProgressRequest struct {
	Notes string `json:"notes"`
}

// Response is the transport shape of a patient aggregate.
type Response struct {
	ID              uuid.UUID     `json:"id"`
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	DOB             time.Time     `json:"dob"`
	ContactInfo     string        `json:"contact_info"`
	NextAppointment *time.Time    `json:"next_appointment,omitempty"`
	Attendances     []*Attendance `json:"attendances"`
	Assessments     []*Assessment `json:"assessments"`
	Progress        []*Progress   `json:"progress"`
}

// NewPatientFromRequest maps a validated create payload to a Patient with
// empty child collections and no next appointment. Pure: no lookups, no
// side effects.
func NewPatientFromRequest(req *CreateRequest) *Patient {
	p := &Patient{
		FirstName:   strVal(req.FirstName),
		LastName:    strVal(req.LastName),
		ContactInfo: strVal(req.ContactInfo),
		Attendances: []*Attendance{},
		Assessments: []*Assessment{},
		Progress:    []*Progress{},
	}
	if req.DOB != nil {
		p.DOB = *req.DOB
	}
	return p
}

// NewAttendanceFromRequest maps a validated attendance payload to an
// Attendance owned by patientID. New attendances always start unattended.
func NewAttendanceFromRequest(req *AttendanceRequest, patientID uuid.UUID) *Attendance {
	a := &Attendance{PatientID: patientID, Attended: false}
	if req.DateOfAttendance != nil {
		a.DateOfAttendance = *req.DateOfAttendance
	}
	return a
}

// NewAssessmentFromRequest maps a validated assessment payload to an
// Assessment owned by patientID.
func NewAssessmentFromRequest(req *AssessmentRequest, patientID uuid.UUID) *Assessment {
	a := &Assessment{PatientID: patientID}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Points != nil {
		a.Points = *req.Points
	}
	return a
}

// NewProgressFromRequest maps a progress payload to a Progress record owned
// by patientID.
func NewProgressFromRequest(req *ProgressRequest, patientID uuid.UUID) *Progress {
	return &Progress{PatientID: patientID, Notes: req.Notes}
}

// ToResponse maps a patient aggregate to its transport shape.
func ToResponse(p *Patient) *Response {
	return &Response{
		ID:              p.ID,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		DOB:             p.DOB,
		ContactInfo:     p.ContactInfo,
		NextAppointment: p.NextAppointment,
		Attendances:     p.Attendances,
		Assessments:     p.Assessments,
		Progress:        p.Progress,
	}
}

// ToResponseList maps a patient list to transport shape.
func ToResponseList(patients []*Patient) []*Response {
	out := make([]*Response, 0, len(patients))
	for _, p := range patients {
		out = append(out, ToResponse(p))
	}
	return out
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
