package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. It is the aggregate root: it exclusively
// owns its attendance, assessment and progress collections, and carries the
// derived next-appointment date.
type Patient struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	DOB         time.Time `db:"dob" json:"dob"`
	ContactInfo string    `db:"contact_info" json:"contact_info"`

	// NextAppointment is derived from the attendance collection and cached.
	// It is recomputed on every mutation that can affect it, never on read.
	NextAppointment *time.Time `db:"next_appointment" json:"next_appointment,omitempty"`

	// Child collections in insertion order. Attendance order matters for the
	// next-appointment derivation.
	Attendances []*Attendance `db:"-" json:"attendances"`
	Assessments []*Assessment `db:"-" json:"assessments"`
	Progress    []*Progress   `db:"-" json:"progress"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Attendance maps to the attendance table. PatientID is a non-owning
// back-reference; the patient aggregate owns the record.
type Attendance struct {
	ID               uuid.UUID `db:"id" json:"id"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	DateOfAttendance time.Time `db:"date_of_attendance" json:"date_of_attendance"`
	Attended         bool      `db:"attended" json:"attended"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Assessment maps to the assessment table.
type Assessment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Title     string    `db:"title" json:"title"`
	Points    int       `db:"points" json:"points"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Progress maps to the progress table. Append-only: no update or delete
// operation exists for progress notes.
type Progress struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
