package patient

import (
	"context"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AttendanceRepository interface {
	Create(ctx context.Context, a *Attendance) error
	GetByID(ctx context.Context, id uuid.UUID) (*Attendance, error)
	List(ctx context.Context) ([]*Attendance, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Attendance, error)
	Update(ctx context.Context, a *Attendance) error
}

type AssessmentRepository interface {
	Create(ctx context.Context, a *Assessment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Assessment, error)
	Update(ctx context.Context, a *Assessment) error
}

type ProgressRepository interface {
	Create(ctx context.Context, p *Progress) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Progress, error)
}
