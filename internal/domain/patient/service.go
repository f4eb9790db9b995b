package patient

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caretrack/caretrack/pkg/apperror"
)

// Service orchestrates the patient aggregate: it loads the aggregate,
// validates payloads, applies mutations, recomputes the derived
// next-appointment field and persists. All collaborators are passed at
// construction and held immutably.
type Service struct {
	patients    PatientRepository
	attendances AttendanceRepository
	assessments AssessmentRepository
	progress    ProgressRepository
	logger      zerolog.Logger

	now func() time.Time

	// locks serializes read-modify-write sequences per patient id so two
	// concurrent attendance operations cannot both read a stale collection
	// before either recomputes the next appointment.
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewService(patients PatientRepository, attendances AttendanceRepository, assessments AssessmentRepository, progress ProgressRepository, logger zerolog.Logger) *Service {
	return &Service{
		patients:    patients,
		attendances: attendances,
		assessments: assessments,
		progress:    progress,
		logger:      logger,
		now:         time.Now,
	}
}

// lockPatient acquires the per-patient critical section and returns the
// release function.
func (s *Service) lockPatient(id uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// -- Patient --

// AddPatient validates and stores a new patient with empty child collections
// and no next appointment, then returns the full patient list in response
// form.
func (s *Service) AddPatient(ctx context.Context, req *CreateRequest) ([]*Response, error) {
	if err := ValidateCreateRequest(req); err != nil {
		return nil, err
	}
	p := NewPatientFromRequest(req)
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Str("patient_id", p.ID.String()).Msg("new patient added")

	all, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}
	return ToResponseList(all), nil
}

// GetAllPatients returns every stored patient. An empty store is a failure,
// not an empty list.
func (s *Service) GetAllPatients(ctx context.Context) ([]*Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(patients) == 0 {
		s.logger.Error().Msg("no patients were found")
		return nil, apperror.New(apperror.CodePatientNotFound, "no patients were found")
	}
	return patients, nil
}

// GetPatientByID loads a patient aggregate, child collections included.
func (s *Service) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodePatientNotFound, "patient %s can not be found", id)
	}
	return p, nil
}

// UpdatePatientInfo replaces all four mutable fields of a patient. The update
// is all-or-nothing: every field must be supplied and different from its
// current value or the whole operation fails.
func (s *Service) UpdatePatientInfo(ctx context.Context, id uuid.UUID, req *UpdateRequest) error {
	unlock := s.lockPatient(id)
	defer unlock()

	p, err := s.GetPatientByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ValidateUpdateRequest(req, p); err != nil {
		return err
	}

	p.FirstName = *req.FirstName
	p.LastName = *req.LastName
	p.DOB = *req.DOB
	p.ContactInfo = *req.ContactInfo

	if err := s.patients.Update(ctx, p); err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", id.String()).Msg("patient updated")
	return nil
}

// DeletePatient removes a patient; the storage layer cascades the delete to
// the owned collections. Failures are wrapped and reported, never retried.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("patient_id", id.String()).Msg("failed to delete patient")
		return apperror.Wrap(err, apperror.CodeDeleteOperationFailed, "failed to delete patient %s", id)
	}
	s.logger.Info().Str("patient_id", id.String()).Msg("patient deleted")
	return nil
}

// -- Attendance --

// ScheduleAttendance creates an unattended attendance for the patient,
// appends it to the aggregate and recomputes the next appointment.
func (s *Service) ScheduleAttendance(ctx context.Context, patientID uuid.UUID, req *AttendanceRequest) (*Attendance, error) {
	unlock := s.lockPatient(patientID)
	defer unlock()

	p, err := s.GetPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if err := ValidateAttendanceRequest(req, s.now()); err != nil {
		return nil, err
	}

	a := NewAttendanceFromRequest(req, p.ID)
	if err := s.attendances.Create(ctx, a); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeAttendanceMappingFailed, "failed to store attendance")
	}

	p.Attendances = append(p.Attendances, a)
	if err := s.recomputeNextAppointment(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("patient_id", p.ID.String()).
		Str("attendance_id", a.ID.String()).
		Msg("new attendance added to patient")
	return a, nil
}

// MarkAttendance marks an attendance as attended, stamping it with the
// current date rather than the originally scheduled one, then recomputes the
// owning patient's next appointment. Re-marking an already attended record is
// not an error; the date is simply stamped again.
func (s *Service) MarkAttendance(ctx context.Context, attendanceID uuid.UUID) error {
	a, err := s.attendances.GetByID(ctx, attendanceID)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeAttendanceNotFound, "attendance %s can not be found", attendanceID)
	}

	unlock := s.lockPatient(a.PatientID)
	defer unlock()

	a.DateOfAttendance = dateOnly(s.now())
	a.Attended = true
	if err := s.attendances.Update(ctx, a); err != nil {
		return err
	}
	s.logger.Info().Str("attendance_id", a.ID.String()).Msg("attendance marked")

	p, err := s.GetPatientByID(ctx, a.PatientID)
	if err != nil {
		return err
	}
	return s.recomputeNextAppointment(ctx, p)
}

// ListAttendances returns every attendance record across all patients. An
// empty store is a failure, not an empty list.
func (s *Service) ListAttendances(ctx context.Context) ([]*Attendance, error) {
	attendances, err := s.attendances.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(attendances) == 0 {
		s.logger.Error().Msg("no attendances were found")
		return nil, apperror.New(apperror.CodeAttendanceNotFound, "no attendances were found")
	}
	return attendances, nil
}

// CheckSchedule returns the dates of every unattended, strictly future
// attendance across all patients, in storage iteration order.
func (s *Service) CheckSchedule(ctx context.Context) ([]time.Time, error) {
	attendances, err := s.ListAttendances(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	dates := make([]time.Time, 0, len(attendances))
	for _, a := range attendances {
		if !a.Attended && a.DateOfAttendance.After(now) {
			dates = append(dates, a.DateOfAttendance)
		}
	}
	return dates, nil
}

// recomputeNextAppointment re-derives and persists the patient's cached
// next-appointment field. Invoked explicitly at the end of every mutation
// path that can affect it; never on read.
func (s *Service) recomputeNextAppointment(ctx context.Context, p *Patient) error {
	p.NextAppointment = NextAppointment(p.Attendances, s.now())
	if err := s.patients.Update(ctx, p); err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", p.ID.String()).Msg("patient next appointment updated")
	return nil
}

// -- Assessment --

// Assess validates and stores an assessment owned by the patient.
func (s *Service) Assess(ctx context.Context, patientID uuid.UUID, req *AssessmentRequest) (*Assessment, error) {
	unlock := s.lockPatient(patientID)
	defer unlock()

	p, err := s.GetPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if err := ValidateAssessmentRequest(req); err != nil {
		return nil, err
	}

	a := NewAssessmentFromRequest(req, p.ID)
	if err := s.assessments.Create(ctx, a); err != nil {
		return nil, err
	}
	p.Assessments = append(p.Assessments, a)
	s.logger.Info().
		Str("patient_id", p.ID.String()).
		Str("assessment_id", a.ID.String()).
		Msg("new assessment added")
	return a, nil
}

// UpdateAssessment replaces both title and points of an assessment. Partial
// updates are rejected.
func (s *Service) UpdateAssessment(ctx context.Context, id uuid.UUID, title *string, points *int) error {
	a, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeAssessmentNotFound, "assessment %s can not be found", id)
	}

	if title == nil || points == nil {
		return apperror.New(apperror.CodeAssessmentUpdateRejected, "assessment can not be updated: both title and points are required")
	}

	a.Title = *title
	a.Points = *points
	if err := s.assessments.Update(ctx, a); err != nil {
		return err
	}
	s.logger.Info().Str("assessment_id", a.ID.String()).Msg("assessment updated")
	return nil
}

// -- Progress --

// FillProgress appends a progress note to the patient. Progress records are
// never updated or deleted.
func (s *Service) FillProgress(ctx context.Context, patientID uuid.UUID, req *ProgressRequest) (*Progress, error) {
	p, err := s.GetPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	pr := NewProgressFromRequest(req, p.ID)
	if err := s.progress.Create(ctx, pr); err != nil {
		return nil, err
	}
	s.logger.Info().Str("patient_id", p.ID.String()).Msg("progress filled")
	return pr, nil
}

// ListProgressByPatient returns the patient's progress records.
func (s *Service) ListProgressByPatient(ctx context.Context, patientID uuid.UUID) ([]*Progress, error) {
	p, err := s.GetPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return s.progress.ListByPatient(ctx, p.ID)
}
