package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caretrack/caretrack/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, first_name, last_name, dob, contact_info, next_appointment, created_at, updated_at`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DOB, &p.ContactInfo,
		&p.NextAppointment, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, first_name, last_name, dob, contact_info, next_appointment)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.FirstName, p.LastName, p.DOB, p.ContactInfo, p.NextAppointment)
	return err
}

// GetByID loads the full aggregate: the patient row plus its attendance,
// assessment and progress collections in insertion order.
func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	for _, p := range items {
		if err := r.loadChildren(ctx, p); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET first_name=$2, last_name=$3, dob=$4, contact_info=$5,
			next_appointment=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.DOB, p.ContactInfo, p.NextAppointment)
	return err
}

// Delete removes the patient row; the child tables cascade on delete.
func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *patientRepoPG) loadChildren(ctx context.Context, p *Patient) error {
	p.Attendances = []*Attendance{}
	p.Assessments = []*Assessment{}
	p.Progress = []*Progress{}

	rows, err := r.conn(ctx).Query(ctx, `SELECT `+attendanceCols+` FROM attendance WHERE patient_id = $1 ORDER BY seq`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return err
		}
		p.Attendances = append(p.Attendances, a)
	}
	if rows.Err() != nil {
		return rows.Err()
	}

	rows, err = r.conn(ctx).Query(ctx, `SELECT `+assessmentCols+` FROM assessment WHERE patient_id = $1 ORDER BY created_at, id`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return err
		}
		p.Assessments = append(p.Assessments, a)
	}
	if rows.Err() != nil {
		return rows.Err()
	}

	rows, err = r.conn(ctx).Query(ctx, `SELECT `+progressCols+` FROM progress WHERE patient_id = $1 ORDER BY created_at, id`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		pr, err := scanProgress(rows)
		if err != nil {
			return err
		}
		p.Progress = append(p.Progress, pr)
	}
	return rows.Err()
}

// =========== Attendance Repository ===========

type attendanceRepoPG struct{ pool *pgxpool.Pool }

func NewAttendanceRepoPG(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepoPG{pool: pool}
}

func (r *attendanceRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// seq is a serial column preserving insertion order; the scheduler depends
// on collection order, not chronological order.
const attendanceCols = `id, patient_id, date_of_attendance, attended, created_at, updated_at`

func scanAttendance(row pgx.Row) (*Attendance, error) {
	var a Attendance
	err := row.Scan(&a.ID, &a.PatientID, &a.DateOfAttendance, &a.Attended, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *attendanceRepoPG) Create(ctx context.Context, a *Attendance) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO attendance (id, patient_id, date_of_attendance, attended)
		VALUES ($1,$2,$3,$4)`,
		a.ID, a.PatientID, a.DateOfAttendance, a.Attended)
	return err
}

func (r *attendanceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Attendance, error) {
	return scanAttendance(r.conn(ctx).QueryRow(ctx, `SELECT `+attendanceCols+` FROM attendance WHERE id = $1`, id))
}

func (r *attendanceRepoPG) List(ctx context.Context) ([]*Attendance, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+attendanceCols+` FROM attendance ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *attendanceRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Attendance, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+attendanceCols+` FROM attendance WHERE patient_id = $1 ORDER BY seq`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *attendanceRepoPG) Update(ctx context.Context, a *Attendance) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE attendance SET date_of_attendance=$2, attended=$3, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.DateOfAttendance, a.Attended)
	return err
}

// =========== Assessment Repository ===========

type assessmentRepoPG struct{ pool *pgxpool.Pool }

func NewAssessmentRepoPG(pool *pgxpool.Pool) AssessmentRepository {
	return &assessmentRepoPG{pool: pool}
}

func (r *assessmentRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const assessmentCols = `id, patient_id, title, points, created_at, updated_at`

func scanAssessment(row pgx.Row) (*Assessment, error) {
	var a Assessment
	err := row.Scan(&a.ID, &a.PatientID, &a.Title, &a.Points, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *assessmentRepoPG) Create(ctx context.Context, a *Assessment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO assessment (id, patient_id, title, points)
		VALUES ($1,$2,$3,$4)`,
		a.ID, a.PatientID, a.Title, a.Points)
	return err
}

func (r *assessmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	return scanAssessment(r.conn(ctx).QueryRow(ctx, `SELECT `+assessmentCols+` FROM assessment WHERE id = $1`, id))
}

func (r *assessmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Assessment, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+assessmentCols+` FROM assessment WHERE patient_id = $1 ORDER BY created_at, id`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *assessmentRepoPG) Update(ctx context.Context, a *Assessment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE assessment SET title=$2, points=$3, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Title, a.Points)
	return err
}

// =========== Progress Repository ===========

type progressRepoPG struct{ pool *pgxpool.Pool }

func NewProgressRepoPG(pool *pgxpool.Pool) ProgressRepository { return &progressRepoPG{pool: pool} }

func (r *progressRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const progressCols = `id, patient_id, notes, created_at`

func scanProgress(row pgx.Row) (*Progress, error) {
	var p Progress
	err := row.Scan(&p.ID, &p.PatientID, &p.Notes, &p.CreatedAt)
	return &p, err
}

func (r *progressRepoPG) Create(ctx context.Context, p *Progress) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO progress (id, patient_id, notes)
		VALUES ($1,$2,$3)`,
		p.ID, p.PatientID, p.Notes)
	return err
}

func (r *progressRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Progress, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+progressCols+` FROM progress WHERE patient_id = $1 ORDER BY created_at, id`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Progress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
