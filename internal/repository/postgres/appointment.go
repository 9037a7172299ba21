package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: NewBaseRepository(db)}
}

// appointmentDetailRow flattens the participant join for sqlx scanning.
type appointmentDetailRow struct {
	model.Appointment
	DoctorUsername   string         `db:"doctor_username"`
	DoctorEmail      string         `db:"doctor_email"`
	DoctorFirstName  sql.NullString `db:"doctor_first_name"`
	DoctorLastName   sql.NullString `db:"doctor_last_name"`
	PatientUsername  string         `db:"patient_username"`
	PatientEmail     string         `db:"patient_email"`
	PatientFirstName sql.NullString `db:"patient_first_name"`
	PatientLastName  sql.NullString `db:"patient_last_name"`
}

func (row *appointmentDetailRow) toDetail() *model.AppointmentDetail {
	return &model.AppointmentDetail{
		Appointment: row.Appointment,
		Doctor: model.ParticipantSummary{
			ID:        row.DoctorID,
			Username:  row.DoctorUsername,
			Email:     row.DoctorEmail,
			FirstName: row.DoctorFirstName.String,
			LastName:  row.DoctorLastName.String,
		},
		Patient: model.ParticipantSummary{
			ID:        row.PatientID,
			Username:  row.PatientUsername,
			Email:     row.PatientEmail,
			FirstName: row.PatientFirstName.String,
			LastName:  row.PatientLastName.String,
		},
	}
}

const appointmentDetailSelect = `
	SELECT a.id, a.doctor_id, a.patient_id, a.date, a.time, a.status,
		   a.patient_note, a.created_at, a.updated_at,
		   du.username AS doctor_username, du.email AS doctor_email,
		   dk.first_name AS doctor_first_name, dk.last_name AS doctor_last_name,
		   pu.username AS patient_username, pu.email AS patient_email,
		   pk.first_name AS patient_first_name, pk.last_name AS patient_last_name
	FROM appointments a
	JOIN users du ON du.id = a.doctor_id
	JOIN users pu ON pu.id = a.patient_id
	LEFT JOIN doctor_kyc dk ON dk.user_id = a.doctor_id
	LEFT JOIN patient_kyc pk ON pk.user_id = a.patient_id
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, date, time, status, patient_note,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.DoctorID,
		appointment.PatientID,
		appointment.Date,
		appointment.Time,
		appointment.Status,
		appointment.PatientNote,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, date, time, status, patient_note,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	query := appointmentDetailSelect + ` WHERE a.id = $1`

	var row appointmentDetailRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment detail: %w", err)
	}
	return row.toDetail(), nil
}

func (r *appointmentRepository) ExistsActiveForSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND date = $2 AND time = $3
			  AND status NOT IN ($4, $5, $6)
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, doctorID, date, timeOfDay,
		model.AppointmentStatusRejected,
		model.AppointmentStatusCompleted,
		model.AppointmentStatusMissed,
	)
	if err != nil {
		return false, fmt.Errorf("failed to check slot occupancy: %w", err)
	}
	return exists, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3
	`, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, timeOfDay string, status model.AppointmentStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET date = $1, time = $2, status = $3, updated_at = $4 WHERE id = $5
	`, date, timeOfDay, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) ListAwaitingStart(ctx context.Context) ([]*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, date, time, status, patient_note,
			   created_at, updated_at
		FROM appointments
		WHERE status = ANY($1)
	`
	statuses := pq.StringArray{
		string(model.AppointmentStatusConfirmed),
		string(model.AppointmentStatusRescheduleConfirmed),
		string(model.AppointmentStatusRescheduledByDoctor),
		string(model.AppointmentStatusRescheduledByPatient),
	}

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments awaiting start: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status model.AppointmentStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	idStrings := make(pq.StringArray, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET status = $1, updated_at = $2 WHERE id = ANY($3::uuid[])
	`, status, time.Now(), idStrings)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (r *appointmentRepository) ListUpcoming(ctx context.Context, userID uuid.UUID, from time.Time) ([]*model.AppointmentDetail, error) {
	query := appointmentDetailSelect + `
		WHERE (a.doctor_id = $1 OR a.patient_id = $1)
		  AND a.status = ANY($2)
		  AND a.date >= $3
		ORDER BY a.date ASC
	`
	statuses := pq.StringArray{
		string(model.AppointmentStatusPending),
		string(model.AppointmentStatusConfirmed),
		string(model.AppointmentStatusRescheduleConfirmed),
		string(model.AppointmentStatusRescheduledByDoctor),
		string(model.AppointmentStatusRescheduledByPatient),
	}
	return r.selectDetails(ctx, query, userID, statuses, from)
}

func (r *appointmentRepository) ListHistory(ctx context.Context, userID uuid.UUID, until time.Time) ([]*model.AppointmentDetail, error) {
	query := appointmentDetailSelect + `
		WHERE (a.doctor_id = $1 OR a.patient_id = $1)
		  AND a.status = ANY($2)
		  AND a.date <= $3
		ORDER BY a.date ASC
	`
	statuses := pq.StringArray{
		string(model.AppointmentStatusPending),
		string(model.AppointmentStatusCompleted),
	}
	return r.selectDetails(ctx, query, userID, statuses, until)
}

func (r *appointmentRepository) selectDetails(ctx context.Context, query string, args ...interface{}) ([]*model.AppointmentDetail, error) {
	var rows []appointmentDetailRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	details := make([]*model.AppointmentDetail, 0, len(rows))
	for i := range rows {
		details = append(details, rows[i].toDetail())
	}
	return details, nil
}
