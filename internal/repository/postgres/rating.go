package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
)

type ratingRepository struct {
	BaseRepository
}

func NewRatingRepository(db *sqlx.DB) repository.RatingRepository {
	return &ratingRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *ratingRepository) Create(ctx context.Context, rating *model.DoctorRating) error {
	query := `
		INSERT INTO doctor_ratings (
			id, doctor_id, patient_id, appointment_id, rating, comment, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	rating.ID = uuid.New()
	rating.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		rating.ID,
		rating.DoctorID,
		rating.PatientID,
		rating.AppointmentID,
		rating.Rating,
		rating.Comment,
		rating.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DoctorRating, error) {
	query := `
		SELECT id, doctor_id, patient_id, appointment_id, rating, comment, created_at
		FROM doctor_ratings
		WHERE id = $1
	`
	var rating model.DoctorRating
	err := r.db.GetContext(ctx, &rating, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rating, nil
}

func (r *ratingRepository) ExistsForAppointment(ctx context.Context, appointmentID, patientID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM doctor_ratings
			WHERE appointment_id = $1 AND patient_id = $2
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, appointmentID, patientID)
	if err != nil {
		return false, fmt.Errorf("failed to check existing rating: %w", err)
	}
	return exists, nil
}

func (r *ratingRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorRating, error) {
	query := `
		SELECT id, doctor_id, patient_id, appointment_id, rating, comment, created_at
		FROM doctor_ratings
		WHERE doctor_id = $1
		ORDER BY created_at DESC
	`
	var ratings []*model.DoctorRating
	err := r.db.SelectContext(ctx, &ratings, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}
