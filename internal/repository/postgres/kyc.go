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

type kycRepository struct {
	BaseRepository
}

func NewKYCRepository(db *sqlx.DB) repository.KYCRepository {
	return &kycRepository{BaseRepository: NewBaseRepository(db)}
}

// UpsertDoctorKYC keys on user_id so a resubmission after rejection
// replaces the stale row instead of stacking a second one beside it.
func (r *kycRepository) UpsertDoctorKYC(ctx context.Context, kyc *model.DoctorKYC) error {
	query := `
		INSERT INTO doctor_kyc (
			id, user_id, first_name, last_name, email, phone_number,
			gender, date_of_birth, country_of_residence, city_of_residence,
			kyc_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone_number = EXCLUDED.phone_number,
			gender = EXCLUDED.gender,
			date_of_birth = EXCLUDED.date_of_birth,
			country_of_residence = EXCLUDED.country_of_residence,
			city_of_residence = EXCLUDED.city_of_residence,
			kyc_status = EXCLUDED.kyc_status,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	kyc.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		uuid.New(),
		kyc.UserID,
		kyc.FirstName,
		kyc.LastName,
		kyc.Email,
		kyc.PhoneNumber,
		kyc.Gender,
		kyc.DateOfBirth,
		kyc.CountryOfResidence,
		kyc.CityOfResidence,
		kyc.Status,
		time.Now(),
		kyc.UpdatedAt,
	).Scan(&kyc.ID, &kyc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert doctor kyc: %w", err)
	}
	return nil
}

func (r *kycRepository) GetDoctorKYCByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorKYC, error) {
	query := `
		SELECT id, user_id, first_name, last_name, email, phone_number,
			   gender, date_of_birth, country_of_residence, city_of_residence,
			   kyc_status, created_at, updated_at
		FROM doctor_kyc
		WHERE user_id = $1
	`
	var kyc model.DoctorKYC
	err := r.db.GetContext(ctx, &kyc, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor kyc: %w", err)
	}
	return &kyc, nil
}

func (r *kycRepository) UpdateDoctorKYCStatus(ctx context.Context, userID uuid.UUID, status model.KYCStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE doctor_kyc SET kyc_status = $1, updated_at = $2 WHERE user_id = $3
	`, status, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update doctor kyc status: %w", err)
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

func (r *kycRepository) UpdateDoctorProfile(ctx context.Context, userID uuid.UUID, phone, country, city string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE doctor_kyc SET
			phone_number = COALESCE(NULLIF($1, ''), phone_number),
			country_of_residence = COALESCE(NULLIF($2, ''), country_of_residence),
			city_of_residence = COALESCE(NULLIF($3, ''), city_of_residence),
			updated_at = $4
		WHERE user_id = $5
	`, phone, country, city, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
	}
	return nil
}

func (r *kycRepository) UpdatePatientProfile(ctx context.Context, userID uuid.UUID, firstName, lastName string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE patient_kyc SET
			first_name = COALESCE(NULLIF($1, ''), first_name),
			last_name = COALESCE(NULLIF($2, ''), last_name),
			updated_at = $3
		WHERE user_id = $4
	`, firstName, lastName, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update patient profile: %w", err)
	}
	return nil
}

func (r *kycRepository) CreatePatientKYC(ctx context.Context, kyc *model.PatientKYC) error {
	query := `
		INSERT INTO patient_kyc (
			id, user_id, first_name, last_name, kyc_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	kyc.ID = uuid.New()
	kyc.CreatedAt = time.Now()
	kyc.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		kyc.ID,
		kyc.UserID,
		kyc.FirstName,
		kyc.LastName,
		kyc.Status,
		kyc.CreatedAt,
		kyc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient kyc: %w", err)
	}
	return nil
}

func (r *kycRepository) GetPatientKYCByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientKYC, error) {
	query := `
		SELECT id, user_id, first_name, last_name, kyc_status, created_at, updated_at
		FROM patient_kyc
		WHERE user_id = $1
	`
	var kyc model.PatientKYC
	err := r.db.GetContext(ctx, &kyc, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient kyc: %w", err)
	}
	return &kyc, nil
}

func (r *kycRepository) GetPatientKYCByID(ctx context.Context, id uuid.UUID) (*model.PatientKYC, error) {
	query := `
		SELECT id, user_id, first_name, last_name, kyc_status, created_at, updated_at
		FROM patient_kyc
		WHERE id = $1
	`
	var kyc model.PatientKYC
	err := r.db.GetContext(ctx, &kyc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient kyc: %w", err)
	}
	return &kyc, nil
}

func (r *kycRepository) ListVerifiedPatients(ctx context.Context, search string) ([]*model.PatientSummary, error) {
	query := `
		SELECT id, user_id, first_name, last_name, kyc_status
		FROM patient_kyc
		WHERE kyc_status = $1
	`
	args := []interface{}{model.KYCStatusPassed}

	if search != "" {
		query += ` AND (first_name ILIKE $2 OR last_name ILIKE $2)`
		args = append(args, "%"+search+"%")
	}

	query += " ORDER BY created_at DESC"

	var patients []*model.PatientSummary
	err := r.db.SelectContext(ctx, &patients, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified patients: %w", err)
	}
	return patients, nil
}

func (r *kycRepository) ListApprovedDoctors(ctx context.Context, search string) ([]*model.DoctorSummary, error) {
	query := `
		SELECT id, user_id, first_name, last_name, email,
			   country_of_residence, city_of_residence, kyc_status
		FROM doctor_kyc
		WHERE kyc_status = $1
	`
	args := []interface{}{model.KYCStatusPassed}

	if search != "" {
		query += ` AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2)`
		args = append(args, "%"+search+"%")
	}

	query += " ORDER BY created_at DESC"

	var doctors []*model.DoctorSummary
	err := r.db.SelectContext(ctx, &doctors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved doctors: %w", err)
	}
	return doctors, nil
}
