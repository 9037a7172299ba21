package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
	apperrors "github.com/caremeet/telehealth-api/pkg/errors"
	"github.com/caremeet/telehealth-api/pkg/logger"
)

// Service exposes account profiles and the patient directory. A profile
// is the account joined with its role-specific verification record.
type Service struct {
	users  repository.UserRepository
	kyc    repository.KYCRepository
	logger *logger.Logger
}

func NewService(users repository.UserRepository, kyc repository.KYCRepository, logger *logger.Logger) *Service {
	return &Service{
		users:  users,
		kyc:    kyc,
		logger: logger,
	}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	profile := &model.Profile{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}

	switch user.Role {
	case model.RoleDoctor:
		kyc, err := s.kyc.GetDoctorKYCByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load doctor kyc: %w", err)
		}
		if kyc != nil {
			profile.Details = kyc
		}
	case model.RolePatient:
		kyc, err := s.kyc.GetPatientKYCByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load patient kyc: %w", err)
		}
		if kyc != nil {
			profile.Details = kyc
		}
	}

	return profile, nil
}

// UpdateProfile applies the contact fields matching the caller's role
// and returns the refreshed profile. Updating before KYC submission is a
// no-op, matching the write-through-KYC storage model.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	switch user.Role {
	case model.RoleDoctor:
		err = s.kyc.UpdateDoctorProfile(ctx, userID, req.PhoneNumber, req.CountryOfResidence, req.CityOfResidence)
	case model.RolePatient:
		err = s.kyc.UpdatePatientProfile(ctx, userID, req.FirstName, req.LastName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

// DeleteAccount removes the account with its KYC records and sessions.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	err := s.users.Delete(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("User not found")
	}
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// ListPatients is the doctor-facing directory of verified patients,
// optionally filtered by a case-insensitive name search.
func (s *Service) ListPatients(ctx context.Context, search string) ([]*model.PatientSummary, error) {
	patients, err := s.kyc.ListVerifiedPatients(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.PatientKYC, error) {
	patient, err := s.kyc.GetPatientKYCByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Patient not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	if patient.Status != model.KYCStatusPassed {
		return nil, apperrors.NotFound("Patient not found.")
	}
	return patient, nil
}
