package kyc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
	"github.com/caremeet/telehealth-api/internal/service/notification"
	apperrors "github.com/caremeet/telehealth-api/pkg/errors"
	"github.com/caremeet/telehealth-api/pkg/logger"
)

// Service manages identity verification records. Doctors must pass
// review before they become bookable; patients only need a name on file.
type Service struct {
	repo     repository.KYCRepository
	users    repository.UserRepository
	notifier notification.Service
	logger   *logger.Logger
}

func NewService(
	repo repository.KYCRepository,
	users repository.UserRepository,
	notifier notification.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) SubmitDoctorKYC(ctx context.Context, userID uuid.UUID, req *model.SubmitDoctorKYCRequest) (*model.DoctorKYC, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Role != model.RoleDoctor {
		return nil, apperrors.Forbidden("Only doctors can submit doctor KYC")
	}

	existing, err := s.repo.GetDoctorKYCByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing kyc: %w", err)
	}
	if existing != nil && existing.Status != model.KYCStatusRejected {
		return nil, apperrors.Conflict("KYC already submitted")
	}

	dob, err := time.Parse(model.DateOnly, req.DateOfBirth)
	if err != nil {
		return nil, apperrors.BadRequest("Date of birth must be in YYYY-MM-DD format")
	}

	kyc := &model.DoctorKYC{
		UserID:             userID,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              user.Email,
		PhoneNumber:        req.PhoneNumber,
		Gender:             req.Gender,
		DateOfBirth:        &dob,
		CountryOfResidence: req.CountryOfResidence,
		CityOfResidence:    req.CityOfResidence,
		Status:             model.KYCStatusPending,
	}
	// Upsert keyed on the user: a resubmission after rejection replaces
	// the rejected record rather than leaving it behind.
	if err := s.repo.UpsertDoctorKYC(ctx, kyc); err != nil {
		return nil, fmt.Errorf("failed to save doctor kyc: %w", err)
	}
	return kyc, nil
}

func (s *Service) SubmitPatientKYC(ctx context.Context, userID uuid.UUID, req *model.SubmitPatientKYCRequest) (*model.PatientKYC, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Role != model.RolePatient {
		return nil, apperrors.Forbidden("Only patients can submit patient KYC")
	}

	existing, err := s.repo.GetPatientKYCByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing kyc: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("KYC already submitted")
	}

	kyc := &model.PatientKYC{
		UserID:    userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Status:    model.KYCStatusPassed,
	}
	if err := s.repo.CreatePatientKYC(ctx, kyc); err != nil {
		return nil, fmt.Errorf("failed to create patient kyc: %w", err)
	}
	return kyc, nil
}

func (s *Service) GetDoctorKYC(ctx context.Context, userID uuid.UUID) (*model.DoctorKYC, error) {
	kyc, err := s.repo.GetDoctorKYCByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("KYC not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor kyc: %w", err)
	}
	return kyc, nil
}

func (s *Service) GetPatientKYC(ctx context.Context, userID uuid.UUID) (*model.PatientKYC, error) {
	kyc, err := s.repo.GetPatientKYCByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("KYC not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient kyc: %w", err)
	}
	return kyc, nil
}

// ReviewDoctorKYC is the admin decision. The doctor is notified either way.
func (s *Service) ReviewDoctorKYC(ctx context.Context, doctorID uuid.UUID, req *model.ReviewKYCRequest) (*model.DoctorKYC, error) {
	kyc, err := s.repo.GetDoctorKYCByUserID(ctx, doctorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("KYC not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor kyc: %w", err)
	}

	if err := s.repo.UpdateDoctorKYCStatus(ctx, doctorID, req.Status); err != nil {
		return nil, fmt.Errorf("failed to update kyc status: %w", err)
	}
	kyc.Status = req.Status

	message := "Your KYC has been approved. You can now receive appointments."
	if req.Status == model.KYCStatusRejected {
		message = "Your KYC has been rejected. Please resubmit your details."
	}
	if _, err := s.notifier.Notify(ctx, model.CreateNotificationInput{
		UserID:  doctorID,
		Title:   "KYC Review",
		Message: message,
		Type:    model.NotificationTypeKYC,
	}); err != nil {
		s.logger.Error(err, "failed to send kyc notification", "user_id", doctorID.String())
	}

	return kyc, nil
}

// ListDoctors returns approved doctors, optionally filtered by a
// case-insensitive name or city search.
func (s *Service) ListDoctors(ctx context.Context, search string) ([]*model.DoctorSummary, error) {
	doctors, err := s.repo.ListApprovedDoctors(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
