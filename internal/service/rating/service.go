package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
	"github.com/caremeet/telehealth-api/internal/service/notification"
	apperrors "github.com/caremeet/telehealth-api/pkg/errors"
	"github.com/caremeet/telehealth-api/pkg/logger"
)

// Service records patient ratings of doctors. A rating is tied to one
// completed appointment and each patient may rate an appointment once.
type Service struct {
	repo         repository.RatingRepository
	appointments repository.AppointmentRepository
	notifier     notification.Service
	logger       *logger.Logger
}

func NewService(
	repo repository.RatingRepository,
	appointments repository.AppointmentRepository,
	notifier notification.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *Service) Create(ctx context.Context, patientID uuid.UUID, req *model.CreateRatingRequest) (*model.DoctorRating, error) {
	appointment, err := s.appointments.GetByID(ctx, req.AppointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Appointment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	if appointment.PatientID != patientID ||
		appointment.DoctorID != req.DoctorID ||
		appointment.Status != model.AppointmentStatusCompleted {
		return nil, apperrors.BadRequest("You can only rate doctors for completed appointments")
	}

	exists, err := s.repo.ExistsForAppointment(ctx, req.AppointmentID, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing rating: %w", err)
	}
	if exists {
		return nil, apperrors.BadRequest("You already rated this appointment")
	}

	rating := &model.DoctorRating{
		DoctorID:      req.DoctorID,
		PatientID:     patientID,
		AppointmentID: req.AppointmentID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}
	if err := s.repo.Create(ctx, rating); err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}

	if _, err := s.notifier.Notify(ctx, model.CreateNotificationInput{
		UserID:  req.DoctorID,
		Title:   "New Rating",
		Message: fmt.Sprintf("A patient rated your consultation %d/5.", req.Rating),
		Type:    model.NotificationTypeSystem,
	}); err != nil {
		s.logger.Error(err, "failed to send rating notification", "doctor_id", req.DoctorID.String())
	}

	return rating, nil
}

// Get returns a rating, visible only to the two parties involved.
func (s *Service) Get(ctx context.Context, id, callerID uuid.UUID) (*model.DoctorRating, error) {
	rating, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Rating not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	if rating.PatientID != callerID && rating.DoctorID != callerID {
		return nil, apperrors.Forbidden("Access Denied")
	}
	return rating, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorRating, error) {
	ratings, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}
