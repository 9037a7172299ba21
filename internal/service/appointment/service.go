package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/queue"
	"github.com/caremeet/telehealth-api/internal/repository"
	"github.com/caremeet/telehealth-api/internal/service/notification"
	apperrors "github.com/caremeet/telehealth-api/pkg/errors"
	"github.com/caremeet/telehealth-api/pkg/lock"
	"github.com/caremeet/telehealth-api/pkg/logger"
)

// humanDate is the long-form date used in notifications and emails,
// e.g. "Monday, March 10, 2025".
const humanDate = "Monday, January 2, 2006"

const kycCacheTTL = time.Minute

// AvailabilityChecker is the slice of the availability registry this
// service consumes. The registry never calls back into appointments.
type AvailabilityChecker interface {
	EnsureAvailable(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) error
}

// Service owns every appointment status transition. It validates the
// caller's standing, consults the availability registry before any
// date/time is set, persists the transition, and then dispatches
// notification and email side effects. The side effects are fire and
// forget: they run after the status write and are not rolled back if
// dispatch fails.
type Service struct {
	repo         repository.AppointmentRepository
	users        repository.UserRepository
	kyc          repository.KYCRepository
	availability AvailabilityChecker
	notifier     notification.Service
	emails       queue.Enqueuer
	locker       lock.SlotLocker
	kycCache     *gocache.Cache
	logger       *logger.Logger
	now          func() time.Time
}

func NewService(
	repo repository.AppointmentRepository,
	users repository.UserRepository,
	kyc repository.KYCRepository,
	availability AvailabilityChecker,
	notifier notification.Service,
	emails queue.Enqueuer,
	locker lock.SlotLocker,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:         repo,
		users:        users,
		kyc:          kyc,
		availability: availability,
		notifier:     notifier,
		emails:       emails,
		locker:       locker,
		kycCache:     gocache.New(kycCacheTTL, 5*time.Minute),
		logger:       logger,
		now:          time.Now,
	}
}

func (s *Service) CreateAppointment(ctx context.Context, patientID uuid.UUID, req *model.CreateAppointmentRequest) (*model.AppointmentDetail, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	timeOfDay, err := normalizeClock(req.Time)
	if err != nil {
		return nil, err
	}

	_, err = s.users.GetByID(ctx, req.DoctorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Doctor not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}

	status, err := s.doctorKYCStatus(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if status != model.KYCStatusPassed {
		return nil, apperrors.BadRequest("Doctor is not available for appointments. KYC not approved.")
	}

	if err := s.availability.EnsureAvailable(ctx, req.DoctorID, date, timeOfDay); err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		DoctorID:    req.DoctorID,
		PatientID:   patientID,
		Date:        date,
		Time:        timeOfDay,
		Status:      model.AppointmentStatusPending,
		PatientNote: req.PatientNote,
	}

	// The availability check and the insert are guarded by a per-slot
	// lock plus an occupancy re-check, so two concurrent bookings for
	// the same doctor slot cannot both land.
	slotKey := fmt.Sprintf("%s:%s:%s", req.DoctorID, date.Format(model.DateOnly), timeOfDay)
	err = s.locker.WithSlotLock(ctx, slotKey, func(lockCtx context.Context) error {
		taken, err := s.repo.ExistsActiveForSlot(lockCtx, req.DoctorID, date, timeOfDay)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("This time slot is already booked")
		}
		return s.repo.Create(lockCtx, appointment)
	})
	if errors.Is(err, lock.ErrNotAcquired) {
		return nil, apperrors.Conflict("This time slot is being booked, please retry")
	}
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	detail, err := s.repo.GetDetail(ctx, appointment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment detail: %w", err)
	}

	s.notify(ctx, model.CreateNotificationInput{
		UserID:  detail.DoctorID,
		Title:   "Appointment request",
		Message: fmt.Sprintf("New appointment request from %s", detail.Patient.Username),
		Type:    model.NotificationTypeAppointment,
	})
	s.enqueueEmail(ctx, queue.JobNewAppointment, map[string]string{
		"doctorEmail":      detail.Doctor.Email,
		"doctorUsername":   detail.Doctor.Username,
		"patientFirstName": detail.Patient.FirstName,
		"patientLastName":  detail.Patient.LastName,
		"appointmentDate":  detail.Date.Format(humanDate),
		"appointmentTime":  detail.Time,
	})

	return detail, nil
}

func (s *Service) UpdateStatus(ctx context.Context, appointmentID, callerID uuid.UUID, req *model.UpdateAppointmentStatusRequest) (*model.Appointment, error) {
	detail, err := s.repo.GetDetail(ctx, appointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Appointment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	isDoctor := detail.DoctorID == callerID
	isPatient := detail.PatientID == callerID
	if !isDoctor && !isPatient {
		return nil, apperrors.Unauthorized("You cannot manage this appointment")
	}

	switch req.Action {
	case model.ActionReject:
		return s.reject(ctx, detail, isDoctor)
	case model.ActionAccept:
		return s.accept(ctx, detail, isDoctor)
	case model.ActionReschedule:
		return s.reschedule(ctx, detail, isDoctor, req)
	default:
		return nil, apperrors.BadRequest("Invalid action")
	}
}

// reject is valid from any non-terminal state; repeating it is a no-op
// that leaves the status REJECTED.
func (s *Service) reject(ctx context.Context, detail *model.AppointmentDetail, isDoctor bool) (*model.Appointment, error) {
	if err := s.repo.UpdateStatus(ctx, detail.ID, model.AppointmentStatusRejected); err != nil {
		return nil, fmt.Errorf("failed to reject appointment: %w", err)
	}

	receiver := counterparty(detail, isDoctor)
	actorRole := "Patient"
	actorLabel := detail.Patient.Username
	if isDoctor {
		actorRole = "Doctor"
		actorLabel = doctorLabel(detail)
	}

	s.notify(ctx, model.CreateNotificationInput{
		UserID:  receiver.ID,
		Title:   "Appointment Update",
		Message: fmt.Sprintf("%s rejected the appointment.", actorRole),
		Type:    model.NotificationTypeAppointment,
	})
	s.enqueueEmail(ctx, queue.JobRejectAppointment, map[string]string{
		"toEmail":      receiver.Email,
		"receiverName": receiver.Username,
		"rejectedBy":   actorLabel,
	})

	updated := detail.Appointment
	updated.Status = model.AppointmentStatusRejected
	return &updated, nil
}

func (s *Service) accept(ctx context.Context, detail *model.AppointmentDetail, isDoctor bool) (*model.Appointment, error) {
	switch detail.Status {
	case model.AppointmentStatusPending:
		if !isDoctor {
			return nil, apperrors.Unauthorized("Only doctors can accept pending appointments")
		}

		if err := s.repo.UpdateStatus(ctx, detail.ID, model.AppointmentStatusConfirmed); err != nil {
			return nil, fmt.Errorf("failed to confirm appointment: %w", err)
		}

		s.notify(ctx, model.CreateNotificationInput{
			UserID:  detail.PatientID,
			Title:   "Appointment Confirmed",
			Message: fmt.Sprintf("%s has confirmed your appointment.", doctorLabel(detail)),
			Type:    model.NotificationTypeAppointment,
		})
		s.enqueueEmail(ctx, queue.JobAcceptAppointment, map[string]string{
			"toEmail":         detail.Patient.Email,
			"receiverName":    detail.Patient.Username,
			"acceptedBy":      doctorLabel(detail),
			"appointmentDate": detail.Date.Format(humanDate),
			"appointmentTime": detail.Time,
		})

		updated := detail.Appointment
		updated.Status = model.AppointmentStatusConfirmed
		return &updated, nil

	case model.AppointmentStatusRescheduledByDoctor, model.AppointmentStatusRescheduledByPatient:
		// Either party may confirm the proposed slot.
		if err := s.repo.UpdateStatus(ctx, detail.ID, model.AppointmentStatusRescheduleConfirmed); err != nil {
			return nil, fmt.Errorf("failed to confirm reschedule: %w", err)
		}

		receiver := counterparty(detail, isDoctor)
		actorLabel := detail.Patient.Username
		if isDoctor {
			actorLabel = doctorLabel(detail)
		}

		s.notify(ctx, model.CreateNotificationInput{
			UserID:  receiver.ID,
			Title:   "Reschedule Confirmed",
			Message: "The new appointment time has been confirmed.",
			Type:    model.NotificationTypeAppointment,
		})
		s.enqueueEmail(ctx, queue.JobAcceptAppointment, map[string]string{
			"toEmail":         receiver.Email,
			"receiverName":    receiver.Username,
			"acceptedBy":      actorLabel,
			"appointmentDate": detail.Date.Format(humanDate),
			"appointmentTime": detail.Time,
		})

		updated := detail.Appointment
		updated.Status = model.AppointmentStatusRescheduleConfirmed
		return &updated, nil

	default:
		return nil, apperrors.BadRequest("Nothing to accept for this appointment")
	}
}

func (s *Service) reschedule(ctx context.Context, detail *model.AppointmentDetail, isDoctor bool, req *model.UpdateAppointmentStatusRequest) (*model.Appointment, error) {
	if req.Date == "" || req.Time == "" {
		return nil, apperrors.BadRequest("Date and time required for reschedule")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	timeOfDay, err := normalizeClock(req.Time)
	if err != nil {
		return nil, err
	}

	if err := s.availability.EnsureAvailable(ctx, detail.DoctorID, date, timeOfDay); err != nil {
		return nil, err
	}

	newStatus := model.AppointmentStatusRescheduledByPatient
	if isDoctor {
		newStatus = model.AppointmentStatusRescheduledByDoctor
	}

	if err := s.repo.Reschedule(ctx, detail.ID, date, timeOfDay, newStatus); err != nil {
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	receiver := counterparty(detail, isDoctor)
	actorLabel := detail.Patient.Username
	if isDoctor {
		actorLabel = doctorLabel(detail)
	}
	formattedDate := date.Format(humanDate)

	s.notify(ctx, model.CreateNotificationInput{
		UserID:  receiver.ID,
		Title:   "Appointment Rescheduled",
		Message: fmt.Sprintf("%s proposed a new date: %s at %s", actorLabel, formattedDate, timeOfDay),
		Type:    model.NotificationTypeAppointment,
	})
	s.enqueueEmail(ctx, queue.JobRescheduleAppointment, map[string]string{
		"toEmail":         receiver.Email,
		"receiverName":    receiver.Username,
		"rescheduledBy":   actorLabel,
		"appointmentDate": formattedDate,
		"appointmentTime": timeOfDay,
	})

	updated := detail.Appointment
	updated.Date = date
	updated.Time = timeOfDay
	updated.Status = newStatus
	return &updated, nil
}

// startableStatuses intentionally includes the raw RESCHEDULED_BY_*
// states even though the accept flow routes them through
// RESCHEDULE_CONFIRMED first; see DESIGN.md.
var startableStatuses = map[model.AppointmentStatus]bool{
	model.AppointmentStatusConfirmed:            true,
	model.AppointmentStatusRescheduleConfirmed:  true,
	model.AppointmentStatusRescheduledByDoctor:  true,
	model.AppointmentStatusRescheduledByPatient: true,
}

func (s *Service) StartConsultation(ctx context.Context, appointmentID, doctorID uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.getOwned(ctx, appointmentID, doctorID)
	if err != nil {
		return nil, err
	}

	if !startableStatuses[appointment.Status] {
		return nil, apperrors.BadRequest("Appointment cannot be started in its current status")
	}

	if err := s.repo.UpdateStatus(ctx, appointmentID, model.AppointmentStatusOngoing); err != nil {
		return nil, fmt.Errorf("failed to start consultation: %w", err)
	}

	appointment.Status = model.AppointmentStatusOngoing
	return appointment, nil
}

func (s *Service) CompleteConsultation(ctx context.Context, appointmentID, doctorID uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.getOwned(ctx, appointmentID, doctorID)
	if err != nil {
		return nil, err
	}

	if appointment.Status != model.AppointmentStatusOngoing {
		return nil, apperrors.BadRequest("Only ongoing consultations can be completed")
	}

	if err := s.repo.UpdateStatus(ctx, appointmentID, model.AppointmentStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete consultation: %w", err)
	}

	appointment.Status = model.AppointmentStatusCompleted
	return appointment, nil
}

// MarkMissedAppointments is the periodic sweep: every confirmed or
// reschedule-pending appointment whose date+time is strictly in the past
// is bulk-updated to MISSED. Returns the number of rows updated.
func (s *Service) MarkMissedAppointments(ctx context.Context) (int64, error) {
	candidates, err := s.repo.ListAwaitingStart(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list sweep candidates: %w", err)
	}

	now := s.now()
	var missed []uuid.UUID
	for _, appointment := range candidates {
		if appointment.StartsBefore(now) {
			missed = append(missed, appointment.ID)
		}
	}
	if len(missed) == 0 {
		return 0, nil
	}

	count, err := s.repo.BulkUpdateStatus(ctx, missed, model.AppointmentStatusMissed)
	if err != nil {
		return 0, fmt.Errorf("failed to mark missed appointments: %w", err)
	}
	return count, nil
}

func (s *Service) GetUpcoming(ctx context.Context, userID uuid.UUID) ([]*model.AppointmentDetail, error) {
	return s.repo.ListUpcoming(ctx, userID, s.now())
}

func (s *Service) GetHistory(ctx context.Context, userID uuid.UUID) ([]*model.AppointmentDetail, error) {
	return s.repo.ListHistory(ctx, userID, s.now())
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Appointment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	return detail, nil
}

func (s *Service) getOwned(ctx context.Context, appointmentID, doctorID uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, appointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Appointment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	if appointment.DoctorID != doctorID {
		return nil, apperrors.Unauthorized("You cannot manage this appointment")
	}
	return appointment, nil
}

func (s *Service) doctorKYCStatus(ctx context.Context, doctorID uuid.UUID) (model.KYCStatus, error) {
	if cached, ok := s.kycCache.Get(doctorID.String()); ok {
		return cached.(model.KYCStatus), nil
	}

	kyc, err := s.kyc.GetDoctorKYCByUserID(ctx, doctorID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperrors.BadRequest("Doctor is not available for appointments. KYC not approved.")
	}
	if err != nil {
		return "", fmt.Errorf("failed to load doctor kyc: %w", err)
	}

	s.kycCache.Set(doctorID.String(), kyc.Status, gocache.DefaultExpiration)
	return kyc.Status, nil
}

func (s *Service) notify(ctx context.Context, input model.CreateNotificationInput) {
	if _, err := s.notifier.Notify(ctx, input); err != nil {
		s.logger.Error(err, "failed to send notification", "user_id", input.UserID.String())
	}
}

func (s *Service) enqueueEmail(ctx context.Context, name string, payload map[string]string) {
	if err := s.emails.Enqueue(ctx, name, payload); err != nil {
		s.logger.Error(err, "failed to enqueue email", "job", name)
	}
}

func counterparty(detail *model.AppointmentDetail, isDoctor bool) model.ParticipantSummary {
	if isDoctor {
		return detail.Patient
	}
	return detail.Doctor
}

// doctorLabel prefers the doctor's verified KYC first name.
func doctorLabel(detail *model.AppointmentDetail) string {
	if detail.Doctor.FirstName != "" {
		return "Dr. " + detail.Doctor.FirstName
	}
	return "Dr. Doctor"
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(model.DateOnly, value)
	if err != nil {
		return time.Time{}, apperrors.BadRequest("Date must be in YYYY-MM-DD format")
	}
	return date, nil
}

func normalizeClock(value string) (string, error) {
	t, err := time.Parse(model.ClockTime, value)
	if err != nil {
		return "", apperrors.BadRequest("Time must be in HH:MM format (24-hour)")
	}
	return t.Format(model.ClockTime), nil
}
