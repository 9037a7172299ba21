package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
	apperrors "github.com/caremeet/telehealth-api/pkg/errors"
)

// Service is the availability registry: it records, per doctor and
// calendar date, the time ranges appointments may be booked in, and
// answers the "is this doctor free at date X, time T" question for the
// appointment service. It never calls back into appointments.
type Service struct {
	repo repository.AvailabilityRepository
}

func NewService(repo repository.AvailabilityRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req *model.CreateAvailabilityRequest) (*model.AvailabilityWindow, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	times, err := normalizeRanges(req.Times)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.FindByDoctorAndDate(ctx, doctorID, date)
	if err == nil {
		return nil, apperrors.Conflict("Availability for this date already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing availability: %w", err)
	}

	window := &model.AvailabilityWindow{
		DoctorID: doctorID,
		Date:     date,
		Times:    times,
	}
	if err := s.repo.Create(ctx, window); err != nil {
		return nil, fmt.Errorf("failed to create availability: %w", err)
	}
	return window, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.AvailabilityWindow, error) {
	window, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Availability not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return window, nil
}

func (s *Service) List(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error) {
	windows, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return windows, nil
}

func (s *Service) Update(ctx context.Context, id, callerID uuid.UUID, req *model.UpdateAvailabilityRequest) (*model.AvailabilityWindow, error) {
	window, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Availability not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}

	if window.DoctorID != callerID {
		return nil, apperrors.Unauthorized("You cannot edit this availability")
	}

	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		window.Date = date
	}

	replaceTimes := req.Times != nil
	if replaceTimes {
		times, err := normalizeRanges(*req.Times)
		if err != nil {
			return nil, err
		}
		window.Times = times
	}

	if err := s.repo.Update(ctx, window, replaceTimes); err != nil {
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}
	return window, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	window, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Availability not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get availability: %w", err)
	}

	if window.DoctorID != callerID {
		return apperrors.Unauthorized("You cannot delete this availability")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Availability not found")
		}
		return fmt.Errorf("failed to delete availability: %w", err)
	}
	return nil
}

// EnsureAvailable is the conflict-check primitive the appointment service
// consults before any date/time is set. Bounds are inclusive: a window
// 09:00-12:00 admits both 09:00 and 12:00.
func (s *Service) EnsureAvailable(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) error {
	window, err := s.repo.FindByDoctorAndDate(ctx, doctorID, date)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.BadRequest("Doctor is not available at this date & time")
	}
	if err != nil {
		return fmt.Errorf("failed to look up availability: %w", err)
	}

	t, err := NormalizeClock(timeOfDay)
	if err != nil {
		return err
	}

	for _, r := range window.Times {
		// All stored times are zero-padded HH:MM, so lexical comparison
		// is also temporal comparison.
		if t >= r.StartTime && t <= r.EndTime {
			return nil
		}
	}
	return apperrors.BadRequest("Doctor is not available at this time")
}

// NormalizeClock validates an HH:MM string and returns it zero-padded.
func NormalizeClock(value string) (string, error) {
	t, err := time.Parse(model.ClockTime, value)
	if err != nil {
		return "", apperrors.BadRequest("Time must be in HH:MM format (24-hour)")
	}
	return t.Format(model.ClockTime), nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(model.DateOnly, value)
	if err != nil {
		return time.Time{}, apperrors.BadRequest("Date must be in YYYY-MM-DD format")
	}
	return date, nil
}

func normalizeRanges(inputs []model.TimeRangeInput) ([]model.TimeRange, error) {
	if len(inputs) == 0 {
		return nil, apperrors.BadRequest("At least one time range is required")
	}

	times := make([]model.TimeRange, 0, len(inputs))
	for _, in := range inputs {
		start, err := NormalizeClock(in.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := NormalizeClock(in.EndTime)
		if err != nil {
			return nil, err
		}
		if start >= end {
			return nil, apperrors.BadRequest("Start time must be before end time")
		}
		times = append(times, model.TimeRange{StartTime: start, EndTime: end})
	}
	return times, nil
}
