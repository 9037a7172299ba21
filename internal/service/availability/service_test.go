package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
	apperrors "github.com/caremeet/telehealth-api/pkg/errors"
)

type fakeAvailabilityRepo struct {
	windows map[uuid.UUID]*model.AvailabilityWindow
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{windows: make(map[uuid.UUID]*model.AvailabilityWindow)}
}

func (f *fakeAvailabilityRepo) Create(_ context.Context, window *model.AvailabilityWindow) error {
	window.ID = uuid.New()
	f.windows[window.ID] = window
	return nil
}

func (f *fakeAvailabilityRepo) GetByID(_ context.Context, id uuid.UUID) (*model.AvailabilityWindow, error) {
	window, ok := f.windows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return window, nil
}

func (f *fakeAvailabilityRepo) FindByDoctorAndDate(_ context.Context, doctorID uuid.UUID, date time.Time) (*model.AvailabilityWindow, error) {
	for _, w := range f.windows {
		if w.DoctorID == doctorID && w.Date.Equal(date) {
			return w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAvailabilityRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error) {
	var out []*model.AvailabilityWindow
	for _, w := range f.windows {
		if w.DoctorID == doctorID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) Update(_ context.Context, window *model.AvailabilityWindow, _ bool) error {
	if _, ok := f.windows[window.ID]; !ok {
		return repository.ErrNotFound
	}
	f.windows[window.ID] = window
	return nil
}

func (f *fakeAvailabilityRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.windows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.windows, id)
	return nil
}

func seedWindow(t *testing.T, repo *fakeAvailabilityRepo, doctorID uuid.UUID, date string, ranges ...model.TimeRange) *model.AvailabilityWindow {
	t.Helper()
	parsed, err := time.Parse(model.DateOnly, date)
	require.NoError(t, err)

	window := &model.AvailabilityWindow{
		DoctorID: doctorID,
		Date:     parsed,
		Times:    ranges,
	}
	require.NoError(t, repo.Create(context.Background(), window))
	return window
}

func TestCreateRejectsDuplicateDate(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)
	doctorID := uuid.New()
	seedWindow(t, repo, doctorID, "2025-03-10", model.TimeRange{StartTime: "09:00", EndTime: "12:00"})

	_, err := svc.Create(context.Background(), doctorID, &model.CreateAvailabilityRequest{
		Date:  "2025-03-10",
		Times: []model.TimeRangeInput{{StartTime: "13:00", EndTime: "15:00"}},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.EqualError(t, err, "Availability for this date already exists")
}

func TestCreateNormalizesTimes(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)

	window, err := svc.Create(context.Background(), uuid.New(), &model.CreateAvailabilityRequest{
		Date:  "2025-03-10",
		Times: []model.TimeRangeInput{{StartTime: "9:05", EndTime: "12:00"}},
	})

	require.NoError(t, err)
	require.Len(t, window.Times, 1)
	assert.Equal(t, "09:05", window.Times[0].StartTime)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeAvailabilityRepo())
	ctx := context.Background()
	doctorID := uuid.New()

	_, err := svc.Create(ctx, doctorID, &model.CreateAvailabilityRequest{
		Date:  "10-03-2025",
		Times: []model.TimeRangeInput{{StartTime: "09:00", EndTime: "12:00"}},
	})
	assert.EqualError(t, err, "Date must be in YYYY-MM-DD format")

	_, err = svc.Create(ctx, doctorID, &model.CreateAvailabilityRequest{
		Date:  "2025-03-10",
		Times: []model.TimeRangeInput{{StartTime: "9am", EndTime: "12:00"}},
	})
	assert.EqualError(t, err, "Time must be in HH:MM format (24-hour)")

	_, err = svc.Create(ctx, doctorID, &model.CreateAvailabilityRequest{
		Date:  "2025-03-10",
		Times: []model.TimeRangeInput{{StartTime: "12:00", EndTime: "09:00"}},
	})
	assert.EqualError(t, err, "Start time must be before end time")
}

func TestUpdateOwnership(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)
	window := seedWindow(t, repo, uuid.New(), "2025-03-10", model.TimeRange{StartTime: "09:00", EndTime: "12:00"})

	newDate := "2025-03-11"
	_, err := svc.Update(context.Background(), window.ID, uuid.New(), &model.UpdateAvailabilityRequest{Date: &newDate})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	assert.EqualError(t, err, "You cannot edit this availability")
}

func TestDeleteOwnership(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)
	window := seedWindow(t, repo, uuid.New(), "2025-03-10", model.TimeRange{StartTime: "09:00", EndTime: "12:00"})

	err := svc.Delete(context.Background(), window.ID, uuid.New())
	assert.EqualError(t, err, "You cannot delete this availability")

	err = svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.EqualError(t, err, "Availability not found")
}

func TestEnsureAvailableBoundsAreInclusive(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)
	doctorID := uuid.New()
	seedWindow(t, repo, doctorID, "2025-03-10", model.TimeRange{StartTime: "09:00", EndTime: "12:00"})

	date, err := time.Parse(model.DateOnly, "2025-03-10")
	require.NoError(t, err)

	cases := []struct {
		timeOfDay string
		wantErr   string
	}{
		{"09:00", ""},
		{"12:00", ""},
		{"10:30", ""},
		{"08:59", "Doctor is not available at this time"},
		{"12:01", "Doctor is not available at this time"},
	}
	for _, tc := range cases {
		err := svc.EnsureAvailable(context.Background(), doctorID, date, tc.timeOfDay)
		if tc.wantErr == "" {
			assert.NoError(t, err, tc.timeOfDay)
		} else {
			assert.EqualError(t, err, tc.wantErr, tc.timeOfDay)
		}
	}
}

func TestEnsureAvailableNoWindow(t *testing.T) {
	svc := NewService(newFakeAvailabilityRepo())
	date, err := time.Parse(model.DateOnly, "2025-03-10")
	require.NoError(t, err)

	err = svc.EnsureAvailable(context.Background(), uuid.New(), date, "10:00")
	assert.EqualError(t, err, "Doctor is not available at this date & time")
}

func TestEnsureAvailableChecksSecondRange(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)
	doctorID := uuid.New()
	seedWindow(t, repo, doctorID, "2025-03-10",
		model.TimeRange{StartTime: "09:00", EndTime: "12:00"},
		model.TimeRange{StartTime: "14:00", EndTime: "17:00"},
	)

	date, err := time.Parse(model.DateOnly, "2025-03-10")
	require.NoError(t, err)

	assert.NoError(t, svc.EnsureAvailable(context.Background(), doctorID, date, "15:00"))
	assert.EqualError(t, svc.EnsureAvailable(context.Background(), doctorID, date, "13:00"),
		"Doctor is not available at this time")
}
