package rating

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
	"github.com/caremeet/telehealth-api/pkg/logger"
)

type fakeRatingRepo struct {
	ratings map[uuid.UUID]*model.DoctorRating
}

func (f *fakeRatingRepo) Create(_ context.Context, r *model.DoctorRating) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	f.ratings[r.ID] = r
	return nil
}

func (f *fakeRatingRepo) GetByID(_ context.Context, id uuid.UUID) (*model.DoctorRating, error) {
	r, ok := f.ratings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeRatingRepo) ExistsForAppointment(_ context.Context, appointmentID, patientID uuid.UUID) (bool, error) {
	for _, r := range f.ratings {
		if r.AppointmentID == appointmentID && r.PatientID == patientID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRatingRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.DoctorRating, error) {
	var out []*model.DoctorRating
	for _, r := range f.ratings {
		if r.DoctorID == doctorID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAppointmentStore struct {
	appointments map[uuid.UUID]*model.Appointment
}

func (f *fakeAppointmentStore) GetByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeAppointmentStore) Create(_ context.Context, _ *model.Appointment) error { return nil }

func (f *fakeAppointmentStore) GetDetail(_ context.Context, _ uuid.UUID) (*model.AppointmentDetail, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeAppointmentStore) ExistsActiveForSlot(_ context.Context, _ uuid.UUID, _ time.Time, _ string) (bool, error) {
	return false, nil
}

func (f *fakeAppointmentStore) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.AppointmentStatus) error {
	return nil
}

func (f *fakeAppointmentStore) Reschedule(_ context.Context, _ uuid.UUID, _ time.Time, _ string, _ model.AppointmentStatus) error {
	return nil
}

func (f *fakeAppointmentStore) ListAwaitingStart(_ context.Context) ([]*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentStore) BulkUpdateStatus(_ context.Context, _ []uuid.UUID, _ model.AppointmentStatus) (int64, error) {
	return 0, nil
}

func (f *fakeAppointmentStore) ListUpcoming(_ context.Context, _ uuid.UUID, _ time.Time) ([]*model.AppointmentDetail, error) {
	return nil, nil
}

func (f *fakeAppointmentStore) ListHistory(_ context.Context, _ uuid.UUID, _ time.Time) ([]*model.AppointmentDetail, error) {
	return nil, nil
}

type fakeNotifier struct {
	sent []model.CreateNotificationInput
}

func (f *fakeNotifier) Notify(_ context.Context, input model.CreateNotificationInput) (*model.Notification, error) {
	f.sent = append(f.sent, input)
	return &model.Notification{}, nil
}

func (f *fakeNotifier) ListForUser(_ context.Context, _ uuid.UUID) ([]*model.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(_ context.Context, _, _ uuid.UUID) error { return nil }

func (f *fakeNotifier) MarkAllRead(_ context.Context, _ uuid.UUID) error { return nil }

type fixture struct {
	svc       *Service
	ratings   *fakeRatingRepo
	store     *fakeAppointmentStore
	notifier  *fakeNotifier
	doctorID  uuid.UUID
	patientID uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		ratings:   &fakeRatingRepo{ratings: make(map[uuid.UUID]*model.DoctorRating)},
		store:     &fakeAppointmentStore{appointments: make(map[uuid.UUID]*model.Appointment)},
		notifier:  &fakeNotifier{},
		doctorID:  uuid.New(),
		patientID: uuid.New(),
	}
	f.svc = NewService(f.ratings, f.store, f.notifier, logger.NewLogger(nil))
	return f
}

func (f *fixture) addAppointment(status model.AppointmentStatus) uuid.UUID {
	id := uuid.New()
	f.store.appointments[id] = &model.Appointment{
		Base:      model.Base{ID: id},
		DoctorID:  f.doctorID,
		PatientID: f.patientID,
		Status:    status,
	}
	return id
}

func TestCreateRequiresCompletedAppointment(t *testing.T) {
	f := newFixture()
	appointmentID := f.addAppointment(model.AppointmentStatusConfirmed)

	_, err := f.svc.Create(context.Background(), f.patientID, &model.CreateRatingRequest{
		DoctorID:      f.doctorID,
		AppointmentID: appointmentID,
		Rating:        5,
	})

	assert.EqualError(t, err, "You can only rate doctors for completed appointments")
}

func TestCreateRejectsOtherPatients(t *testing.T) {
	f := newFixture()
	appointmentID := f.addAppointment(model.AppointmentStatusCompleted)

	_, err := f.svc.Create(context.Background(), uuid.New(), &model.CreateRatingRequest{
		DoctorID:      f.doctorID,
		AppointmentID: appointmentID,
		Rating:        5,
	})

	assert.EqualError(t, err, "You can only rate doctors for completed appointments")
}

func TestCreateOncePerAppointment(t *testing.T) {
	f := newFixture()
	appointmentID := f.addAppointment(model.AppointmentStatusCompleted)
	req := &model.CreateRatingRequest{
		DoctorID:      f.doctorID,
		AppointmentID: appointmentID,
		Rating:        4,
		Comment:       "helpful",
	}

	created, err := f.svc.Create(context.Background(), f.patientID, req)
	require.NoError(t, err)
	assert.Equal(t, 4, created.Rating)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.doctorID, f.notifier.sent[0].UserID)

	_, err = f.svc.Create(context.Background(), f.patientID, req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	assert.EqualError(t, err, "You already rated this appointment")
}

func TestGetVisibilityIsRestricted(t *testing.T) {
	f := newFixture()
	appointmentID := f.addAppointment(model.AppointmentStatusCompleted)

	created, err := f.svc.Create(context.Background(), f.patientID, &model.CreateRatingRequest{
		DoctorID:      f.doctorID,
		AppointmentID: appointmentID,
		Rating:        5,
	})
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), created.ID, f.doctorID)
	assert.NoError(t, err)

	_, err = f.svc.Get(context.Background(), created.ID, uuid.New())
	assert.EqualError(t, err, "Access Denied")

	_, err = f.svc.Get(context.Background(), uuid.New(), f.doctorID)
	assert.EqualError(t, err, "Rating not found")
}
