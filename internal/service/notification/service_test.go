package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
	"github.com/caremeet/telehealth-api/pkg/logger"
	"github.com/caremeet/telehealth-api/pkg/messaging"
)

type fakeNotificationRepo struct {
	notifications map[uuid.UUID]*model.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	n.ID = uuid.New()
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	var out []*model.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	n, ok := f.notifications[id]
	if !ok || n.UserID != userID {
		return repository.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

type fakeBroker struct {
	published map[string]int
	err       error
}

func (f *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published[channel]++
	return nil
}

func (f *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func newFixture() (Service, *fakeNotificationRepo, *fakeBroker) {
	repo := &fakeNotificationRepo{notifications: make(map[uuid.UUID]*model.Notification)}
	broker := &fakeBroker{published: make(map[string]int)}
	return NewService(repo, broker, logger.NewLogger(nil)), repo, broker
}

func TestNotifyPersistsAndPublishes(t *testing.T) {
	svc, repo, broker := newFixture()
	userID := uuid.New()

	created, err := svc.Notify(context.Background(), model.CreateNotificationInput{
		UserID:  userID,
		Title:   "Appointment request",
		Message: "New appointment request from bob",
		Type:    model.NotificationTypeAppointment,
	})

	require.NoError(t, err)
	assert.Len(t, repo.notifications, 1)
	assert.False(t, created.IsRead)
	assert.Equal(t, 1, broker.published[messaging.UserChannel(userID.String())])
}

func TestNotifySurvivesBrokerFailure(t *testing.T) {
	svc, repo, broker := newFixture()
	broker.err = assert.AnError

	_, err := svc.Notify(context.Background(), model.CreateNotificationInput{
		UserID:  uuid.New(),
		Title:   "Appointment Update",
		Message: "Doctor rejected the appointment.",
		Type:    model.NotificationTypeAppointment,
	})

	require.NoError(t, err)
	assert.Len(t, repo.notifications, 1)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	svc, repo, _ := newFixture()
	userID := uuid.New()

	created, err := svc.Notify(context.Background(), model.CreateNotificationInput{
		UserID: userID,
		Title:  "KYC Review",
		Type:   model.NotificationTypeKYC,
	})
	require.NoError(t, err)

	err = svc.MarkRead(context.Background(), created.ID, uuid.New())
	assert.EqualError(t, err, "Notification not found")

	require.NoError(t, svc.MarkRead(context.Background(), created.ID, userID))
	assert.True(t, repo.notifications[created.ID].IsRead)
}
