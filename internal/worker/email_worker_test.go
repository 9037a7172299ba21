package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremeet/telehealth-api/internal/email"
	"github.com/caremeet/telehealth-api/internal/queue"
	"github.com/caremeet/telehealth-api/pkg/logger"
	"github.com/caremeet/telehealth-api/pkg/metrics"
)

type recordingSender struct {
	calls []string
	last  interface{}
}

func (r *recordingSender) SendNewAppointment(_ context.Context, msg email.NewAppointmentEmail) error {
	r.calls = append(r.calls, "new")
	r.last = msg
	return nil
}

func (r *recordingSender) SendAcceptAppointment(_ context.Context, msg email.DecisionEmail) error {
	r.calls = append(r.calls, "accept")
	r.last = msg
	return nil
}

func (r *recordingSender) SendRejectAppointment(_ context.Context, msg email.DecisionEmail) error {
	r.calls = append(r.calls, "reject")
	r.last = msg
	return nil
}

func (r *recordingSender) SendRescheduleAppointment(_ context.Context, msg email.RescheduleEmail) error {
	r.calls = append(r.calls, "reschedule")
	r.last = msg
	return nil
}

func (r *recordingSender) SendWelcome(_ context.Context, msg email.WelcomeEmail) error {
	r.calls = append(r.calls, "welcome")
	r.last = msg
	return nil
}

func (r *recordingSender) SendPasswordReset(_ context.Context, msg email.PasswordResetEmail) error {
	r.calls = append(r.calls, "password-reset")
	r.last = msg
	return nil
}

func (r *recordingSender) SendPasswordResetSuccess(_ context.Context, msg email.PasswordResetSuccessEmail) error {
	r.calls = append(r.calls, "password-reset-success")
	r.last = msg
	return nil
}

func newTestWorker(sender email.Service) *EmailWorker {
	return NewEmailWorker(nil, sender, &metrics.EmailMetrics{}, logger.NewLogger(nil))
}

func TestProcessDispatchesByJobName(t *testing.T) {
	sender := &recordingSender{}
	w := newTestWorker(sender)

	err := w.process(context.Background(), &queue.EmailJob{
		Name: queue.JobAcceptAppointment,
		Payload: map[string]string{
			"toEmail":         "bob@example.com",
			"receiverName":    "bob",
			"acceptedBy":      "Dr. Jane",
			"appointmentDate": "Monday, March 10, 2025",
			"appointmentTime": "10:00",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"accept"}, sender.calls)

	msg, ok := sender.last.(email.DecisionEmail)
	require.True(t, ok)
	assert.Equal(t, "Dr. Jane", msg.ActorLabel)
	assert.Equal(t, "Monday, March 10, 2025", msg.AppointmentDate)
}

func TestProcessRejectsUnknownJob(t *testing.T) {
	w := newTestWorker(&recordingSender{})

	err := w.process(context.Background(), &queue.EmailJob{Name: "mystery"})
	assert.Error(t, err)
}

func TestProcessPasswordResetJob(t *testing.T) {
	sender := &recordingSender{}
	w := newTestWorker(sender)

	err := w.process(context.Background(), &queue.EmailJob{
		Name: queue.JobPasswordReset,
		Payload: map[string]string{
			"toEmail":  "bob@example.com",
			"username": "bob",
			"token":    "a1b2c3",
		},
	})
	require.NoError(t, err)

	msg, ok := sender.last.(email.PasswordResetEmail)
	require.True(t, ok)
	assert.Equal(t, "a1b2c3", msg.Token)
	assert.Equal(t, "bob@example.com", msg.ToEmail)
}

func TestProcessWelcomeJob(t *testing.T) {
	sender := &recordingSender{}
	w := newTestWorker(sender)

	err := w.process(context.Background(), &queue.EmailJob{
		Name:    queue.JobWelcome,
		Payload: map[string]string{"toEmail": "bob@example.com", "username": "bob"},
	})
	require.NoError(t, err)

	msg, ok := sender.last.(email.WelcomeEmail)
	require.True(t, ok)
	assert.Equal(t, "bob", msg.Username)
}
