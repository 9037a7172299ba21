package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/caremeet/telehealth-api/internal/email"
	"github.com/caremeet/telehealth-api/internal/queue"
	"github.com/caremeet/telehealth-api/pkg/logger"
	"github.com/caremeet/telehealth-api/pkg/metrics"
)

// EmailWorker drains the email queue and sends each job through SMTP.
// A failed job is logged and dropped; the queue carries notifications,
// not money, so at-most-once is acceptable here.
type EmailWorker struct {
	consumer queue.Consumer
	sender   email.Service
	metrics  *metrics.EmailMetrics
	logger   *logger.Logger
}

func NewEmailWorker(consumer queue.Consumer, sender email.Service, m *metrics.EmailMetrics, logger *logger.Logger) *EmailWorker {
	return &EmailWorker{
		consumer: consumer,
		sender:   sender,
		metrics:  m,
		logger:   logger,
	}
}

func (w *EmailWorker) Start(ctx context.Context) {
	w.logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("email worker shutting down")
			return
		default:
		}

		job, err := w.consumer.Dequeue(ctx)
		if errors.Is(err, queue.ErrEmpty) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error(err, "failed to dequeue email job")
			continue
		}

		if err := w.process(ctx, job); err != nil {
			w.metrics.Failed.Inc()
			w.logger.Error(err, "failed to process email job", "job", job.Name, "job_id", job.ID.String())
			continue
		}
		w.metrics.Processed.Inc()
	}
}

func (w *EmailWorker) process(ctx context.Context, job *queue.EmailJob) error {
	p := job.Payload

	switch job.Name {
	case queue.JobNewAppointment:
		return w.sender.SendNewAppointment(ctx, email.NewAppointmentEmail{
			DoctorEmail:      p["doctorEmail"],
			DoctorUsername:   p["doctorUsername"],
			PatientFirstName: p["patientFirstName"],
			PatientLastName:  p["patientLastName"],
			AppointmentDate:  p["appointmentDate"],
			AppointmentTime:  p["appointmentTime"],
		})
	case queue.JobAcceptAppointment:
		return w.sender.SendAcceptAppointment(ctx, email.DecisionEmail{
			ToEmail:         p["toEmail"],
			ReceiverName:    p["receiverName"],
			ActorLabel:      p["acceptedBy"],
			AppointmentDate: p["appointmentDate"],
			AppointmentTime: p["appointmentTime"],
		})
	case queue.JobRejectAppointment:
		return w.sender.SendRejectAppointment(ctx, email.DecisionEmail{
			ToEmail:      p["toEmail"],
			ReceiverName: p["receiverName"],
			ActorLabel:   p["rejectedBy"],
		})
	case queue.JobRescheduleAppointment:
		return w.sender.SendRescheduleAppointment(ctx, email.RescheduleEmail{
			ToEmail:         p["toEmail"],
			ReceiverName:    p["receiverName"],
			RescheduledBy:   p["rescheduledBy"],
			AppointmentDate: p["appointmentDate"],
			AppointmentTime: p["appointmentTime"],
		})
	case queue.JobWelcome:
		return w.sender.SendWelcome(ctx, email.WelcomeEmail{
			ToEmail:  p["toEmail"],
			Username: p["username"],
		})
	case queue.JobPasswordReset:
		return w.sender.SendPasswordReset(ctx, email.PasswordResetEmail{
			ToEmail:  p["toEmail"],
			Username: p["username"],
			Token:    p["token"],
		})
	case queue.JobPasswordResetSuccess:
		return w.sender.SendPasswordResetSuccess(ctx, email.PasswordResetSuccessEmail{
			ToEmail:  p["toEmail"],
			Username: p["username"],
		})
	default:
		return fmt.Errorf("unknown email job %q", job.Name)
	}
}
