package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/caremeet/telehealth-api/internal/config"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) send(ctx context.Context, to, subject, templateName string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := render(templateName, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpService) SendNewAppointment(ctx context.Context, msg NewAppointmentEmail) error {
	return s.send(ctx, msg.DoctorEmail, "New Appointment Request", "new_appointment", msg)
}

func (s *smtpService) SendAcceptAppointment(ctx context.Context, msg DecisionEmail) error {
	return s.send(ctx, msg.ToEmail, "Appointment Accepted", "accept_appointment", msg)
}

func (s *smtpService) SendRejectAppointment(ctx context.Context, msg DecisionEmail) error {
	return s.send(ctx, msg.ToEmail, "Appointment Rejected", "reject_appointment", msg)
}

func (s *smtpService) SendRescheduleAppointment(ctx context.Context, msg RescheduleEmail) error {
	return s.send(ctx, msg.ToEmail, "Appointment Rescheduled", "reschedule_appointment", msg)
}

func (s *smtpService) SendWelcome(ctx context.Context, msg WelcomeEmail) error {
	return s.send(ctx, msg.ToEmail, "Welcome to CareMeet", "welcome", msg)
}

func (s *smtpService) SendPasswordReset(ctx context.Context, msg PasswordResetEmail) error {
	return s.send(ctx, msg.ToEmail, "Reset Your Password", "password_reset", msg)
}

func (s *smtpService) SendPasswordResetSuccess(ctx context.Context, msg PasswordResetSuccessEmail) error {
	return s.send(ctx, msg.ToEmail, "Your Password Was Changed", "password_reset_success", msg)
}
