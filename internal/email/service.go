package email

import (
	"context"
)

// NewAppointmentEmail notifies a doctor about a fresh booking request.
type NewAppointmentEmail struct {
	DoctorEmail      string
	DoctorUsername   string
	PatientFirstName string
	PatientLastName  string
	AppointmentDate  string
	AppointmentTime  string
}

// DecisionEmail covers accept and reject notifications to the counterparty.
type DecisionEmail struct {
	ToEmail         string
	ReceiverName    string
	ActorLabel      string
	AppointmentDate string
	AppointmentTime string
}

// RescheduleEmail carries a proposed new slot.
type RescheduleEmail struct {
	ToEmail         string
	ReceiverName    string
	RescheduledBy   string
	AppointmentDate string
	AppointmentTime string
}

type WelcomeEmail struct {
	ToEmail  string
	Username string
}

// PasswordResetEmail carries the plaintext reset token; it exists only in
// this message, the database keeps a digest.
type PasswordResetEmail struct {
	ToEmail  string
	Username string
	Token    string
}

type PasswordResetSuccessEmail struct {
	ToEmail  string
	Username string
}

type Service interface {
	SendNewAppointment(ctx context.Context, msg NewAppointmentEmail) error
	SendAcceptAppointment(ctx context.Context, msg DecisionEmail) error
	SendRejectAppointment(ctx context.Context, msg DecisionEmail) error
	SendRescheduleAppointment(ctx context.Context, msg RescheduleEmail) error
	SendWelcome(ctx context.Context, msg WelcomeEmail) error
	SendPasswordReset(ctx context.Context, msg PasswordResetEmail) error
	SendPasswordResetSuccess(ctx context.Context, msg PasswordResetSuccessEmail) error
}
