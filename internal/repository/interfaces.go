package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caremeet/telehealth-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ChangePassword updates the password hash and revokes every refresh
	// token of the user in one transaction.
	ChangePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	// ResetPassword additionally consumes the user's password reset
	// tokens in the same transaction.
	ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	// Delete removes the account with its KYC records and tokens.
	Delete(ctx context.Context, userID uuid.UUID) error
}

type TokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindValid(ctx context.Context, userID uuid.UUID, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	// CreatePasswordReset replaces any previous reset token of the user.
	CreatePasswordReset(ctx context.Context, token *model.PasswordResetToken) error
	FindValidPasswordReset(ctx context.Context, userID uuid.UUID) (*model.PasswordResetToken, error)
}

type KYCRepository interface {
	// UpsertDoctorKYC writes the doctor's record, replacing any earlier
	// submission; doctor_kyc holds at most one row per user.
	UpsertDoctorKYC(ctx context.Context, kyc *model.DoctorKYC) error
	GetDoctorKYCByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorKYC, error)
	UpdateDoctorKYCStatus(ctx context.Context, userID uuid.UUID, status model.KYCStatus) error
	// UpdateDoctorProfile changes contact fields only; empty arguments
	// leave the stored value untouched.
	UpdateDoctorProfile(ctx context.Context, userID uuid.UUID, phone, country, city string) error
	CreatePatientKYC(ctx context.Context, kyc *model.PatientKYC) error
	GetPatientKYCByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientKYC, error)
	GetPatientKYCByID(ctx context.Context, id uuid.UUID) (*model.PatientKYC, error)
	UpdatePatientProfile(ctx context.Context, userID uuid.UUID, firstName, lastName string) error
	ListApprovedDoctors(ctx context.Context, search string) ([]*model.DoctorSummary, error)
	ListVerifiedPatients(ctx context.Context, search string) ([]*model.PatientSummary, error)
}

type AvailabilityRepository interface {
	Create(ctx context.Context, window *model.AvailabilityWindow) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilityWindow, error)
	FindByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (*model.AvailabilityWindow, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error)
	// Update replaces the window's date and, when times is non-nil, the
	// entire sub-range set, atomically.
	Update(ctx context.Context, window *model.AvailabilityWindow, replaceTimes bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error)
	// ExistsActiveForSlot reports whether a non-terminal appointment
	// already occupies the doctor's (date, time) slot.
	ExistsActiveForSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	Reschedule(ctx context.Context, id uuid.UUID, date time.Time, timeOfDay string, status model.AppointmentStatus) error
	// ListAwaitingStart returns appointments in a confirmed or
	// reschedule-pending status, the candidate set for the missed sweep.
	ListAwaitingStart(ctx context.Context) ([]*model.Appointment, error)
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status model.AppointmentStatus) (int64, error)
	ListUpcoming(ctx context.Context, userID uuid.UUID, from time.Time) ([]*model.AppointmentDetail, error)
	ListHistory(ctx context.Context, userID uuid.UUID, until time.Time) ([]*model.AppointmentDetail, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type RatingRepository interface {
	Create(ctx context.Context, rating *model.DoctorRating) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.DoctorRating, error)
	ExistsForAppointment(ctx context.Context, appointmentID, patientID uuid.UUID) (bool, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorRating, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *model.ChatMessage) error
	ListConversation(ctx context.Context, userA, userB uuid.UUID, limit int) ([]*model.ChatMessage, error)
	MarkRead(ctx context.Context, recipientID, senderID uuid.UUID) error
}
