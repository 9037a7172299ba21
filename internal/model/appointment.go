package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending               AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed             AppointmentStatus = "CONFIRMED"
	AppointmentStatusRejected              AppointmentStatus = "REJECTED"
	AppointmentStatusRescheduledByDoctor   AppointmentStatus = "RESCHEDULED_BY_DOCTOR"
	AppointmentStatusRescheduledByPatient  AppointmentStatus = "RESCHEDULED_BY_PATIENT"
	AppointmentStatusRescheduleConfirmed   AppointmentStatus = "RESCHEDULE_CONFIRMED"
	AppointmentStatusOngoing               AppointmentStatus = "ONGOING"
	AppointmentStatusCompleted             AppointmentStatus = "COMPLETED"
	AppointmentStatusMissed                AppointmentStatus = "MISSED"
)

// Status-transition actions a participant may request.
const (
	ActionAccept     = "ACCEPT"
	ActionReject     = "REJECT"
	ActionReschedule = "RESCHEDULE"
)

type Appointment struct {
	Base
	DoctorID    uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	PatientID   uuid.UUID         `json:"patient_id" db:"patient_id"`
	Date        time.Time         `json:"date" db:"date"`
	Time        string            `json:"time" db:"time"`
	Status      AppointmentStatus `json:"status" db:"status"`
	PatientNote string            `json:"patient_note,omitempty" db:"patient_note"`
}

// ParticipantSummary carries the contact fields notifications and emails
// need about one side of an appointment.
type ParticipantSummary struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name,omitempty" db:"first_name"`
	LastName  string    `json:"last_name,omitempty" db:"last_name"`
}

// AppointmentDetail is an appointment with both participants attached.
type AppointmentDetail struct {
	Appointment
	Doctor  ParticipantSummary `json:"doctor"`
	Patient ParticipantSummary `json:"patient"`
}

type CreateAppointmentRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id" binding:"required"`
	Date        string    `json:"date" binding:"required,dateonly"`
	Time        string    `json:"time" binding:"required,clocktime"`
	PatientNote string    `json:"patient_note" binding:"max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Action string `json:"action" binding:"required,oneof=ACCEPT REJECT RESCHEDULE"`
	Date   string `json:"date" binding:"omitempty,dateonly"`
	Time   string `json:"time" binding:"omitempty,clocktime"`
}

// StartsBefore reports whether the appointment's date+time is strictly
// before the given instant. Seconds are zeroed, matching the sweep rule.
func (a *Appointment) StartsBefore(now time.Time) bool {
	t, err := time.Parse(ClockTime, a.Time)
	if err != nil {
		return false
	}
	start := time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(),
		t.Hour(), t.Minute(), 0, 0, now.Location())
	return start.Before(now)
}
