package model

import (
	"time"

	"github.com/google/uuid"
)

// DoctorRating is created once per (appointment, patient), only after the
// appointment completed.
type DoctorRating struct {
	ID            uuid.UUID `json:"id" db:"id"`
	DoctorID      uuid.UUID `json:"doctor_id" db:"doctor_id"`
	PatientID     uuid.UUID `json:"patient_id" db:"patient_id"`
	AppointmentID uuid.UUID `json:"appointment_id" db:"appointment_id"`
	Rating        int       `json:"rating" db:"rating"`
	Comment       string    `json:"comment,omitempty" db:"comment"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type CreateRatingRequest struct {
	DoctorID      uuid.UUID `json:"doctor_id" binding:"required"`
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	Rating        int       `json:"rating" binding:"required,min=1,max=5"`
	Comment       string    `json:"comment" binding:"max=1000"`
}
