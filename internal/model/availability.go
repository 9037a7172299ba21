package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeRange is one bookable sub-range inside an availability window.
// Start and End are zero-padded 24-hour HH:MM strings; because they are
// zero-padded, lexical comparison orders them correctly.
type TimeRange struct {
	ID        uuid.UUID `json:"id" db:"id"`
	WindowID  uuid.UUID `json:"-" db:"window_id"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`
}

// AvailabilityWindow records the sub-ranges a doctor accepts appointments
// in on one calendar date. At most one window exists per (doctor, date).
type AvailabilityWindow struct {
	Base
	DoctorID uuid.UUID   `json:"doctor_id" db:"doctor_id"`
	Date     time.Time   `json:"date" db:"date"`
	Times    []TimeRange `json:"times" db:"-"`
}

type TimeRangeInput struct {
	StartTime string `json:"start_time" binding:"required,clocktime"`
	EndTime   string `json:"end_time" binding:"required,clocktime"`
}

type CreateAvailabilityRequest struct {
	Date  string           `json:"date" binding:"required,dateonly"`
	Times []TimeRangeInput `json:"times" binding:"required,min=1,dive"`
}

// UpdateAvailabilityRequest allows partial updates; when Times is present
// the full sub-range set is replaced, never merged.
type UpdateAvailabilityRequest struct {
	Date  *string           `json:"date"`
	Times *[]TimeRangeInput `json:"times"`
}
