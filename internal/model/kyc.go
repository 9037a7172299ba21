package model

import (
	"time"

	"github.com/google/uuid"
)

type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "PENDING"
	KYCStatusPassed   KYCStatus = "PASSED"
	KYCStatusRejected KYCStatus = "REJECTED"
)

// DoctorKYC holds a doctor's identity verification record. Appointments
// can only be booked against doctors whose record is PASSED.
type DoctorKYC struct {
	Base
	UserID             uuid.UUID  `json:"user_id" db:"user_id"`
	FirstName          string     `json:"first_name" db:"first_name"`
	LastName           string     `json:"last_name" db:"last_name"`
	Email              string     `json:"email" db:"email"`
	PhoneNumber        string     `json:"phone_number" db:"phone_number"`
	Gender             string     `json:"gender" db:"gender"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	CountryOfResidence string     `json:"country_of_residence" db:"country_of_residence"`
	CityOfResidence    string     `json:"city_of_residence" db:"city_of_residence"`
	Status             KYCStatus  `json:"kyc_status" db:"kyc_status"`
}

// PatientKYC holds a patient's verification record; only the name fields
// are consumed by appointment notifications.
type PatientKYC struct {
	Base
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Status    KYCStatus `json:"kyc_status" db:"kyc_status"`
}

type SubmitDoctorKYCRequest struct {
	FirstName          string `json:"first_name" binding:"required"`
	LastName           string `json:"last_name" binding:"required"`
	PhoneNumber        string `json:"phone_number" binding:"required"`
	Gender             string `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	DateOfBirth        string `json:"date_of_birth" binding:"required"`
	CountryOfResidence string `json:"country_of_residence" binding:"required"`
	CityOfResidence    string `json:"city_of_residence" binding:"required"`
}

type SubmitPatientKYCRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type ReviewKYCRequest struct {
	Status KYCStatus `json:"status" binding:"required,oneof=PASSED REJECTED"`
}

// PatientSummary is the projection doctors see when browsing patients.
type PatientSummary struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Status    KYCStatus `json:"kyc_status" db:"kyc_status"`
}

// DoctorSummary is the public projection returned by doctor listings.
type DoctorSummary struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	FirstName          string    `json:"first_name" db:"first_name"`
	LastName           string    `json:"last_name" db:"last_name"`
	Email              string    `json:"email" db:"email"`
	CountryOfResidence string    `json:"country_of_residence" db:"country_of_residence"`
	CityOfResidence    string    `json:"city_of_residence" db:"city_of_residence"`
	Status             KYCStatus `json:"kyc_status" db:"kyc_status"`
}
