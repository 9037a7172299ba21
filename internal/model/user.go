package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RolePatient = "PATIENT"
	RoleDoctor  = "DOCTOR"
	RoleAdmin   = "ADMIN"
)

// User represents a platform account. Profile details live on the KYC
// records, not here.
type User struct {
	Base
	Username      string `json:"username" db:"username"`
	Email         string `json:"email" db:"email"`
	PasswordHash  string `json:"-" db:"password_hash"`
	Role          string `json:"role" db:"role"`
	EmailVerified bool   `json:"email_verified" db:"email_verified"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=PATIENT DOCTOR"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	Token       string    `json:"token" binding:"required"`
	NewPassword string    `json:"new_password" binding:"required,min=8"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Profile joins the account with its role-specific verification record;
// Details is nil until KYC has been submitted.
type Profile struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     string      `json:"role"`
	Details  interface{} `json:"profile"`
}

// UpdateProfileRequest carries partial contact updates; which fields
// apply depends on the caller's role, and empty fields are left as-is.
type UpdateProfileRequest struct {
	PhoneNumber        string `json:"phone_number"`
	CountryOfResidence string `json:"country_of_residence"`
	CityOfResidence    string `json:"city_of_residence"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// PasswordResetToken is a single-use reset credential. Only the digest
// is stored and a new forgot-password request replaces the old token.
type PasswordResetToken struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// RefreshToken is a persisted refresh token; change-password revokes all
// of a user's rows in the same transaction as the hash update.
type RefreshToken struct {
	ID        uuid.UUID  `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
	CreatedAt time.Time  `db:"created_at"`
}
