package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/caremeet/telehealth-api/internal/config"
	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
	"github.com/caremeet/telehealth-api/internal/repository/postgres"
	"github.com/caremeet/telehealth-api/pkg/logger"
	"github.com/caremeet/telehealth-api/pkg/security"
)

const (
	seedDoctors  = 5
	seedPatients = 10
	seedPassword = "password123"
)

// Seeds a development database with approved doctors, patients, and a
// week of availability per doctor. Not for production use.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	kycRepo := postgres.NewKYCRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)

	ctx := context.Background()
	hash, err := security.HashPassword(seedPassword)
	if err != nil {
		appLogger.Fatal(err, "failed to hash seed password")
	}

	for i := 0; i < seedDoctors; i++ {
		if err := seedDoctor(ctx, userRepo, kycRepo, availabilityRepo, hash); err != nil {
			appLogger.Fatal(err, "failed to seed doctor")
		}
	}
	for i := 0; i < seedPatients; i++ {
		if err := seedPatient(ctx, userRepo, kycRepo, hash); err != nil {
			appLogger.Fatal(err, "failed to seed patient")
		}
	}

	appLogger.Info("seed complete", "doctors", seedDoctors, "patients", seedPatients)
}

func seedDoctor(
	ctx context.Context,
	users repository.UserRepository,
	kyc repository.KYCRepository,
	availability repository.AvailabilityRepository,
	passwordHash string,
) error {
	user := &model.User{
		Username:      gofakeit.Username(),
		Email:         gofakeit.Email(),
		PasswordHash:  passwordHash,
		Role:          model.RoleDoctor,
		EmailVerified: true,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("create doctor user: %w", err)
	}

	dob := gofakeit.DateRange(
		time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	record := &model.DoctorKYC{
		UserID:             user.ID,
		FirstName:          gofakeit.FirstName(),
		LastName:           gofakeit.LastName(),
		Email:              user.Email,
		PhoneNumber:        gofakeit.Phone(),
		Gender:             gofakeit.RandomString([]string{"MALE", "FEMALE", "OTHER"}),
		DateOfBirth:        &dob,
		CountryOfResidence: gofakeit.Country(),
		CityOfResidence:    gofakeit.City(),
		Status:             model.KYCStatusPassed,
	}
	if err := kyc.UpsertDoctorKYC(ctx, record); err != nil {
		return fmt.Errorf("create doctor kyc: %w", err)
	}

	for day := 1; day <= 7; day++ {
		window := &model.AvailabilityWindow{
			DoctorID: user.ID,
			Date:     time.Now().AddDate(0, 0, day).Truncate(24 * time.Hour),
			Times: []model.TimeRange{
				{StartTime: "09:00", EndTime: "12:00"},
				{StartTime: "14:00", EndTime: "17:00"},
			},
		}
		if err := availability.Create(ctx, window); err != nil {
			return fmt.Errorf("create availability: %w", err)
		}
	}
	return nil
}

func seedPatient(
	ctx context.Context,
	users repository.UserRepository,
	kyc repository.KYCRepository,
	passwordHash string,
) error {
	user := &model.User{
		Username:      gofakeit.Username(),
		Email:         gofakeit.Email(),
		PasswordHash:  passwordHash,
		Role:          model.RolePatient,
		EmailVerified: true,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("create patient user: %w", err)
	}

	record := &model.PatientKYC{
		UserID:    user.ID,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Status:    model.KYCStatusPassed,
	}
	if err := kyc.CreatePatientKYC(ctx, record); err != nil {
		return fmt.Errorf("create patient kyc: %w", err)
	}
	return nil
}
