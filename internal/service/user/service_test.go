package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
	"github.com/caremeet/telehealth-api/pkg/logger"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) ChangePassword(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (f *fakeUserRepo) ResetPassword(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeKYCRepo struct {
	doctorKYC  map[uuid.UUID]*model.DoctorKYC
	patientKYC map[uuid.UUID]*model.PatientKYC
}

func (f *fakeKYCRepo) UpsertDoctorKYC(_ context.Context, k *model.DoctorKYC) error {
	k.ID = uuid.New()
	f.doctorKYC[k.UserID] = k
	return nil
}

func (f *fakeKYCRepo) GetDoctorKYCByUserID(_ context.Context, userID uuid.UUID) (*model.DoctorKYC, error) {
	k, ok := f.doctorKYC[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return k, nil
}

func (f *fakeKYCRepo) UpdateDoctorKYCStatus(_ context.Context, userID uuid.UUID, status model.KYCStatus) error {
	k, ok := f.doctorKYC[userID]
	if !ok {
		return repository.ErrNotFound
	}
	k.Status = status
	return nil
}

func (f *fakeKYCRepo) UpdateDoctorProfile(_ context.Context, userID uuid.UUID, phone, country, city string) error {
	k, ok := f.doctorKYC[userID]
	if !ok {
		return nil
	}
	if phone != "" {
		k.PhoneNumber = phone
	}
	if country != "" {
		k.CountryOfResidence = country
	}
	if city != "" {
		k.CityOfResidence = city
	}
	return nil
}

func (f *fakeKYCRepo) CreatePatientKYC(_ context.Context, k *model.PatientKYC) error {
	k.ID = uuid.New()
	f.patientKYC[k.UserID] = k
	return nil
}

func (f *fakeKYCRepo) GetPatientKYCByUserID(_ context.Context, userID uuid.UUID) (*model.PatientKYC, error) {
	k, ok := f.patientKYC[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return k, nil
}

func (f *fakeKYCRepo) GetPatientKYCByID(_ context.Context, id uuid.UUID) (*model.PatientKYC, error) {
	for _, k := range f.patientKYC {
		if k.ID == id {
			return k, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeKYCRepo) UpdatePatientProfile(_ context.Context, userID uuid.UUID, firstName, lastName string) error {
	k, ok := f.patientKYC[userID]
	if !ok {
		return nil
	}
	if firstName != "" {
		k.FirstName = firstName
	}
	if lastName != "" {
		k.LastName = lastName
	}
	return nil
}

func (f *fakeKYCRepo) ListApprovedDoctors(_ context.Context, _ string) ([]*model.DoctorSummary, error) {
	return nil, nil
}

func (f *fakeKYCRepo) ListVerifiedPatients(_ context.Context, _ string) ([]*model.PatientSummary, error) {
	var out []*model.PatientSummary
	for _, k := range f.patientKYC {
		if k.Status == model.KYCStatusPassed {
			out = append(out, &model.PatientSummary{
				ID:        k.ID,
				UserID:    k.UserID,
				FirstName: k.FirstName,
				LastName:  k.LastName,
				Status:    k.Status,
			})
		}
	}
	return out, nil
}

type fixture struct {
	svc   *Service
	users *fakeUserRepo
	kyc   *fakeKYCRepo
}

func newFixture() *fixture {
	f := &fixture{
		users: &fakeUserRepo{users: make(map[uuid.UUID]*model.User)},
		kyc: &fakeKYCRepo{
			doctorKYC:  make(map[uuid.UUID]*model.DoctorKYC),
			patientKYC: make(map[uuid.UUID]*model.PatientKYC),
		},
	}
	f.svc = NewService(f.users, f.kyc, logger.NewLogger(nil))
	return f
}

func (f *fixture) addUser(role string) uuid.UUID {
	u := &model.User{Username: "someone", Email: "someone@example.com", Role: role}
	_ = f.users.Create(context.Background(), u)
	return u.ID
}

func TestGetProfileAttachesRoleRecord(t *testing.T) {
	f := newFixture()
	doctorID := f.addUser(model.RoleDoctor)
	require.NoError(t, f.kyc.UpsertDoctorKYC(context.Background(), &model.DoctorKYC{
		UserID:    doctorID,
		FirstName: "Jane",
		Status:    model.KYCStatusPassed,
	}))

	profile, err := f.svc.GetProfile(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, profile.Role)
	kyc, ok := profile.Details.(*model.DoctorKYC)
	require.True(t, ok)
	assert.Equal(t, "Jane", kyc.FirstName)

	_, err = f.svc.GetProfile(context.Background(), uuid.New())
	assert.EqualError(t, err, "User not found")
}

func TestGetProfileWithoutKYC(t *testing.T) {
	f := newFixture()
	patientID := f.addUser(model.RolePatient)

	profile, err := f.svc.GetProfile(context.Background(), patientID)
	require.NoError(t, err)
	assert.Nil(t, profile.Details)
}

func TestUpdateProfileByRole(t *testing.T) {
	f := newFixture()
	doctorID := f.addUser(model.RoleDoctor)
	require.NoError(t, f.kyc.UpsertDoctorKYC(context.Background(), &model.DoctorKYC{
		UserID:          doctorID,
		PhoneNumber:     "+12025550123",
		CityOfResidence: "Boston",
	}))

	profile, err := f.svc.UpdateProfile(context.Background(), doctorID, &model.UpdateProfileRequest{
		CityOfResidence: "Chicago",
	})
	require.NoError(t, err)

	kyc, ok := profile.Details.(*model.DoctorKYC)
	require.True(t, ok)
	assert.Equal(t, "Chicago", kyc.CityOfResidence)
	// Fields left empty keep their stored values.
	assert.Equal(t, "+12025550123", kyc.PhoneNumber)
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture()
	patientID := f.addUser(model.RolePatient)

	require.NoError(t, f.svc.DeleteAccount(context.Background(), patientID))

	err := f.svc.DeleteAccount(context.Background(), patientID)
	assert.EqualError(t, err, "User not found")
}

func TestListPatientsOnlyVerified(t *testing.T) {
	f := newFixture()
	verifiedID := f.addUser(model.RolePatient)
	require.NoError(t, f.kyc.CreatePatientKYC(context.Background(), &model.PatientKYC{
		UserID:    verifiedID,
		FirstName: "Bob",
		Status:    model.KYCStatusPassed,
	}))
	pendingID := f.addUser(model.RolePatient)
	require.NoError(t, f.kyc.CreatePatientKYC(context.Background(), &model.PatientKYC{
		UserID: pendingID,
		Status: model.KYCStatusPending,
	}))

	patients, err := f.svc.ListPatients(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Bob", patients[0].FirstName)
}

func TestGetPatientHidesUnverified(t *testing.T) {
	f := newFixture()
	pendingID := f.addUser(model.RolePatient)
	record := &model.PatientKYC{UserID: pendingID, Status: model.KYCStatusPending}
	require.NoError(t, f.kyc.CreatePatientKYC(context.Background(), record))

	_, err := f.svc.GetPatient(context.Background(), record.ID)
	assert.EqualError(t, err, "Patient not found.")

	_, err = f.svc.GetPatient(context.Background(), uuid.New())
	assert.EqualError(t, err, "Patient not found.")
}
