package kyc

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/repository"
	apperrors "github.com/caremeet/telehealth-api/pkg/errors"
	"github.com/caremeet/telehealth-api/pkg/logger"
)

type fakeKYCRepo struct {
	doctorKYC  map[uuid.UUID]*model.DoctorKYC
	patientKYC map[uuid.UUID]*model.PatientKYC
}

func (f *fakeKYCRepo) UpsertDoctorKYC(_ context.Context, k *model.DoctorKYC) error {
	if existing, ok := f.doctorKYC[k.UserID]; ok {
		k.ID = existing.ID
	} else {
		k.ID = uuid.New()
	}
	f.doctorKYC[k.UserID] = k
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

func (f *fakeKYCRepo) GetPatientKYCByID(_ context.Context, id uuid.UUID) (*model.PatientKYC, error) {
	for _, k := range f.patientKYC {
		if k.ID == id {
			return k, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeKYCRepo) ListVerifiedPatients(_ context.Context, _ string) ([]*model.PatientSummary, error) {
	var out []*model.PatientSummary
	for _, k := range f.patientKYC {
		if k.Status == model.KYCStatusPassed {
			out = append(out, &model.PatientSummary{ID: k.ID, UserID: k.UserID, FirstName: k.FirstName})
		}
	}
	return out, nil
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

func (f *fakeKYCRepo) ListApprovedDoctors(_ context.Context, _ string) ([]*model.DoctorSummary, error) {
	var out []*model.DoctorSummary
	for _, k := range f.doctorKYC {
		if k.Status == model.KYCStatusPassed {
			out = append(out, &model.DoctorSummary{UserID: k.UserID, FirstName: k.FirstName})
		}
	}
	return out, nil
}

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
	delete(f.users, id)
	return nil
}

type fakeNotifier struct {
	sent []model.CreateNotificationInput
}

func (f *fakeNotifier) Notify(_ context.Context, input model.CreateNotificationInput) (*model.Notification, error) {
	f.sent = append(f.sent, input)
	return &model.Notification{}, nil
}

func (f *fakeNotifier) ListForUser(_ context.Context, _ uuid.UUID) ([]*model.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(_ context.Context, _, _ uuid.UUID) error { return nil }

func (f *fakeNotifier) MarkAllRead(_ context.Context, _ uuid.UUID) error { return nil }

type fixture struct {
	svc      *Service
	repo     *fakeKYCRepo
	users    *fakeUserRepo
	notifier *fakeNotifier
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &fakeKYCRepo{doctorKYC: make(map[uuid.UUID]*model.DoctorKYC), patientKYC: make(map[uuid.UUID]*model.PatientKYC)},
		users:    &fakeUserRepo{users: make(map[uuid.UUID]*model.User)},
		notifier: &fakeNotifier{},
	}
	f.svc = NewService(f.repo, f.users, f.notifier, logger.NewLogger(nil))
	return f
}

func (f *fixture) addUser(role string) uuid.UUID {
	u := &model.User{Username: "someone", Email: "someone@example.com", Role: role}
	_ = f.users.Create(context.Background(), u)
	return u.ID
}

func doctorKYCRequest() *model.SubmitDoctorKYCRequest {
	return &model.SubmitDoctorKYCRequest{
		FirstName:          "Jane",
		LastName:           "Smith",
		PhoneNumber:        "+12025550123",
		Gender:             "FEMALE",
		DateOfBirth:        "1980-06-15",
		CountryOfResidence: "US",
		CityOfResidence:    "Boston",
	}
}

func TestSubmitDoctorKYC(t *testing.T) {
	f := newFixture()
	doctorID := f.addUser(model.RoleDoctor)

	record, err := f.svc.SubmitDoctorKYC(context.Background(), doctorID, doctorKYCRequest())
	require.NoError(t, err)
	assert.Equal(t, model.KYCStatusPending, record.Status)
	require.NotNil(t, record.DateOfBirth)
	assert.Equal(t, 1980, record.DateOfBirth.Year())

	_, err = f.svc.SubmitDoctorKYC(context.Background(), doctorID, doctorKYCRequest())
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestSubmitDoctorKYCRoleGate(t *testing.T) {
	f := newFixture()
	patientID := f.addUser(model.RolePatient)

	_, err := f.svc.SubmitDoctorKYC(context.Background(), patientID, doctorKYCRequest())
	assert.EqualError(t, err, "Only doctors can submit doctor KYC")
}

func TestSubmitDoctorKYCAfterRejection(t *testing.T) {
	f := newFixture()
	doctorID := f.addUser(model.RoleDoctor)

	record, err := f.svc.SubmitDoctorKYC(context.Background(), doctorID, doctorKYCRequest())
	require.NoError(t, err)
	record.Status = model.KYCStatusRejected

	_, err = f.svc.SubmitDoctorKYC(context.Background(), doctorID, doctorKYCRequest())
	assert.NoError(t, err)
}

func TestResubmissionReplacesRejectedRecord(t *testing.T) {
	f := newFixture()
	doctorID := f.addUser(model.RoleDoctor)

	first, err := f.svc.SubmitDoctorKYC(context.Background(), doctorID, doctorKYCRequest())
	require.NoError(t, err)

	_, err = f.svc.ReviewDoctorKYC(context.Background(), doctorID, &model.ReviewKYCRequest{
		Status: model.KYCStatusRejected,
	})
	require.NoError(t, err)

	second, err := f.svc.SubmitDoctorKYC(context.Background(), doctorID, doctorKYCRequest())
	require.NoError(t, err)

	// One record per doctor: the rejected row is replaced, so the
	// status lookup cannot keep seeing REJECTED after a resubmission.
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.repo.doctorKYC, 1)

	current, err := f.svc.GetDoctorKYC(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Equal(t, model.KYCStatusPending, current.Status)
}

func TestReviewDoctorKYCNotifies(t *testing.T) {
	f := newFixture()
	doctorID := f.addUser(model.RoleDoctor)
	_, err := f.svc.SubmitDoctorKYC(context.Background(), doctorID, doctorKYCRequest())
	require.NoError(t, err)

	record, err := f.svc.ReviewDoctorKYC(context.Background(), doctorID, &model.ReviewKYCRequest{
		Status: model.KYCStatusPassed,
	})
	require.NoError(t, err)
	assert.Equal(t, model.KYCStatusPassed, record.Status)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, doctorID, f.notifier.sent[0].UserID)
	assert.Equal(t, model.NotificationTypeKYC, f.notifier.sent[0].Type)

	_, err = f.svc.ReviewDoctorKYC(context.Background(), uuid.New(), &model.ReviewKYCRequest{
		Status: model.KYCStatusPassed,
	})
	assert.EqualError(t, err, "KYC not found")
}

func TestSubmitPatientKYC(t *testing.T) {
	f := newFixture()
	patientID := f.addUser(model.RolePatient)

	record, err := f.svc.SubmitPatientKYC(context.Background(), patientID, &model.SubmitPatientKYCRequest{
		FirstName: "Bob",
		LastName:  "Jones",
	})
	require.NoError(t, err)
	assert.Equal(t, model.KYCStatusPassed, record.Status)

	_, err = f.svc.SubmitPatientKYC(context.Background(), patientID, &model.SubmitPatientKYCRequest{
		FirstName: "Bob",
		LastName:  "Jones",
	})
	assert.EqualError(t, err, "KYC already submitted")
}
