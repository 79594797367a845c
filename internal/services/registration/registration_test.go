package registration_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/services/pricing"
	"github.com/magabrotheeeer/competition-registration/internal/services/registration"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateRegistration(ctx context.Context, reg models.Registration, members []models.TeamMember) (int64, error) {
	args := m.Called(ctx, reg, members)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) GetRegistration(ctx context.Context, id int64) (*models.Registration, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) ListRegistrationsByUser(ctx context.Context, userUID string) ([]*models.Registration, error) {
	args := m.Called(ctx, userUID)
	if r := args.Get(0); r != nil {
		return r.([]*models.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) SetPaymentProof(ctx context.Context, id int64, proofKey string) error {
	args := m.Called(ctx, id, proofKey)
	return args.Error(0)
}

func (m *RepoMock) ListExpiredPending(ctx context.Context) ([]*models.Registration, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]*models.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) RemoveRegistration(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) GetCompetition(ctx context.Context, id int64) (*models.Competition, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Competition), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) IncrementParticipantCount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RepoMock) CreateSubmission(ctx context.Context, sub models.Submission) (int64, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) ListSubmissionsByRegistration(ctx context.Context, registrationID int64) ([]*models.Submission, error) {
	args := m.Called(ctx, registrationID)
	if s := args.Get(0); s != nil {
		return s.([]*models.Submission), args.Error(1)
	}
	return nil, args.Error(1)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(ctx context.Context) (*models.BatchResolution, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(*models.BatchResolution), args.Error(1)
	}
	return nil, args.Error(1)
}

type PricesMock struct {
	mock.Mock
}

func (m *PricesMock) Load(ctx context.Context) (pricing.Table, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.(pricing.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

type MediaMock struct {
	mock.Mock
}

func (m *MediaMock) Upload(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *MediaMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MediaMock) SignedURL(key string, ttl time.Duration) (string, error) {
	args := m.Called(key, ttl)
	return args.String(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openBatch() *models.BatchResolution {
	return &models.BatchResolution{
		Batch: &models.Batch{
			ID:      2,
			Name:    "Gelombang 2",
			EndDate: time.Now().Add(24 * time.Hour),
		},
		RegistrationClosed: false,
	}
}

func TestCreate(t *testing.T) {
	repo := new(RepoMock)
	resolver := new(ResolverMock)
	prices := new(PricesMock)
	svc := registration.New(repo, resolver, prices, nil, discardLogger())

	resolver.On("Resolve", mock.Anything).Return(openBatch(), nil)
	repo.On("GetCompetition", mock.Anything, int64(10)).
		Return(&models.Competition{ID: 10, Title: "Olimpiade Matematika", MaxTeamSize: 1}, nil)
	repo.On("GetUser", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", EducationLevel: models.LevelHighSchool}, nil)
	prices.On("Load", mock.Anything).Return(pricing.Table{
		2: {10: {models.LevelHighSchool: 75000}},
	}, nil)
	repo.On("CreateRegistration", mock.Anything, mock.MatchedBy(func(reg models.Registration) bool {
		return reg.UserUID == "uid-1" &&
			reg.CompetitionID == 10 &&
			reg.BatchID == 2 &&
			reg.Status == models.StatusPending &&
			reg.Price == 75000 &&
			time.Until(reg.ExpiresAt) > 23*time.Hour
	}), mock.Anything).Return(int64(42), nil)
	repo.On("IncrementParticipantCount", mock.Anything, int64(10)).Return(nil)

	reg, err := svc.Create(context.Background(), "uid-1", models.CreateRegistrationRequest{CompetitionID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(42), reg.ID)
	assert.Equal(t, 75000, reg.Price)
	repo.AssertExpectations(t)
}

func TestCreate_RegistrationClosed(t *testing.T) {
	repo := new(RepoMock)
	resolver := new(ResolverMock)
	svc := registration.New(repo, resolver, nil, nil, discardLogger())

	resolver.On("Resolve", mock.Anything).
		Return(&models.BatchResolution{Batch: nil, RegistrationClosed: true}, nil)

	_, err := svc.Create(context.Background(), "uid-1", models.CreateRegistrationRequest{CompetitionID: 10})
	assert.ErrorIs(t, err, registration.ErrRegistrationClosed)
	repo.AssertNotCalled(t, "CreateRegistration", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_MissingPriceFallsBackToZero(t *testing.T) {
	repo := new(RepoMock)
	resolver := new(ResolverMock)
	prices := new(PricesMock)
	svc := registration.New(repo, resolver, prices, nil, discardLogger())

	resolver.On("Resolve", mock.Anything).Return(openBatch(), nil)
	repo.On("GetCompetition", mock.Anything, int64(10)).
		Return(&models.Competition{ID: 10, MaxTeamSize: 1}, nil)
	repo.On("GetUser", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", EducationLevel: models.LevelUniversity}, nil)
	// Для этой тройки ключей цены нет, заявка создаётся с нулевой ценой.
	prices.On("Load", mock.Anything).Return(pricing.Table{}, nil)
	repo.On("CreateRegistration", mock.Anything, mock.MatchedBy(func(reg models.Registration) bool {
		return reg.Price == 0
	}), mock.Anything).Return(int64(43), nil)
	repo.On("IncrementParticipantCount", mock.Anything, int64(10)).Return(nil)

	reg, err := svc.Create(context.Background(), "uid-1", models.CreateRegistrationRequest{CompetitionID: 10})
	require.NoError(t, err)
	assert.Zero(t, reg.Price)
}

func TestCreate_TeamTooLarge(t *testing.T) {
	repo := new(RepoMock)
	resolver := new(ResolverMock)
	svc := registration.New(repo, resolver, nil, nil, discardLogger())

	resolver.On("Resolve", mock.Anything).Return(openBatch(), nil)
	repo.On("GetCompetition", mock.Anything, int64(10)).
		Return(&models.Competition{ID: 10, MaxTeamSize: 3}, nil)

	req := models.CreateRegistrationRequest{
		CompetitionID: 10,
		IsTeam:        true,
		TeamMembers: []models.TeamMemberRequest{
			{Name: "A", Email: "a@example.com"},
			{Name: "B", Email: "b@example.com"},
			{Name: "C", Email: "c@example.com"},
		},
	}
	_, err := svc.Create(context.Background(), "uid-1", req)
	assert.ErrorIs(t, err, registration.ErrTeamTooLarge)
}

func TestRead_Ownership(t *testing.T) {
	repo := new(RepoMock)
	svc := registration.New(repo, nil, nil, nil, discardLogger())

	repo.On("GetRegistration", mock.Anything, int64(42)).
		Return(&models.Registration{ID: 42, UserUID: "uid-1"}, nil)

	_, err := svc.Read(context.Background(), "uid-2", 42)
	assert.ErrorIs(t, err, registration.ErrNotOwner)

	reg, err := svc.Read(context.Background(), "uid-1", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), reg.ID)
}

func TestUploadPaymentProof_ReplacesOld(t *testing.T) {
	repo := new(RepoMock)
	md := new(MediaMock)
	svc := registration.New(repo, nil, nil, md, discardLogger())

	repo.On("GetRegistration", mock.Anything, int64(42)).
		Return(&models.Registration{ID: 42, UserUID: "uid-1", PaymentProofKey: "payment-proofs/42/old"}, nil)
	md.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/jpeg").Return(nil)
	repo.On("SetPaymentProof", mock.Anything, int64(42), mock.AnythingOfType("string")).Return(nil)
	md.On("Delete", mock.Anything, "payment-proofs/42/old").Return(nil)

	key, err := svc.UploadPaymentProof(context.Background(), "uid-1", 42,
		bytes.NewReader([]byte("jpg")), "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, key, "payment-proofs/42/")
	md.AssertExpectations(t)
}

func TestSubmitWork_RequiresApproval(t *testing.T) {
	repo := new(RepoMock)
	md := new(MediaMock)
	svc := registration.New(repo, nil, nil, md, discardLogger())

	repo.On("GetRegistration", mock.Anything, int64(42)).
		Return(&models.Registration{ID: 42, UserUID: "uid-1", Status: models.StatusPending}, nil)

	_, err := svc.SubmitWork(context.Background(), "uid-1", 42,
		bytes.NewReader([]byte("pdf")), "karya.pdf", "application/pdf")
	assert.ErrorIs(t, err, registration.ErrNotApproved)
	md.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitWork(t *testing.T) {
	repo := new(RepoMock)
	md := new(MediaMock)
	svc := registration.New(repo, nil, nil, md, discardLogger())

	repo.On("GetRegistration", mock.Anything, int64(42)).
		Return(&models.Registration{ID: 42, UserUID: "uid-1", Status: models.StatusApproved}, nil)
	md.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "application/pdf").Return(nil)
	repo.On("CreateSubmission", mock.Anything, mock.MatchedBy(func(sub models.Submission) bool {
		return sub.RegistrationID == 42 && sub.OriginalName == "karya.pdf"
	})).Return(int64(7), nil)

	sub, err := svc.SubmitWork(context.Background(), "uid-1", 42,
		bytes.NewReader([]byte("pdf")), "karya.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(7), sub.ID)
	assert.Contains(t, sub.FileKey, "submissions/42/")
}

func TestSignedProofURL(t *testing.T) {
	repo := new(RepoMock)
	md := new(MediaMock)
	svc := registration.New(repo, nil, nil, md, discardLogger())

	repo.On("GetRegistration", mock.Anything, int64(42)).
		Return(&models.Registration{ID: 42, UserUID: "uid-1", PaymentProofKey: "payment-proofs/42/x"}, nil)
	md.On("SignedURL", "payment-proofs/42/x", registration.ProofURLTTL).
		Return("https://bucket.example.com/signed", nil)

	// Чужой пользователь без роли администратора доступа не имеет.
	_, err := svc.SignedProofURL(context.Background(), "uid-2", models.RoleUser, 42)
	assert.ErrorIs(t, err, registration.ErrNotOwner)

	// Администратор видит любое подтверждение.
	url, err := svc.SignedProofURL(context.Background(), "uid-2", models.RoleAdmin, 42)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/signed", url)
}

func TestSignedProofURL_NoProof(t *testing.T) {
	repo := new(RepoMock)
	svc := registration.New(repo, nil, nil, nil, discardLogger())

	repo.On("GetRegistration", mock.Anything, int64(42)).
		Return(&models.Registration{ID: 42, UserUID: "uid-1"}, nil)

	_, err := svc.SignedProofURL(context.Background(), "uid-1", models.RoleUser, 42)
	assert.ErrorIs(t, err, registration.ErrNoPaymentProof)
}

func TestCleanupExpired(t *testing.T) {
	repo := new(RepoMock)
	svc := registration.New(repo, nil, nil, nil, discardLogger())

	repo.On("ListExpiredPending", mock.Anything).Return([]*models.Registration{
		{ID: 1}, {ID: 2}, {ID: 3},
	}, nil)
	repo.On("RemoveRegistration", mock.Anything, int64(1)).Return(int64(1), nil)
	repo.On("RemoveRegistration", mock.Anything, int64(2)).Return(int64(1), nil)
	// Третья заявка уже удалена кем-то другим, это не ошибка очистки.
	repo.On("RemoveRegistration", mock.Anything, int64(3)).Return(int64(0), nil)

	removed, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	repo.AssertExpectations(t)
}
