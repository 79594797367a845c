package admin_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/services/admin"
	"github.com/magabrotheeeer/competition-registration/internal/storage"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateBatch(ctx context.Context, name string, startDate, endDate time.Time) (int64, error) {
	args := m.Called(ctx, name, startDate, endDate)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) GetBatch(ctx context.Context, id int64) (*models.Batch, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*models.Batch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) ListBatches(ctx context.Context) ([]*models.Batch, error) {
	args := m.Called(ctx)
	if b := args.Get(0); b != nil {
		return b.([]*models.Batch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) UpdateBatch(ctx context.Context, id int64, name string, startDate, endDate time.Time) error {
	args := m.Called(ctx, id, name, startDate, endDate)
	return args.Error(0)
}

func (m *RepoMock) RemoveBatch(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) UpsertSetting(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *RepoMock) ToggleRegistrationClosed(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) ListParticipants(ctx context.Context, filter models.ParticipantFilter) ([]models.ParticipantRow, error) {
	args := m.Called(ctx, filter)
	if r := args.Get(0); r != nil {
		return r.([]models.ParticipantRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepoMock) GetRegistration(ctx context.Context, id int64) (*models.Registration, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.Registration), args.Error(1)
	}
	return nil, args.Error(1)
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

func (m *RepoMock) ListPricing(ctx context.Context) ([]models.PricingRow, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]models.PricingRow), args.Error(1)
	}
	return nil, args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) PasswordReset(mail models.ResetMail) error {
	args := m.Called(mail)
	return args.Error(0)
}

func (m *NotifierMock) RegistrationStatus(mail models.StatusMail) error {
	args := m.Called(mail)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSwitchBatch(t *testing.T) {
	repo := new(RepoMock)
	svc := admin.New(repo, nil, discardLogger())

	batch := &models.Batch{ID: 2, Name: "Gelombang 2"}
	repo.On("GetBatch", mock.Anything, int64(2)).Return(batch, nil)
	repo.On("UpsertSetting", mock.Anything, models.SettingCurrentBatchID, "2").Return(nil)

	got, err := svc.SwitchBatch(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, batch, got)
	repo.AssertExpectations(t)
}

func TestSwitchBatch_MissingBatch(t *testing.T) {
	repo := new(RepoMock)
	svc := admin.New(repo, nil, discardLogger())

	repo.On("GetBatch", mock.Anything, int64(99)).Return(nil, storage.ErrNotFound)

	_, err := svc.SwitchBatch(context.Background(), 99)
	require.Error(t, err)
	repo.AssertNotCalled(t, "UpsertSetting", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleRegistration(t *testing.T) {
	repo := new(RepoMock)
	svc := admin.New(repo, nil, discardLogger())

	repo.On("ToggleRegistrationClosed", mock.Anything).Return(true, nil)

	closed, err := svc.ToggleRegistration(context.Background())
	require.NoError(t, err)
	assert.True(t, closed)
}

func TestBulkUpdateStatus_SendsMail(t *testing.T) {
	repo := new(RepoMock)
	n := new(NotifierMock)
	svc := admin.New(repo, n, discardLogger())

	ids := []int64{42}
	repo.On("BulkUpdateStatus", mock.Anything, ids, models.StatusApproved).Return(int64(1), nil)
	repo.On("GetRegistration", mock.Anything, int64(42)).
		Return(&models.Registration{ID: 42, UserUID: "uid-1", CompetitionID: 10}, nil)
	repo.On("GetUser", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", Email: "budi@example.com", FullName: "Budi Santoso"}, nil)
	repo.On("GetCompetition", mock.Anything, int64(10)).
		Return(&models.Competition{ID: 10, Title: "Olimpiade Matematika"}, nil)
	n.On("RegistrationStatus", models.StatusMail{
		Email:       "budi@example.com",
		FullName:    "Budi Santoso",
		Competition: "Olimpiade Matematika",
		Status:      models.StatusApproved,
	}).Return(nil)

	count, err := svc.BulkUpdateStatus(context.Background(), ids, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	n.AssertExpectations(t)
}

func TestBulkUpdateStatus_PendingSkipsMail(t *testing.T) {
	repo := new(RepoMock)
	n := new(NotifierMock)
	svc := admin.New(repo, n, discardLogger())

	ids := []int64{1, 2}
	repo.On("BulkUpdateStatus", mock.Anything, ids, models.StatusPending).Return(int64(2), nil)

	count, err := svc.BulkUpdateStatus(context.Background(), ids, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	n.AssertNotCalled(t, "RegistrationStatus", mock.Anything)
}

func TestBulkUpdateStatus_UnknownStatus(t *testing.T) {
	repo := new(RepoMock)
	svc := admin.New(repo, nil, discardLogger())

	_, err := svc.BulkUpdateStatus(context.Background(), []int64{1}, "cancelled")
	assert.ErrorIs(t, err, admin.ErrUnknownStatus)
	repo.AssertNotCalled(t, "BulkUpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Menunggu", admin.StatusLabel(models.StatusPending))
	assert.Equal(t, "Diterima", admin.StatusLabel(models.StatusApproved))
	assert.Equal(t, "Ditolak", admin.StatusLabel(models.StatusRejected))
	assert.Equal(t, "archived", admin.StatusLabel("archived"))
}

func TestExportParticipants(t *testing.T) {
	repo := new(RepoMock)
	svc := admin.New(repo, nil, discardLogger())

	filter := models.ParticipantFilter{BatchID: 2}
	repo.On("ListParticipants", mock.Anything, filter).Return([]models.ParticipantRow{
		{
			RegistrationID: 42,
			FullName:       "Budi Santoso",
			Email:          "budi@example.com",
			Competition:    "Olimpiade Matematika",
			BatchName:      "Gelombang 2",
			Status:         models.StatusApproved,
			Price:          75000,
			CreatedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}, nil)

	wb, err := svc.ExportParticipants(context.Background(), filter)
	require.NoError(t, err)

	rows, err := wb.File.GetRows("Peserta")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Nama Lengkap", rows[0][1])
	assert.Equal(t, "Budi Santoso", rows[1][1])
	assert.Equal(t, "Diterima", rows[1][8])
}

func TestExportPricing(t *testing.T) {
	repo := new(RepoMock)
	svc := admin.New(repo, nil, discardLogger())

	repo.On("ListPricing", mock.Anything).Return([]models.PricingRow{
		{BatchID: 1, CompetitionID: 10, EducationLevel: models.LevelHighSchool, Price: 50000},
	}, nil)

	wb, err := svc.ExportPricing(context.Background())
	require.NoError(t, err)

	rows, err := wb.File.GetRows("Harga")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "10", "high_school", "50000"}, rows[1])
}
