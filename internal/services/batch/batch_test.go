package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/competition-registration/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetSettings(ctx context.Context, keys ...string) (map[string]string, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *RepoMock) GetBatch(ctx context.Context, id int64) (*models.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *RepoMock) ListBatches(ctx context.Context) ([]*models.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Batch), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Resolve(t *testing.T) {
	future := time.Now().AddDate(0, 1, 0)
	past := time.Now().AddDate(0, -1, 0)

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantBatch  int64
		wantNil    bool
		wantClosed bool
		wantErr    bool
	}{
		{
			name: "no settings row means closed",
			setupMocks: func(r *RepoMock) {
				r.On("GetSettings", mock.Anything, mock.Anything).
					Return(map[string]string{}, nil)
			},
			wantNil:    true,
			wantClosed: true,
		},
		{
			name: "open batch with kill switch off",
			setupMocks: func(r *RepoMock) {
				r.On("GetSettings", mock.Anything, mock.Anything).
					Return(map[string]string{models.SettingCurrentBatchID: "2"}, nil)
				r.On("GetBatch", mock.Anything, int64(2)).
					Return(&models.Batch{ID: 2, Name: "Gelombang 2", EndDate: future}, nil)
			},
			wantBatch:  2,
			wantClosed: false,
		},
		{
			name: "kill switch wins before end date",
			setupMocks: func(r *RepoMock) {
				r.On("GetSettings", mock.Anything, mock.Anything).
					Return(map[string]string{
						models.SettingCurrentBatchID:     "2",
						models.SettingRegistrationClosed: "true",
					}, nil)
				r.On("GetBatch", mock.Anything, int64(2)).
					Return(&models.Batch{ID: 2, EndDate: future}, nil)
			},
			wantBatch:  2,
			wantClosed: true,
		},
		{
			name: "past end date closes even with kill switch off",
			setupMocks: func(r *RepoMock) {
				r.On("GetSettings", mock.Anything, mock.Anything).
					Return(map[string]string{
						models.SettingCurrentBatchID:     "1",
						models.SettingRegistrationClosed: "false",
					}, nil)
				r.On("GetBatch", mock.Anything, int64(1)).
					Return(&models.Batch{ID: 1, EndDate: past}, nil)
			},
			wantBatch:  1,
			wantClosed: true,
		},
		{
			name: "missing batch row surfaces as error",
			setupMocks: func(r *RepoMock) {
				r.On("GetSettings", mock.Anything, mock.Anything).
					Return(map[string]string{models.SettingCurrentBatchID: "99"}, nil)
				r.On("GetBatch", mock.Anything, int64(99)).
					Return(nil, errors.New("not found"))
			},
			wantErr: true,
		},
		{
			name: "garbage batch id treated as unset",
			setupMocks: func(r *RepoMock) {
				r.On("GetSettings", mock.Anything, mock.Anything).
					Return(map[string]string{models.SettingCurrentBatchID: "abc"}, nil)
			},
			wantNil:    true,
			wantClosed: true,
		},
		{
			name: "settings fetch failure",
			setupMocks: func(r *RepoMock) {
				r.On("GetSettings", mock.Anything, mock.Anything).
					Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := New(repo, newNoopLogger())

			got, err := svc.Resolve(context.Background())

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got.Batch)
			} else {
				require.NotNil(t, got.Batch)
				assert.Equal(t, tt.wantBatch, got.Batch.ID)
			}
			assert.Equal(t, tt.wantClosed, got.RegistrationClosed)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Resolve_SwitchBetweenBatches(t *testing.T) {
	// batch 1 закончился, batch 2 ещё идёт; переключение настройки меняет результат
	repo := new(RepoMock)
	repo.On("GetSettings", mock.Anything, mock.Anything).
		Return(map[string]string{models.SettingCurrentBatchID: "2"}, nil).Once()
	repo.On("GetBatch", mock.Anything, int64(2)).
		Return(&models.Batch{ID: 2, EndDate: time.Now().AddDate(0, 0, 7)}, nil).Once()
	repo.On("GetSettings", mock.Anything, mock.Anything).
		Return(map[string]string{models.SettingCurrentBatchID: "1"}, nil).Once()
	repo.On("GetBatch", mock.Anything, int64(1)).
		Return(&models.Batch{ID: 1, EndDate: time.Now().AddDate(0, 0, -7)}, nil).Once()

	svc := New(repo, newNoopLogger())

	got, err := svc.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Batch.ID)
	assert.False(t, got.RegistrationClosed)

	got, err = svc.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Batch.ID)
	assert.True(t, got.RegistrationClosed)
}
