package toggleregistration

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Мок сервиса с методом ToggleRegistration
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ToggleRegistration(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestToggleRegistrationHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		mockClosed     bool
		mockErr        error
		wantStatusCode int
		wantClosed     bool
		wantError      string
		wantStatus     string
	}{
		{
			name:           "toggled to closed",
			mockClosed:     true,
			wantStatusCode: http.StatusOK,
			wantClosed:     true,
			wantStatus:     "OK",
		},
		{
			name:           "toggled to open",
			mockClosed:     false,
			wantStatusCode: http.StatusOK,
			wantClosed:     false,
			wantStatus:     "OK",
		},
		{
			name:           "service error",
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to toggle registration flag",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			serviceMock.On("ToggleRegistration", mock.Anything).
				Return(tt.mockClosed, tt.mockErr).Once()

			handler := New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodPost, "/admin/registration/toggle", nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.wantClosed, data["registration_closed"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
