package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/competition-registration/internal/lib/jwt"
	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/services/auth"
	"github.com/magabrotheeeer/competition-registration/internal/storage"
)

type UsersMock struct {
	mock.Mock
}

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UsersMock) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UsersMock) SetResetToken(ctx context.Context, userUID, token string, expiry time.Time) error {
	args := m.Called(ctx, userUID, token, expiry)
	return args.Error(0)
}

func (m *UsersMock) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	args := m.Called(ctx, userUID, passwordHash)
	return args.Error(0)
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

func TestRegister(t *testing.T) {
	users := new(UsersMock)
	svc := auth.New(users, nil, nil, discardLogger())

	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "budi@example.com" &&
			u.Username == "budi" &&
			u.Role == models.RoleUser &&
			u.FullName == "Budi Santoso" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret-password")) == nil
	})).Return("uid-1", nil)

	uid, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "budi@example.com",
		Username: "budi",
		Password: "secret-password",
		FullName: "Budi Santoso",
	})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	users.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	users := new(UsersMock)
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	svc := auth.New(users, maker, nil, discardLogger())

	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	users.On("GetUserByUsername", mock.Anything, "budi").
		Return(&models.User{
			UID:          "uid-1",
			Username:     "budi",
			Role:         models.RoleUser,
			PasswordHash: string(hash),
		}, nil)

	token, role, err := svc.Login(context.Background(), "budi", "right-password")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "budi", claims.Username)
	assert.Equal(t, "uid-1", claims.UserUID)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(UsersMock)
	svc := auth.New(users, nil, nil, discardLogger())

	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	users.On("GetUserByUsername", mock.Anything, "budi").
		Return(&models.User{Username: "budi", PasswordHash: string(hash)}, nil)

	_, _, err = svc.Login(context.Background(), "budi", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	users := new(UsersMock)
	svc := auth.New(users, nil, nil, discardLogger())

	users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, storage.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRequestPasswordReset(t *testing.T) {
	users := new(UsersMock)
	n := new(NotifierMock)
	svc := auth.New(users, nil, n, discardLogger())

	user := &models.User{UID: "uid-1", Email: "budi@example.com", FullName: "Budi Santoso"}
	users.On("GetUserByEmail", mock.Anything, "budi@example.com").Return(user, nil)

	var savedToken string
	users.On("SetResetToken", mock.Anything, "uid-1", mock.AnythingOfType("string"),
		mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { savedToken = args.String(2) }).
		Return(nil)
	n.On("PasswordReset", mock.MatchedBy(func(mail models.ResetMail) bool {
		return mail.Email == "budi@example.com" && mail.Token != ""
	})).Return(nil)

	err := svc.RequestPasswordReset(context.Background(), "budi@example.com")
	require.NoError(t, err)
	assert.Len(t, savedToken, 64)
	users.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	users := new(UsersMock)
	n := new(NotifierMock)
	svc := auth.New(users, nil, n, discardLogger())

	users.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, storage.ErrNotFound)

	// Несуществующая почта не должна приводить к ошибке и письму.
	err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	n.AssertNotCalled(t, "PasswordReset", mock.Anything)
}

func TestResetPassword(t *testing.T) {
	users := new(UsersMock)
	svc := auth.New(users, nil, nil, discardLogger())

	expiry := time.Now().Add(30 * time.Minute)
	user := &models.User{UID: "uid-1", ResetTokenExpiry: &expiry}
	users.On("GetUserByResetToken", mock.Anything, "token-abc").Return(user, nil)
	users.On("UpdatePassword", mock.Anything, "uid-1", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")) == nil
	})).Return(nil)

	err := svc.ResetPassword(context.Background(), "token-abc", "new-password")
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestResetPassword_Expired(t *testing.T) {
	users := new(UsersMock)
	svc := auth.New(users, nil, nil, discardLogger())

	expiry := time.Now().Add(-time.Minute)
	user := &models.User{UID: "uid-1", ResetTokenExpiry: &expiry}
	users.On("GetUserByResetToken", mock.Anything, "stale-token").Return(user, nil)

	err := svc.ResetPassword(context.Background(), "stale-token", "new-password")
	assert.ErrorIs(t, err, auth.ErrResetTokenExpired)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}
