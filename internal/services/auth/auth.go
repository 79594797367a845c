// Package auth содержит логику регистрации, входа и сброса пароля пользователей.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/competition-registration/internal/lib/jwt"
	"github.com/magabrotheeeer/competition-registration/internal/lib/password"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/services/notifier"
)

// ResetTokenTTL срок жизни токена сброса пароля.
const ResetTokenTTL = time.Hour

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrResetTokenExpired возвращается при попытке сброса по просроченному токену.
var ErrResetTokenExpired = errors.New("reset token expired")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByEmail возвращает пользователя по адресу почты.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByResetToken возвращает пользователя по токену сброса пароля.
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)

	// SetResetToken сохраняет токен сброса и срок его действия.
	SetResetToken(ctx context.Context, userUID, token string, expiry time.Time) error

	// UpdatePassword сохраняет новый хэш пароля и очищает токен сброса.
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
}

// Service отвечает за регистрацию, авторизацию и сброс пароля.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	notifier notifier.Notifier
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, n notifier.Notifier, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		notifier: n,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         models.RoleUser, // дефолтная роль при регистрации
		FullName:     req.FullName,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// RequestPasswordReset генерирует токен сброса, сохраняет его и публикует
// событие письма. Если пользователь с такой почтой не найден, ошибка
// не возвращается, чтобы не раскрывать существование аккаунта.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		s.log.Info("password reset requested for unknown email")
		return nil
	}

	token, err := password.NewResetToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.UID, token, expiry); err != nil {
		return err
	}

	err = s.notifier.PasswordReset(models.ResetMail{
		Email:    user.Email,
		FullName: user.FullName,
		Token:    token,
	})
	if err != nil {
		s.log.Error("failed to queue reset mail", sl.Err(err))
		return err
	}
	return nil
}

// ResetPassword проверяет токен сброса и устанавливает новый пароль.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.GetUserByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return ErrResetTokenExpired
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.UID, hashed)
}
