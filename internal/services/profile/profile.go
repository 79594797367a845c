// Package profile реализует обновление профиля пользователя и подсчёт
// процента его заполненности для подсказок в интерфейсе.
package profile

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Repository определяет методы хранилища пользователей.
type Repository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateProfile обновляет поля профиля.
	UpdateProfile(ctx context.Context, userUID string, req models.UpdateProfileRequest) error
}

// Service отвечает за профиль пользователя.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Get возвращает пользователя вместе с процентом заполненности профиля.
func (s *Service) Get(ctx context.Context, userUID string) (*models.User, int, error) {
	u, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, 0, err
	}
	return u, Completeness(u), nil
}

// Update сохраняет поля профиля пользователя.
func (s *Service) Update(ctx context.Context, userUID string, req models.UpdateProfileRequest) error {
	if err := s.repo.UpdateProfile(ctx, userUID, req); err != nil {
		return err
	}
	s.log.Info("profile updated", slog.String("user_uid", userUID))
	return nil
}

// Completeness возвращает процент заполненных обязательных полей профиля,
// целое число от 0 до 100.
//
// Для администраторов набор полей сокращён до имени и почты. Для обычных
// пользователей к базовому набору добавляются школьные поля, только если
// уровень образования задан и не равен general. Поле считается заполненным,
// если это непустая строка после обрезки пробелов; значения других типов
// считаются заполненными, когда они не nil.
func Completeness(u *models.User) int {
	var fields []any
	if u.Role == models.RoleAdmin {
		fields = []any{u.FullName, u.Email}
	} else {
		fields = []any{
			u.FullName,
			u.Email,
			u.Phone,
			u.Address.Street,
			u.Address.City,
			u.Address.Province,
			u.Address.PostalCode,
			u.EducationLevel,
		}
		if u.EducationLevel != "" && u.EducationLevel != models.LevelGeneral {
			fields = append(fields, u.SchoolName, u.Grade, u.StudentID)
		}
	}

	if len(fields) == 0 {
		return 0
	}

	completed := 0
	for _, f := range fields {
		if fieldComplete(f) {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(fields)) * 100))
}

func fieldComplete(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case *string:
		return val != nil && strings.TrimSpace(*val) != ""
	default:
		return true
	}
}
