// Package batch реализует определение текущего периода регистрации
// и признака закрытия регистрации.
package batch

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Repository определяет методы хранилища, нужные для определения периода.
type Repository interface {
	// GetSettings возвращает значения настроек по ключам одной выборкой.
	GetSettings(ctx context.Context, keys ...string) (map[string]string, error)
	// GetBatch возвращает период регистрации по ID.
	GetBatch(ctx context.Context, id int64) (*models.Batch, error)
	// ListBatches возвращает все периоды регистрации.
	ListBatches(ctx context.Context) ([]*models.Batch, error)
}

// Service отвечает за резолв текущего периода регистрации.
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

// Resolve возвращает текущий период регистрации и признак закрытия.
//
// Если настройка current_batch_id не задана, период равен nil и регистрация
// считается закрытой. Назначенный, но отсутствующий в базе период — ошибка,
// она не маскируется значением по умолчанию. Регистрация закрыта, если
// ручной флаг registration_closed равен строке "true" либо текущий момент
// позже даты окончания периода; каждое из условий достаточно само по себе.
func (s *Service) Resolve(ctx context.Context) (*models.BatchResolution, error) {
	values, err := s.repo.GetSettings(ctx,
		models.SettingCurrentBatchID, models.SettingRegistrationClosed)
	if err != nil {
		return nil, err
	}

	rawID, ok := values[models.SettingCurrentBatchID]
	if !ok || rawID == "" {
		s.log.Warn("current batch is not configured, registration treated as closed")
		return &models.BatchResolution{Batch: nil, RegistrationClosed: true}, nil
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		s.log.Warn("current batch setting is not a number, registration treated as closed",
			slog.String("value", rawID))
		return &models.BatchResolution{Batch: nil, RegistrationClosed: true}, nil
	}

	b, err := s.repo.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}

	closed := values[models.SettingRegistrationClosed] == "true" || time.Now().After(b.EndDate)
	return &models.BatchResolution{Batch: b, RegistrationClosed: closed}, nil
}

// List возвращает все периоды регистрации.
func (s *Service) List(ctx context.Context) ([]*models.Batch, error) {
	return s.repo.ListBatches(ctx)
}
