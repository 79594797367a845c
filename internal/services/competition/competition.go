// Package competition содержит логику каталога соревнований: публичные списки
// с кешированием в Redis и административные операции с инвалидацией кеша.
package competition

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/media"
	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// ListCacheKey ключ кеша публичного списка соревнований.
const ListCacheKey = "competitions:list"

// ListCacheTTL время жизни кеша списка соревнований.
const ListCacheTTL = 5 * time.Minute

// Repository описывает контракт хранилища соревнований.
type Repository interface {
	CreateCompetition(ctx context.Context, req models.CompetitionRequest) (int64, error)
	GetCompetition(ctx context.Context, id int64) (*models.Competition, error)
	ListCompetitions(ctx context.Context) ([]*models.Competition, error)
	UpdateCompetition(ctx context.Context, id int64, req models.CompetitionRequest) error
	SetCompetitionPoster(ctx context.Context, id int64, posterKey string) error
	RemoveCompetition(ctx context.Context, id int64) (int64, error)
}

// Cache описывает контракт кеша списков.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Media описывает контракт хранилища файлов для афиш.
type Media interface {
	Upload(ctx context.Context, key string, body io.ReadSeeker, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Service отвечает за каталог соревнований.
type Service struct {
	repo  Repository
	cache Cache
	media Media
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, m Media, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		media: m,
		log:   log,
	}
}

// List возвращает все соревнования. Список читается из кеша, при промахе
// загружается из базы и кладётся в кеш. Ошибки кеша не мешают ответу.
func (s *Service) List(ctx context.Context) ([]*models.Competition, error) {
	var cached []*models.Competition
	found, err := s.cache.Get(ListCacheKey, &cached)
	if err != nil {
		s.log.Warn("competition list cache read failed", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListCompetitions(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ListCacheKey, result, ListCacheTTL); err != nil {
		s.log.Warn("competition list cache write failed", sl.Err(err))
	}
	return result, nil
}

// Read возвращает одно соревнование по ID.
func (s *Service) Read(ctx context.Context, id int64) (*models.Competition, error) {
	return s.repo.GetCompetition(ctx, id)
}

// Create добавляет новое соревнование и сбрасывает кеш списка.
func (s *Service) Create(ctx context.Context, req models.CompetitionRequest) (int64, error) {
	id, err := s.repo.CreateCompetition(ctx, req)
	if err != nil {
		return 0, err
	}
	s.invalidateList()
	return id, nil
}

// Update заменяет данные соревнования и сбрасывает кеш списка.
func (s *Service) Update(ctx context.Context, id int64, req models.CompetitionRequest) error {
	if err := s.repo.UpdateCompetition(ctx, id, req); err != nil {
		return err
	}
	s.invalidateList()
	return nil
}

// Delete удаляет соревнование, возвращает число удалённых строк
// и сбрасывает кеш списка.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := s.repo.RemoveCompetition(ctx, id)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidateList()
	}
	return n, nil
}

// UploadPoster загружает афишу соревнования в хранилище файлов и сохраняет
// её ключ. Старая афиша удаляется по возможности.
func (s *Service) UploadPoster(ctx context.Context, id int64, body io.ReadSeeker, contentType string) (string, error) {
	comp, err := s.repo.GetCompetition(ctx, id)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%d/%s", media.FolderPosters, id, uuid.NewString())
	if err := s.media.Upload(ctx, key, body, contentType); err != nil {
		return "", err
	}
	if err := s.repo.SetCompetitionPoster(ctx, id, key); err != nil {
		return "", err
	}

	if comp.PosterKey != "" {
		if err := s.media.Delete(ctx, comp.PosterKey); err != nil {
			s.log.Warn("failed to delete old poster", sl.Err(err))
		}
	}
	s.invalidateList()
	return key, nil
}

func (s *Service) invalidateList() {
	if err := s.cache.Invalidate(ListCacheKey); err != nil {
		s.log.Warn("competition list cache invalidate failed", sl.Err(err))
	}
}
