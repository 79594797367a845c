// Package pricing реализует таблицу цен: построение вложенной структуры
// поиска из плоских строк, явный фолбэк при отсутствии ключа и полную
// замену таблицы администратором.
package pricing

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Repository определяет методы хранилища цен.
type Repository interface {
	// ListPricing возвращает строки цен в порядке возрастания периода.
	ListPricing(ctx context.Context) ([]models.PricingRow, error)
	// ReplacePricing заменяет всю таблицу цен в одной транзакции.
	ReplacePricing(ctx context.Context, rows []models.PricingRow) error
}

// Table вложенная структура поиска цены:
// период регистрации -> соревнование -> уровень образования -> цена.
// Отсутствие любого уровня ключа означает цену 0, ошибок поиск не порождает.
type Table map[int64]map[int64]map[string]int

// Build строит таблицу одним проходом по строкам. При совпадении полного
// ключа побеждает последняя строка в порядке обхода.
func Build(rows []models.PricingRow) Table {
	t := make(Table)
	for _, r := range rows {
		byCompetition, ok := t[r.BatchID]
		if !ok {
			byCompetition = make(map[int64]map[string]int)
			t[r.BatchID] = byCompetition
		}
		byLevel, ok := byCompetition[r.CompetitionID]
		if !ok {
			byLevel = make(map[string]int)
			byCompetition[r.CompetitionID] = byLevel
		}
		byLevel[r.EducationLevel] = r.Price
	}
	return t
}

// Price возвращает цену для тройки ключей либо 0, если любой из уровней отсутствует.
func (t Table) Price(batchID, competitionID int64, educationLevel string) int {
	byCompetition, ok := t[batchID]
	if !ok {
		return 0
	}
	byLevel, ok := byCompetition[competitionID]
	if !ok {
		return 0
	}
	return byLevel[educationLevel]
}

// Rows разворачивает таблицу обратно в плоские строки.
func (t Table) Rows() []models.PricingRow {
	var rows []models.PricingRow
	for batchID, byCompetition := range t {
		for competitionID, byLevel := range byCompetition {
			for level, price := range byLevel {
				rows = append(rows, models.PricingRow{
					BatchID:        batchID,
					CompetitionID:  competitionID,
					EducationLevel: level,
					Price:          price,
				})
			}
		}
	}
	return rows
}

// Service отвечает за чтение и замену таблицы цен.
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

// Load строит таблицу цен из базы.
func (s *Service) Load(ctx context.Context) (Table, error) {
	rows, err := s.repo.ListPricing(ctx)
	if err != nil {
		return nil, err
	}
	return Build(rows), nil
}

// Rows возвращает плоские строки цен для экспорта.
func (s *Service) Rows(ctx context.Context) ([]models.PricingRow, error) {
	return s.repo.ListPricing(ctx)
}

// Replace заменяет всю таблицу цен содержимым переданной структуры.
func (s *Service) Replace(ctx context.Context, t Table) error {
	rows := t.Rows()
	if err := s.repo.ReplacePricing(ctx, rows); err != nil {
		return err
	}
	s.log.Info("pricing table replaced", slog.Int("rows", len(rows)))
	return nil
}
