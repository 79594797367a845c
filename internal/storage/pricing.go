package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// ListPricing возвращает все строки цен, отсортированные по периоду,
// соревнованию и уровню образования. Порядок важен: при построении таблицы
// цен побеждает последняя строка с одинаковым ключом.
func (s *Storage) ListPricing(ctx context.Context) ([]models.PricingRow, error) {
	const op = "storage.ListPricing"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT batch_id, competition_id, education_level, price
			  FROM pricing
			  ORDER BY batch_id, competition_id, education_level`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.PricingRow
	for rows.Next() {
		var r models.PricingRow
		if err = rows.Scan(&r.BatchID, &r.CompetitionID, &r.EducationLevel, &r.Price); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReplacePricing заменяет всю таблицу цен в одной транзакции:
// удаление и вставка либо применяются целиком, либо не применяются вовсе,
// поэтому параллельные читатели не видят пустую таблицу.
// Дубликаты по тройке ключей схлопываются апсертом, выживает последняя строка.
func (s *Storage) ReplacePricing(ctx context.Context, pricingRows []models.PricingRow) error {
	const op = "storage.ReplacePricing"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM pricing`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO pricing (batch_id, competition_id, education_level, price)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (batch_id, competition_id, education_level)
			  DO UPDATE SET price = EXCLUDED.price`
	for _, r := range pricingRows {
		if _, err = tx.ExecContext(ctx, query, r.BatchID, r.CompetitionID, r.EducationLevel, r.Price); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
