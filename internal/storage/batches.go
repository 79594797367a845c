package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// CreateBatch сохраняет новый период регистрации и возвращает его ID.
func (s *Storage) CreateBatch(ctx context.Context, name string, startDate, endDate time.Time) (int64, error) {
	const op = "storage.CreateBatch"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO batches (name, start_date, end_date, is_active)
			  VALUES ($1, $2, $3, true)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, name, startDate, endDate).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetBatch возвращает период регистрации по ID.
func (s *Storage) GetBatch(ctx context.Context, id int64) (*models.Batch, error) {
	const op = "storage.GetBatch"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, start_date, end_date, is_active
			  FROM batches
			  WHERE id = $1`
	b := &models.Batch{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.StartDate, &b.EndDate, &b.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// ListBatches возвращает все периоды регистрации по возрастанию даты начала.
func (s *Storage) ListBatches(ctx context.Context) ([]*models.Batch, error) {
	const op = "storage.ListBatches"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, start_date, end_date, is_active
			  FROM batches
			  ORDER BY start_date`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Batch
	for rows.Next() {
		b := &models.Batch{}
		if err = rows.Scan(&b.ID, &b.Name, &b.StartDate, &b.EndDate, &b.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateBatch полностью заменяет имя и даты периода регистрации.
func (s *Storage) UpdateBatch(ctx context.Context, id int64, name string, startDate, endDate time.Time) error {
	const op = "storage.UpdateBatch"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE batches
			  SET name = $1, start_date = $2, end_date = $3
			  WHERE id = $4`
	res, err := s.DB.ExecContext(ctx, query, name, startDate, endDate, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// RemoveBatch удаляет период регистрации и возвращает число удалённых строк.
func (s *Storage) RemoveBatch(ctx context.Context, id int64) (int64, error) {
	const op = "storage.RemoveBatch"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
