package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// CreateCompetition сохраняет новое соревнование и возвращает его ID.
func (s *Storage) CreateCompetition(ctx context.Context, req models.CompetitionRequest) (int64, error) {
	const op = "storage.CreateCompetition"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO competitions (title, category, description, base_fee, max_team_size)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		req.Title, req.Category, req.Description, req.BaseFee, req.MaxTeamSize).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetCompetition возвращает соревнование по ID.
func (s *Storage) GetCompetition(ctx context.Context, id int64) (*models.Competition, error) {
	const op = "storage.GetCompetition"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, category, description, base_fee, max_team_size,
			      participant_count, poster_key
			  FROM competitions
			  WHERE id = $1`
	c := &models.Competition{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Title, &c.Category,
		&c.Description, &c.BaseFee, &c.MaxTeamSize, &c.ParticipantCount, &c.PosterKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListCompetitions возвращает все соревнования, отсортированные по категории и названию.
func (s *Storage) ListCompetitions(ctx context.Context) ([]*models.Competition, error) {
	const op = "storage.ListCompetitions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, category, description, base_fee, max_team_size,
			      participant_count, poster_key
			  FROM competitions
			  ORDER BY category, title`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Competition
	for rows.Next() {
		c := &models.Competition{}
		if err = rows.Scan(&c.ID, &c.Title, &c.Category, &c.Description, &c.BaseFee,
			&c.MaxTeamSize, &c.ParticipantCount, &c.PosterKey); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCompetition полностью заменяет данные соревнования.
func (s *Storage) UpdateCompetition(ctx context.Context, id int64, req models.CompetitionRequest) error {
	const op = "storage.UpdateCompetition"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE competitions
			  SET title = $1, category = $2, description = $3, base_fee = $4, max_team_size = $5
			  WHERE id = $6`
	res, err := s.DB.ExecContext(ctx, query,
		req.Title, req.Category, req.Description, req.BaseFee, req.MaxTeamSize, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// SetCompetitionPoster сохраняет ключ афиши соревнования в хранилище файлов.
func (s *Storage) SetCompetitionPoster(ctx context.Context, id int64, posterKey string) error {
	const op = "storage.SetCompetitionPoster"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx, `UPDATE competitions SET poster_key = $1 WHERE id = $2`, posterKey, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveCompetition удаляет соревнование и возвращает число удалённых строк.
func (s *Storage) RemoveCompetition(ctx context.Context, id int64) (int64, error) {
	const op = "storage.RemoveCompetition"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM competitions WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// IncrementParticipantCount увеличивает счётчик участников соревнования.
func (s *Storage) IncrementParticipantCount(ctx context.Context, id int64) error {
	const op = "storage.IncrementParticipantCount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx,
		`UPDATE competitions SET participant_count = participant_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
