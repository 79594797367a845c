package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// CreateSubmission сохраняет файл конкурсной работы и возвращает его ID.
func (s *Storage) CreateSubmission(ctx context.Context, sub models.Submission) (int64, error) {
	const op = "storage.CreateSubmission"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO submissions (registration_id, file_key, original_name)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.RegistrationID, sub.FileKey, sub.OriginalName).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetSubmission возвращает работу по ID.
func (s *Storage) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	const op = "storage.GetSubmission"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, registration_id, file_key, original_name, submitted_at
			  FROM submissions
			  WHERE id = $1`
	sub := &models.Submission{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&sub.ID, &sub.RegistrationID,
		&sub.FileKey, &sub.OriginalName, &sub.SubmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ListSubmissionsByRegistration возвращает работы по заявке.
func (s *Storage) ListSubmissionsByRegistration(ctx context.Context, registrationID int64) ([]*models.Submission, error) {
	const op = "storage.ListSubmissionsByRegistration"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, registration_id, file_key, original_name, submitted_at
			  FROM submissions
			  WHERE registration_id = $1
			  ORDER BY submitted_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, registrationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Submission
	for rows.Next() {
		sub := &models.Submission{}
		if err = rows.Scan(&sub.ID, &sub.RegistrationID, &sub.FileKey,
			&sub.OriginalName, &sub.SubmittedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
