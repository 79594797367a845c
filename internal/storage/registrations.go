package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// CreateRegistration сохраняет заявку вместе с участниками команды
// в одной транзакции и возвращает ID заявки.
func (s *Storage) CreateRegistration(ctx context.Context, reg models.Registration, members []models.TeamMember) (int64, error) {
	const op = "storage.CreateRegistration"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var id int64
	query := `INSERT INTO registrations (user_uid, competition_id, batch_id, status,
			      is_team, price, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (user_uid, competition_id, batch_id) DO NOTHING
			  RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		reg.UserUID, reg.CompetitionID, reg.BatchID, reg.Status,
		reg.IsTeam, reg.Price, reg.ExpiresAt).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, m := range members {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO team_members (registration_id, member_name, member_email) VALUES ($1, $2, $3)`,
			id, m.Name, m.Email)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetRegistration возвращает заявку по ID.
func (s *Storage) GetRegistration(ctx context.Context, id int64) (*models.Registration, error) {
	const op = "storage.GetRegistration"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, competition_id, batch_id, status,
			      COALESCE(payment_proof_key, ''), is_team, price, expires_at, created_at
			  FROM registrations
			  WHERE id = $1`
	r := &models.Registration{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.UserUID, &r.CompetitionID,
		&r.BatchID, &r.Status, &r.PaymentProofKey, &r.IsTeam, &r.Price, &r.ExpiresAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// ListRegistrationsByUser возвращает заявки пользователя по убыванию даты создания.
func (s *Storage) ListRegistrationsByUser(ctx context.Context, userUID string) ([]*models.Registration, error) {
	const op = "storage.ListRegistrationsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, competition_id, batch_id, status,
			      COALESCE(payment_proof_key, ''), is_team, price, expires_at, created_at
			  FROM registrations
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Registration
	for rows.Next() {
		r := &models.Registration{}
		if err = rows.Scan(&r.ID, &r.UserUID, &r.CompetitionID, &r.BatchID, &r.Status,
			&r.PaymentProofKey, &r.IsTeam, &r.Price, &r.ExpiresAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetPaymentProof сохраняет ключ файла подтверждения оплаты заявки.
func (s *Storage) SetPaymentProof(ctx context.Context, id int64, proofKey string) error {
	const op = "storage.SetPaymentProof"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE registrations SET payment_proof_key = $1 WHERE id = $2`, proofKey, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// BulkUpdateStatus применяет один статус к набору заявок одним запросом
// и возвращает число затронутых строк.
func (s *Storage) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	const op = "storage.BulkUpdateStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE registrations SET status = $1 WHERE id = ANY($2)`, status, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// ListExpiredPending возвращает просроченные неоплаченные заявки.
func (s *Storage) ListExpiredPending(ctx context.Context) ([]*models.Registration, error) {
	const op = "storage.ListExpiredPending"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, competition_id, batch_id, status,
			      COALESCE(payment_proof_key, ''), is_team, price, expires_at, created_at
			  FROM registrations
			  WHERE status = $1 AND payment_proof_key IS NULL AND expires_at < now()`
	rows, err := s.DB.QueryContext(ctx, query, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Registration
	for rows.Next() {
		r := &models.Registration{}
		if err = rows.Scan(&r.ID, &r.UserUID, &r.CompetitionID, &r.BatchID, &r.Status,
			&r.PaymentProofKey, &r.IsTeam, &r.Price, &r.ExpiresAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveRegistration удаляет заявку и возвращает число удалённых строк.
// Участники команды и работы удаляются каскадно на уровне схемы.
func (s *Storage) RemoveRegistration(ctx context.Context, id int64) (int64, error) {
	const op = "storage.RemoveRegistration"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// ListParticipants возвращает заявки, соединённые с данными пользователей,
// соревнований и периодов, с необязательными фильтрами.
func (s *Storage) ListParticipants(ctx context.Context, filter models.ParticipantFilter) ([]models.ParticipantRow, error) {
	const op = "storage.ListParticipants"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT r.id, u.full_name, u.email, u.phone, u.education_level, u.school_name,
			      c.id, c.title, b.name, r.status, r.price, r.is_team, r.created_at
			  FROM registrations r
			  JOIN users u ON u.uid = r.user_uid
			  JOIN competitions c ON c.id = r.competition_id
			  JOIN batches b ON b.id = r.batch_id
			  WHERE ($1 = 0 OR r.batch_id = $1)
			    AND ($2 = 0 OR r.competition_id = $2)
			    AND ($3 = '' OR r.status = $3)
			  ORDER BY r.created_at`
	rows, err := s.DB.QueryContext(ctx, query, filter.BatchID, filter.CompetitionID, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ParticipantRow
	for rows.Next() {
		var p models.ParticipantRow
		if err = rows.Scan(&p.RegistrationID, &p.FullName, &p.Email, &p.Phone,
			&p.EducationLevel, &p.SchoolName, &p.CompetitionID, &p.Competition,
			&p.BatchName, &p.Status, &p.Price, &p.IsTeam, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
