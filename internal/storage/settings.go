package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// GetSettings возвращает значения настроек по переданным ключам одной выборкой.
// Отсутствующие ключи в результат не попадают; кеширования нет, каждый вызов
// идёт в базу.
func (s *Storage) GetSettings(ctx context.Context, keys ...string) (map[string]string, error) {
	const op = "storage.GetSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT setting_key, setting_value FROM settings WHERE setting_key = ANY($1)`
	rows, err := s.DB.QueryContext(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string]string, len(keys))
	for rows.Next() {
		var key, value string
		if err = rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[key] = value
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertSetting записывает значение настройки по ключу.
func (s *Storage) UpsertSetting(ctx context.Context, key, value string) error {
	const op = "storage.UpsertSetting"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO settings (setting_key, setting_value, updated_at)
			  VALUES ($1, $2, now())
			  ON CONFLICT (setting_key)
			  DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = now()`
	_, err := s.DB.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ToggleRegistrationClosed атомарно переключает флаг закрытия регистрации
// одним запросом и возвращает новое значение. Отсутствующая строка настройки
// трактуется как "false" и переключается в "true".
func (s *Storage) ToggleRegistrationClosed(ctx context.Context) (bool, error) {
	const op = "storage.ToggleRegistrationClosed"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO settings (setting_key, setting_value, updated_at)
			  VALUES ($1, 'true', now())
			  ON CONFLICT (setting_key)
			  DO UPDATE SET
			      setting_value = CASE WHEN settings.setting_value = 'true' THEN 'false' ELSE 'true' END,
			      updated_at = now()
			  RETURNING setting_value`
	var value string
	if err := s.DB.QueryRowContext(ctx, query, models.SettingRegistrationClosed).Scan(&value); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return value == "true", nil
}
