package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его UID
func (f *TestDataFactory) CreateUser(t *testing.T, username, email, role, educationLevel string) string {
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, password_hash, role, full_name, education_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uid, username, email, "hashedpassword", role, "Test User", educationLevel)
	require.NoError(t, err)
	return uid
}

// CreateBatch создает тестовый период регистрации
func (f *TestDataFactory) CreateBatch(t *testing.T, name string, startDate, endDate time.Time) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO batches (name, start_date, end_date)
		VALUES ($1, $2, $3) RETURNING id`,
		name, startDate, endDate).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateCompetition создает тестовое соревнование
func (f *TestDataFactory) CreateCompetition(t *testing.T, title, category string, maxTeamSize int) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO competitions (title, category, max_team_size)
		VALUES ($1, $2, $3) RETURNING id`,
		title, category, maxTeamSize).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateRegistration создает тестовую заявку
func (f *TestDataFactory) CreateRegistration(t *testing.T, userUID string, competitionID, batchID int64,
	status string, price int, expiresAt time.Time) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO registrations
		(user_uid, competition_id, batch_id, status, price, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		userUID, competitionID, batchID, status, price, expiresAt).Scan(&id)
	require.NoError(t, err)
	return id
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL UNIQUE,
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            full_name TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            address JSONB NOT NULL DEFAULT '{}'::jsonb,
            education_level TEXT NOT NULL DEFAULT '',
            school_name TEXT NOT NULL DEFAULT '',
            grade TEXT NOT NULL DEFAULT '',
            student_id TEXT NOT NULL DEFAULT '',
            reset_token TEXT,
            reset_token_expiry TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE batches (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            start_date TIMESTAMPTZ NOT NULL,
            end_date TIMESTAMPTZ NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT true
        );

        CREATE TABLE settings (
            setting_key TEXT PRIMARY KEY,
            setting_value TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE competitions (
            id BIGSERIAL PRIMARY KEY,
            title TEXT NOT NULL,
            category TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            base_fee INTEGER NOT NULL DEFAULT 0,
            max_team_size INTEGER NOT NULL DEFAULT 1,
            participant_count INTEGER NOT NULL DEFAULT 0,
            poster_key TEXT NOT NULL DEFAULT ''
        );

        CREATE TABLE pricing (
            batch_id BIGINT NOT NULL REFERENCES batches (id) ON DELETE CASCADE,
            competition_id BIGINT NOT NULL REFERENCES competitions (id) ON DELETE CASCADE,
            education_level TEXT NOT NULL,
            price INTEGER NOT NULL,
            PRIMARY KEY (batch_id, competition_id, education_level)
        );

        CREATE TABLE registrations (
            id BIGSERIAL PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users (uid) ON DELETE CASCADE,
            competition_id BIGINT NOT NULL REFERENCES competitions (id) ON DELETE CASCADE,
            batch_id BIGINT NOT NULL REFERENCES batches (id) ON DELETE CASCADE,
            status TEXT NOT NULL DEFAULT 'pending',
            payment_proof_key TEXT,
            is_team BOOLEAN NOT NULL DEFAULT false,
            price INTEGER NOT NULL DEFAULT 0,
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            UNIQUE (user_uid, competition_id, batch_id)
        );

        CREATE TABLE team_members (
            registration_id BIGINT NOT NULL REFERENCES registrations (id) ON DELETE CASCADE,
            member_name TEXT NOT NULL,
            member_email TEXT NOT NULL
        );

        CREATE TABLE submissions (
            id BIGSERIAL PRIMARY KEY,
            registration_id BIGINT NOT NULL REFERENCES registrations (id) ON DELETE CASCADE,
            file_key TEXT NOT NULL,
            original_name TEXT NOT NULL,
            submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
