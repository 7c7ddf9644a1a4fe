package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/konstantinfoerster/card-printings-go/internal/postgres"
)

type postgresStore struct {
	db *postgres.DBConnection
}

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS preference (
		key        VARCHAR(255) PRIMARY KEY,
		value      TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// NewPostgresStore creates the preference table if required.
func NewPostgresStore(ctx context.Context, db *postgres.DBConnection) (Store, error) {
	if _, err := db.Conn.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to create preference table %w", err)
	}

	return &postgresStore{db: db}, nil
}

func (s *postgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `
		SELECT
			value
		FROM
			preference
		WHERE
			key = $1`

	var value pgtype.Text
	err := s.db.Conn.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to select preference %s %w", key, err)
	}

	if value.Status != pgtype.Present {
		return "", false, nil
	}

	return value.String, true, nil
}

func (s *postgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO
			preference (key, value, updated_at)
		VALUES
			($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	ct, err := s.db.Conn.Exec(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert preference %s %w", key, err)
	}

	if ct.RowsAffected() != 1 {
		return fmt.Errorf("%d preferences stored but expected to store key %s", ct.RowsAffected(), key)
	}

	return nil
}
