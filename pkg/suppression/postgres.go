package suppression

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a pgx connection pool. Schema lives in
// migrations/; the unique index on (email, user_id) backs the upsert.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) UpsertSuppression(ctx context.Context, email, userID string, reason Reason) error {
	// user_id uses the empty string rather than NULL so the unique
	// constraint covers anonymous suppressions too (NULLs never collide
	// in a unique index).
	_, err := s.pool.Exec(ctx, `
		INSERT INTO email_suppressions (email, user_id, reason, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (email, user_id)
		DO UPDATE SET reason = EXCLUDED.reason, created_at = EXCLUDED.created_at`,
		email, userID, string(reason),
	)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) RecordBounce(ctx context.Context, email, reason, bounceType, messageID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO email_bounces (email, reason, bounce_type, message_id, recorded_at)
		VALUES ($1, $2, $3, $4, now())`,
		email, reason, bounceType, messageID,
	)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) RecordComplaint(ctx context.Context, email, reason, messageID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO email_complaints (email, reason, message_id, recorded_at)
		VALUES ($1, $2, $3, now())`,
		email, reason, messageID,
	)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
