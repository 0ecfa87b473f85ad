package session

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	ttl    time.Duration
	logger *log.Logger
}

// NewPostgres returns a Repository backed by the session_slots table.
func NewPostgres(pool *pgxpool.Pool, ttl time.Duration, logger *log.Logger) Repository {
	return &postgresRepo{pool: pool, ttl: ttlOrDefault(ttl), logger: logger}
}

func (r *postgresRepo) Load(ctx context.Context, id string) (map[string][]byte, error) {
	const q = `
UPDATE session_slots
SET updated_at = now()
WHERE session_id = $1 AND updated_at > now() - make_interval(secs => $2)
RETURNING slot_key, value
`
	rows, err := r.pool.Query(ctx, q, id, r.ttl.Seconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func (r *postgresRepo) Save(ctx context.Context, id string, values map[string][]byte) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM session_slots WHERE session_id = $1`, id); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for key, value := range values {
		batch.Queue(`
INSERT INTO session_slots (session_id, slot_key, value, updated_at)
VALUES ($1, $2, $3, now())
`, id, key, value)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM session_slots WHERE session_id = $1`, id)
	return err
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *postgresRepo) DeleteExpired(ctx context.Context) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM session_slots
WHERE updated_at <= now() - make_interval(secs => $1)
`, r.ttl.Seconds())
	if err != nil {
		return 0, err
	}
	if n := cmd.RowsAffected(); n > 0 && r.logger != nil {
		r.logger.Printf("session sweep removed %d expired slots", n)
	}
	return cmd.RowsAffected(), nil
}
