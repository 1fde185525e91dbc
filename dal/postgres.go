package dal

import (
	"context"
	"errors"
	"fmt"

	"telconova-dispatch/utils/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createCollectionsTableSQL = `CREATE TABLE IF NOT EXISTS collections (
	key        TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectCollectionSQL = `SELECT payload FROM collections WHERE key = $1`
	upsertCollectionSQL = `INSERT INTO collections (key, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
)

// pgQuerier is the part of *pgxpool.Pool the store needs
type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresStore keeps collections as JSONB rows in a single table.
type PostgresStore struct {
	db     pgQuerier
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresStore opens a pool, verifies connectivity and creates the table.
func NewPostgresStore(ctx context.Context, dsn string, log logger.Logger) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	store := &PostgresStore{db: pool, pool: pool, logger: log}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("✅ connected to postgres")
	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createCollectionsTableSQL); err != nil {
		return fmt.Errorf("failed to create collections table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	if err := s.db.QueryRow(ctx, selectCollectionSQL, key).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return payload, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, payload []byte) error {
	if _, err := s.db.Exec(ctx, upsertCollectionSQL, key, payload); err != nil {
		s.logger.Errorf("Failed to store collection %s in postgres: %v", key, err)
		return fmt.Errorf("postgres put %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
