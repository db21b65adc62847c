package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS user_state (
    user_key TEXT NOT NULL,
    name TEXT NOT NULL,
    payload JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_key, name)
)`

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) (*PostgresRepository, error) {
	if pool == nil {
		return nil, errors.New("storage: nil postgres pool")
	}
	return &PostgresRepository{pool: pool}, nil
}

// OpenPostgres connects to dsn, pings, and creates the user_state table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	poolCfg.MaxConns = 4
	poolCfg.MinConns = 1
	poolCfg.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create user_state: %w", err)
	}
	return NewPostgresRepository(pool)
}

func (r *PostgresRepository) Load(ctx context.Context, userKey string) (State, error) {
	if err := checkUserKey(userKey); err != nil {
		return State{}, err
	}
	rows, err := r.pool.Query(ctx, `SELECT name, payload FROM user_state WHERE user_key = $1`, userKey)
	if err != nil {
		return State{}, fmt.Errorf("load state %s: %w", userKey, err)
	}
	docs := make(map[string][]byte, len(Keys))
	var name string
	var payload []byte
	_, err = pgx.ForEachRow(rows, []any{&name, &payload}, func() error {
		docs[name] = append([]byte(nil), payload...)
		return nil
	})
	if err != nil {
		return State{}, fmt.Errorf("scan state %s: %w", userKey, err)
	}
	return Decode(docs)
}

func (r *PostgresRepository) Save(ctx context.Context, userKey string, st State) error {
	if err := checkUserKey(userKey); err != nil {
		return err
	}
	docs, err := Encode(st)
	if err != nil {
		return err
	}
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, name := range Keys {
			batch.Queue(`
				INSERT INTO user_state (user_key, name, payload, updated_at)
				VALUES ($1, $2, $3::jsonb, NOW())
				ON CONFLICT (user_key, name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
				userKey, name, string(docs[name]))
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("save state %s: %w", userKey, err)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
