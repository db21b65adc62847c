package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens path and applies the embedded migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Load(ctx context.Context, userKey string) (State, error) {
	if err := checkUserKey(userKey); err != nil {
		return State{}, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT name, payload FROM user_state WHERE user_key = ?`, userKey)
	if err != nil {
		return State{}, fmt.Errorf("load state %s: %w", userKey, err)
	}
	defer rows.Close()

	docs := make(map[string][]byte, len(Keys))
	for rows.Next() {
		name, payload, scanErr := scanDocument(rows)
		if scanErr != nil {
			return State{}, fmt.Errorf("scan state %s: %w", userKey, scanErr)
		}
		docs[name] = payload
	}
	if err := rows.Err(); err != nil {
		return State{}, fmt.Errorf("load state %s: %w", userKey, err)
	}
	return Decode(docs)
}

func (r *SQLiteRepository) Save(ctx context.Context, userKey string, st State) error {
	if err := checkUserKey(userKey); err != nil {
		return err
	}
	docs, err := Encode(st)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", userKey, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO user_state (user_key, name, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_key, name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare save %s: %w", userKey, err)
	}
	defer stmt.Close()

	stamp := mustTime(r.now())
	for _, name := range Keys {
		if _, err := stmt.ExecContext(ctx, userKey, name, string(docs[name]), stamp); err != nil {
			return fmt.Errorf("save %s/%s: %w", userKey, name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save %s: %w", userKey, err)
	}
	return nil
}

// UpdatedAt reports when userKey's state was last written.
func (r *SQLiteRepository) UpdatedAt(ctx context.Context, userKey string) (time.Time, error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT MAX(updated_at) FROM user_state WHERE user_key = ?`, userKey).Scan(&raw)
	if err != nil {
		return time.Time{}, err
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, ErrNotFound
	}
	return parseRequiredTime(raw.String)
}

// Users lists every user key with stored state.
func (r *SQLiteRepository) Users(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_key FROM user_state ORDER BY user_key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (string, []byte, error) {
	var name, payload string
	if err := s.Scan(&name, &payload); err != nil {
		return "", nil, err
	}
	return name, []byte(payload), nil
}
