// Package postgres provides a Postgres-backed implementation of the storage.Store interface.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/mefinance/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Store provides Postgres-backed persistence.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			is_premium BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS balances (
			id TEXT PRIMARY KEY,
			user_id TEXT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			initial_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS bills (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
			payment_id TEXT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount DOUBLE PRECISION NOT NULL,
			due_date BIGINT NOT NULL,
			is_paid BOOLEAN NOT NULL DEFAULT FALSE,
			paid_date BIGINT,
			created_at BIGINT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS incomes (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount DOUBLE PRECISION NOT NULL,
			received_date BIGINT NOT NULL,
			seq BIGSERIAL
		);`,
		`CREATE TABLE IF NOT EXISTS payments (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
			bill_id TEXT REFERENCES bills(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount DOUBLE PRECISION NOT NULL,
			paid_date BIGINT NOT NULL,
			seq BIGSERIAL
		);`,
		`CREATE INDEX IF NOT EXISTS categories_user_id_idx ON categories (user_id);`,
		`CREATE INDEX IF NOT EXISTS bills_user_id_idx ON bills (user_id);`,
		`CREATE INDEX IF NOT EXISTS bills_unpaid_due_idx ON bills (due_date) WHERE NOT is_paid;`,
		`CREATE INDEX IF NOT EXISTS incomes_user_id_idx ON incomes (user_id);`,
		`CREATE INDEX IF NOT EXISTS payments_user_id_idx ON payments (user_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction, committing if fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// nullIfEmpty stores optional references as NULL so foreign keys are not checked.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// categoryExists checks that categoryID belongs to userID.
func categoryExists(ctx context.Context, q querier, userID, categoryID string) error {
	var exists int
	err := q.QueryRow(ctx,
		`SELECT 1 FROM categories WHERE id = $1 AND user_id = $2`,
		categoryID, userID,
	).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("category %s: %w", categoryID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	return nil
}
