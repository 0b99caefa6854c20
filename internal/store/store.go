package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"warehouse-service/internal/errs"
	"warehouse-service/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx so every query
// method runs unchanged inside or outside a transaction.
type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Store is the Postgres implementation of service.Store.
type Store struct {
	db *sqlx.DB
	q  queryer
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, q: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn against a transaction-bound copy of the store. A call
// made while already inside a transaction joins it instead of opening a
// second one.
func (s *Store) WithTx(ctx context.Context, fn func(tx service.Store) error) error {
	if _, ok := s.q.(*sqlx.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapErr(err)
	}
	return nil
}

// NextSequence increments and returns the counter for a day-scoped
// document prefix. The upsert is atomic, so concurrent callers inside
// their own transactions serialize on the row and each receive a
// distinct number.
func (s *Store) NextSequence(ctx context.Context, prefix string) (int, error) {
	var seq int
	err := s.q.GetContext(ctx, &seq, `
		INSERT INTO doc_sequences (prefix, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET last_seq = doc_sequences.last_seq + 1
		RETURNING last_seq`, prefix)
	if err != nil {
		return 0, mapErr(err)
	}
	return seq, nil
}

// mapErr translates driver errors into the service error taxonomy.
// Serialization failures, lock timeouts and unique violations become
// Conflict so callers know the whole operation is retryable.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "55P03":
			return errs.Conflictf("transaction aborted: %v", pqErr.Message)
		case "23505":
			return errs.Conflictf("duplicate key: %v", pqErr.Message)
		}
	}
	return err
}

// checkAffected turns a zero-row update or delete into NotFound.
func checkAffected(res sql.Result, err error, what, id string) error {
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFoundf("%s %s", what, id)
	}
	return nil
}

// getOne wraps a single-row lookup, converting sql.ErrNoRows into the
// NotFound taxonomy with a description of what was missing.
func (s *Store) getOne(ctx context.Context, dest interface{}, what, query string, args ...interface{}) error {
	err := s.q.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFoundf("%s", what)
	}
	if err != nil {
		return mapErr(err)
	}
	return nil
}
