package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahulatfin/microfin_backoffice/internal/apperrors"
)

// Postgres error codes we map to application errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgLockNotAvailable    = "55P03"
)

// BaseRepository provides common transaction handling for all repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, errors.Join(apperrors.ErrInternal, err)
	}
	return tx, nil
}

// Commit commits a transaction.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return errors.Join(apperrors.ErrInternal, err)
	}
	return nil
}

// Rollback rolls back a transaction. Safe to defer after a commit.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) && !errors.Is(err, pgx.ErrTxClosed) {
		// Rollback failures are not actionable by callers; they surface via
		// the original error that triggered the rollback.
		_ = err
	}
}

// mapPgError translates well-known Postgres error codes into the application
// error taxonomy. Unknown errors pass through unchanged.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return errors.Join(apperrors.ErrConflict, err)
		case pgLockNotAvailable:
			return errors.Join(apperrors.ErrLockNotAcquired, err)
		}
	}
	return err
}
