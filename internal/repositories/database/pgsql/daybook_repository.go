package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahulatfin/microfin_backoffice/internal/apperrors"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portsrepo "github.com/sahulatfin/microfin_backoffice/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// PgxDayBookRepository persists day books and their transactions. Every
// mutation of a single day book serializes on a FOR UPDATE NOWAIT row lock,
// so the cached system balance is only ever rewritten by the lock holder.
type PgxDayBookRepository struct {
	BaseRepository
	journal *PgxJournalRepository
}

// NewDayBookRepository creates a new repository for day book data.
func NewDayBookRepository(pool *pgxpool.Pool) portsrepo.DayBookRepository {
	return &PgxDayBookRepository{
		BaseRepository: BaseRepository{Pool: pool},
		journal:        &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}},
	}
}

var _ portsrepo.DayBookRepository = (*PgxDayBookRepository)(nil)

const dayBookColumns = `day_book_id, book_number, transaction_date, opening_balance, status, system_cash_balance, physical_cash_balance, discrepancy_amount, discrepancy_notes, closed_by, closed_at, created_at, created_by, last_updated_at, last_updated_by`

func scanDayBook(row pgx.Row) (*domain.DayBook, error) {
	var db domain.DayBook
	var physical, discrepancy decimal.NullDecimal
	var closedBy sql.NullString
	var closedAt sql.NullTime
	err := row.Scan(
		&db.DayBookID,
		&db.BookNumber,
		&db.TransactionDate,
		&db.OpeningBalance,
		&db.Status,
		&db.SystemCashBalance,
		&physical,
		&discrepancy,
		&db.DiscrepancyNotes,
		&closedBy,
		&closedAt,
		&db.CreatedAt,
		&db.CreatedBy,
		&db.LastUpdatedAt,
		&db.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if physical.Valid {
		db.PhysicalCashBalance = &physical.Decimal
	}
	if discrepancy.Valid {
		db.DiscrepancyAmount = &discrepancy.Decimal
	}
	db.ClosedBy = closedBy.String
	if closedAt.Valid {
		t := closedAt.Time
		db.ClosedAt = &t
	}
	return &db, nil
}

// SaveDayBook inserts a new day book, assigning BookNumber from the sequence
// inside the insert transaction. The unique index on transaction_date maps a
// duplicate date to ErrConflict.
func (r *PgxDayBookRepository) SaveDayBook(ctx context.Context, dayBook *domain.DayBook) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := tx.QueryRow(ctx, `SELECT nextval('day_book_number_seq');`).Scan(&dayBook.BookNumber); err != nil {
		return fmt.Errorf("failed to assign day book number: %w", err)
	}

	query := `
		INSERT INTO day_books (` + dayBookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, query,
		dayBook.DayBookID,
		dayBook.BookNumber,
		dayBook.TransactionDate,
		dayBook.OpeningBalance,
		dayBook.Status,
		dayBook.SystemCashBalance,
		nil, nil, "",
		nil, nil,
		dayBook.CreatedAt,
		dayBook.CreatedBy,
		dayBook.LastUpdatedAt,
		dayBook.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save day book for %s: %w",
			dayBook.TransactionDate.Format("2006-01-02"), mapPgError(err))
	}
	return r.Commit(ctx, tx)
}

// FindDayBookByID retrieves a day book by ID.
func (r *PgxDayBookRepository) FindDayBookByID(ctx context.Context, dayBookID string) (*domain.DayBook, error) {
	query := `SELECT ` + dayBookColumns + ` FROM day_books WHERE day_book_id = $1;`
	db, err := scanDayBook(r.Pool.QueryRow(ctx, query, dayBookID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: day book %s", apperrors.ErrNotFound, dayBookID)
		}
		return nil, fmt.Errorf("failed to find day book %s: %w", dayBookID, err)
	}
	return db, nil
}

// FindDayBookByDate retrieves the day book for a calendar date.
func (r *PgxDayBookRepository) FindDayBookByDate(ctx context.Context, date time.Time) (*domain.DayBook, error) {
	query := `SELECT ` + dayBookColumns + ` FROM day_books WHERE transaction_date = $1;`
	db, err := scanDayBook(r.Pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: day book for %s", apperrors.ErrNotFound, date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to find day book for %s: %w", date.Format("2006-01-02"), err)
	}
	return db, nil
}

// FindLatestClosed returns the most recently closed day book by date.
func (r *PgxDayBookRepository) FindLatestClosed(ctx context.Context) (*domain.DayBook, error) {
	query := `
		SELECT ` + dayBookColumns + ` FROM day_books
		WHERE status = $1 ORDER BY transaction_date DESC LIMIT 1;
	`
	db, err := scanDayBook(r.Pool.QueryRow(ctx, query, domain.DayBookClosed))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no closed day book", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find latest closed day book: %w", err)
	}
	return db, nil
}

// lockDayBook takes the row lock without waiting. 55P03 surfaces as
// ErrLockNotAcquired so the caller can retry.
func (r *PgxDayBookRepository) lockDayBook(ctx context.Context, tx pgx.Tx, dayBookID string) (*domain.DayBook, error) {
	query := `SELECT ` + dayBookColumns + ` FROM day_books WHERE day_book_id = $1 FOR UPDATE NOWAIT;`
	db, err := scanDayBook(tx.QueryRow(ctx, query, dayBookID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: day book %s", apperrors.ErrNotFound, dayBookID)
		}
		return nil, fmt.Errorf("failed to lock day book %s: %w", dayBookID, mapPgError(err))
	}
	return db, nil
}

// sumTransactions recomputes the derived cash balance from the persisted
// transactions inside the locking transaction.
func (r *PgxDayBookRepository) sumTransactions(ctx context.Context, tx pgx.Tx, dayBook *domain.DayBook) (decimal.Decimal, error) {
	query := `
		SELECT transaction_type, COALESCE(SUM(amount), 0)
		FROM day_book_transactions
		WHERE day_book_id = $1
		GROUP BY transaction_type;
	`
	rows, err := tx.Query(ctx, query, dayBook.DayBookID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions of day book %s: %w", dayBook.DayBookID, err)
	}
	defer rows.Close()

	balance := dayBook.OpeningBalance
	for rows.Next() {
		var txnType domain.DayBookTransactionType
		var total decimal.Decimal
		if err := rows.Scan(&txnType, &total); err != nil {
			return decimal.Zero, err
		}
		if txnType.CashSign() < 0 {
			total = total.Neg()
		}
		balance = balance.Add(total)
	}
	return balance, rows.Err()
}

// AppendTransaction locks the day book, verifies it is OPEN, writes the
// transaction and its linked journal entry, and refreshes the cached balance.
func (r *PgxDayBookRepository) AppendTransaction(ctx context.Context, dayBookID string, txn domain.DayBookTransaction, entry *domain.JournalEntry) (*domain.DayBook, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	dayBook, err := r.lockDayBook(ctx, tx, dayBookID)
	if err != nil {
		return nil, err
	}
	if dayBook.Status != domain.DayBookOpen {
		return nil, fmt.Errorf("%w: day book %s is %s", apperrors.ErrInvalidState, dayBookID, dayBook.Status)
	}

	if entry != nil {
		if err := r.journal.insertEntryTx(ctx, tx, entry); err != nil {
			return nil, err
		}
		txn.JournalEntryID = &entry.EntryID
	}

	insertTxn := `
		INSERT INTO day_book_transactions (transaction_id, day_book_id, transaction_type, amount, payment_method, description, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, insertTxn,
		txn.TransactionID,
		dayBookID,
		txn.TransactionType,
		txn.Amount,
		txn.PaymentMethod,
		txn.Description,
		txn.JournalEntryID,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append transaction to day book %s: %w", dayBookID, mapPgError(err))
	}

	balance, err := r.sumTransactions(ctx, tx, dayBook)
	if err != nil {
		return nil, err
	}
	update := `
		UPDATE day_books
		SET system_cash_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE day_book_id = $1;
	`
	if _, err := tx.Exec(ctx, update, dayBookID, balance, txn.LastUpdatedAt, txn.LastUpdatedBy); err != nil {
		return nil, fmt.Errorf("failed to refresh balance of day book %s: %w", dayBookID, err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	dayBook.SystemCashBalance = balance
	dayBook.LastUpdatedAt = txn.LastUpdatedAt
	dayBook.LastUpdatedBy = txn.LastUpdatedBy
	return dayBook, nil
}

// Reconcile locks the day book, verifies the OPEN -> RECONCILED transition,
// recomputes the system balance and stores the physical count alongside the
// discrepancy against the recomputed figure.
func (r *PgxDayBookRepository) Reconcile(ctx context.Context, dayBookID string, physical decimal.Decimal, notes string, updatedBy string, at time.Time) (*domain.DayBook, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	dayBook, err := r.lockDayBook(ctx, tx, dayBookID)
	if err != nil {
		return nil, err
	}
	if !dayBook.Status.CanTransitionTo(domain.DayBookReconciled) {
		return nil, fmt.Errorf("%w: day book %s is %s", apperrors.ErrInvalidState, dayBookID, dayBook.Status)
	}

	systemBalance, err := r.sumTransactions(ctx, tx, dayBook)
	if err != nil {
		return nil, err
	}
	discrepancy := physical.Sub(systemBalance)

	update := `
		UPDATE day_books
		SET status = $2, system_cash_balance = $3, physical_cash_balance = $4,
		    discrepancy_amount = $5, discrepancy_notes = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE day_book_id = $1;
	`
	_, err = tx.Exec(ctx, update, dayBookID, domain.DayBookReconciled, systemBalance, physical, discrepancy, notes, at, updatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile day book %s: %w", dayBookID, err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	dayBook.Status = domain.DayBookReconciled
	dayBook.SystemCashBalance = systemBalance
	dayBook.PhysicalCashBalance = &physical
	dayBook.DiscrepancyAmount = &discrepancy
	dayBook.DiscrepancyNotes = notes
	dayBook.LastUpdatedAt = at
	dayBook.LastUpdatedBy = updatedBy
	return dayBook, nil
}

// Close locks the day book and verifies the RECONCILED -> CLOSED transition.
func (r *PgxDayBookRepository) Close(ctx context.Context, dayBookID string, closedBy string, at time.Time) (*domain.DayBook, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	dayBook, err := r.lockDayBook(ctx, tx, dayBookID)
	if err != nil {
		return nil, err
	}
	if !dayBook.Status.CanTransitionTo(domain.DayBookClosed) {
		return nil, fmt.Errorf("%w: day book %s is %s", apperrors.ErrInvalidState, dayBookID, dayBook.Status)
	}

	update := `
		UPDATE day_books
		SET status = $2, closed_by = $3, closed_at = $4,
		    last_updated_at = $4, last_updated_by = $3
		WHERE day_book_id = $1;
	`
	if _, err := tx.Exec(ctx, update, dayBookID, domain.DayBookClosed, closedBy, at); err != nil {
		return nil, fmt.Errorf("failed to close day book %s: %w", dayBookID, err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	dayBook.Status = domain.DayBookClosed
	dayBook.ClosedBy = closedBy
	dayBook.ClosedAt = &at
	dayBook.LastUpdatedAt = at
	dayBook.LastUpdatedBy = closedBy
	return dayBook, nil
}

// ListTransactions returns a day book's transactions in insertion order.
func (r *PgxDayBookRepository) ListTransactions(ctx context.Context, dayBookID string) ([]domain.DayBookTransaction, error) {
	query := `
		SELECT transaction_id, day_book_id, transaction_type, amount, payment_method, description, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by
		FROM day_book_transactions
		WHERE day_book_id = $1
		ORDER BY created_at, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, dayBookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions of day book %s: %w", dayBookID, err)
	}
	defer rows.Close()

	var txns []domain.DayBookTransaction
	for rows.Next() {
		var t domain.DayBookTransaction
		var entryID sql.NullString
		err := rows.Scan(
			&t.TransactionID,
			&t.DayBookID,
			&t.TransactionType,
			&t.Amount,
			&t.PaymentMethod,
			&t.Description,
			&entryID,
			&t.CreatedAt,
			&t.CreatedBy,
			&t.LastUpdatedAt,
			&t.LastUpdatedBy,
		)
		if err != nil {
			return nil, err
		}
		if entryID.Valid {
			t.JournalEntryID = &entryID.String
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// GetEntryStats aggregates the journal entries linked from a day book's
// transactions: entry count, debit/credit totals and per-account-type totals.
func (r *PgxDayBookRepository) GetEntryStats(ctx context.Context, dayBookID string) (int, decimal.Decimal, decimal.Decimal, map[domain.AccountType]decimal.Decimal, error) {
	var entryCount int
	totalsQuery := `
		SELECT COUNT(DISTINCT e.entry_id),
		       COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM day_book_transactions t
		JOIN journal_entries e ON e.entry_id = t.journal_entry_id
		JOIN journal_entry_lines l ON l.entry_id = e.entry_id
		WHERE t.day_book_id = $1;
	`
	var totalDebits, totalCredits decimal.Decimal
	if err := r.Pool.QueryRow(ctx, totalsQuery, dayBookID).Scan(&entryCount, &totalDebits, &totalCredits); err != nil {
		return 0, decimal.Zero, decimal.Zero, nil, fmt.Errorf("failed to aggregate entries of day book %s: %w", dayBookID, err)
	}

	byTypeQuery := `
		SELECT a.account_type, COALESCE(SUM(l.debit + l.credit), 0)
		FROM day_book_transactions t
		JOIN journal_entry_lines l ON l.entry_id = t.journal_entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE t.day_book_id = $1
		GROUP BY a.account_type;
	`
	rows, err := r.Pool.Query(ctx, byTypeQuery, dayBookID)
	if err != nil {
		return 0, decimal.Zero, decimal.Zero, nil, fmt.Errorf("failed to aggregate account types of day book %s: %w", dayBookID, err)
	}
	defer rows.Close()

	byType := make(map[domain.AccountType]decimal.Decimal)
	for rows.Next() {
		var accType domain.AccountType
		var total decimal.Decimal
		if err := rows.Scan(&accType, &total); err != nil {
			return 0, decimal.Zero, decimal.Zero, nil, err
		}
		byType[accType] = total
	}
	if err := rows.Err(); err != nil {
		return 0, decimal.Zero, decimal.Zero, nil, err
	}
	return entryCount, totalDebits, totalCredits, byType, nil
}
