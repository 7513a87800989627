package repositories

import (
	"context"
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DayBookRepository defines persistence operations for day books. Mutations
// against a single day book serialize on a row-level lock taken with a
// bounded wait; a lock that cannot be acquired maps to
// apperrors.ErrLockNotAcquired so callers can retry.
type DayBookRepository interface {
	// SaveDayBook inserts a new day book, assigning BookNumber from the day
	// book sequence. A duplicate transaction date maps to apperrors.ErrConflict.
	SaveDayBook(ctx context.Context, dayBook *domain.DayBook) error

	// FindDayBookByID retrieves a day book by ID.
	FindDayBookByID(ctx context.Context, dayBookID string) (*domain.DayBook, error)

	// FindDayBookByDate retrieves the day book for a calendar date, if any.
	FindDayBookByDate(ctx context.Context, date time.Time) (*domain.DayBook, error)

	// FindLatestClosed returns the most recently closed day book by
	// transaction date, or apperrors.ErrNotFound if none exists.
	FindLatestClosed(ctx context.Context) (*domain.DayBook, error)

	// AppendTransaction locks the day book row, verifies it is still OPEN,
	// inserts the transaction (and its linked journal entry, when present)
	// and refreshes the cached system balance, all in one transaction.
	AppendTransaction(ctx context.Context, dayBookID string, txn domain.DayBookTransaction, entry *domain.JournalEntry) (*domain.DayBook, error)

	// Reconcile locks the day book row, verifies the OPEN -> RECONCILED
	// transition, recomputes the system balance from transactions and stores
	// the physical count and discrepancy.
	Reconcile(ctx context.Context, dayBookID string, physical decimal.Decimal, notes string, updatedBy string, at time.Time) (*domain.DayBook, error)

	// Close locks the day book row and verifies the RECONCILED -> CLOSED
	// transition. Closing is terminal.
	Close(ctx context.Context, dayBookID string, closedBy string, at time.Time) (*domain.DayBook, error)

	// ListTransactions returns a day book's transactions in insertion order.
	ListTransactions(ctx context.Context, dayBookID string) ([]domain.DayBookTransaction, error)

	// GetEntryStats aggregates the day book's linked journal entries: entry
	// count, debit/credit totals and a per-account-type breakdown.
	GetEntryStats(ctx context.Context, dayBookID string) (entryCount int, totalDebits, totalCredits decimal.Decimal, byType map[domain.AccountType]decimal.Decimal, err error)
}
