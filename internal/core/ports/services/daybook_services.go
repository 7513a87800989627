package services

import (
	"context"
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
)

// DayBookService defines the daily cash session operations. Day books follow
// OPEN -> RECONCILED -> CLOSED; CLOSED is terminal.
type DayBookService interface {
	// CreateDayBook opens the cash session for a calendar date, carrying the
	// opening balance forward from the most recently closed day book unless
	// explicitly overridden.
	CreateDayBook(ctx context.Context, req dto.CreateDayBookRequest, creatorUserID string) (*domain.DayBook, error)
	// RecordTransaction appends a cash movement to an OPEN day book,
	// generating a linked journal entry when a debit/credit account pair is
	// given.
	RecordTransaction(ctx context.Context, dayBookID string, req dto.RecordDayBookTransactionRequest, userID string) (*domain.DayBookTransaction, error)
	// Reconcile records the physical cash count and the discrepancy against
	// the system balance. Not idempotent: a second call fails.
	Reconcile(ctx context.Context, dayBookID string, req dto.ReconcileDayBookRequest, userID string) (*domain.DayBook, error)
	// Close finalises a reconciled day book. Terminal.
	Close(ctx context.Context, dayBookID string, userID string) (*domain.DayBook, error)
	GetDayBookByID(ctx context.Context, dayBookID string) (*domain.DayBook, error)
	// GetDayBookByDate resolves the day book for a calendar date.
	GetDayBookByDate(ctx context.Context, date time.Time) (*domain.DayBook, error)
	// GetSummary is a read-only projection over the day book's linked
	// journal entries and transactions.
	GetSummary(ctx context.Context, dayBookID string) (*domain.DayBookSummary, error)
}
