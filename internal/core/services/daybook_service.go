package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sahulatfin/microfin_backoffice/internal/apperrors"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portsrepo "github.com/sahulatfin/microfin_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
	"github.com/sahulatfin/microfin_backoffice/internal/middleware"
	"github.com/shopspring/decimal"
)

// dayBookService provides the daily cash session: opening, recording cash
// movements, physical-cash reconciliation and closing.
type dayBookService struct {
	dayBookRepo portsrepo.DayBookRepository
	accountRepo portsrepo.AccountRepository
}

// NewDayBookService creates a new DayBookService.
func NewDayBookService(dayBookRepo portsrepo.DayBookRepository, accountRepo portsrepo.AccountRepository) portssvc.DayBookService {
	return &dayBookService{
		dayBookRepo: dayBookRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.DayBookService = (*dayBookService)(nil)

// truncateToDay normalises a timestamp to its calendar date in UTC.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateDayBook opens the cash session for a calendar date. When no opening
// balance is given it is carried forward from the most recently closed day
// book's system balance, or zero if none exists.
func (s *dayBookService) CreateDayBook(ctx context.Context, req dto.CreateDayBookRequest, creatorUserID string) (*domain.DayBook, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	date := truncateToDay(req.TransactionDate)

	existing, err := s.dayBookRepo.FindDayBookByDate(ctx, date)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing day book: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a day book already exists for %s", apperrors.ErrConflict, date.Format("2006-01-02"))
	}

	opening := decimal.Zero
	if req.OpeningBalance != nil {
		opening = *req.OpeningBalance
	} else {
		latest, err := s.dayBookRepo.FindLatestClosed(ctx)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to fetch last closed day book: %w", err)
		}
		if latest != nil {
			opening = latest.SystemCashBalance
		}
	}

	now := time.Now().UTC()
	dayBook := domain.DayBook{
		DayBookID:         uuid.NewString(),
		TransactionDate:   date,
		OpeningBalance:    opening,
		Status:            domain.DayBookOpen,
		SystemCashBalance: opening,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// BookNumber comes from the day book sequence inside the insert
	// transaction; the unique date index is the backstop for races.
	if err := s.dayBookRepo.SaveDayBook(ctx, &dayBook); err != nil {
		logger.Error("Failed to save day book", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Day book opened",
		slog.String("day_book_id", dayBook.DayBookID),
		slog.String("date", date.Format("2006-01-02")),
		slog.String("opening_balance", opening.String()))
	return &dayBook, nil
}

// RecordTransaction appends a cash movement to an OPEN day book. When both a
// debit and a credit account are given, a posted journal entry is generated
// and linked; the repository re-checks the OPEN status under the row lock.
func (s *dayBookService) RecordTransaction(ctx context.Context, dayBookID string, req dto.RecordDayBookTransactionRequest, userID string) (*domain.DayBookTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.TransactionType.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.TransactionType)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	hasDebit := req.DebitAccountID != ""
	hasCredit := req.CreditAccountID != ""
	if hasDebit != hasCredit {
		return nil, fmt.Errorf("%w: debit and credit accounts must be given together", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	txn := domain.DayBookTransaction{
		TransactionID:   uuid.NewString(),
		DayBookID:       dayBookID,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		Description:     req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	var entry *domain.JournalEntry
	if hasDebit {
		built, err := s.buildLinkedEntry(ctx, req, userID, now)
		if err != nil {
			return nil, err
		}
		entry = built
		txn.JournalEntryID = &entry.EntryID
	}

	dayBook, err := s.dayBookRepo.AppendTransaction(ctx, dayBookID, txn, entry)
	if err != nil {
		logger.Error("Failed to record day book transaction", slog.String("error", err.Error()), slog.String("day_book_id", dayBookID))
		return nil, err
	}

	logger.Info("Day book transaction recorded",
		slog.String("day_book_id", dayBookID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.TransactionType)),
		slog.String("system_balance", dayBook.SystemCashBalance.String()))
	return &txn, nil
}

// buildLinkedEntry constructs the posted two-line journal entry generated by
// a cash movement.
func (s *dayBookService) buildLinkedEntry(ctx context.Context, req dto.RecordDayBookTransactionRequest, userID string, now time.Time) (*domain.JournalEntry, error) {
	for _, accountID := range []string{req.DebitAccountID, req.CreditAccountID} {
		acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, accountID)
			}
			return nil, fmt.Errorf("failed to fetch account %s: %w", accountID, err)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountID)
		}
	}

	narration := req.Description
	if narration == "" {
		narration = string(req.TransactionType)
	}

	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:    entryID,
		EntryDate:  now,
		Narration:  narration,
		Status:     domain.Posted,
		ApprovedBy: userID,
		Lines: []domain.JournalEntryLine{
			{
				LineID:    uuid.NewString(),
				EntryID:   entryID,
				AccountID: req.DebitAccountID,
				Debit:     req.Amount,
				Credit:    decimal.Zero,
			},
			{
				LineID:    uuid.NewString(),
				EntryID:   entryID,
				AccountID: req.CreditAccountID,
				Debit:     decimal.Zero,
				Credit:    req.Amount,
			},
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	return entry, nil
}

// Reconcile records the physical cash count against the system balance.
// Reconciliation is deliberately not idempotent: a second call fails so that
// a repeated count cannot silently overwrite the recorded discrepancy.
func (s *dayBookService) Reconcile(ctx context.Context, dayBookID string, req dto.ReconcileDayBookRequest, userID string) (*domain.DayBook, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var physical decimal.Decimal
	switch {
	case req.Denominations != nil:
		count := domain.DenominationCount{
			Notes: req.Denominations.Notes,
			Coins: req.Denominations.Coins,
		}
		if !count.IsValid() {
			return nil, fmt.Errorf("%w: denomination counts must be non-negative", apperrors.ErrValidation)
		}
		physical = count.Total()
	case req.PhysicalCashBalance != nil:
		physical = *req.PhysicalCashBalance
	default:
		return nil, fmt.Errorf("%w: either physicalCashBalance or denominations is required", apperrors.ErrValidation)
	}

	if physical.IsNegative() {
		return nil, fmt.Errorf("%w: physical cash balance cannot be negative", apperrors.ErrValidation)
	}

	dayBook, err := s.dayBookRepo.Reconcile(ctx, dayBookID, physical, req.DiscrepancyNotes, userID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to reconcile day book", slog.String("error", err.Error()), slog.String("day_book_id", dayBookID))
		return nil, err
	}

	logger.Info("Day book reconciled",
		slog.String("day_book_id", dayBookID),
		slog.String("physical", physical.String()),
		slog.String("discrepancy", dayBook.DiscrepancyAmount.String()))
	return dayBook, nil
}

// Close finalises a reconciled day book. Closing is terminal; repeating the
// call surfaces the state error rather than double-transitioning.
func (s *dayBookService) Close(ctx context.Context, dayBookID string, userID string) (*domain.DayBook, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	dayBook, err := s.dayBookRepo.Close(ctx, dayBookID, userID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to close day book", slog.String("error", err.Error()), slog.String("day_book_id", dayBookID))
		return nil, err
	}

	logger.Info("Day book closed", slog.String("day_book_id", dayBookID), slog.String("closed_by", userID))
	return dayBook, nil
}

// GetDayBookByID retrieves a day book.
func (s *dayBookService) GetDayBookByID(ctx context.Context, dayBookID string) (*domain.DayBook, error) {
	return s.dayBookRepo.FindDayBookByID(ctx, dayBookID)
}

// GetDayBookByDate retrieves the day book for a calendar date.
func (s *dayBookService) GetDayBookByDate(ctx context.Context, date time.Time) (*domain.DayBook, error) {
	return s.dayBookRepo.FindDayBookByDate(ctx, truncateToDay(date))
}

// GetSummary builds the read-only projection over a day book's transactions
// and linked journal entries. The system balance is recomputed from the
// transactions here rather than read from the cached column.
func (s *dayBookService) GetSummary(ctx context.Context, dayBookID string) (*domain.DayBookSummary, error) {
	dayBook, err := s.dayBookRepo.FindDayBookByID(ctx, dayBookID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.dayBookRepo.ListTransactions(ctx, dayBookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list day book transactions: %w", err)
	}

	systemBalance := dayBook.OpeningBalance
	for _, txn := range transactions {
		systemBalance = systemBalance.Add(txn.SignedAmount())
	}

	entryCount, totalDebits, totalCredits, byType, err := s.dayBookRepo.GetEntryStats(ctx, dayBookID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate day book entries: %w", err)
	}

	return &domain.DayBookSummary{
		DayBookID:         dayBook.DayBookID,
		TransactionDate:   dayBook.TransactionDate,
		Status:            dayBook.Status,
		OpeningBalance:    dayBook.OpeningBalance,
		SystemCashBalance: systemBalance,
		TransactionCount:  len(transactions),
		EntryCount:        entryCount,
		TotalDebits:       totalDebits,
		TotalCredits:      totalCredits,
		ByAccountType:     byType,
		Transactions:      transactions,
	}, nil
}
