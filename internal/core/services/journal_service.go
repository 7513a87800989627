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
	"github.com/sahulatfin/microfin_backoffice/internal/utils/accounting"
)

var (
	ErrEntryUnbalanced = errors.New("journal entry debits and credits do not balance")
	ErrEntryMinLines   = errors.New("journal entry must have at least two lines")
	ErrAccountNotFound = errors.New("account not found")
)

// journalService provides the journal entry engine: creation of balanced
// DRAFT entries and the DRAFT -> POSTED -> REVERSED state machine.
type journalService struct {
	journalRepo portsrepo.JournalRepository
	accountRepo portsrepo.AccountRepository
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepository, accountRepo portsrepo.AccountRepository) portssvc.JournalService {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.JournalService = (*journalService)(nil)

// CreateEntry validates the double-entry invariant and persists a DRAFT entry
// with its lines as one atomic unit.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) < 2 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEntryMinLines)
	}
	if req.Narration == "" {
		return nil, fmt.Errorf("%w: narration is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalEntryLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   lineReq.AccountID,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
			Description: lineReq.Description,
		}
		if err := lines[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
	}

	debits, credits := domain.Totals(lines)
	if !debits.Equal(credits) {
		return nil, fmt.Errorf("%w: %s (debits %s, credits %s)",
			apperrors.ErrInvariantViolation, ErrEntryUnbalanced, debits.String(), credits.String())
	}

	if err := s.checkAccountsUsable(ctx, lines); err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:   entryID,
		EntryDate: req.EntryDate,
		Narration: req.Narration,
		Reference: req.Reference,
		Status:    domain.Draft,
		Lines:     lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// EntryNumber is assigned by the repository from the entry number
	// sequence inside the insert transaction.
	if err := s.journalRepo.SaveEntry(ctx, &entry); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.Int64("entry_number", entry.EntryNumber),
		slog.Int("line_count", len(lines)))
	return &entry, nil
}

// checkAccountsUsable verifies every referenced account exists and is active.
func (s *journalService) checkAccountsUsable(ctx context.Context, lines []domain.JournalEntryLine) error {
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}

		acc, err := s.accountRepo.FindAccountByID(ctx, line.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, ErrAccountNotFound, line.AccountID)
			}
			return fmt.Errorf("failed to fetch account %s: %w", line.AccountID, err)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, line.AccountID)
		}
	}
	return nil
}

// PostEntry flips a DRAFT entry to POSTED, re-validating balance as a defense
// against drift between creation and approval.
func (s *journalService) PostEntry(ctx context.Context, entryID string, approverUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if !entry.Status.CanTransitionTo(domain.Posted) {
		return nil, fmt.Errorf("%w: cannot post entry in status %s", apperrors.ErrInvalidState, entry.Status)
	}

	if err := accounting.ValidateEntryBalance(entry.Lines); err != nil {
		logger.Error("Stored entry fails balance re-validation", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvariantViolation, err)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.MarkPosted(ctx, entryID, approverUserID, now); err != nil {
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	entry.Status = domain.Posted
	entry.ApprovedBy = approverUserID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = approverUserID

	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("approved_by", approverUserID))
	return entry, nil
}

// ReverseEntry creates a posted mirror entry with every line's debit and
// credit swapped, dated at reversal time, and flips the original to REVERSED.
// The original is never mutated beyond its status; reversal of a reversal is
// not permitted (REVERSED is terminal and the mirror itself carries the link).
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if !original.Status.CanTransitionTo(domain.Reversed) {
		return nil, fmt.Errorf("%w: cannot reverse entry in status %s", apperrors.ErrInvalidState, original.Status)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()

	lines := make([]domain.JournalEntryLine, len(original.Lines))
	for i, orig := range original.Lines {
		lines[i] = domain.JournalEntryLine{
			LineID:      uuid.NewString(),
			EntryID:     reversalID,
			AccountID:   orig.AccountID,
			Debit:       orig.Credit,
			Credit:      orig.Debit,
			Description: orig.Description,
		}
	}

	reversal := domain.JournalEntry{
		EntryID:           reversalID,
		EntryDate:         now,
		Narration:         fmt.Sprintf("Reversal of entry #%d: %s", original.EntryNumber, reason),
		Reference:         original.Reference,
		Status:            domain.Posted,
		ApprovedBy:        userID,
		ReversalOfEntryID: &original.EntryID,
		Lines:             lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// Insert of the mirror and the POSTED -> REVERSED flip of the original
	// happen in one repository transaction; a concurrent retry loses the SQL
	// status guard and surfaces ErrInvalidState instead of double-reversing.
	if err := s.journalRepo.SaveReversal(ctx, &reversal, original.EntryID, userID, now); err != nil {
		logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversalID))
	return &reversal, nil
}

// DeleteEntry removes a DRAFT entry and its lines. Posted and reversed
// entries are never deleted; this is why entry numbers are unique and
// increasing but not gapless.
func (s *journalService) DeleteEntry(ctx context.Context, entryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: only draft entries can be deleted, entry is %s", apperrors.ErrInvalidState, entry.Status)
	}

	if err := s.journalRepo.DeleteEntry(ctx, entryID); err != nil {
		logger.Error("Failed to delete draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return err
	}

	logger.Info("Draft entry deleted", slog.String("entry_id", entryID))
	return nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, entryID)
}

// ListEntries returns entries ordered by entry number descending.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.JournalEntry, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	return s.journalRepo.ListEntries(ctx, params.Status, limit, params.Offset)
}
