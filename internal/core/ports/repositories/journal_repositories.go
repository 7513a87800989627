package repositories

import (
	"context"
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
)

// JournalRepository defines persistence operations for journal entries and
// their lines. An entry with its lines is always written as a single atomic
// unit; partial writes are never observable.
type JournalRepository interface {
	// SaveEntry inserts a new entry and its lines in one transaction,
	// assigning EntryNumber from the journal entry number sequence inside
	// that same transaction.
	SaveEntry(ctx context.Context, entry *domain.JournalEntry) error

	// FindEntryByID retrieves an entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns entries ordered by entry number descending.
	ListEntries(ctx context.Context, statusFilter *domain.EntryStatus, limit, offset int) ([]domain.JournalEntry, error)

	// MarkPosted flips a DRAFT entry to POSTED and records the approver.
	// The status guard is re-checked in SQL; a non-draft entry maps to
	// apperrors.ErrInvalidState.
	MarkPosted(ctx context.Context, entryID, approvedBy string, at time.Time) error

	// SaveReversal atomically inserts the mirror entry (already POSTED) and
	// flips the original from POSTED to REVERSED, linking the pair. A
	// concurrent or repeated reversal maps to apperrors.ErrInvalidState.
	SaveReversal(ctx context.Context, reversal *domain.JournalEntry, originalEntryID string, updatedBy string, at time.Time) error

	// DeleteEntry removes a DRAFT entry and its lines. Posted or reversed
	// entries map to apperrors.ErrInvalidState.
	DeleteEntry(ctx context.Context, entryID string) error
}
