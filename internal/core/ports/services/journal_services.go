package services

import (
	"context"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
)

// JournalService defines the journal entry engine operations. Entries follow
// DRAFT -> POSTED -> REVERSED; REVERSED is terminal.
type JournalService interface {
	// CreateEntry validates the double-entry invariant and persists a DRAFT
	// entry with its lines atomically.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)
	// PostEntry re-validates balance and flips DRAFT -> POSTED, recording
	// the approver.
	PostEntry(ctx context.Context, entryID string, approverUserID string) (*domain.JournalEntry, error)
	// ReverseEntry creates a posted mirror entry (sides swapped, dated at
	// reversal time) and flips the original POSTED -> REVERSED.
	ReverseEntry(ctx context.Context, entryID string, reason string, userID string) (*domain.JournalEntry, error)
	// DeleteEntry removes a DRAFT entry. Posted and reversed entries are
	// never deleted.
	DeleteEntry(ctx context.Context, entryID string) error
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.JournalEntry, error)
}
