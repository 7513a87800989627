package repositories

import (
	"context"
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for the chart of accounts.
type AccountRepository interface {
	// SaveAccount inserts a new account. A duplicate code maps to
	// apperrors.ErrConflict.
	SaveAccount(ctx context.Context, account domain.Account) error

	// FindAccountByID retrieves an account by its ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its unique ledger code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts returns accounts matching the optional filters, ordered by code.
	ListAccounts(ctx context.Context, typeFilter *domain.AccountType, activeFilter *bool) ([]domain.Account, error)

	// UpdateAccount persists mutable account fields (name, description,
	// parent, active flag). Code and type never change.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account row. Callers must have verified the
	// account is unreferenced; a foreign-key violation still maps to
	// apperrors.ErrConflict as a backstop.
	DeleteAccount(ctx context.Context, accountID string) error

	// FindAncestorIDs walks the parent chain upward from the given account
	// and returns every ancestor ID (nearest first).
	FindAncestorIDs(ctx context.Context, accountID string) ([]string, error)

	// HasChildren reports whether any account names this one as parent.
	HasChildren(ctx context.Context, accountID string) (bool, error)

	// HasEntryLines reports whether any journal entry line references the account.
	HasEntryLines(ctx context.Context, accountID string) (bool, error)

	// CalculateBalance computes the rolled-up balance of the account and all
	// of its descendants from POSTED entries dated on or before asOf, signed
	// per the account's normal side.
	CalculateBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)

	// CalculateOwnBalances computes each account's own-posting balance (no
	// roll-up) from POSTED entries dated on or before asOf, keyed by account ID.
	CalculateOwnBalances(ctx context.Context, asOf time.Time) (map[string]decimal.Decimal, error)
}
