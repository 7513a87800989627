package repositories

import (
	"context"
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines the read-side aggregation queries behind the
// financial reports. All of them consider POSTED entries that are not
// reversal mirrors; reversed pairs are excluded on both sides.
type ReportingRepository interface {
	// GetTrialBalanceData returns per-account balances as of a date,
	// expressed on each account's normal side.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetBalancesByType returns balances for accounts of the given types
	// from entries dated in [from, to]. A nil from means from the beginning
	// of the ledger.
	GetBalancesByType(ctx context.Context, types []domain.AccountType, from *time.Time, to time.Time) ([]domain.AccountBalance, error)

	// GetGeneralLedgerData returns the opening balance before the period and
	// the chronological posted lines within it, for one account or for all
	// accounts when accountID is empty.
	GetGeneralLedgerData(ctx context.Context, accountID string, from, to time.Time) (opening decimal.Decimal, lines []domain.GeneralLedgerLine, err error)
}
