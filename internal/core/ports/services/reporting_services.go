package services

import (
	"context"
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
)

// ReportingService defines the read-side financial report projections. They
// mutate nothing and consider POSTED entries only; reversal pairs (the
// REVERSED original and its mirror) are excluded so a reversal nets to zero.
// Ledger-integrity gaps are surfaced as warning fields, never as errors.
type ReportingService interface {
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error)
	GeneralLedger(ctx context.Context, accountID string, from, to time.Time) (*domain.GeneralLedgerReport, error)
}
