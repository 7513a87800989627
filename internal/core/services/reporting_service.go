package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/apperrors"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portsrepo "github.com/sahulatfin/microfin_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/middleware"
	"github.com/shopspring/decimal"
)

// reportingService derives the financial reports from posted entries. It
// mutates nothing; ledger-integrity gaps are surfaced as warnings so reports
// stay viewable for diagnosis even when upstream data is inconsistent.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance lists every active account's balance on its normal side as of
// a date. A non-zero debit/credit difference is reported, never hidden.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, asOf)
	if err != nil {
		logger.Error("Failed to retrieve trial balance data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, row := range rows {
		totalDebits = totalDebits.Add(row.Debit)
		totalCredits = totalCredits.Add(row.Credit)
	}
	difference := totalDebits.Sub(totalCredits)

	report := &domain.TrialBalanceReport{
		AsOf:         asOf,
		Rows:         rows,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		Difference:   difference,
	}
	if !difference.IsZero() {
		report.Warning = fmt.Sprintf("trial balance out of balance by %s; ledger integrity fault", difference.String())
		logger.Warn("Trial balance difference is non-zero", slog.String("difference", difference.String()))
	}

	logger.Info("Trial balance generated", slog.Int("row_count", len(rows)))
	return report, nil
}

// BalanceSheet groups ASSET, LIABILITY and EQUITY balances as of a date and
// reports the accounting-equation gap explicitly.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	balances, err := s.reportingRepo.GetBalancesByType(ctx,
		[]domain.AccountType{domain.Asset, domain.Liability, domain.Equity}, nil, asOf)
	if err != nil {
		logger.Error("Failed to retrieve balance sheet data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	report := &domain.BalanceSheetReport{
		AsOf:             asOf,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, b := range balances {
		switch b.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, b)
			report.TotalAssets = report.TotalAssets.Add(b.Balance)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, b)
			report.TotalLiabilities = report.TotalLiabilities.Add(b.Balance)
		case domain.Equity:
			report.Equity = append(report.Equity, b)
			report.TotalEquity = report.TotalEquity.Add(b.Balance)
		}
	}

	report.Gap = report.TotalAssets.Sub(report.TotalLiabilities.Add(report.TotalEquity))
	if !report.Gap.IsZero() {
		report.Warning = fmt.Sprintf("assets differ from liabilities+equity by %s", report.Gap.String())
		logger.Warn("Balance sheet equation does not hold", slog.String("gap", report.Gap.String()))
	}

	logger.Info("Balance sheet generated",
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)),
		slog.Int("equity_accounts", len(report.Equity)))
	return report, nil
}

// IncomeStatement sums INCOME and EXPENSE activity for entries dated within
// [from, to].
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date precedes start date", apperrors.ErrValidation)
	}

	balances, err := s.reportingRepo.GetBalancesByType(ctx,
		[]domain.AccountType{domain.Income, domain.Expense}, &from, to)
	if err != nil {
		logger.Error("Failed to retrieve income statement data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve income statement data: %w", err)
	}

	report := &domain.IncomeStatementReport{
		FromDate:      from,
		ToDate:        to,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, b := range balances {
		switch b.AccountType {
		case domain.Income:
			report.Income = append(report.Income, b)
			report.TotalIncome = report.TotalIncome.Add(b.Balance)
		case domain.Expense:
			report.Expenses = append(report.Expenses, b)
			report.TotalExpenses = report.TotalExpenses.Add(b.Balance)
		}
	}
	report.NetIncome = report.TotalIncome.Sub(report.TotalExpenses)

	logger.Info("Income statement generated",
		slog.Int("income_accounts", len(report.Income)),
		slog.Int("expense_accounts", len(report.Expenses)))
	return report, nil
}

// GeneralLedger lists posted entry lines chronologically for one account (or
// all accounts when accountID is empty), with the opening balance preceding
// the period and a running balance per line.
func (s *reportingService) GeneralLedger(ctx context.Context, accountID string, from, to time.Time) (*domain.GeneralLedgerReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date precedes start date", apperrors.ErrValidation)
	}

	opening, lines, err := s.reportingRepo.GetGeneralLedgerData(ctx, accountID, from, to)
	if err != nil {
		logger.Error("Failed to retrieve general ledger data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve general ledger data: %w", err)
	}

	closing := opening
	if len(lines) > 0 {
		closing = lines[len(lines)-1].RunningBalance
	}

	logger.Info("General ledger generated", slog.Int("line_count", len(lines)))
	return &domain.GeneralLedgerReport{
		AccountID:      accountID,
		FromDate:       from,
		ToDate:         to,
		OpeningBalance: opening,
		ClosingBalance: closing,
		Lines:          lines,
	}, nil
}
