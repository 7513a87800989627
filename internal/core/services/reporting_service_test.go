package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sahulatfin/microfin_backoffice/internal/apperrors"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portsrepo "github.com/sahulatfin/microfin_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/core/services"
	"github.com/sahulatfin/microfin_backoffice/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	service           portssvc.ReportingService
	asOf              time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo)
	suite.asOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_Balanced() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		{AccountID: uuid.NewString(), Code: "1001", AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(500)},
		{AccountID: uuid.NewString(), Code: "4001", AccountName: "Interest Income", AccountType: domain.Income, Credit: decimal.NewFromInt(500)},
	}

	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.asOf).Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.TotalDebits.Equal(decimal.NewFromInt(500)))
	suite.True(report.TotalCredits.Equal(decimal.NewFromInt(500)))
	suite.True(report.Difference.IsZero())
	suite.Empty(report.Warning)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_OutOfBalanceGetsWarning() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		{AccountID: uuid.NewString(), Code: "1001", AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(500)},
		{AccountID: uuid.NewString(), Code: "4001", AccountName: "Interest Income", AccountType: domain.Income, Credit: decimal.NewFromInt(450)},
	}

	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.asOf).Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.asOf)

	// Integrity faults surface as a warning, never an error.
	suite.Require().NoError(err)
	suite.True(report.Difference.Equal(decimal.NewFromInt(50)), "difference %s", report.Difference)
	suite.NotEmpty(report.Warning)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_GroupsAndBalances() {
	ctx := context.Background()
	balances := []domain.AccountBalance{
		{AccountID: uuid.NewString(), Code: "1001", Name: "Cash", AccountType: domain.Asset, Balance: decimal.NewFromInt(1000)},
		{AccountID: uuid.NewString(), Code: "2001", Name: "Savings Payable", AccountType: domain.Liability, Balance: decimal.NewFromInt(600)},
		{AccountID: uuid.NewString(), Code: "3001", Name: "Capital", AccountType: domain.Equity, Balance: decimal.NewFromInt(400)},
	}

	suite.mockReportingRepo.On("GetBalancesByType", ctx,
		[]domain.AccountType{domain.Asset, domain.Liability, domain.Equity}, (*time.Time)(nil), suite.asOf).
		Return(balances, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Len(report.Assets, 1)
	suite.Len(report.Liabilities, 1)
	suite.Len(report.Equity, 1)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(1000)))
	suite.True(report.Gap.IsZero())
	suite.Empty(report.Warning)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_EquationGapGetsWarning() {
	ctx := context.Background()
	balances := []domain.AccountBalance{
		{AccountID: uuid.NewString(), Code: "1001", Name: "Cash", AccountType: domain.Asset, Balance: decimal.NewFromInt(1000)},
		{AccountID: uuid.NewString(), Code: "2001", Name: "Savings Payable", AccountType: domain.Liability, Balance: decimal.NewFromInt(600)},
	}

	suite.mockReportingRepo.On("GetBalancesByType", ctx,
		[]domain.AccountType{domain.Asset, domain.Liability, domain.Equity}, (*time.Time)(nil), suite.asOf).
		Return(balances, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.Gap.Equal(decimal.NewFromInt(400)), "gap %s", report.Gap)
	suite.NotEmpty(report.Warning)
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_NetIncome() {
	ctx := context.Background()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	balances := []domain.AccountBalance{
		{AccountID: uuid.NewString(), Code: "4001", Name: "Interest Income", AccountType: domain.Income, Balance: decimal.NewFromInt(900)},
		{AccountID: uuid.NewString(), Code: "5001", Name: "Salaries", AccountType: domain.Expense, Balance: decimal.NewFromInt(350)},
	}

	suite.mockReportingRepo.On("GetBalancesByType", ctx,
		[]domain.AccountType{domain.Income, domain.Expense}, &from, suite.asOf).
		Return(balances, nil).Once()

	report, err := suite.service.IncomeStatement(ctx, from, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.TotalIncome.Equal(decimal.NewFromInt(900)))
	suite.True(report.TotalExpenses.Equal(decimal.NewFromInt(350)))
	suite.True(report.NetIncome.Equal(decimal.NewFromInt(550)))
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_InvertedPeriodRejected() {
	ctx := context.Background()

	_, err := suite.service.IncomeStatement(ctx, suite.asOf, suite.asOf.AddDate(0, 0, -1))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetBalancesByType", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestGeneralLedger_ClosingFollowsLastLine() {
	ctx := context.Background()
	accountID := uuid.NewString()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	lines := []domain.GeneralLedgerLine{
		{EntryID: uuid.NewString(), EntryNumber: 1, Debit: decimal.NewFromInt(200), RunningBalance: decimal.NewFromInt(300)},
		{EntryID: uuid.NewString(), EntryNumber: 2, Credit: decimal.NewFromInt(50), RunningBalance: decimal.NewFromInt(250)},
	}

	suite.mockReportingRepo.On("GetGeneralLedgerData", ctx, accountID, from, suite.asOf).
		Return(decimal.NewFromInt(100), lines, nil).Once()

	report, err := suite.service.GeneralLedger(ctx, accountID, from, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.OpeningBalance.Equal(decimal.NewFromInt(100)))
	suite.True(report.ClosingBalance.Equal(decimal.NewFromInt(250)))
	suite.Len(report.Lines, 2)
}

func (suite *ReportingServiceTestSuite) TestGeneralLedger_NoActivityClosesAtOpening() {
	ctx := context.Background()
	accountID := uuid.NewString()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	suite.mockReportingRepo.On("GetGeneralLedgerData", ctx, accountID, from, suite.asOf).
		Return(decimal.NewFromInt(100), []domain.GeneralLedgerLine{}, nil).Once()

	report, err := suite.service.GeneralLedger(ctx, accountID, from, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.ClosingBalance.Equal(report.OpeningBalance))
}

// ledgerFake is an in-memory ReportingRepository applying the same
// contribution rule as the SQL queries: POSTED entries that are not reversal
// mirrors.
type ledgerFake struct {
	accounts map[string]domain.TrialBalanceRow
	entries  []*domain.JournalEntry
}

var _ portsrepo.ReportingRepository = (*ledgerFake)(nil)

func (f *ledgerFake) GetTrialBalanceData(_ context.Context, _ time.Time) ([]domain.TrialBalanceRow, error) {
	debits := map[string]decimal.Decimal{}
	credits := map[string]decimal.Decimal{}
	for _, e := range f.entries {
		if e.Status != domain.Posted || e.ReversalOfEntryID != nil {
			continue
		}
		for _, l := range e.Lines {
			debits[l.AccountID] = debits[l.AccountID].Add(l.Debit)
			credits[l.AccountID] = credits[l.AccountID].Add(l.Credit)
		}
	}

	var rows []domain.TrialBalanceRow
	for id, row := range f.accounts {
		if debits[id].IsZero() && credits[id].IsZero() {
			continue
		}
		balance := accounting.SignBalance(debits[id].Sub(credits[id]), row.AccountType)
		row.Debit, row.Credit = accounting.NormalBalance(balance, row.AccountType)
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *ledgerFake) GetBalancesByType(_ context.Context, _ []domain.AccountType, _ *time.Time, _ time.Time) ([]domain.AccountBalance, error) {
	return nil, nil
}

func (f *ledgerFake) GetGeneralLedgerData(_ context.Context, _ string, _, _ time.Time) (decimal.Decimal, []domain.GeneralLedgerLine, error) {
	return decimal.Zero, nil, nil
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_ReversalRoundTrip() {
	ctx := context.Background()
	cashID := uuid.NewString()
	incomeID := uuid.NewString()
	ledger := &ledgerFake{
		accounts: map[string]domain.TrialBalanceRow{
			cashID:   {AccountID: cashID, Code: "1001", AccountName: "Cash", AccountType: domain.Asset},
			incomeID: {AccountID: incomeID, Code: "4001", AccountName: "Interest Income", AccountType: domain.Income},
		},
	}
	reporting := services.NewReportingService(ledger)

	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: 9,
		Status:      domain.Posted,
		Lines: []domain.JournalEntryLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: cashID, Debit: decimal.NewFromInt(500)},
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: incomeID, Credit: decimal.NewFromInt(500)},
		},
	}
	ledger.entries = append(ledger.entries, entry)

	posted, err := reporting.TrialBalance(ctx, suite.asOf)
	suite.Require().NoError(err)
	suite.True(posted.TotalDebits.Equal(decimal.NewFromInt(500)))
	suite.True(posted.Difference.IsZero())

	// Reverse through the journal service so the ledger receives exactly the
	// mirror production writes.
	journalRepo := new(MockJournalRepository)
	journalSvc := services.NewJournalService(journalRepo, new(MockAccountRepository))
	journalRepo.On("FindEntryByID", ctx, entryID).Return(entry, nil).Once()
	journalRepo.On("SaveReversal", ctx, mock.AnythingOfType("*domain.JournalEntry"), entryID,
		mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			mirror := args.Get(1).(*domain.JournalEntry)
			ledger.entries = append(ledger.entries, mirror)
			entry.Status = domain.Reversed
			entry.ReversedByEntryID = &mirror.EntryID
		}).Return(nil).Once()

	_, err = journalSvc.ReverseEntry(ctx, entryID, "posted in error", uuid.NewString())
	suite.Require().NoError(err)

	// Both sides of the pair drop out, so every balance returns to pre-entry.
	reversed, err := reporting.TrialBalance(ctx, suite.asOf)
	suite.Require().NoError(err)
	suite.Empty(reversed.Rows)
	suite.True(reversed.TotalDebits.IsZero(), "debits %s", reversed.TotalDebits)
	suite.True(reversed.TotalCredits.IsZero(), "credits %s", reversed.TotalCredits)
	suite.Empty(reversed.Warning)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
