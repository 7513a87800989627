package services_test

import (
	"context"
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portsrepo "github.com/sahulatfin/microfin_backoffice/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, typeFilter *domain.AccountType, activeFilter *bool) ([]domain.Account, error) {
	args := m.Called(ctx, typeFilter, activeFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAncestorIDs(ctx context.Context, accountID string) ([]string, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccountRepository) HasChildren(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) HasEntryLines(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) CalculateBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) CalculateOwnBalances(ctx context.Context, asOf time.Time) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepository = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, statusFilter *domain.EntryStatus, limit, offset int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, statusFilter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) MarkPosted(ctx context.Context, entryID, approvedBy string, at time.Time) error {
	args := m.Called(ctx, entryID, approvedBy, at)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversal *domain.JournalEntry, originalEntryID string, updatedBy string, at time.Time) error {
	args := m.Called(ctx, reversal, originalEntryID, updatedBy, at)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

// --- Mock DayBookRepository ---

type MockDayBookRepository struct {
	mock.Mock
}

var _ portsrepo.DayBookRepository = (*MockDayBookRepository)(nil)

func (m *MockDayBookRepository) SaveDayBook(ctx context.Context, dayBook *domain.DayBook) error {
	args := m.Called(ctx, dayBook)
	return args.Error(0)
}

func (m *MockDayBookRepository) FindDayBookByID(ctx context.Context, dayBookID string) (*domain.DayBook, error) {
	args := m.Called(ctx, dayBookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookRepository) FindDayBookByDate(ctx context.Context, date time.Time) (*domain.DayBook, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookRepository) FindLatestClosed(ctx context.Context) (*domain.DayBook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookRepository) AppendTransaction(ctx context.Context, dayBookID string, txn domain.DayBookTransaction, entry *domain.JournalEntry) (*domain.DayBook, error) {
	args := m.Called(ctx, dayBookID, txn, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookRepository) Reconcile(ctx context.Context, dayBookID string, physical decimal.Decimal, notes string, updatedBy string, at time.Time) (*domain.DayBook, error) {
	args := m.Called(ctx, dayBookID, physical, notes, updatedBy, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookRepository) Close(ctx context.Context, dayBookID string, closedBy string, at time.Time) (*domain.DayBook, error) {
	args := m.Called(ctx, dayBookID, closedBy, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookRepository) ListTransactions(ctx context.Context, dayBookID string) ([]domain.DayBookTransaction, error) {
	args := m.Called(ctx, dayBookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DayBookTransaction), args.Error(1)
}

func (m *MockDayBookRepository) GetEntryStats(ctx context.Context, dayBookID string) (int, decimal.Decimal, decimal.Decimal, map[domain.AccountType]decimal.Decimal, error) {
	args := m.Called(ctx, dayBookID)
	var byType map[domain.AccountType]decimal.Decimal
	if args.Get(3) != nil {
		byType = args.Get(3).(map[domain.AccountType]decimal.Decimal)
	}
	return args.Int(0), args.Get(1).(decimal.Decimal), args.Get(2).(decimal.Decimal), byType, args.Error(4)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetBalancesByType(ctx context.Context, types []domain.AccountType, from *time.Time, to time.Time) ([]domain.AccountBalance, error) {
	args := m.Called(ctx, types, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalance), args.Error(1)
}

func (m *MockReportingRepository) GetGeneralLedgerData(ctx context.Context, accountID string, from, to time.Time) (decimal.Decimal, []domain.GeneralLedgerLine, error) {
	args := m.Called(ctx, accountID, from, to)
	var lines []domain.GeneralLedgerLine
	if args.Get(1) != nil {
		lines = args.Get(1).([]domain.GeneralLedgerLine)
	}
	return args.Get(0).(decimal.Decimal), lines, args.Error(2)
}
