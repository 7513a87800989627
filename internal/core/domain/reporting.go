package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's balance expressed on its normal side.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every active account's balance. A non-zero
// Difference indicates a ledger integrity fault and is surfaced as a warning
// rather than an error, so the report stays viewable for diagnosis.
type TrialBalanceReport struct {
	AsOf         time.Time         `json:"asOf"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	Difference   decimal.Decimal   `json:"difference"`
	Warning      string            `json:"warning,omitempty"`
}

// AccountBalance pairs an account with its computed balance.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceSheetReport groups ASSET, LIABILITY and EQUITY balances. A non-zero
// Gap (assets minus liabilities+equity) is surfaced, never hidden.
type BalanceSheetReport struct {
	AsOf             time.Time        `json:"asOf"`
	Assets           []AccountBalance `json:"assets"`
	Liabilities      []AccountBalance `json:"liabilities"`
	Equity           []AccountBalance `json:"equity"`
	TotalAssets      decimal.Decimal  `json:"totalAssets"`
	TotalLiabilities decimal.Decimal  `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal  `json:"totalEquity"`
	Gap              decimal.Decimal  `json:"gap"`
	Warning          string           `json:"warning,omitempty"`
}

// IncomeStatementReport sums INCOME and EXPENSE activity over a period.
type IncomeStatementReport struct {
	FromDate      time.Time        `json:"fromDate"`
	ToDate        time.Time        `json:"toDate"`
	Income        []AccountBalance `json:"income"`
	Expenses      []AccountBalance `json:"expenses"`
	TotalIncome   decimal.Decimal  `json:"totalIncome"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	NetIncome     decimal.Decimal  `json:"netIncome"`
}

// GeneralLedgerLine is one posted entry line in a general ledger listing,
// with the running balance after applying the line.
type GeneralLedgerLine struct {
	EntryID        string          `json:"entryID"`
	EntryNumber    int64           `json:"entryNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	Narration      string          `json:"narration"`
	AccountID      string          `json:"accountID"`
	AccountName    string          `json:"accountName"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// GeneralLedgerReport is the chronological ledger for one account (or all
// accounts) with the opening balance preceding the period.
type GeneralLedgerReport struct {
	AccountID      string              `json:"accountID,omitempty"`
	FromDate       time.Time           `json:"fromDate"`
	ToDate         time.Time           `json:"toDate"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"`
	ClosingBalance decimal.Decimal     `json:"closingBalance"`
	Lines          []GeneralLedgerLine `json:"lines"`
}
