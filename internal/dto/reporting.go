package dto

import (
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance response.
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	Difference decimal.Decimal `json:"difference"`
	Warning    string          `json:"warning,omitempty"`
}

// AccountBalanceResponse is an account with its balance in a report section.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalanceSheetResponse represents the balance sheet report response.
type BalanceSheetResponse struct {
	AsOf        string                   `json:"asOf"`
	Assets      []AccountBalanceResponse `json:"assets"`
	Liabilities []AccountBalanceResponse `json:"liabilities"`
	Equity      []AccountBalanceResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		Gap              decimal.Decimal `json:"gap"`
	} `json:"summary"`
	Warning string `json:"warning,omitempty"`
}

// IncomeStatementResponse represents the income statement report response.
type IncomeStatementResponse struct {
	FromDate string                   `json:"fromDate"`
	ToDate   string                   `json:"toDate"`
	Income   []AccountBalanceResponse `json:"income"`
	Expenses []AccountBalanceResponse `json:"expenses"`
	Summary  struct {
		TotalIncome   decimal.Decimal `json:"totalIncome"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetIncome     decimal.Decimal `json:"netIncome"`
	} `json:"summary"`
}

// GeneralLedgerLineResponse is one line in the general ledger response.
type GeneralLedgerLineResponse struct {
	EntryID        string          `json:"entryID"`
	EntryNumber    int64           `json:"entryNumber"`
	EntryDate      string          `json:"entryDate"`
	Narration      string          `json:"narration"`
	AccountID      string          `json:"accountID"`
	AccountName    string          `json:"accountName"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// GeneralLedgerResponse represents the general ledger report response.
type GeneralLedgerResponse struct {
	AccountID      string                      `json:"accountID,omitempty"`
	FromDate       string                      `json:"fromDate"`
	ToDate         string                      `json:"toDate"`
	OpeningBalance decimal.Decimal             `json:"openingBalance"`
	ClosingBalance decimal.Decimal             `json:"closingBalance"`
	Lines          []GeneralLedgerLineResponse `json:"lines"`
}

func toAccountBalanceResponses(balances []domain.AccountBalance) []AccountBalanceResponse {
	out := make([]AccountBalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = AccountBalanceResponse{
			AccountID: b.AccountID,
			Code:      b.Code,
			Name:      b.Name,
			Balance:   b.Balance,
		}
	}
	return out
}

// ToTrialBalanceResponse converts a domain trial balance report.
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		AsOf:       report.AsOf.Format("2006-01-02"),
		Rows:       make([]TrialBalanceRowResponse, len(report.Rows)),
		Difference: report.Difference,
		Warning:    report.Warning,
	}
	for i, row := range report.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			Code:        row.Code,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	resp.Totals.Debit = report.TotalDebits
	resp.Totals.Credit = report.TotalCredits
	return resp
}

// ToBalanceSheetResponse converts a domain balance sheet report.
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	resp := BalanceSheetResponse{
		AsOf:        report.AsOf.Format("2006-01-02"),
		Assets:      toAccountBalanceResponses(report.Assets),
		Liabilities: toAccountBalanceResponses(report.Liabilities),
		Equity:      toAccountBalanceResponses(report.Equity),
		Warning:     report.Warning,
	}
	resp.Summary.TotalAssets = report.TotalAssets
	resp.Summary.TotalLiabilities = report.TotalLiabilities
	resp.Summary.TotalEquity = report.TotalEquity
	resp.Summary.Gap = report.Gap
	return resp
}

// ToIncomeStatementResponse converts a domain income statement report.
func ToIncomeStatementResponse(report *domain.IncomeStatementReport) IncomeStatementResponse {
	resp := IncomeStatementResponse{
		FromDate: report.FromDate.Format("2006-01-02"),
		ToDate:   report.ToDate.Format("2006-01-02"),
		Income:   toAccountBalanceResponses(report.Income),
		Expenses: toAccountBalanceResponses(report.Expenses),
	}
	resp.Summary.TotalIncome = report.TotalIncome
	resp.Summary.TotalExpenses = report.TotalExpenses
	resp.Summary.NetIncome = report.NetIncome
	return resp
}

// ToGeneralLedgerResponse converts a domain general ledger report.
func ToGeneralLedgerResponse(report *domain.GeneralLedgerReport) GeneralLedgerResponse {
	resp := GeneralLedgerResponse{
		AccountID:      report.AccountID,
		FromDate:       report.FromDate.Format("2006-01-02"),
		ToDate:         report.ToDate.Format("2006-01-02"),
		OpeningBalance: report.OpeningBalance,
		ClosingBalance: report.ClosingBalance,
		Lines:          make([]GeneralLedgerLineResponse, len(report.Lines)),
	}
	for i, l := range report.Lines {
		resp.Lines[i] = GeneralLedgerLineResponse{
			EntryID:        l.EntryID,
			EntryNumber:    l.EntryNumber,
			EntryDate:      l.EntryDate.Format("2006-01-02"),
			Narration:      l.Narration,
			AccountID:      l.AccountID,
			AccountName:    l.AccountName,
			Debit:          l.Debit,
			Credit:         l.Credit,
			RunningBalance: l.RunningBalance,
		}
	}
	return resp
}
