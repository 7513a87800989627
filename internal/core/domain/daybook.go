package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayBookStatus indicates the lifecycle state of a day book.
type DayBookStatus string

const (
	DayBookOpen       DayBookStatus = "OPEN"
	DayBookReconciled DayBookStatus = "RECONCILED"
	DayBookClosed     DayBookStatus = "CLOSED"
)

// CanTransitionTo is the single source of truth for legal day book
// transitions: OPEN -> RECONCILED -> CLOSED, with CLOSED terminal.
func (s DayBookStatus) CanTransitionTo(next DayBookStatus) bool {
	switch s {
	case DayBookOpen:
		return next == DayBookReconciled
	case DayBookReconciled:
		return next == DayBookClosed
	default:
		return false
	}
}

// DayBook is a per-calendar-day cash session. SystemCashBalance is always a
// derived quantity (opening balance plus signed transaction amounts); the
// stored column is a cache recomputed under the same lock as every mutation.
type DayBook struct {
	DayBookID       string          `json:"dayBookID"`  // Primary Key (UUID)
	BookNumber      int64           `json:"bookNumber"` // Sequential per business calendar
	TransactionDate time.Time       `json:"transactionDate"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	Status          DayBookStatus   `json:"status"`

	SystemCashBalance decimal.Decimal `json:"systemCashBalance"`

	PhysicalCashBalance *decimal.Decimal `json:"physicalCashBalance,omitempty"` // Nil until reconciled
	DiscrepancyAmount   *decimal.Decimal `json:"discrepancyAmount,omitempty"`   // physical - system
	DiscrepancyNotes    string           `json:"discrepancyNotes,omitempty"`

	ClosedBy string     `json:"closedBy,omitempty"`
	ClosedAt *time.Time `json:"closedAt,omitempty"`
	AuditFields
}

// DayBookTransactionType categorises cash movements within a day book.
type DayBookTransactionType string

const (
	CashReceipt      DayBookTransactionType = "CASH_RECEIPT"
	CashPayment      DayBookTransactionType = "CASH_PAYMENT"
	BankDeposit      DayBookTransactionType = "BANK_DEPOSIT"
	BankWithdrawal   DayBookTransactionType = "BANK_WITHDRAWAL"
	LoanDisbursement DayBookTransactionType = "LOAN_DISBURSEMENT"
	LoanPayment      DayBookTransactionType = "LOAN_PAYMENT"
	InterestReceived DayBookTransactionType = "INTEREST_RECEIVED"
	InterestPaid     DayBookTransactionType = "INTEREST_PAID"
	FeeReceived      DayBookTransactionType = "FEE_RECEIVED"
	FeePaid          DayBookTransactionType = "FEE_PAID"
)

// IsValid reports whether the transaction type is recognised.
func (t DayBookTransactionType) IsValid() bool {
	switch t {
	case CashReceipt, CashPayment, BankDeposit, BankWithdrawal,
		LoanDisbursement, LoanPayment, InterestReceived, InterestPaid,
		FeeReceived, FeePaid:
		return true
	}
	return false
}

// CashSign returns +1 for types that bring cash into the till and -1 for
// types that take cash out.
func (t DayBookTransactionType) CashSign() int {
	switch t {
	case CashReceipt, BankWithdrawal, LoanPayment, InterestReceived, FeeReceived:
		return 1
	default:
		return -1
	}
}

// DayBookTransaction is a single cash movement owned by exactly one day book,
// optionally linked to the journal entry it generated.
type DayBookTransaction struct {
	TransactionID   string                 `json:"transactionID"` // Primary Key (UUID)
	DayBookID       string                 `json:"dayBookID"`     // FK -> day_books.day_book_id
	TransactionType DayBookTransactionType `json:"transactionType"`
	Amount          decimal.Decimal        `json:"amount"` // Always positive; sign comes from the type
	PaymentMethod   string                 `json:"paymentMethod"`
	Description     string                 `json:"description"`
	JournalEntryID  *string                `json:"journalEntryID,omitempty"` // Nullable FK -> journal_entries
	AuditFields
}

// SignedAmount returns the transaction amount with the cash-direction sign
// applied.
func (t DayBookTransaction) SignedAmount() decimal.Decimal {
	if t.TransactionType.CashSign() < 0 {
		return t.Amount.Neg()
	}
	return t.Amount
}

// DayBookSummary is a read-only projection over a day book's linked journal
// entries and transactions.
type DayBookSummary struct {
	DayBookID         string                          `json:"dayBookID"`
	TransactionDate   time.Time                       `json:"transactionDate"`
	Status            DayBookStatus                   `json:"status"`
	OpeningBalance    decimal.Decimal                 `json:"openingBalance"`
	SystemCashBalance decimal.Decimal                 `json:"systemCashBalance"`
	TransactionCount  int                             `json:"transactionCount"`
	EntryCount        int                             `json:"entryCount"`
	TotalDebits       decimal.Decimal                 `json:"totalDebits"`
	TotalCredits      decimal.Decimal                 `json:"totalCredits"`
	ByAccountType     map[AccountType]decimal.Decimal `json:"byAccountType"`
	Transactions      []DayBookTransaction            `json:"transactions"`
}
