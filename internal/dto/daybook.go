package dto

import (
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDayBookRequest opens a cash session for a calendar date. When
// OpeningBalance is nil it is carried forward from the most recently closed
// day book.
type CreateDayBookRequest struct {
	TransactionDate time.Time        `json:"transactionDate" binding:"required" time_format:"2006-01-02"`
	OpeningBalance  *decimal.Decimal `json:"openingBalance"`
}

// RecordDayBookTransactionRequest records a cash movement. When both account
// IDs are present a linked journal entry is generated (debit/credit pair).
type RecordDayBookTransactionRequest struct {
	TransactionType domain.DayBookTransactionType `json:"transactionType" binding:"required"`
	Amount          decimal.Decimal               `json:"amount" binding:"required"`
	PaymentMethod   string                        `json:"paymentMethod" binding:"required"`
	Description     string                        `json:"description"`
	DebitAccountID  string                        `json:"debitAccountID"`
	CreditAccountID string                        `json:"creditAccountID"`
}

// DenominationCountRequest is the note-by-note physical cash count.
type DenominationCountRequest struct {
	Notes map[int64]int64 `json:"notes"`
	Coins decimal.Decimal `json:"coins"`
}

// ReconcileDayBookRequest records the physical cash count, either as a direct
// balance or as a denomination breakdown (the breakdown wins when both are set).
type ReconcileDayBookRequest struct {
	PhysicalCashBalance *decimal.Decimal          `json:"physicalCashBalance"`
	Denominations       *DenominationCountRequest `json:"denominations"`
	DiscrepancyNotes    string                    `json:"discrepancyNotes"`
}

// DayBookResponse is the API representation of a day book.
type DayBookResponse struct {
	DayBookID           string           `json:"dayBookID"`
	BookNumber          int64            `json:"bookNumber"`
	TransactionDate     string           `json:"transactionDate"`
	Status              string           `json:"status"`
	OpeningBalance      decimal.Decimal  `json:"openingBalance"`
	SystemCashBalance   decimal.Decimal  `json:"systemCashBalance"`
	PhysicalCashBalance *decimal.Decimal `json:"physicalCashBalance,omitempty"`
	DiscrepancyAmount   *decimal.Decimal `json:"discrepancyAmount,omitempty"`
	DiscrepancyNotes    string           `json:"discrepancyNotes,omitempty"`
	ClosedBy            string           `json:"closedBy,omitempty"`
	ClosedAt            *time.Time       `json:"closedAt,omitempty"`
}

// DayBookTransactionResponse is the API representation of a cash movement.
type DayBookTransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"paymentMethod"`
	Description     string          `json:"description,omitempty"`
	JournalEntryID  *string         `json:"journalEntryID,omitempty"`
}

// ToDayBookResponse converts a domain day book to its API representation.
func ToDayBookResponse(b *domain.DayBook) DayBookResponse {
	return DayBookResponse{
		DayBookID:           b.DayBookID,
		BookNumber:          b.BookNumber,
		TransactionDate:     b.TransactionDate.Format("2006-01-02"),
		Status:              string(b.Status),
		OpeningBalance:      b.OpeningBalance,
		SystemCashBalance:   b.SystemCashBalance,
		PhysicalCashBalance: b.PhysicalCashBalance,
		DiscrepancyAmount:   b.DiscrepancyAmount,
		DiscrepancyNotes:    b.DiscrepancyNotes,
		ClosedBy:            b.ClosedBy,
		ClosedAt:            b.ClosedAt,
	}
}

// ToDayBookTransactionResponse converts a domain day book transaction.
func ToDayBookTransactionResponse(t *domain.DayBookTransaction) DayBookTransactionResponse {
	return DayBookTransactionResponse{
		TransactionID:   t.TransactionID,
		TransactionType: string(t.TransactionType),
		Amount:          t.Amount,
		PaymentMethod:   t.PaymentMethod,
		Description:     t.Description,
		JournalEntryID:  t.JournalEntryID,
	}
}
