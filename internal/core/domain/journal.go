package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// CanTransitionTo is the single source of truth for legal entry transitions:
// DRAFT -> POSTED -> REVERSED, with REVERSED terminal.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	switch s {
	case Draft:
		return next == Posted
	case Posted:
		return next == Reversed
	default:
		return false
	}
}

// JournalEntry represents a single, balanced financial event composed of
// multiple lines. Entries are created as DRAFT and become immutable (except
// for status) once posted.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`     // Primary Key (UUID)
	EntryNumber int64       `json:"entryNumber"` // Unique, monotonically increasing; not gapless
	EntryDate   time.Time   `json:"entryDate"`   // Date the event occurred
	Narration   string      `json:"narration"`
	Reference   string      `json:"reference"` // Optional external reference
	Status      EntryStatus `json:"status"`
	ApprovedBy  string      `json:"approvedBy"` // Set only on POSTED

	// ReversalOfEntryID links a reversal entry back to the entry it reverses;
	// ReversedByEntryID links a REVERSED entry forward to its mirror entry.
	ReversalOfEntryID *string `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID *string `json:"reversedByEntryID,omitempty"`

	Lines []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine is a single debit or credit within a journal entry.
// Exactly one of Debit/Credit is strictly positive, the other is zero.
type JournalEntryLine struct {
	LineID      string          `json:"lineID"`  // Primary Key (UUID)
	EntryID     string          `json:"entryID"` // FK -> journal_entries.entry_id
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// Side returns the balance side this line posts to.
func (l JournalEntryLine) Side() BalanceSide {
	if l.Debit.IsPositive() {
		return DebitSide
	}
	return CreditSide
}

// Amount returns the positive magnitude of the line.
func (l JournalEntryLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// Validate checks the one-sided-positive invariant for a single line.
func (l JournalEntryLine) Validate() error {
	debitUsed := !l.Debit.IsZero()
	creditUsed := !l.Credit.IsZero()
	if debitUsed == creditUsed {
		return fmt.Errorf("line for account %s must have exactly one of debit/credit set", l.AccountID)
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("line for account %s has a negative amount", l.AccountID)
	}
	return nil
}

// Totals returns the debit and credit sums of the given lines, rounded to
// 2 decimal places of currency precision.
func Totals(lines []JournalEntryLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits.Round(2), credits.Round(2)
}
