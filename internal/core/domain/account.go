package domain

import "github.com/shopspring/decimal"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// BalanceSide identifies the normal balance side of an account type.
type BalanceSide string

const (
	DebitSide  BalanceSide = "DEBIT"
	CreditSide BalanceSide = "CREDIT"
)

// NormalSide returns the side on which accounts of this type carry their
// normal balance. ASSET and EXPENSE are debit-normal; LIABILITY, EQUITY and
// INCOME are credit-normal.
func (t AccountType) NormalSide() BalanceSide {
	switch t {
	case Asset, Expense:
		return DebitSide
	default:
		return CreditSide
	}
}

// IsValid reports whether the account type is one of the five known types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// Account represents a node in the chart of accounts.
// Code and AccountType are immutable after creation.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary Key (UUID)
	Code            string      `json:"code"`            // Unique, immutable ledger code (e.g. "1100")
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	ParentAccountID string      `json:"parentAccountID"` // Nullable FK -> accounts.account_id (self-referencing)
	Description     string      `json:"description"`     // Nullable user description
	IsActive        bool        `json:"isActive"`        // Inactive accounts reject new postings
	AuditFields
}

// AccountNode is an account together with its children, used by the
// account-structure projection. Balance includes rolled-up child balances.
type AccountNode struct {
	Account
	Balance  decimal.Decimal `json:"balance"`
	Children []*AccountNode  `json:"children"`
}
