package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestType selects the amortization model for a loan.
type InterestType string

const (
	// FlatInterest computes interest on the original principal for the full
	// tenure, split equally across installments.
	FlatInterest InterestType = "FLAT"
	// DiminishingInterest computes interest on the outstanding principal each
	// period (reducing balance).
	DiminishingInterest InterestType = "DIMINISHING"
)

// IsValid reports whether the interest type is recognised.
func (t InterestType) IsValid() bool {
	return t == FlatInterest || t == DiminishingInterest
}

// AmortizationEntry is one installment of a repayment schedule. It is a
// transient calculation result, never persisted by this core.
type AmortizationEntry struct {
	InstallmentNumber int             `json:"installmentNumber"`
	DueDate           time.Time       `json:"dueDate"`
	Principal         decimal.Decimal `json:"principal"`
	Interest          decimal.Decimal `json:"interest"`
	Amount            decimal.Decimal `json:"amount"`  // principal + interest
	Balance           decimal.Decimal `json:"balance"` // remaining principal after this installment
}

// AmortizationSchedule is the full calculator output.
type AmortizationSchedule struct {
	Principal     decimal.Decimal     `json:"principal"`
	AnnualRate    decimal.Decimal     `json:"annualRate"`
	TenureMonths  int                 `json:"tenureMonths"`
	InterestType  InterestType        `json:"interestType"`
	EMI           decimal.Decimal     `json:"emi"`
	TotalInterest decimal.Decimal     `json:"totalInterest"`
	TotalPayable  decimal.Decimal     `json:"totalPayable"`
	Entries       []AmortizationEntry `json:"entries"`
}
