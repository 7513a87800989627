package dto

import (
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmortizationRequest is the input to the loan amortization calculator.
type AmortizationRequest struct {
	Principal    decimal.Decimal     `json:"principal" binding:"required"`
	AnnualRate   decimal.Decimal     `json:"annualRate" binding:"required"`
	TenureMonths int                 `json:"tenureMonths" binding:"required"`
	InterestType domain.InterestType `json:"interestType" binding:"required,oneof=FLAT DIMINISHING"`
	StartDate    time.Time           `json:"startDate" binding:"required" time_format:"2006-01-02"`
}

// AmortizationEntryResponse is one installment row.
type AmortizationEntryResponse struct {
	InstallmentNumber int             `json:"installmentNumber"`
	DueDate           string          `json:"dueDate"`
	Principal         decimal.Decimal `json:"principal"`
	Interest          decimal.Decimal `json:"interest"`
	Amount            decimal.Decimal `json:"amount"`
	Balance           decimal.Decimal `json:"balance"`
}

// AmortizationScheduleResponse is the calculator output.
type AmortizationScheduleResponse struct {
	Principal     decimal.Decimal             `json:"principal"`
	AnnualRate    decimal.Decimal             `json:"annualRate"`
	TenureMonths  int                         `json:"tenureMonths"`
	InterestType  string                      `json:"interestType"`
	EMI           decimal.Decimal             `json:"emi"`
	TotalInterest decimal.Decimal             `json:"totalInterest"`
	TotalPayable  decimal.Decimal             `json:"totalPayable"`
	Entries       []AmortizationEntryResponse `json:"entries"`
}

// ToAmortizationScheduleResponse converts a domain schedule.
func ToAmortizationScheduleResponse(s *domain.AmortizationSchedule) AmortizationScheduleResponse {
	resp := AmortizationScheduleResponse{
		Principal:     s.Principal,
		AnnualRate:    s.AnnualRate,
		TenureMonths:  s.TenureMonths,
		InterestType:  string(s.InterestType),
		EMI:           s.EMI,
		TotalInterest: s.TotalInterest,
		TotalPayable:  s.TotalPayable,
		Entries:       make([]AmortizationEntryResponse, len(s.Entries)),
	}
	for i, e := range s.Entries {
		resp.Entries[i] = AmortizationEntryResponse{
			InstallmentNumber: e.InstallmentNumber,
			DueDate:           e.DueDate.Format("2006-01-02"),
			Principal:         e.Principal,
			Interest:          e.Interest,
			Amount:            e.Amount,
			Balance:           e.Balance,
		}
	}
	return resp
}
