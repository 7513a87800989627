package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sahulatfin/microfin_backoffice/internal/apperrors"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
	"github.com/sahulatfin/microfin_backoffice/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	one     = decimal.NewFromInt(1)
)

// loanService computes EMI and amortization schedules. It is pure: nothing
// is persisted, the surrounding loan-servicing workflow records the results
// as journal entries.
type loanService struct{}

// NewLoanService creates a new LoanService.
func NewLoanService() portssvc.LoanService {
	return &loanService{}
}

var _ portssvc.LoanService = (*loanService)(nil)

// CalculateSchedule produces exactly tenureMonths installments with due dates
// one calendar month apart. Rounding residue is absorbed into the final
// installment so the final balance lands exactly on zero.
func (s *loanService) CalculateSchedule(ctx context.Context, req dto.AmortizationRequest) (*domain.AmortizationSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Principal.IsPositive() {
		return nil, fmt.Errorf("%w: principal must be positive", apperrors.ErrValidation)
	}
	if !req.AnnualRate.IsPositive() {
		return nil, fmt.Errorf("%w: annual interest rate must be positive", apperrors.ErrValidation)
	}
	if req.TenureMonths <= 0 {
		return nil, fmt.Errorf("%w: tenure must be a positive number of months", apperrors.ErrValidation)
	}
	if !req.InterestType.IsValid() {
		return nil, fmt.Errorf("%w: unknown interest type %q", apperrors.ErrValidation, req.InterestType)
	}

	var schedule *domain.AmortizationSchedule
	switch req.InterestType {
	case domain.FlatInterest:
		schedule = calculateFlat(req)
	case domain.DiminishingInterest:
		schedule = calculateDiminishing(req)
	}

	logger.Debug("Amortization schedule calculated",
		slog.String("interest_type", string(req.InterestType)),
		slog.Int("tenure_months", req.TenureMonths),
		slog.String("emi", schedule.EMI.String()))
	return schedule, nil
}

// calculateFlat computes interest on the original principal for the full
// tenure and splits principal and interest equally across installments.
func calculateFlat(req dto.AmortizationRequest) *domain.AmortizationSchedule {
	months := decimal.NewFromInt(int64(req.TenureMonths))

	totalInterest := req.Principal.
		Mul(req.AnnualRate.Div(hundred)).
		Mul(months.Div(twelve)).
		Round(2)
	emi := req.Principal.Add(totalInterest).Div(months).Round(2)

	principalPer := req.Principal.Div(months).Round(2)
	interestPer := totalInterest.Div(months).Round(2)

	entries := make([]domain.AmortizationEntry, req.TenureMonths)
	balance := req.Principal
	for i := 0; i < req.TenureMonths; i++ {
		principal := principalPer
		interest := interestPer
		if i == req.TenureMonths-1 {
			// Final installment absorbs rounding residue on both components.
			principal = balance
			interest = totalInterest.Sub(interestPer.Mul(decimal.NewFromInt(int64(i))))
		}
		balance = balance.Sub(principal)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		entries[i] = domain.AmortizationEntry{
			InstallmentNumber: i + 1,
			DueDate:           req.StartDate.AddDate(0, i+1, 0),
			Principal:         principal,
			Interest:          interest,
			Amount:            principal.Add(interest),
			Balance:           balance,
		}
	}

	return &domain.AmortizationSchedule{
		Principal:     req.Principal,
		AnnualRate:    req.AnnualRate,
		TenureMonths:  req.TenureMonths,
		InterestType:  domain.FlatInterest,
		EMI:           emi,
		TotalInterest: totalInterest,
		TotalPayable:  req.Principal.Add(totalInterest),
		Entries:       entries,
	}
}

// calculateDiminishing computes interest on the outstanding principal each
// period: emi = P*r*(1+r)^n / ((1+r)^n - 1) with r the monthly rate.
func calculateDiminishing(req dto.AmortizationRequest) *domain.AmortizationSchedule {
	monthlyRate := req.AnnualRate.Div(twelve).Div(hundred)
	factor := one.Add(monthlyRate).Pow(decimal.NewFromInt(int64(req.TenureMonths)))
	emi := req.Principal.Mul(monthlyRate).Mul(factor).
		Div(factor.Sub(one)).
		Round(2)

	entries := make([]domain.AmortizationEntry, req.TenureMonths)
	balance := req.Principal
	totalInterest := decimal.Zero
	for i := 0; i < req.TenureMonths; i++ {
		interest := balance.Mul(monthlyRate).Round(2)
		principal := emi.Sub(interest)
		if i == req.TenureMonths-1 || principal.GreaterThan(balance) {
			// Final installment clears whatever principal remains.
			principal = balance
		}
		balance = balance.Sub(principal)
		totalInterest = totalInterest.Add(interest)
		entries[i] = domain.AmortizationEntry{
			InstallmentNumber: i + 1,
			DueDate:           req.StartDate.AddDate(0, i+1, 0),
			Principal:         principal,
			Interest:          interest,
			Amount:            principal.Add(interest),
			Balance:           balance,
		}
	}

	return &domain.AmortizationSchedule{
		Principal:     req.Principal,
		AnnualRate:    req.AnnualRate,
		TenureMonths:  req.TenureMonths,
		InterestType:  domain.DiminishingInterest,
		EMI:           emi,
		TotalInterest: totalInterest,
		TotalPayable:  req.Principal.Add(totalInterest),
		Entries:       entries,
	}
}
