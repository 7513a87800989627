package services

import (
	"context"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
)

// LoanService defines the loan amortization calculator. It is a pure
// computation with no persistent state; the resulting numbers are recorded as
// journal entries by the surrounding loan-servicing workflow.
type LoanService interface {
	CalculateSchedule(ctx context.Context, req dto.AmortizationRequest) (*domain.AmortizationSchedule, error)
}
