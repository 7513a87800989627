package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/apperrors"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/core/services"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LoanServiceTestSuite struct {
	suite.Suite
	service portssvc.LoanService
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.service = services.NewLoanService()
}

func (suite *LoanServiceTestSuite) request(interestType domain.InterestType) dto.AmortizationRequest {
	return dto.AmortizationRequest{
		Principal:    decimal.NewFromInt(100000),
		AnnualRate:   decimal.NewFromInt(12),
		TenureMonths: 12,
		InterestType: interestType,
		StartDate:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *LoanServiceTestSuite) TestFlat_StandardLoan() {
	schedule, err := suite.service.CalculateSchedule(context.Background(), suite.request(domain.FlatInterest))

	suite.Require().NoError(err)
	suite.True(schedule.TotalInterest.Equal(decimal.NewFromInt(12000)), "total interest %s", schedule.TotalInterest)
	suite.True(schedule.EMI.Equal(decimal.RequireFromString("9333.33")), "emi %s", schedule.EMI)
	suite.True(schedule.TotalPayable.Equal(decimal.NewFromInt(112000)))
	suite.Require().Len(schedule.Entries, 12)

	// Equal interest each month, principal residue absorbed at the end.
	suite.True(schedule.Entries[0].Interest.Equal(decimal.NewFromInt(1000)))
	suite.True(schedule.Entries[0].Principal.Equal(decimal.RequireFromString("8333.33")))
	final := schedule.Entries[11]
	suite.True(final.Balance.IsZero(), "final balance %s", final.Balance)
	suite.True(final.Principal.Equal(decimal.RequireFromString("8333.37")), "final principal %s", final.Principal)

	// Installment principals sum back to the original principal.
	paid := decimal.Zero
	for _, e := range schedule.Entries {
		paid = paid.Add(e.Principal)
	}
	suite.True(paid.Equal(schedule.Principal))
}

func (suite *LoanServiceTestSuite) TestDiminishing_StandardLoan() {
	schedule, err := suite.service.CalculateSchedule(context.Background(), suite.request(domain.DiminishingInterest))

	suite.Require().NoError(err)
	suite.True(schedule.EMI.Equal(decimal.RequireFromString("8884.88")), "emi %s", schedule.EMI)
	suite.Require().Len(schedule.Entries, 12)

	// First month's interest is on the full principal at 1% monthly.
	suite.True(schedule.Entries[0].Interest.Equal(decimal.NewFromInt(1000)))
	suite.True(schedule.Entries[11].Balance.IsZero(), "final balance %s", schedule.Entries[11].Balance)
	suite.True(schedule.TotalPayable.Equal(schedule.Principal.Add(schedule.TotalInterest)))

	// Outstanding balance strictly decreases.
	prev := schedule.Principal
	for _, e := range schedule.Entries {
		suite.True(e.Balance.LessThan(prev), "balance %s not below %s", e.Balance, prev)
		prev = e.Balance
	}
}

func (suite *LoanServiceTestSuite) TestSchedule_DueDatesOneMonthApart() {
	schedule, err := suite.service.CalculateSchedule(context.Background(), suite.request(domain.FlatInterest))

	suite.Require().NoError(err)
	for i, e := range schedule.Entries {
		suite.Equal(i+1, e.InstallmentNumber)
		suite.Equal(time.Date(2025, time.Month(2+i), 15, 0, 0, 0, 0, time.UTC), e.DueDate)
	}
}

func (suite *LoanServiceTestSuite) TestValidation() {
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*dto.AmortizationRequest)
	}{
		{"zero principal", func(r *dto.AmortizationRequest) { r.Principal = decimal.Zero }},
		{"negative rate", func(r *dto.AmortizationRequest) { r.AnnualRate = decimal.NewFromInt(-1) }},
		{"zero tenure", func(r *dto.AmortizationRequest) { r.TenureMonths = 0 }},
		{"unknown interest type", func(r *dto.AmortizationRequest) { r.InterestType = "COMPOUND" }},
	}
	for _, tc := range cases {
		req := suite.request(domain.FlatInterest)
		tc.mutate(&req)
		_, err := suite.service.CalculateSchedule(ctx, req)
		suite.Require().Error(err, tc.name)
		suite.ErrorIs(err, apperrors.ErrValidation, tc.name)
	}
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
