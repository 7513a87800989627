package domain_test

import (
	"testing"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDayBookStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.DayBookStatus
		to   domain.DayBookStatus
		want bool
	}{
		{"open to reconciled", domain.DayBookOpen, domain.DayBookReconciled, true},
		{"reconciled to closed", domain.DayBookReconciled, domain.DayBookClosed, true},
		{"open to closed skips reconciliation", domain.DayBookOpen, domain.DayBookClosed, false},
		{"reconciled back to open", domain.DayBookReconciled, domain.DayBookOpen, false},
		{"closed is terminal", domain.DayBookClosed, domain.DayBookOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDayBookTransactionType_CashSign(t *testing.T) {
	inflows := []domain.DayBookTransactionType{
		domain.CashReceipt, domain.BankWithdrawal, domain.LoanPayment,
		domain.InterestReceived, domain.FeeReceived,
	}
	outflows := []domain.DayBookTransactionType{
		domain.CashPayment, domain.BankDeposit, domain.LoanDisbursement,
		domain.InterestPaid, domain.FeePaid,
	}

	for _, tt := range inflows {
		assert.Equal(t, 1, tt.CashSign(), string(tt))
	}
	for _, tt := range outflows {
		assert.Equal(t, -1, tt.CashSign(), string(tt))
	}
}

func TestDayBookTransaction_SignedAmount(t *testing.T) {
	receipt := domain.DayBookTransaction{TransactionType: domain.CashReceipt, Amount: decimal.NewFromInt(120)}
	assert.True(t, receipt.SignedAmount().Equal(decimal.NewFromInt(120)))

	deposit := domain.DayBookTransaction{TransactionType: domain.BankDeposit, Amount: decimal.NewFromInt(120)}
	assert.True(t, deposit.SignedAmount().Equal(decimal.NewFromInt(-120)))
}

func TestDayBookTransactionType_IsValid(t *testing.T) {
	assert.True(t, domain.LoanDisbursement.IsValid())
	assert.False(t, domain.DayBookTransactionType("WIRE_TRANSFER").IsValid())
}
