package accounting_test

import (
	"testing"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/sahulatfin/microfin_backoffice/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignBalance(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name        string
		raw         decimal.Decimal
		accountType domain.AccountType
		want        decimal.Decimal
	}{
		{"debit-heavy asset stays positive", hundred, domain.Asset, hundred},
		{"credit-heavy asset goes negative", hundred.Neg(), domain.Asset, hundred.Neg()},
		{"debit-heavy expense stays positive", hundred, domain.Expense, hundred},
		{"credit-heavy income flips positive", hundred.Neg(), domain.Income, hundred},
		{"debit-heavy liability flips negative", hundred, domain.Liability, hundred.Neg()},
		{"credit-heavy equity flips positive", hundred.Neg(), domain.Equity, hundred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.SignBalance(tt.raw, tt.accountType)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestValidateEntryBalance(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.JournalEntryLine
		wantErr bool
	}{
		{
			name: "balanced two lines",
			lines: []domain.JournalEntryLine{
				{AccountID: "acc_1", Debit: decimal.NewFromInt(100)},
				{AccountID: "acc_2", Credit: decimal.NewFromInt(100)},
			},
		},
		{
			name: "balanced split debit",
			lines: []domain.JournalEntryLine{
				{AccountID: "acc_1", Debit: decimal.NewFromInt(60)},
				{AccountID: "acc_2", Debit: decimal.NewFromInt(40)},
				{AccountID: "acc_3", Credit: decimal.NewFromInt(100)},
			},
		},
		{
			name: "sub-cent residue rounds away",
			lines: []domain.JournalEntryLine{
				{AccountID: "acc_1", Debit: decimal.RequireFromString("33.333")},
				{AccountID: "acc_2", Debit: decimal.RequireFromString("66.667")},
				{AccountID: "acc_3", Credit: decimal.NewFromInt(100)},
			},
		},
		{
			name: "unbalanced",
			lines: []domain.JournalEntryLine{
				{AccountID: "acc_1", Debit: decimal.NewFromInt(100)},
				{AccountID: "acc_2", Credit: decimal.NewFromInt(99)},
			},
			wantErr: true,
		},
		{
			name: "single line",
			lines: []domain.JournalEntryLine{
				{AccountID: "acc_1", Debit: decimal.NewFromInt(100)},
			},
			wantErr: true,
		},
		{
			name: "line with both sides",
			lines: []domain.JournalEntryLine{
				{AccountID: "acc_1", Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)},
				{AccountID: "acc_2", Credit: decimal.NewFromInt(100)},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateEntryBalance(tt.lines)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalBalance(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		accountType domain.AccountType
		wantDebit   decimal.Decimal
		wantCredit  decimal.Decimal
	}{
		{"positive asset on debit column", decimal.NewFromInt(500), domain.Asset, decimal.NewFromInt(500), decimal.Zero},
		{"positive income on credit column", decimal.NewFromInt(500), domain.Income, decimal.Zero, decimal.NewFromInt(500)},
		{"overdrawn asset flips to credit", decimal.NewFromInt(-200), domain.Asset, decimal.Zero, decimal.NewFromInt(200)},
		{"negative liability flips to debit", decimal.NewFromInt(-200), domain.Liability, decimal.NewFromInt(200), decimal.Zero},
		{"zero balance stays off both columns", decimal.Zero, domain.Equity, decimal.Zero, decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debit, credit := accounting.NormalBalance(tt.balance, tt.accountType)
			assert.True(t, debit.Equal(tt.wantDebit), "debit %s", debit)
			assert.True(t, credit.Equal(tt.wantCredit), "credit %s", credit)
		})
	}
}
