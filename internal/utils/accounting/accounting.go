package accounting

import (
	"fmt"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignBalance expresses a raw debit-minus-credit sum on the account's normal
// balance side. Together with NormalBalance this is the one place the
// accounting sign convention lives; repositories use it rather than flipping
// signs inline.
//
// ASSET/EXPENSE (debit-normal): raw sum unchanged
// LIABILITY/EQUITY/INCOME (credit-normal): raw sum negated
func SignBalance(raw decimal.Decimal, accountType domain.AccountType) decimal.Decimal {
	if accountType.NormalSide() == domain.CreditSide {
		return raw.Neg()
	}
	return raw
}

// ValidateEntryBalance checks the double-entry invariant over a set of lines:
// at least two lines, each line one-sided and positive, and debit and credit
// totals equal after rounding to 2 decimal places.
func ValidateEntryBalance(lines []domain.JournalEntryLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least two lines")
	}

	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}

	debits, credits := domain.Totals(lines)
	if !debits.Equal(credits) {
		return fmt.Errorf("entry does not balance: debits %s, credits %s", debits.String(), credits.String())
	}
	return nil
}

// NormalBalance expresses a signed balance on the account's normal side for
// trial-balance style reporting: positive balances land on the normal column,
// negative balances flip to the opposite column.
func NormalBalance(balance decimal.Decimal, accountType domain.AccountType) (debit, credit decimal.Decimal) {
	debit = decimal.Zero
	credit = decimal.Zero
	if balance.IsZero() {
		return debit, credit
	}
	side := accountType.NormalSide()
	if balance.IsNegative() {
		balance = balance.Neg()
		if side == domain.DebitSide {
			side = domain.CreditSide
		} else {
			side = domain.DebitSide
		}
	}
	if side == domain.DebitSide {
		debit = balance
	} else {
		credit = balance
	}
	return debit, credit
}
