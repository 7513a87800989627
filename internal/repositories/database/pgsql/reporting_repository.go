package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portsrepo "github.com/sahulatfin/microfin_backoffice/internal/core/ports/repositories"
	"github.com/sahulatfin/microfin_backoffice/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// PgxReportingRepository serves the read-side aggregation queries behind the
// financial reports. Only POSTED entries that are not reversal mirrors
// contribute to any figure: a reversed pair (REVERSED original, POSTED
// mirror) nets to zero by being excluded on both sides.
type PgxReportingRepository struct {
	BaseRepository
}

// NewReportingRepository creates a new repository for report data.
func NewReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTrialBalanceData returns each account's raw debit/credit sums placed on
// the account's normal side, skipping accounts with no activity.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM accounts a
		JOIN journal_entry_lines l ON l.account_id = a.account_id
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.status = 'POSTED' AND e.reversal_of_entry_id IS NULL AND e.entry_date <= $1
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance data: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var debits, credits decimal.Decimal
		if err := rows.Scan(&row.AccountID, &row.Code, &row.AccountName, &row.AccountType, &debits, &credits); err != nil {
			return nil, err
		}
		balance := accounting.SignBalance(debits.Sub(credits), row.AccountType)
		row.Debit, row.Credit = accounting.NormalBalance(balance, row.AccountType)
		result = append(result, row)
	}
	return result, rows.Err()
}

// GetBalancesByType returns signed balances for accounts of the given types
// over [from, to], skipping zero-activity accounts.
func (r *PgxReportingRepository) GetBalancesByType(ctx context.Context, types []domain.AccountType, from *time.Time, to time.Time) ([]domain.AccountBalance, error) {
	typeStrings := make([]string, len(types))
	for i, t := range types {
		typeStrings[i] = string(t)
	}

	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM accounts a
		JOIN journal_entry_lines l ON l.account_id = a.account_id
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE a.account_type = ANY($1)
		  AND e.status = 'POSTED'
		  AND e.reversal_of_entry_id IS NULL
		  AND e.entry_date <= $2
	`
	args := []any{typeStrings, to}
	if from != nil {
		args = append(args, *from)
		query += " AND e.entry_date >= $3"
	}
	query += `
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances by type: %w", err)
	}
	defer rows.Close()

	var balances []domain.AccountBalance
	for rows.Next() {
		var b domain.AccountBalance
		var debits, credits decimal.Decimal
		if err := rows.Scan(&b.AccountID, &b.Code, &b.Name, &b.AccountType, &debits, &credits); err != nil {
			return nil, err
		}
		b.Balance = accounting.SignBalance(debits.Sub(credits), b.AccountType)
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// GetGeneralLedgerData returns the opening balance accumulated before the
// period and the chronological posted lines within it. The running balance is
// computed in order here rather than in SQL so it matches the returned sort
// exactly.
func (r *PgxReportingRepository) GetGeneralLedgerData(ctx context.Context, accountID string, from, to time.Time) (decimal.Decimal, []domain.GeneralLedgerLine, error) {
	openingQuery := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.status = 'POSTED' AND e.reversal_of_entry_id IS NULL AND e.entry_date < $1
	`
	openingArgs := []any{from}
	if accountID != "" {
		openingArgs = append(openingArgs, accountID)
		openingQuery += " AND l.account_id = $2"
	}
	var openDebits, openCredits decimal.Decimal
	if err := r.Pool.QueryRow(ctx, openingQuery+";", openingArgs...).Scan(&openDebits, &openCredits); err != nil {
		return decimal.Zero, nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}
	opening := openDebits.Sub(openCredits)

	linesQuery := `
		SELECT e.entry_id, e.entry_number, e.entry_date, e.narration,
		       l.account_id, a.name, l.debit, l.credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.status = 'POSTED' AND e.reversal_of_entry_id IS NULL
		  AND e.entry_date >= $1 AND e.entry_date <= $2
	`
	lineArgs := []any{from, to}
	if accountID != "" {
		lineArgs = append(lineArgs, accountID)
		linesQuery += " AND l.account_id = $3"
	}
	linesQuery += " ORDER BY e.entry_date, e.entry_number, l.line_id;"

	rows, err := r.Pool.Query(ctx, linesQuery, lineArgs...)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("failed to query ledger lines: %w", err)
	}
	defer rows.Close()

	running := opening
	var lines []domain.GeneralLedgerLine
	for rows.Next() {
		var line domain.GeneralLedgerLine
		err := rows.Scan(
			&line.EntryID,
			&line.EntryNumber,
			&line.EntryDate,
			&line.Narration,
			&line.AccountID,
			&line.AccountName,
			&line.Debit,
			&line.Credit,
		)
		if err != nil {
			return decimal.Zero, nil, err
		}
		running = running.Add(line.Debit).Sub(line.Credit)
		line.RunningBalance = running
		lines = append(lines, line)
	}
	return opening, lines, rows.Err()
}
