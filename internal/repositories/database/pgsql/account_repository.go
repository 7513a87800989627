package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahulatfin/microfin_backoffice/internal/apperrors"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portsrepo "github.com/sahulatfin/microfin_backoffice/internal/core/ports/repositories"
	"github.com/sahulatfin/microfin_backoffice/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// PgxAccountRepository persists the chart of accounts.
type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, code, name, account_type, parent_account_id, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

// scanAccount reads one account row; parent_account_id is nullable.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	var parentID sql.NullString
	err := row.Scan(
		&acc.AccountID,
		&acc.Code,
		&acc.Name,
		&acc.AccountType,
		&parentID,
		&acc.Description,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if parentID.Valid {
		acc.ParentAccountID = parentID.String
	}
	return &acc, nil
}

// nullableID converts an empty string into a NULL parameter.
func nullableID(id string) sql.NullString {
	if id == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: id, Valid: true}
}

// SaveAccount inserts a new account. A duplicate code maps to ErrConflict.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Code,
		account.Name,
		account.AccountType,
		nullableID(account.ParentAccountID),
		account.Description,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, mapPgError(err))
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return acc, nil
}

// FindAccountByCode retrieves an account by its unique ledger code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return acc, nil
}

// ListAccounts returns accounts matching the optional filters, ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, typeFilter *domain.AccountType, activeFilter *bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []any{}
	if typeFilter != nil {
		args = append(args, *typeFilter)
		query += fmt.Sprintf(" AND account_type = $%d", len(args))
	}
	if activeFilter != nil {
		args = append(args, *activeFilter)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	query += " ORDER BY code;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

// UpdateAccount persists the mutable account fields.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, description = $3, parent_account_id = $4, is_active = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.Description,
		nullableID(account.ParentAccountID),
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	return nil
}

// DeleteAccount removes an account row. Foreign-key violations (children or
// entry lines that slipped past the service checks) map to ErrConflict.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// FindAncestorIDs walks the parent chain upward with a recursive CTE. The
// depth cap bounds the walk even if a cycle ever reached the table.
func (r *PgxAccountRepository) FindAncestorIDs(ctx context.Context, accountID string) ([]string, error) {
	query := `
		WITH RECURSIVE ancestors AS (
			SELECT parent_account_id, 1 AS depth
			FROM accounts WHERE account_id = $1
			UNION ALL
			SELECT a.parent_account_id, anc.depth + 1
			FROM accounts a
			JOIN ancestors anc ON a.account_id = anc.parent_account_id
			WHERE anc.parent_account_id IS NOT NULL AND anc.depth < 64
		)
		SELECT parent_account_id FROM ancestors WHERE parent_account_id IS NOT NULL ORDER BY depth;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to walk ancestors of %s: %w", accountID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// HasChildren reports whether any account names this one as parent.
func (r *PgxAccountRepository) HasChildren(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE parent_account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check children of %s: %w", accountID, err)
	}
	return exists, nil
}

// HasEntryLines reports whether any journal entry line references the account.
func (r *PgxAccountRepository) HasEntryLines(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM journal_entry_lines WHERE account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check entry references of %s: %w", accountID, err)
	}
	return exists, nil
}

// CalculateBalance computes the rolled-up balance of the account and all of
// its descendants from POSTED entries dated on or before asOf, signed per the
// root account's normal balance side. Reversal mirrors are excluded: their
// originals are REVERSED, so skipping both sides nets a reversed pair to zero.
func (r *PgxAccountRepository) CalculateBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	root, err := r.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	query := `
		WITH RECURSIVE subtree AS (
			SELECT account_id FROM accounts WHERE account_id = $1
			UNION ALL
			SELECT a.account_id
			FROM accounts a
			JOIN subtree s ON a.parent_account_id = s.account_id
		)
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id IN (SELECT account_id FROM subtree)
		  AND e.status = 'POSTED'
		  AND e.reversal_of_entry_id IS NULL
		  AND e.entry_date <= $2;
	`
	var debits, credits decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, asOf).Scan(&debits, &credits); err != nil {
		return decimal.Zero, fmt.Errorf("failed to calculate balance of %s: %w", accountID, err)
	}

	return accounting.SignBalance(debits.Sub(credits), root.AccountType), nil
}

// CalculateOwnBalances computes each account's own-posting balance (no
// roll-up), signed per that account's normal side, keyed by account ID.
func (r *PgxAccountRepository) CalculateOwnBalances(ctx context.Context, asOf time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT a.account_id, a.account_type,
		       COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM accounts a
		LEFT JOIN journal_entry_lines l ON l.account_id = a.account_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id
		    AND e.status = 'POSTED' AND e.reversal_of_entry_id IS NULL
		    AND e.entry_date <= $1
		WHERE l.line_id IS NULL OR e.entry_id IS NOT NULL
		GROUP BY a.account_id, a.account_type;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate account balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var accType domain.AccountType
		var debits, credits decimal.Decimal
		if err := rows.Scan(&id, &accType, &debits, &credits); err != nil {
			return nil, err
		}
		balances[id] = accounting.SignBalance(debits.Sub(credits), accType)
	}
	return balances, rows.Err()
}
