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
)

// PgxJournalRepository persists journal entries and their lines.
type PgxJournalRepository struct {
	BaseRepository
}

// NewJournalRepository creates a new repository for journal data.
func NewJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, entry_number, entry_date, narration, reference, status, approved_by, reversal_of_entry_id, reversed_by_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	var approvedBy sql.NullString
	var reversalOf, reversedBy sql.NullString
	err := row.Scan(
		&e.EntryID,
		&e.EntryNumber,
		&e.EntryDate,
		&e.Narration,
		&e.Reference,
		&e.Status,
		&approvedBy,
		&reversalOf,
		&reversedBy,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	e.ApprovedBy = approvedBy.String
	if reversalOf.Valid {
		e.ReversalOfEntryID = &reversalOf.String
	}
	if reversedBy.Valid {
		e.ReversedByEntryID = &reversedBy.String
	}
	return &e, nil
}

// insertEntryTx writes the entry header and all of its lines inside tx,
// assigning the entry number from the sequence.
func (r *PgxJournalRepository) insertEntryTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry) error {
	if err := tx.QueryRow(ctx, `SELECT nextval('journal_entry_number_seq');`).Scan(&entry.EntryNumber); err != nil {
		return fmt.Errorf("failed to assign entry number: %w", err)
	}

	insertEntry := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, insertEntry,
		entry.EntryID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Narration,
		entry.Reference,
		entry.Status,
		nullableID(entry.ApprovedBy),
		entry.ReversalOfEntryID,
		entry.ReversedByEntryID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", entry.EntryID, mapPgError(err))
	}

	batch := &pgx.Batch{}
	insertLine := `
		INSERT INTO journal_entry_lines (line_id, entry_id, account_id, debit, credit, description)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range entry.Lines {
		batch.Queue(insertLine, line.LineID, entry.EntryID, line.AccountID, line.Debit, line.Credit, line.Description)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range entry.Lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert entry lines for %s: %w", entry.EntryID, mapPgError(err))
		}
	}
	return results.Close()
}

// SaveEntry inserts the entry and its lines atomically, assigning EntryNumber
// inside the same transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntryTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry and its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	lines, err := r.findLines(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

func (r *PgxJournalRepository) findLines(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit, credit, description
		FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []domain.JournalEntryLine
	for rows.Next() {
		var l domain.JournalEntryLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.Debit, &l.Credit, &l.Description); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListEntries returns entries ordered by entry number descending, lines
// included, using a single query for all lines in the page.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, statusFilter *domain.EntryStatus, limit, offset int) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	args := []any{}
	if statusFilter != nil {
		args = append(args, *statusFilter)
		query += " WHERE status = $1"
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY entry_number DESC LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	index := make(map[string]int)
	var ids []string
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		index[entry.EntryID] = len(entries)
		ids = append(ids, entry.EntryID)
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	lineQuery := `
		SELECT line_id, entry_id, account_id, debit, credit, description
		FROM journal_entry_lines WHERE entry_id = ANY($1) ORDER BY line_id;
	`
	lineRows, err := r.Pool.Query(ctx, lineQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var l domain.JournalEntryLine
		if err := lineRows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.Debit, &l.Credit, &l.Description); err != nil {
			return nil, err
		}
		if i, ok := index[l.EntryID]; ok {
			entries[i].Lines = append(entries[i].Lines, l)
		}
	}
	return entries, lineRows.Err()
}

// MarkPosted flips a DRAFT entry to POSTED. The WHERE clause re-checks the
// status so a concurrent post loses cleanly instead of double-posting.
func (r *PgxJournalRepository) MarkPosted(ctx context.Context, entryID, approvedBy string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, approved_by = $3, last_updated_at = $4, last_updated_by = $3
		WHERE entry_id = $1 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, domain.Posted, approvedBy, at, domain.Draft)
	if err != nil {
		return fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyGuardMiss(ctx, entryID)
	}
	return nil
}

// SaveReversal inserts the mirror entry and flips the original from POSTED to
// REVERSED in one transaction, linking the two entries both ways.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversal *domain.JournalEntry, originalEntryID string, updatedBy string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntryTx(ctx, tx, reversal); err != nil {
		return err
	}

	flip := `
		UPDATE journal_entries
		SET status = $2, reversed_by_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = $6;
	`
	tag, err := tx.Exec(ctx, flip, originalEntryID, domain.Reversed, reversal.EntryID, at, updatedBy, domain.Posted)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s reversed: %w", originalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		// Someone else reversed it first, or it was never posted. The
		// transaction rolls back, discarding the mirror entry.
		return r.classifyGuardMiss(ctx, originalEntryID)
	}
	return r.Commit(ctx, tx)
}

// DeleteEntry removes a DRAFT entry and its lines. Lines go first to satisfy
// the foreign key.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines of entry %s: %w", entryID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = $2;`, entryID, domain.Draft)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyGuardMiss(ctx, entryID)
	}
	return r.Commit(ctx, tx)
}

// classifyGuardMiss distinguishes a missing entry from one in the wrong
// status after a guarded update touched zero rows.
func (r *PgxJournalRepository) classifyGuardMiss(ctx context.Context, entryID string) error {
	var status domain.EntryStatus
	err := r.Pool.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1;`, entryID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	if err != nil {
		return fmt.Errorf("failed to load entry %s status: %w", entryID, err)
	}
	return fmt.Errorf("%w: journal entry %s is %s", apperrors.ErrInvalidState, entryID, status)
}
