package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

const journalColumns = `
	id, operation_date, movement_type_id, client_id,
	in_currency_id, in_amount, out_currency_id, out_amount,
	rate, note, affects_stock, status, reversed_at, created_at`

// Create persists a journal entry inside the engine transaction.
func (r *JournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	var (
		inCurrency, outCurrency *string
		inAmount, outAmount     pgtype.Numeric
		rate                    pgtype.Numeric
	)

	if entry.In != nil {
		inCurrency = &entry.In.CurrencyID
		inAmount = decimalToNumeric(entry.In.Amount)
	}

	if entry.Out != nil {
		outCurrency = &entry.Out.CurrencyID
		outAmount = decimalToNumeric(entry.Out.Amount)
	}

	if entry.Rate != nil {
		rate = decimalToNumeric(*entry.Rate)
	}

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO journal_entries
			(id, operation_date, movement_type_id, client_id,
			 in_currency_id, in_amount, out_currency_id, out_amount,
			 rate, note, affects_stock, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		entry.ID,
		timeToPgDate(entry.OperationDate),
		entry.MovementTypeID,
		entry.ClientID,
		inCurrency, inAmount,
		outCurrency, outAmount,
		rate,
		entry.Note,
		entry.AffectsStock,
		string(entry.Status),
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// GetByID retrieves a journal entry by ID.
func (r *JournalRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+journalColumns+` FROM journal_entries WHERE id = $1`, id)

	entry, err := scanJournalEntry(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return entry, nil
}

// GetByIDForUpdate retrieves a journal entry with a FOR UPDATE lock.
func (r *JournalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalEntry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `SELECT `+journalColumns+` FROM journal_entries WHERE id = $1 FOR UPDATE`, id)

	entry, err := scanJournalEntry(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return entry, nil
}

// ListByDateRange lists entries by operation-date range, newest first.
func (r *JournalRepository) ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*domain.JournalEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+journalColumns+`
		FROM journal_entries
		WHERE operation_date BETWEEN $1 AND $2
		ORDER BY operation_date DESC, created_at DESC
		LIMIT $3 OFFSET $4`,
		timeToPgDate(from), timeToPgDate(to), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// MarkReversed flips an active entry to reversed.
func (r *JournalRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2, reversed_at = $3
		WHERE id = $1 AND status = $4`,
		id, string(domain.EntryStatusReversed), timeToPgTimestamptz(at), string(domain.EntryStatusActive))

	return err
}

// UpdateDetails edits the only fields mutable without a reversal.
func (r *JournalRepository) UpdateDetails(ctx context.Context, id string, note string, clientID *string, operationDate time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE journal_entries
		SET note = $2, client_id = $3, operation_date = $4
		WHERE id = $1 AND status = $5`,
		id, note, clientID, timeToPgDate(operationDate), string(domain.EntryStatusActive))

	return err
}

func scanJournalEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var (
		e                       domain.JournalEntry
		operationDate           pgtype.Date
		inCurrency, outCurrency *string
		inAmount, outAmount     pgtype.Numeric
		rate                    pgtype.Numeric
		status                  string
		reversedAt              pgtype.Timestamptz
		createdAt               pgtype.Timestamptz
	)

	err := row.Scan(&e.ID, &operationDate, &e.MovementTypeID, &e.ClientID,
		&inCurrency, &inAmount, &outCurrency, &outAmount,
		&rate, &e.Note, &e.AffectsStock, &status, &reversedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	e.OperationDate = operationDate.Time
	e.Status = domain.EntryStatus(status)
	e.ReversedAt = timePtr(reversedAt)
	e.CreatedAt = createdAt.Time

	if inCurrency != nil {
		e.In = &domain.Leg{CurrencyID: *inCurrency, Amount: numericToDecimal(inAmount)}
	}

	if outCurrency != nil {
		e.Out = &domain.Leg{CurrencyID: *outCurrency, Amount: numericToDecimal(outAmount)}
	}

	if rate.Valid {
		d := numericToDecimal(rate)
		e.Rate = &d
	}

	return &e, nil
}
