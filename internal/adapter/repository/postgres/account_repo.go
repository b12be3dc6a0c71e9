package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository. Every mutating
// method requires the engine's open transaction; nothing else in the
// process can write running-account state.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// LockBalance creates the zero row if absent and locks it until the
// surrounding transaction ends.
func (r *AccountRepository) LockBalance(ctx context.Context, tx usecase.Transaction, clientID, currencyID string) (*domain.ClientAccount, error) {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO client_accounts (client_id, currency_id, balance, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (client_id, currency_id) DO NOTHING`, clientID, currencyID)
	if err != nil {
		return nil, err
	}

	var (
		balance   pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err = pgxTx.QueryRow(ctx, `
		SELECT balance, updated_at
		FROM client_accounts
		WHERE client_id = $1 AND currency_id = $2
		FOR UPDATE`, clientID, currencyID).Scan(&balance, &updatedAt)
	if err != nil {
		return nil, err
	}

	return &domain.ClientAccount{
		ClientID:   clientID,
		CurrencyID: currencyID,
		Balance:    numericToDecimal(balance),
		UpdatedAt:  updatedAt.Time,
	}, nil
}

// AddToBalance adjusts the balance arithmetically and returns the new
// balance.
func (r *AccountRepository) AddToBalance(ctx context.Context, tx usecase.Transaction, clientID, currencyID string, delta decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var balance pgtype.Numeric

	err := pgxTx.QueryRow(ctx, `
		INSERT INTO client_accounts (client_id, currency_id, balance, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (client_id, currency_id)
		DO UPDATE SET balance = client_accounts.balance + EXCLUDED.balance,
		              updated_at = EXCLUDED.updated_at
		RETURNING balance`,
		clientID, currencyID, decimalToNumeric(delta), timeToPgTimestamptz(at)).Scan(&balance)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// CreateMovement appends one movement-log row.
func (r *AccountRepository) CreateMovement(ctx context.Context, tx usecase.Transaction, movement *domain.ClientAccountMovement) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO client_account_movements
			(id, movement_date, client_id, currency_id, in_amount, out_amount,
			 note, journal_entry_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		movement.ID,
		timeToPgDate(movement.MovementDate),
		movement.ClientID,
		movement.CurrencyID,
		decimalToNumeric(movement.InAmount),
		decimalToNumeric(movement.OutAmount),
		movement.Note,
		movement.JournalEntryID,
		string(movement.Status),
		timeToPgTimestamptz(movement.CreatedAt),
	)

	return err
}

// GetMovementByEntry locates the movement produced by a journal entry, nil
// when the entry produced none.
func (r *AccountRepository) GetMovementByEntry(ctx context.Context, tx usecase.Transaction, journalEntryID string) (*domain.ClientAccountMovement, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT id, movement_date, client_id, currency_id, in_amount, out_amount,
		       note, journal_entry_id, status, reversed_at, created_at
		FROM client_account_movements
		WHERE journal_entry_id = $1`, journalEntryID)

	movement, err := scanMovement(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}

		return nil, err
	}

	return movement, nil
}

// MarkMovementReversed soft-deletes a movement row.
func (r *AccountRepository) MarkMovementReversed(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE client_account_movements
		SET status = $2, reversed_at = $3
		WHERE id = $1 AND status = $4`,
		id, string(domain.EntryStatusReversed), timeToPgTimestamptz(at), string(domain.EntryStatusActive))

	return err
}

// GetBalance returns the running balance, zero when no row exists.
func (r *AccountRepository) GetBalance(ctx context.Context, clientID, currencyID string) (*domain.ClientAccount, error) {
	var (
		balance   pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT balance, updated_at
		FROM client_accounts
		WHERE client_id = $1 AND currency_id = $2`, clientID, currencyID).Scan(&balance, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return &domain.ClientAccount{ClientID: clientID, CurrencyID: currencyID, Balance: decimal.Zero}, nil
		}

		return nil, err
	}

	return &domain.ClientAccount{
		ClientID:   clientID,
		CurrencyID: currencyID,
		Balance:    numericToDecimal(balance),
		UpdatedAt:  updatedAt.Time,
	}, nil
}

// ListBalances lists every currency balance of a client.
func (r *AccountRepository) ListBalances(ctx context.Context, clientID string) ([]*domain.ClientAccount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT currency_id, balance, updated_at
		FROM client_accounts
		WHERE client_id = $1
		ORDER BY currency_id`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.ClientAccount
	for rows.Next() {
		var (
			currencyID string
			balance    pgtype.Numeric
			updatedAt  pgtype.Timestamptz
		)

		if err := rows.Scan(&currencyID, &balance, &updatedAt); err != nil {
			return nil, err
		}

		accounts = append(accounts, &domain.ClientAccount{
			ClientID:   clientID,
			CurrencyID: currencyID,
			Balance:    numericToDecimal(balance),
			UpdatedAt:  updatedAt.Time,
		})
	}

	return accounts, rows.Err()
}

// ListMovements lists the movement log of a client, newest first.
func (r *AccountRepository) ListMovements(ctx context.Context, clientID string, limit, offset int) ([]*domain.ClientAccountMovement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, movement_date, client_id, currency_id, in_amount, out_amount,
		       note, journal_entry_id, status, reversed_at, created_at
		FROM client_account_movements
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*domain.ClientAccountMovement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}

	return movements, rows.Err()
}

func scanMovement(row pgx.Row) (*domain.ClientAccountMovement, error) {
	var (
		m            domain.ClientAccountMovement
		movementDate pgtype.Date
		inAmount     pgtype.Numeric
		outAmount    pgtype.Numeric
		status       string
		reversedAt   pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(&m.ID, &movementDate, &m.ClientID, &m.CurrencyID, &inAmount, &outAmount,
		&m.Note, &m.JournalEntryID, &status, &reversedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	m.MovementDate = movementDate.Time
	m.InAmount = numericToDecimal(inAmount)
	m.OutAmount = numericToDecimal(outAmount)
	m.Status = domain.EntryStatus(status)
	m.ReversedAt = timePtr(reversedAt)
	m.CreatedAt = createdAt.Time

	return &m, nil
}
