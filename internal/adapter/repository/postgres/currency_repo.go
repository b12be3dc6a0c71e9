package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openfx/backoffice/internal/domain"
)

// CurrencyRepository implements usecase.CurrencyRepository.
type CurrencyRepository struct {
	pool *pgxpool.Pool
}

// NewCurrencyRepository creates a new CurrencyRepository.
func NewCurrencyRepository(pool *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{pool: pool}
}

const currencyColumns = `id, code, name, symbol, is_base, active, created_at, updated_at, deleted_at`

// Create persists a new currency.
func (r *CurrencyRepository) Create(ctx context.Context, currency *domain.Currency) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO currencies (id, code, name, symbol, is_base, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		currency.ID, currency.Code, currency.Name, currency.Symbol,
		currency.IsBase, currency.Active,
		timeToPgTimestamptz(currency.CreatedAt), timeToPgTimestamptz(currency.UpdatedAt))

	return err
}

// GetByID retrieves a currency by ID. Soft-deleted rows are not visible.
func (r *CurrencyRepository) GetByID(ctx context.Context, id string) (*domain.Currency, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+currencyColumns+` FROM currencies WHERE id = $1 AND deleted_at IS NULL`, id)

	currency, err := scanCurrency(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCurrencyNotFound
		}

		return nil, err
	}

	return currency, nil
}

// GetBase returns the single base currency.
func (r *CurrencyRepository) GetBase(ctx context.Context) (*domain.Currency, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+currencyColumns+` FROM currencies WHERE is_base AND deleted_at IS NULL`)

	currency, err := scanCurrency(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrBaseCurrencyNotSet
		}

		return nil, err
	}

	return currency, nil
}

// List returns all live currencies ordered by code.
func (r *CurrencyRepository) List(ctx context.Context) ([]*domain.Currency, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+currencyColumns+` FROM currencies WHERE deleted_at IS NULL ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var currencies []*domain.Currency
	for rows.Next() {
		currency, err := scanCurrency(rows)
		if err != nil {
			return nil, err
		}
		currencies = append(currencies, currency)
	}

	return currencies, rows.Err()
}

// Update rewrites the mutable currency fields.
func (r *CurrencyRepository) Update(ctx context.Context, currency *domain.Currency) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE currencies
		SET code = $2, name = $3, symbol = $4, active = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL`,
		currency.ID, currency.Code, currency.Name, currency.Symbol,
		currency.Active, timeToPgTimestamptz(currency.UpdatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCurrencyNotFound
	}

	return nil
}

// SetBase flags one currency as base and unflags every other in the same
// statement, keeping the single-base invariant without a transaction.
func (r *CurrencyRepository) SetBase(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE currencies
		SET is_base = (id = $1), updated_at = now()
		WHERE deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCurrencyNotFound
	}

	return nil
}

// SoftDelete marks a currency deleted.
func (r *CurrencyRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE currencies SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, timeToPgTimestamptz(at))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCurrencyNotFound
	}

	return nil
}

func scanCurrency(row pgx.Row) (*domain.Currency, error) {
	var (
		c                    domain.Currency
		createdAt, updatedAt pgtype.Timestamptz
		deletedAt            pgtype.Timestamptz
	)

	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Symbol, &c.IsBase, &c.Active,
		&createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	c.DeletedAt = timePtr(deletedAt)

	return &c, nil
}
