package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
)

// StockRepository implements usecase.StockRepository.
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a new StockRepository.
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// LockBalance creates the zero row if absent and locks it until the
// surrounding transaction ends.
func (r *StockRepository) LockBalance(ctx context.Context, tx usecase.Transaction, currencyID string) (*domain.CurrencyStock, error) {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO currency_stocks (currency_id, balance, updated_at)
		VALUES ($1, 0, now())
		ON CONFLICT (currency_id) DO NOTHING`, currencyID)
	if err != nil {
		return nil, err
	}

	var (
		balance   pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err = pgxTx.QueryRow(ctx, `
		SELECT balance, updated_at
		FROM currency_stocks
		WHERE currency_id = $1
		FOR UPDATE`, currencyID).Scan(&balance, &updatedAt)
	if err != nil {
		return nil, err
	}

	return &domain.CurrencyStock{
		CurrencyID: currencyID,
		Balance:    numericToDecimal(balance),
		UpdatedAt:  updatedAt.Time,
	}, nil
}

// AddToBalance adjusts the balance arithmetically in a single statement and
// returns the new balance.
func (r *StockRepository) AddToBalance(ctx context.Context, tx usecase.Transaction, currencyID string, delta decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var balance pgtype.Numeric

	err := pgxTx.QueryRow(ctx, `
		INSERT INTO currency_stocks (currency_id, balance, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (currency_id)
		DO UPDATE SET balance = currency_stocks.balance + EXCLUDED.balance,
		              updated_at = EXCLUDED.updated_at
		RETURNING balance`,
		currencyID, decimalToNumeric(delta), timeToPgTimestamptz(at)).Scan(&balance)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// GetByCurrency returns the stock balance of one currency, zero when the
// row has never been touched.
func (r *StockRepository) GetByCurrency(ctx context.Context, currencyID string) (*domain.CurrencyStock, error) {
	var (
		balance   pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT balance, updated_at
		FROM currency_stocks
		WHERE currency_id = $1`, currencyID).Scan(&balance, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return &domain.CurrencyStock{CurrencyID: currencyID, Balance: decimal.Zero}, nil
		}

		return nil, err
	}

	return &domain.CurrencyStock{
		CurrencyID: currencyID,
		Balance:    numericToDecimal(balance),
		UpdatedAt:  updatedAt.Time,
	}, nil
}

// List lists every stock balance.
func (r *StockRepository) List(ctx context.Context) ([]*domain.CurrencyStock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT currency_id, balance, updated_at
		FROM currency_stocks
		ORDER BY currency_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []*domain.CurrencyStock
	for rows.Next() {
		var (
			currencyID string
			balance    pgtype.Numeric
			updatedAt  pgtype.Timestamptz
		)

		if err := rows.Scan(&currencyID, &balance, &updatedAt); err != nil {
			return nil, err
		}

		stocks = append(stocks, &domain.CurrencyStock{
			CurrencyID: currencyID,
			Balance:    numericToDecimal(balance),
			UpdatedAt:  updatedAt.Time,
		})
	}

	return stocks, rows.Err()
}
