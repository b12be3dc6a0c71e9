package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openfx/backoffice/internal/domain"
)

// MovementTypeRepository implements usecase.MovementTypeRepository. The
// allowed-currency set lives in the movement_type_currencies join table and
// is rewritten wholesale on update.
type MovementTypeRepository struct {
	pool *pgxpool.Pool
}

// NewMovementTypeRepository creates a new MovementTypeRepository.
func NewMovementTypeRepository(pool *pgxpool.Pool) *MovementTypeRepository {
	return &MovementTypeRepository{pool: pool}
}

const movementTypeColumns = `
	id, name, direction, booking_side,
	requires_counterparty, counterparty_mandatory, requires_rate, requires_note,
	posts_to_running_account, operation_group, created_at, updated_at, deleted_at`

// Create persists a new movement type and its allowed currencies.
func (r *MovementTypeRepository) Create(ctx context.Context, mt *domain.MovementType) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var bookingSide *string
	if mt.BookingSide != nil {
		s := string(*mt.BookingSide)
		bookingSide = &s
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO movement_types
			(id, name, direction, booking_side,
			 requires_counterparty, counterparty_mandatory, requires_rate, requires_note,
			 posts_to_running_account, operation_group, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		mt.ID, mt.Name, string(mt.Direction), bookingSide,
		mt.RequiresCounterparty, mt.CounterpartyMandatory, mt.RequiresRate, mt.RequiresNote,
		mt.PostsToRunningAccount, mt.OperationGroup,
		timeToPgTimestamptz(mt.CreatedAt), timeToPgTimestamptz(mt.UpdatedAt))
	if err != nil {
		return err
	}

	if err := insertAllowedCurrencies(ctx, tx, mt.ID, mt.AllowedCurrencyIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a movement type by ID. Soft-deleted rows are not visible.
func (r *MovementTypeRepository) GetByID(ctx context.Context, id string) (*domain.MovementType, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+movementTypeColumns+` FROM movement_types WHERE id = $1 AND deleted_at IS NULL`, id)

	mt, err := scanMovementType(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrMovementTypeNotFound
		}

		return nil, err
	}

	mt.AllowedCurrencyIDs, err = r.allowedCurrencies(ctx, id)
	if err != nil {
		return nil, err
	}

	return mt, nil
}

// List returns all live movement types ordered by name.
func (r *MovementTypeRepository) List(ctx context.Context) ([]*domain.MovementType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+movementTypeColumns+` FROM movement_types WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*domain.MovementType
	for rows.Next() {
		mt, err := scanMovementType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, mt := range types {
		mt.AllowedCurrencyIDs, err = r.allowedCurrencies(ctx, mt.ID)
		if err != nil {
			return nil, err
		}
	}

	return types, nil
}

// Update rewrites the movement type and replaces its allowed-currency set.
func (r *MovementTypeRepository) Update(ctx context.Context, mt *domain.MovementType) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var bookingSide *string
	if mt.BookingSide != nil {
		s := string(*mt.BookingSide)
		bookingSide = &s
	}

	tag, err := tx.Exec(ctx, `
		UPDATE movement_types
		SET name = $2, direction = $3, booking_side = $4,
		    requires_counterparty = $5, counterparty_mandatory = $6,
		    requires_rate = $7, requires_note = $8,
		    posts_to_running_account = $9, operation_group = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL`,
		mt.ID, mt.Name, string(mt.Direction), bookingSide,
		mt.RequiresCounterparty, mt.CounterpartyMandatory, mt.RequiresRate, mt.RequiresNote,
		mt.PostsToRunningAccount, mt.OperationGroup, timeToPgTimestamptz(mt.UpdatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMovementTypeNotFound
	}

	_, err = tx.Exec(ctx, `DELETE FROM movement_type_currencies WHERE movement_type_id = $1`, mt.ID)
	if err != nil {
		return err
	}

	if err := insertAllowedCurrencies(ctx, tx, mt.ID, mt.AllowedCurrencyIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SoftDelete marks a movement type deleted.
func (r *MovementTypeRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE movement_types SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, timeToPgTimestamptz(at))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMovementTypeNotFound
	}

	return nil
}

func (r *MovementTypeRepository) allowedCurrencies(ctx context.Context, movementTypeID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT currency_id FROM movement_type_currencies
		WHERE movement_type_id = $1
		ORDER BY currency_id`, movementTypeID)
	if err != nil {
		return nil, err
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

func insertAllowedCurrencies(ctx context.Context, tx pgx.Tx, movementTypeID string, currencyIDs []string) error {
	for _, currencyID := range currencyIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO movement_type_currencies (movement_type_id, currency_id)
			VALUES ($1, $2)`, movementTypeID, currencyID)
		if err != nil {
			return err
		}
	}

	return nil
}

func scanMovementType(row pgx.Row) (*domain.MovementType, error) {
	var (
		mt                   domain.MovementType
		direction            string
		bookingSide          *string
		createdAt, updatedAt pgtype.Timestamptz
		deletedAt            pgtype.Timestamptz
	)

	err := row.Scan(&mt.ID, &mt.Name, &direction, &bookingSide,
		&mt.RequiresCounterparty, &mt.CounterpartyMandatory, &mt.RequiresRate, &mt.RequiresNote,
		&mt.PostsToRunningAccount, &mt.OperationGroup, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	mt.Direction = domain.Direction(direction)
	if bookingSide != nil {
		side := domain.BookingSide(*bookingSide)
		mt.BookingSide = &side
	}
	mt.CreatedAt = createdAt.Time
	mt.UpdatedAt = updatedAt.Time
	mt.DeletedAt = timePtr(deletedAt)

	return &mt, nil
}
