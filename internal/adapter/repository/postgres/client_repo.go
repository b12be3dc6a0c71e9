package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openfx/backoffice/internal/domain"
)

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

const clientColumns = `id, alias, legal_name, is_vip, created_at, updated_at, deleted_at`

// Create persists a new client.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clients (id, alias, legal_name, is_vip, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		client.ID, client.Alias, client.LegalName, client.IsVip,
		timeToPgTimestamptz(client.CreatedAt), timeToPgTimestamptz(client.UpdatedAt))

	return err
}

// GetByID retrieves a client by ID. Soft-deleted rows are not visible.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1 AND deleted_at IS NULL`, id)

	client, err := scanClient(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrClientNotFound
		}

		return nil, err
	}

	return client, nil
}

// List returns live clients ordered by alias.
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE deleted_at IS NULL
		ORDER BY alias
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

// Update rewrites the mutable client fields.
func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clients
		SET alias = $2, legal_name = $3, is_vip = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL`,
		client.ID, client.Alias, client.LegalName, client.IsVip,
		timeToPgTimestamptz(client.UpdatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

// SoftDelete marks a client deleted. Journal history keeps pointing at the
// row; only catalog lookups stop seeing it.
func (r *ClientRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clients SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, timeToPgTimestamptz(at))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		c                    domain.Client
		createdAt, updatedAt pgtype.Timestamptz
		deletedAt            pgtype.Timestamptz
	)

	err := row.Scan(&c.ID, &c.Alias, &c.LegalName, &c.IsVip, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	c.DeletedAt = timePtr(deletedAt)

	return &c, nil
}
