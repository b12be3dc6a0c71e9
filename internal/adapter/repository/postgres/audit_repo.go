package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openfx/backoffice/internal/domain"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create persists an audit log row. Runs outside the engine transaction so a
// failed operation still leaves a trace.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs (id, action, resource_type, resource_id, status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		log.ID, log.Action, log.ResourceType, log.ResourceID,
		log.Status, log.ErrorMessage, timeToPgTimestamptz(log.CreatedAt))

	return err
}
