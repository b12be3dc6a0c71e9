package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfx/backoffice/internal/domain"
)

// MovementTypeRepository defines data access for the movement-type catalog.
type MovementTypeRepository interface {
	Create(ctx context.Context, mt *domain.MovementType) error
	GetByID(ctx context.Context, id string) (*domain.MovementType, error)
	List(ctx context.Context) ([]*domain.MovementType, error)
	Update(ctx context.Context, mt *domain.MovementType) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// CurrencyRepository defines data access for the currency catalog.
type CurrencyRepository interface {
	Create(ctx context.Context, currency *domain.Currency) error
	GetByID(ctx context.Context, id string) (*domain.Currency, error)
	GetBase(ctx context.Context) (*domain.Currency, error)
	List(ctx context.Context) ([]*domain.Currency, error)
	Update(ctx context.Context, currency *domain.Currency) error
	// SetBase flags one currency as the base currency and unflags every
	// other in the same statement.
	SetBase(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// ClientRepository defines data access for the client catalog.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// JournalRepository defines data access for the daily journal.
type JournalRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.JournalEntry, error)
	ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*domain.JournalEntry, error)
	MarkReversed(ctx context.Context, tx Transaction, id string, at time.Time) error
	// UpdateDetails changes the only fields editable without a reversal.
	UpdateDetails(ctx context.Context, id string, note string, clientID *string, operationDate time.Time) error
}

// StockRepository defines data access for the shared currency-stock ledger.
type StockRepository interface {
	// LockBalance creates the zero row if absent and holds a row lock for
	// the duration of the transaction.
	LockBalance(ctx context.Context, tx Transaction, currencyID string) (*domain.CurrencyStock, error)
	// AddToBalance adjusts the locked row arithmetically and returns the
	// new balance.
	AddToBalance(ctx context.Context, tx Transaction, currencyID string, delta decimal.Decimal, at time.Time) (decimal.Decimal, error)
	GetByCurrency(ctx context.Context, currencyID string) (*domain.CurrencyStock, error)
	List(ctx context.Context) ([]*domain.CurrencyStock, error)
}

// AccountRepository defines data access for client running accounts. The
// mutating methods require an open engine transaction; the transaction
// executors are the only callers, no handler or catalog path writes here.
type AccountRepository interface {
	LockBalance(ctx context.Context, tx Transaction, clientID, currencyID string) (*domain.ClientAccount, error)
	AddToBalance(ctx context.Context, tx Transaction, clientID, currencyID string, delta decimal.Decimal, at time.Time) (decimal.Decimal, error)
	CreateMovement(ctx context.Context, tx Transaction, movement *domain.ClientAccountMovement) error
	// GetMovementByEntry returns nil without error when the entry produced
	// no running-account movement.
	GetMovementByEntry(ctx context.Context, tx Transaction, journalEntryID string) (*domain.ClientAccountMovement, error)
	MarkMovementReversed(ctx context.Context, tx Transaction, id string, at time.Time) error
	// GetBalance returns a zero-balance row when none exists.
	GetBalance(ctx context.Context, clientID, currencyID string) (*domain.ClientAccount, error)
	ListBalances(ctx context.Context, clientID string) ([]*domain.ClientAccount, error)
	ListMovements(ctx context.Context, clientID string, limit, offset int) ([]*domain.ClientAccountMovement, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// ParameterStore provides the process-wide configuration parameters the
// engine consumes. Values are JSON-encoded in the backing store.
type ParameterStore interface {
	// StockControl reports whether stock debits are guarded against
	// crossing zero. Defaults to enforced when the key is absent.
	StockControl(ctx context.Context) (bool, error)
	DateWindow(ctx context.Context) (domain.DateWindow, error)
}

// IdempotencyStore caches responses of mutating HTTP requests.
type IdempotencyStore interface {
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
