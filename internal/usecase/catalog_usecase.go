package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/openfx/backoffice/internal/domain"
)

// CatalogUseCase administers the catalogs the engine reads: currencies,
// clients and movement types. Plain create/read/update/soft-delete, plus the
// two invariants the engine depends on: a single base currency and no
// movement type that posts to the running account without a resolvable
// direction.
type CatalogUseCase struct {
	currencyRepo     CurrencyRepository
	clientRepo       ClientRepository
	movementTypeRepo MovementTypeRepository
	idGen            IDGenerator
	now              func() time.Time
}

// NewCatalogUseCase creates a new CatalogUseCase.
func NewCatalogUseCase(
	currencyRepo CurrencyRepository,
	clientRepo ClientRepository,
	movementTypeRepo MovementTypeRepository,
	idGen IDGenerator,
) *CatalogUseCase {
	return &CatalogUseCase{
		currencyRepo:     currencyRepo,
		clientRepo:       clientRepo,
		movementTypeRepo: movementTypeRepo,
		idGen:            idGen,
		now:              time.Now,
	}
}

// CreateCurrencyInput represents input for creating a currency.
type CreateCurrencyInput struct {
	Code   string
	Name   string
	Symbol string
	IsBase bool
}

// CreateCurrency creates a currency. Flagging it as base unflags every
// other currency in the same statement, keeping exactly one base at a time.
func (uc *CatalogUseCase) CreateCurrency(ctx context.Context, input CreateCurrencyInput) (*domain.Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, &domain.ValidationError{Field: "code", Reason: "currency code is required"}
	}

	now := uc.now().UTC()
	currency := &domain.Currency{
		ID:        uc.idGen.Generate(),
		Code:      code,
		Name:      input.Name,
		Symbol:    input.Symbol,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.currencyRepo.Create(ctx, currency); err != nil {
		return nil, err
	}

	if input.IsBase {
		if err := uc.currencyRepo.SetBase(ctx, currency.ID); err != nil {
			return nil, err
		}
		currency.IsBase = true
	}

	return currency, nil
}

// SetBaseCurrency designates the single base currency.
func (uc *CatalogUseCase) SetBaseCurrency(ctx context.Context, id string) error {
	if _, err := uc.currencyRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.currencyRepo.SetBase(ctx, id)
}

// GetCurrency retrieves a currency by ID.
func (uc *CatalogUseCase) GetCurrency(ctx context.Context, id string) (*domain.Currency, error) {
	return uc.currencyRepo.GetByID(ctx, id)
}

// ListCurrencies lists active currencies.
func (uc *CatalogUseCase) ListCurrencies(ctx context.Context) ([]*domain.Currency, error) {
	return uc.currencyRepo.List(ctx)
}

// UpdateCurrencyInput represents input for updating a currency.
type UpdateCurrencyInput struct {
	ID     string
	Code   string
	Name   string
	Symbol string
	Active bool
}

// UpdateCurrency updates a currency's editable fields. The base flag is not
// editable here; use SetBaseCurrency.
func (uc *CatalogUseCase) UpdateCurrency(ctx context.Context, input UpdateCurrencyInput) (*domain.Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, &domain.ValidationError{Field: "code", Reason: "currency code is required"}
	}

	current, err := uc.currencyRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	current.Code = code
	current.Name = input.Name
	current.Symbol = input.Symbol
	current.Active = input.Active
	current.UpdatedAt = uc.now().UTC()

	if err := uc.currencyRepo.Update(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}

// DeleteCurrency soft-deletes a currency.
func (uc *CatalogUseCase) DeleteCurrency(ctx context.Context, id string) error {
	currency, err := uc.currencyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if currency.IsBase {
		return &domain.ValidationError{Field: "currency", Reason: "the base currency cannot be deleted"}
	}

	return uc.currencyRepo.SoftDelete(ctx, id, uc.now().UTC())
}

// CreateClientInput represents input for creating a client.
type CreateClientInput struct {
	Alias     string
	LegalName string
	IsVip     bool
}

// CreateClient creates a client.
func (uc *CatalogUseCase) CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error) {
	if strings.TrimSpace(input.Alias) == "" {
		return nil, &domain.ValidationError{Field: "alias", Reason: "alias is required"}
	}

	now := uc.now().UTC()
	client := &domain.Client{
		ID:        uc.idGen.Generate(),
		Alias:     input.Alias,
		LegalName: input.LegalName,
		IsVip:     input.IsVip,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// GetClient retrieves a client by ID.
func (uc *CatalogUseCase) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return uc.clientRepo.GetByID(ctx, id)
}

// ListClients lists clients with pagination.
func (uc *CatalogUseCase) ListClients(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	if limit <= 0 {
		limit = 50
	}

	return uc.clientRepo.List(ctx, limit, offset)
}

// UpdateClient updates a client's editable fields.
func (uc *CatalogUseCase) UpdateClient(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	current, err := uc.clientRepo.GetByID(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	current.Alias = client.Alias
	current.LegalName = client.LegalName
	current.IsVip = client.IsVip
	current.UpdatedAt = uc.now().UTC()

	if err := uc.clientRepo.Update(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}

// DeleteClient soft-deletes a client.
func (uc *CatalogUseCase) DeleteClient(ctx context.Context, id string) error {
	if _, err := uc.clientRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.clientRepo.SoftDelete(ctx, id, uc.now().UTC())
}

// CreateMovementTypeInput represents input for creating a movement type.
type CreateMovementTypeInput struct {
	Name                  string
	Direction             domain.Direction
	BookingSide           *domain.BookingSide
	RequiresCounterparty  bool
	CounterpartyMandatory bool
	RequiresRate          bool
	RequiresNote          bool
	PostsToRunningAccount bool
	OperationGroup        string
	AllowedCurrencyIDs    []string
}

// CreateMovementType creates a movement type after config-time validation.
// A type that would fail at transaction time (posts to the running account
// with an indeterminate direction) is rejected here instead.
func (uc *CatalogUseCase) CreateMovementType(ctx context.Context, input CreateMovementTypeInput) (*domain.MovementType, error) {
	now := uc.now().UTC()
	movementType := &domain.MovementType{
		ID:                    uc.idGen.Generate(),
		Name:                  input.Name,
		Direction:             input.Direction,
		BookingSide:           input.BookingSide,
		RequiresCounterparty:  input.RequiresCounterparty,
		CounterpartyMandatory: input.CounterpartyMandatory,
		RequiresRate:          input.RequiresRate,
		RequiresNote:          input.RequiresNote,
		PostsToRunningAccount: input.PostsToRunningAccount,
		OperationGroup:        input.OperationGroup,
		AllowedCurrencyIDs:    input.AllowedCurrencyIDs,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := movementType.ValidateConfig(); err != nil {
		return nil, err
	}

	if err := uc.movementTypeRepo.Create(ctx, movementType); err != nil {
		return nil, err
	}

	return movementType, nil
}

// GetMovementType retrieves a movement type by ID.
func (uc *CatalogUseCase) GetMovementType(ctx context.Context, id string) (*domain.MovementType, error) {
	return uc.movementTypeRepo.GetByID(ctx, id)
}

// ListMovementTypes lists movement types.
func (uc *CatalogUseCase) ListMovementTypes(ctx context.Context) ([]*domain.MovementType, error) {
	return uc.movementTypeRepo.List(ctx)
}

// UpdateMovementType updates a movement type after the same config-time
// validation as creation.
func (uc *CatalogUseCase) UpdateMovementType(ctx context.Context, movementType *domain.MovementType) (*domain.MovementType, error) {
	if _, err := uc.movementTypeRepo.GetByID(ctx, movementType.ID); err != nil {
		return nil, err
	}

	if err := movementType.ValidateConfig(); err != nil {
		return nil, err
	}

	movementType.UpdatedAt = uc.now().UTC()
	if err := uc.movementTypeRepo.Update(ctx, movementType); err != nil {
		return nil, err
	}

	return movementType, nil
}

// DeleteMovementType soft-deletes a movement type.
func (uc *CatalogUseCase) DeleteMovementType(ctx context.Context, id string) error {
	if _, err := uc.movementTypeRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.movementTypeRepo.SoftDelete(ctx, id, uc.now().UTC())
}
