package usecase

import (
	"context"

	"github.com/openfx/backoffice/internal/domain"
)

// AccountUseCase handles read access to client running accounts. There is
// deliberately no mutation here: the transaction executors are the only
// writers of running-account state.
type AccountUseCase struct {
	accountRepo AccountRepository
	clientRepo  ClientRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, clientRepo ClientRepository) *AccountUseCase {
	return &AccountUseCase{accountRepo: accountRepo, clientRepo: clientRepo}
}

// GetBalance returns the running balance of one (client, currency) pair,
// zero when no row exists.
func (uc *AccountUseCase) GetBalance(ctx context.Context, clientID, currencyID string) (*domain.ClientAccount, error) {
	if _, err := uc.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	return uc.accountRepo.GetBalance(ctx, clientID, currencyID)
}

// ListBalances lists every currency balance of a client.
func (uc *AccountUseCase) ListBalances(ctx context.Context, clientID string) ([]*domain.ClientAccount, error) {
	if _, err := uc.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	return uc.accountRepo.ListBalances(ctx, clientID)
}

// ListMovementsInput represents input for listing account movements.
type ListMovementsInput struct {
	ClientID string
	Limit    int
	Offset   int
}

// ListMovements lists the running-account movement log of a client.
func (uc *AccountUseCase) ListMovements(ctx context.Context, input ListMovementsInput) ([]*domain.ClientAccountMovement, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}

	if input.Limit > 500 {
		input.Limit = 500
	}

	return uc.accountRepo.ListMovements(ctx, input.ClientID, input.Limit, input.Offset)
}
