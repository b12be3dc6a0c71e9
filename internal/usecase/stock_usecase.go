package usecase

import (
	"context"

	"github.com/openfx/backoffice/internal/domain"
)

// StockUseCase handles read access to the shared currency-stock ledger.
// All writes go through the transaction executors.
type StockUseCase struct {
	stockRepo StockRepository
}

// NewStockUseCase creates a new StockUseCase.
func NewStockUseCase(stockRepo StockRepository) *StockUseCase {
	return &StockUseCase{stockRepo: stockRepo}
}

// ListStocks lists every currency-stock balance.
func (uc *StockUseCase) ListStocks(ctx context.Context) ([]*domain.CurrencyStock, error) {
	return uc.stockRepo.List(ctx)
}

// GetStock returns the stock balance of one currency, zero when the row has
// never been touched.
func (uc *StockUseCase) GetStock(ctx context.Context, currencyID string) (*domain.CurrencyStock, error) {
	return uc.stockRepo.GetByCurrency(ctx, currencyID)
}
