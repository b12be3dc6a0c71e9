package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyStock is the shared cash-stock balance of one currency. Rows are
// created lazily on first touch.
type CurrencyStock struct {
	CurrencyID string
	Balance    decimal.Decimal
	UpdatedAt  time.Time
}

// ValidateDebit checks whether the stock can be decremented by amount
// without crossing zero. currencyCode is only used for the error detail.
func (s *CurrencyStock) ValidateDebit(currencyCode string, amount decimal.Decimal) error {
	if s.Balance.LessThan(amount) {
		return &InsufficientStockError{
			Currency:  currencyCode,
			Available: s.Balance,
			Requested: amount,
		}
	}

	return nil
}
