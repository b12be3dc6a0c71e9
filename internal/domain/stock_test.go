package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrencyStock_ValidateDebit(t *testing.T) {
	stock := &CurrencyStock{CurrencyID: "cur-usd", Balance: decimal.NewFromInt(50)}

	t.Run("debit within balance", func(t *testing.T) {
		if err := stock.ValidateDebit("USD", decimal.NewFromInt(50)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("debit crossing zero carries detail", func(t *testing.T) {
		err := stock.ValidateDebit("USD", decimal.NewFromInt(100))
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		var insufficient *InsufficientStockError
		if !errors.As(err, &insufficient) {
			t.Fatalf("expected InsufficientStockError, got %T", err)
		}

		if insufficient.Currency != "USD" {
			t.Errorf("expected currency USD, got %s", insufficient.Currency)
		}

		if !insufficient.Available.Equal(decimal.NewFromInt(50)) {
			t.Errorf("expected available 50, got %s", insufficient.Available)
		}

		if !insufficient.Requested.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected requested 100, got %s", insufficient.Requested)
		}
	})
}

func TestAffectsStock(t *testing.T) {
	if !AffectsStock(nil) {
		t.Error("anonymous operation should affect stock")
	}

	if !AffectsStock(&Client{IsVip: true}) {
		t.Error("vip client should affect stock")
	}

	if AffectsStock(&Client{IsVip: false}) {
		t.Error("named non-vip client should not affect stock")
	}
}
