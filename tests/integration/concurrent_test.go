package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfx/backoffice/internal/adapter/repository/postgres"
	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
	"github.com/openfx/backoffice/tests/testutil"
)

func TestConcurrentWithdrawals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	params, _ := testutil.NewTestParameterStore(t)
	engine := newEngine(testDB, params)

	testDB.CreateTestCurrency(ctx, "ARS", true)
	usd := testDB.CreateTestCurrency(ctx, "USD", false)
	withdraw := testDB.CreateTestMovementType(ctx, "cash-out", testutil.MovementTypeOpts{
		Direction: domain.DirectionOut,
	})

	// Enough stock for exactly half of the attempts.
	const attempts = 10
	testDB.SeedStock(ctx, usd.ID, decimal.NewFromInt(attempts/2*100))

	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = engine.Process(ctx, usecase.ProcessInput{
				MovementTypeID: withdraw.ID,
				CurrencyID:     usd.ID,
				Amount:         decimal.NewFromInt(100),
				OperationDate:  time.Now().UTC(),
			})
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		default:
			var stockErr *domain.InsufficientStockError
			if !errors.As(err, &stockErr) {
				t.Errorf("unexpected error: %v", err)
				continue
			}
			rejected++
		}
	}

	if succeeded != attempts/2 {
		t.Errorf("expected %d successes, got %d (rejected %d)", attempts/2, succeeded, rejected)
	}

	stock, err := postgres.NewStockRepository(testDB.Pool).GetByCurrency(ctx, usd.ID)
	if err != nil {
		t.Fatalf("failed to get stock: %v", err)
	}
	if !stock.Balance.IsZero() {
		t.Errorf("expected stock drained to 0, got %s", stock.Balance)
	}
}

func TestConcurrentReversals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	params, _ := testutil.NewTestParameterStore(t)
	engine := newEngine(testDB, params)

	testDB.CreateTestCurrency(ctx, "ARS", true)
	usd := testDB.CreateTestCurrency(ctx, "USD", false)
	deposit := testDB.CreateTestMovementType(ctx, "cash-in", testutil.MovementTypeOpts{
		Direction: domain.DirectionIn,
	})

	entry, err := engine.Process(ctx, usecase.ProcessInput{
		MovementTypeID: deposit.ID,
		CurrencyID:     usd.ID,
		Amount:         decimal.NewFromInt(100),
		OperationDate:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to process deposit: %v", err)
	}

	// Exactly one of the racing reversals may win.
	const racers = 5
	var wg sync.WaitGroup
	results := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Reverse(ctx, entry.ID)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, domain.ErrAlreadyReversed) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful reversal, got %d", succeeded)
	}

	stock, err := postgres.NewStockRepository(testDB.Pool).GetByCurrency(ctx, usd.ID)
	if err != nil {
		t.Fatalf("failed to get stock: %v", err)
	}
	if !stock.Balance.IsZero() {
		t.Errorf("expected stock back to 0, got %s", stock.Balance)
	}
}

func TestConcurrentExchangesOpposingPairs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	params, _ := testutil.NewTestParameterStore(t)
	engine := newEngine(testDB, params)

	base := testDB.CreateTestCurrency(ctx, "ARS", true)
	usd := testDB.CreateTestCurrency(ctx, "USD", false)
	eur := testDB.CreateTestCurrency(ctx, "EUR", false)
	sell := testDB.CreateTestMovementType(ctx, "sell-fx", testutil.MovementTypeOpts{
		Direction:    domain.DirectionSell,
		RequiresRate: true,
	})
	buy := testDB.CreateTestMovementType(ctx, "buy-fx", testutil.MovementTypeOpts{
		Direction:    domain.DirectionBuy,
		RequiresRate: true,
	})

	testDB.SeedStock(ctx, base.ID, decimal.NewFromInt(100000))
	testDB.SeedStock(ctx, usd.ID, decimal.NewFromInt(10000))
	testDB.SeedStock(ctx, eur.ID, decimal.NewFromInt(10000))

	// Sells and buys against both foreign currencies lock the same base
	// currency row; sorted lock order must keep them deadlock-free.
	rate := decimal.NewFromInt(10)
	const rounds = 20

	var wg sync.WaitGroup
	errs := make(chan error, rounds*2)

	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := engine.Process(ctx, usecase.ProcessInput{
				MovementTypeID: sell.ID,
				CurrencyID:     usd.ID,
				Amount:         decimal.NewFromInt(10),
				Rate:           &rate,
				OperationDate:  time.Now().UTC(),
			})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := engine.Process(ctx, usecase.ProcessInput{
				MovementTypeID: buy.ID,
				CurrencyID:     eur.ID,
				Amount:         decimal.NewFromInt(10),
				Rate:           &rate,
				OperationDate:  time.Now().UTC(),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}

	stockRepo := postgres.NewStockRepository(testDB.Pool)

	usdStock, err := stockRepo.GetByCurrency(ctx, usd.ID)
	if err != nil {
		t.Fatalf("failed to get usd stock: %v", err)
	}
	if !usdStock.Balance.Equal(decimal.NewFromInt(10000 - rounds*10)) {
		t.Errorf("expected usd stock %d, got %s", 10000-rounds*10, usdStock.Balance)
	}

	eurStock, err := stockRepo.GetByCurrency(ctx, eur.ID)
	if err != nil {
		t.Fatalf("failed to get eur stock: %v", err)
	}
	if !eurStock.Balance.Equal(decimal.NewFromInt(10000 + rounds*10)) {
		t.Errorf("expected eur stock %d, got %s", 10000+rounds*10, eurStock.Balance)
	}
}
