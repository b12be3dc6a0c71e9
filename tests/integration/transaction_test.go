package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfx/backoffice/internal/adapter/repository/postgres"
	redisRepo "github.com/openfx/backoffice/internal/adapter/repository/redis"
	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
	"github.com/openfx/backoffice/tests/testutil"
)

// newEngine wires a TransactionUseCase against the real repositories.
func newEngine(testDB *testutil.TestDB, params *redisRepo.ParameterStore) *usecase.TransactionUseCase {
	pool := testDB.Pool

	return usecase.NewTransactionUseCase(
		postgres.NewTxManager(pool),
		postgres.NewJournalRepository(pool),
		postgres.NewStockRepository(pool),
		postgres.NewAccountRepository(pool),
		postgres.NewMovementTypeRepository(pool),
		postgres.NewCurrencyRepository(pool),
		postgres.NewClientRepository(pool),
		params,
		postgres.NewULIDGenerator(),
	).WithRetrier(postgres.NewRetrier())
}

func TestProcessSellExchange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	params, _ := testutil.NewTestParameterStore(t)
	engine := newEngine(testDB, params)
	stockRepo := postgres.NewStockRepository(testDB.Pool)

	base := testDB.CreateTestCurrency(ctx, "ARS", true)
	usd := testDB.CreateTestCurrency(ctx, "USD", false)
	sell := testDB.CreateTestMovementType(ctx, "sell-fx", testutil.MovementTypeOpts{
		Direction:    domain.DirectionSell,
		RequiresRate: true,
	})

	testDB.SeedStock(ctx, usd.ID, decimal.NewFromInt(1000))

	rate := decimal.NewFromInt(900)
	entry, err := engine.Process(ctx, usecase.ProcessInput{
		MovementTypeID: sell.ID,
		CurrencyID:     usd.ID,
		Amount:         decimal.NewFromInt(100),
		Rate:           &rate,
		OperationDate:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to process sell: %v", err)
	}

	// Foreign currency leaves the till, base currency comes in at amount*rate.
	if entry.Out == nil || entry.Out.CurrencyID != usd.ID || !entry.Out.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected out leg: %+v", entry.Out)
	}
	if entry.In == nil || entry.In.CurrencyID != base.ID || !entry.In.Amount.Equal(decimal.NewFromInt(90000)) {
		t.Fatalf("unexpected in leg: %+v", entry.In)
	}
	if !entry.AffectsStock {
		t.Fatal("anonymous operation must affect stock")
	}

	usdStock, err := stockRepo.GetByCurrency(ctx, usd.ID)
	if err != nil {
		t.Fatalf("failed to get usd stock: %v", err)
	}
	if !usdStock.Balance.Equal(decimal.NewFromInt(900)) {
		t.Errorf("expected usd stock 900, got %s", usdStock.Balance)
	}

	baseStock, err := stockRepo.GetByCurrency(ctx, base.ID)
	if err != nil {
		t.Fatalf("failed to get base stock: %v", err)
	}
	if !baseStock.Balance.Equal(decimal.NewFromInt(90000)) {
		t.Errorf("expected base stock 90000, got %s", baseStock.Balance)
	}
}

func TestProcessClientRunningAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	params, _ := testutil.NewTestParameterStore(t)
	engine := newEngine(testDB, params)
	stockRepo := postgres.NewStockRepository(testDB.Pool)
	accountRepo := postgres.NewAccountRepository(testDB.Pool)

	testDB.CreateTestCurrency(ctx, "ARS", true)
	usd := testDB.CreateTestCurrency(ctx, "USD", false)
	client := testDB.CreateTestClient(ctx, "acme", false)
	payout := testDB.CreateTestMovementType(ctx, "client-payout", testutil.MovementTypeOpts{
		Direction:             domain.DirectionOut,
		CounterpartyMandatory: true,
		PostsToRunningAccount: true,
	})

	entry, err := engine.Process(ctx, usecase.ProcessInput{
		MovementTypeID: payout.ID,
		CurrencyID:     usd.ID,
		Amount:         decimal.NewFromInt(250),
		ClientID:       &client.ID,
		OperationDate:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to process payout: %v", err)
	}

	// A named non-VIP client settles through the running account, never the
	// shared stock.
	if entry.AffectsStock {
		t.Fatal("named non-vip client must not affect stock")
	}

	usdStock, err := stockRepo.GetByCurrency(ctx, usd.ID)
	if err != nil {
		t.Fatalf("failed to get usd stock: %v", err)
	}
	if !usdStock.Balance.IsZero() {
		t.Errorf("expected untouched stock, got %s", usdStock.Balance)
	}

	// Money going out on the client's behalf raises what the client owes.
	account, err := accountRepo.GetBalance(ctx, client.ID, usd.ID)
	if err != nil {
		t.Fatalf("failed to get account balance: %v", err)
	}
	if !account.Balance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected account balance 250, got %s", account.Balance)
	}

	movements, err := accountRepo.ListMovements(ctx, client.ID, 10, 0)
	if err != nil {
		t.Fatalf("failed to list movements: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}
	if !movements[0].InAmount.Equal(decimal.NewFromInt(250)) || !movements[0].OutAmount.IsZero() {
		t.Errorf("unexpected movement amounts: in=%s out=%s", movements[0].InAmount, movements[0].OutAmount)
	}
}

func TestProcessVipClientAffectsStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	params, _ := testutil.NewTestParameterStore(t)
	engine := newEngine(testDB, params)
	stockRepo := postgres.NewStockRepository(testDB.Pool)

	testDB.CreateTestCurrency(ctx, "ARS", true)
	usd := testDB.CreateTestCurrency(ctx, "USD", false)
	vip := testDB.CreateTestClient(ctx, "vip-desk", true)
	deposit := testDB.CreateTestMovementType(ctx, "cash-in", testutil.MovementTypeOpts{
		Direction: domain.DirectionIn,
	})

	entry, err := engine.Process(ctx, usecase.ProcessInput{
		MovementTypeID: deposit.ID,
		CurrencyID:     usd.ID,
		Amount:         decimal.NewFromInt(500),
		ClientID:       &vip.ID,
		OperationDate:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to process deposit: %v", err)
	}
	if !entry.AffectsStock {
		t.Fatal("vip client operation must affect stock")
	}

	stock, err := stockRepo.GetByCurrency(ctx, usd.ID)
	if err != nil {
		t.Fatalf("failed to get stock: %v", err)
	}
	if !stock.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected stock 500, got %s", stock.Balance)
	}
}
