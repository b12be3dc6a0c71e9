package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/infrastructure/metrics"
)

// TransactionUseCase is the ledger transaction engine. Process turns one
// user-submitted operation into a consistent set of mutations across the
// daily journal, the currency-stock ledger and the client running account;
// Reverse applies the exact algebraic inverse of a committed entry.
type TransactionUseCase struct {
	txManager        TransactionManager
	journalRepo      JournalRepository
	stockRepo        StockRepository
	accountRepo      AccountRepository
	movementTypeRepo MovementTypeRepository
	currencyRepo     CurrencyRepository
	clientRepo       ClientRepository
	params           ParameterStore
	idGen            IDGenerator
	retrier          Retrier
	metrics          *metrics.Metrics
	now              func() time.Time
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	journalRepo JournalRepository,
	stockRepo StockRepository,
	accountRepo AccountRepository,
	movementTypeRepo MovementTypeRepository,
	currencyRepo CurrencyRepository,
	clientRepo ClientRepository,
	params ParameterStore,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:        txManager,
		journalRepo:      journalRepo,
		stockRepo:        stockRepo,
		accountRepo:      accountRepo,
		movementTypeRepo: movementTypeRepo,
		currencyRepo:     currencyRepo,
		clientRepo:       clientRepo,
		params:           params,
		idGen:            idGen,
		now:              time.Now,
	}
}

// WithRetrier enables retries on transient storage conflicts.
func (uc *TransactionUseCase) WithRetrier(retrier Retrier) *TransactionUseCase {
	uc.retrier = retrier
	return uc
}

// WithMetrics enables Prometheus instrumentation.
func (uc *TransactionUseCase) WithMetrics(m *metrics.Metrics) *TransactionUseCase {
	uc.metrics = m
	return uc
}

// WithNow overrides the clock, for tests.
func (uc *TransactionUseCase) WithNow(now func() time.Time) *TransactionUseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

// ProcessInput represents one operation to book.
type ProcessInput struct {
	MovementTypeID string
	CurrencyID     string
	Amount         decimal.Decimal
	ClientID       *string
	Rate           *decimal.Decimal
	Note           string
	OperationDate  time.Time
}

// transactionPlan is the fully validated, side-effect-free shape of an
// operation: resolved catalog rows, computed ledger legs and running-account
// deltas. Building it performs no writes.
type transactionPlan struct {
	input        ProcessInput
	movementType *domain.MovementType
	currency     *domain.Currency
	base         *domain.Currency
	client       *domain.Client
	in           *domain.Leg
	out          *domain.Leg
	affectsStock bool
	accountIn    decimal.Decimal
	accountOut   decimal.Decimal
	postsAccount bool
}

// Process validates the request, then mutates the three ledgers inside one
// atomic transaction and returns the created journal entry. Every failure
// leaves all four tables untouched.
func (uc *TransactionUseCase) Process(ctx context.Context, input ProcessInput) (*domain.JournalEntry, error) {
	start := time.Now()

	window, err := uc.params.DateWindow(ctx)
	if err != nil {
		return nil, fmt.Errorf("load date window: %w", err)
	}

	if !window.Allows(uc.now(), input.OperationDate) {
		if uc.metrics != nil {
			uc.metrics.DateWindowRejections.Inc()
		}
		return nil, &domain.DateWindowError{OperationDate: input.OperationDate, Window: window}
	}

	plan, err := uc.plan(ctx, input)
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	enforce, err := uc.params.StockControl(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stock control parameter: %w", err)
	}

	var entry *domain.JournalEntry

	operation := func() error {
		created, err := uc.execute(ctx, plan, enforce)
		if err != nil {
			return err
		}
		entry = created
		return nil
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}

	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		direction, _ := plan.movementType.ResolveDirection()
		uc.metrics.TransactionsProcessed.WithLabelValues(string(direction)).Inc()
		uc.metrics.TransactionDuration.Observe(time.Since(start).Seconds())
	}

	return entry, nil
}

// countError classifies a failed operation for the error counters.
func (uc *TransactionUseCase) countError(err error) {
	if uc.metrics == nil {
		return
	}

	var stockErr *domain.InsufficientStockError
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &stockErr):
		uc.metrics.InsufficientStock.WithLabelValues(stockErr.Currency).Inc()
	case errors.As(err, &validationErr):
		uc.metrics.TransactionErrors.WithLabelValues("validation").Inc()
	default:
		uc.metrics.TransactionErrors.WithLabelValues("internal").Inc()
	}
}

// plan resolves catalog rows, checks every presence rule and computes the
// ledger legs.
func (uc *TransactionUseCase) plan(ctx context.Context, input ProcessInput) (*transactionPlan, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "amount", Reason: "amount must be positive"}
	}

	if input.OperationDate.IsZero() {
		return nil, &domain.ValidationError{Field: "operation_date", Reason: "operation date is required"}
	}

	movementType, err := uc.movementTypeRepo.GetByID(ctx, input.MovementTypeID)
	if err != nil {
		return nil, err
	}

	currency, err := uc.currencyRepo.GetByID(ctx, input.CurrencyID)
	if err != nil {
		return nil, err
	}

	if !movementType.AllowsCurrency(currency.ID) {
		return nil, &domain.ValidationError{
			Field:  "currency",
			Reason: fmt.Sprintf("currency %s is not permitted for movement type %s", currency.Code, movementType.Name),
		}
	}

	var client *domain.Client
	if input.ClientID != nil {
		client, err = uc.clientRepo.GetByID(ctx, *input.ClientID)
		if err != nil {
			return nil, err
		}
	}

	if movementType.CounterpartyMandatory && client == nil {
		return nil, &domain.ValidationError{
			Field:  "client",
			Reason: fmt.Sprintf("movement type %s requires a counter-party", movementType.Name),
		}
	}

	if movementType.RequiresRate && (input.Rate == nil || input.Rate.LessThanOrEqual(decimal.Zero)) {
		return nil, &domain.ValidationError{
			Field:  "rate",
			Reason: fmt.Sprintf("movement type %s requires a positive rate", movementType.Name),
		}
	}

	if movementType.RequiresNote && strings.TrimSpace(input.Note) == "" {
		return nil, &domain.ValidationError{
			Field:  "note",
			Reason: fmt.Sprintf("movement type %s requires a note", movementType.Name),
		}
	}

	base, err := uc.currencyRepo.GetBase(ctx)
	if err != nil {
		return nil, err
	}

	plan := &transactionPlan{
		input:        input,
		movementType: movementType,
		currency:     currency,
		base:         base,
		client:       client,
		affectsStock: domain.AffectsStock(client),
	}

	direction, known := movementType.ResolveDirection()
	if known {
		plan.in, plan.out = computeLegs(direction, movementType.RequiresRate, currency.ID, base.ID, input.Amount, input.Rate)
	}

	if movementType.PostsToRunningAccount && client != nil {
		if !known {
			return nil, domain.ErrInconsistentPosting
		}

		switch {
		case direction.Outflow():
			// Money leaving the house on the client's behalf increases
			// what the client owes.
			plan.accountIn = input.Amount
		case direction.Inflow():
			plan.accountOut = input.Amount
		default:
			return nil, domain.ErrInconsistentPosting
		}

		plan.postsAccount = true
	}

	return plan, nil
}

// computeLegs derives the incoming and outgoing currency legs of an
// operation. Rated exchanges settle the counter-leg in the base currency at
// amount times rate.
func computeLegs(direction domain.Direction, rated bool, currencyID, baseID string, amount decimal.Decimal, rate *decimal.Decimal) (in, out *domain.Leg) {
	switch direction {
	case domain.DirectionSell:
		out = &domain.Leg{CurrencyID: currencyID, Amount: amount}
		if rated && rate != nil {
			in = &domain.Leg{CurrencyID: baseID, Amount: amount.Mul(*rate)}
		}
	case domain.DirectionBuy:
		in = &domain.Leg{CurrencyID: currencyID, Amount: amount}
		if rated && rate != nil {
			out = &domain.Leg{CurrencyID: baseID, Amount: amount.Mul(*rate)}
		}
	case domain.DirectionIn:
		in = &domain.Leg{CurrencyID: currencyID, Amount: amount}
	case domain.DirectionOut:
		out = &domain.Leg{CurrencyID: currencyID, Amount: amount}
	}

	return in, out
}

// execute applies the plan inside one atomic transaction.
func (uc *TransactionUseCase) execute(ctx context.Context, plan *transactionPlan, enforceStock bool) (*domain.JournalEntry, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := uc.now().UTC()

	if plan.affectsStock && (plan.in != nil || plan.out != nil) {
		stocks, err := uc.lockStocks(ctx, tx, legCurrencyIDs(plan.in, plan.out))
		if err != nil {
			return nil, err
		}

		if plan.out != nil {
			if enforceStock {
				code := plan.currencyCode(plan.out.CurrencyID)
				if err := stocks[plan.out.CurrencyID].ValidateDebit(code, plan.out.Amount); err != nil {
					return nil, err
				}
			}

			if _, err := uc.stockRepo.AddToBalance(ctx, tx, plan.out.CurrencyID, plan.out.Amount.Neg(), now); err != nil {
				return nil, err
			}
		}

		if plan.in != nil {
			if _, err := uc.stockRepo.AddToBalance(ctx, tx, plan.in.CurrencyID, plan.in.Amount, now); err != nil {
				return nil, err
			}
		}
	}

	entry := &domain.JournalEntry{
		ID:             uc.idGen.Generate(),
		OperationDate:  plan.input.OperationDate,
		MovementTypeID: plan.movementType.ID,
		In:             plan.in,
		Out:            plan.out,
		Rate:           plan.input.Rate,
		Note:           plan.input.Note,
		AffectsStock:   plan.affectsStock,
		Status:         domain.EntryStatusActive,
		CreatedAt:      now,
	}
	if plan.client != nil {
		entry.ClientID = &plan.client.ID
	}

	if err := uc.journalRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if plan.postsAccount {
		if _, err := uc.accountRepo.LockBalance(ctx, tx, plan.client.ID, plan.currency.ID); err != nil {
			return nil, err
		}

		movement := &domain.ClientAccountMovement{
			ID:             uc.idGen.Generate(),
			MovementDate:   plan.input.OperationDate,
			ClientID:       plan.client.ID,
			CurrencyID:     plan.currency.ID,
			InAmount:       plan.accountIn,
			OutAmount:      plan.accountOut,
			Note:           plan.input.Note,
			JournalEntryID: &entry.ID,
			Status:         domain.EntryStatusActive,
			CreatedAt:      now,
		}

		if err := uc.accountRepo.CreateMovement(ctx, tx, movement); err != nil {
			return nil, err
		}

		if _, err := uc.accountRepo.AddToBalance(ctx, tx, plan.client.ID, plan.currency.ID, movement.Delta(), now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if plan.postsAccount && uc.metrics != nil {
		if plan.accountIn.IsPositive() {
			uc.metrics.AccountMovements.WithLabelValues("in").Inc()
		} else {
			uc.metrics.AccountMovements.WithLabelValues("out").Inc()
		}
	}

	return entry, nil
}

// currencyCode maps a leg currency ID back to its ISO code for error detail.
func (p *transactionPlan) currencyCode(currencyID string) string {
	if p.currency != nil && p.currency.ID == currencyID {
		return p.currency.Code
	}
	if p.base != nil && p.base.ID == currencyID {
		return p.base.Code
	}
	return currencyID
}

// lockStocks acquires the stock rows in sorted currency order. Locking in a
// stable order prevents deadlocks between concurrent exchanges touching the
// same currency pair.
func (uc *TransactionUseCase) lockStocks(ctx context.Context, tx Transaction, currencyIDs []string) (map[string]*domain.CurrencyStock, error) {
	sort.Strings(currencyIDs)

	stocks := make(map[string]*domain.CurrencyStock, len(currencyIDs))
	for _, id := range currencyIDs {
		stock, err := uc.stockRepo.LockBalance(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		stocks[id] = stock
	}

	return stocks, nil
}

func legCurrencyIDs(legs ...*domain.Leg) []string {
	seen := make(map[string]bool, len(legs))

	var ids []string
	for _, leg := range legs {
		if leg == nil || seen[leg.CurrencyID] {
			continue
		}
		seen[leg.CurrencyID] = true
		ids = append(ids, leg.CurrencyID)
	}

	return ids
}
