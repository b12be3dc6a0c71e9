package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
)

// MockTransaction records commit/rollback calls.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions and counts Begin calls.
type MockTransactionManager struct {
	mu           sync.Mutex
	BeginCount   int
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BeginCount++
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%d", m.next)
}

// MockParameterStore serves fixed parameter values.
type MockParameterStore struct {
	StockControlValue bool
	Window            domain.DateWindow

	StockControlFunc func(ctx context.Context) (bool, error)
	DateWindowFunc   func(ctx context.Context) (domain.DateWindow, error)
}

// NewMockParameterStore defaults to enforced stock control and an
// unrestricted date window.
func NewMockParameterStore() *MockParameterStore {
	return &MockParameterStore{
		StockControlValue: true,
		Window:            domain.DateWindow{Enabled: true, GraceDays: 0},
	}
}

func (m *MockParameterStore) StockControl(ctx context.Context) (bool, error) {
	if m.StockControlFunc != nil {
		return m.StockControlFunc(ctx)
	}
	return m.StockControlValue, nil
}

func (m *MockParameterStore) DateWindow(ctx context.Context) (domain.DateWindow, error) {
	if m.DateWindowFunc != nil {
		return m.DateWindowFunc(ctx)
	}
	return m.Window, nil
}

// MockMovementTypeRepository is an in-memory movement-type catalog.
type MockMovementTypeRepository struct {
	mu    sync.RWMutex
	types map[string]*domain.MovementType

	GetByIDFunc func(ctx context.Context, id string) (*domain.MovementType, error)
}

func NewMockMovementTypeRepository() *MockMovementTypeRepository {
	return &MockMovementTypeRepository{types: make(map[string]*domain.MovementType)}
}

func (m *MockMovementTypeRepository) Create(ctx context.Context, mt *domain.MovementType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[mt.ID] = mt
	return nil
}

func (m *MockMovementTypeRepository) GetByID(ctx context.Context, id string) (*domain.MovementType, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mt, ok := m.types[id]; ok && mt.DeletedAt == nil {
		return mt, nil
	}
	return nil, domain.ErrMovementTypeNotFound
}

func (m *MockMovementTypeRepository) List(ctx context.Context) ([]*domain.MovementType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.MovementType
	for _, mt := range m.types {
		if mt.DeletedAt == nil {
			out = append(out, mt)
		}
	}
	return out, nil
}

func (m *MockMovementTypeRepository) Update(ctx context.Context, mt *domain.MovementType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[mt.ID] = mt
	return nil
}

func (m *MockMovementTypeRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mt, ok := m.types[id]; ok {
		mt.DeletedAt = &at
	}
	return nil
}

// MockCurrencyRepository is an in-memory currency catalog.
type MockCurrencyRepository struct {
	mu         sync.RWMutex
	currencies map[string]*domain.Currency

	GetBaseFunc func(ctx context.Context) (*domain.Currency, error)
}

func NewMockCurrencyRepository() *MockCurrencyRepository {
	return &MockCurrencyRepository{currencies: make(map[string]*domain.Currency)}
}

func (m *MockCurrencyRepository) Create(ctx context.Context, currency *domain.Currency) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies[currency.ID] = currency
	return nil
}

func (m *MockCurrencyRepository) GetByID(ctx context.Context, id string) (*domain.Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.currencies[id]; ok && c.DeletedAt == nil {
		return c, nil
	}
	return nil, domain.ErrCurrencyNotFound
}

func (m *MockCurrencyRepository) GetBase(ctx context.Context) (*domain.Currency, error) {
	if m.GetBaseFunc != nil {
		return m.GetBaseFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.currencies {
		if c.IsBase && c.DeletedAt == nil {
			return c, nil
		}
	}
	return nil, domain.ErrBaseCurrencyNotSet
}

func (m *MockCurrencyRepository) List(ctx context.Context) ([]*domain.Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Currency
	for _, c := range m.currencies {
		if c.DeletedAt == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockCurrencyRepository) Update(ctx context.Context, currency *domain.Currency) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies[currency.ID] = currency
	return nil
}

func (m *MockCurrencyRepository) SetBase(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.currencies {
		c.IsBase = c.ID == id
	}
	return nil
}

func (m *MockCurrencyRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.currencies[id]; ok {
		c.DeletedAt = &at
	}
	return nil
}

// MockClientRepository is an in-memory client catalog.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{clients: make(map[string]*domain.Client)}
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.clients[id]; ok && c.DeletedAt == nil {
		return c, nil
	}
	return nil, domain.ErrClientNotFound
}

func (m *MockClientRepository) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Client
	for _, c := range m.clients {
		if c.DeletedAt == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockClientRepository) Update(ctx context.Context, client *domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
	return nil
}

func (m *MockClientRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[id]; ok {
		c.DeletedAt = &at
	}
	return nil
}

// MockJournalRepository is an in-memory daily journal.
type MockJournalRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.JournalEntry

	CreateFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{entries: make(map[string]*domain.JournalEntry)}
}

func (m *MockJournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *MockJournalRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockJournalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalEntry, error) {
	return m.GetByID(ctx, id)
}

func (m *MockJournalRepository) ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*domain.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.JournalEntry
	for _, e := range m.entries {
		if !e.OperationDate.Before(from) && !e.OperationDate.After(to) {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockJournalRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.Status = domain.EntryStatusReversed
		e.ReversedAt = &at
	}
	return nil
}

func (m *MockJournalRepository) UpdateDetails(ctx context.Context, id string, note string, clientID *string, operationDate time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.Note = note
		e.ClientID = clientID
		e.OperationDate = operationDate
	}
	return nil
}

// Count returns the number of stored entries.
func (m *MockJournalRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// MockStockRepository is an in-memory currency-stock ledger.
type MockStockRepository struct {
	mu        sync.RWMutex
	balances  map[string]decimal.Decimal
	LockOrder []string

	LockBalanceFunc func(ctx context.Context, tx usecase.Transaction, currencyID string) (*domain.CurrencyStock, error)
}

func NewMockStockRepository() *MockStockRepository {
	return &MockStockRepository{balances: make(map[string]decimal.Decimal)}
}

// SetBalance seeds a stock balance.
func (m *MockStockRepository) SetBalance(currencyID string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[currencyID] = balance
}

// Balance reads a stock balance, zero when absent.
func (m *MockStockRepository) Balance(currencyID string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[currencyID]
}

func (m *MockStockRepository) LockBalance(ctx context.Context, tx usecase.Transaction, currencyID string) (*domain.CurrencyStock, error) {
	if m.LockBalanceFunc != nil {
		return m.LockBalanceFunc(ctx, tx, currencyID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LockOrder = append(m.LockOrder, currencyID)
	if _, ok := m.balances[currencyID]; !ok {
		m.balances[currencyID] = decimal.Zero
	}
	return &domain.CurrencyStock{CurrencyID: currencyID, Balance: m.balances[currencyID]}, nil
}

func (m *MockStockRepository) AddToBalance(ctx context.Context, tx usecase.Transaction, currencyID string, delta decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[currencyID] = m.balances[currencyID].Add(delta)
	return m.balances[currencyID], nil
}

func (m *MockStockRepository) GetByCurrency(ctx context.Context, currencyID string) (*domain.CurrencyStock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &domain.CurrencyStock{CurrencyID: currencyID, Balance: m.balances[currencyID]}, nil
}

func (m *MockStockRepository) List(ctx context.Context) ([]*domain.CurrencyStock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CurrencyStock
	for id, b := range m.balances {
		out = append(out, &domain.CurrencyStock{CurrencyID: id, Balance: b})
	}
	return out, nil
}

// MockAccountRepository is an in-memory client running-account ledger.
type MockAccountRepository struct {
	mu        sync.RWMutex
	balances  map[string]decimal.Decimal
	movements map[string]*domain.ClientAccountMovement
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		balances:  make(map[string]decimal.Decimal),
		movements: make(map[string]*domain.ClientAccountMovement),
	}
}

func accountKey(clientID, currencyID string) string {
	return clientID + "/" + currencyID
}

// Balance reads an account balance, zero when absent.
func (m *MockAccountRepository) Balance(clientID, currencyID string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[accountKey(clientID, currencyID)]
}

// MovementCount returns the number of stored movements.
func (m *MockAccountRepository) MovementCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.movements)
}

func (m *MockAccountRepository) LockBalance(ctx context.Context, tx usecase.Transaction, clientID, currencyID string) (*domain.ClientAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := accountKey(clientID, currencyID)
	if _, ok := m.balances[key]; !ok {
		m.balances[key] = decimal.Zero
	}
	return &domain.ClientAccount{ClientID: clientID, CurrencyID: currencyID, Balance: m.balances[key]}, nil
}

func (m *MockAccountRepository) AddToBalance(ctx context.Context, tx usecase.Transaction, clientID, currencyID string, delta decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := accountKey(clientID, currencyID)
	m.balances[key] = m.balances[key].Add(delta)
	return m.balances[key], nil
}

func (m *MockAccountRepository) CreateMovement(ctx context.Context, tx usecase.Transaction, movement *domain.ClientAccountMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *movement
	m.movements[movement.ID] = &stored
	return nil
}

func (m *MockAccountRepository) GetMovementByEntry(ctx context.Context, tx usecase.Transaction, journalEntryID string) (*domain.ClientAccountMovement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mv := range m.movements {
		if mv.JournalEntryID != nil && *mv.JournalEntryID == journalEntryID {
			copied := *mv
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockAccountRepository) MarkMovementReversed(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mv, ok := m.movements[id]; ok {
		mv.Status = domain.EntryStatusReversed
		mv.ReversedAt = &at
	}
	return nil
}

func (m *MockAccountRepository) GetBalance(ctx context.Context, clientID, currencyID string) (*domain.ClientAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &domain.ClientAccount{ClientID: clientID, CurrencyID: currencyID, Balance: m.balances[accountKey(clientID, currencyID)]}, nil
}

func (m *MockAccountRepository) ListBalances(ctx context.Context, clientID string) ([]*domain.ClientAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ClientAccount
	for key, b := range m.balances {
		parts := strings.SplitN(key, "/", 2)
		if parts[0] != clientID {
			continue
		}
		out = append(out, &domain.ClientAccount{ClientID: clientID, CurrencyID: parts[1], Balance: b})
	}
	return out, nil
}

func (m *MockAccountRepository) ListMovements(ctx context.Context, clientID string, limit, offset int) ([]*domain.ClientAccountMovement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ClientAccountMovement
	for _, mv := range m.movements {
		if mv.ClientID == clientID {
			copied := *mv
			out = append(out, &copied)
		}
	}
	return out, nil
}
