package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/openfx/backoffice/internal/adapter/http/handler"
	apimiddleware "github.com/openfx/backoffice/internal/adapter/http/middleware"
	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
	"github.com/openfx/backoffice/internal/usecase/mocks"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIdempotencyStore(ctrl)
	store.EXPECT().CheckAndSet(gomock.Any(), "key-123", gomock.Any(), gomock.Any()).
		Return(false, nil, nil)

	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"movement_type_id":"mt","currency_id":"cur","amount":"10","operation_date":"2026-09-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/transactions/",
		"GET /api/v1/transactions/",
		"GET /api/v1/transactions/{id}",
		"PATCH /api/v1/transactions/{id}",
		"POST /api/v1/transactions/{id}/reverse",
		"GET /api/v1/stocks/",
		"GET /api/v1/clients/{id}/accounts",
		"GET /api/v1/clients/{id}/movements",
		"POST /api/v1/movement-types/",
		"POST /api/v1/currencies/",
		"PUT /api/v1/currencies/{id}",
		"PUT /api/v1/settings/",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	txManager := mocks.NewMockTransactionManager()
	journalRepo := mocks.NewMockJournalRepository()
	stockRepo := mocks.NewMockStockRepository()
	accountRepo := mocks.NewMockAccountRepository()
	movementTypeRepo := mocks.NewMockMovementTypeRepository()
	currencyRepo := mocks.NewMockCurrencyRepository()
	clientRepo := mocks.NewMockClientRepository()
	params := mocks.NewMockParameterStore()
	idGen := mocks.NewMockIDGenerator()

	transactionUC := usecase.NewTransactionUseCase(
		txManager, journalRepo, stockRepo, accountRepo,
		movementTypeRepo, currencyRepo, clientRepo, params, idGen)
	journalUC := usecase.NewJournalUseCase(journalRepo, clientRepo, params)
	stockUC := usecase.NewStockUseCase(stockRepo)
	accountUC := usecase.NewAccountUseCase(accountRepo, clientRepo)
	catalogUC := usecase.NewCatalogUseCase(currencyRepo, clientRepo, movementTypeRepo, idGen)

	cfg := RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC, nil, idGen),
		JournalHandler:     handler.NewJournalHandler(journalUC),
		StockHandler:       handler.NewStockHandler(stockUC),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		CatalogHandler:     handler.NewCatalogHandler(catalogUC),
		SettingsHandler:    handler.NewSettingsHandler(&stubSettingsStore{}),
		HealthHandler:      &handler.HealthHandler{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubSettingsStore struct{}

func (stubSettingsStore) StockControl(ctx context.Context) (bool, error) { return true, nil }

func (stubSettingsStore) DateWindow(ctx context.Context) (domain.DateWindow, error) {
	return domain.DateWindow{Enabled: true}, nil
}

func (stubSettingsStore) SetStockControl(ctx context.Context, enabled bool) error { return nil }

func (stubSettingsStore) SetDateWindow(ctx context.Context, window domain.DateWindow) error {
	return nil
}
