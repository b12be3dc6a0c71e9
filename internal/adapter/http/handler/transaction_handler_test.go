package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/openfx/backoffice/internal/adapter/http/dto"
	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
	"github.com/openfx/backoffice/internal/usecase/mocks"
)

type handlerFixture struct {
	handler *TransactionHandler
	stocks  *mocks.MockStockRepository
	journal *mocks.MockJournalRepository
	today   time.Time
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	ctx := context.Background()

	currencies := mocks.NewMockCurrencyRepository()
	_ = currencies.Create(ctx, &domain.Currency{ID: "cur-ars", Code: "ARS", Name: "Peso", IsBase: true, Active: true})
	_ = currencies.Create(ctx, &domain.Currency{ID: "cur-usd", Code: "USD", Name: "Dollar", Active: true})

	clients := mocks.NewMockClientRepository()

	types := mocks.NewMockMovementTypeRepository()
	_ = types.Create(ctx, &domain.MovementType{
		ID: "mt-sell", Name: "venta", Direction: domain.DirectionSell, RequiresRate: true,
	})

	f := &handlerFixture{
		stocks:  mocks.NewMockStockRepository(),
		journal: mocks.NewMockJournalRepository(),
		today:   time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	uc := usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(), f.journal, f.stocks, mocks.NewMockAccountRepository(),
		types, currencies, clients, mocks.NewMockParameterStore(), mocks.NewMockIDGenerator(),
	).WithNow(func() time.Time { return f.today })

	f.handler = NewTransactionHandler(uc, nil, mocks.NewMockIDGenerator())

	return f
}

func TestTransactionHandler_ProcessCreatesEntry(t *testing.T) {
	f := newHandlerFixture(t)
	f.stocks.SetBalance("cur-usd", decimal.NewFromInt(1000))

	body := `{"movement_type_id":"mt-sell","currency_id":"cur-usd","amount":"100","rate":"1000","operation_date":"2025-03-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	rr := httptest.NewRecorder()

	f.handler.Process(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp dto.JournalEntryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Out == nil || resp.Out.CurrencyID != "cur-usd" {
		t.Fatalf("expected outgoing USD leg, got %+v", resp.Out)
	}

	if resp.Status != string(domain.EntryStatusActive) {
		t.Fatalf("expected active entry, got %s", resp.Status)
	}
}

func TestTransactionHandler_ProcessRejectsBadDate(t *testing.T) {
	f := newHandlerFixture(t)

	body := `{"movement_type_id":"mt-sell","currency_id":"cur-usd","amount":"100","operation_date":"15/03/2025"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	rr := httptest.NewRecorder()

	f.handler.Process(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestTransactionHandler_ProcessInsufficientStock(t *testing.T) {
	f := newHandlerFixture(t)
	f.stocks.SetBalance("cur-usd", decimal.NewFromInt(10))

	body := `{"movement_type_id":"mt-sell","currency_id":"cur-usd","amount":"100","rate":"1000","operation_date":"2025-03-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	rr := httptest.NewRecorder()

	f.handler.Process(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestTransactionHandler_ProcessWritesAuditLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newHandlerFixture(t)
	f.stocks.SetBalance("cur-usd", decimal.NewFromInt(1000))

	written := make(chan *domain.AuditLog, 1)
	audit := mocks.NewMockAuditRepository(ctrl)
	audit.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, entry *domain.AuditLog) error {
			written <- entry
			return nil
		})
	f.handler.auditRepo = audit

	body := `{"movement_type_id":"mt-sell","currency_id":"cur-usd","amount":"100","rate":"1000","operation_date":"2025-03-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	rr := httptest.NewRecorder()

	f.handler.Process(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	select {
	case entry := <-written:
		if entry.Action != "transaction.process" {
			t.Errorf("expected action transaction.process, got %s", entry.Action)
		}
		if entry.Status != domain.AuditStatusSuccess {
			t.Errorf("expected success status, got %s", entry.Status)
		}
		if entry.ResourceID == "" {
			t.Error("expected the audit row to reference the created entry")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("audit log write never happened")
	}
}

func TestTransactionHandler_ReverseTwiceConflicts(t *testing.T) {
	f := newHandlerFixture(t)
	f.stocks.SetBalance("cur-usd", decimal.NewFromInt(1000))

	body := `{"movement_type_id":"mt-sell","currency_id":"cur-usd","amount":"100","rate":"1000","operation_date":"2025-03-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	rr := httptest.NewRecorder()
	f.handler.Process(rr, req)

	var resp dto.JournalEntryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	reverse := func() *httptest.ResponseRecorder {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", resp.ID)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/"+resp.ID+"/reverse", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rec := httptest.NewRecorder()
		f.handler.Reverse(rec, req)
		return rec
	}

	if rec := reverse(); rec.Code != http.StatusOK {
		t.Fatalf("expected first reversal to succeed, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := reverse(); rec.Code != http.StatusConflict {
		t.Fatalf("expected second reversal to conflict, got %d", rec.Code)
	}
}
