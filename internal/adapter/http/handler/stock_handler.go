package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openfx/backoffice/internal/adapter/http/dto"
	"github.com/openfx/backoffice/internal/usecase"
)

// StockHandler handles currency-stock read requests. There is no mutation
// surface: stock changes only through the transaction engine.
type StockHandler struct {
	stockUC *usecase.StockUseCase
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockUC *usecase.StockUseCase) *StockHandler {
	return &StockHandler{stockUC: stockUC}
}

// List lists every currency-stock balance.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.stockUC.ListStocks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list stocks", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StocksFromDomain(stocks))
}

// Get returns the stock balance of one currency.
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	currencyID := chi.URLParam(r, "currencyID")
	if currencyID == "" {
		writeError(w, http.StatusBadRequest, "missing currency ID", "")
		return
	}

	stock, err := h.stockUC.GetStock(r.Context(), currencyID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get stock", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.StockFromDomain(stock))
}
