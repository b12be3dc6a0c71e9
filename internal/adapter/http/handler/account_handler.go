package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openfx/backoffice/internal/adapter/http/dto"
	"github.com/openfx/backoffice/internal/usecase"
)

// AccountHandler handles running-account read requests. Balances and
// movements are only written by the transaction engine, so the surface here
// is read-only.
type AccountHandler struct {
	accountUC *usecase.AccountUseCase
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC *usecase.AccountUseCase) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// ListBalances lists every currency balance of a client.
func (h *AccountHandler) ListBalances(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	balances, err := h.accountUC.ListBalances(r.Context(), clientID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list balances", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AccountBalancesFromDomain(balances))
}

// GetBalance returns the balance of one (client, currency) pair.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	currencyID := chi.URLParam(r, "currencyID")
	if clientID == "" || currencyID == "" {
		writeError(w, http.StatusBadRequest, "missing client or currency ID", "")
		return
	}

	balance, err := h.accountUC.GetBalance(r.Context(), clientID, currencyID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AccountBalanceFromDomain(balance))
}

// ListMovements lists the running-account movement log of a client.
func (h *AccountHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	movements, err := h.accountUC.ListMovements(r.Context(), usecase.ListMovementsInput{
		ClientID: clientID,
		Limit:    parseIntQuery(r, "limit", 50),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list movements", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AccountMovementsFromDomain(movements))
}
