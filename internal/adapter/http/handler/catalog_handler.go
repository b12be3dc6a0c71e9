package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openfx/backoffice/internal/adapter/http/dto"
	"github.com/openfx/backoffice/internal/usecase"
)

// CatalogHandler handles the catalog admin surface: currencies, clients and
// movement types.
type CatalogHandler struct {
	catalogUC *usecase.CatalogUseCase
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogUC *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC}
}

// CreateCurrency creates a currency.
func (h *CatalogHandler) CreateCurrency(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	currency, err := h.catalogUC.CreateCurrency(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create currency", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.CurrencyFromDomain(currency))
}

// ListCurrencies lists active currencies.
func (h *CatalogHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.catalogUC.ListCurrencies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list currencies", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrenciesFromDomain(currencies))
}

// GetCurrency retrieves a currency by ID.
func (h *CatalogHandler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	currency, err := h.catalogUC.GetCurrency(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get currency", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyFromDomain(currency))
}

// UpdateCurrency updates a currency's editable fields.
func (h *CatalogHandler) UpdateCurrency(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	currency, err := h.catalogUC.UpdateCurrency(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update currency", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyFromDomain(currency))
}

// SetBaseCurrency designates the single base currency.
func (h *CatalogHandler) SetBaseCurrency(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.catalogUC.SetBaseCurrency(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to set base currency", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteCurrency soft-deletes a currency.
func (h *CatalogHandler) DeleteCurrency(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteCurrency(r.Context(), chi.URLParam(r, "id")); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete currency", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateClient creates a client.
func (h *CatalogHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	client, err := h.catalogUC.CreateClient(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create client", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ClientFromDomain(client))
}

// ListClients lists clients.
func (h *CatalogHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.catalogUC.ListClients(r.Context(),
		parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list clients", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientsFromDomain(clients))
}

// GetClient retrieves a client by ID.
func (h *CatalogHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.catalogUC.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get client", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// UpdateClient updates a client.
func (h *CatalogHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	client, err := h.catalogUC.UpdateClient(r.Context(), req.ToDomain(chi.URLParam(r, "id")))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update client", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// DeleteClient soft-deletes a client.
func (h *CatalogHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete client", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateMovementType creates a movement type.
func (h *CatalogHandler) CreateMovementType(w http.ResponseWriter, r *http.Request) {
	var req dto.MovementTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movementType, err := h.catalogUC.CreateMovementType(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create movement type", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementTypeFromDomain(movementType))
}

// ListMovementTypes lists movement types.
func (h *CatalogHandler) ListMovementTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalogUC.ListMovementTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list movement types", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementTypesFromDomain(types))
}

// GetMovementType retrieves a movement type by ID.
func (h *CatalogHandler) GetMovementType(w http.ResponseWriter, r *http.Request) {
	movementType, err := h.catalogUC.GetMovementType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get movement type", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MovementTypeFromDomain(movementType))
}

// UpdateMovementType updates a movement type.
func (h *CatalogHandler) UpdateMovementType(w http.ResponseWriter, r *http.Request) {
	var req dto.MovementTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movementType, err := h.catalogUC.UpdateMovementType(r.Context(), req.ToDomain(chi.URLParam(r, "id")))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update movement type", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MovementTypeFromDomain(movementType))
}

// DeleteMovementType soft-deletes a movement type.
func (h *CatalogHandler) DeleteMovementType(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteMovementType(r.Context(), chi.URLParam(r, "id")); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete movement type", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
