package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/openfx/backoffice/internal/adapter/http/dto"
	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
)

// SettingsStore is the read-write view of the parameter store the admin
// surface needs.
type SettingsStore interface {
	usecase.ParameterStore
	SetStockControl(ctx context.Context, enabled bool) error
	SetDateWindow(ctx context.Context, window domain.DateWindow) error
}

// SettingsHandler handles the engine-parameter admin surface.
type SettingsHandler struct {
	store SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get returns the current engine parameters.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.store.StockControl(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read settings", err.Error())
		return
	}

	window, err := h.store.DateWindow(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read settings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettingsResponse{
		StockControl: enabled,
		DateWindow:   dto.DateWindowPayload{Enabled: window.Enabled, GraceDays: window.GraceDays},
	})
}

// Update stores the provided engine parameters. Absent fields are left
// untouched.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.StockControl != nil {
		if err := h.store.SetStockControl(r.Context(), *req.StockControl); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update settings", err.Error())
			return
		}
	}

	if req.DateWindow != nil {
		window := domain.DateWindow{Enabled: req.DateWindow.Enabled, GraceDays: req.DateWindow.GraceDays}
		if window.GraceDays < 0 {
			writeError(w, http.StatusBadRequest, "invalid settings", "grace days must not be negative")
			return
		}

		if err := h.store.SetDateWindow(r.Context(), window); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update settings", err.Error())
			return
		}
	}

	h.Get(w, r)
}
