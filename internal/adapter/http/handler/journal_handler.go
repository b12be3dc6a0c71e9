package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openfx/backoffice/internal/adapter/http/dto"
	"github.com/openfx/backoffice/internal/usecase"
)

// JournalHandler handles daily-journal read and edit requests.
type JournalHandler struct {
	journalUC *usecase.JournalUseCase
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalUC *usecase.JournalUseCase) *JournalHandler {
	return &JournalHandler{journalUC: journalUC}
}

// Get retrieves a journal entry by ID.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.journalUC.GetEntry(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get entry", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

// List lists journal entries by operation-date range. Defaults to today.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	entries, err := h.journalUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		From:   from,
		To:     to,
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntriesFromDomain(entries))
}

// UpdateDetails edits the fields mutable without a reversal.
func (h *JournalHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.UpdateEntryDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid operation date", err.Error())
		return
	}

	entry, err := h.journalUC.UpdateEntryDetails(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update entry", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

func parseDateRange(r *http.Request) (from, to time.Time, err error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	from, to = today, today

	if v := r.URL.Query().Get("from"); v != "" {
		from, err = time.Parse(dto.DateLayout, v)
		if err != nil {
			return from, to, err
		}
	}

	if v := r.URL.Query().Get("to"); v != "" {
		to, err = time.Parse(dto.DateLayout, v)
		if err != nil {
			return from, to, err
		}
	}

	return from, to, nil
}
