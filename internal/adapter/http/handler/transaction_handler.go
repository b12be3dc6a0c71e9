package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/openfx/backoffice/internal/adapter/http/dto"
	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
)

// TransactionHandler handles transaction processing and reversal requests.
type TransactionHandler struct {
	transactionUC *usecase.TransactionUseCase
	auditRepo     usecase.AuditRepository
	idGen         usecase.IDGenerator
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC *usecase.TransactionUseCase, auditRepo usecase.AuditRepository, idGen usecase.IDGenerator) *TransactionHandler {
	return &TransactionHandler{
		transactionUC: transactionUC,
		auditRepo:     auditRepo,
		idGen:         idGen,
	}
}

// Process books a new operation.
func (h *TransactionHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req dto.ProcessTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid operation date", err.Error())
		return
	}

	entry, err := h.transactionUC.Process(r.Context(), input)
	if err != nil {
		h.audit("transaction.process", "", err)
		status := mapDomainError(err)
		writeError(w, status, "failed to process transaction", err.Error())

		return
	}

	h.audit("transaction.process", entry.ID, nil)
	writeJSON(w, http.StatusCreated, dto.JournalEntryFromDomain(entry))
}

// Reverse applies the algebraic inverse of a committed entry.
func (h *TransactionHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	if err := h.transactionUC.Reverse(r.Context(), id); err != nil {
		h.audit("transaction.reverse", id, err)
		status := mapDomainError(err)
		writeError(w, status, "failed to reverse transaction", err.Error())

		return
	}

	h.audit("transaction.reverse", id, nil)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reversed"})
}

// audit records the outcome of an engine operation, fire-and-forget. The
// request context is not reused: the audit row must land even when the
// caller has gone away.
func (h *TransactionHandler) audit(action, resourceID string, opErr error) {
	if h.auditRepo == nil {
		return
	}

	entry := &domain.AuditLog{
		ID:           h.idGen.Generate(),
		Action:       action,
		ResourceType: "journal_entry",
		ResourceID:   resourceID,
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    time.Now().UTC(),
	}
	if opErr != nil {
		entry.Status = domain.AuditStatusFailure
		entry.ErrorMessage = opErr.Error()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.auditRepo.Create(ctx, entry); err != nil {
			log.Warn().Err(err).Str("action", action).Msg("audit log write failed")
		}
	}()
}
