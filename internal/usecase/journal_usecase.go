package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openfx/backoffice/internal/domain"
)

// JournalUseCase handles read access and detail edits on the daily journal.
type JournalUseCase struct {
	journalRepo JournalRepository
	clientRepo  ClientRepository
	params      ParameterStore
	now         func() time.Time
}

// NewJournalUseCase creates a new JournalUseCase.
func NewJournalUseCase(journalRepo JournalRepository, clientRepo ClientRepository, params ParameterStore) *JournalUseCase {
	return &JournalUseCase{
		journalRepo: journalRepo,
		clientRepo:  clientRepo,
		params:      params,
		now:         time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (uc *JournalUseCase) WithNow(now func() time.Time) *JournalUseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

// GetEntry retrieves a journal entry by ID.
func (uc *JournalUseCase) GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.journalRepo.GetByID(ctx, id)
}

// ListEntriesInput represents input for listing journal entries.
type ListEntriesInput struct {
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// ListEntries lists journal entries by operation-date range.
func (uc *JournalUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.JournalEntry, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}

	if input.Limit > 500 {
		input.Limit = 500
	}

	return uc.journalRepo.ListByDateRange(ctx, input.From, input.To, input.Limit, input.Offset)
}

// UpdateEntryDetailsInput carries the only fields editable without a
// reversal: note, client and operation date.
type UpdateEntryDetailsInput struct {
	EntryID       string
	Note          string
	ClientID      *string
	OperationDate time.Time
}

// UpdateEntryDetails edits the mutable fields of an active entry. Amounts,
// rate, type and currencies stay immutable; changing those requires a
// reversal and a new entry. Both the entry's current date and the new date
// must fall inside the edit window.
func (uc *JournalUseCase) UpdateEntryDetails(ctx context.Context, input UpdateEntryDetailsInput) (*domain.JournalEntry, error) {
	entry, err := uc.journalRepo.GetByID(ctx, input.EntryID)
	if err != nil {
		return nil, err
	}

	if entry.Reversed() {
		return nil, domain.ErrAlreadyReversed
	}

	if input.OperationDate.IsZero() {
		return nil, &domain.ValidationError{Field: "operation_date", Reason: "operation date is required"}
	}

	window, err := uc.params.DateWindow(ctx)
	if err != nil {
		return nil, fmt.Errorf("load date window: %w", err)
	}

	today := uc.now()
	if !window.Allows(today, entry.OperationDate) {
		return nil, &domain.DateWindowError{OperationDate: entry.OperationDate, Window: window}
	}
	if !window.Allows(today, input.OperationDate) {
		return nil, &domain.DateWindowError{OperationDate: input.OperationDate, Window: window}
	}

	if input.ClientID != nil {
		if _, err := uc.clientRepo.GetByID(ctx, *input.ClientID); err != nil {
			return nil, err
		}
	}

	note := strings.TrimSpace(input.Note)
	if err := uc.journalRepo.UpdateDetails(ctx, entry.ID, note, input.ClientID, input.OperationDate); err != nil {
		return nil, err
	}

	return uc.journalRepo.GetByID(ctx, entry.ID)
}
