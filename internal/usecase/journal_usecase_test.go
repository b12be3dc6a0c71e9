package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
	"github.com/openfx/backoffice/internal/usecase/mocks"
)

func newJournalFixture(t *testing.T) (*usecase.JournalUseCase, *mocks.MockJournalRepository, *mocks.MockParameterStore, time.Time) {
	t.Helper()

	journal := mocks.NewMockJournalRepository()
	params := mocks.NewMockParameterStore()
	clients := mocks.NewMockClientRepository()
	_ = clients.Create(context.Background(), &domain.Client{ID: clientVIP, Alias: "vip", IsVip: true})

	today := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	uc := usecase.NewJournalUseCase(journal, clients, params).
		WithNow(func() time.Time { return today })

	return uc, journal, params, today
}

func seedEntry(t *testing.T, journal *mocks.MockJournalRepository, id string, opDate time.Time) *domain.JournalEntry {
	t.Helper()

	entry := &domain.JournalEntry{
		ID:             id,
		OperationDate:  opDate,
		MovementTypeID: "mt-in",
		In:             &domain.Leg{CurrencyID: curUSD, Amount: decimal.NewFromInt(10)},
		Status:         domain.EntryStatusActive,
	}
	if err := journal.Create(context.Background(), nil, entry); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	return entry
}

func TestUpdateEntryDetails(t *testing.T) {
	uc, journal, _, today := newJournalFixture(t)
	seedEntry(t, journal, "e-1", today)

	clientID := clientVIP
	updated, err := uc.UpdateEntryDetails(context.Background(), usecase.UpdateEntryDetailsInput{
		EntryID:       "e-1",
		Note:          "  corrected note ",
		ClientID:      &clientID,
		OperationDate: today,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Note != "corrected note" {
		t.Errorf("expected trimmed note, got %q", updated.Note)
	}

	if updated.ClientID == nil || *updated.ClientID != clientVIP {
		t.Errorf("expected client set, got %v", updated.ClientID)
	}
}

func TestUpdateEntryDetails_ReversedEntryRejected(t *testing.T) {
	uc, journal, _, today := newJournalFixture(t)
	entry := seedEntry(t, journal, "e-1", today)
	_ = journal.MarkReversed(context.Background(), nil, entry.ID, today)

	_, err := uc.UpdateEntryDetails(context.Background(), usecase.UpdateEntryDetailsInput{
		EntryID:       "e-1",
		OperationDate: today,
	})

	if !errors.Is(err, domain.ErrAlreadyReversed) {
		t.Fatalf("expected ErrAlreadyReversed, got %v", err)
	}
}

func TestUpdateEntryDetails_NewDateOutsideWindow(t *testing.T) {
	uc, journal, params, today := newJournalFixture(t)
	seedEntry(t, journal, "e-1", today)
	params.Window = domain.DateWindow{Enabled: true, GraceDays: 2}

	_, err := uc.UpdateEntryDetails(context.Background(), usecase.UpdateEntryDetailsInput{
		EntryID:       "e-1",
		OperationDate: today.AddDate(0, 0, -10),
	})

	var closed *domain.DateWindowError
	if !errors.As(err, &closed) {
		t.Fatalf("expected DateWindowError, got %v", err)
	}
}

func TestUpdateEntryDetails_CurrentDateOutsideWindow(t *testing.T) {
	uc, journal, params, today := newJournalFixture(t)
	seedEntry(t, journal, "e-1", today.AddDate(0, 0, -10))
	params.Window = domain.DateWindow{Enabled: true, GraceDays: 2}

	_, err := uc.UpdateEntryDetails(context.Background(), usecase.UpdateEntryDetailsInput{
		EntryID:       "e-1",
		OperationDate: today,
	})

	var closed *domain.DateWindowError
	if !errors.As(err, &closed) {
		t.Fatalf("expected DateWindowError, got %v", err)
	}
}
