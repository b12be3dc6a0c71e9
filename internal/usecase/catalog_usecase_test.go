package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
	"github.com/openfx/backoffice/internal/usecase/mocks"
)

func newCatalogFixture(t *testing.T) (*usecase.CatalogUseCase, *mocks.MockCurrencyRepository) {
	t.Helper()

	currencies := mocks.NewMockCurrencyRepository()
	uc := usecase.NewCatalogUseCase(
		currencies,
		mocks.NewMockClientRepository(),
		mocks.NewMockMovementTypeRepository(),
		mocks.NewMockIDGenerator(),
	)

	return uc, currencies
}

func TestCreateCurrency_SingleBaseInvariant(t *testing.T) {
	uc, currencies := newCatalogFixture(t)
	ctx := context.Background()

	ars, err := uc.CreateCurrency(ctx, usecase.CreateCurrencyInput{Code: "ars", Name: "Peso", IsBase: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ars.Code != "ARS" {
		t.Errorf("expected upper-cased code ARS, got %s", ars.Code)
	}

	usd, err := uc.CreateCurrency(ctx, usecase.CreateCurrencyInput{Code: "USD", Name: "Dollar", IsBase: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base, err := currencies.GetBase(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if base.ID != usd.ID {
		t.Errorf("expected USD to be the single base, got %s", base.Code)
	}

	prev, _ := currencies.GetByID(ctx, ars.ID)
	if prev.IsBase {
		t.Error("expected previous base currency unflagged")
	}
}

func TestUpdateCurrency(t *testing.T) {
	uc, currencies := newCatalogFixture(t)
	ctx := context.Background()

	usd, err := uc.CreateCurrency(ctx, usecase.CreateCurrencyInput{Code: "USD", Name: "Dollar"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := uc.UpdateCurrency(ctx, usecase.UpdateCurrencyInput{
		ID:     usd.ID,
		Code:   "usd",
		Name:   "US Dollar",
		Symbol: "$",
		Active: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Code != "USD" {
		t.Errorf("expected upper-cased code USD, got %s", updated.Code)
	}
	if updated.Name != "US Dollar" || updated.Symbol != "$" || updated.Active {
		t.Errorf("unexpected updated currency: %+v", updated)
	}

	stored, _ := currencies.GetByID(ctx, usd.ID)
	if stored.Name != "US Dollar" {
		t.Errorf("expected update persisted, got %+v", stored)
	}

	_, err = uc.UpdateCurrency(ctx, usecase.UpdateCurrencyInput{ID: "missing", Code: "EUR"})
	if !errors.Is(err, domain.ErrCurrencyNotFound) {
		t.Errorf("expected ErrCurrencyNotFound, got %v", err)
	}
}

func TestDeleteCurrency_BaseProtected(t *testing.T) {
	uc, _ := newCatalogFixture(t)
	ctx := context.Background()

	ars, err := uc.CreateCurrency(ctx, usecase.CreateCurrencyInput{Code: "ARS", IsBase: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = uc.DeleteCurrency(ctx, ars.ID)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateMovementType_ConfigValidation(t *testing.T) {
	uc, _ := newCatalogFixture(t)
	ctx := context.Background()

	_, err := uc.CreateMovementType(ctx, usecase.CreateMovementTypeInput{
		Name:                  "retiro cta cte",
		PostsToRunningAccount: true,
	})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for indeterminate posting type, got %v", err)
	}

	side := domain.BookingSideOut
	mt, err := uc.CreateMovementType(ctx, usecase.CreateMovementTypeInput{
		Name:                  "retiro cta cte",
		BookingSide:           &side,
		PostsToRunningAccount: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if direction, ok := mt.ResolveDirection(); !ok || direction != domain.DirectionOut {
		t.Errorf("expected resolvable OUT direction, got %s (ok=%v)", direction, ok)
	}
}
