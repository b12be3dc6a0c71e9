package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfx/backoffice/internal/domain"
	"github.com/openfx/backoffice/internal/usecase"
)

// DateLayout is the wire format of operation dates.
const DateLayout = "2006-01-02"

// ProcessTransactionRequest represents a request to book an operation.
type ProcessTransactionRequest struct {
	MovementTypeID string           `json:"movement_type_id"`
	CurrencyID     string           `json:"currency_id"`
	Amount         decimal.Decimal  `json:"amount"`
	ClientID       *string          `json:"client_id,omitempty"`
	Rate           *decimal.Decimal `json:"rate,omitempty"`
	Note           string           `json:"note,omitempty"`
	OperationDate  string           `json:"operation_date"`
}

// ToUseCaseInput converts to use case input.
func (r *ProcessTransactionRequest) ToUseCaseInput() (usecase.ProcessInput, error) {
	operationDate, err := parseDate(r.OperationDate)
	if err != nil {
		return usecase.ProcessInput{}, err
	}

	return usecase.ProcessInput{
		MovementTypeID: r.MovementTypeID,
		CurrencyID:     r.CurrencyID,
		Amount:         r.Amount,
		ClientID:       r.ClientID,
		Rate:           r.Rate,
		Note:           r.Note,
		OperationDate:  operationDate,
	}, nil
}

// UpdateEntryDetailsRequest represents an edit of the fields mutable without
// a reversal.
type UpdateEntryDetailsRequest struct {
	Note          string  `json:"note"`
	ClientID      *string `json:"client_id,omitempty"`
	OperationDate string  `json:"operation_date"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryDetailsRequest) ToUseCaseInput(entryID string) (usecase.UpdateEntryDetailsInput, error) {
	operationDate, err := parseDate(r.OperationDate)
	if err != nil {
		return usecase.UpdateEntryDetailsInput{}, err
	}

	return usecase.UpdateEntryDetailsInput{
		EntryID:       entryID,
		Note:          r.Note,
		ClientID:      r.ClientID,
		OperationDate: operationDate,
	}, nil
}

// CreateCurrencyRequest represents a request to create a currency.
type CreateCurrencyRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
	IsBase bool   `json:"is_base"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCurrencyRequest) ToUseCaseInput() usecase.CreateCurrencyInput {
	return usecase.CreateCurrencyInput{
		Code:   r.Code,
		Name:   r.Name,
		Symbol: r.Symbol,
		IsBase: r.IsBase,
	}
}

// UpdateCurrencyRequest represents a currency update.
type UpdateCurrencyRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
	Active bool   `json:"active"`
}

// ToUseCaseInput converts to use case input carrying the target ID.
func (r *UpdateCurrencyRequest) ToUseCaseInput(id string) usecase.UpdateCurrencyInput {
	return usecase.UpdateCurrencyInput{
		ID:     id,
		Code:   r.Code,
		Name:   r.Name,
		Symbol: r.Symbol,
		Active: r.Active,
	}
}

// CreateClientRequest represents a request to create a client.
type CreateClientRequest struct {
	Alias     string `json:"alias"`
	LegalName string `json:"legal_name,omitempty"`
	IsVip     bool   `json:"is_vip"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateClientRequest) ToUseCaseInput() usecase.CreateClientInput {
	return usecase.CreateClientInput{
		Alias:     r.Alias,
		LegalName: r.LegalName,
		IsVip:     r.IsVip,
	}
}

// UpdateClientRequest represents a client update.
type UpdateClientRequest struct {
	Alias     string `json:"alias"`
	LegalName string `json:"legal_name,omitempty"`
	IsVip     bool   `json:"is_vip"`
}

// ToDomain converts to a domain client carrying the target ID.
func (r *UpdateClientRequest) ToDomain(id string) *domain.Client {
	return &domain.Client{
		ID:        id,
		Alias:     r.Alias,
		LegalName: r.LegalName,
		IsVip:     r.IsVip,
	}
}

// MovementTypeRequest represents a movement-type create or update.
type MovementTypeRequest struct {
	Name                  string   `json:"name"`
	Direction             string   `json:"direction,omitempty"`
	BookingSide           *string  `json:"booking_side,omitempty"`
	RequiresCounterparty  bool     `json:"requires_counterparty"`
	CounterpartyMandatory bool     `json:"counterparty_mandatory"`
	RequiresRate          bool     `json:"requires_rate"`
	RequiresNote          bool     `json:"requires_note"`
	PostsToRunningAccount bool     `json:"posts_to_running_account"`
	OperationGroup        string   `json:"operation_group,omitempty"`
	AllowedCurrencyIDs    []string `json:"allowed_currency_ids,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *MovementTypeRequest) ToUseCaseInput() usecase.CreateMovementTypeInput {
	return usecase.CreateMovementTypeInput{
		Name:                  r.Name,
		Direction:             domain.Direction(r.Direction),
		BookingSide:           r.bookingSide(),
		RequiresCounterparty:  r.RequiresCounterparty,
		CounterpartyMandatory: r.CounterpartyMandatory,
		RequiresRate:          r.RequiresRate,
		RequiresNote:          r.RequiresNote,
		PostsToRunningAccount: r.PostsToRunningAccount,
		OperationGroup:        r.OperationGroup,
		AllowedCurrencyIDs:    r.AllowedCurrencyIDs,
	}
}

// ToDomain converts to a domain movement type carrying the target ID.
func (r *MovementTypeRequest) ToDomain(id string) *domain.MovementType {
	return &domain.MovementType{
		ID:                    id,
		Name:                  r.Name,
		Direction:             domain.Direction(r.Direction),
		BookingSide:           r.bookingSide(),
		RequiresCounterparty:  r.RequiresCounterparty,
		CounterpartyMandatory: r.CounterpartyMandatory,
		RequiresRate:          r.RequiresRate,
		RequiresNote:          r.RequiresNote,
		PostsToRunningAccount: r.PostsToRunningAccount,
		OperationGroup:        r.OperationGroup,
		AllowedCurrencyIDs:    r.AllowedCurrencyIDs,
	}
}

func (r *MovementTypeRequest) bookingSide() *domain.BookingSide {
	if r.BookingSide == nil {
		return nil
	}
	side := domain.BookingSide(*r.BookingSide)
	return &side
}

// UpdateSettingsRequest represents an update of the engine parameters.
type UpdateSettingsRequest struct {
	StockControl *bool              `json:"stock_control,omitempty"`
	DateWindow   *DateWindowPayload `json:"date_window,omitempty"`
}

// DateWindowPayload is the wire shape of the date edit window.
type DateWindowPayload struct {
	Enabled   bool `json:"enabled"`
	GraceDays int  `json:"grace_days"`
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}
