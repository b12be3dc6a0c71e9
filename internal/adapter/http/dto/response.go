package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfx/backoffice/internal/domain"
)

// LegResponse represents one currency leg of a journal entry.
type LegResponse struct {
	CurrencyID string          `json:"currency_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// JournalEntryResponse represents a journal entry in API responses.
type JournalEntryResponse struct {
	ID             string           `json:"id"`
	OperationDate  string           `json:"operation_date"`
	MovementTypeID string           `json:"movement_type_id"`
	ClientID       *string          `json:"client_id,omitempty"`
	In             *LegResponse     `json:"in,omitempty"`
	Out            *LegResponse     `json:"out,omitempty"`
	Rate           *decimal.Decimal `json:"rate,omitempty"`
	Note           string           `json:"note,omitempty"`
	AffectsStock   bool             `json:"affects_stock"`
	Status         string           `json:"status"`
	ReversedAt     *time.Time       `json:"reversed_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// JournalEntryFromDomain converts a domain entry to a response.
func JournalEntryFromDomain(e *domain.JournalEntry) *JournalEntryResponse {
	resp := &JournalEntryResponse{
		ID:             e.ID,
		OperationDate:  e.OperationDate.Format(DateLayout),
		MovementTypeID: e.MovementTypeID,
		ClientID:       e.ClientID,
		Rate:           e.Rate,
		Note:           e.Note,
		AffectsStock:   e.AffectsStock,
		Status:         string(e.Status),
		ReversedAt:     e.ReversedAt,
		CreatedAt:      e.CreatedAt,
	}

	if e.In != nil {
		resp.In = &LegResponse{CurrencyID: e.In.CurrencyID, Amount: e.In.Amount}
	}
	if e.Out != nil {
		resp.Out = &LegResponse{CurrencyID: e.Out.CurrencyID, Amount: e.Out.Amount}
	}

	return resp
}

// JournalEntriesFromDomain converts domain entries to responses.
func JournalEntriesFromDomain(entries []*domain.JournalEntry) []*JournalEntryResponse {
	result := make([]*JournalEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = JournalEntryFromDomain(e)
	}
	return result
}

// StockResponse represents a currency-stock balance in API responses.
type StockResponse struct {
	CurrencyID string          `json:"currency_id"`
	Balance    decimal.Decimal `json:"balance"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// StockFromDomain converts a domain stock to a response.
func StockFromDomain(s *domain.CurrencyStock) *StockResponse {
	return &StockResponse{
		CurrencyID: s.CurrencyID,
		Balance:    s.Balance,
		UpdatedAt:  s.UpdatedAt,
	}
}

// StocksFromDomain converts domain stocks to responses.
func StocksFromDomain(stocks []*domain.CurrencyStock) []*StockResponse {
	result := make([]*StockResponse, len(stocks))
	for i, s := range stocks {
		result[i] = StockFromDomain(s)
	}
	return result
}

// AccountBalanceResponse represents a running-account balance.
type AccountBalanceResponse struct {
	ClientID   string          `json:"client_id"`
	CurrencyID string          `json:"currency_id"`
	Balance    decimal.Decimal `json:"balance"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// AccountBalanceFromDomain converts a domain account to a response.
func AccountBalanceFromDomain(a *domain.ClientAccount) *AccountBalanceResponse {
	return &AccountBalanceResponse{
		ClientID:   a.ClientID,
		CurrencyID: a.CurrencyID,
		Balance:    a.Balance,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountBalancesFromDomain converts domain accounts to responses.
func AccountBalancesFromDomain(accounts []*domain.ClientAccount) []*AccountBalanceResponse {
	result := make([]*AccountBalanceResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountBalanceFromDomain(a)
	}
	return result
}

// AccountMovementResponse represents one running-account movement.
type AccountMovementResponse struct {
	ID             string          `json:"id"`
	MovementDate   string          `json:"movement_date"`
	ClientID       string          `json:"client_id"`
	CurrencyID     string          `json:"currency_id"`
	InAmount       decimal.Decimal `json:"in_amount"`
	OutAmount      decimal.Decimal `json:"out_amount"`
	Note           string          `json:"note,omitempty"`
	JournalEntryID *string         `json:"journal_entry_id,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AccountMovementFromDomain converts a domain movement to a response.
func AccountMovementFromDomain(m *domain.ClientAccountMovement) *AccountMovementResponse {
	return &AccountMovementResponse{
		ID:             m.ID,
		MovementDate:   m.MovementDate.Format(DateLayout),
		ClientID:       m.ClientID,
		CurrencyID:     m.CurrencyID,
		InAmount:       m.InAmount,
		OutAmount:      m.OutAmount,
		Note:           m.Note,
		JournalEntryID: m.JournalEntryID,
		Status:         string(m.Status),
		CreatedAt:      m.CreatedAt,
	}
}

// AccountMovementsFromDomain converts domain movements to responses.
func AccountMovementsFromDomain(movements []*domain.ClientAccountMovement) []*AccountMovementResponse {
	result := make([]*AccountMovementResponse, len(movements))
	for i, m := range movements {
		result[i] = AccountMovementFromDomain(m)
	}
	return result
}

// CurrencyResponse represents a currency in API responses.
type CurrencyResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol,omitempty"`
	IsBase    bool      `json:"is_base"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CurrencyFromDomain converts a domain currency to a response.
func CurrencyFromDomain(c *domain.Currency) *CurrencyResponse {
	return &CurrencyResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Symbol:    c.Symbol,
		IsBase:    c.IsBase,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CurrenciesFromDomain converts domain currencies to responses.
func CurrenciesFromDomain(currencies []*domain.Currency) []*CurrencyResponse {
	result := make([]*CurrencyResponse, len(currencies))
	for i, c := range currencies {
		result[i] = CurrencyFromDomain(c)
	}
	return result
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID        string    `json:"id"`
	Alias     string    `json:"alias"`
	LegalName string    `json:"legal_name,omitempty"`
	IsVip     bool      `json:"is_vip"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientFromDomain converts a domain client to a response.
func ClientFromDomain(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Alias:     c.Alias,
		LegalName: c.LegalName,
		IsVip:     c.IsVip,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ClientsFromDomain converts domain clients to responses.
func ClientsFromDomain(clients []*domain.Client) []*ClientResponse {
	result := make([]*ClientResponse, len(clients))
	for i, c := range clients {
		result[i] = ClientFromDomain(c)
	}
	return result
}

// MovementTypeResponse represents a movement type in API responses.
type MovementTypeResponse struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Direction             string    `json:"direction,omitempty"`
	BookingSide           *string   `json:"booking_side,omitempty"`
	RequiresCounterparty  bool      `json:"requires_counterparty"`
	CounterpartyMandatory bool      `json:"counterparty_mandatory"`
	RequiresRate          bool      `json:"requires_rate"`
	RequiresNote          bool      `json:"requires_note"`
	PostsToRunningAccount bool      `json:"posts_to_running_account"`
	OperationGroup        string    `json:"operation_group,omitempty"`
	AllowedCurrencyIDs    []string  `json:"allowed_currency_ids,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// MovementTypeFromDomain converts a domain movement type to a response.
func MovementTypeFromDomain(mt *domain.MovementType) *MovementTypeResponse {
	resp := &MovementTypeResponse{
		ID:                    mt.ID,
		Name:                  mt.Name,
		Direction:             string(mt.Direction),
		RequiresCounterparty:  mt.RequiresCounterparty,
		CounterpartyMandatory: mt.CounterpartyMandatory,
		RequiresRate:          mt.RequiresRate,
		RequiresNote:          mt.RequiresNote,
		PostsToRunningAccount: mt.PostsToRunningAccount,
		OperationGroup:        mt.OperationGroup,
		AllowedCurrencyIDs:    mt.AllowedCurrencyIDs,
		CreatedAt:             mt.CreatedAt,
		UpdatedAt:             mt.UpdatedAt,
	}

	if mt.BookingSide != nil {
		side := string(*mt.BookingSide)
		resp.BookingSide = &side
	}

	return resp
}

// MovementTypesFromDomain converts domain movement types to responses.
func MovementTypesFromDomain(types []*domain.MovementType) []*MovementTypeResponse {
	result := make([]*MovementTypeResponse, len(types))
	for i, mt := range types {
		result[i] = MovementTypeFromDomain(mt)
	}
	return result
}

// SettingsResponse represents the engine parameters.
type SettingsResponse struct {
	StockControl bool              `json:"stock_control"`
	DateWindow   DateWindowPayload `json:"date_window"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
