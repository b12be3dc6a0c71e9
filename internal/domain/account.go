package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientAccount is the running balance of one (client, currency) pair.
// Positive means the client owes the house. Rows are created lazily.
type ClientAccount struct {
	ClientID   string
	CurrencyID string
	Balance    decimal.Decimal
	UpdatedAt  time.Time
}

// ClientAccountMovement is one append-only row of the running-account log.
// InAmount increases the client's debt, OutAmount decreases it. Movements
// produced by the engine carry a back-reference to their journal entry.
type ClientAccountMovement struct {
	ID             string
	MovementDate   time.Time
	ClientID       string
	CurrencyID     string
	InAmount       decimal.Decimal
	OutAmount      decimal.Decimal
	Note           string
	JournalEntryID *string
	Status         EntryStatus
	ReversedAt     *time.Time
	CreatedAt      time.Time
}

// Delta is the signed effect of the movement on the account balance.
func (m *ClientAccountMovement) Delta() decimal.Decimal {
	return m.InAmount.Sub(m.OutAmount)
}
