package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryStatusActive   EntryStatus = "active"
	EntryStatusReversed EntryStatus = "reversed"
)

// Leg is one currency movement of a journal entry.
type Leg struct {
	CurrencyID string
	Amount     decimal.Decimal
}

// JournalEntry is one committed financial operation (the daily-journal row).
// In/Out/Rate and the movement type are immutable after creation; only note,
// client and operation date may change without a reversal.
type JournalEntry struct {
	ID             string
	OperationDate  time.Time
	MovementTypeID string
	ClientID       *string
	In             *Leg
	Out            *Leg
	Rate           *decimal.Decimal
	Note           string
	AffectsStock   bool
	Status         EntryStatus
	ReversedAt     *time.Time
	CreatedAt      time.Time
}

// Reversed reports whether the entry has been reversed.
func (e *JournalEntry) Reversed() bool {
	return e.Status == EntryStatusReversed
}
