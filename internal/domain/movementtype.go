package domain

import "time"

// Direction is the accounting direction of a movement type.
type Direction string

const (
	DirectionBuy     Direction = "BUY"
	DirectionSell    Direction = "SELL"
	DirectionIn      Direction = "IN"
	DirectionOut     Direction = "OUT"
	DirectionNeutral Direction = "NEUTRAL"
)

// BookingSide is the legacy single-sided direction alias kept for movement
// types created before Direction existed.
type BookingSide string

const (
	BookingSideIn  BookingSide = "IN"
	BookingSideOut BookingSide = "OUT"
)

// MovementType describes the accounting behavior and required fields of an
// operation. Immutable during a transaction.
type MovementType struct {
	ID                    string
	Name                  string
	Direction             Direction
	BookingSide           *BookingSide
	RequiresCounterparty  bool
	CounterpartyMandatory bool
	RequiresRate          bool
	RequiresNote          bool
	PostsToRunningAccount bool
	OperationGroup        string
	AllowedCurrencyIDs    []string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             *time.Time
}

// ResolveDirection returns the effective accounting direction. The explicit
// Direction field wins; the legacy booking side is mapped when Direction is
// absent or NEUTRAL. ok is false when neither field resolves, in which case
// the movement produces no currency legs.
func (mt *MovementType) ResolveDirection() (Direction, bool) {
	switch mt.Direction {
	case DirectionBuy, DirectionSell, DirectionIn, DirectionOut:
		return mt.Direction, true
	}

	if mt.BookingSide != nil {
		switch *mt.BookingSide {
		case BookingSideIn:
			return DirectionIn, true
		case BookingSideOut:
			return DirectionOut, true
		}
	}

	return "", false
}

// AllowsCurrency reports whether the movement type permits a currency. An
// empty set permits every currency.
func (mt *MovementType) AllowsCurrency(currencyID string) bool {
	if len(mt.AllowedCurrencyIDs) == 0 {
		return true
	}

	for _, id := range mt.AllowedCurrencyIDs {
		if id == currencyID {
			return true
		}
	}

	return false
}

// ValidateConfig rejects catalog configurations the engine cannot execute.
// A movement type that posts to the running account must have a resolvable
// direction; deferring that to transaction time would surface as a server
// error on every operation using it.
func (mt *MovementType) ValidateConfig() error {
	if mt.Name == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}

	if _, ok := mt.ResolveDirection(); !ok && mt.PostsToRunningAccount {
		return &ValidationError{
			Field:  "direction",
			Reason: "movement type posts to the running account but has no resolvable direction",
		}
	}

	return nil
}

// Inflow reports whether the direction books money into the house.
func (d Direction) Inflow() bool {
	return d == DirectionIn || d == DirectionBuy
}

// Outflow reports whether the direction books money out of the house.
func (d Direction) Outflow() bool {
	return d == DirectionOut || d == DirectionSell
}
