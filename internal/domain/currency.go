package domain

import "time"

// Currency is a catalog record for a tradable currency. Exactly one currency
// carries IsBase at any time; the engine settles rated operations against it.
type Currency struct {
	ID        string
	Code      string
	Name      string
	Symbol    string
	IsBase    bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
