package domain

import "time"

// Client is a catalog record for a counter-party.
type Client struct {
	ID        string
	Alias     string
	LegalName string
	IsVip     bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// AffectsStock decides whether an operation touches the shared cash-stock
// ledger. Anonymous counter movements always hit the shared till; a named
// non-VIP client settles through the running account only.
func AffectsStock(client *Client) bool {
	return client == nil || client.IsVip
}
