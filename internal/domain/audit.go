package domain

import "time"

// Audit statuses.
const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

// AuditLog records the outcome of an engine operation. Written outside the
// engine transaction, fire-and-forget.
type AuditLog struct {
	ID           string
	Action       string
	ResourceType string
	ResourceID   string
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}
