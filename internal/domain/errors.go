package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// Catalog lookup errors
	ErrMovementTypeNotFound = errors.New("movement type not found")
	ErrCurrencyNotFound     = errors.New("currency not found")
	ErrClientNotFound       = errors.New("client not found")
	ErrBaseCurrencyNotSet   = errors.New("no base currency configured")

	// Journal errors
	ErrEntryNotFound   = errors.New("journal entry not found")
	ErrAlreadyReversed = errors.New("journal entry already reversed")

	// ErrInconsistentPosting signals a movement type that posts to the
	// running account but whose direction cannot be classified. Bad catalog
	// data, not a caller mistake.
	ErrInconsistentPosting = errors.New("movement type posts to running account but direction is indeterminate")
)

// ValidationError reports a business-rule violation on the request itself.
// Always recoverable by the caller; no writes have happened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InsufficientStockError is returned when a guarded stock debit would cross
// zero. Carries the detail needed for a user-facing message.
type InsufficientStockError struct {
	Currency  string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient %s stock: available %s, requested %s",
		e.Currency, e.Available, e.Requested)
}

// DateWindowError is returned when an operation date falls outside the
// configured edit window.
type DateWindowError struct {
	OperationDate time.Time
	Window        DateWindow
}

func (e *DateWindowError) Error() string {
	if !e.Window.Enabled {
		return fmt.Sprintf("date %s is closed for edits: only today's date is writable",
			e.OperationDate.Format("2006-01-02"))
	}

	return fmt.Sprintf("date %s is closed for edits: outside the %d-day window",
		e.OperationDate.Format("2006-01-02"), e.Window.GraceDays)
}
