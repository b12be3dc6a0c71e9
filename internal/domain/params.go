package domain

import "time"

// DateWindow restricts which calendar dates may receive new or reversed
// journal entries.
type DateWindow struct {
	Enabled   bool `json:"enabled"`
	GraceDays int  `json:"graceDays"`
}

// Allows reports whether opDate may be written to when judged on today.
// Both arguments are compared as calendar dates, not timestamps.
// Disabled window: only today's date is writable. Enabled with a positive
// grace: past dates older than GraceDays whole days are rejected, future
// dates never are. Enabled with zero grace: unrestricted.
func (w DateWindow) Allows(today, opDate time.Time) bool {
	today = truncateDay(today)
	opDate = truncateDay(opDate)

	if !w.Enabled {
		return opDate.Equal(today)
	}

	if w.GraceDays <= 0 {
		return true
	}

	if !opDate.Before(today) {
		return true
	}

	days := int(today.Sub(opDate).Hours() / 24)

	return days <= w.GraceDays
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
