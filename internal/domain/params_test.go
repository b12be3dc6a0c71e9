package domain

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDateWindow_Allows(t *testing.T) {
	today := day("2025-03-15")

	tests := []struct {
		name   string
		window DateWindow
		opDate time.Time
		want   bool
	}{
		{
			name:   "disabled - same day allowed",
			window: DateWindow{Enabled: false},
			opDate: day("2025-03-15"),
			want:   true,
		},
		{
			name:   "disabled - yesterday rejected",
			window: DateWindow{Enabled: false},
			opDate: day("2025-03-14"),
			want:   false,
		},
		{
			name:   "disabled - tomorrow rejected",
			window: DateWindow{Enabled: false},
			opDate: day("2025-03-16"),
			want:   false,
		},
		{
			name:   "grace window - inside",
			window: DateWindow{Enabled: true, GraceDays: 3},
			opDate: day("2025-03-12"),
			want:   true,
		},
		{
			name:   "grace window - outside",
			window: DateWindow{Enabled: true, GraceDays: 3},
			opDate: day("2025-03-11"),
			want:   false,
		},
		{
			name:   "grace window - future date never restricted",
			window: DateWindow{Enabled: true, GraceDays: 3},
			opDate: day("2025-04-01"),
			want:   true,
		},
		{
			name:   "zero grace - unrestricted past",
			window: DateWindow{Enabled: true, GraceDays: 0},
			opDate: day("2020-01-01"),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.Allows(today, tt.opDate); got != tt.want {
				t.Errorf("Allows(%s, %s) = %v, want %v",
					today.Format("2006-01-02"), tt.opDate.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestDateWindow_AllowsIgnoresTimeOfDay(t *testing.T) {
	window := DateWindow{Enabled: false}

	today := time.Date(2025, 3, 15, 23, 50, 0, 0, time.UTC)
	opDate := time.Date(2025, 3, 15, 0, 5, 0, 0, time.UTC)

	if !window.Allows(today, opDate) {
		t.Error("calendar match should ignore time of day")
	}
}
