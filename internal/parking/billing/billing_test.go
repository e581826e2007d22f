package billing

import (
	"errors"
	"testing"
	"time"
)

func TestElapsed(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("normal range", func(t *testing.T) {
		d, err := Elapsed(base, base.Add(90*time.Minute))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d != 90*time.Minute {
			t.Errorf("expected 90m, got %s", d)
		}
	})

	t.Run("zero duration", func(t *testing.T) {
		d, err := Elapsed(base, base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d != 0 {
			t.Errorf("expected 0, got %s", d)
		}
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		_, err := Elapsed(base, base.Add(-time.Minute))
		if !errors.Is(err, ErrInvalidTimeRange) {
			t.Errorf("expected ErrInvalidTimeRange, got %v", err)
		}
	})
}

func TestAmount(t *testing.T) {
	const (
		hourly = 10.0
		daily  = 100.0
	)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{"zero duration bills minimum one hour", 0, 10},
		{"five minutes bills one hour", 5 * time.Minute, 10},
		{"exactly one hour", time.Hour, 10},
		{"hour and one minute rounds up", 61 * time.Minute, 20},
		{"ninety minutes", 90 * time.Minute, 20},
		{"just under a day bills hourly", 23*time.Hour + 59*time.Minute, 240},
		{"exactly one day", 24 * time.Hour, 100},
		{"25 hours bills two days", 25 * time.Hour, 200},
		{"two full days", 48 * time.Hour, 200},
		{"two days and a minute bills three days", 48*time.Hour + time.Minute, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Amount(tt.elapsed, hourly, daily); got != tt.want {
				t.Errorf("Amount(%s) = %.2f, want %.2f", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestAmountNonNegative(t *testing.T) {
	durations := []time.Duration{0, time.Minute, time.Hour, 24 * time.Hour, 1000 * time.Hour}
	for _, d := range durations {
		if got := Amount(d, 10, 100); got < 0 {
			t.Errorf("Amount(%s) = %.2f, want non-negative", d, got)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{30 * time.Second, "0m"},
		{5 * time.Minute, "5m"},
		{time.Hour, "1h 0m"},
		{125 * time.Minute, "2h 5m"},
		{26 * time.Hour, "26h 0m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
