package billing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidTimeRange = errors.New("check-out time precedes check-in time")

// Elapsed returns the chargeable duration between check-in and check-out.
func Elapsed(checkIn, checkOut time.Time) (time.Duration, error) {
	if checkOut.Before(checkIn) {
		return 0, ErrInvalidTimeRange
	}
	return checkOut.Sub(checkIn), nil
}

// Amount prices a stay. Stays of a day or more bill whole days at the daily
// rate; shorter stays bill whole hours at the hourly rate with a one hour
// minimum. Partial units always round up.
func Amount(elapsed time.Duration, hourlyRate, dailyRate float64) float64 {
	days := elapsed.Hours() / 24
	if days >= 1 {
		return math.Ceil(days) * dailyRate
	}

	hours := math.Ceil(elapsed.Hours())
	if hours < 1 {
		hours = 1
	}
	return hours * hourlyRate
}

// FormatDuration renders a duration as "2h 5m". Durations under a minute
// render as "0m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	totalMinutes := int(d.Minutes())
	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
