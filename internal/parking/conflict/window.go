package conflict

import "time"

// End is the tagged upper bound of a reservation window: either a concrete
// time or open-ended.
type End struct {
	at   time.Time
	open bool
}

// At returns a bounded end.
func At(t time.Time) End {
	return End{at: t}
}

// Open returns an open-ended end, meaning the hold lasts until cancelled.
func Open() End {
	return End{open: true}
}

func (e End) IsOpen() bool {
	return e.open
}

// Resolve converts the end into a concrete time. Open ends resolve to the
// window start plus the configured horizon.
func (e End) Resolve(start time.Time, horizon time.Duration) time.Time {
	if e.open {
		return start.Add(horizon)
	}
	return e.at
}

// Window is a reservation's hold on a spot.
type Window struct {
	Start time.Time
	End   End
}

// Overlaps reports whether two windows conflict. Boundaries are inclusive:
// a window ending exactly when another starts still conflicts. Comparison
// uses a shared horizon so open ends on both sides resolve consistently.
func (w Window) Overlaps(other Window, horizon time.Duration) bool {
	wEnd := w.End.Resolve(w.Start, horizon)
	oEnd := other.End.Resolve(other.Start, horizon)

	return !other.Start.After(wEnd) && !oEnd.Before(w.Start)
}

// FirstOverlap returns the index of the first existing window that conflicts
// with the candidate, or -1 if none do.
func FirstOverlap(candidate Window, existing []Window, horizon time.Duration) int {
	for i, w := range existing {
		if candidate.Overlaps(w, horizon) {
			return i
		}
	}
	return -1
}
