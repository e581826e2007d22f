package state

import (
	"fmt"
	"parkdeck/pkg/model"
)

// Event is a trigger that moves a spot between statuses.
type Event string

const (
	EventCheckIn          Event = "check_in"
	EventCheckOut         Event = "check_out"
	EventReserve          Event = "reserve"
	EventRelease          Event = "release"
	EventSetMaintenance   Event = "set_maintenance"
	EventClearMaintenance Event = "clear_maintenance"
)

// ErrInvalidTransition is returned by Next for an event that is not legal
// from the current status.
type ErrInvalidTransition struct {
	From  model.SpotStatus
	Event Event
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid transition: cannot apply %q to spot in status %q", e.Event, e.From)
}

var transitions = map[model.SpotStatus]map[Event]model.SpotStatus{
	model.SpotAvailable: {
		EventCheckIn:        model.SpotOccupied,
		EventReserve:        model.SpotReserved,
		EventSetMaintenance: model.SpotMaintenance,
	},
	model.SpotOccupied: {
		EventCheckOut:       model.SpotAvailable,
		EventSetMaintenance: model.SpotMaintenance,
	},
	model.SpotReserved: {
		EventRelease:        model.SpotAvailable,
		EventSetMaintenance: model.SpotMaintenance,
	},
	model.SpotMaintenance: {
		EventClearMaintenance: model.SpotAvailable,
		EventSetMaintenance:   model.SpotMaintenance,
	},
}

// Next returns the status a spot moves to when the event fires. A spot can be
// flagged for maintenance from any status; everything else follows the
// transition table.
func Next(current model.SpotStatus, event Event) (model.SpotStatus, error) {
	if next, ok := transitions[current][event]; ok {
		return next, nil
	}
	return "", &ErrInvalidTransition{From: current, Event: event}
}

// CanApply reports whether the event is legal from the current status.
func CanApply(current model.SpotStatus, event Event) bool {
	_, ok := transitions[current][event]
	return ok
}
