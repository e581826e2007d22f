package state

import (
	"parkdeck/pkg/model"
	"testing"
)

func TestNextLegalTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  model.SpotStatus
		event Event
		want  model.SpotStatus
	}{
		{"check in from available", model.SpotAvailable, EventCheckIn, model.SpotOccupied},
		{"reserve from available", model.SpotAvailable, EventReserve, model.SpotReserved},
		{"check out from occupied", model.SpotOccupied, EventCheckOut, model.SpotAvailable},
		{"release from reserved", model.SpotReserved, EventRelease, model.SpotAvailable},
		{"clear maintenance", model.SpotMaintenance, EventClearMaintenance, model.SpotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Next(%q, %q) = %q, want %q", tt.from, tt.event, got, tt.want)
			}
		})
	}
}

func TestNextIllegalTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  model.SpotStatus
		event Event
	}{
		{"double check in", model.SpotOccupied, EventCheckIn},
		{"check in reserved spot", model.SpotReserved, EventCheckIn},
		{"check out available spot", model.SpotAvailable, EventCheckOut},
		{"reserve occupied spot", model.SpotOccupied, EventReserve},
		{"reserve maintenance spot", model.SpotMaintenance, EventReserve},
		{"check in maintenance spot", model.SpotMaintenance, EventCheckIn},
		{"release available spot", model.SpotAvailable, EventRelease},
		{"clear maintenance on available spot", model.SpotAvailable, EventClearMaintenance},
		{"unknown status", model.SpotStatus("bogus"), EventCheckIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Next(tt.from, tt.event)
			if err == nil {
				t.Errorf("Next(%q, %q): expected error", tt.from, tt.event)
			}
		})
	}
}

func TestSetMaintenanceFromAnyStatus(t *testing.T) {
	statuses := []model.SpotStatus{
		model.SpotAvailable,
		model.SpotOccupied,
		model.SpotReserved,
		model.SpotMaintenance,
	}

	for _, from := range statuses {
		got, err := Next(from, EventSetMaintenance)
		if err != nil {
			t.Errorf("Next(%q, set_maintenance): unexpected error: %v", from, err)
			continue
		}
		if got != model.SpotMaintenance {
			t.Errorf("Next(%q, set_maintenance) = %q, want maintenance", from, got)
		}
	}
}

func TestCanApply(t *testing.T) {
	if !CanApply(model.SpotAvailable, EventCheckIn) {
		t.Error("check_in should be legal from available")
	}
	if CanApply(model.SpotOccupied, EventCheckIn) {
		t.Error("check_in should not be legal from occupied")
	}
	if CanApply(model.SpotReserved, EventCheckIn) {
		t.Error("check_in should not be legal from reserved")
	}
}
