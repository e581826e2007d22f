package model

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// Reservation is a time-window hold on a spot. Open-ended reservations are
// stored with end_time = start_time + the configured far-future horizon, so
// the window columns are always populated and index-friendly.
type Reservation struct {
	ID            string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SpotID        string            `json:"spot_id" bson:"spot_id" validate:"required,mongodb"`
	UserID        string            `json:"user_id,omitempty" bson:"user_id,omitempty" validate:"omitempty"`
	StartTime     time.Time         `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       time.Time         `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status        ReservationStatus `json:"status" bson:"status" validate:"required,oneof=pending cancelled completed"`
	VehiclePlate  string            `json:"vehicle_plate,omitempty" bson:"vehicle_plate,omitempty" validate:"omitempty,min=2,max=16"`
	CustomerName  string            `json:"customer_name,omitempty" bson:"customer_name,omitempty" validate:"omitempty,max=100"`
	CustomerEmail string            `json:"customer_email,omitempty" bson:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone string            `json:"customer_phone,omitempty" bson:"customer_phone,omitempty" validate:"omitempty,e164"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`

	// ConfirmationToken is an opaque reference handed back to the customer on
	// creation. Never persisted.
	ConfirmationToken string `json:"confirmation_token,omitempty" bson:"-"`
}

type ReservationRequest struct {
	SpotID        string     `json:"spot_id" validate:"required,mongodb"`
	StartTime     time.Time  `json:"start_time" validate:"required"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	VehiclePlate  string     `json:"vehicle_plate,omitempty" validate:"omitempty,min=2,max=16"`
	CustomerName  string     `json:"customer_name,omitempty" validate:"omitempty,max=100"`
	CustomerEmail string     `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone string     `json:"customer_phone,omitempty" validate:"omitempty"`
	UserID        string     `json:"user_id,omitempty" validate:"omitempty"`
}
