package model

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// Session is one vehicle's occupancy of a spot from check-in to check-out.
// The lot rates are copied in at check-in and never updated afterwards, so
// the billed amount reflects the price at the time of check-in.
//
// Open mirrors check_out_time == nil; it exists so the unique partial index
// on (spot_id, open=true) can enforce at most one open session per spot.
type Session struct {
	ID            string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SpotID        string        `json:"spot_id" bson:"spot_id" validate:"required,mongodb"`
	UserID        string        `json:"user_id,omitempty" bson:"user_id,omitempty" validate:"omitempty"`
	VehiclePlate  string        `json:"vehicle_plate" bson:"vehicle_plate" validate:"required,min=2,max=16"`
	VehicleType   SpotType      `json:"vehicle_type" bson:"vehicle_type" validate:"required,oneof=car motorcycle truck van other"`
	CheckInTime   time.Time     `json:"check_in_time" bson:"check_in_time" validate:"required"`
	CheckOutTime  *time.Time    `json:"check_out_time,omitempty" bson:"check_out_time,omitempty"`
	Open          bool          `json:"open" bson:"open"`
	HourlyRate    float64       `json:"hourly_rate" bson:"hourly_rate" validate:"required,gt=0"`
	DailyRate     float64       `json:"daily_rate" bson:"daily_rate" validate:"required,gt=0"`
	MonthlyRate   float64       `json:"monthly_rate,omitempty" bson:"monthly_rate,omitempty" validate:"omitempty,gte=0"`
	TotalAmount   *float64      `json:"total_amount,omitempty" bson:"total_amount,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending completed"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type CheckInRequest struct {
	SpotID       string   `json:"spot_id" validate:"required,mongodb"`
	VehiclePlate string   `json:"vehicle_plate" validate:"required,min=2,max=16"`
	VehicleType  SpotType `json:"vehicle_type" validate:"required,oneof=car motorcycle truck van other"`
	UserID       string   `json:"user_id,omitempty" validate:"omitempty"`
}

type CheckOutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card mobile"`
}

// SessionCost is the live cost preview for an in-progress session.
type SessionCost struct {
	SessionID string  `json:"session_id"`
	Duration  string  `json:"duration"`
	Amount    float64 `json:"amount"`
	Open      bool    `json:"open"`
}
