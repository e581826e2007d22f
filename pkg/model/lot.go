package model

import "time"

// Lot carries the rate configuration that gets snapshotted onto a session
// at check-in time.
type Lot struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty" validate:"omitempty,max=200"`
	HourlyRate  float64   `json:"hourly_rate" bson:"hourly_rate" validate:"required,gt=0"`
	DailyRate   float64   `json:"daily_rate" bson:"daily_rate" validate:"required,gt=0"`
	MonthlyRate float64   `json:"monthly_rate,omitempty" bson:"monthly_rate,omitempty" validate:"omitempty,gte=0"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
