package model

import "time"

// Payment is created exactly once per completed session. Immutable.
type Payment struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SessionID string    `json:"session_id" bson:"session_id" validate:"required,mongodb"`
	Amount    float64   `json:"amount" bson:"amount" validate:"gte=0"`
	Method    string    `json:"method" bson:"method" validate:"required,oneof=cash card mobile"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=completed"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
