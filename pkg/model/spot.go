package model

import "time"

type SpotStatus string

const (
	SpotAvailable   SpotStatus = "available"
	SpotOccupied    SpotStatus = "occupied"
	SpotReserved    SpotStatus = "reserved"
	SpotMaintenance SpotStatus = "maintenance"
)

type SpotType string

const (
	SpotTypeCar        SpotType = "car"
	SpotTypeMotorcycle SpotType = "motorcycle"
	SpotTypeTruck      SpotType = "truck"
	SpotTypeVan        SpotType = "van"
	SpotTypeOther      SpotType = "other"
)

type Spot struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	LotID      string     `json:"lot_id" bson:"lot_id" validate:"required,mongodb"`
	SpotNumber string     `json:"spot_number" bson:"spot_number" validate:"required,min=1,max=10"`
	SpotType   SpotType   `json:"spot_type" bson:"spot_type" validate:"required,oneof=car motorcycle truck van other"`
	Status     SpotStatus `json:"status" bson:"status" validate:"omitempty,oneof=available occupied reserved maintenance"`
	Accessible bool       `json:"accessible" bson:"accessible"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}
