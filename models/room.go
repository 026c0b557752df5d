package models

import "time"

// RoomTypeCapacity describes one room type of the hotel as seen by the
// stay-resolution engine: how many pets fit in a room, what a unit costs,
// and how many rooms of the type exist.
type RoomTypeCapacity struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	MaxPets          int     `json:"max_pets"`
	PricePerUnit     float64 `json:"price_per_unit"`
	PricePerExtraPet float64 `json:"price_per_extra_pet"` // per unit, per pet beyond the first
	TotalRooms       int     `json:"total_rooms"`
}

// BookingInterval is the engine's view of an existing booking that
// intersects a searched window: its dates and, when the booking has been
// allocated to a concrete room, that room's id.
type BookingInterval struct {
	ReservationID string    `json:"reservation_id"`
	RoomTypeID    string    `json:"room_type_id"`
	RoomID        string    `json:"room_id,omitempty"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
}
