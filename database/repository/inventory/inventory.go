package inventoryRepo

import (
	"context"

	"pethaven/models"
)

// InventoryRepository is the engine's read-only view of the room catalog
// and the booking table. The surrounding application owns persistence; the
// engine only ever queries.
type InventoryRepository interface {
	// GetRoomTypeCapacities returns every room type with its capacity and
	// pricing data.
	GetRoomTypeCapacities(ctx context.Context) ([]models.RoomTypeCapacity, error)

	// GetRoomCountByType returns the current number of rooms of a type.
	GetRoomCountByType(ctx context.Context, roomTypeID string) (int, error)

	// GetRoomIDsByType returns the ids of the rooms of a type, in stable
	// order. May return an empty slice when the store only tracks counts.
	GetRoomIDsByType(ctx context.Context, roomTypeID string) ([]string, error)

	// GetBookingsIntersecting returns every booking of the room type whose
	// interval intersects the window, including its room assignment if any.
	GetBookingsIntersecting(ctx context.Context, roomTypeID string, window models.DateWindow) ([]models.BookingInterval, error)
}
