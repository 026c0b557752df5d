package inventoryRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pethaven/models"
)

// MemoryInventoryRepo is an in-memory InventoryRepository used by tests and
// the demo binary. The production store lives in the surrounding application.
type MemoryInventoryRepo struct {
	mu        sync.RWMutex
	roomTypes []models.RoomTypeCapacity
	rooms     map[string][]string // room type id -> room ids
	bookings  []models.BookingInterval
}

func NewMemoryInventoryRepo() *MemoryInventoryRepo {
	return &MemoryInventoryRepo{rooms: make(map[string][]string)}
}

// AddRoomType registers a room type with its rooms. Room ids may be empty
// when only the count matters.
func (r *MemoryInventoryRepo) AddRoomType(rt models.RoomTypeCapacity, roomIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(roomIDs) > 0 {
		rt.TotalRooms = len(roomIDs)
		r.rooms[rt.ID] = append([]string(nil), roomIDs...)
	}
	r.roomTypes = append(r.roomTypes, rt)
}

// AddBooking records an existing booking interval.
func (r *MemoryInventoryRepo) AddBooking(b models.BookingInterval) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.CheckIn = models.DateOnly(b.CheckIn)
	b.CheckOut = models.DateOnly(b.CheckOut)
	r.bookings = append(r.bookings, b)
}

func (r *MemoryInventoryRepo) GetRoomTypeCapacities(ctx context.Context) ([]models.RoomTypeCapacity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]models.RoomTypeCapacity(nil), r.roomTypes...)
	return out, nil
}

func (r *MemoryInventoryRepo) GetRoomCountByType(ctx context.Context, roomTypeID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rt := range r.roomTypes {
		if rt.ID == roomTypeID {
			return rt.TotalRooms, nil
		}
	}
	return 0, fmt.Errorf("room type %q not found", roomTypeID)
}

func (r *MemoryInventoryRepo) GetRoomIDsByType(ctx context.Context, roomTypeID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := append([]string(nil), r.rooms[roomTypeID]...)
	sort.Strings(ids)
	return ids, nil
}

func (r *MemoryInventoryRepo) GetBookingsIntersecting(ctx context.Context, roomTypeID string, window models.DateWindow) ([]models.BookingInterval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.BookingInterval
	for _, b := range r.bookings {
		if b.RoomTypeID != roomTypeID {
			continue
		}
		// Coarse inclusive intersection; the calculation-mode policy
		// decides what counts as a conflict.
		if !b.CheckIn.After(window.End) && !b.CheckOut.Before(window.Start) {
			out = append(out, b)
		}
	}
	return out, nil
}
