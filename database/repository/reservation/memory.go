package reservationRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pethaven/models"
)

// MemoryReservationRepo is an in-memory ReservationRepository for tests and
// the demo binary. Transactions are implemented as a snapshot of the whole
// map, restored when the transaction function fails; writers are serialized
// by the transaction mutex.
type MemoryReservationRepo struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	items map[string]models.Reservation
}

func NewMemoryReservationRepo() *MemoryReservationRepo {
	return &MemoryReservationRepo{items: make(map[string]models.Reservation)}
}

func (r *MemoryReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("reservation %q not found", id)
	}
	return &res, nil
}

func (r *MemoryReservationRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Reservation, 0, len(ids))
	for _, id := range ids {
		res, ok := r.items[id]
		if !ok {
			return nil, fmt.Errorf("reservation %q not found", id)
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *MemoryReservationRepo) GetChildren(ctx context.Context, parentID string) ([]models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Reservation
	for _, res := range r.items {
		if res.ParentID == parentID {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SegmentOrder < out[j].SegmentOrder })
	return out, nil
}

func (r *MemoryReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[res.ID]; exists {
		return fmt.Errorf("reservation %q already exists", res.ID)
	}
	r.items[res.ID] = cloneReservation(*res)
	return nil
}

func (r *MemoryReservationRepo) Update(ctx context.Context, res *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[res.ID]; !exists {
		return fmt.Errorf("reservation %q not found", res.ID)
	}
	r.items[res.ID] = cloneReservation(*res)
	return nil
}

func (r *MemoryReservationRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.RLock()
	snapshot := make(map[string]models.Reservation, len(r.items))
	for id, res := range r.items {
		snapshot[id] = cloneReservation(res)
	}
	r.mu.RUnlock()

	if err := fn(ctx); err != nil {
		r.mu.Lock()
		r.items = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func cloneReservation(res models.Reservation) models.Reservation {
	res.PetIDs = append([]string(nil), res.PetIDs...)
	return res
}
