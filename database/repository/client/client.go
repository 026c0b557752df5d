package clientRepo

import (
	"context"
	"fmt"
	"sync"
)

// ClientRepository is the engine's view of the client directory: it only
// needs the client's current discount when pricing and merging stays.
type ClientRepository interface {
	GetDiscountPercent(ctx context.Context, clientID string) (float64, error)
}

// MemoryClientRepo is an in-memory ClientRepository for tests and the demo
// binary.
type MemoryClientRepo struct {
	mu        sync.RWMutex
	discounts map[string]float64
}

func NewMemoryClientRepo() *MemoryClientRepo {
	return &MemoryClientRepo{discounts: make(map[string]float64)}
}

// SetDiscount records a client's discount percentage.
func (r *MemoryClientRepo) SetDiscount(clientID string, pct float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discounts[clientID] = pct
}

func (r *MemoryClientRepo) GetDiscountPercent(ctx context.Context, clientID string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pct, ok := r.discounts[clientID]
	if !ok {
		return 0, fmt.Errorf("client %q not found", clientID)
	}
	return pct, nil
}
