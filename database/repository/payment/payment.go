package paymentRepo

import (
	"context"
	"sync"
)

// PaymentRepository is the engine's read-only view of the payment ledger.
// Payment processing itself belongs to the surrounding application; check-out
// only needs the net amount already paid on a reservation.
type PaymentRepository interface {
	// GetNetPaid returns completed payments minus refunds for a reservation.
	GetNetPaid(ctx context.Context, reservationID string) (float64, error)
}

// MemoryPaymentRepo is an in-memory PaymentRepository for tests and the demo
// binary. Unknown reservations have a net-paid amount of zero.
type MemoryPaymentRepo struct {
	mu   sync.RWMutex
	paid map[string]float64
}

func NewMemoryPaymentRepo() *MemoryPaymentRepo {
	return &MemoryPaymentRepo{paid: make(map[string]float64)}
}

// SetNetPaid records the net paid amount for a reservation.
func (r *MemoryPaymentRepo) SetNetPaid(reservationID string, amount float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paid[reservationID] = amount
}

func (r *MemoryPaymentRepo) GetNetPaid(ctx context.Context, reservationID string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.paid[reservationID], nil
}
