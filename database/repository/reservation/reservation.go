package reservationRepo

import (
	"context"

	"pethaven/models"
)

// ReservationRepository stores reservations. Composite assembly runs every
// logical create/merge/cancel/check-out inside WithTransaction so that a
// partial failure never leaves an orphaned parent or a half-updated child
// set behind.
type ReservationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Reservation, error)

	// GetChildren returns the child reservations of a composite parent,
	// ordered by SegmentOrder.
	GetChildren(ctx context.Context, parentID string) ([]models.Reservation, error)

	Create(ctx context.Context, r *models.Reservation) error
	Update(ctx context.Context, r *models.Reservation) error

	// WithTransaction runs fn atomically: if fn returns an error, every
	// write it performed is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
