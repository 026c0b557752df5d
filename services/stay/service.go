package stay

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	clientRepo "pethaven/database/repository/client"
	inventoryRepo "pethaven/database/repository/inventory"
	paymentRepo "pethaven/database/repository/payment"
	reservationRepo "pethaven/database/repository/reservation"
	settingsRepo "pethaven/database/repository/settings"
	"pethaven/models"
	"pethaven/utils"
)

// StayService resolves stay requests into booking options and materializes
// accepted options as reservations.
type StayService interface {
	FindOptions(ctx context.Context, req FindOptionsRequest) (*models.OptionSet, error)
	CreateFromOption(ctx context.Context, opt models.BookingOption, clientID string, petIDs []string) (*models.Reservation, error)
	MergeExisting(ctx context.Context, reservationIDs []string) (*models.Reservation, error)
	Confirm(ctx context.Context, reservationID string) (*models.Reservation, error)
	CheckIn(ctx context.Context, reservationID string) (*models.Reservation, error)
	CheckOut(ctx context.Context, reservationID string) (*models.Reservation, error)
	Cancel(ctx context.Context, reservationID string) (*models.Reservation, error)
	PreviewEarlyCheckout(ctx context.Context, reservationID string) (*models.EarlyCheckoutPreview, error)
}

// FindOptionsRequest is a stay request: a date window, how many pets share
// the room, and the requesting client's discount.
type FindOptionsRequest struct {
	Window          models.DateWindow `json:"window"`
	PetCount        int               `json:"pet_count"`
	DiscountPercent float64           `json:"discount_percent"`
}

// DefaultStayService is the production implementation.
type DefaultStayService struct {
	Inventory    inventoryRepo.InventoryRepository
	Reservations reservationRepo.ReservationRepository
	Settings     settingsRepo.SettingsRepository
	Clients      clientRepo.ClientRepository
	Payments     paymentRepo.PaymentRepository

	// Now overrides the clock in tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultStayService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// today returns the current calendar date.
func (s *DefaultStayService) today() time.Time {
	return models.DateOnly(s.now())
}

func (req *FindOptionsRequest) validate() error {
	if !req.Window.Valid() {
		return NewValidationError("check-out date must be after check-in date")
	}
	if req.PetCount <= 0 {
		return NewValidationError("pet count must be positive")
	}
	return nil
}

// FindOptions computes every feasible way to house the requested stay.
// It is read-only and idempotent: with unchanged inventory and bookings the
// same request yields the same ordered option set.
func (s *DefaultStayService) FindOptions(ctx context.Context, req FindOptionsRequest) (*models.OptionSet, error) {
	logger := utils.GetLogger()

	req.Window = models.NewDateWindow(req.Window.Start, req.Window.End)
	if err := req.validate(); err != nil {
		return nil, err
	}

	settings, err := s.Settings.GetActiveSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch hotel settings: %w", err)
	}

	r, err := s.newResolver(ctx, logger, settings.Mode, req.Window, req.PetCount)
	if err != nil {
		return nil, err
	}

	single := r.findSingle()
	composite := append(r.findSameType(), r.findMixed()...)
	set := rankOptions(single, composite, req.DiscountPercent)

	logger.Debug("stay resolution finished",
		zap.String("mode", string(settings.Mode)),
		zap.Int("singleOptions", len(set.SingleOptions)),
		zap.Int("sameTypeOptions", len(set.SameTypeOptions)),
		zap.Int("mixedOptions", len(set.MixedOptions)))
	return set, nil
}

// newResolver snapshots everything one resolution call needs: room types in
// stable order, their current counts, room ids and intersecting bookings,
// and the per-type availability calendars. The memoization cache starts
// empty and dies with the resolver.
func (s *DefaultStayService) newResolver(ctx context.Context, logger *zap.Logger, mode models.CalculationMode, window models.DateWindow, petCount int) (*resolver, error) {
	capacities, err := s.Inventory.GetRoomTypeCapacities(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch room type capacities: %w", err)
	}

	r := &resolver{
		log:       logger,
		mode:      mode,
		window:    window,
		petCount:  petCount,
		counts:    make(map[string]int),
		bookings:  make(map[string][]models.BookingInterval),
		roomIDs:   make(map[string][]string),
		calendars: make(map[string]Calendar),
		memo:      make(map[memoKey]time.Time),
	}

	for _, rt := range capacities {
		if rt.MaxPets < petCount {
			continue
		}
		count, err := s.Inventory.GetRoomCountByType(ctx, rt.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch room count for %s: %w", rt.ID, err)
		}
		if count <= 0 {
			continue
		}
		bookings, err := s.Inventory.GetBookingsIntersecting(ctx, rt.ID, window)
		if err != nil {
			return nil, fmt.Errorf("fetch bookings for %s: %w", rt.ID, err)
		}
		roomIDs, err := s.Inventory.GetRoomIDsByType(ctx, rt.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch rooms for %s: %w", rt.ID, err)
		}

		rt.TotalRooms = count
		r.roomTypes = append(r.roomTypes, rt)
		r.counts[rt.ID] = count
		r.bookings[rt.ID] = bookings
		r.roomIDs[rt.ID] = roomIDs
		r.calendars[rt.ID] = BuildCalendar(rt.ID, window, mode, count, bookings)
	}

	sortRoomTypes(r.roomTypes)
	return r, nil
}
