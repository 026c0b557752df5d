package stay

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pethaven/models"
	"pethaven/utils"
)

// CreateFromOption commits an accepted booking option. The search is
// advisory: inventory may have changed since FindOptions, so every segment
// is re-validated against fresh bookings and the whole commit is rejected
// with a conflict when a segment is no longer free. One segment produces a
// plain reservation; two or more produce a composite parent with one child
// per segment.
func (s *DefaultStayService) CreateFromOption(ctx context.Context, opt models.BookingOption, clientID string, petIDs []string) (*models.Reservation, error) {
	logger := utils.GetLogger()

	if len(opt.Segments) == 0 {
		return nil, NewValidationError("booking option has no segments")
	}
	if clientID == "" {
		return nil, NewValidationError("client id is required")
	}

	settings, err := s.Settings.GetActiveSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch hotel settings: %w", err)
	}
	mode := settings.Mode

	window := models.DateWindow{
		Start: opt.Segments[0].Start,
		End:   opt.Segments[len(opt.Segments)-1].End,
	}
	if err := validateTiling(opt.Segments, window, mode); err != nil {
		// The option came from the caller; a broken tiling here is bad
		// input, not an engine defect.
		return nil, NewValidationError("segments do not tile the stay: %v", err)
	}

	segments := make([]models.Segment, len(opt.Segments))
	copy(segments, opt.Segments)
	for i := range segments {
		if err := s.revalidateSegment(ctx, &segments[i], mode); err != nil {
			return nil, err
		}
	}

	now := s.now()
	discount := opt.Breakdown.DiscountPercent

	if len(segments) == 1 {
		res := childFromSegment(segments[0], clientID, petIDs, discount, now)
		res.ID = uuid.NewString()
		if err := s.Reservations.WithTransaction(ctx, func(ctx context.Context) error {
			return s.Reservations.Create(ctx, res)
		}); err != nil {
			return nil, fmt.Errorf("create reservation: %w", err)
		}
		logger.Info("reservation created",
			zap.String("reservationID", res.ID), zap.String("clientID", clientID))
		return res, nil
	}

	parent := &models.Reservation{
		ID:              uuid.NewString(),
		ClientID:        clientID,
		PetIDs:          petIDs,
		CheckInDate:     window.Start,
		CheckOutDate:    window.End,
		DiscountPercent: discount,
		Status:          models.StatusPending,
		IsComposite:     true,
		CreatedAt:       now,
	}
	var children []*models.Reservation
	for i, seg := range segments {
		child := childFromSegment(seg, clientID, petIDs, discount, now)
		child.ID = uuid.NewString()
		child.ParentID = parent.ID
		child.SegmentOrder = i + 1
		parent.Units += child.Units
		parent.BasePrice = utils.Round2(parent.BasePrice + child.BasePrice)
		parent.Price = utils.Round2(parent.Price + child.Price)
		children = append(children, child)
	}

	if err := s.Reservations.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Reservations.Create(ctx, parent); err != nil {
			return err
		}
		for _, child := range children {
			if err := s.Reservations.Create(ctx, child); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("create composite reservation: %w", err)
	}

	logger.Info("composite reservation created",
		zap.String("reservationID", parent.ID),
		zap.String("clientID", clientID),
		zap.Int("segments", len(children)))
	return parent, nil
}

// revalidateSegment checks a segment against current inventory and pins it
// to a concrete room when the inventory can name one.
func (s *DefaultStayService) revalidateSegment(ctx context.Context, seg *models.Segment, mode models.CalculationMode) error {
	count, err := s.Inventory.GetRoomCountByType(ctx, seg.RoomTypeID)
	if err != nil {
		return NewNotFoundError("room type %s not found", seg.RoomTypeID)
	}
	bookings, err := s.Inventory.GetBookingsIntersecting(ctx, seg.RoomTypeID, seg.Window())
	if err != nil {
		return fmt.Errorf("fetch bookings for %s: %w", seg.RoomTypeID, err)
	}

	cal := BuildCalendar(seg.RoomTypeID, seg.Window(), mode, count, bookings)
	if !cal.AllFree() {
		return NewConflictError("%s is no longer available between %s and %s",
			seg.RoomTypeName, seg.Start.Format("2006-01-02"), seg.End.Format("2006-01-02"))
	}

	if seg.RoomID != "" {
		for _, b := range bookings {
			if b.RoomID == seg.RoomID && Overlaps(models.NewDateWindow(b.CheckIn, b.CheckOut), seg.Window(), mode) {
				return NewConflictError("room %s of %s is no longer free between %s and %s",
					seg.RoomID, seg.RoomTypeName, seg.Start.Format("2006-01-02"), seg.End.Format("2006-01-02"))
			}
		}
		return nil
	}

	roomIDs, err := s.Inventory.GetRoomIDsByType(ctx, seg.RoomTypeID)
	if err != nil {
		return fmt.Errorf("fetch rooms for %s: %w", seg.RoomTypeID, err)
	}
	for _, roomID := range roomIDs {
		free := true
		for _, b := range bookings {
			if b.RoomID == roomID && Overlaps(models.NewDateWindow(b.CheckIn, b.CheckOut), seg.Window(), mode) {
				free = false
				break
			}
		}
		if free {
			seg.RoomID = roomID
			return nil
		}
	}
	if len(roomIDs) > 0 {
		// Every named room is taken even though the count check passed;
		// unassigned bookings must be holding the remaining capacity.
		return NewConflictError("no room of %s can be assigned between %s and %s",
			seg.RoomTypeName, seg.Start.Format("2006-01-02"), seg.End.Format("2006-01-02"))
	}
	return nil
}

func childFromSegment(seg models.Segment, clientID string, petIDs []string, discount float64, now time.Time) *models.Reservation {
	return &models.Reservation{
		ClientID:        clientID,
		PetIDs:          petIDs,
		RoomTypeID:      seg.RoomTypeID,
		RoomID:          seg.RoomID,
		CheckInDate:     seg.Start,
		CheckOutDate:    seg.End,
		Units:           seg.Units,
		BasePrice:       utils.Round2(seg.BasePrice + seg.ExtraPetPrice),
		Price:           seg.Price,
		DiscountPercent: discount,
		Status:          models.StatusPending,
		CreatedAt:       now,
	}
}

// MergeExisting converts two or more simple reservations of one client into
// children of a freshly created composite parent. The reservations must tile
// without gaps under the active calculation mode; the client's current
// discount replaces whatever discount each reservation carried before.
func (s *DefaultStayService) MergeExisting(ctx context.Context, reservationIDs []string) (*models.Reservation, error) {
	logger := utils.GetLogger()

	if len(reservationIDs) < 2 {
		return nil, NewValidationError("merging requires at least two reservations")
	}

	reservations, err := s.Reservations.GetByIDs(ctx, reservationIDs)
	if err != nil {
		return nil, NewNotFoundError("load reservations: %v", err)
	}

	clientID := reservations[0].ClientID
	for i := range reservations {
		r := &reservations[i]
		if r.IsComposite {
			return nil, NewConflictError("reservation %s is already composite", r.ID)
		}
		if r.IsChild() {
			return nil, NewConflictError("reservation %s is already part of a composite stay", r.ID)
		}
		if r.Status.IsTerminal() {
			return nil, NewConflictError("reservation %s is %s and cannot be merged", r.ID, r.Status)
		}
		if r.ClientID != clientID {
			return nil, NewValidationError("reservations belong to different clients")
		}
	}

	settings, err := s.Settings.GetActiveSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch hotel settings: %w", err)
	}
	mode := settings.Mode

	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].CheckInDate.Before(reservations[j].CheckInDate)
	})
	for i := 1; i < len(reservations); i++ {
		prev, next := &reservations[i-1], &reservations[i]
		if !AreSequential(prev.CheckOutDate, next.CheckInDate, mode) {
			return nil, NewConflictError("reservations %s and %s are not adjacent", prev.ID, next.ID)
		}
	}

	discount, err := s.Clients.GetDiscountPercent(ctx, clientID)
	if err != nil {
		return nil, NewNotFoundError("client %s not found", clientID)
	}
	discount = utils.Round2(utils.ClampPercent(discount))

	parent := &models.Reservation{
		ID:              uuid.NewString(),
		ClientID:        clientID,
		PetIDs:          reservations[0].PetIDs,
		CheckInDate:     reservations[0].CheckInDate,
		CheckOutDate:    reservations[len(reservations)-1].CheckOutDate,
		DiscountPercent: discount,
		Status:          earliestStatus(reservations),
		IsComposite:     true,
		CreatedAt:       s.now(),
	}
	for i := range reservations {
		child := &reservations[i]
		child.ParentID = parent.ID
		child.SegmentOrder = i + 1
		child.DiscountPercent = discount
		child.Price = utils.Round2(child.BasePrice * (1 - discount/100))
		parent.Units += child.Units
		parent.BasePrice = utils.Round2(parent.BasePrice + child.BasePrice)
		parent.Price = utils.Round2(parent.Price + child.Price)
	}

	if err := s.Reservations.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Reservations.Create(ctx, parent); err != nil {
			return err
		}
		for i := range reservations {
			if err := s.Reservations.Update(ctx, &reservations[i]); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("merge reservations: %w", err)
	}

	logger.Info("reservations merged",
		zap.String("parentID", parent.ID),
		zap.Int("children", len(reservations)))
	return parent, nil
}

// statusOrder ranks lifecycle stages for deriving a merged parent's status.
var statusOrder = map[models.ReservationStatus]int{
	models.StatusPending:         0,
	models.StatusAwaitingPayment: 1,
	models.StatusConfirmed:       2,
	models.StatusCheckedIn:       3,
}

func earliestStatus(reservations []models.Reservation) models.ReservationStatus {
	earliest := models.StatusCheckedIn
	for _, r := range reservations {
		if statusOrder[r.Status] < statusOrder[earliest] {
			earliest = r.Status
		}
	}
	return earliest
}

// Confirm moves a pending or awaiting-payment reservation, and all of its
// children, to confirmed.
func (s *DefaultStayService) Confirm(ctx context.Context, reservationID string) (*models.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, NewNotFoundError("reservation %s not found", reservationID)
	}
	if res.Status != models.StatusPending && res.Status != models.StatusAwaitingPayment {
		return nil, NewConflictError("reservation %s is %s and cannot be confirmed", res.ID, res.Status)
	}

	res.Status = models.StatusConfirmed
	err = s.Reservations.WithTransaction(ctx, func(ctx context.Context) error {
		if res.IsComposite {
			children, err := s.Reservations.GetChildren(ctx, res.ID)
			if err != nil {
				return err
			}
			for i := range children {
				child := &children[i]
				if child.Status != models.StatusPending && child.Status != models.StatusAwaitingPayment {
					continue
				}
				child.Status = models.StatusConfirmed
				if err := s.Reservations.Update(ctx, child); err != nil {
					return err
				}
			}
		}
		return s.Reservations.Update(ctx, res)
	})
	if err != nil {
		return nil, fmt.Errorf("confirm reservation: %w", err)
	}
	return res, nil
}

// CheckIn moves a confirmed reservation to checked-in on its arrival day or
// later. On a composite parent the child whose window contains today checks
// in with it.
func (s *DefaultStayService) CheckIn(ctx context.Context, reservationID string) (*models.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, NewNotFoundError("reservation %s not found", reservationID)
	}
	if res.Status != models.StatusConfirmed {
		return nil, NewConflictError("reservation %s is %s and cannot be checked in", res.ID, res.Status)
	}
	today := s.today()
	if today.Before(res.CheckInDate) {
		return nil, NewConflictError("reservation %s does not start until %s",
			res.ID, res.CheckInDate.Format("2006-01-02"))
	}

	res.Status = models.StatusCheckedIn
	err = s.Reservations.WithTransaction(ctx, func(ctx context.Context) error {
		if res.IsComposite {
			children, err := s.Reservations.GetChildren(ctx, res.ID)
			if err != nil {
				return err
			}
			for i := range children {
				child := &children[i]
				if child.Status != models.StatusConfirmed || !containsDay(child.Window(), today) {
					continue
				}
				child.Status = models.StatusCheckedIn
				if err := s.Reservations.Update(ctx, child); err != nil {
					return err
				}
			}
		}
		return s.Reservations.Update(ctx, res)
	})
	if err != nil {
		return nil, fmt.Errorf("check in reservation: %w", err)
	}
	return res, nil
}

// CheckOut completes a checked-in reservation as of today. Leaving before
// the booked end date shortens the stay: the consumed portion is priced per
// unit, the original end date is preserved for audit, and on a composite
// stay every child still ahead is cancelled while the running child is
// shortened the same way.
func (s *DefaultStayService) CheckOut(ctx context.Context, reservationID string) (*models.Reservation, error) {
	logger := utils.GetLogger()

	res, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, NewNotFoundError("reservation %s not found", reservationID)
	}
	if res.Status != models.StatusCheckedIn {
		return nil, NewConflictError("reservation %s is %s and cannot be checked out", res.ID, res.Status)
	}

	settings, err := s.Settings.GetActiveSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch hotel settings: %w", err)
	}
	mode := settings.Mode
	today := s.today()

	if !res.IsComposite {
		applyCheckout(res, today, mode)
		if err := s.requirePaid(ctx, res.ID, res.Price); err != nil {
			return nil, err
		}
		if err := s.Reservations.WithTransaction(ctx, func(ctx context.Context) error {
			return s.Reservations.Update(ctx, res)
		}); err != nil {
			return nil, fmt.Errorf("check out reservation: %w", err)
		}
		return res, nil
	}

	children, err := s.Reservations.GetChildren(ctx, res.ID)
	if err != nil {
		return nil, fmt.Errorf("load children of %s: %w", res.ID, err)
	}

	var consumed float64
	units := 0
	for i := range children {
		child := &children[i]
		switch {
		case child.Status == models.StatusCancelled:
			// already settled, leave untouched
		case child.Status == models.StatusCheckedOut:
			consumed += child.Price
			units += child.Units
		case child.CheckInDate.After(today):
			child.Status = models.StatusCancelled
		default:
			applyCheckout(child, today, mode)
			consumed += child.Price
			units += child.Units
		}
	}
	consumed = utils.Round2(consumed)

	if err := s.requirePaid(ctx, res.ID, consumed); err != nil {
		return nil, err
	}

	if today.Before(res.CheckOutDate) {
		res.IsEarlyCheckout = true
		res.OriginalCheckOutDate = res.CheckOutDate
		res.CheckOutDate = today
	}
	res.Units = units
	res.Price = consumed
	res.Status = models.StatusCheckedOut

	if err := s.Reservations.WithTransaction(ctx, func(ctx context.Context) error {
		for i := range children {
			if err := s.Reservations.Update(ctx, &children[i]); err != nil {
				return err
			}
		}
		return s.Reservations.Update(ctx, res)
	}); err != nil {
		return nil, fmt.Errorf("check out composite reservation: %w", err)
	}

	logger.Info("reservation checked out",
		zap.String("reservationID", res.ID),
		zap.Bool("early", res.IsEarlyCheckout),
		zap.Float64("finalPrice", res.Price))
	return res, nil
}

// applyCheckout completes one reservation as of today, shortening it when
// today precedes the booked end date. The consumed price is units stayed
// over total units times the reservation price.
func applyCheckout(res *models.Reservation, today time.Time, mode models.CalculationMode) {
	if today.Before(res.CheckOutDate) {
		stayed := 0
		if !today.Before(res.CheckInDate) {
			stayed = UnitCount(models.DateWindow{Start: res.CheckInDate, End: today}, mode)
		}
		if stayed > res.Units {
			stayed = res.Units
		}
		res.IsEarlyCheckout = true
		res.OriginalCheckOutDate = res.CheckOutDate
		res.CheckOutDate = today
		if res.Units > 0 {
			res.Price = utils.Round2(float64(stayed) / float64(res.Units) * res.Price)
		}
		res.Units = stayed
	}
	res.Status = models.StatusCheckedOut
}

// requirePaid rejects a check-out whose consumed amount exceeds what the
// client has actually paid.
func (s *DefaultStayService) requirePaid(ctx context.Context, reservationID string, owed float64) error {
	paid, err := s.Payments.GetNetPaid(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("fetch payments for %s: %w", reservationID, err)
	}
	if paid+0.005 < owed {
		return NewConflictError("insufficient payment: %.2f paid, %.2f owed for the stay", paid, owed)
	}
	return nil
}

// Cancel cancels a reservation. On a composite parent every child that is
// not already checked out or cancelled is cancelled with it.
func (s *DefaultStayService) Cancel(ctx context.Context, reservationID string) (*models.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, NewNotFoundError("reservation %s not found", reservationID)
	}
	if res.Status.IsTerminal() {
		return nil, NewConflictError("reservation %s is %s and cannot be cancelled", res.ID, res.Status)
	}

	res.Status = models.StatusCancelled
	err = s.Reservations.WithTransaction(ctx, func(ctx context.Context) error {
		if res.IsComposite {
			children, err := s.Reservations.GetChildren(ctx, res.ID)
			if err != nil {
				return err
			}
			for i := range children {
				child := &children[i]
				if child.Status.IsTerminal() {
					continue
				}
				child.Status = models.StatusCancelled
				if err := s.Reservations.Update(ctx, child); err != nil {
					return err
				}
			}
		}
		return s.Reservations.Update(ctx, res)
	})
	if err != nil {
		return nil, fmt.Errorf("cancel reservation: %w", err)
	}
	return res, nil
}

// PreviewEarlyCheckout projects the financial outcome of checking the
// reservation out today without committing anything.
func (s *DefaultStayService) PreviewEarlyCheckout(ctx context.Context, reservationID string) (*models.EarlyCheckoutPreview, error) {
	res, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, NewNotFoundError("reservation %s not found", reservationID)
	}
	if res.Units <= 0 {
		return nil, NewValidationError("reservation %s has no billable units", res.ID)
	}

	settings, err := s.Settings.GetActiveSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch hotel settings: %w", err)
	}

	today := s.today()
	stayed := 0
	if !today.Before(res.CheckOutDate) {
		stayed = res.Units
	} else if !today.Before(res.CheckInDate) {
		stayed = UnitCount(models.DateWindow{Start: res.CheckInDate, End: today}, settings.Mode)
		if stayed > res.Units {
			stayed = res.Units
		}
	}

	paid, err := s.Payments.GetNetPaid(ctx, res.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch payments for %s: %w", res.ID, err)
	}

	preview := EarlyCheckoutQuote(res.Units, stayed, res.Price/float64(res.Units), paid)
	return &preview, nil
}

// EarlyCheckoutQuote computes what an early departure owes and what it gets
// back: the refund is capped both by the value of the unused units and by
// what remains of the paid amount after covering the units stayed, and is
// never negative.
func EarlyCheckoutQuote(unitsTotal, unitsStayed int, pricePerUnit, netPaid float64) models.EarlyCheckoutPreview {
	owedStayed := utils.Round2(float64(unitsStayed) * pricePerUnit)
	owedUnused := utils.Round2(float64(unitsTotal-unitsStayed) * pricePerUnit)
	refund := math.Min(owedUnused, math.Max(0, netPaid-owedStayed))
	if refund < 0 {
		refund = 0
	}
	return models.EarlyCheckoutPreview{
		UnitsTotal:  unitsTotal,
		UnitsStayed: unitsStayed,
		AmountOwed:  owedStayed,
		NetPaid:     netPaid,
		Refund:      utils.Round2(refund),
	}
}

// containsDay reports whether the calendar day d falls inside the window,
// both boundary days included.
func containsDay(w models.DateWindow, d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}
