package models

import "time"

// ReservationStatus is the lifecycle state of a reservation. Parents and
// children move through the same machine; parent-level operations drive
// their children.
type ReservationStatus string

const (
	StatusPending         ReservationStatus = "pending"
	StatusAwaitingPayment ReservationStatus = "awaitingPayment"
	StatusConfirmed       ReservationStatus = "confirmed"
	StatusCheckedIn       ReservationStatus = "checkedIn"
	StatusCheckedOut      ReservationStatus = "checkedOut"
	StatusCancelled       ReservationStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

// Reservation is a persisted stay. A composite (parent) reservation spans
// multiple segments and owns an ordered set of child reservations; children
// never have children of their own.
type Reservation struct {
	ID       string   `json:"id"`
	ClientID string   `json:"client_id"`
	PetIDs   []string `json:"pet_ids,omitempty"`

	RoomTypeID string `json:"room_type_id,omitempty"` // empty on parents
	RoomID     string `json:"room_id,omitempty"`

	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	Units        int       `json:"units"`

	// BasePrice is the pre-discount price; Price is what the client pays.
	BasePrice       float64 `json:"base_price"`
	Price           float64 `json:"price"`
	DiscountPercent float64 `json:"discount_percent"`

	Status ReservationStatus `json:"status"`

	IsComposite  bool   `json:"is_composite"`
	ParentID     string `json:"parent_id,omitempty"`
	SegmentOrder int    `json:"segment_order,omitempty"` // 1-based among siblings

	// Early-checkout audit trail: when a stay is shortened, the booked end
	// date is preserved here and CheckOutDate is moved to the actual date.
	IsEarlyCheckout      bool      `json:"is_early_checkout,omitempty"`
	OriginalCheckOutDate time.Time `json:"original_check_out_date,omitzero"`

	CreatedAt time.Time `json:"created_at"`
}

// Window returns the reservation's booked date window.
func (r *Reservation) Window() DateWindow {
	return DateWindow{Start: r.CheckInDate, End: r.CheckOutDate}
}

// IsChild reports whether the reservation is a segment of a composite stay.
func (r *Reservation) IsChild() bool {
	return r.ParentID != ""
}
