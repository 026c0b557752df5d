package models

import "time"

// OptionKind classifies a booking option by how the stay is housed.
type OptionKind string

const (
	// OptionSingle keeps the pets in one room of one type for the whole stay.
	OptionSingle OptionKind = "single"
	// OptionSameType relocates between rooms of the same type mid-stay.
	OptionSameType OptionKind = "sameType"
	// OptionMixed relocates across two or more room types mid-stay.
	OptionMixed OptionKind = "mixed"
)

// Priority returns the ranking priority of the kind: perfect stays first.
func (k OptionKind) Priority() int {
	switch k {
	case OptionSingle:
		return 0
	case OptionSameType:
		return 1
	default:
		return 2
	}
}

// Segment is one contiguous slice of a stay housed in a single room type.
// Segments are produced by the search and are immutable; they only become
// persisted state once composite assembly commits them as child reservations.
type Segment struct {
	RoomTypeID    string    `json:"room_type_id"`
	RoomTypeName  string    `json:"room_type_name"`
	RoomID        string    `json:"room_id,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Units         int       `json:"units"`
	BasePrice     float64   `json:"base_price"`
	ExtraPetPrice float64   `json:"extra_pet_price"`
	Price         float64   `json:"price"` // base + extra pets, discounted once ranked
}

// Window returns the segment's date window.
func (s Segment) Window() DateWindow {
	return DateWindow{Start: s.Start, End: s.End}
}

// PriceBreakdown itemizes how an option's total price was computed.
type PriceBreakdown struct {
	BasePrice       float64 `json:"base_price"`
	ExtraPetPrice   float64 `json:"extra_pet_price"`
	DiscountAmount  float64 `json:"discount_amount"`
	DiscountPercent float64 `json:"discount_percent"`
	Units           int     `json:"units"`
	PetCount        int     `json:"pet_count"`
}

// BookingOption is one feasible way to house a requested stay: an ordered,
// chronological list of segments that exactly tile the requested window.
type BookingOption struct {
	Kind          OptionKind     `json:"kind"`
	Segments      []Segment      `json:"segments"`
	TotalPrice    float64        `json:"total_price"`
	TotalUnits    int            `json:"total_units"`
	TransferCount int            `json:"transfer_count"`
	Priority      int            `json:"priority"`
	Warning       string         `json:"warning,omitempty"`
	Breakdown     PriceBreakdown `json:"breakdown"`
}

// OptionSet is the result envelope of a stay resolution.
type OptionSet struct {
	SingleOptions     []BookingOption `json:"single_options"`
	SameTypeOptions   []BookingOption `json:"same_type_options"`
	MixedOptions      []BookingOption `json:"mixed_options"`
	TotalOptions      int             `json:"total_options"`
	HasPerfectOptions bool            `json:"has_perfect_options"`
}

// EarlyCheckoutPreview is the read-only financial projection of checking a
// reservation out before its booked end date.
type EarlyCheckoutPreview struct {
	UnitsTotal  int     `json:"units_total"`
	UnitsStayed int     `json:"units_stayed"`
	AmountOwed  float64 `json:"amount_owed"` // for the units actually stayed
	NetPaid     float64 `json:"net_paid"`
	Refund      float64 `json:"refund"`
}
