package models

import "time"

// CalculationMode selects the date-arithmetic convention for the whole hotel.
type CalculationMode string

const (
	// ModeByDay bills every calendar day the pet occupies, including both
	// the arrival and the departure day, as one unit each. Arrival and
	// departure days of a booking are blocked for other bookings of the
	// same room.
	ModeByDay CalculationMode = "byDay"

	// ModeByNight bills nights only; the departure day is free for a
	// same-day arrival of the next booking.
	ModeByNight CalculationMode = "byNight"
)

// HotelSettings is the immutable per-resolution snapshot of the hotel-wide
// settings row. One snapshot is taken at the start of a resolution call and
// never re-read mid-computation.
type HotelSettings struct {
	Mode         CalculationMode `json:"calculation_mode"`
	CheckInTime  string          `json:"check_in_time"`
	CheckOutTime string          `json:"check_out_time"`
}

// DateOnly strips the time-of-day and location from t so that calendar
// arithmetic never drifts across time zones or DST boundaries.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateWindow is a requested stay interval. Start and End are calendar dates
// at midnight UTC; End is always strictly after Start.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateWindow normalizes both dates to midnight UTC.
func NewDateWindow(start, end time.Time) DateWindow {
	return DateWindow{Start: DateOnly(start), End: DateOnly(end)}
}

// Valid reports whether the window satisfies the End > Start invariant.
func (w DateWindow) Valid() bool {
	return w.End.After(w.Start)
}

// Days returns the number of whole days between Start and End.
func (w DateWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}
