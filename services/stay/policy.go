package stay

import (
	"time"

	"pethaven/models"
)

// The calculation-mode policy. Every date comparison in the engine goes
// through these functions; no caller re-implements the by-day/by-night
// arithmetic.

// UnitCount returns how many billable units a window spans. By-day counts
// every calendar day the pet occupies, arrival and departure day included;
// by-night counts nights only.
func UnitCount(w models.DateWindow, mode models.CalculationMode) int {
	days := w.Days()
	if mode == models.ModeByDay {
		return days + 1
	}
	return days
}

// MinimumUnits is the smallest bookable stay length.
func MinimumUnits(mode models.CalculationMode) int {
	return 1
}

// AreSequential reports whether a segment ending on firstEnd and a segment
// starting on secondStart tile without a gap or overlap. By-day requires the
// second to start the day after the first ends; by-night allows a same-day
// handover, since checkout at noon frees the room for the evening arrival.
func AreSequential(firstEnd, secondStart time.Time, mode models.CalculationMode) bool {
	firstEnd = models.DateOnly(firstEnd)
	secondStart = models.DateOnly(secondStart)
	if mode == models.ModeByDay {
		return secondStart.Equal(firstEnd.AddDate(0, 0, 1))
	}
	return secondStart.Equal(firstEnd)
}

// Overlaps reports whether two stay windows conflict in the same room.
// By-day treats shared boundary days as conflicting; by-night uses half-open
// [start, end) semantics, so one stay's departure day is free for the next
// stay's arrival.
func Overlaps(a, b models.DateWindow, mode models.CalculationMode) bool {
	if mode == models.ModeByDay {
		return !a.Start.After(b.End) && !b.Start.After(a.End)
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// NextSegmentStart returns the day on which a follow-up segment must begin
// after a segment ending on priorEnd.
func NextSegmentStart(priorEnd time.Time, mode models.CalculationMode) time.Time {
	priorEnd = models.DateOnly(priorEnd)
	if mode == models.ModeByDay {
		return priorEnd.AddDate(0, 0, 1)
	}
	return priorEnd
}

// occupiesDay reports whether a stay over [checkIn, checkOut] claims the
// calendar day d under the mode's occupancy convention.
func occupiesDay(checkIn, checkOut, d time.Time, mode models.CalculationMode) bool {
	if mode == models.ModeByDay {
		return !d.Before(checkIn) && !d.After(checkOut)
	}
	return !d.Before(checkIn) && d.Before(checkOut)
}
