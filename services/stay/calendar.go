package stay

import (
	"time"

	"pethaven/models"
)

// CalendarDay is one billable unit day of a room type's availability map.
type CalendarDay struct {
	Date          time.Time
	OccupiedRooms int
	// Turnover marks a day on which an existing booking of this room type
	// checks in or out. In by-day mode such days are occupied for the room
	// being serviced.
	Turnover bool
	Free     bool
}

// Calendar is the per-day availability map of one room type over a window.
// In by-day mode it covers every calendar day of the window; in by-night
// mode it covers the nights (the departure day carries no unit).
type Calendar struct {
	RoomTypeID string
	Mode       models.CalculationMode
	Days       []CalendarDay
}

// BuildCalendar derives the availability map from the room count and the
// bookings intersecting the window. A room type with no rooms produces an
// empty map.
func BuildCalendar(roomTypeID string, window models.DateWindow, mode models.CalculationMode, totalRooms int, bookings []models.BookingInterval) Calendar {
	cal := Calendar{RoomTypeID: roomTypeID, Mode: mode}
	if totalRooms <= 0 {
		return cal
	}

	last := window.End
	if mode == models.ModeByNight {
		last = last.AddDate(0, 0, -1)
	}

	for d := window.Start; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := CalendarDay{Date: d}
		for _, b := range bookings {
			in := models.DateOnly(b.CheckIn)
			out := models.DateOnly(b.CheckOut)
			if occupiesDay(in, out, d, mode) {
				day.OccupiedRooms++
			}
			if mode == models.ModeByDay && (d.Equal(in) || d.Equal(out)) {
				day.Turnover = true
			}
		}
		day.Free = day.OccupiedRooms < totalRooms
		cal.Days = append(cal.Days, day)
	}
	return cal
}

// AllFree reports whether every day in the map has at least one free room.
func (c Calendar) AllFree() bool {
	if len(c.Days) == 0 {
		return false
	}
	for _, d := range c.Days {
		if !d.Free {
			return false
		}
	}
	return true
}

// freeRuns returns the maximal runs of consecutive free days as inclusive
// [first, last] index pairs, in chronological order.
func (c Calendar) freeRuns() [][2]int {
	var runs [][2]int
	start := -1
	for i, d := range c.Days {
		if d.Free {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, [2]int{start, i - 1})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(c.Days) - 1})
	}
	return runs
}

// runWindow converts a run of unit days into a stay window. In by-night mode
// the stay ends the morning after its last occupied night.
func (c Calendar) runWindow(first, last int) models.DateWindow {
	start := c.Days[first].Date
	end := c.Days[last].Date
	if c.Mode == models.ModeByNight {
		end = end.AddDate(0, 0, 1)
	}
	return models.DateWindow{Start: start, End: end}
}

// dayIndex returns the index of date d in the map, or -1.
func (c Calendar) dayIndex(d time.Time) int {
	if len(c.Days) == 0 {
		return -1
	}
	idx := int(d.Sub(c.Days[0].Date).Hours() / 24)
	if idx < 0 || idx >= len(c.Days) {
		return -1
	}
	return idx
}
