package stay

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"pethaven/models"
	"pethaven/utils"
)

const (
	// MaxSegmentsPerStay bounds how many segments a stay may be split into.
	MaxSegmentsPerStay = 4
	// MaxRawCandidates bounds how many raw tilings the mixed search collects
	// before giving up on further branches.
	MaxRawCandidates = 20
	// MaxCompositeOptions caps how many relocation options (same-type and
	// mixed combined) are returned to the caller.
	MaxCompositeOptions = 5
)

type memoKey struct {
	roomTypeID string
	cursor     int64
}

// resolver holds the state of one stay-resolution call: the settings
// snapshot, the repository results fetched once up front, and the
// memoization cache. It is built fresh for every call and never shared.
type resolver struct {
	log      *zap.Logger
	mode     models.CalculationMode
	window   models.DateWindow
	petCount int

	// roomTypes is in stable order (ascending price, then name) so that
	// tie-broken output is deterministic.
	roomTypes []models.RoomTypeCapacity
	counts    map[string]int
	bookings  map[string][]models.BookingInterval
	roomIDs   map[string][]string
	calendars map[string]Calendar

	// memo caches the maximum reachable stay end per (room type, cursor);
	// the window end is fixed for the whole call. A zero time means the
	// cursor is unreachable for that type.
	memo map[memoKey]time.Time
}

func sortRoomTypes(roomTypes []models.RoomTypeCapacity) {
	sort.Slice(roomTypes, func(i, j int) bool {
		if roomTypes[i].PricePerUnit != roomTypes[j].PricePerUnit {
			return roomTypes[i].PricePerUnit < roomTypes[j].PricePerUnit
		}
		return roomTypes[i].Name < roomTypes[j].Name
	})
}

// findSingle collects one Single option per room type that still has a room
// free for the entire requested window.
func (r *resolver) findSingle() []models.BookingOption {
	var opts []models.BookingOption
	for _, rt := range r.roomTypes {
		if !r.freeRoomThroughout(rt.ID) {
			continue
		}
		seg := buildSegment(rt, r.window, r.petCount, r.mode)
		opts = append(opts, makeOption(models.OptionSingle, []models.Segment{seg}, r.petCount))
	}
	return opts
}

// freeRoomThroughout reports whether at least one room of the type has no
// booking conflicting with the window. Bookings without a room assignment
// are counted against capacity conservatively.
func (r *resolver) freeRoomThroughout(roomTypeID string) bool {
	total := r.counts[roomTypeID]
	if total <= 0 {
		return false
	}
	blocked := make(map[string]bool)
	unassigned := 0
	for _, b := range r.bookings[roomTypeID] {
		w := models.NewDateWindow(b.CheckIn, b.CheckOut)
		if !Overlaps(w, r.window, r.mode) {
			continue
		}
		if b.RoomID == "" {
			unassigned++
		} else {
			blocked[b.RoomID] = true
		}
	}
	return total-len(blocked)-unassigned >= 1
}

// findSameType collects one SameType option per room type that can host the
// whole window, but only by relocating between rooms of that type.
func (r *resolver) findSameType() []models.BookingOption {
	var opts []models.BookingOption
	for _, rt := range r.roomTypes {
		opt, ok := r.sameTypeOption(rt)
		if !ok {
			continue
		}
		opts = append(opts, opt)
	}
	return opts
}

func (r *resolver) sameTypeOption(rt models.RoomTypeCapacity) (models.BookingOption, bool) {
	// The type must have a free room on every day of the window, yet no
	// single room covering it all; otherwise the stay is either impossible
	// here or already a Single option.
	if !r.calendars[rt.ID].AllFree() || r.freeRoomThroughout(rt.ID) {
		return models.BookingOption{}, false
	}

	rooms, ok := r.roomsForChaining(rt.ID)
	if !ok {
		return models.BookingOption{}, false
	}

	var segs []models.Segment
	cursor := r.window.Start
	for {
		if len(segs) == MaxSegmentsPerStay {
			return models.BookingOption{}, false
		}
		roomID, end, ok := r.bestRoomRun(rt.ID, rooms, cursor)
		if !ok {
			return models.BookingOption{}, false
		}
		w := models.DateWindow{Start: cursor, End: end}
		if !w.Valid() || UnitCount(w, r.mode) < MinimumUnits(r.mode) {
			return models.BookingOption{}, false
		}
		seg := buildSegment(rt, w, r.petCount, r.mode)
		seg.RoomID = roomID
		segs = append(segs, seg)
		if end.Equal(r.window.End) {
			break
		}
		cursor = NextSegmentStart(end, r.mode)
	}

	if len(segs) < 2 {
		return models.BookingOption{}, false
	}
	if err := validateTiling(segs, r.window, r.mode); err != nil {
		r.log.Error("same-type chain produced a broken tiling",
			zap.String("roomType", rt.ID), zap.Error(err))
		return models.BookingOption{}, false
	}

	opt := makeOption(models.OptionSameType, segs, r.petCount)
	opt.Warning = fmt.Sprintf("Stay requires %d room change(s) within %s", opt.TransferCount, rt.Name)
	return opt, true
}

// roomsForChaining returns the concrete room ids to chain over. Per-room
// reasoning is unsound while an unassigned booking overlaps the window, so
// the type is skipped in that case.
func (r *resolver) roomsForChaining(roomTypeID string) ([]string, bool) {
	seen := make(map[string]bool)
	var rooms []string
	for _, id := range r.roomIDs[roomTypeID] {
		if !seen[id] {
			seen[id] = true
			rooms = append(rooms, id)
		}
	}
	for _, b := range r.bookings[roomTypeID] {
		w := models.NewDateWindow(b.CheckIn, b.CheckOut)
		if !Overlaps(w, r.window, r.mode) {
			continue
		}
		if b.RoomID == "" {
			r.log.Debug("skipping same-type chaining: unassigned booking in window",
				zap.String("roomType", roomTypeID))
			return nil, false
		}
		if !seen[b.RoomID] {
			seen[b.RoomID] = true
			rooms = append(rooms, b.RoomID)
		}
	}
	if len(rooms) == 0 {
		return nil, false
	}
	sort.Strings(rooms)
	return rooms, true
}

// bestRoomRun picks the room whose uninterrupted free run from cursor
// reaches furthest, and the stay end date of that run capped at the window
// end. Ties resolve to the first room in stable order.
func (r *resolver) bestRoomRun(roomTypeID string, rooms []string, cursor time.Time) (string, time.Time, bool) {
	var bestRoom string
	var bestEnd time.Time
	for _, roomID := range rooms {
		end, ok := r.roomRunEnd(roomTypeID, roomID, cursor)
		if !ok {
			continue
		}
		if bestRoom == "" || end.After(bestEnd) {
			bestRoom = roomID
			bestEnd = end
		}
	}
	if bestRoom == "" {
		return "", time.Time{}, false
	}
	return bestRoom, bestEnd, true
}

// roomRunEnd walks the unit days from cursor while the given room is free
// and returns the resulting stay end date, capped at the window end.
func (r *resolver) roomRunEnd(roomTypeID, roomID string, cursor time.Time) (time.Time, bool) {
	cal := r.calendars[roomTypeID]
	idx := cal.dayIndex(cursor)
	if idx < 0 {
		return time.Time{}, false
	}
	last := -1
	for i := idx; i < len(cal.Days); i++ {
		if r.roomOccupiedOn(roomTypeID, roomID, cal.Days[i].Date) {
			break
		}
		last = i
	}
	if last < 0 {
		return time.Time{}, false
	}
	end := cal.runWindow(idx, last).End
	if end.After(r.window.End) {
		end = r.window.End
	}
	return end, true
}

func (r *resolver) roomOccupiedOn(roomTypeID, roomID string, d time.Time) bool {
	for _, b := range r.bookings[roomTypeID] {
		if b.RoomID != roomID {
			continue
		}
		if occupiesDay(models.DateOnly(b.CheckIn), models.DateOnly(b.CheckOut), d, r.mode) {
			return true
		}
	}
	return false
}

// findMixed runs the bounded depth-first search for tilings that chain
// segments across room types.
func (r *resolver) findMixed() []models.BookingOption {
	var tilings [][]models.Segment
	var stack []models.Segment
	raw := 0

	var dfs func(cursor time.Time)
	dfs = func(cursor time.Time) {
		for _, rt := range r.roomTypes {
			if raw >= MaxRawCandidates {
				return
			}
			end, ok := r.reachableEnd(rt.ID, cursor)
			if !ok {
				continue
			}
			if end.After(r.window.End) {
				end = r.window.End
			}
			w := models.DateWindow{Start: cursor, End: end}
			if !w.Valid() || UnitCount(w, r.mode) < MinimumUnits(r.mode) {
				continue
			}
			stack = append(stack, buildSegment(rt, w, r.petCount, r.mode))
			if end.Equal(r.window.End) {
				raw++
				tilings = append(tilings, append([]models.Segment(nil), stack...))
			} else if len(stack) < MaxSegmentsPerStay {
				dfs(NextSegmentStart(end, r.mode))
			}
			stack = stack[:len(stack)-1]
		}
	}
	dfs(r.window.Start)

	var opts []models.BookingOption
	for _, segs := range tilings {
		// Single-segment covers belong to the Single family; relocations
		// within one type belong to the SameType family.
		if len(segs) < 2 || distinctRoomTypes(segs) < 2 {
			continue
		}
		if err := validateTiling(segs, r.window, r.mode); err != nil {
			r.log.Error("mixed search produced a broken tiling", zap.Error(err))
			continue
		}
		opt := makeOption(models.OptionMixed, segs, r.petCount)
		opt.Warning = fmt.Sprintf("Stay requires %d room change(s) across room types", opt.TransferCount)
		opts = append(opts, opt)
	}
	return opts
}

// reachableEnd returns the furthest stay end date reachable from cursor in
// one uninterrupted segment of the room type. Results are memoized for the
// duration of the resolution call.
func (r *resolver) reachableEnd(roomTypeID string, cursor time.Time) (time.Time, bool) {
	key := memoKey{roomTypeID: roomTypeID, cursor: cursor.Unix()}
	if end, ok := r.memo[key]; ok {
		return end, !end.IsZero()
	}

	cal := r.calendars[roomTypeID]
	idx := cal.dayIndex(cursor)
	end := time.Time{}
	if idx >= 0 {
		last := -1
		for i := idx; i < len(cal.Days); i++ {
			if !cal.Days[i].Free {
				break
			}
			last = i
		}
		if last >= 0 {
			end = cal.runWindow(idx, last).End
		}
	}
	r.memo[key] = end
	return end, !end.IsZero()
}

func distinctRoomTypes(segs []models.Segment) int {
	seen := make(map[string]bool, len(segs))
	for _, s := range segs {
		seen[s.RoomTypeID] = true
	}
	return len(seen)
}

// makeOption aggregates segments into an undiscounted booking option.
func makeOption(kind models.OptionKind, segs []models.Segment, petCount int) models.BookingOption {
	var total, base, extra float64
	units := 0
	for _, s := range segs {
		total += s.Price
		base += s.BasePrice
		extra += s.ExtraPetPrice
		units += s.Units
	}
	return models.BookingOption{
		Kind:          kind,
		Segments:      segs,
		TotalPrice:    utils.Round2(total),
		TotalUnits:    units,
		TransferCount: len(segs) - 1,
		Priority:      kind.Priority(),
		Breakdown: models.PriceBreakdown{
			BasePrice:     utils.Round2(base),
			ExtraPetPrice: utils.Round2(extra),
			Units:         units,
			PetCount:      petCount,
		},
	}
}
