package stay

import (
	"pethaven/models"
	"pethaven/utils"
)

// FindSegments walks the availability map chronologically and extracts the
// maximal free sub-intervals of the room type as priced segments. Segments
// shorter than the minimum stay are discarded, not carried forward. The
// result may be empty and may not cover the searched window; coverage is the
// caller's concern.
func FindSegments(cal Calendar, rt models.RoomTypeCapacity, petCount int) []models.Segment {
	var segs []models.Segment
	for _, run := range cal.freeRuns() {
		w := cal.runWindow(run[0], run[1])
		if !w.Valid() {
			continue
		}
		if UnitCount(w, cal.Mode) < MinimumUnits(cal.Mode) {
			continue
		}
		segs = append(segs, buildSegment(rt, w, petCount, cal.Mode))
	}
	return segs
}

// buildSegment prices one contiguous slice of a stay in a room type:
// pricePerUnit for the room plus the extra-pet rate for every pet beyond
// the first, both per unit.
func buildSegment(rt models.RoomTypeCapacity, w models.DateWindow, petCount int, mode models.CalculationMode) models.Segment {
	units := UnitCount(w, mode)
	base := float64(units) * rt.PricePerUnit
	extra := float64(units) * rt.PricePerExtraPet * float64(max(0, petCount-1))
	return models.Segment{
		RoomTypeID:    rt.ID,
		RoomTypeName:  rt.Name,
		Start:         w.Start,
		End:           w.End,
		Units:         units,
		BasePrice:     utils.Round2(base),
		ExtraPetPrice: utils.Round2(extra),
		Price:         utils.Round2(base + extra),
	}
}

// validateTiling checks that the segments are chronological, pairwise
// sequential under the mode, and exactly span the window. A failure here on
// engine-produced segments is a defect, never a user error.
func validateTiling(segs []models.Segment, window models.DateWindow, mode models.CalculationMode) error {
	if len(segs) == 0 {
		return NewInvariantViolation("tiling of %s..%s has no segments",
			window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	}
	if !segs[0].Start.Equal(window.Start) {
		return NewInvariantViolation("tiling starts %s, window starts %s",
			segs[0].Start.Format("2006-01-02"), window.Start.Format("2006-01-02"))
	}
	if !segs[len(segs)-1].End.Equal(window.End) {
		return NewInvariantViolation("tiling ends %s, window ends %s",
			segs[len(segs)-1].End.Format("2006-01-02"), window.End.Format("2006-01-02"))
	}
	units := 0
	for i, s := range segs {
		if !s.Window().Valid() {
			return NewInvariantViolation("segment %d has an empty window", i+1)
		}
		if i > 0 && !AreSequential(segs[i-1].End, s.Start, mode) {
			return NewInvariantViolation("segments %d and %d are not sequential", i, i+1)
		}
		units += s.Units
	}
	if units != UnitCount(window, mode) {
		return NewInvariantViolation("tiling units %d != window units %d", units, UnitCount(window, mode))
	}
	return nil
}
