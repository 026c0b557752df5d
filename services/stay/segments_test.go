package stay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethaven/models"
)

func TestFindSegmentsAroundFullyBookedGap(t *testing.T) {
	// Fully booked 12-14 by day: the finder yields the two free windows on
	// either side, which do not cover the searched window.
	cal := BuildCalendar("standard", win(10, 16), models.ModeByDay, 1,
		[]models.BookingInterval{booking("standard", "std-1", 12, 14)})

	segs := FindSegments(cal, standardType(), 1)
	require.Len(t, segs, 2)
	assert.Equal(t, win(10, 11), segs[0].Window())
	assert.Equal(t, win(15, 16), segs[1].Window())
	assert.Equal(t, 2, segs[0].Units)
	assert.Equal(t, 2000.0, segs[0].Price)
}

func TestFindSegmentsDiscardsTooShortByDayRun(t *testing.T) {
	// A single free calendar day cannot form a valid stay window by day.
	cal := BuildCalendar("standard", win(10, 14), models.ModeByDay, 1,
		[]models.BookingInterval{
			booking("standard", "std-1", 10, 11),
			booking("standard", "std-1", 13, 14),
		})

	segs := FindSegments(cal, standardType(), 1)
	assert.Empty(t, segs)
}

func TestFindSegmentsFullWindow(t *testing.T) {
	cal := BuildCalendar("standard", win(10, 15), models.ModeByNight, 1, nil)
	segs := FindSegments(cal, standardType(), 2)
	require.Len(t, segs, 1)
	assert.Equal(t, win(10, 15), segs[0].Window())
	assert.Equal(t, 5, segs[0].Units)
	// 5 nights of room price plus 5 nights of one extra pet.
	assert.Equal(t, 5000.0, segs[0].BasePrice)
	assert.Equal(t, 1250.0, segs[0].ExtraPetPrice)
	assert.Equal(t, 6250.0, segs[0].Price)
}

func TestValidateTiling(t *testing.T) {
	rt := standardType()
	window := win(10, 16)

	good := []models.Segment{
		buildSegment(rt, win(10, 12), 1, models.ModeByDay),
		buildSegment(rt, win(13, 16), 1, models.ModeByDay),
	}
	assert.NoError(t, validateTiling(good, window, models.ModeByDay))

	gap := []models.Segment{
		buildSegment(rt, win(10, 12), 1, models.ModeByDay),
		buildSegment(rt, win(14, 16), 1, models.ModeByDay),
	}
	err := validateTiling(gap, window, models.ModeByDay)
	require.Error(t, err)
	assert.True(t, IsInvariantViolation(err))

	short := []models.Segment{buildSegment(rt, win(10, 15), 1, models.ModeByDay)}
	err = validateTiling(short, window, models.ModeByDay)
	require.Error(t, err)
	assert.True(t, IsInvariantViolation(err))

	nightHandover := []models.Segment{
		buildSegment(rt, win(10, 13), 1, models.ModeByNight),
		buildSegment(rt, win(13, 16), 1, models.ModeByNight),
	}
	assert.NoError(t, validateTiling(nightHandover, window, models.ModeByNight))
}
