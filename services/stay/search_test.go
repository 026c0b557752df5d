package stay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethaven/models"
)

func TestFindOptionsRejectsBadInput(t *testing.T) {
	env := newTestEnv(models.ModeByDay)

	_, err := env.service.FindOptions(context.Background(), FindOptionsRequest{
		Window: win(15, 10), PetCount: 1,
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = env.service.FindOptions(context.Background(), FindOptionsRequest{
		Window: win(10, 10), PetCount: 1,
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = env.service.FindOptions(context.Background(), FindOptionsRequest{
		Window: win(10, 15), PetCount: 0,
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestFindOptionsEmptyInventoryIsNotAnError(t *testing.T) {
	env := newTestEnv(models.ModeByDay)

	set, err := env.service.FindOptions(context.Background(), FindOptionsRequest{
		Window: win(10, 15), PetCount: 1,
	})
	require.NoError(t, err)
	assert.Zero(t, set.TotalOptions)
	assert.False(t, set.HasPerfectOptions)
}

// One Standard room, free for the whole period: a single perfect option.
func TestFindOptionsSingleRoomFree(t *testing.T) {
	env := newTestEnv(models.ModeByNight)
	env.inventory.AddRoomType(standardType(), "std-1")

	set, err := env.service.FindOptions(context.Background(), FindOptionsRequest{
		Window: win(10, 15), PetCount: 1,
	})
	require.NoError(t, err)

	require.Len(t, set.SingleOptions, 1)
	assert.True(t, set.HasPerfectOptions)
	assert.Equal(t, 1, set.TotalOptions)
	opt := set.SingleOptions[0]
	assert.Equal(t, models.OptionSingle, opt.Kind)
	assert.Equal(t, 0, opt.TransferCount)
	assert.Equal(t, 5, opt.TotalUnits)
	assert.Equal(t, 5000.0, opt.TotalPrice) // 5 nights at the unit price
}

// Two Standard rooms, one of them booked: the second still yields a Single.
func TestFindOptionsSecondRoomCoversBookedOne(t *testing.T) {
	env := newTestEnv(models.ModeByDay)
	env.inventory.AddRoomType(standardType(), "std-1", "std-2")
	env.inventory.AddBooking(booking("standard", "std-1", 10, 13))

	set, err := env.service.FindOptions(context.Background(), FindOptionsRequest{
		Window: win(10, 15), PetCount: 1,
	})
	require.NoError(t, err)

	require.Len(t, set.SingleOptions, 1)
	assert.Empty(t, set.SameTypeOptions)
	assert.Empty(t, set.MixedOptions)
}

// Standard fully booked mid-period: its two free fragments cannot cover the
// window, so no same-type option appears; a second room type bridges the gap
// in the mixed search instead.
func TestFindOptionsGapBridgedByOtherType(t *testing.T) {
	env := newTestEnv(models.ModeByDay)
	env.inventory.AddRoomType(standardType(), "std-1")
	env.inventory.AddRoomType(deluxeType(), "dlx-1")
	env.inventory.AddBooking(booking("standard", "std-1", 12, 14))

	set, err := env.service.FindOptions(context.Background(), FindOptionsRequest{
		Window: win(10, 16), PetCount: 1,
	})
	require.NoError(t, err)

	// Deluxe alone is the only perfect option.
	require.Len(t, set.SingleOptions, 1)
	assert.Equal(t, "deluxe", set.SingleOptions[0].Segments[0].RoomTypeID)
	assert.Empty(t, set.SameTypeOptions)

	require.Len(t, set.MixedOptions, 1)
	mixed := set.MixedOptions[0]
	require.Len(t, mixed.Segments, 2)
	assert.Equal(t, "standard", mixed.Segments[0].RoomTypeID)
	assert.Equal(t, win(10, 11), mixed.Segments[0].Window())
	assert.Equal(t, "deluxe", mixed.Segments[1].RoomTypeID)
	assert.Equal(t, win(12, 16), mixed.Segments[1].Window())
	assert.Equal(t, 11000.0, mixed.TotalPrice) // 2x1000 + 5x1800
	assert.Equal(t, 1, mixed.TransferCount)
	assert.Equal(t, 2, mixed.Priority)
	assert.NotEmpty(t, mixed.Warning)
}

// No single Standard room spans the window, but chaining two of them does.
func TestFindOptionsSameTypeRelocation(t *testing.T) {
	env := newTestEnv(models.ModeByDay)
	env.inventory.AddRoomType(standardType(), "std-1", "std-2")
	env.inventory.AddBooking(booking("standard", "std-1", 14, 20))
	env.inventory.AddBooking(booking("standard", "std-2", 1, 13))

	set, err := env.service.FindOptions(context.Background(), FindOptionsRequest{
		Window: win(10, 16), PetCount: 1,
	})
	require.NoError(t, err)

	assert.Empty(t, set.SingleOptions)
	assert.False(t, set.HasPerfectOptions)
	assert.Empty(t, set.MixedOptions)

	require.Len(t, set.SameTypeOptions, 1)
	opt := set.SameTypeOptions[0]
	assert.Equal(t, models.OptionSameType, opt.Kind)
	assert.Equal(t, 1, opt.Priority)
	require.Len(t, opt.Segments, 2)
	assert.Equal(t, "std-1", opt.Segments[0].RoomID)
	assert.Equal(t, win(10, 13), opt.Segments[0].Window())
	assert.Equal(t, "std-2", opt.Segments[1].RoomID)
	assert.Equal(t, win(14, 16), opt.Segments[1].Window())
	assert.Equal(t, 7, opt.TotalUnits)
	assert.Equal(t, 7000.0, opt.TotalPrice)
	assert.Contains(t, opt.Warning, "1 room change")

	// The tiling covers exactly the window's unit count.
	assert.Equal(t, UnitCount(win(10, 16), models.ModeByDay), opt.TotalUnits)
}

// Room types too small for the pet group never participate.
func TestFindOptionsFiltersByPetCapacity(t *testing.T) {
	env := newTestEnv(models.ModeByDay)
	env.inventory.AddRoomType(standardType(), "std-1") // MaxPets 2
	env.inventory.AddRoomType(deluxeType(), "dlx-1")   // MaxPets 4

	set, err := env.service.FindOptions(context.Background(), FindOptionsRequest{
		Window: win(10, 15), PetCount: 3,
	})
	require.NoError(t, err)

	require.Len(t, set.SingleOptions, 1)
	assert.Equal(t, "deluxe", set.SingleOptions[0].Segments[0].RoomTypeID)
}

func blockExcept(env *testEnv, roomTypeID, roomID string, freeFrom, freeTo int) {
	if freeFrom > 6 {
		env.inventory.AddBooking(booking(roomTypeID, roomID, 5, freeFrom-1))
	}
	env.inventory.AddBooking(booking(roomTypeID, roomID, freeTo+1, 25))
}

// A tiling that needs four segments is found; one that would need five is
// abandoned at the recursion bound.
func TestFindOptionsMixedSearchDepthBound(t *testing.T) {
	env := newTestEnv(models.ModeByDay)
	freeDays := [][2]int{{10, 11}, {12, 13}, {14, 15}, {16, 17}, {18, 19}}
	for i, free := range freeDays {
		rt := models.RoomTypeCapacity{
			ID: string(rune('a' + i)), Name: string(rune('A' + i)),
			MaxPets: 2, PricePerUnit: float64(100 * (i + 1)),
		}
		roomID := rt.ID + "-1"
		env.inventory.AddRoomType(rt, roomID)
		blockExcept(env, rt.ID, roomID, free[0], free[1])
	}

	set, err := env.service.FindOptions(context.Background(), FindOptionsRequest{
		Window: win(10, 17), PetCount: 1,
	})
	require.NoError(t, err)
	require.Len(t, set.MixedOptions, 1)
	assert.Len(t, set.MixedOptions[0].Segments, MaxSegmentsPerStay)

	set, err = env.service.FindOptions(context.Background(), FindOptionsRequest{
		Window: win(10, 19), PetCount: 1,
	})
	require.NoError(t, err)
	assert.Zero(t, set.TotalOptions)
}

// Unchanged inventory must yield an identical option set, ordering included.
func TestFindOptionsIdempotent(t *testing.T) {
	env := newTestEnv(models.ModeByDay)
	env.inventory.AddRoomType(standardType(), "std-1")
	env.inventory.AddRoomType(deluxeType(), "dlx-1")
	env.inventory.AddBooking(booking("standard", "std-1", 12, 14))

	req := FindOptionsRequest{Window: win(10, 16), PetCount: 1, DiscountPercent: 12.5}
	first, err := env.service.FindOptions(context.Background(), req)
	require.NoError(t, err)
	second, err := env.service.FindOptions(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
