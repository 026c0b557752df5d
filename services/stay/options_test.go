package stay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethaven/models"
)

func TestApplyDiscountPerSegment(t *testing.T) {
	rt := standardType()
	opt := makeOption(models.OptionSameType, []models.Segment{
		buildSegment(rt, win(10, 13), 2, models.ModeByDay),
		buildSegment(rt, win(14, 16), 2, models.ModeByDay),
	}, 2)

	gross := opt.TotalPrice
	discounted := applyDiscount(opt, 15)

	var segSum float64
	for _, s := range discounted.Segments {
		segSum += s.Price
	}
	assert.InDelta(t, segSum, discounted.TotalPrice, 0.001,
		"total must be the sum of discounted segment prices")
	assert.InDelta(t, gross-discounted.TotalPrice, discounted.Breakdown.DiscountAmount, 0.01)
	assert.Equal(t, 15.0, discounted.Breakdown.DiscountPercent)
	assert.Equal(t, 2, discounted.Breakdown.PetCount)

	// The original option's segments are untouched.
	assert.Equal(t, gross, opt.TotalPrice)
}

func TestApplyDiscountClampsPercent(t *testing.T) {
	rt := standardType()
	opt := makeOption(models.OptionSingle, []models.Segment{
		buildSegment(rt, win(10, 15), 1, models.ModeByNight),
	}, 1)

	free := applyDiscount(opt, 150)
	assert.Equal(t, 100.0, free.Breakdown.DiscountPercent)
	assert.Zero(t, free.TotalPrice)

	full := applyDiscount(opt, -20)
	assert.Equal(t, 0.0, full.Breakdown.DiscountPercent)
	assert.Equal(t, opt.TotalPrice, full.TotalPrice)
}

// Raising the discount never raises any option's price.
func TestDiscountMonotonic(t *testing.T) {
	env := newTestEnv(models.ModeByDay)
	env.inventory.AddRoomType(standardType(), "std-1")
	env.inventory.AddRoomType(deluxeType(), "dlx-1")
	env.inventory.AddBooking(booking("standard", "std-1", 12, 14))

	var prev *models.OptionSet
	for _, pct := range []float64{0, 5, 12.5, 40, 100} {
		set, err := env.service.FindOptions(context.Background(), FindOptionsRequest{
			Window: win(10, 16), PetCount: 1, DiscountPercent: pct,
		})
		require.NoError(t, err)
		if prev != nil {
			require.Len(t, set.SingleOptions, len(prev.SingleOptions))
			for i := range set.SingleOptions {
				assert.LessOrEqual(t, set.SingleOptions[i].TotalPrice, prev.SingleOptions[i].TotalPrice)
			}
			require.Len(t, set.MixedOptions, len(prev.MixedOptions))
			for i := range set.MixedOptions {
				assert.LessOrEqual(t, set.MixedOptions[i].TotalPrice, prev.MixedOptions[i].TotalPrice)
			}
		}
		prev = set
	}
}

func TestRankOptionsTruncatesCompositePool(t *testing.T) {
	rt := standardType()
	other := deluxeType()

	var composite []models.BookingOption
	for i := 0; i < 4; i++ {
		rtCopy := rt
		rtCopy.PricePerUnit = float64(1000 + 10*i)
		opt := makeOption(models.OptionSameType, []models.Segment{
			buildSegment(rtCopy, win(10, 12), 1, models.ModeByDay),
			buildSegment(rtCopy, win(13, 16), 1, models.ModeByDay),
		}, 1)
		composite = append(composite, opt)
	}
	for i := 0; i < 4; i++ {
		otherCopy := other
		otherCopy.PricePerUnit = float64(900 + 10*i)
		opt := makeOption(models.OptionMixed, []models.Segment{
			buildSegment(rt, win(10, 12), 1, models.ModeByDay),
			buildSegment(otherCopy, win(13, 16), 1, models.ModeByDay),
		}, 1)
		composite = append(composite, opt)
	}

	set := rankOptions(nil, composite, 0)

	kept := len(set.SameTypeOptions) + len(set.MixedOptions)
	assert.Equal(t, MaxCompositeOptions, kept)
	assert.Equal(t, MaxCompositeOptions, set.TotalOptions)
	assert.False(t, set.HasPerfectOptions)

	// The pool is ranked by price before the split, so the survivors are
	// the overall cheapest regardless of bucket: all four mixed tilings
	// (6600..6720) plus the cheapest same-type one (7000).
	require.Len(t, set.MixedOptions, 4)
	require.Len(t, set.SameTypeOptions, 1)
	assert.Equal(t, 7000.0, set.SameTypeOptions[0].TotalPrice)
	for _, opt := range set.MixedOptions {
		assert.Less(t, opt.TotalPrice, set.SameTypeOptions[0].TotalPrice)
	}
}

func TestSortOptionsTieBreaksOnTransfers(t *testing.T) {
	rt := standardType()
	twoSeg := makeOption(models.OptionSameType, []models.Segment{
		buildSegment(rt, win(10, 12), 1, models.ModeByDay),
		buildSegment(rt, win(13, 16), 1, models.ModeByDay),
	}, 1)
	oneSeg := makeOption(models.OptionSingle, []models.Segment{
		buildSegment(rt, win(10, 16), 1, models.ModeByDay),
	}, 1)
	require.Equal(t, twoSeg.TotalPrice, oneSeg.TotalPrice)

	opts := []models.BookingOption{twoSeg, oneSeg}
	sortOptions(opts)
	assert.Equal(t, 0, opts[0].TransferCount)
	assert.Equal(t, 1, opts[1].TransferCount)
}
