package stay

import (
	"sort"

	"pethaven/models"
	"pethaven/utils"
)

// applyDiscount reprices an option by applying the discount to every segment
// and summing the discounted segment prices. Discounting per segment, never
// the aggregate, keeps the parent total equal to the sum of its children to
// the cent once the option is committed.
func applyDiscount(opt models.BookingOption, pct float64) models.BookingOption {
	pct = utils.Round2(utils.ClampPercent(pct))

	segs := make([]models.Segment, len(opt.Segments))
	var gross, total float64
	for i, s := range opt.Segments {
		gross += s.Price
		s.Price = utils.Round2(s.Price * (1 - pct/100))
		total += s.Price
		segs[i] = s
	}

	opt.Segments = segs
	opt.TotalPrice = utils.Round2(total)
	opt.Breakdown.DiscountPercent = pct
	opt.Breakdown.DiscountAmount = utils.Round2(gross - total)
	return opt
}

func sortOptions(opts []models.BookingOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		if opts[i].TotalPrice != opts[j].TotalPrice {
			return opts[i].TotalPrice < opts[j].TotalPrice
		}
		return opts[i].TransferCount < opts[j].TransferCount
	})
}

// rankOptions applies the discount everywhere and shapes the final result:
// all Single options sorted by price, and the same-type and mixed options
// pooled, sorted by price then transfer count, and truncated to the best
// MaxCompositeOptions before being split back into their buckets.
func rankOptions(single, composite []models.BookingOption, discountPct float64) *models.OptionSet {
	for i := range single {
		single[i] = applyDiscount(single[i], discountPct)
	}
	for i := range composite {
		composite[i] = applyDiscount(composite[i], discountPct)
	}

	sortOptions(single)
	sortOptions(composite)
	if len(composite) > MaxCompositeOptions {
		composite = composite[:MaxCompositeOptions]
	}

	set := &models.OptionSet{
		SingleOptions:     single,
		TotalOptions:      len(single) + len(composite),
		HasPerfectOptions: len(single) > 0,
	}
	for _, opt := range composite {
		if opt.Kind == models.OptionSameType {
			set.SameTypeOptions = append(set.SameTypeOptions, opt)
		} else {
			set.MixedOptions = append(set.MixedOptions, opt)
		}
	}
	return set
}
