package market

// Estimate reduces one team's observations, in document order, to a point
// estimate. It keeps a lower bound a, set by markets where the "more" rating
// does not exceed the "less" rating, and an upper bound b, set by markets
// where it does not fall below it. An observation that cannot tighten a set
// bound is skipped. Bounds are overwritten, not maximized, so the result
// depends on observation order.
//
// It returns the mean of both bounds, the only bound set, or false when
// neither was set.
func Estimate(obs []Observation) (float64, bool) {
	var a, b float64
	var hasA, hasB bool

	for _, o := range obs {
		if (hasA && o.Point <= a) || (hasB && o.Point >= b) {
			continue
		}
		if o.More <= o.Less {
			a, hasA = o.Point, true
		}
		if o.More >= o.Less {
			b, hasB = o.Point, true
		}
	}

	switch {
	case hasA && hasB:
		return (a + b) / 2, true
	case hasA:
		return a, true
	case hasB:
		return b, true
	default:
		return 0, false
	}
}
