package consensus

// scoreItem returns the earned and possible points for one rubric item
// given its consensus status. maxPoints only matters for the weighted
// flavor, where an item's share of the question total is its weight.
func scoreItem(r Rubric, it Item, st Status, maxPoints float64) (earned, possible float64) {
	switch r.Flavor {
	case FlavorWeighted:
		return st.Multiplier() * it.Weight * maxPoints, it.Weight * maxPoints
	default:
		return st.Multiplier() * it.Points, it.Points
	}
}

// percentage computes earned/possible as a percent, 0 when nothing is
// possible. No intermediate rounding.
func percentage(earned, possible float64) float64 {
	if possible <= 0 {
		return 0
	}
	return earned / possible * 100
}
