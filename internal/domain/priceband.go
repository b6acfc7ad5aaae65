package domain

// PriceBand is a coarse budget bucket.
type PriceBand string

const (
	BandUnder20 PriceBand = "under_20"
	Band20To50  PriceBand = "20_50"
	Band50To100 PriceBand = "50_100"
	Band100Plus PriceBand = "100_plus"
)

// PriceBandFor maps a budget onto exactly one band. Upper bounds are
// inclusive except for the first band: 20 is "20_50", 50 is still "20_50".
// Negative budgets fall into "under_20".
func PriceBandFor(budget float64) PriceBand {
	switch {
	case budget < 20:
		return BandUnder20
	case budget <= 50:
		return Band20To50
	case budget <= 100:
		return Band50To100
	default:
		return Band100Plus
	}
}
