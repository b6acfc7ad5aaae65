package domain

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPriceBandFor_Boundaries(t *testing.T) {
	cases := []struct {
		budget float64
		want   PriceBand
	}{
		{-5, BandUnder20},
		{0, BandUnder20},
		{19.99, BandUnder20},
		{20, Band20To50},
		{50, Band20To50},
		{50.01, Band50To100},
		{100, Band50To100},
		{100.01, Band100Plus},
		{1e9, Band100Plus},
	}
	for _, tc := range cases {
		if got := PriceBandFor(tc.budget); got != tc.want {
			t.Fatalf("PriceBandFor(%v) = %q; want %q", tc.budget, got, tc.want)
		}
	}
}

func bandRank(b PriceBand) int {
	switch b {
	case BandUnder20:
		return 0
	case Band20To50:
		return 1
	case Band50To100:
		return 2
	case Band100Plus:
		return 3
	}
	return -1
}

func TestPriceBandFor_Properties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500
	properties := gopter.NewProperties(params)

	properties.Property("every budget maps to exactly one known band", prop.ForAll(
		func(b float64) bool {
			return bandRank(PriceBandFor(b)) >= 0
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("band is monotonic in budget", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := math.Min(a, b), math.Max(a, b)
			return bandRank(PriceBandFor(lo)) <= bandRank(PriceBandFor(hi))
		},
		gen.Float64Range(-500, 500),
		gen.Float64Range(-500, 500),
	))

	properties.TestingRun(t)
}
