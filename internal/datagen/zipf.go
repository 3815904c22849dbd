package datagen

import (
	"math"
	"sort"
)

// ZipfSampler draws ranks from a Zipf distribution: rank r is selected
// with probability proportional to 1/r^skew, so the lowest ranks receive
// a disproportionate share of the draws. Sampling is an inverse-CDF
// lookup against a uniform draw from the shared Faker, which keeps it
// O(log n) per sample and fully reproducible.
type ZipfSampler struct {
	cum []float64
}

// NewZipfSampler builds the cumulative weight table for n ranks with the
// given skew exponent. n must be positive and skew must be > 0.
func NewZipfSampler(n int, skew float64) *ZipfSampler {
	cum := make([]float64, n)
	total := 0.0
	for r := 1; r <= n; r++ {
		total += 1 / math.Pow(float64(r), skew)
		cum[r-1] = total
	}
	return &ZipfSampler{cum: cum}
}

// Sample returns a rank in [0, n), rank 0 being most likely.
func (z *ZipfSampler) Sample(f *Faker) int {
	u := f.Float64(0, z.cum[len(z.cum)-1])
	i := sort.SearchFloat64s(z.cum, u)
	if i >= len(z.cum) {
		i = len(z.cum) - 1
	}
	return i
}

// Len returns the number of ranks.
func (z *ZipfSampler) Len() int {
	return len(z.cum)
}
