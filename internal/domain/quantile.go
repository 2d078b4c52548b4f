package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ErrNoTemperatureData indicates that the joined batch contained no usable
// temperature values, so no buckets can be formed.
var ErrNoTemperatureData = errors.New("no temperature data in batch")

// Bucket is a temperature interval [Low, High). The last bucket of a set is
// closed on both ends so the batch maximum has a home.
type Bucket struct {
	Low    float64
	High   float64
	Closed bool // includes High
}

// Contains reports whether t falls inside the bucket.
func (b Bucket) Contains(t float64) bool {
	if b.Closed {
		return t >= b.Low && t <= b.High
	}
	return t >= b.Low && t < b.High
}

// Label renders the interval for the output CSV, e.g. "[12.5, 18)" or
// "[18, 25.4]" for the closed final bucket.
func (b Bucket) Label() string {
	end := ")"
	if b.Closed {
		end = "]"
	}
	return fmt.Sprintf("[%s, %s%s", formatBound(b.Low), formatBound(b.High), end)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Quantile returns the q-th quantile (0 <= q <= 1) of values using linear
// interpolation between the two nearest order statistics. values must be
// sorted ascending and non-empty.
func Quantile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return values[lo]
	}
	frac := pos - float64(lo)
	return values[lo] + frac*(values[hi]-values[lo])
}

// MakeBuckets computes quartile-based temperature buckets for a batch.
// Boundaries are the min, the 0.25/0.5/0.75 quantiles, and the max of temps.
// Duplicate boundaries are collapsed, so between one and four buckets come
// back. A batch where every value is identical yields a single degenerate
// closed bucket. Returns ErrNoTemperatureData when temps is empty.
func MakeBuckets(temps []float64) ([]Bucket, error) {
	if len(temps) == 0 {
		return nil, ErrNoTemperatureData
	}

	sorted := make([]float64, len(temps))
	copy(sorted, temps)
	sort.Float64s(sorted)

	edges := []float64{sorted[0]}
	for _, q := range []float64{0.25, 0.5, 0.75} {
		edges = appendEdge(edges, Quantile(sorted, q))
	}
	edges = appendEdge(edges, sorted[len(sorted)-1])

	if len(edges) == 1 {
		return []Bucket{{Low: edges[0], High: edges[0], Closed: true}}, nil
	}

	buckets := make([]Bucket, 0, len(edges)-1)
	for i := 0; i < len(edges)-1; i++ {
		buckets = append(buckets, Bucket{
			Low:    edges[i],
			High:   edges[i+1],
			Closed: i == len(edges)-2,
		})
	}
	return buckets, nil
}

// appendEdge adds e to edges unless it duplicates the previous boundary.
// Boundaries are non-decreasing by construction, so only the tail needs checking.
func appendEdge(edges []float64, e float64) []float64 {
	if e == edges[len(edges)-1] {
		return edges
	}
	return append(edges, e)
}

// AssignBucket returns the index of the bucket containing t, or -1 when no
// bucket matches. buckets must be the contiguous ascending set produced by
// MakeBuckets.
func AssignBucket(buckets []Bucket, t float64) int {
	for i, b := range buckets {
		if b.Contains(t) {
			return i
		}
	}
	return -1
}
