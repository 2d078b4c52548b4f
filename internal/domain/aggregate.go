package domain

// Aggregate groups enriched shipments by their assigned bucket and computes
// the mean fuel-consumption ratio per bucket. Rows with no bucket are
// skipped; rows with an undefined ratio (zero distance) count toward the
// bucket but not toward its mean. The result holds one row per bucket that
// received at least one shipment, in ascending interval order.
func Aggregate(rows []EnrichedShipment, buckets []Bucket) []BucketMetrics {
	type acc struct {
		sum   float64
		n     int // rows with a defined ratio
		total int // all rows in the bucket
	}
	accs := make([]acc, len(buckets))

	for _, r := range rows {
		if r.BucketIndex < 0 || r.BucketIndex >= len(buckets) {
			continue
		}
		a := &accs[r.BucketIndex]
		a.total++
		if r.FuelConsumption != nil {
			a.sum += *r.FuelConsumption
			a.n++
		}
	}

	out := make([]BucketMetrics, 0, len(buckets))
	for i, a := range accs {
		if a.total == 0 {
			continue
		}
		m := BucketMetrics{Bucket: buckets[i], Count: a.total}
		if a.n > 0 {
			mean := a.sum / float64(a.n)
			m.AvgFuelConsumption = &mean
		}
		out = append(out, m)
	}
	return out
}
