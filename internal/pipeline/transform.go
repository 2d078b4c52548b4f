package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleetsight/fuel-etl/internal/domain"
	"github.com/fleetsight/fuel-etl/internal/observability"
)

// FuelTransformer implements Transformer using the domain join, quantile
// bucketing, and aggregation functions.
type FuelTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a FuelTransformer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *FuelTransformer {
	return &FuelTransformer{logger: logger, metrics: metrics}
}

func (t *FuelTransformer) Transform(_ context.Context, shipments []domain.Shipment, observations []domain.WeatherObservation) ([]domain.BucketMetrics, error) {
	rows := domain.Join(shipments, observations)

	matched := 0
	for _, r := range rows {
		if r.TemperatureCelsius != nil {
			matched++
		}
	}
	t.metrics.ShipmentsJoined.Add(float64(matched))
	t.metrics.ShipmentsUnmatched.Add(float64(len(rows) - matched))
	t.logger.Info("merged shipments with weather",
		"rows", len(rows),
		"matched", matched,
		"unmatched", len(rows)-matched,
	)

	buckets, err := domain.MakeBuckets(domain.Temperatures(rows))
	if err != nil {
		return nil, fmt.Errorf("bucket temperatures: %w", err)
	}
	domain.AssignBuckets(rows, buckets)

	out := domain.Aggregate(rows, buckets)
	for _, m := range out {
		t.logger.Debug("bucket aggregated",
			"range", m.Bucket.Label(),
			"shipments", m.Count,
		)
	}
	return out, nil
}
