package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fleetsight/fuel-etl/internal/domain"
	"github.com/fleetsight/fuel-etl/internal/observability"
)

// Extractor loads the shipment and weather tables for one run.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.Shipment, []domain.WeatherObservation, error)
}

// Transformer turns the two input tables into aggregated bucket metrics.
type Transformer interface {
	Transform(ctx context.Context, shipments []domain.Shipment, observations []domain.WeatherObservation) ([]domain.BucketMetrics, error)
}

// Loader persists the aggregated metrics.
type Loader interface {
	Load(ctx context.Context, rows []domain.BucketMetrics) error
}

// Pipeline orchestrates one extract-transform-load pass over a static
// snapshot. There is no retry loop: a failed stage aborts the run and the
// caller reports the failure through its exit status.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once the pipeline has completed a run.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Run executes a single batch pass. Any stage error aborts the run without
// partial output.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	shipments, observations, err := p.extractor.Extract(ctx)
	if err != nil {
		p.logger.Error("extract failed", "error", err)
		return err
	}
	p.metrics.RowsExtracted.WithLabelValues("shipments").Add(float64(len(shipments)))
	p.metrics.RowsExtracted.WithLabelValues("weather").Add(float64(len(observations)))
	p.logger.Info("extracted input tables",
		"shipments", len(shipments),
		"observations", len(observations),
	)

	rows, err := p.transformer.Transform(ctx, shipments, observations)
	if err != nil {
		p.metrics.TransformErrors.Inc()
		p.logger.Error("transform failed", "error", err)
		return err
	}
	p.metrics.BucketsProduced.Set(float64(len(rows)))

	if err := p.loader.Load(ctx, rows); err != nil {
		p.logger.Error("load failed", "error", err, "rows", len(rows))
		return err
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	p.logger.Info("run complete", "buckets", len(rows), "duration", time.Since(start))
	return nil
}
