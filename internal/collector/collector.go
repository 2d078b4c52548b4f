// Package collector drives weather collection: one archive request per city,
// reduced to a single observation at the target hour.
package collector

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fleetsight/fuel-etl/internal/adapter/openmeteo"
	"github.com/fleetsight/fuel-etl/internal/domain"
	"github.com/fleetsight/fuel-etl/internal/observability"
)

// ArchiveSource fetches one day of hourly weather for a location.
// *openmeteo.Client satisfies it.
type ArchiveSource interface {
	FetchDay(ctx context.Context, lat, lon float64, date string) (openmeteo.HourlySeries, error)
}

// Collector gathers one observation per city for a given date. Cities that
// fail (missing coordinates, archive errors, empty series) are logged and
// skipped; the run keeps going so one bad city never sinks the batch.
type Collector struct {
	source     ArchiveSource
	logger     *slog.Logger
	metrics    *observability.Metrics
	targetHour int
	collected  atomic.Int64
}

// New creates a Collector selecting readings at targetHour (0-23).
func New(source ArchiveSource, logger *slog.Logger, metrics *observability.Metrics, targetHour int) *Collector {
	return &Collector{
		source:     source,
		logger:     logger,
		metrics:    metrics,
		targetHour: targetHour,
	}
}

// CheckReadiness returns nil once at least one city has been collected.
func (c *Collector) CheckReadiness(_ context.Context) error {
	if c.collected.Load() == 0 {
		return errors.New("no cities collected yet")
	}
	return nil
}

// Collect fetches weather for every city on the given date (YYYY-MM-DD) and
// returns the observations gathered. Per-city failures are skipped; only
// context cancellation aborts the whole run.
func (c *Collector) Collect(ctx context.Context, cities []domain.City, date string) ([]domain.WeatherObservation, error) {
	observations := make([]domain.WeatherObservation, 0, len(cities))

	for _, city := range cities {
		if ctx.Err() != nil {
			return observations, ctx.Err()
		}

		if city.Lat == nil || city.Lon == nil {
			c.logger.Warn("skipping city with missing coordinates", "city", city.Name)
			c.metrics.WeatherFetches.WithLabelValues("skipped").Inc()
			continue
		}

		start := time.Now()
		series, err := c.source.FetchDay(ctx, *city.Lat, *city.Lon, date)
		c.metrics.WeatherFetchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			if ctx.Err() != nil {
				return observations, ctx.Err()
			}
			c.logger.Error("weather fetch failed", "city", city.Name, "date", date, "error", err)
			c.metrics.WeatherFetches.WithLabelValues("error").Inc()
			continue
		}

		rec, err := series.At(c.targetHour)
		if err != nil {
			c.logger.Error("no usable reading", "city", city.Name, "date", date, "error", err)
			c.metrics.WeatherFetches.WithLabelValues("error").Inc()
			continue
		}

		observations = append(observations, domain.WeatherObservation{
			City:               city.Name,
			Lat:                *city.Lat,
			Lon:                *city.Lon,
			Date:               date,
			Time:               rec.Time,
			TemperatureCelsius: rec.Temperature,
			RelativeHumidity:   rec.RelativeHumidity,
		})
		c.collected.Add(1)
		c.metrics.WeatherFetches.WithLabelValues("success").Inc()
		c.logger.Info("collected weather", "city", city.Name, "time", rec.Time)
	}

	return observations, nil
}
