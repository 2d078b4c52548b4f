package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fleetsight/fuel-etl/internal/domain"
)

// Writer implements pipeline.Loader, persisting aggregated metrics as CSV.
// The file is written to a temp file in the target directory and renamed into
// place, so a failed run never leaves partial output behind.
type Writer struct {
	path string
}

// NewWriter creates a Writer targeting path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Load(_ context.Context, rows []domain.BucketMetrics) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"temp_range", "avg_fuel_consumption"})
	for _, m := range rows {
		avg := ""
		if m.AvgFuelConsumption != nil {
			avg = formatFloat(*m.AvgFuelConsumption)
		}
		records = append(records, []string{m.Bucket.Label(), avg})
	}
	return writeAtomically(w.path, records)
}

// WriteObservations persists collected weather data in the layout the
// processing run reads back.
func WriteObservations(path string, observations []domain.WeatherObservation) error {
	records := make([][]string, 0, len(observations)+1)
	records = append(records, []string{
		"city", "latitude", "longitude", "date", "time",
		"temperature_celsius", "relative_humidity",
	})
	for _, obs := range observations {
		records = append(records, []string{
			obs.City,
			formatFloat(obs.Lat),
			formatFloat(obs.Lon),
			obs.Date,
			obs.Time,
			formatNullableFloat(obs.TemperatureCelsius),
			formatNullableFloat(obs.RelativeHumidity),
		})
	}
	return writeAtomically(path, records)
}

func writeAtomically(path string, records [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatNullableFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
