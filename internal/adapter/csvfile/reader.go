// Package csvfile reads and writes the pipeline's delimited-text tables: the
// Postgres exports consumed by the processing run and the weather/aggregate
// artifacts it produces. All files carry a header row; a missing required
// column aborts the run.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/fleetsight/fuel-etl/internal/domain"
)

// ErrMissingColumn indicates an input file lacks a required header column.
var ErrMissingColumn = errors.New("missing column")

// header maps column names to their position in the file's header row.
type header map[string]int

func (h header) require(name string) (int, error) {
	idx, ok := h[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return idx, nil
}

func (h header) optional(name string) (int, bool) {
	idx, ok := h[name]
	return idx, ok
}

// readTable opens a CSV file, reads its header, and returns the remaining
// records.
func readTable(path string) (header, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("read %s: empty file, expected header row", path)
	}

	h := make(header, len(rows[0]))
	for i, name := range rows[0] {
		h[name] = i
	}
	return h, rows[1:], nil
}

// ReadShipments loads the shipments table. Required columns: start_location,
// consumed_fuel, shipment_distance. shipment_id and end_location are carried
// through when present.
func ReadShipments(path string) ([]domain.Shipment, error) {
	h, records, err := readTable(path)
	if err != nil {
		return nil, err
	}

	locIdx, err := h.require("start_location")
	if err != nil {
		return nil, fmt.Errorf("shipments: %w", err)
	}
	fuelIdx, err := h.require("consumed_fuel")
	if err != nil {
		return nil, fmt.Errorf("shipments: %w", err)
	}
	distIdx, err := h.require("shipment_distance")
	if err != nil {
		return nil, fmt.Errorf("shipments: %w", err)
	}
	idIdx, hasID := h.optional("shipment_id")
	endIdx, hasEnd := h.optional("end_location")

	shipments := make([]domain.Shipment, 0, len(records))
	for i, rec := range records {
		fuel, err := parseFloat(rec[fuelIdx], "consumed_fuel", i)
		if err != nil {
			return nil, err
		}
		dist, err := parseFloat(rec[distIdx], "shipment_distance", i)
		if err != nil {
			return nil, err
		}

		s := domain.Shipment{
			StartLocation: rec[locIdx],
			ConsumedFuel:  fuel,
			Distance:      dist,
		}
		if hasID {
			s.ID = rec[idIdx]
		}
		if hasEnd {
			s.EndLocation = rec[endIdx]
		}
		shipments = append(shipments, s)
	}
	return shipments, nil
}

// ReadObservations loads the collected weather table. Required columns: city
// and temperature_celsius (the latter may hold empty values for cities the
// archive had no reading for).
func ReadObservations(path string) ([]domain.WeatherObservation, error) {
	h, records, err := readTable(path)
	if err != nil {
		return nil, err
	}

	cityIdx, err := h.require("city")
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	tempIdx, err := h.require("temperature_celsius")
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	latIdx, hasLat := h.optional("latitude")
	lonIdx, hasLon := h.optional("longitude")
	dateIdx, hasDate := h.optional("date")
	timeIdx, hasTime := h.optional("time")
	humIdx, hasHum := h.optional("relative_humidity")

	observations := make([]domain.WeatherObservation, 0, len(records))
	for i, rec := range records {
		temp, err := parseNullableFloat(rec[tempIdx], "temperature_celsius", i)
		if err != nil {
			return nil, err
		}

		obs := domain.WeatherObservation{
			City:               rec[cityIdx],
			TemperatureCelsius: temp,
		}
		if hasLat {
			if v, err := parseNullableFloat(rec[latIdx], "latitude", i); err == nil && v != nil {
				obs.Lat = *v
			}
		}
		if hasLon {
			if v, err := parseNullableFloat(rec[lonIdx], "longitude", i); err == nil && v != nil {
				obs.Lon = *v
			}
		}
		if hasDate {
			obs.Date = rec[dateIdx]
		}
		if hasTime {
			obs.Time = rec[timeIdx]
		}
		if hasHum {
			if v, err := parseNullableFloat(rec[humIdx], "relative_humidity", i); err == nil {
				obs.RelativeHumidity = v
			}
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

// ReadCities loads the cities table exported from the backup. Required
// columns: name, latitude, longitude. Empty coordinates come back nil so the
// collector can skip those cities.
func ReadCities(path string) ([]domain.City, error) {
	h, records, err := readTable(path)
	if err != nil {
		return nil, err
	}

	nameIdx, err := h.require("name")
	if err != nil {
		return nil, fmt.Errorf("cities: %w", err)
	}
	latIdx, err := h.require("latitude")
	if err != nil {
		return nil, fmt.Errorf("cities: %w", err)
	}
	lonIdx, err := h.require("longitude")
	if err != nil {
		return nil, fmt.Errorf("cities: %w", err)
	}

	cities := make([]domain.City, 0, len(records))
	for i, rec := range records {
		lat, err := parseNullableFloat(rec[latIdx], "latitude", i)
		if err != nil {
			return nil, err
		}
		lon, err := parseNullableFloat(rec[lonIdx], "longitude", i)
		if err != nil {
			return nil, err
		}
		cities = append(cities, domain.City{Name: rec[nameIdx], Lat: lat, Lon: lon})
	}
	return cities, nil
}

func parseFloat(s, col string, row int) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %q: parse %q: %w", row+1, col, s, err)
	}
	return v, nil
}

func parseNullableFloat(s, col string, row int) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parseFloat(s, col, row)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Extractor implements pipeline.Extractor over the two input CSV files.
type Extractor struct {
	shipmentsPath string
	weatherPath   string
}

// NewExtractor creates an Extractor reading from the given file paths.
func NewExtractor(shipmentsPath, weatherPath string) *Extractor {
	return &Extractor{shipmentsPath: shipmentsPath, weatherPath: weatherPath}
}

func (e *Extractor) Extract(_ context.Context) ([]domain.Shipment, []domain.WeatherObservation, error) {
	shipments, err := ReadShipments(e.shipmentsPath)
	if err != nil {
		return nil, nil, err
	}
	observations, err := ReadObservations(e.weatherPath)
	if err != nil {
		return nil, nil, err
	}
	return shipments, observations, nil
}
