package domain

// Join left-joins shipments to weather observations on
// Shipment.StartLocation == WeatherObservation.City and derives the
// fuel-consumption ratio for every row. Every shipment appears exactly once
// in the result; shipments without a matching observation keep a nil
// temperature. When a city somehow carries several observations the first one
// wins, preserving the left-join cardinality.
//
// Each returned row starts with BucketIndex -1; bucket assignment is a
// separate pass (see MakeBuckets and AssignBuckets) because bucket boundaries
// depend on the whole joined batch.
func Join(shipments []Shipment, observations []WeatherObservation) []EnrichedShipment {
	byCity := make(map[string]WeatherObservation, len(observations))
	for _, obs := range observations {
		if _, ok := byCity[obs.City]; !ok {
			byCity[obs.City] = obs
		}
	}

	enriched := make([]EnrichedShipment, 0, len(shipments))
	for _, s := range shipments {
		row := EnrichedShipment{Shipment: s, BucketIndex: -1}
		if obs, ok := byCity[s.StartLocation]; ok {
			row.TemperatureCelsius = obs.TemperatureCelsius
		}
		if s.Distance != 0 {
			ratio := s.ConsumedFuel / s.Distance
			row.FuelConsumption = &ratio
		}
		enriched = append(enriched, row)
	}
	return enriched
}

// Temperatures extracts the non-nil temperature values of a joined batch,
// one entry per row that carries one. The result feeds MakeBuckets.
func Temperatures(rows []EnrichedShipment) []float64 {
	temps := make([]float64, 0, len(rows))
	for _, r := range rows {
		if r.TemperatureCelsius != nil {
			temps = append(temps, *r.TemperatureCelsius)
		}
	}
	return temps
}

// AssignBuckets stamps every row that has a temperature with the index of its
// containing bucket. Rows without a temperature keep BucketIndex -1 and are
// excluded from aggregation.
func AssignBuckets(rows []EnrichedShipment, buckets []Bucket) {
	for i := range rows {
		if rows[i].TemperatureCelsius == nil {
			rows[i].BucketIndex = -1
			continue
		}
		rows[i].BucketIndex = AssignBucket(buckets, *rows[i].TemperatureCelsius)
	}
}
