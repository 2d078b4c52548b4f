package domain

// Shipment is one row of the shipments table exported from the backup.
type Shipment struct {
	ID            string
	StartLocation string
	EndLocation   string
	ConsumedFuel  float64
	Distance      float64
}

// City is one row of the cities table, the input to weather collection.
// Coordinates are nil when the source row left them empty.
type City struct {
	Name string
	Lat  *float64
	Lon  *float64
}

// WeatherObservation is a single historical reading for one city, taken at
// (or near) the collection target hour. Temperature and humidity are nil when
// the archive had no value for the selected hour.
type WeatherObservation struct {
	City               string
	Lat                float64
	Lon                float64
	Date               string // YYYY-MM-DD
	Time               string // archive timestamp, e.g. "2025-03-24T12:00"
	TemperatureCelsius *float64
	RelativeHumidity   *float64
}

// EnrichedShipment is a shipment after the weather join and ratio derivation.
type EnrichedShipment struct {
	Shipment

	// TemperatureCelsius is the matched observation's temperature,
	// nil when the start location had no observation.
	TemperatureCelsius *float64

	// FuelConsumption is ConsumedFuel / Distance in liters per kilometer,
	// nil when the distance is zero.
	FuelConsumption *float64

	// BucketIndex is the position of the assigned temperature bucket,
	// -1 when the row has no temperature.
	BucketIndex int
}

// BucketMetrics is one row of the aggregated output: a temperature bucket and
// the mean fuel-consumption ratio of the shipments assigned to it.
// AvgFuelConsumption is nil when every ratio in the bucket was undefined.
type BucketMetrics struct {
	Bucket             Bucket
	Count              int
	AvgFuelConsumption *float64
}
