// Package domain models fleet shipment records enriched with historical
// weather observations.
//
// # Data Sources
//
// Shipments are exported from the restored Postgres backup as CSV, one row
// per shipment with the originating city, the fuel burned and the distance
// driven. Weather observations come from the Open-Meteo historical archive
// (https://open-meteo.com/en/docs/historical-weather-api), collected once per
// city at a fixed hour of a fixed day.
//
// # Processing Model
//
// The two tables are left-joined on shipment start location and observation
// city, so every shipment survives the join and shipments from cities without
// an observation carry a nil temperature. Each joined row derives a
// fuel-consumption ratio (liters per kilometer). Temperatures are then split
// into up to four quantile-based buckets and the mean ratio is reported per
// bucket.
//
// Quantile buckets deliberately replace fixed temperature thresholds: bucket
// boundaries follow the empirical quartiles of the batch, which keeps the
// bucket populations balanced even when the temperature distribution is
// heavily skewed. Repeated quartile values collapse into one boundary, so a
// batch may yield fewer than four buckets.
package domain
