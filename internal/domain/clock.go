package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic
// collection dates.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// DefaultCollectionDate returns the default target date for weather
// collection: five days ago, the typical availability delay of the
// Open-Meteo historical archive.
func DefaultCollectionDate() string {
	return clock.Now().UTC().AddDate(0, 0, -5).Format("2006-01-02")
}
