package weather

import (
	"time"
)

// Coordinates is a geographic point produced by a successful gazetteer
// lookup.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point lies on the WGS84 grid.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Outcome classifies how a single facade invocation ended.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeCityNotFound Outcome = "city_not_found"
	OutcomeUpstream     Outcome = "upstream_error"
)

// Invocation is one facade call as recorded by the service layer.
// RequestURL is only populated for upstream failures, where it matters
// for diagnosis.
type Invocation struct {
	ID         string    `json:"id"`
	City       string    `json:"city"`
	Outcome    Outcome   `json:"outcome"`
	RequestURL string    `json:"requestUrl,omitempty"`
	ElapsedMS  int64     `json:"elapsedMs"`
	At         time.Time `json:"at"` // always UTC
}
