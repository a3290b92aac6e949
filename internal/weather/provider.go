package weather

import (
	"context"
)

// Resolver maps a city name to coordinates using a local dataset only.
// A miss is reported as *CityNotFoundError; no network is ever involved.
type Resolver interface {
	Resolve(city string) (Coordinates, error)
}

// Upstream fetches the raw forecast payload for a point (e.g. Open-Meteo).
// The returned bytes are the provider's response body, unmodified.
// Failures are reported as *UpstreamError.
type Upstream interface {
	Fetch(ctx context.Context, coords Coordinates) ([]byte, error)
}

// Recorder is the contract the in-memory invocation store (and any future
// persistent store) must satisfy.
type Recorder interface {
	Record(inv Invocation)
	Recent(limit int) []Invocation
}
