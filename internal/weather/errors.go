package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrCityNotFound marks a name with no match in either gazetteer column.
	ErrCityNotFound = errors.New("city not found in gazetteer")

	// ErrUpstream marks a failed or refused Open-Meteo call.
	ErrUpstream = errors.New("upstream call failed")
)

// CityNotFoundError reports that a city name matched nothing in the
// loaded dataset. It carries the name exactly as the caller supplied it.
type CityNotFoundError struct {
	City string
}

func (e *CityNotFoundError) Error() string {
	return fmt.Sprintf("no gazetteer match for city %q", e.City)
}

func (e *CityNotFoundError) Unwrap() error { return ErrCityNotFound }

// Message returns the user-facing text the facade serializes for this
// failure.
func (e *CityNotFoundError) Message() string {
	return fmt.Sprintf("No encuentro la ciudad '%s' en el CSV de ciudades.", e.City)
}

// UpstreamError reports a single failed Open-Meteo request. URL is the
// exact request URL that was, or would have been, attempted, so callers
// can replay the failure.
type UpstreamError struct {
	Message string
	Detail  string
	URL     string
}

func (e *UpstreamError) Error() string {
	return e.Message + ": " + e.Detail
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }
