// Package openmeteo fetches raw forecast payloads from the Open-Meteo
// forecast API.
package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/meteoagente/weathertool/internal/weather"
)

// DefaultBaseURL is the public Open-Meteo forecast endpoint.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Field selection is fixed: current temperature and wind speed, plus the
// hourly temperature, humidity and wind speed series.
const (
	currentFields = "temperature_2m,wind_speed_10m"
	hourlyFields  = "temperature_2m,relative_humidity_2m,wind_speed_10m"
)

// upstreamMessage is the user-facing description serialized with every
// failed call.
const upstreamMessage = "Error llamando a Open-Meteo"

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
	errEmptyBody   = errors.New("empty response body")
)

// Client performs single-shot GETs against Open-Meteo and passes the
// response body through untouched; interpreting the payload schema is the
// caller's concern. A circuit breaker sheds load from a failing upstream,
// but there are no retries: one attempt, one outcome.
type Client struct {
	logger  *zap.Logger
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client over the shared HTTP client. An empty
// baseURL selects the public endpoint.
func NewClient(logger *zap.Logger, httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		logger:  logger,
		baseURL: baseURL,
		client:  httpClient,
		circuit: cb,
	}
}

// RequestURL builds the deterministic forecast URL for a point.
func (c *Client) RequestURL(coords weather.Coordinates) string {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	values.Set("current", currentFields)
	values.Set("hourly", hourlyFields)

	return c.baseURL + "?" + values.Encode()
}

// Fetch performs one GET and returns the body verbatim. Any transport
// failure, timeout, non-2xx status or open circuit comes back as a single
// *weather.UpstreamError carrying the request URL that was, or would have
// been, attempted.
func (c *Client) Fetch(ctx context.Context, coords weather.Coordinates) ([]byte, error) {
	reqURL := c.RequestURL(coords)

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if reqErr != nil {
			return nil, reqErr
		}

		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, readErr
		}
		if len(body) == 0 {
			return nil, errEmptyBody
		}
		return body, nil
	})
	if err != nil {
		c.logger.Warn("open-meteo request failed",
			zap.String("url", reqURL),
			zap.Error(err))
		return nil, &weather.UpstreamError{
			Message: upstreamMessage,
			Detail:  err.Error(),
			URL:     reqURL,
		}
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, &weather.UpstreamError{
			Message: upstreamMessage,
			Detail:  "unexpected result type from circuit breaker",
			URL:     reqURL,
		}
	}
	return body, nil
}
