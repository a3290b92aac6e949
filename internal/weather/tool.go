package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Tool composes the gazetteer resolver and the upstream fetcher into the
// get_weather contract: city name in, serialized JSON out. It is the only
// boundary agents and other callers are expected to touch.
type Tool struct {
	resolver Resolver
	upstream Upstream
}

// NewTool creates a Tool over the given resolver and upstream.
func NewTool(resolver Resolver, upstream Upstream) *Tool {
	return &Tool{
		resolver: resolver,
		upstream: upstream,
	}
}

// Lookup resolves the city and fetches its forecast, returning the raw
// upstream payload. Failures are typed: *CityNotFoundError before any
// network traffic, *UpstreamError after.
func (t *Tool) Lookup(ctx context.Context, city string) ([]byte, error) {
	coords, err := t.resolver.Resolve(city)
	if err != nil {
		return nil, err
	}
	return t.upstream.Fetch(ctx, coords)
}

// GetWeather runs Lookup and serializes the outcome. It always returns a
// non-empty JSON document, success or failure; no error crosses this
// boundary.
func (t *Tool) GetWeather(ctx context.Context, city string) string {
	return Serialize(t.Lookup(ctx, city))
}

// OutcomeOf maps a Lookup error to its invocation class.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrCityNotFound):
		return OutcomeCityNotFound
	default:
		return OutcomeUpstream
	}
}

// errorEnvelope is the wire form of a failed lookup.
type errorEnvelope struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Serialize converts a lookup outcome into the facade's wire form.
// Successful payloads pass through byte for byte; errors become the JSON
// error contract. This is the only place results are turned into text;
// everything beneath it works with typed values.
func Serialize(body []byte, err error) string {
	if err == nil {
		return string(body)
	}

	var notFound *CityNotFoundError
	if errors.As(err, &notFound) {
		return encodeJSON(errorEnvelope{Error: notFound.Message()})
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return encodeJSON(errorEnvelope{
			Error:  upstream.Message,
			Detail: upstream.Detail,
			URL:    upstream.URL,
		})
	}

	return encodeJSON(errorEnvelope{Error: err.Error()})
}

// encodeJSON marshals without HTML escaping so accented city names and
// URL query separators stay literal in the payload.
func encodeJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return `{"error":"internal serialization failure"}`
	}
	return strings.TrimRight(buf.String(), "\n")
}
