package mcptool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meteoagente/weathertool/internal/gazetteer"
	"github.com/meteoagente/weathertool/internal/store"
	"github.com/meteoagente/weathertool/internal/weather"
	"github.com/meteoagente/weathertool/internal/weather/openmeteo"
)

const stubBody = `{"current":{"temperature_2m":21.3,"wind_speed_10m":5.0}}`

// newSession serves the tool over streamable HTTP and connects a client
// session to it.
func newSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stubBody))
	}))
	t.Cleanup(upstream.Close)

	idx := gazetteer.NewIndex([]gazetteer.CityRecord{
		{Name: "Madrid", ASCIIName: "Madrid", Latitude: 40.4168, Longitude: -3.7038},
	})
	meteo := openmeteo.NewClient(zap.NewNop(), upstream.Client(), upstream.URL)
	service := weather.NewService(zap.NewNop(), idx, meteo, store.NewMemoryStore(10, 0))

	server := NewServer(service)
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := mcp.NewClient(&mcp.Implementation{Name: "weathertool-test"}, nil)
	session, err := client.Connect(context.Background(), mcp.NewStreamableClientTransport(srv.URL, nil), nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return session
}

func callText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestServerListsGetWeather(t *testing.T) {
	session := newSession(t)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 1)
	assert.Equal(t, "get_weather", tools.Tools[0].Name)
	assert.Contains(t, tools.Tools[0].Description, "Open-Meteo")
}

func TestCallToolPassesPayloadThrough(t *testing.T) {
	session := newSession(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_weather",
		Arguments: map[string]any{"city": "madrid"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, stubBody, callText(t, res))
}

// Lookup failures ride inside the tool text, not as protocol errors.
func TestCallToolUnknownCityStaysInBand(t *testing.T) {
	session := newSession(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_weather",
		Arguments: map[string]any{"city": "Atlantis"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	text := callText(t, res)
	assert.True(t, strings.Contains(text, "No encuentro la ciudad 'Atlantis'"), "got %q", text)
}
