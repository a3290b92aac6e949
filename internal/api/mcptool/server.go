// Package mcptool exposes the weather facade as an MCP tool server.
package mcptool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/meteoagente/weathertool/internal/weather"
)

const toolDescription = "Devuelve el tiempo de una ciudad como JSON de Open-Meteo: " +
	"condiciones actuales (temperatura, viento) y series horarias " +
	"(temperatura, humedad, viento). Si la ciudad no existe en el CSV de " +
	"ciudades o la llamada a Open-Meteo falla, devuelve un JSON con un " +
	"campo 'error'."

type getWeatherParams struct {
	City string `json:"city"`
}

type getWeatherResult struct {
	Weather string `json:"weather"`
}

// NewServer builds an MCP server exposing get_weather. Lookup failures
// stay in-band: the tool always succeeds at the protocol level, and the
// JSON error contract travels as the tool text.
func NewServer(service *weather.Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "weathertool"}, nil)

	mcp.AddTool(
		server, &mcp.Tool{Name: "get_weather", Description: toolDescription},
		func(ctx context.Context, _ *mcp.CallToolRequest, params getWeatherParams) (*mcp.CallToolResult, *getWeatherResult, error) {
			payload, _ := service.GetWeather(ctx, params.City)

			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{Text: payload},
				},
			}, &getWeatherResult{Weather: payload}, nil
		},
	)

	return server
}
