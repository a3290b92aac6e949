// Package llm adapts the weather facade to OpenAI-style function calling.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/meteoagente/weathertool/internal/weather"
)

// ToolName is the function name a model uses to request a lookup.
const ToolName = "get_weather"

const toolDescription = "Devuelve el tiempo de una ciudad como JSON de Open-Meteo: " +
	"condiciones actuales y series horarias. Si la ciudad no existe en el " +
	"CSV de ciudades o la llamada falla, devuelve un JSON con un campo 'error'."

// ToolDefinition returns the get_weather declaration ready to attach to a
// chat completion request.
func ToolDefinition() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        ToolName,
			Description: toolDescription,
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"city": {
						Type:        jsonschema.String,
						Description: "Nombre de la ciudad, p. ej. 'Madrid'",
					},
				},
				Required: []string{"city"},
			},
		},
	}
}

type getWeatherArgs struct {
	City string `json:"city"`
}

// Dispatcher executes get_weather tool calls issued by a model.
type Dispatcher struct {
	service *weather.Service
}

// NewDispatcher creates a Dispatcher over the recorded facade.
func NewDispatcher(service *weather.Service) *Dispatcher {
	return &Dispatcher{service: service}
}

// Dispatch runs one tool call and wraps the facade output as the
// tool-role message the chat completions API expects. Unknown tool names
// and malformed arguments are reported in-band so the model can react,
// never as a transport failure.
func (d *Dispatcher) Dispatch(ctx context.Context, call openai.ToolCall) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		ToolCallID: call.ID,
		Name:       call.Function.Name,
	}

	if call.Function.Name != ToolName {
		msg.Content = inbandError(fmt.Sprintf("unknown tool '%s'", call.Function.Name))
		return msg
	}

	var args getWeatherArgs
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		msg.Content = inbandError("invalid tool arguments: " + err.Error())
		return msg
	}

	payload, _ := d.service.GetWeather(ctx, args.City)
	msg.Content = payload
	return msg
}

func inbandError(text string) string {
	b, err := json.Marshal(map[string]string{"error": text})
	if err != nil {
		return `{"error":"internal serialization failure"}`
	}
	return string(b)
}
