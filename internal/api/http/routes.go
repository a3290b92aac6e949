package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/meteoagente/weathertool/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	// The weather endpoint maps the facade outcome onto an HTTP status,
	// but the body is always the facade payload verbatim.
	v1.Get("/weather", func(c *fiber.Ctx) error {
		cityReq, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		payload, outcome := service.GetWeather(c.Context(), cityReq.City)
		return sendPayload(c, statusFor(outcome), payload)
	})

	v1.Get("/resolve", func(c *fiber.Ctx) error {
		cityReq, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		coords, err := service.Resolve(cityReq.City)
		if err != nil {
			if errors.Is(err, weather.ErrCityNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no match for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to resolve city")
		}

		return c.JSON(resolveResponse{
			City:      cityReq.City,
			Latitude:  coords.Latitude,
			Longitude: coords.Longitude,
		})
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		invocations := service.History(req.Limit)
		return c.JSON(fiber.Map{
			"count":       len(invocations),
			"invocations": invocations,
		})
	})

	// Tool-shaped entry point: same contract an agent runtime sees. Lookup
	// failures travel in-band inside the payload, so the status is always
	// 200 once the request itself is well formed.
	v1.Post("/tools/get_weather", func(c *fiber.Ctx) error {
		var req toolCallRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		payload, _ := service.GetWeather(c.Context(), req.City)
		return sendPayload(c, fiber.StatusOK, payload)
	})
}

func statusFor(outcome weather.Outcome) int {
	switch outcome {
	case weather.OutcomeOK:
		return fiber.StatusOK
	case weather.OutcomeCityNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadGateway
	}
}

// sendPayload writes an already-serialized JSON document.
func sendPayload(c *fiber.Ctx, status int, payload string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(status).SendString(payload)
}

// cityQuery holds query parameters identifying a city.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	var q cityQuery

	q.City = c.Query("city")

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// resolveResponse echoes the requested city with its coordinates.
type resolveResponse struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// toolCallRequest is the body of a tool-shaped invocation.
type toolCallRequest struct {
	City string `json:"city" validate:"required"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Limit int `validate:"min=1,max=500"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Limit = 20

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("limit must be an integer")
		}
		h.Limit = n
	}
	return nil
}
