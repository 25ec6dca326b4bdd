package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup/internal/display"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var validate = validator.New()

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, resolver *weather.Resolver, state *store.DisplayState) {
	v1 := app.Group("/api/v1")

	v1.Get("/display", func(c *fiber.Ctx) error {
		cur := state.Current()
		return c.JSON(display.Render(cur.Query, cur.Snapshot))
	})

	// Mirrors a keystroke in the location box.
	v1.Put("/location", func(c *fiber.Ctx) error {
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		state.SetQuery(req.Query)
		return c.JSON(fiber.Map{"query": state.Query()})
	})

	// Mirrors pressing Enter in the location box.
	v1.Post("/location/confirm", func(c *fiber.Ctx) error {
		if _, err := resolver.Confirm(c.UserContext()); err != nil {
			return resolveError(err)
		}
		cur := state.Current()
		return c.JSON(display.Render(cur.Query, cur.Snapshot))
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		req := lookupQuery{Query: c.Query("q")}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		if _, err := resolver.Lookup(c.UserContext(), req.Query); err != nil {
			return resolveError(err)
		}
		cur := state.Current()
		return c.JSON(display.Render(cur.Query, cur.Snapshot))
	})

	v1.Get("/weather/raw", func(c *fiber.Ctx) error {
		snapshot, err := state.Snapshot()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather fetched yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather")
		}
		return c.JSON(snapshot.Payload)
	})
}

func resolveError(err error) error {
	switch {
	case errors.Is(err, weather.ErrEmptyQuery):
		return fiber.NewError(fiber.StatusBadRequest, "location query is empty")
	case errors.Is(err, weather.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, weather.AlertLocationNotFound)
	default:
		return fiber.NewError(fiber.StatusBadGateway, "failed to resolve weather")
	}
}

// locationRequest is the body of PUT /location.
type locationRequest struct {
	Query string `json:"query" validate:"max=200"`
}

// lookupQuery holds query parameters for the one-shot lookup endpoint.
type lookupQuery struct {
	Query string `validate:"required,max=200"`
}
