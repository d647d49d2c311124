package http

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/core/simulation"
	"github.com/samirrijal/citytwin/internal/core/usecases"
)

// DefaultSummary describes the bundled layers when a caller sends no context.
const DefaultSummary = "Prototype digital twin datasets (synthetic)."

type contextRequest struct {
	SessionID string               `json:"session_id"`
	Persona   domain.Persona       `json:"persona"`
	Context   *domain.QueryContext `json:"context"`
}

type healthRequest struct {
	SessionID string           `json:"session_id"`
	Layers    *domain.LayerSet `json:"layers"`
}

type simulationRequest struct {
	SessionID string           `json:"session_id"`
	Intensity *float64         `json:"intensity"`
	Layers    *domain.LayerSet `json:"layers"`
}

// parseOptional decodes a JSON body into v. An empty body leaves v untouched.
func parseOptional(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

// AskHandler answers a question. It always responds 200; failures are in the answer text.
func AskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.AskRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.JSON(domain.AskResponse{Answer: usecases.ServerErrorPrefix + err.Error()})
		}
		return c.JSON(deps.Ask.Ask(c.UserContext(), &req))
	}
}

// ContextHandler returns a query context with health and city scores folded in.
// Without a context in the body the server's layers are used.
func ContextHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req contextRequest
		if err := parseOptional(c, &req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		qc := domain.QueryContext{Persona: req.Persona, Summary: DefaultSummary}
		if req.Context != nil {
			qc = *req.Context
		} else {
			layers, err := deps.Layers.All(c.UserContext())
			if err != nil {
				return errFromService(c, err)
			}
			qc.Layers = layers
		}

		out, err := deps.Scores.Context(c.UserContext(), req.SessionID, qc)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(out)
	}
}

// HealthScoreHandler scores the given layers, or the server's layers when none are sent.
func HealthScoreHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req healthRequest
		if err := parseOptional(c, &req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		var layers domain.LayerSet
		if req.Layers != nil {
			layers = *req.Layers
		} else {
			var err error
			if layers, err = deps.Layers.All(c.UserContext()); err != nil {
				return errFromService(c, err)
			}
		}

		snap, err := deps.Scores.Health(c.UserContext(), req.SessionID, layers)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(snap)
	}
}

// CityScoresHandler ranks the reference cities for ?persona=.
func CityScoresHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		persona := domain.ParsePersona(c.Query("persona"))
		return c.JSON(deps.Scores.Cities(persona))
	}
}

// CreateSessionHandler issues a new session ID for baseline tracking.
func CreateSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store")
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session_id": uuid.NewString()})
	}
}

// GetSessionHandler returns a session's latest health snapshot.
func GetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, ok, err := deps.Scores.Session(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		if !ok {
			return errNotFound(c, "session has no score yet")
		}
		c.Set("Cache-Control", "no-store")
		return c.JSON(snap)
	}
}

// ResetSessionHandler clears a session's baseline.
func ResetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Scores.Reset(c.UserContext(), c.Params("id")); err != nil {
			return errFromService(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListCitiesHandler returns the city presets, nearest first when ?lat=&lon= are given.
func ListCitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		latStr, lonStr := c.Query("lat"), c.Query("lon")
		if latStr == "" && lonStr == "" {
			return c.JSON(deps.Cities.Presets(nil))
		}

		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat != nil || errLon != nil {
			return errBadRequest(c, "lat and lon must both be numbers")
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return errBadRequest(c, "lat must be within ±90 and lon within ±180")
		}
		return c.JSON(deps.Cities.Presets(&domain.GeoPoint{Lat: lat, Lon: lon}))
	}
}

// GetCityHandler returns one preset by key or name.
func GetCityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := deps.Cities.Find(c.Params("key"))
		if !ok {
			return errNotFound(c, "unknown city")
		}
		return c.JSON(p)
	}
}

// ListLayersHandler returns every layer; absent layers are null.
func ListLayersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		layers, err := deps.Layers.All(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(layers)
	}
}

// GetLayerHandler returns one layer, paged when ?limit= is set.
func GetLayerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := domain.ParseLayerName(c.Params("name"))
		if err != nil {
			return errFromService(c, err)
		}
		fc, err := deps.Layers.Get(c.UserContext(), name)
		if err != nil {
			return errFromService(c, err)
		}
		if fc == nil {
			return errNotFound(c, "layer "+string(name)+" is not loaded")
		}

		page, p, paged := paginateFeatures(c, fc)
		if paged {
			SetLinkHeaders(c, p)
		}
		return c.JSON(page, "application/geo+json")
	}
}

// SimulationHandler applies a simulation and scores the result.
func SimulationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req simulationRequest
		if err := parseOptional(c, &req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		intensity := simulation.DefaultIntensity
		if req.Intensity != nil {
			intensity = *req.Intensity
		}

		kind := c.Params("kind")
		layers, err := deps.Simulations.Run(c.UserContext(), kind, intensity, req.Layers)
		if err != nil {
			return errFromService(c, err)
		}
		return respondSimulation(c, deps, kind, simulation.ClampIntensity(intensity), req.SessionID, layers)
	}
}

// ResetSimulationHandler restores the noise and traffic layers from the source.
func ResetSimulationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req simulationRequest
		if err := parseOptional(c, &req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		var current domain.LayerSet
		if req.Layers != nil {
			current = *req.Layers
		}

		layers, err := deps.Simulations.Reset(c.UserContext(), current)
		if err != nil {
			return errFromService(c, err)
		}
		return respondSimulation(c, deps, "reset", 0, req.SessionID, layers)
	}
}

func respondSimulation(c *fiber.Ctx, deps *Dependencies, kind string, intensity float64, sessionID string, layers domain.LayerSet) error {
	snap, err := deps.Scores.Health(c.UserContext(), sessionID, layers)
	if err != nil {
		return errFromService(c, err)
	}
	return c.JSON(domain.SimulationResult{
		Simulation: kind,
		Intensity:  intensity,
		Layers:     layers,
		Health:     &snap,
	})
}
