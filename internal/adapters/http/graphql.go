package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/citytwin/internal/core/analysis"
	"github.com/samirrijal/citytwin/internal/core/domain"
)

func personaArg(p graphql.ResolveParams) domain.Persona {
	s, _ := p.Args["persona"].(string)
	return domain.ParsePersona(s)
}

func cityScoreMap(it domain.CityScoreItem) map[string]any {
	return map[string]any{"name": string(it.Name), "score": it.Score, "recommended": it.Recommended}
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	cityScoreType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CityScore",
		Fields: graphql.Fields{
			"name":        &graphql.Field{Type: graphql.String},
			"score":       &graphql.Field{Type: graphql.Int},
			"recommended": &graphql.Field{Type: graphql.Boolean},
		},
	})

	presetType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CityPreset",
		Fields: graphql.Fields{
			"key":         &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"center":      &graphql.Field{Type: geoPointType},
			"zoom":        &graphql.Field{Type: graphql.Int},
			"distance_km": &graphql.Field{Type: graphql.Float},
		},
	})

	healthType := graphql.NewObject(graphql.ObjectConfig{
		Name: "HealthSnapshot",
		Fields: graphql.Fields{
			"session_id": &graphql.Field{Type: graphql.String},
			"score":      &graphql.Field{Type: graphql.Int},
			"baseline":   &graphql.Field{Type: graphql.Int},
			"delta":      &graphql.Field{Type: graphql.Int},
			"grade":      &graphql.Field{Type: graphql.String},
		},
	})

	personaArgs := graphql.FieldConfigArgument{
		"persona": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "citizen"},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"classify": &graphql.Field{
				Type:        graphql.String,
				Description: "Topic a question would be answered under",
				Args: graphql.FieldConfigArgument{
					"question": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return string(analysis.Classify(p.Args["question"].(string))), nil
				},
			},
			"advice": &graphql.Field{
				Type:        graphql.String,
				Description: "Persona advice appended to every answer",
				Args:        personaArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return analysis.Advise(personaArg(p)), nil
				},
			},
			"ask": &graphql.Field{
				Type:        graphql.String,
				Description: "Answer a question against the server's layers, with scores folded in",
				Args: graphql.FieldConfigArgument{
					"question":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"persona":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "citizen"},
					"session_id": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					layers, err := deps.Layers.All(p.Context)
					if err != nil {
						return nil, err
					}
					qc := domain.QueryContext{Persona: personaArg(p), Summary: DefaultSummary, Layers: layers}
					qc, err = deps.Scores.Context(p.Context, p.Args["session_id"].(string), qc)
					if err != nil {
						return nil, err
					}
					resp := deps.Ask.Ask(p.Context, &domain.AskRequest{Question: p.Args["question"].(string), Context: &qc})
					return resp.Answer, nil
				},
			},
			"cities": &graphql.Field{
				Type:        graphql.NewList(cityScoreType),
				Description: "Reference cities scored for a persona",
				Args:        personaArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items := deps.Scores.Cities(personaArg(p))
					out := make([]map[string]any, len(items))
					for i, it := range items {
						out[i] = cityScoreMap(it)
					}
					return out, nil
				},
			},
			"recommendation": &graphql.Field{
				Type:        cityScoreType,
				Description: "The recommended city for a persona",
				Args:        personaArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					for _, it := range deps.Scores.Cities(personaArg(p)) {
						if it.Recommended {
							return cityScoreMap(it), nil
						}
					}
					return nil, nil
				},
			},
			"presets": &graphql.Field{
				Type:        graphql.NewList(presetType),
				Description: "City presets, nearest first when lat and lon are given",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.Float},
					"lon": &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var near *domain.GeoPoint
					lat, okLat := p.Args["lat"].(float64)
					lon, okLon := p.Args["lon"].(float64)
					if okLat && okLon {
						near = &domain.GeoPoint{Lat: lat, Lon: lon}
					}
					presets := deps.Cities.Presets(near)
					out := make([]map[string]any, len(presets))
					for i, ps := range presets {
						m := map[string]any{
							"key":    ps.Key,
							"name":   string(ps.Name),
							"center": map[string]any{"lat": ps.Center.Lat, "lon": ps.Center.Lon},
							"zoom":   ps.Zoom,
						}
						if ps.DistanceKm != nil {
							m["distance_km"] = *ps.DistanceKm
						}
						out[i] = m
					}
					return out, nil
				},
			},
			"healthScore": &graphql.Field{
				Type:        healthType,
				Description: "Health/air score of the server's layers",
				Args: graphql.FieldConfigArgument{
					"session_id": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					layers, err := deps.Layers.All(p.Context)
					if err != nil {
						return nil, err
					}
					snap, err := deps.Scores.Health(p.Context, p.Args["session_id"].(string), layers)
					if err != nil {
						return nil, err
					}
					return map[string]any{
						"session_id": snap.SessionID,
						"score":      snap.Score,
						"baseline":   snap.Baseline,
						"delta":      snap.Delta,
						"grade":      snap.Grade,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
