package main

import (
	"github.com/spf13/cobra"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

var scoresPersona string

// scoresReport is the output of `twin scores`.
type scoresReport struct {
	Persona domain.Persona         `json:"persona"`
	Health  *domain.HealthSnapshot `json:"health,omitempty"`
	Cities  []domain.CityScoreItem `json:"cities"`
}

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the health score of the layers and the city ranking",
	Args:  cobra.NoArgs,
	RunE:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&scoresPersona, "persona", "citizen", "Persona (citizen, health, investor)")
	rootCmd.AddCommand(scoresCmd)
}

func runScores(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	persona := domain.ParsePersona(scoresPersona)
	report := &scoresReport{Persona: persona, Cities: a.scores.Cities(persona)}

	layers, err := a.layers.All(ctx)
	if err != nil {
		return err
	}
	snap, err := a.scores.Health(ctx, "", layers)
	if err != nil {
		return err
	}
	report.Health = &snap
	return printResult(cmd, report)
}
