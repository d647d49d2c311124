package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

var askPersona string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the layers",
	Example: `  twin ask "Which area has the highest noise levels?"
  twin ask --persona investor "what is the city score?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askPersona, "persona", "citizen", "Persona (citizen, health, investor)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	layers, err := a.layers.All(ctx)
	if err != nil {
		return err
	}
	qc, err := a.scores.Context(ctx, "", domain.QueryContext{
		Persona: domain.ParsePersona(askPersona),
		Summary: "Layers from " + a.cfg.Data.Source,
		Layers:  layers,
	})
	if err != nil {
		return err
	}

	resp := a.ask.Ask(ctx, &domain.AskRequest{Question: strings.Join(args, " "), Context: &qc})
	return printResult(cmd, resp)
}
