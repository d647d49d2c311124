package usecases_test

import (
	"context"
	"testing"

	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/core/usecases"
)

func TestAskService_MissingInput(t *testing.T) {
	svc := usecases.NewAskService()
	ctx := context.Background()

	cases := map[string]*domain.AskRequest{
		"nil request":     nil,
		"empty question":  {Context: &domain.QueryContext{}},
		"missing context": {Question: "highest noise"},
		"both missing":    {},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			got := svc.Ask(ctx, req)
			if got.Answer != usecases.MissingInputAnswer {
				t.Errorf("expected %q, got %q", usecases.MissingInputAnswer, got.Answer)
			}
		})
	}
}

func TestAskService_Noise(t *testing.T) {
	svc := usecases.NewAskService()
	req := &domain.AskRequest{
		Question: "Which area has the highest noise levels?",
		Context: &domain.QueryContext{
			Persona: domain.PersonaCitizen,
			Layers: domain.LayerSet{Noise: collection(
				map[string]any{"id": "A", "level": 70.0},
				map[string]any{"id": "B", "level": 85.0},
				map[string]any{"id": "C", "level": 85.0},
			)},
		},
	}

	got := svc.Ask(context.Background(), req)
	want := "Noise — min: 70, max: 85, avg: 80. Highest in: B, C.\n\n" +
		"Citizen mode: Explore cities, toggle layers, and draw a zone to focus analysis."
	if got.Answer != want {
		t.Errorf("unexpected answer:\n got %q\nwant %q", got.Answer, want)
	}
}

func TestAskService_UnsetPersonaUsesCitizenAdvice(t *testing.T) {
	svc := usecases.NewAskService()
	req := &domain.AskRequest{Question: "overview", Context: &domain.QueryContext{}}

	got := svc.Ask(context.Background(), req)
	want := "Citizen mode: Explore cities, toggle layers, and draw a zone to focus analysis."
	if len(got.Answer) < len(want) || got.Answer[len(got.Answer)-len(want):] != want {
		t.Errorf("expected citizen advice suffix, got %q", got.Answer)
	}
}
