package usecases

import (
	"context"
	"testing"

	"github.com/samirrijal/citytwin/internal/core/analysis"
	"github.com/samirrijal/citytwin/internal/core/domain"
)

func TestAskService_RecoversIntoServerError(t *testing.T) {
	svc := &AskService{respond: func(analysis.Topic, domain.QueryContext) string {
		panic("layer index out of range")
	}}

	got := svc.Ask(context.Background(), &domain.AskRequest{
		Question: "highest noise",
		Context:  &domain.QueryContext{},
	})
	if got.Answer != "Server error: layer index out of range" {
		t.Errorf("unexpected answer %q", got.Answer)
	}
}
