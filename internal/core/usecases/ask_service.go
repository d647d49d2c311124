package usecases

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/citytwin/internal/core/analysis"
	"github.com/samirrijal/citytwin/internal/core/domain"
	"github.com/samirrijal/citytwin/internal/pkg/metrics"
	"github.com/samirrijal/citytwin/internal/pkg/telemetry"
)

const (
	MissingInputAnswer = "Missing question or context."
	ServerErrorPrefix  = "Server error: "
)

// AskService answers natural-language questions about the current layer snapshot.
type AskService struct {
	respond func(analysis.Topic, domain.QueryContext) string
}

// NewAskService creates a new AskService.
func NewAskService() *AskService {
	return &AskService{respond: analysis.Respond}
}

// Ask never fails: missing input and unexpected failures are reported in the answer text.
func (s *AskService) Ask(ctx context.Context, req *domain.AskRequest) (resp domain.AskResponse) {
	_, span := telemetry.Tracer("usecases").Start(ctx, "AskService.Ask")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			metrics.AnswerErrors.Inc()
			span.RecordError(fmt.Errorf("%v", r))
			resp = domain.AskResponse{Answer: ServerErrorPrefix + fmt.Sprint(r)}
		}
	}()

	if req == nil || req.Question == "" || req.Context == nil {
		return domain.AskResponse{Answer: MissingInputAnswer}
	}

	qc := *req.Context
	qc.Persona = domain.ParsePersona(string(qc.Persona))
	topic := analysis.Classify(req.Question)

	span.SetAttributes(
		attribute.String(telemetry.AttrTopic, string(topic)),
		attribute.String(telemetry.AttrPersona, string(qc.Persona)),
	)
	metrics.QuestionsAnswered.WithLabelValues(string(topic)).Inc()

	return domain.AskResponse{Answer: s.respond(topic, qc)}
}
