package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

// Subscriber follows layer and score events as they are published.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS for consuming twin events.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeScores delivers score events for one session, or every session when sessionID is empty.
func (s *Subscriber) SubscribeScores(ctx context.Context, sessionID string, handler func(ctx context.Context, event *domain.ScoreEvent) error) error {
	subject := SubjectScoresAll
	if sessionID != "" {
		subject = ScoreSubject(sessionID)
	}
	return subscribe(ctx, s, subject, handler)
}

// SubscribeLayerChanges delivers every layer changed event.
func (s *Subscriber) SubscribeLayerChanges(ctx context.Context, handler func(ctx context.Context, event *domain.LayerChangedEvent) error) error {
	return subscribe(ctx, s, SubjectLayersAll, handler)
}

// subscribe attaches an ordered consumer starting at new messages only.
func subscribe[T any](ctx context.Context, s *Subscriber, subject string, handler func(context.Context, *T) error) error {
	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		var event T
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("drop malformed event", "subject", msg.Subject, "error", err)
			return
		}
		if err := handler(ctx, &event); err != nil {
			slog.Warn("event handler failed", "subject", msg.Subject, "error", err)
		}
	},
		nats.OrderedConsumer(),
		nats.DeliverNew(),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
