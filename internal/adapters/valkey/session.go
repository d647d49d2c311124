package valkey

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/samirrijal/citytwin/internal/core/analysis"
)

// SessionStore implements ports.SessionStore. The baseline is written with SET NX so
// concurrent first observations of one session agree on a single baseline.
type SessionStore struct {
	*Client
	ttl time.Duration
}

// NewSessionStore keeps each session for ttl after its last observation.
// A zero ttl stores sessions without expiry.
func NewSessionStore(c *Client, ttl time.Duration) *SessionStore {
	return &SessionStore{Client: c, ttl: ttl}
}

func sessionKeys(id string) (current, baseline string) {
	base := "twin:session:" + id
	return base + ":current", base + ":baseline"
}

// Observe records score and seeds the baseline if the session has none.
// A non-positive ttl stores the keys without expiry.
func (s *SessionStore) Observe(ctx context.Context, id string, score int) (analysis.ScoreState, error) {
	ck, bk := sessionKeys(id)
	v := strconv.Itoa(score)
	ttl := int64(s.ttl / time.Second)

	var cmds []valkey.Completed
	if ttl > 0 {
		cmds = append(cmds,
			s.client.B().Set().Key(bk).Value(v).Nx().ExSeconds(ttl).Build(),
			s.client.B().Set().Key(ck).Value(v).ExSeconds(ttl).Build(),
			s.client.B().Expire().Key(bk).Seconds(ttl).Build(),
		)
	} else {
		cmds = append(cmds,
			s.client.B().Set().Key(bk).Value(v).Nx().Build(),
			s.client.B().Set().Key(ck).Value(v).Build(),
		)
	}
	cmds = append(cmds, s.client.B().Get().Key(bk).Build())

	results := s.client.DoMulti(ctx, cmds...)
	last := len(results) - 1
	for _, r := range results[:last] {
		// SET NX answers nil when the baseline already exists.
		if err := r.Error(); err != nil && !valkey.IsValkeyNil(err) {
			return analysis.ScoreState{}, fmt.Errorf("observe session %s: %w", id, err)
		}
	}

	state := analysis.ScoreState{}.Observe(score)
	baseline, err := intResult(results[last])
	if err != nil {
		return analysis.ScoreState{}, fmt.Errorf("read baseline %s: %w", id, err)
	}
	if baseline != nil {
		state.Baseline = baseline
	}
	return state, nil
}

// Get returns the stored state. An unknown session has an empty state.
func (s *SessionStore) Get(ctx context.Context, id string) (analysis.ScoreState, error) {
	ck, bk := sessionKeys(id)
	results := s.client.DoMulti(ctx,
		s.client.B().Get().Key(ck).Build(),
		s.client.B().Get().Key(bk).Build(),
	)
	current, err := intResult(results[0])
	if err != nil {
		return analysis.ScoreState{}, fmt.Errorf("read session %s: %w", id, err)
	}
	baseline, err := intResult(results[1])
	if err != nil {
		return analysis.ScoreState{}, fmt.Errorf("read session %s: %w", id, err)
	}
	return analysis.ScoreState{Current: current, Baseline: baseline}, nil
}

// Reset drops the baseline; the current score is kept.
func (s *SessionStore) Reset(ctx context.Context, id string) error {
	_, bk := sessionKeys(id)
	return s.client.Do(ctx, s.client.B().Del().Key(bk).Build()).Error()
}

func intResult(r valkey.ValkeyResult) (*int, error) {
	str, err := r.ToString()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return parseScore(str)
}

func parseScore(s string) (*int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("stored score %q: %w", s, err)
	}
	return &n, nil
}
