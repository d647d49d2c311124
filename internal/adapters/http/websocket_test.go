package http

import "testing"

func TestWSSubject(t *testing.T) {
	tests := []struct {
		in      wsMessage
		want    string
		wantErr bool
	}{
		{wsMessage{}, "twin.layers.>", false},
		{wsMessage{Channel: "layers", Layer: "traffic"}, "twin.layers.traffic.changed", false},
		{wsMessage{Channel: "layers", Layer: "rain"}, "", true},
		{wsMessage{Channel: "scores"}, "twin.scores.>", false},
		{wsMessage{Channel: "scores", Session: "s1"}, "twin.scores.s1", false},
		{wsMessage{Channel: "vehicles"}, "", true},
	}
	for _, tt := range tests {
		got, err := wsSubject(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%+v: unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%+v: expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestETagMatches(t *testing.T) {
	etag := `W/"abc"`
	if !etagMatches(`W/"abc"`, etag) || !etagMatches(`"x", W/"abc"`, etag) || !etagMatches("*", etag) {
		t.Error("expected match")
	}
	if etagMatches("", etag) || etagMatches(`"other"`, etag) {
		t.Error("unexpected match")
	}
	if !etagMatches(`"abc"`, etag) {
		t.Error("strong form of a weak tag should match for If-None-Match")
	}
}
