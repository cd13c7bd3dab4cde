package amqp

import (
	"testing"
	"time"

	"github.com/victorlin/metadata-explorer/internal/explorer"
)

func TestLoadEventMessageRoundTrip(t *testing.T) {
	ev := explorer.LoadEvent{
		SourceKey:   "https://example.org/zika.tsv",
		SourceLabel: "zika",
		TotalRows:   100,
		ValidRows:   97,
		DroppedRows: 3,
		CacheHit:    true,
		Duration:    1200 * time.Millisecond,
		OccurredAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	body, err := NewLoadEventMessage(ev).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	msg, err := LoadEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	got := msg.Event()
	if got != ev {
		t.Errorf("round trip = %+v, want %+v", got, ev)
	}
}

func TestNewLoadEventMessageFillsTimestamp(t *testing.T) {
	msg := NewLoadEventMessage(explorer.LoadEvent{SourceKey: "test:a", SourceLabel: "a"})
	if msg.OccurredAt.IsZero() {
		t.Error("OccurredAt not filled for zero input")
	}
}

func TestLoadEventMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := LoadEventMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}
