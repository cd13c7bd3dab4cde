package amqp

import (
	"encoding/json"
	"time"

	"github.com/victorlin/metadata-explorer/internal/explorer"
)

// LoadEventMessage carries a completed metadata load over the wire. The
// worker persists it to the load history.
type LoadEventMessage struct {
	SourceKey   string    `json:"source_key"`
	SourceLabel string    `json:"source_label"`
	TotalRows   int       `json:"total_rows"`
	ValidRows   int       `json:"valid_rows"`
	DroppedRows int       `json:"dropped_rows"`
	CacheHit    bool      `json:"cache_hit"`
	DurationMS  int64     `json:"duration_ms"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewLoadEventMessage converts a load event into its wire form.
func NewLoadEventMessage(ev explorer.LoadEvent) *LoadEventMessage {
	occurredAt := ev.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	return &LoadEventMessage{
		SourceKey:   ev.SourceKey,
		SourceLabel: ev.SourceLabel,
		TotalRows:   ev.TotalRows,
		ValidRows:   ev.ValidRows,
		DroppedRows: ev.DroppedRows,
		CacheHit:    ev.CacheHit,
		DurationMS:  ev.Duration.Milliseconds(),
		OccurredAt:  occurredAt,
	}
}

// Event converts the wire form back into a load event.
func (m *LoadEventMessage) Event() explorer.LoadEvent {
	return explorer.LoadEvent{
		SourceKey:   m.SourceKey,
		SourceLabel: m.SourceLabel,
		TotalRows:   m.TotalRows,
		ValidRows:   m.ValidRows,
		DroppedRows: m.DroppedRows,
		CacheHit:    m.CacheHit,
		Duration:    time.Duration(m.DurationMS) * time.Millisecond,
		OccurredAt:  m.OccurredAt,
	}
}

// ToJSON converts the message to JSON bytes
func (m *LoadEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func LoadEventMessageFromJSON(data []byte) (*LoadEventMessage, error) {
	var msg LoadEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
