// Package worker holds the background workers: the load-history consumer
// and the periodic preset refresher.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/victorlin/metadata-explorer/internal/amqp"
	"github.com/victorlin/metadata-explorer/internal/explorer"
	"github.com/victorlin/metadata-explorer/internal/log"
)

// HistoryWorker drains load events from the queue into the load history.
type HistoryWorker struct {
	recorder explorer.Recorder
}

func NewHistoryWorker(recorder explorer.Recorder) *HistoryWorker {
	return &HistoryWorker{recorder: recorder}
}

// HandleLoadEvent processes a single load event message from AMQP
func (w *HistoryWorker) HandleLoadEvent(ctx context.Context, msg *amqp.LoadEventMessage) error {
	slog.InfoContext(ctx, "Processing load event",
		log.FieldSourceKey, msg.SourceKey,
		log.FieldSourceLabel, msg.SourceLabel)

	if err := w.recorder.RecordLoad(ctx, msg.Event()); err != nil {
		return fmt.Errorf("record load event: %w", err)
	}

	return nil
}

// Run consumes the queue until ctx is cancelled.
func (w *HistoryWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeLoadEvents(ctx, func(msg *amqp.LoadEventMessage) error {
		return w.HandleLoadEvent(ctx, msg)
	})
}
