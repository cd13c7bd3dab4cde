package explorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/victorlin/metadata-explorer/internal/core"
	"github.com/victorlin/metadata-explorer/internal/log"
	"github.com/victorlin/metadata-explorer/internal/source"
)

// ErrNoDataset is returned by chart and summary accessors before any load
// has completed.
var ErrNoDataset = errors.New("no metadata loaded")

// LoadEvent describes a completed metadata load, for history and the
// event stream.
type LoadEvent struct {
	SourceKey   string
	SourceLabel string
	TotalRows   int
	ValidRows   int
	DroppedRows int
	CacheHit    bool
	Duration    time.Duration
	OccurredAt  time.Time
}

// Recorder persists load events.
type Recorder interface {
	RecordLoad(ctx context.Context, ev LoadEvent) error
}

// Publisher emits load events to the message broker.
type Publisher interface {
	PublishLoadEvent(ctx context.Context, ev LoadEvent) error
}

// Service holds the explorer's session state: the most recently loaded
// dataset and the loading-state text shown on the dashboard. Loads run in
// the background; the newest load wins and stale completions are
// discarded via a monotonic generation counter.
type Service struct {
	loader        *Loader
	categoryLimit int
	loadTimeout   time.Duration
	recorder      Recorder  // optional
	publisher     Publisher // optional

	mu         sync.Mutex
	generation uint64
	dataset    *core.Dataset
	label      string
	status     string
}

func NewService(loader *Loader, categoryLimit int, loadTimeout time.Duration, recorder Recorder, publisher Publisher) *Service {
	return &Service{
		loader:        loader,
		categoryLimit: categoryLimit,
		loadTimeout:   loadTimeout,
		recorder:      recorder,
		publisher:     publisher,
	}
}

// StartLoad schedules a background load of src and returns immediately.
// The returned channel closes when the load settles, which the HTTP layer
// ignores but tests wait on.
func (s *Service) StartLoad(src source.Source) <-chan struct{} {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.status = fmt.Sprintf("Loading %s...", src.Label())
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.load(src, generation)
	}()
	return done
}

// load runs one load to completion and applies the outcome unless a newer
// load has started since.
func (s *Service) load(src source.Source, generation uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), s.loadTimeout)
	defer cancel()

	start := time.Now()
	ds, cacheHit, err := s.loader.Load(ctx, src)
	elapsed := time.Since(start)

	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		slog.Debug("Discarding stale load",
			log.FieldSourceKey, src.Key(),
			log.FieldGeneration, generation)
		return
	}
	if err != nil {
		s.status = fmt.Sprintf("Failed to load: %v", err)
		s.mu.Unlock()
		slog.Warn("Metadata load failed",
			log.FieldSourceKey, src.Key(),
			log.FieldSourceLabel, src.Label(),
			log.FieldError, err)
		return
	}
	s.dataset = ds
	s.label = src.Label()
	s.status = "Successfully loaded."
	s.mu.Unlock()

	ev := LoadEvent{
		SourceKey:   src.Key(),
		SourceLabel: src.Label(),
		TotalRows:   ds.Summary.TotalRows,
		ValidRows:   ds.Summary.ValidRows,
		DroppedRows: ds.Summary.DroppedRows,
		CacheHit:    cacheHit,
		Duration:    elapsed,
		OccurredAt:  time.Now().UTC(),
	}
	slog.Info("Metadata loaded",
		log.FieldSourceLabel, ev.SourceLabel,
		log.FieldTotalRows, ev.TotalRows,
		log.FieldValidRows, ev.ValidRows,
		log.FieldDroppedRows, ev.DroppedRows,
		log.FieldCacheHit, ev.CacheHit,
		log.FieldDuration, elapsed.Milliseconds())

	if s.publisher != nil {
		if err := s.publisher.PublishLoadEvent(ctx, ev); err != nil {
			slog.Warn("Publishing load event failed", log.FieldError, err)
		}
	} else if s.recorder != nil {
		if err := s.recorder.RecordLoad(ctx, ev); err != nil {
			slog.Warn("Recording load event failed", log.FieldError, err)
		}
	}
}

// Status returns the current loading-state text.
func (s *Service) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Current returns the active dataset and its source label.
func (s *Service) Current() (*core.Dataset, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset == nil {
		return nil, "", ErrNoDataset
	}
	return s.dataset, s.label, nil
}

// Summary returns the validation summary of the active dataset.
func (s *Service) Summary() (core.Summary, error) {
	ds, _, err := s.Current()
	if err != nil {
		return core.Summary{}, err
	}
	return ds.Summary, nil
}

// ColumnOptions lists stacking-column choices for the active dataset.
func (s *Service) ColumnOptions() ([]core.ColumnOption, error) {
	ds, _, err := s.Current()
	if err != nil {
		return nil, err
	}
	return ds.ColumnOptions(), nil
}

// MonthlyChart returns the per-month record counts of the active dataset.
func (s *Service) MonthlyChart() (core.MonthSeries, error) {
	ds, _, err := s.Current()
	if err != nil {
		return core.MonthSeries{}, err
	}
	return ds.PerMonth(), nil
}

// StackedChart returns per-month counts stacked by the given column, with
// low-frequency categories collapsed per the configured limit.
func (s *Service) StackedChart(column string) (*core.StackedSeries, error) {
	ds, _, err := s.Current()
	if err != nil {
		return nil, err
	}
	return ds.StackedPerMonth(column, s.categoryLimit)
}
