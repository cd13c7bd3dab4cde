package explorer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/victorlin/metadata-explorer/internal/core"
)

type fakeSource struct {
	key   string
	label string
	rows  [][]string
	err   error

	mu    sync.Mutex
	opens int
}

func (f *fakeSource) Key() string   { return f.key }
func (f *fakeSource) Label() string { return f.label }

func (f *fakeSource) Open(ctx context.Context) (*core.Table, error) {
	f.mu.Lock()
	f.opens++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return core.NewTable([]string{"date", "region"}, f.rows)
}

func (f *fakeSource) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

func validSource(key, label string) *fakeSource {
	return &fakeSource{
		key:   key,
		label: label,
		rows: [][]string{
			{"2024-01-15", "africa"},
			{"2024-02-01", "asia"},
		},
	}
}

func TestLoaderCachesByKey(t *testing.T) {
	loader := NewLoader(8, time.Minute)
	src := validSource("test:a", "a")

	ds, hit, err := loader.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if hit {
		t.Error("first load reported a cache hit")
	}
	if ds.Summary.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", ds.Summary.TotalRows)
	}

	again, hit, err := loader.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !hit {
		t.Error("second load missed the cache")
	}
	if again != ds {
		t.Error("cached load returned a different dataset")
	}
	if got := src.openCount(); got != 1 {
		t.Errorf("source opened %d times, want 1", got)
	}
}

func TestLoaderPropagatesSourceError(t *testing.T) {
	loader := NewLoader(8, time.Minute)
	src := &fakeSource{key: "test:bad", label: "bad", err: errors.New("boom")}

	if _, _, err := loader.Load(context.Background(), src); err == nil {
		t.Fatal("expected an error")
	}
	// Failures must not be cached.
	src.err = nil
	src.rows = [][]string{{"2024-01-01", "europe"}}
	ds, hit, err := loader.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if hit {
		t.Error("retry after failure reported a cache hit")
	}
	if ds.Summary.TotalRows != 1 {
		t.Errorf("TotalRows = %d, want 1", ds.Summary.TotalRows)
	}
}

type noDateSource struct{}

func (noDateSource) Key() string   { return "test:nodate" }
func (noDateSource) Label() string { return "nodate" }

func (noDateSource) Open(ctx context.Context) (*core.Table, error) {
	return core.NewTable([]string{"region"}, [][]string{{"asia"}})
}

func TestLoaderRejectsTableWithoutDateColumn(t *testing.T) {
	loader := NewLoader(8, time.Minute)
	_, _, err := loader.Load(context.Background(), noDateSource{})
	if !errors.Is(err, core.ErrMissingDateColumn) {
		t.Fatalf("err = %v, want ErrMissingDateColumn", err)
	}
}

func TestLoaderInvalidate(t *testing.T) {
	loader := NewLoader(8, time.Minute)
	src := validSource("test:a", "a")

	if _, _, err := loader.Load(context.Background(), src); err != nil {
		t.Fatal(err)
	}
	loader.Invalidate(src.Key())
	if _, hit, _ := loader.Load(context.Background(), src); hit {
		t.Error("load after invalidate reported a cache hit")
	}
	if got := src.openCount(); got != 2 {
		t.Errorf("source opened %d times, want 2", got)
	}
}

func newTestService(loader *Loader) *Service {
	return NewService(loader, 19, time.Second, nil, nil)
}

func TestServiceAccessorsBeforeLoad(t *testing.T) {
	s := newTestService(NewLoader(8, time.Minute))

	if _, _, err := s.Current(); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Current err = %v, want ErrNoDataset", err)
	}
	if _, err := s.MonthlyChart(); !errors.Is(err, ErrNoDataset) {
		t.Errorf("MonthlyChart err = %v, want ErrNoDataset", err)
	}
	if _, err := s.StackedChart("region"); !errors.Is(err, ErrNoDataset) {
		t.Errorf("StackedChart err = %v, want ErrNoDataset", err)
	}
	if got := s.Status(); got != "" {
		t.Errorf("Status = %q, want empty", got)
	}
}

func TestServiceLoadLifecycle(t *testing.T) {
	s := newTestService(NewLoader(8, time.Minute))
	src := validSource("test:zika", "zika")

	done := s.StartLoad(src)
	<-done

	if got := s.Status(); got != "Successfully loaded." {
		t.Errorf("Status = %q, want %q", got, "Successfully loaded.")
	}
	ds, label, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if label != "zika" {
		t.Errorf("label = %q, want %q", label, "zika")
	}
	if ds.Summary.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", ds.Summary.TotalRows)
	}

	monthly, err := s.MonthlyChart()
	if err != nil {
		t.Fatalf("MonthlyChart: %v", err)
	}
	if len(monthly.Months) != 2 {
		t.Errorf("months = %v, want 2 entries", monthly.Months)
	}
}

func TestServiceFailedLoadKeepsPreviousDataset(t *testing.T) {
	s := newTestService(NewLoader(8, time.Minute))

	<-s.StartLoad(validSource("test:a", "a"))
	<-s.StartLoad(&fakeSource{key: "test:b", label: "b", err: errors.New("boom")})

	if got := s.Status(); got != "Failed to load: boom" {
		t.Errorf("Status = %q, want %q", got, "Failed to load: boom")
	}
	_, label, err := s.Current()
	if err != nil {
		t.Fatalf("Current after failed load: %v", err)
	}
	if label != "a" {
		t.Errorf("label = %q, want previous dataset %q", label, "a")
	}
}

func TestServiceDiscardsStaleLoad(t *testing.T) {
	s := newTestService(NewLoader(8, time.Minute))

	<-s.StartLoad(validSource("test:new", "new"))

	// A load that started earlier but finishes now must not clobber the
	// newer result.
	s.load(validSource("test:old", "old"), 0)

	_, label, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if label != "new" {
		t.Errorf("label = %q, want %q", label, "new")
	}
	if got := s.Status(); got != "Successfully loaded." {
		t.Errorf("Status = %q, want %q", got, "Successfully loaded.")
	}
}

type captureRecorder struct {
	mu     sync.Mutex
	events []LoadEvent
}

func (c *captureRecorder) RecordLoad(ctx context.Context, ev LoadEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func TestServiceRecordsLoadEvents(t *testing.T) {
	rec := &captureRecorder{}
	s := NewService(NewLoader(8, time.Minute), 19, time.Second, rec, nil)

	<-s.StartLoad(validSource("test:zika", "zika"))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(rec.events))
	}
	ev := rec.events[0]
	if ev.SourceKey != "test:zika" || ev.SourceLabel != "zika" {
		t.Errorf("event source = %q/%q", ev.SourceKey, ev.SourceLabel)
	}
	if ev.TotalRows != 2 || ev.ValidRows != 2 || ev.DroppedRows != 0 {
		t.Errorf("event counts = %d/%d/%d", ev.TotalRows, ev.ValidRows, ev.DroppedRows)
	}
	if ev.CacheHit {
		t.Error("first load marked as cache hit")
	}
}
