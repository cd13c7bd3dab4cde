// Package storage persists the load history in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/victorlin/metadata-explorer/internal/explorer"
	"github.com/victorlin/metadata-explorer/internal/log"
)

// HistoryEntry is one persisted load event.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	SourceKey   string    `json:"source_key"`
	SourceLabel string    `json:"source_label"`
	TotalRows   int       `json:"total_rows"`
	ValidRows   int       `json:"valid_rows"`
	DroppedRows int       `json:"dropped_rows"`
	CacheHit    bool      `json:"cache_hit"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// RecordLoad implements explorer.Recorder.
func (r *SQLiteRepository) RecordLoad(ctx context.Context, ev explorer.LoadEvent) error {
	occurredAt := ev.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO load_events (source_key, source_label, total_rows, valid_rows, dropped_rows, cache_hit, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.SourceKey, ev.SourceLabel, ev.TotalRows, ev.ValidRows, ev.DroppedRows,
		boolToInt(ev.CacheHit), ev.Duration.Milliseconds(), occurredAt)
	if err != nil {
		return fmt.Errorf("insert load event: %w", err)
	}

	id, _ := res.LastInsertId()
	slog.InfoContext(ctx, "Load event saved",
		"id", id,
		log.FieldSourceLabel, ev.SourceLabel,
		log.FieldTotalRows, ev.TotalRows)
	return nil
}

// RecentLoads returns the newest load events, most recent first.
func (r *SQLiteRepository) RecentLoads(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_key, source_label, total_rows, valid_rows, dropped_rows, cache_hit, duration_ms, created_at
		 FROM load_events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query load events: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var cacheHit int
		if err := rows.Scan(&e.ID, &e.SourceKey, &e.SourceLabel, &e.TotalRows, &e.ValidRows,
			&e.DroppedRows, &cacheHit, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan load event: %w", err)
		}
		e.CacheHit = cacheHit != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate load events: %w", err)
	}
	return entries, nil
}

// CountLoads returns the total number of recorded load events.
func (r *SQLiteRepository) CountLoads(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM load_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count load events: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
