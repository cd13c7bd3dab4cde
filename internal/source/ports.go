// Package source defines where metadata comes from: browser uploads,
// remote dataset URLs, local files and Google Sheets ranges. Each adapter
// yields a parsed core.Table and a stable cache key for its input.
package source

import (
	"context"

	"github.com/victorlin/metadata-explorer/internal/core"
)

// Source is the inbound port for metadata.
type Source interface {
	// Key identifies the input for caching: a content fingerprint for
	// uploaded bytes, the URL for remote datasets.
	Key() string

	// Label is the human-readable name shown in loading/status text.
	Label() string

	// Open fetches and parses the metadata into a table.
	Open(ctx context.Context) (*core.Table, error)
}
