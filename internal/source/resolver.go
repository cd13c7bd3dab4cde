package source

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/victorlin/metadata-explorer/internal/source/google"
)

// ErrSheetsNotConfigured is returned for sheets:// inputs when no Google
// credentials were provided at startup.
var ErrSheetsNotConfigured = errors.New("google sheets source is not configured")

// Resolver turns a raw source string from the UI into a Source adapter.
// Supported forms: http(s) URLs, "file://<path>" for local files, and
// "sheets://<spreadsheetID>/<range>".
type Resolver struct {
	client *http.Client
	sheets *google.Client
}

// NewResolver builds a resolver whose HTTP fetches share one client with
// the given timeout. The sheets client may be nil.
func NewResolver(fetchTimeout time.Duration, sheets *google.Client) *Resolver {
	return &Resolver{
		client: &http.Client{Timeout: fetchTimeout},
		sheets: sheets,
	}
}

func (r *Resolver) Resolve(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return nil, errors.New("empty source")
	case strings.HasPrefix(raw, "file://"):
		path := strings.TrimPrefix(raw, "file://")
		if path == "" {
			return nil, fmt.Errorf("malformed file source %q, want file://<path>", raw)
		}
		return NewFile(path), nil
	case strings.HasPrefix(raw, "sheets://"):
		rest := strings.TrimPrefix(raw, "sheets://")
		id, readRange, ok := strings.Cut(rest, "/")
		if !ok || id == "" || readRange == "" {
			return nil, fmt.Errorf("malformed sheet source %q, want sheets://<spreadsheetID>/<range>", raw)
		}
		if r.sheets == nil {
			return nil, ErrSheetsNotConfigured
		}
		return r.sheets.Sheet(id, readRange), nil
	default:
		return NewRemote(raw, PresetLabel(raw), r.client)
	}
}
