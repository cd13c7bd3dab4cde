// Package google reads metadata rows from a Google Sheets range, for labs
// that maintain surveillance metadata in a spreadsheet rather than TSV
// exports.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/victorlin/metadata-explorer/internal/core"
)

// Client wraps the Sheets API service. One client serves any number of
// sheet sources.
type Client struct {
	svc *gsheet.Service
}

// NewFromEnv creates a Sheets client from service account credentials in
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	credentialsJSON, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func credentialsFromEnv() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	credentialsJSON, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return credentialsJSON, nil
}

// Sheet is a metadata source backed by one spreadsheet range.
type Sheet struct {
	client        *Client
	spreadsheetID string
	readRange     string
}

// Sheet returns a source for the given spreadsheet and A1-notation range.
func (c *Client) Sheet(spreadsheetID, readRange string) *Sheet {
	return &Sheet{client: c, spreadsheetID: spreadsheetID, readRange: readRange}
}

func (s *Sheet) Key() string {
	return "sheets:" + s.spreadsheetID + "/" + s.readRange
}

func (s *Sheet) Label() string {
	return "sheet " + s.spreadsheetID + " (" + s.readRange + ")"
}

func (s *Sheet) Open(ctx context.Context) (*core.Table, error) {
	resp, err := s.client.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet range %s: %w", s.readRange, err)
	}
	return tableFromValues(resp.Values)
}
