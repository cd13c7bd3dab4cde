package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/victorlin/metadata-explorer/internal/explorer"
	"github.com/victorlin/metadata-explorer/internal/source"
)

const sampleTSV = "strain\tdate\tregion\n" +
	"A\t2024-01-15\tafrica\n" +
	"B\t2024-01-20\tasia\n" +
	"C\t2024-02-01\tafrica\n"

func newTestServer(t *testing.T) (*Server, *explorer.Service) {
	t.Helper()
	svc := explorer.NewService(explorer.NewLoader(8, time.Minute), 19, 5*time.Second, nil, nil)
	resolver := source.NewResolver(5*time.Second, nil)
	return NewServer(":0", svc, resolver, nil, 50, 1<<20, 60), svc
}

func loadSample(t *testing.T, svc *explorer.Service) {
	t.Helper()
	<-svc.StartLoad(source.NewUpload("sample.tsv", []byte(sampleTSV)))
	if got := svc.Status(); got != "Successfully loaded." {
		t.Fatalf("sample load status = %q", got)
	}
}

func doRequest(s *Server, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("/healthz = %d, want 200", rec.Code)
	}
}

func TestIndexListsPresets(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/ = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "zika") {
		t.Error("index page is missing the preset dropdown entries")
	}

	rec = doRequest(s, http.MethodGet, "/no/such/page", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path = %d, want 404", rec.Code)
	}
}

func TestDatasetsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/datasets", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/datasets = %d, want 200", rec.Code)
	}

	var presets []struct {
		URL   string `json:"url"`
		Label string `json:"label"`
	}
	decodeJSON(t, rec, &presets)
	if len(presets) != len(source.Presets) {
		t.Errorf("got %d presets, want %d", len(presets), len(source.Presets))
	}
	for _, p := range presets {
		if p.URL == "" || p.Label == "" {
			t.Errorf("preset with empty field: %+v", p)
		}
	}
}

func TestStatusBeforeAnyLoad(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/status", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/status = %d, want 200", rec.Code)
	}
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "" {
		t.Errorf("status = %q, want empty", body["status"])
	}
}

func TestChartEndpointsWithoutDataset(t *testing.T) {
	s, _ := newTestServer(t)

	for _, target := range []string{"/api/summary", "/api/columns", "/api/chart/monthly"} {
		rec := doRequest(s, http.MethodGet, target, nil, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s = %d, want 404", target, rec.Code)
		}
	}
}

func TestUploadAndCharts(t *testing.T) {
	s, svc := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "sample.tsv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(sampleTSV)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	rec := doRequest(s, http.MethodPost, "/load/file", &buf, mw.FormDataContentType())
	if rec.Code != http.StatusAccepted {
		t.Fatalf("/load/file = %d, want 202, body %s", rec.Code, rec.Body.String())
	}
	var accepted map[string]string
	decodeJSON(t, rec, &accepted)
	if !strings.HasPrefix(accepted["status"], "Loading ") {
		t.Errorf("status = %q, want Loading prefix", accepted["status"])
	}

	// The load runs in the background.
	deadline := time.Now().Add(5 * time.Second)
	for svc.Status() != "Successfully loaded." {
		if time.Now().After(deadline) {
			t.Fatalf("load never completed, status %q", svc.Status())
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec = doRequest(s, http.MethodGet, "/api/summary", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/summary = %d, want 200", rec.Code)
	}
	var summary struct {
		Text      string `json:"text"`
		TotalRows int    `json:"total_rows"`
	}
	decodeJSON(t, rec, &summary)
	if summary.Text != "Metadata has 3 rows." {
		t.Errorf("summary text = %q", summary.Text)
	}
	if summary.TotalRows != 3 {
		t.Errorf("total_rows = %d, want 3", summary.TotalRows)
	}

	rec = doRequest(s, http.MethodGet, "/api/chart/monthly", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/chart/monthly = %d, want 200", rec.Code)
	}
	var monthly struct {
		Months []string `json:"months"`
		Counts []int    `json:"counts"`
	}
	decodeJSON(t, rec, &monthly)
	if len(monthly.Months) != 2 || monthly.Counts[0] != 2 || monthly.Counts[1] != 1 {
		t.Errorf("monthly chart = %+v", monthly)
	}
}

func TestStackedChartErrors(t *testing.T) {
	s, svc := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/chart/stacked?column=region", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("no dataset = %d, want 404", rec.Code)
	}

	loadSample(t, svc)

	rec = doRequest(s, http.MethodGet, "/api/chart/stacked", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing column = %d, want 400", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/chart/stacked?column=bogus", nil, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown column = %d, want 422", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/chart/stacked?column=region", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stacked chart = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var stacked struct {
		Months []string         `json:"months"`
		Labels []string         `json:"labels"`
		Series map[string][]int `json:"series"`
		Colors []string         `json:"colors"`
	}
	decodeJSON(t, rec, &stacked)
	if len(stacked.Labels) != 2 {
		t.Errorf("labels = %v, want 2 entries", stacked.Labels)
	}
	if len(stacked.Colors) != len(stacked.Labels) {
		t.Errorf("colors = %v for labels %v", stacked.Colors, stacked.Labels)
	}
	if got := stacked.Series["africa"]; len(got) != 2 || got[0] != 1 || got[1] != 1 {
		t.Errorf("africa series = %v", got)
	}
}

func TestColumnsEndpoint(t *testing.T) {
	s, svc := newTestServer(t)
	loadSample(t, svc)

	rec := doRequest(s, http.MethodGet, "/api/columns", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/columns = %d, want 200", rec.Code)
	}
	var columns []struct {
		Name        string `json:"name"`
		UniqueCount int    `json:"unique_count"`
	}
	decodeJSON(t, rec, &columns)
	// Only columns with at least 3 unique values are offered; region has 2.
	if len(columns) != 2 || columns[0].Name != "strain" || columns[1].Name != "date" {
		t.Errorf("columns = %+v, want [strain date]", columns)
	}
}

func TestLoadURLRejectsBadSource(t *testing.T) {
	s, _ := newTestServer(t)

	body := bytes.NewBufferString("url=gopher%3A%2F%2Fexample.org%2Fdata.tsv")
	rec := doRequest(s, http.MethodPost, "/load/url", body, "application/x-www-form-urlencoded")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad scheme = %d, want 400", rec.Code)
	}

	body = bytes.NewBufferString("url=")
	rec = doRequest(s, http.MethodPost, "/load/url", body, "application/x-www-form-urlencoded")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty url = %d, want 400", rec.Code)
	}
}

func TestLoadEndpointsRequirePOST(t *testing.T) {
	s, _ := newTestServer(t)

	for _, target := range []string{"/load/file", "/load/url"} {
		rec := doRequest(s, http.MethodGet, target, nil, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s = %d, want 405", target, rec.Code)
		}
	}
}

func TestHistoryWithoutRepository(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/history", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/history = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("history body = %q, want []", got)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  zika  ", "zika"},
		{"a\x00b", "ab"},
		{"tab\tok", "tab\tok"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
