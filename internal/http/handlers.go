package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/victorlin/metadata-explorer/internal/core"
	"github.com/victorlin/metadata-explorer/internal/explorer"
	"github.com/victorlin/metadata-explorer/internal/log"
	"github.com/victorlin/metadata-explorer/internal/source"
	"github.com/victorlin/metadata-explorer/internal/storage"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Presets []source.Preset
		Status  string
	}{
		Presets: source.Presets,
		Status:  s.explorer.Status(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", log.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleLoadFile accepts a browser upload and schedules it for loading.
func (s *Server) handleLoadFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		slog.WarnContext(r.Context(), "Upload parse failed", log.FieldError, err)
		writeJSONError(w, http.StatusBadRequest, "invalid or oversized upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.ErrorContext(r.Context(), "Upload read failed", log.FieldError, err)
		writeJSONError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	src := source.NewUpload(sanitizeInput(header.Filename), data)
	s.explorer.StartLoad(src)

	writeJSON(w, http.StatusAccepted, map[string]string{"status": s.explorer.Status()})
}

// handleLoadURL schedules a load from a URL or sheets:// reference.
func (s *Server) handleLoadURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid form")
		return
	}

	raw := sanitizeInput(r.Form.Get("url"))
	src, err := s.resolver.Resolve(raw)
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Source rejected",
			log.FieldSourceKey, raw,
			log.FieldError, err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.explorer.StartLoad(src)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": s.explorer.Status()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": s.explorer.Status()})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.explorer.Summary()
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	_, label, _ := s.explorer.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"text":         summary.Text(),
		"label":        label,
		"total_rows":   summary.TotalRows,
		"valid_rows":   summary.ValidRows,
		"dropped_rows": summary.DroppedRows,
	})
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	type preset struct {
		URL   string `json:"url"`
		Label string `json:"label"`
	}
	out := make([]preset, len(source.Presets))
	for i, p := range source.Presets {
		out[i] = preset{URL: p.URL, Label: p.Label}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	options, err := s.explorer.ColumnOptions()
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	type column struct {
		Name        string `json:"name"`
		UniqueCount int    `json:"unique_count"`
	}
	out := make([]column, len(options))
	for i, o := range options {
		out[i] = column{Name: o.Name, UniqueCount: o.UniqueCount}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChartMonthly(w http.ResponseWriter, r *http.Request) {
	series, err := s.explorer.MonthlyChart()
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"months": series.Months,
		"counts": series.Counts,
	})
}

func (s *Server) handleChartStacked(w http.ResponseWriter, r *http.Request) {
	column := sanitizeInput(r.URL.Query().Get("column"))
	if column == "" {
		writeJSONError(w, http.StatusBadRequest, "missing column parameter")
		return
	}

	series, err := s.explorer.StackedChart(column)
	switch {
	case errors.Is(err, explorer.ErrNoDataset):
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, core.ErrUnknownColumn):
		slog.WarnContext(r.Context(), "Unknown stacking column", log.FieldColumn, column)
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Stacked chart failed",
			log.FieldColumn, column,
			log.FieldError, err)
		writeJSONError(w, http.StatusInternalServerError, "chart computation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"months": series.Months,
		"labels": series.Labels,
		"series": series.Series,
		"colors": series.Colors,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}

	entries, err := s.history.RecentLoads(r.Context(), s.historyLimit)
	if err != nil {
		slog.ErrorContext(r.Context(), "History query failed", log.FieldError, err)
		writeJSONError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if entries == nil {
		entries = []storage.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
