package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/webkattle/wft/internal/feature"
	"github.com/webkattle/wft/internal/store"
	"github.com/webkattle/wft/internal/table"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

type columnInfo struct {
	Key     string `json:"key"`
	Header  string `json:"header"`
	SortURL string `json:"sort_url"`
}

type tableResponse struct {
	Columns  []columnInfo   `json:"columns"`
	Rows     [][]table.Cell `json:"rows"`
	Total    int            `json:"total"`
	Start    int            `json:"start"`
	PageSize int            `json:"page_size"`
	Sort     string         `json:"sort"`
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp, err := s.renderTable(r.Context(), r.URL)
	if err != nil {
		s.logger.Error(err, "render table")
		writeErrorJSON(w, http.StatusInternalServerError, "unable to render feature table")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// renderTable computes one page of the table for a request URL: column
// resolution, store listing per the sort spec, and per-cell dispatch.
func (s *Server) renderTable(ctx context.Context, loc *url.URL) (tableResponse, error) {
	q := loc.Query()
	columns := table.ColumnsFromLocation(loc)
	sortSpec := table.SortFromLocation(loc)
	start := parseIntParam(q.Get(table.ParamStart), 0)
	pageSize := parseIntParam(q.Get("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page, err := s.catalog.ListFeatures(ctx, store.Query{
		Sort:     sortSpec,
		Start:    start,
		PageSize: pageSize,
	})
	if err != nil {
		return tableResponse{}, err
	}
	resp := tableResponse{
		Total:    page.Total,
		Start:    start,
		PageSize: pageSize,
		Sort:     sortSpec.String(),
	}
	for _, col := range columns {
		def, ok := table.Lookup(col)
		if !ok {
			continue
		}
		resp.Columns = append(resp.Columns, columnInfo{
			Key:     string(col),
			Header:  def.Header,
			SortURL: table.HeaderClickURL(loc, col).String(),
		})
	}
	for _, f := range page.Features {
		row := make([]table.Cell, len(columns))
		for i, col := range columns {
			row[i] = table.RenderCell(f, loc, col)
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp, nil
}

// handleBrowserMetrics serves
// /v1/browsers/{browser}/features/missing-one-implementation-counts.
func (s *Server) handleBrowserMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/browsers/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 3 || parts[1] != "features" || parts[2] != "missing-one-implementation-counts" {
		http.NotFound(w, r)
		return
	}
	browser, err := feature.ParseBrowser(parts[0])
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	// The recorded series is keyed by the target browser; the comparison set
	// is still validated so malformed requests fail fast.
	if len(q["browser"]) == 0 {
		writeErrorJSON(w, http.StatusBadRequest, "at least one comparison browser is required")
		return
	}
	for _, raw := range q["browser"] {
		if _, err := feature.ParseBrowser(raw); err != nil {
			writeErrorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	startAt, err := parseDateParam(q.Get("startAt"))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	endAt, err := parseDateParam(q.Get("endAt"))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	pageSize := parseIntParam(q.Get("page_size"), defaultPageSize)
	var pageToken *string
	if token := q.Get("page_token"); token != "" {
		pageToken = &token
	}
	page, err := s.catalog.ListMissingOneImplCounts(r.Context(), browser, startAt, endAt, pageSize, pageToken)
	if err != nil {
		s.logger.Error(err, "unable to get missing one implementation count", "browser", browser)
		writeErrorJSON(w, http.StatusInternalServerError, "unable to get missing one implementation metrics")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"metadata": map[string]any{
			"next_page_token": page.NextPageToken,
		},
		"data": page.Data,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"code":    status,
		"message": message,
	})
}

func parseIntParam(v string, def int) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func parseDateParam(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("startAt and endAt are required (YYYY-MM-DD)")
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", v)
	}
	return t, nil
}
