package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/webkattle/wft/internal/feature"
	"github.com/webkattle/wft/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	catalog, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = catalog.Close() })
	srv, err := New(Config{Addr: "127.0.0.1:0"}, catalog, logr.Discard())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, catalog
}

func seedCatalog(t *testing.T, catalog *store.Store) {
	t.Helper()
	low, err := time.Parse("2006-01-02", "2015-07-29")
	if err != nil {
		t.Fatal(err)
	}
	score := 0.999
	feats := []feature.Feature{
		{
			ID:       "css-grid",
			Name:     "Grid",
			Baseline: &feature.Baseline{Status: feature.BaselineWidely, LowDate: &low},
			Scores: map[feature.Browser]feature.ChannelScores{
				feature.BrowserChrome: {Stable: &score},
			},
		},
		{
			ID:        "temporal",
			Name:      "Temporal",
			Baseline:  &feature.Baseline{Status: feature.BaselineLimited},
			SpecLinks: []string{"https://tc39.es/proposal-temporal/"},
		},
	}
	if err := catalog.UpsertFeatures(context.Background(), feats); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
}

func TestHandleTable(t *testing.T) {
	t.Parallel()
	srv, catalog := newTestServer(t)
	seedCatalog(t, catalog)

	req := httptest.NewRequest(http.MethodGet, "/api/table?columns=name,baseline_status,stable_chrome&sort=name_asc", nil)
	rec := httptest.NewRecorder()
	srv.handleTable(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp tableResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Rows) != 2 {
		t.Fatalf("total %d, %d rows", resp.Total, len(resp.Rows))
	}
	if len(resp.Columns) != 3 {
		t.Fatalf("columns = %+v", resp.Columns)
	}
	if resp.Sort != "name_asc" {
		t.Fatalf("sort echo = %q", resp.Sort)
	}
	// name_asc is active, so clicking the name header flips to descending.
	if got := resp.Columns[0].SortURL; got == "" || !containsParam(t, got, "sort", "name_desc") {
		t.Fatalf("name sort url = %q", got)
	}
	if !containsParam(t, resp.Columns[0].SortURL, "start", "0") {
		t.Fatalf("sort url should reset start: %q", resp.Columns[0].SortURL)
	}
	// Grid sorts before Temporal; its chrome score is 99.9%.
	firstRow := resp.Rows[0]
	if firstRow[0].Text != "Grid" {
		t.Fatalf("first row name = %q", firstRow[0].Text)
	}
	if firstRow[2].Kind != "score" || firstRow[2].Text != "99.9%" {
		t.Fatalf("grid chrome cell = %+v", firstRow[2])
	}
	// Temporal is a TC39 feature: not applicable on the stable channel.
	if resp.Rows[1][2].Kind != "not_applicable" {
		t.Fatalf("temporal chrome cell = %+v", resp.Rows[1][2])
	}
}

func TestHandleTableDefaults(t *testing.T) {
	t.Parallel()
	srv, catalog := newTestServer(t)
	seedCatalog(t, catalog)

	req := httptest.NewRequest(http.MethodGet, "/api/table", nil)
	rec := httptest.NewRecorder()
	srv.handleTable(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp tableResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Columns) != 6 {
		t.Fatalf("default column count = %d, want 6", len(resp.Columns))
	}
	if resp.Sort != "baseline_status_desc" {
		t.Fatalf("default sort = %q", resp.Sort)
	}
}

func TestHandleBrowserMetrics(t *testing.T) {
	t.Parallel()
	srv, catalog := newTestServer(t)
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := catalog.RecordImplGapSnapshot(ctx, day.AddDate(0, 0, i), feature.BrowserFirefox, 40+i); err != nil {
			t.Fatal(err)
		}
	}

	url := "/v1/browsers/firefox/features/missing-one-implementation-counts" +
		"?browser=chrome&browser=edge&browser=safari&startAt=2026-08-01&endAt=2026-08-31&page_size=2"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	srv.handleBrowserMetrics(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Metadata struct {
			NextPageToken *string `json:"next_page_token"`
		} `json:"metadata"`
		Data []store.GapCount `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("data rows = %d, want 2", len(resp.Data))
	}
	if resp.Data[0].Timestamp != "2026-08-22" || resp.Data[0].Count != 42 {
		t.Fatalf("newest point = %+v", resp.Data[0])
	}
	if resp.Metadata.NextPageToken == nil {
		t.Fatal("expected next page token")
	}
}

func TestHandleBrowserMetricsValidation(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	cases := []struct {
		name string
		url  string
		want int
	}{
		{"unknown target browser", "/v1/browsers/netscape/features/missing-one-implementation-counts?browser=chrome&startAt=2026-08-01&endAt=2026-08-31", http.StatusBadRequest},
		{"missing comparison browsers", "/v1/browsers/firefox/features/missing-one-implementation-counts?startAt=2026-08-01&endAt=2026-08-31", http.StatusBadRequest},
		{"bad comparison browser", "/v1/browsers/firefox/features/missing-one-implementation-counts?browser=lynx&startAt=2026-08-01&endAt=2026-08-31", http.StatusBadRequest},
		{"missing dates", "/v1/browsers/firefox/features/missing-one-implementation-counts?browser=chrome", http.StatusBadRequest},
		{"malformed date", "/v1/browsers/firefox/features/missing-one-implementation-counts?browser=chrome&startAt=August&endAt=2026-08-31", http.StatusBadRequest},
		{"wrong path shape", "/v1/browsers/firefox/bogus", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			rec := httptest.NewRecorder()
			srv.handleBrowserMetrics(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func containsParam(t *testing.T, rawURL, key, want string) bool {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, rawURL, nil)
	return req.URL.Query().Get(key) == want
}
