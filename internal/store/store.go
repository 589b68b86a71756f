// Package store keeps the local feature catalog and the implementation-gap
// snapshot history in a SQLite database.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/webkattle/wft/internal/baseline"
	"github.com/webkattle/wft/internal/feature"
	"github.com/webkattle/wft/internal/table"
)

// Store wraps the catalog database. A single connection is used throughout;
// SQLite serializes writers anyway and one connection keeps WAL churn down.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) a catalog database at path.
func Open(path string) (*Store, error) {
	return open(path, false)
}

// OpenReadOnly opens an existing catalog database without write access.
func OpenReadOnly(path string) (*Store, error) {
	return open(path, true)
}

func open(path string, readOnly bool) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("catalog db path is required")
	}
	dsn := path
	if readOnly {
		// modernc.org/sqlite understands URI parameters in a "file:" DSN.
		u := url.URL{Scheme: "file", Path: path}
		q := u.Query()
		q.Set("mode", "ro")
		q.Set("_busy_timeout", "5000")
		u.RawQuery = q.Encode()
		dsn = u.String()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if !readOnly {
		if err := ensureSchema(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &Store{db: db, path: path}, nil
}

func ensureSchema(db *sql.DB) error {
	const features = `
CREATE TABLE IF NOT EXISTS features(
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	baseline_status TEXT NOT NULL DEFAULT '',
	payload TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`
	const snapshots = `
CREATE TABLE IF NOT EXISTS impl_gap_snapshots(
	browser TEXT NOT NULL,
	sample_date TEXT NOT NULL,
	missing_count INTEGER NOT NULL,
	PRIMARY KEY(browser, sample_date)
);`
	if _, err := db.Exec(features); err != nil {
		return fmt.Errorf("create features table: %w", err)
	}
	if _, err := db.Exec(snapshots); err != nil {
		return fmt.Errorf("create snapshots table: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// UpsertFeatures inserts or replaces catalog rows for the given features.
func (s *Store) UpsertFeatures(ctx context.Context, feats []feature.Feature) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, f := range feats {
		if strings.TrimSpace(f.ID) == "" {
			return fmt.Errorf("feature with empty id (name %q)", f.Name)
		}
		payload, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("encode feature %s: %w", f.ID, err)
		}
		status := ""
		if f.Baseline != nil {
			status = string(f.Baseline.Status)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO features(id, name, baseline_status, payload, updated_at)
			VALUES(?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				baseline_status = excluded.baseline_status,
				payload = excluded.payload,
				updated_at = excluded.updated_at`,
			f.ID, f.Name, status, string(payload), now); err != nil {
			return fmt.Errorf("upsert feature %s: %w", f.ID, err)
		}
	}
	return tx.Commit()
}

// Query selects and orders a page of the catalog.
type Query struct {
	Sort     table.SortSpec
	Start    int
	PageSize int
}

// FeaturePage is one ordered slice of the catalog plus the total row count.
type FeaturePage struct {
	Total    int
	Features []feature.Feature
}

// ListFeatures returns the catalog ordered per the sort spec, sliced by
// Start/PageSize. A non-positive PageSize means no limit.
func (s *Store) ListFeatures(ctx context.Context, q Query) (FeaturePage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM features ORDER BY id`)
	if err != nil {
		return FeaturePage{}, fmt.Errorf("list features: %w", err)
	}
	defer rows.Close()
	var feats []feature.Feature
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return FeaturePage{}, err
		}
		var f feature.Feature
		if err := json.Unmarshal([]byte(payload), &f); err != nil {
			return FeaturePage{}, fmt.Errorf("decode feature payload: %w", err)
		}
		feats = append(feats, f)
	}
	if err := rows.Err(); err != nil {
		return FeaturePage{}, err
	}
	sortFeatures(feats, q.Sort)
	page := FeaturePage{Total: len(feats)}
	start := q.Start
	if start < 0 {
		start = 0
	}
	if start >= len(feats) {
		return page, nil
	}
	end := len(feats)
	if q.PageSize > 0 && start+q.PageSize < end {
		end = start + q.PageSize
	}
	page.Features = feats[start:end]
	return page, nil
}

var baselineRank = map[feature.BaselineStatus]int{
	feature.BaselineLimited: 1,
	feature.BaselineNewly:   2,
	feature.BaselineWidely:  3,
}

func sortFeatures(feats []feature.Feature, spec table.SortSpec) {
	less := lessFunc(spec)
	sort.SliceStable(feats, func(i, j int) bool {
		if spec.Descending {
			return less(feats[j], feats[i])
		}
		return less(feats[i], feats[j])
	})
}

func lessFunc(spec table.SortSpec) func(a, b feature.Feature) bool {
	byName := func(a, b feature.Feature) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
	switch spec.Key {
	case table.ColumnName:
		return byName
	case table.ColumnBaselineStatus:
		return func(a, b feature.Feature) bool {
			ra, rb := statusRank(a), statusRank(b)
			if ra != rb {
				return ra < rb
			}
			return byName(a, b)
		}
	default:
		def, ok := table.Lookup(spec.Key)
		if !ok {
			return byName
		}
		browser, channel := def.BrowserChannel()
		return func(a, b feature.Feature) bool {
			sa, sb := channelScore(a, browser, channel), channelScore(b, browser, channel)
			if sa != sb {
				return sa < sb
			}
			return byName(a, b)
		}
	}
}

func statusRank(f feature.Feature) int {
	if f.Baseline == nil {
		return 0
	}
	return baselineRank[f.Baseline.Status]
}

// channelScore maps an absent score below every real score so missing data
// sorts together at the low end.
func channelScore(f feature.Feature, b feature.Browser, ch feature.Channel) float64 {
	var score *float64
	if ch == feature.ChannelExperimental {
		score = f.ExperimentalScore(b)
	} else {
		score = f.StableScore(b)
	}
	if score == nil {
		return -1
	}
	return *score
}

// ContentHash digests the catalog payloads; the watch endpoint uses it to
// detect changes without diffing rows.
func (s *Store) ContentHash(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM features ORDER BY id`)
	if err != nil {
		return "", fmt.Errorf("hash catalog: %w", err)
	}
	defer rows.Close()
	h := sha256.New()
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return "", err
		}
		h.Write([]byte(id))
		h.Write([]byte{0})
		h.Write([]byte(payload))
		h.Write([]byte{0})
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MissingOneImplCount counts features that are unavailable in browser while
// available in every browser of others on the stable channel.
func (s *Store) MissingOneImplCount(ctx context.Context, browser feature.Browser, others []feature.Browser) (int, error) {
	page, err := s.ListFeatures(ctx, Query{Sort: table.SortSpec{Key: table.ColumnName}})
	if err != nil {
		return 0, err
	}
	count := 0
	for _, f := range page.Features {
		if f.ImplementationFor(browser).Status != feature.ImplementationUnavailable {
			continue
		}
		missing := false
		for _, other := range others {
			if f.ImplementationFor(other).Status != feature.ImplementationAvailable {
				missing = true
				break
			}
		}
		if !missing {
			count++
		}
	}
	return count, nil
}

// RecordImplGapSnapshot stores (replacing) one day's missing-one-impl count
// for a browser.
func (s *Store) RecordImplGapSnapshot(ctx context.Context, date time.Time, browser feature.Browser, count int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO impl_gap_snapshots(browser, sample_date, missing_count)
		VALUES(?, ?, ?)
		ON CONFLICT(browser, sample_date) DO UPDATE SET missing_count = excluded.missing_count`,
		string(browser), baseline.FormatDate(date), count)
	if err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return nil
}

// GapCount is one point in the missing-one-implementation time series.
type GapCount struct {
	Timestamp string `json:"timestamp"`
	Count     int64  `json:"count"`
}

// GapPage is a page of the time series plus the token for the next page.
type GapPage struct {
	NextPageToken *string
	Data          []GapCount
}

// ListMissingOneImplCounts returns the recorded snapshot series for a
// browser within [startAt, endAt], newest first, paginated by an opaque
// offset token.
func (s *Store) ListMissingOneImplCounts(
	ctx context.Context,
	browser feature.Browser,
	startAt, endAt time.Time,
	pageSize int,
	pageToken *string,
) (GapPage, error) {
	offset := 0
	if pageToken != nil && *pageToken != "" {
		parsed, err := strconv.Atoi(*pageToken)
		if err != nil || parsed < 0 {
			return GapPage{}, fmt.Errorf("invalid page token %q", *pageToken)
		}
		offset = parsed
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	// Fetch one extra row to learn whether another page exists.
	rows, err := s.db.QueryContext(ctx,
		`SELECT sample_date, missing_count FROM impl_gap_snapshots
		WHERE browser = ? AND sample_date >= ? AND sample_date <= ?
		ORDER BY sample_date DESC
		LIMIT ? OFFSET ?`,
		string(browser), baseline.FormatDate(startAt), baseline.FormatDate(endAt), pageSize+1, offset)
	if err != nil {
		return GapPage{}, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()
	var data []GapCount
	for rows.Next() {
		var point GapCount
		if err := rows.Scan(&point.Timestamp, &point.Count); err != nil {
			return GapPage{}, err
		}
		data = append(data, point)
	}
	if err := rows.Err(); err != nil {
		return GapPage{}, err
	}
	page := GapPage{}
	if len(data) > pageSize {
		data = data[:pageSize]
		next := strconv.Itoa(offset + pageSize)
		page.NextPageToken = &next
	}
	page.Data = data
	return page, nil
}
