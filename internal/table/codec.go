package table

import (
	"net/url"
	"strings"
)

// DefaultColumns is what the table shows when the query string carries no
// usable columns spec. The table must never render fully empty.
var DefaultColumns = []ColumnKey{
	ColumnName,
	ColumnBaselineStatus,
	ColumnStableChrome,
	ColumnStableEdge,
	ColumnStableFirefox,
	ColumnStableSafari,
}

var columnsByToken = map[string]ColumnKey{
	string(ColumnName):                ColumnName,
	string(ColumnBaselineStatus):      ColumnBaselineStatus,
	string(ColumnStableChrome):        ColumnStableChrome,
	string(ColumnStableEdge):          ColumnStableEdge,
	string(ColumnStableFirefox):       ColumnStableFirefox,
	string(ColumnStableSafari):        ColumnStableSafari,
	string(ColumnExperimentalChrome):  ColumnExperimentalChrome,
	string(ColumnExperimentalEdge):    ColumnExperimentalEdge,
	string(ColumnExperimentalFirefox): ColumnExperimentalFirefox,
	string(ColumnExperimentalSafari):  ColumnExperimentalSafari,
}

var optionsByToken = map[string]ColumnOptionKey{
	string(OptionBaselineLowDate):  OptionBaselineLowDate,
	string(OptionBaselineHighDate): OptionBaselineHighDate,
}

// splitSpec lower-cases a comma-delimited spec and returns its trimmed,
// non-empty tokens in input order.
func splitSpec(spec string) []string {
	var tokens []string
	for _, part := range strings.Split(strings.ToLower(spec), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// ParseColumns maps a comma-delimited spec to column keys, silently dropping
// unrecognized tokens so newer servers and older clients never break each
// other. An empty result falls back to DefaultColumns.
func ParseColumns(spec string) []ColumnKey {
	var cols []ColumnKey
	for _, token := range splitSpec(spec) {
		if key, ok := columnsByToken[token]; ok {
			cols = append(cols, key)
		}
	}
	if len(cols) == 0 {
		return append([]ColumnKey(nil), DefaultColumns...)
	}
	return cols
}

// ParseColumnOptions maps a comma-delimited spec to option keys. Unlike
// columns, an empty result genuinely means no extra sub-displays, so there
// is no default fallback.
func ParseColumnOptions(spec string) []ColumnOptionKey {
	var opts []ColumnOptionKey
	for _, token := range splitSpec(spec) {
		if key, ok := optionsByToken[token]; ok {
			opts = append(opts, key)
		}
	}
	return opts
}

// FormatColumns serializes column keys back into a spec string.
func FormatColumns(cols []ColumnKey) string {
	tokens := make([]string, len(cols))
	for i, col := range cols {
		tokens[i] = string(col)
	}
	return strings.Join(tokens, ",")
}

// Query-string parameter names consumed by the codec.
const (
	ParamColumns       = "columns"
	ParamColumnOptions = "column_options"
	ParamSort          = "sort"
	ParamStart         = "start"
)

// ColumnsFromLocation extracts the active column list from a URL.
func ColumnsFromLocation(loc *url.URL) []ColumnKey {
	if loc == nil {
		return append([]ColumnKey(nil), DefaultColumns...)
	}
	return ParseColumns(loc.Query().Get(ParamColumns))
}

// ColumnOptionsFromLocation extracts the active column options from a URL.
func ColumnOptionsFromLocation(loc *url.URL) []ColumnOptionKey {
	if loc == nil {
		return nil
	}
	return ParseColumnOptions(loc.Query().Get(ParamColumnOptions))
}

// SortSpec is the active sort: a column plus a direction. It is derived
// fresh from the query string on every render and never persisted.
type SortSpec struct {
	Key        ColumnKey
	Descending bool
}

// DefaultSortSpec applies when the query string carries no sort token.
var DefaultSortSpec = SortSpec{Key: ColumnBaselineStatus, Descending: true}

const (
	sortSuffixAsc  = "_asc"
	sortSuffixDesc = "_desc"
)

// String serializes the sort spec to its <column>_<direction> token.
func (s SortSpec) String() string {
	if s.Descending {
		return string(s.Key) + sortSuffixDesc
	}
	return string(s.Key) + sortSuffixAsc
}

// ParseSortSpec decodes a <column>_<direction> token. Anything that does not
// name a known column and direction yields the default sort spec.
func ParseSortSpec(token string) SortSpec {
	token = strings.ToLower(strings.TrimSpace(token))
	var desc bool
	var key string
	switch {
	case strings.HasSuffix(token, sortSuffixAsc):
		key = strings.TrimSuffix(token, sortSuffixAsc)
	case strings.HasSuffix(token, sortSuffixDesc):
		key = strings.TrimSuffix(token, sortSuffixDesc)
		desc = true
	default:
		return DefaultSortSpec
	}
	col, ok := columnsByToken[key]
	if !ok {
		return DefaultSortSpec
	}
	return SortSpec{Key: col, Descending: desc}
}

// SortFromLocation extracts the active sort spec from a URL.
func SortFromLocation(loc *url.URL) SortSpec {
	if loc == nil {
		return DefaultSortSpec
	}
	return ParseSortSpec(loc.Query().Get(ParamSort))
}

// NextSort computes the sort a header click on key should navigate to. The
// cycle is deliberately two-state: only an exact current ascending sort on
// the same column flips to descending; every other state (other column,
// unsorted, or already descending) re-enters ascending. There is no
// transition back to "no sort".
func NextSort(current SortSpec, key ColumnKey) SortSpec {
	if current.Key == key && !current.Descending {
		return SortSpec{Key: key, Descending: true}
	}
	return SortSpec{Key: key, Descending: false}
}

// HeaderClickURL returns the URL a header click on key navigates to: the
// next sort spec applied to the current location, with the pagination offset
// reset to 0.
func HeaderClickURL(loc *url.URL, key ColumnKey) *url.URL {
	next := *loc
	q := next.Query()
	q.Set(ParamSort, NextSort(SortFromLocation(loc), key).String())
	q.Set(ParamStart, "0")
	next.RawQuery = q.Encode()
	return &next
}
