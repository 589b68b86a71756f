package table

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParseColumnsDefaults(t *testing.T) {
	t.Parallel()
	for _, spec := range []string{"", "   ", ",,,", "bogus", "bogus,also_bogus"} {
		got := ParseColumns(spec)
		if !reflect.DeepEqual(got, DefaultColumns) {
			t.Fatalf("ParseColumns(%q) = %v, want default list %v", spec, got, DefaultColumns)
		}
	}
}

func TestParseColumns(t *testing.T) {
	t.Parallel()
	got := ParseColumns("name, baseline_status ")
	want := []ColumnKey{ColumnName, ColumnBaselineStatus}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseColumns = %v, want %v", got, want)
	}
	got = ParseColumns("EXPERIMENTAL_FIREFOX,unknown,Stable_Safari")
	want = []ColumnKey{ColumnExperimentalFirefox, ColumnStableSafari}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseColumns mixed case = %v, want %v", got, want)
	}
}

func TestParseColumnsPreservesOrder(t *testing.T) {
	t.Parallel()
	got := ParseColumns("stable_safari,name,baseline_status")
	want := []ColumnKey{ColumnStableSafari, ColumnName, ColumnBaselineStatus}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseColumns = %v, want input order %v", got, want)
	}
}

func TestParseColumnOptions(t *testing.T) {
	t.Parallel()
	for _, spec := range []string{"", "bogus", " , "} {
		if got := ParseColumnOptions(spec); len(got) != 0 {
			t.Fatalf("ParseColumnOptions(%q) = %v, want empty", spec, got)
		}
	}
	got := ParseColumnOptions("Baseline_Status_High_Date, baseline_status_low_date")
	want := []ColumnOptionKey{OptionBaselineHighDate, OptionBaselineLowDate}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseColumnOptions = %v, want %v", got, want)
	}
}

func TestFormatColumnsRoundTrip(t *testing.T) {
	t.Parallel()
	cols := []ColumnKey{ColumnName, ColumnStableChrome, ColumnExperimentalEdge}
	if got := ParseColumns(FormatColumns(cols)); !reflect.DeepEqual(got, cols) {
		t.Fatalf("round trip = %v, want %v", got, cols)
	}
}

func TestParseSortSpec(t *testing.T) {
	t.Parallel()
	cases := []struct {
		token string
		want  SortSpec
	}{
		{"name_asc", SortSpec{Key: ColumnName}},
		{"name_desc", SortSpec{Key: ColumnName, Descending: true}},
		{"baseline_status_desc", SortSpec{Key: ColumnBaselineStatus, Descending: true}},
		{"STABLE_CHROME_ASC", SortSpec{Key: ColumnStableChrome}},
		{"", DefaultSortSpec},
		{"name", DefaultSortSpec},
		{"bogus_asc", DefaultSortSpec},
		{"name_sideways", DefaultSortSpec},
	}
	for _, tc := range cases {
		if got := ParseSortSpec(tc.token); got != tc.want {
			t.Fatalf("ParseSortSpec(%q) = %+v, want %+v", tc.token, got, tc.want)
		}
	}
}

func TestSortSpecString(t *testing.T) {
	t.Parallel()
	if got := (SortSpec{Key: ColumnName, Descending: true}).String(); got != "name_desc" {
		t.Fatalf("String() = %q", got)
	}
	if got := DefaultSortSpec.String(); got != "baseline_status_desc" {
		t.Fatalf("default sort token = %q", got)
	}
}

func TestNextSortCycle(t *testing.T) {
	t.Parallel()
	// Unsorted or another column: ascending.
	next := NextSort(DefaultSortSpec, ColumnName)
	if next != (SortSpec{Key: ColumnName}) {
		t.Fatalf("other column -> %+v, want name ascending", next)
	}
	// Ascending on the same column: descending.
	next = NextSort(next, ColumnName)
	if next != (SortSpec{Key: ColumnName, Descending: true}) {
		t.Fatalf("ascending -> %+v, want name descending", next)
	}
	// Descending on the same column re-enters ascending; there is no
	// transition back to unsorted.
	next = NextSort(next, ColumnName)
	if next != (SortSpec{Key: ColumnName}) {
		t.Fatalf("descending -> %+v, want name ascending again", next)
	}
}

func TestHeaderClickURL(t *testing.T) {
	t.Parallel()
	loc, err := url.Parse("/features?sort=name_asc&start=75&columns=name,baseline_status")
	if err != nil {
		t.Fatal(err)
	}
	next := HeaderClickURL(loc, ColumnName)
	q := next.Query()
	if got := q.Get(ParamSort); got != "name_desc" {
		t.Fatalf("sort = %q, want name_desc", got)
	}
	if got := q.Get(ParamStart); got != "0" {
		t.Fatalf("start = %q, want 0", got)
	}
	if got := q.Get(ParamColumns); got != "name,baseline_status" {
		t.Fatalf("columns spec was disturbed: %q", got)
	}
	// Clicking a different header always yields that column ascending.
	next = HeaderClickURL(loc, ColumnStableChrome)
	if got := next.Query().Get(ParamSort); got != "stable_chrome_asc" {
		t.Fatalf("sort = %q, want stable_chrome_asc", got)
	}
}
