package baseline

import (
	"testing"
	"time"

	"github.com/webkattle/wft/internal/feature"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func TestFormatDate(t *testing.T) {
	t.Parallel()
	fromRFC, err := time.Parse(time.RFC3339, "2000-10-12T00:00:00.000Z")
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatDate(fromRFC); got != "2000-10-12" {
		t.Fatalf("FormatDate(RFC3339) = %q, want 2000-10-12", got)
	}
	if got := FormatDate(date(t, "2000-10-12")); got != "2000-10-12" {
		t.Fatalf("FormatDate(date-only) = %q, want 2000-10-12", got)
	}
	if got := FormatDate(date(t, "0999-01-05")); got != "0999-01-05" {
		t.Fatalf("FormatDate should zero-pad the year, got %q", got)
	}
}

func TestProjectHighDate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		low  string
		want string
	}{
		{"2015-07-29", "2018-01-29"},
		{"2020-01-15", "2022-07-15"},
		{"2021-11-30", "2024-05-30"},
	}
	for _, tc := range cases {
		got := FormatDate(ProjectHighDate(date(t, tc.low)))
		if got != tc.want {
			t.Fatalf("ProjectHighDate(%s) = %s, want %s", tc.low, got, tc.want)
		}
	}
}

func TestChipFor(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status    feature.BaselineStatus
		wantLabel string
		wantIcon  string
		wantOK    bool
	}{
		{feature.BaselineLimited, "Limited availability", "cross", true},
		{feature.BaselineNewly, "Newly available", "newly", true},
		{feature.BaselineWidely, "Widely available", "check", true},
		{"", "", "", false},
		{"someday", "", "", false},
	}
	for _, tc := range cases {
		chip, ok := ChipFor(tc.status)
		if ok != tc.wantOK {
			t.Fatalf("ChipFor(%q) ok = %v, want %v", tc.status, ok, tc.wantOK)
		}
		if chip.Label != tc.wantLabel || chip.Icon != tc.wantIcon {
			t.Fatalf("ChipFor(%q) = %+v, want label %q icon %q", tc.status, chip, tc.wantLabel, tc.wantIcon)
		}
	}
}

func TestClassifyNoOptions(t *testing.T) {
	t.Parallel()
	low := date(t, "2015-07-29")
	high := date(t, "2018-01-29")
	bl := &feature.Baseline{Status: feature.BaselineWidely, LowDate: &low, HighDate: &high}
	cls, ok := Classify(bl, Options{})
	if !ok {
		t.Fatal("Classify returned no content for a widely available feature")
	}
	if cls.Chip.Label != "Widely available" {
		t.Fatalf("chip label = %q", cls.Chip.Label)
	}
	if cls.LowDate != nil {
		t.Fatalf("low date shown without the option: %+v", cls.LowDate)
	}
	if cls.HighDate != nil {
		t.Fatalf("high date shown without the option: %+v", cls.HighDate)
	}
}

func TestClassifyLowDateOption(t *testing.T) {
	t.Parallel()
	low := date(t, "2015-07-29")
	high := date(t, "2018-01-29")
	bl := &feature.Baseline{Status: feature.BaselineWidely, LowDate: &low, HighDate: &high}
	cls, ok := Classify(bl, Options{ShowLowDate: true})
	if !ok {
		t.Fatal("Classify returned no content")
	}
	if cls.LowDate == nil {
		t.Fatal("low date block missing")
	}
	if cls.LowDate.Label != "Newly available:" || cls.LowDate.Date != "2015-07-29" {
		t.Fatalf("low date block = %+v", cls.LowDate)
	}
	if cls.HighDate != nil {
		t.Fatalf("high date shown without its option: %+v", cls.HighDate)
	}
}

func TestClassifyRecordedHighDate(t *testing.T) {
	t.Parallel()
	low := date(t, "2015-07-29")
	high := date(t, "2018-01-29")
	bl := &feature.Baseline{Status: feature.BaselineWidely, LowDate: &low, HighDate: &high}
	cls, ok := Classify(bl, Options{ShowHighDate: true})
	if !ok {
		t.Fatal("Classify returned no content")
	}
	if cls.HighDate == nil {
		t.Fatal("high date block missing")
	}
	if cls.HighDate.Label != "Widely available:" || cls.HighDate.Date != "2018-01-29" {
		t.Fatalf("high date block = %+v", cls.HighDate)
	}
}

func TestClassifyProjectedHighDate(t *testing.T) {
	t.Parallel()
	low := date(t, "2015-07-29")
	bl := &feature.Baseline{Status: feature.BaselineNewly, LowDate: &low}
	cls, ok := Classify(bl, Options{ShowHighDate: true})
	if !ok {
		t.Fatal("Classify returned no content")
	}
	if cls.HighDate == nil {
		t.Fatal("projected high date block missing")
	}
	if cls.HighDate.Label != "Projected widely available:" {
		t.Fatalf("projected label = %q", cls.HighDate.Label)
	}
	if cls.HighDate.Date != "2018-01-29" {
		t.Fatalf("projected date = %q, want 2018-01-29", cls.HighDate.Date)
	}
}

func TestClassifyLimitedNoDates(t *testing.T) {
	t.Parallel()
	bl := &feature.Baseline{Status: feature.BaselineLimited}
	for _, opts := range []Options{{}, {ShowLowDate: true}, {ShowHighDate: true}, {ShowLowDate: true, ShowHighDate: true}} {
		cls, ok := Classify(bl, opts)
		if !ok {
			t.Fatal("Classify returned no content for limited status")
		}
		if cls.Chip.Label != "Limited availability" {
			t.Fatalf("chip label = %q", cls.Chip.Label)
		}
		if cls.LowDate != nil || cls.HighDate != nil {
			t.Fatalf("date blocks produced without recorded dates: %+v", cls)
		}
	}
}

func TestClassifyAbsentStatus(t *testing.T) {
	t.Parallel()
	if _, ok := Classify(nil, Options{}); ok {
		t.Fatal("nil baseline should produce no content")
	}
	if _, ok := Classify(&feature.Baseline{}, Options{ShowLowDate: true, ShowHighDate: true}); ok {
		t.Fatal("empty status should produce no content")
	}
}
