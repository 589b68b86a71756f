// Package baseline turns a feature's Baseline availability record into the
// chip and date lines the status column displays, including the projected
// widely-available date when only the newly-available date is known.
package baseline

import (
	"fmt"
	"time"

	"github.com/webkattle/wft/internal/feature"
)

// Chip is the availability badge shown in the baseline status column.
type Chip struct {
	Label string
	Class string
	Icon  string
}

var chipsByStatus = map[feature.BaselineStatus]Chip{
	feature.BaselineLimited: {Label: "Limited availability", Class: "limited", Icon: "cross"},
	feature.BaselineNewly:   {Label: "Newly available", Class: "newly", Icon: "newly"},
	feature.BaselineWidely:  {Label: "Widely available", Class: "widely", Icon: "check"},
}

// ChipFor returns the badge for a status. ok is false when the status is
// absent or not one of the three known tiers, in which case the column shows
// nothing at all.
func ChipFor(status feature.BaselineStatus) (Chip, bool) {
	chip, ok := chipsByStatus[status]
	return chip, ok
}

// DateLine is one labeled date row under the chip.
type DateLine struct {
	Label string
	Date  string
}

const (
	lowDateLabel           = "Newly available:"
	highDateLabel          = "Widely available:"
	projectedHighDateLabel = "Projected widely available:"
)

// widelyAvailableOffsetMonths is the fixed window after which a newly
// available feature is expected to become widely available.
const widelyAvailableOffsetMonths = 30

// Options select which date rows the status column renders.
type Options struct {
	ShowLowDate  bool
	ShowHighDate bool
}

// Classification is everything the baseline status cell displays.
type Classification struct {
	Chip     Chip
	LowDate  *DateLine
	HighDate *DateLine
}

// Classify resolves the chip and date rows for a feature's Baseline record.
// ok is false when there is no status to display; the caller renders an
// empty cell in that case.
//
// The low-date row appears only when a low date is recorded and the option
// is selected; its label is always "Newly available:" regardless of tier.
// The high-date row prefers a recorded date; with only a low date recorded
// it shows the projection instead.
func Classify(bl *feature.Baseline, opts Options) (Classification, bool) {
	if bl == nil {
		return Classification{}, false
	}
	chip, ok := ChipFor(bl.Status)
	if !ok {
		return Classification{}, false
	}
	out := Classification{Chip: chip}
	if bl.LowDate != nil && opts.ShowLowDate {
		out.LowDate = &DateLine{Label: lowDateLabel, Date: FormatDate(*bl.LowDate)}
	}
	switch {
	case bl.HighDate != nil && opts.ShowHighDate:
		out.HighDate = &DateLine{Label: highDateLabel, Date: FormatDate(*bl.HighDate)}
	case bl.LowDate != nil && opts.ShowHighDate:
		out.HighDate = &DateLine{Label: projectedHighDateLabel, Date: FormatDate(ProjectHighDate(*bl.LowDate))}
	}
	return out, true
}

// ProjectHighDate estimates the widely-available date as 30 calendar months
// after the newly-available date. Month overflow normalizes the usual way
// (the day of month is preserved unless the target month is shorter).
func ProjectHighDate(low time.Time) time.Time {
	return low.AddDate(0, widelyAvailableOffsetMonths, 0)
}

// FormatDate canonicalizes a date to YYYY-MM-DD using the date's own
// location, matching the format of stored date strings.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}
