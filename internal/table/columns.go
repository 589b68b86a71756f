// Package table implements the column-driven rendering engine for the
// comparative feature table: the column registry, the query-string config
// codec, and the per-cell dispatch logic.
package table

import (
	"fmt"

	"github.com/webkattle/wft/internal/feature"
)

// ColumnKey identifies one column of the table. The string value is the
// stable external token used in URLs and saved views; parsing is
// case-insensitive.
type ColumnKey string

const (
	ColumnName           ColumnKey = "name"
	ColumnBaselineStatus ColumnKey = "baseline_status"

	ColumnStableChrome  ColumnKey = "stable_chrome"
	ColumnStableEdge    ColumnKey = "stable_edge"
	ColumnStableFirefox ColumnKey = "stable_firefox"
	ColumnStableSafari  ColumnKey = "stable_safari"

	ColumnExperimentalChrome  ColumnKey = "experimental_chrome"
	ColumnExperimentalEdge    ColumnKey = "experimental_edge"
	ColumnExperimentalFirefox ColumnKey = "experimental_firefox"
	ColumnExperimentalSafari  ColumnKey = "experimental_safari"
)

// ColumnOptionKey identifies an optional per-column sub-display. Options are
// carried as a flat set in the query string even though each one conceptually
// belongs to a single column.
type ColumnOptionKey string

const (
	OptionBaselineLowDate  ColumnOptionKey = "baseline_status_low_date"
	OptionBaselineHighDate ColumnOptionKey = "baseline_status_high_date"
)

// Renderer computes one cell's content for a feature. A zero Cell means the
// column has nothing to show for this feature.
type Renderer func(f feature.Feature, ctx RenderContext) Cell

// Definition is the immutable description of one column: what the column
// picker calls it, what the header shows, how cells are computed, and which
// browser/channel or option keys it is configured with.
type Definition struct {
	DialogLabel string
	Header      string
	Render      Renderer
	Options     []ColumnOptionKey

	browser    feature.Browser
	channel    feature.Channel
	hasBrowser bool
}

// BrowserChannel returns the browser and release channel a quality column
// targets. Calling it on a column without one (name, baseline status) is a
// programmer error and panics: silently substituting a browser would put the
// wrong data in the cell.
func (d Definition) BrowserChannel() (feature.Browser, feature.Channel) {
	if !d.hasBrowser {
		panic(fmt.Sprintf("table: column %q has no browser/channel configuration", d.DialogLabel))
	}
	return d.browser, d.channel
}

var browserHeaders = map[feature.Browser]string{
	feature.BrowserChrome:  "Chrome",
	feature.BrowserEdge:    "Edge",
	feature.BrowserFirefox: "Firefox",
	feature.BrowserSafari:  "Safari",
}

func qualityColumn(b feature.Browser, ch feature.Channel) Definition {
	header := browserHeaders[b]
	label := fmt.Sprintf("%s (stable)", header)
	render := renderStableQuality
	if ch == feature.ChannelExperimental {
		header += " (exp)"
		label = fmt.Sprintf("%s (experimental)", browserHeaders[b])
		render = renderExperimentalQuality
	}
	return Definition{
		DialogLabel: label,
		Header:      header,
		Render:      render,
		browser:     b,
		channel:     ch,
		hasBrowser:  true,
	}
}

// registry is the process-wide immutable column table. It is total over the
// ColumnKey set and never mutated after init.
var registry = map[ColumnKey]Definition{
	ColumnName: {
		DialogLabel: "Feature name",
		Header:      "Feature",
		Render:      renderName,
	},
	ColumnBaselineStatus: {
		DialogLabel: "Baseline status",
		Header:      "Baseline",
		Render:      renderBaselineStatus,
		Options:     []ColumnOptionKey{OptionBaselineLowDate, OptionBaselineHighDate},
	},
	ColumnStableChrome:        qualityColumn(feature.BrowserChrome, feature.ChannelStable),
	ColumnStableEdge:          qualityColumn(feature.BrowserEdge, feature.ChannelStable),
	ColumnStableFirefox:       qualityColumn(feature.BrowserFirefox, feature.ChannelStable),
	ColumnStableSafari:        qualityColumn(feature.BrowserSafari, feature.ChannelStable),
	ColumnExperimentalChrome:  qualityColumn(feature.BrowserChrome, feature.ChannelExperimental),
	ColumnExperimentalEdge:    qualityColumn(feature.BrowserEdge, feature.ChannelExperimental),
	ColumnExperimentalFirefox: qualityColumn(feature.BrowserFirefox, feature.ChannelExperimental),
	ColumnExperimentalSafari:  qualityColumn(feature.BrowserSafari, feature.ChannelExperimental),
}

// Lookup resolves a column definition. It is total over the enumerated
// ColumnKey set; keys must come from the constants above or from the codec,
// which only ever yields known keys.
func Lookup(key ColumnKey) (Definition, bool) {
	def, ok := registry[key]
	return def, ok
}
