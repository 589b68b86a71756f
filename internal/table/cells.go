package table

import (
	"net/url"

	"github.com/webkattle/wft/internal/baseline"
	"github.com/webkattle/wft/internal/feature"
)

// CellKind tags what a rendered cell contains so display surfaces (terminal
// console, JSON API) can choose markers and styling without re-deriving the
// classification.
type CellKind string

const (
	// CellEmpty is the explicit no-content marker: the column has nothing
	// to show for this feature (or no renderer is registered).
	CellEmpty CellKind = ""
	// CellText is plain text, optionally with a link (the name column).
	CellText CellKind = "text"
	// CellBaseline carries an availability chip plus optional date lines.
	CellBaseline CellKind = "baseline"
	// CellScore carries a formatted test-pass percentage.
	CellScore CellKind = "score"
	// CellMissing means no score is recorded or the implementation is
	// marked unavailable.
	CellMissing CellKind = "missing"
	// CellNotApplicable marks TC39-tracked JavaScript features, which have
	// no WPT scores by construction.
	CellNotApplicable CellKind = "not_applicable"
	// CellInsufficientCoverage marks features on the known low-coverage
	// list, whose scores would be misleading.
	CellInsufficientCoverage CellKind = "insufficient_coverage"
	// CellCrashed marks features whose stable test run crashed.
	CellCrashed CellKind = "crashed"
)

// Cell is the computed content of one table cell.
type Cell struct {
	Kind     CellKind                 `json:"kind"`
	Text     string                   `json:"text,omitempty"`
	Link     string                   `json:"link,omitempty"`
	Baseline *baseline.Classification `json:"baseline,omitempty"`
}

// Empty is the explicit no-content cell.
var Empty = Cell{}

// IsEmpty reports whether the cell carries no content.
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// RenderContext carries the per-render configuration a renderer may consult:
// the column definition being rendered and the active column options.
type RenderContext struct {
	Definition Definition
	Options    []ColumnOptionKey
}

// HasOption reports whether a column option is selected for this render.
func (ctx RenderContext) HasOption(key ColumnOptionKey) bool {
	for _, opt := range ctx.Options {
		if opt == key {
			return true
		}
	}
	return false
}

// RenderCell resolves the column definition for key and computes the cell
// for one feature. Location supplies the active column options; it may be
// nil. A column without a registered renderer yields Empty, never an error.
func RenderCell(f feature.Feature, loc *url.URL, key ColumnKey) Cell {
	def, ok := Lookup(key)
	if !ok || def.Render == nil {
		return Empty
	}
	ctx := RenderContext{
		Definition: def,
		Options:    ColumnOptionsFromLocation(loc),
	}
	return def.Render(f, ctx)
}

func renderName(f feature.Feature, _ RenderContext) Cell {
	return Cell{
		Kind: CellText,
		Text: f.Name,
		Link: "/features/" + url.PathEscape(f.ID),
	}
}

func renderBaselineStatus(f feature.Feature, ctx RenderContext) Cell {
	cls, ok := baseline.Classify(f.Baseline, baseline.Options{
		ShowLowDate:  ctx.HasOption(OptionBaselineLowDate),
		ShowHighDate: ctx.HasOption(OptionBaselineHighDate),
	})
	if !ok {
		return Empty
	}
	return Cell{
		Kind:     CellBaseline,
		Text:     cls.Chip.Label,
		Baseline: &cls,
	}
}
