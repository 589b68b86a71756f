package table

import (
	"strconv"
	"strings"

	"github.com/webkattle/wft/internal/feature"
)

// tc39Prefix marks specification links of TC39-tracked JavaScript features,
// which are outside WPT's scope.
const tc39Prefix = "https://tc39.es/"

// crashedRunStatus is the literal status value the metrics pipeline writes
// into run metadata when a test run crashed.
const crashedRunStatus = "C"

// lowCoverageFeatureIDs are features whose WPT suites are known to cover too
// little of the surface for a pass percentage to mean anything.
var lowCoverageFeatureIDs = map[string]struct{}{
	"speculation-rules": {},
	"view-transitions":  {},
	"webgpu":            {},
}

// stableOverrides are the special cases of the stable-channel quality cell,
// in precedence order: the first matching rule decides the cell kind and no
// later rule is consulted. Keeping the chain as data keeps the precedence
// auditable.
var stableOverrides = []struct {
	applies func(f feature.Feature, b feature.Browser) bool
	kind    CellKind
}{
	{applies: didFeatureCrash, kind: CellCrashed},
	{applies: func(f feature.Feature, _ feature.Browser) bool { return hasInsufficientCoverage(f.ID) }, kind: CellInsufficientCoverage},
	{applies: func(f feature.Feature, _ feature.Browser) bool { return isJavaScriptFeature(f.SpecLinks) }, kind: CellNotApplicable},
	{applies: isImplementationUnavailable, kind: CellMissing},
}

func renderStableQuality(f feature.Feature, ctx RenderContext) Cell {
	browser, _ := ctx.Definition.BrowserChannel()
	for _, rule := range stableOverrides {
		if rule.applies(f, browser) {
			return Cell{Kind: rule.kind}
		}
	}
	return scoreCell(f.StableScore(browser))
}

// renderExperimentalQuality shows the raw percentage only; none of the
// stable-channel overrides apply to the experimental track.
func renderExperimentalQuality(f feature.Feature, ctx RenderContext) Cell {
	browser, _ := ctx.Definition.BrowserChannel()
	return scoreCell(f.ExperimentalScore(browser))
}

func scoreCell(score *float64) Cell {
	if score == nil {
		return Cell{Kind: CellMissing}
	}
	return Cell{Kind: CellScore, Text: FormatScore(*score)}
}

// FormatScore renders a pass fraction as a percentage with one decimal
// place. An exact 100.0 after rounding collapses to "100" with no decimal.
func FormatScore(score float64) string {
	text := strconv.FormatFloat(score*100, 'f', 1, 64)
	if text == "100.0" {
		return "100%"
	}
	return text + "%"
}

func isImplementationUnavailable(f feature.Feature, b feature.Browser) bool {
	return f.ImplementationFor(b).Status == feature.ImplementationUnavailable
}

// isJavaScriptFeature reports whether any specification link identifies the
// feature as a TC39 proposal.
func isJavaScriptFeature(specLinks []string) bool {
	for _, link := range specLinks {
		if strings.HasPrefix(link, tc39Prefix) {
			return true
		}
	}
	return false
}

func hasInsufficientCoverage(featureID string) bool {
	_, ok := lowCoverageFeatureIDs[featureID]
	return ok
}

// didFeatureCrash reports whether the stable run metadata for a browser
// marks the run as crashed: metadata present, "status" key present, value
// exactly "C".
func didFeatureCrash(f feature.Feature, b feature.Browser) bool {
	md, ok := f.StableMetadata[b]
	if !ok || md == nil {
		return false
	}
	status, ok := md["status"]
	if !ok {
		return false
	}
	return status == crashedRunStatus
}
