// Package feature defines the web-platform feature records consumed by the
// table renderers: Baseline availability, per-browser implementation state,
// and per-channel WPT test scores.
package feature

import (
	"fmt"
	"strings"
	"time"
)

// Browser identifies one of the tracked browser engines.
type Browser string

const (
	BrowserChrome  Browser = "chrome"
	BrowserEdge    Browser = "edge"
	BrowserFirefox Browser = "firefox"
	BrowserSafari  Browser = "safari"
)

// Browsers lists every tracked browser in display order.
func Browsers() []Browser {
	return []Browser{BrowserChrome, BrowserEdge, BrowserFirefox, BrowserSafari}
}

// Channel identifies a browser release track.
type Channel string

const (
	ChannelStable       Channel = "stable"
	ChannelExperimental Channel = "experimental"
)

// BaselineStatus is a feature's cross-browser availability tier.
type BaselineStatus string

const (
	BaselineLimited BaselineStatus = "limited"
	BaselineNewly   BaselineStatus = "newly"
	BaselineWidely  BaselineStatus = "widely"
)

// ParseBrowser resolves a browser token case-insensitively.
func ParseBrowser(raw string) (Browser, error) {
	switch Browser(strings.ToLower(strings.TrimSpace(raw))) {
	case BrowserChrome:
		return BrowserChrome, nil
	case BrowserEdge:
		return BrowserEdge, nil
	case BrowserFirefox:
		return BrowserFirefox, nil
	case BrowserSafari:
		return BrowserSafari, nil
	default:
		return "", fmt.Errorf("unknown browser %q (expected chrome, edge, firefox, or safari)", raw)
	}
}

// Baseline carries the availability tier plus the optional dates behind it.
// LowDate is when the feature became newly available across the core browser
// set; HighDate is when it became widely available.
type Baseline struct {
	Status   BaselineStatus `json:"status,omitempty"`
	LowDate  *time.Time     `json:"low_date,omitempty"`
	HighDate *time.Time     `json:"high_date,omitempty"`
}

// Implementation describes one browser's shipping state for a feature.
type Implementation struct {
	Status  ImplementationStatus `json:"status,omitempty"`
	Version string               `json:"version,omitempty"`
}

// ImplementationStatus is the shipping state of a feature in one browser.
type ImplementationStatus string

const (
	ImplementationAvailable   ImplementationStatus = "available"
	ImplementationUnavailable ImplementationStatus = "unavailable"
)

// ChannelScores holds per-channel WPT pass fractions in [0, 1]. A nil entry
// means no test data exists for that channel.
type ChannelScores struct {
	Stable       *float64 `json:"stable,omitempty"`
	Experimental *float64 `json:"experimental,omitempty"`
}

// Score returns the fraction for the requested channel, or nil.
func (c ChannelScores) Score(ch Channel) *float64 {
	if ch == ChannelExperimental {
		return c.Experimental
	}
	return c.Stable
}

// RunMetadata is the raw per-test-run metadata blob attached by the metrics
// pipeline. Only the "status" key is interpreted here.
type RunMetadata map[string]any

// Feature is one row of the comparative table. Records are supplied by the
// caller per render and never mutated by the rendering core.
type Feature struct {
	ID             string                     `json:"feature_id"`
	Name           string                     `json:"name"`
	SpecLinks      []string                   `json:"spec_links,omitempty"`
	Baseline       *Baseline                  `json:"baseline,omitempty"`
	Impl           map[Browser]Implementation `json:"browser_implementations,omitempty"`
	Scores         map[Browser]ChannelScores  `json:"wpt_scores,omitempty"`
	StableMetadata map[Browser]RunMetadata    `json:"stable_run_metadata,omitempty"`
}

// StableScore returns the stable-channel pass fraction for a browser, or nil.
func (f Feature) StableScore(b Browser) *float64 {
	return f.channelScore(b, ChannelStable)
}

// ExperimentalScore returns the experimental-channel pass fraction for a
// browser, or nil.
func (f Feature) ExperimentalScore(b Browser) *float64 {
	return f.channelScore(b, ChannelExperimental)
}

func (f Feature) channelScore(b Browser, ch Channel) *float64 {
	scores, ok := f.Scores[b]
	if !ok {
		return nil
	}
	return scores.Score(ch)
}

// ImplementationFor returns the shipping state recorded for a browser. The
// zero value means nothing is recorded.
func (f Feature) ImplementationFor(b Browser) Implementation {
	return f.Impl[b]
}
