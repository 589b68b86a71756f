// Package ui renders the comparative feature table for terminal output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/webkattle/wft/internal/feature"
	"github.com/webkattle/wft/internal/table"
)

// TableConsoleOptions control terminal table rendering.
type TableConsoleOptions struct {
	Color bool
	Width int
}

// TableConsole writes an aligned feature table to a writer.
type TableConsole struct {
	out  io.Writer
	opts TableConsoleOptions
}

// NewTableConsole builds a console. A zero Width is resolved from the writer.
func NewTableConsole(out io.Writer, opts TableConsoleOptions) *TableConsole {
	if opts.Width <= 0 {
		opts.Width = ConsoleWidth(out)
	}
	return &TableConsole{out: out, opts: opts}
}

const (
	missingMarker       = "-"
	notApplicableMarker = "N/A"
	lowCoverageMarker   = "low coverage"
	crashedMarker       = "crashed"
)

// CellText flattens a rendered cell into its plain terminal text.
func CellText(cell table.Cell) string {
	switch cell.Kind {
	case table.CellEmpty:
		return ""
	case table.CellMissing:
		return missingMarker
	case table.CellNotApplicable:
		return notApplicableMarker
	case table.CellInsufficientCoverage:
		return lowCoverageMarker
	case table.CellCrashed:
		return crashedMarker
	case table.CellBaseline:
		return baselineText(cell)
	default:
		return cell.Text
	}
}

func baselineText(cell table.Cell) string {
	if cell.Baseline == nil {
		return cell.Text
	}
	parts := []string{cell.Baseline.Chip.Label}
	if line := cell.Baseline.LowDate; line != nil {
		parts = append(parts, fmt.Sprintf("%s %s", line.Label, line.Date))
	}
	if line := cell.Baseline.HighDate; line != nil {
		parts = append(parts, fmt.Sprintf("%s %s", line.Label, line.Date))
	}
	return strings.Join(parts, " · ")
}

// Render writes the header plus one line per row. Each row must have one
// cell per column.
func (c *TableConsole) Render(columns []table.ColumnKey, rows [][]table.Cell) error {
	headers := make([]string, len(columns))
	for i, col := range columns {
		def, ok := table.Lookup(col)
		if !ok {
			continue
		}
		headers[i] = def.Header
	}
	texts := make([][]string, len(rows))
	widths := make([]int, len(columns))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for r, row := range rows {
		texts[r] = make([]string, len(columns))
		for i := range columns {
			if i >= len(row) {
				continue
			}
			text := CellText(row[i])
			texts[r][i] = text
			if w := runewidth.StringWidth(text); w > widths[i] {
				widths[i] = w
			}
		}
	}
	c.clampWidths(widths)
	if err := c.writeLine(headers, widths, nil); err != nil {
		return err
	}
	rule := make([]string, len(columns))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	if err := c.writeLine(rule, widths, nil); err != nil {
		return err
	}
	for r, row := range texts {
		if err := c.writeLine(row, widths, rows[r]); err != nil {
			return err
		}
	}
	return nil
}

const columnGap = 2

// clampWidths shrinks the widest column until the table fits the terminal.
func (c *TableConsole) clampWidths(widths []int) {
	if c.opts.Width <= 0 {
		return
	}
	for {
		total := columnGap * (len(widths) - 1)
		for _, w := range widths {
			total += w
		}
		if total <= c.opts.Width {
			return
		}
		widest := 0
		for i := 1; i < len(widths); i++ {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 8 {
			return
		}
		widths[widest]--
	}
}

func (c *TableConsole) writeLine(cells []string, widths []int, rendered []table.Cell) error {
	var b strings.Builder
	for i, text := range cells {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", columnGap))
		}
		text = runewidth.Truncate(text, widths[i], "…")
		padded := text + strings.Repeat(" ", widths[i]-runewidth.StringWidth(text))
		if c.opts.Color && rendered != nil && i < len(rendered) {
			padded = c.colorize(rendered[i], padded)
		}
		b.WriteString(padded)
	}
	_, err := fmt.Fprintln(c.out, strings.TrimRight(b.String(), " "))
	return err
}

func (c *TableConsole) colorize(cell table.Cell, text string) string {
	switch cell.Kind {
	case table.CellCrashed:
		return color.New(color.FgRed, color.Bold).Sprint(text)
	case table.CellInsufficientCoverage, table.CellNotApplicable:
		return color.New(color.FgHiBlack).Sprint(text)
	case table.CellBaseline:
		if cell.Baseline == nil {
			return text
		}
		switch feature.BaselineStatus(cell.Baseline.Chip.Class) {
		case feature.BaselineWidely:
			return color.New(color.FgGreen).Sprint(text)
		case feature.BaselineNewly:
			return color.New(color.FgCyan).Sprint(text)
		case feature.BaselineLimited:
			return color.New(color.FgYellow).Sprint(text)
		}
		return text
	case table.CellScore:
		return colorizeScore(cell.Text, text)
	default:
		return text
	}
}

// colorizeScore bands the percentage text the way the diag scorecard bands
// check scores: green at 90+, yellow at 75+, red below.
func colorizeScore(pct, text string) string {
	trimmed := strings.TrimSuffix(pct, "%")
	var value float64
	if _, err := fmt.Sscanf(trimmed, "%f", &value); err != nil {
		return text
	}
	switch {
	case value >= 90:
		return color.New(color.FgGreen).Sprint(text)
	case value >= 75:
		return color.New(color.FgYellow).Sprint(text)
	default:
		return color.New(color.FgRed).Sprint(text)
	}
}
