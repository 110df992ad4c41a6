// Package breakpoint maps min-width media conditions to named responsive
// variants from a sorted breakpoint table.
package breakpoint

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DefaultTolerance is the maximum relative distance between a queried
// min-width and the closest breakpoint for the match to be accepted. The
// value is empirical and deliberately preserved from the original tool.
const DefaultTolerance = 0.05

// Breakpoint names one responsive variant and its minimum viewport width.
type Breakpoint struct {
	Name       string
	MinWidthPx float64
}

// Table is a sorted, immutable breakpoint table. Build one per configuration;
// there is no process-wide cache.
type Table struct {
	entries   []Breakpoint
	tolerance float64
}

// NewTable builds a table from the given breakpoints, sorted by width
// ascending. A non-positive tolerance falls back to DefaultTolerance.
func NewTable(entries []Breakpoint, tolerance float64) *Table {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	sorted := make([]Breakpoint, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinWidthPx < sorted[j].MinWidthPx
	})
	return &Table{entries: sorted, tolerance: tolerance}
}

// Default returns the standard five-breakpoint table.
func Default() *Table {
	return NewTable([]Breakpoint{
		{Name: "sm", MinWidthPx: 640},
		{Name: "md", MinWidthPx: 768},
		{Name: "lg", MinWidthPx: 1024},
		{Name: "xl", MinWidthPx: 1280},
		{Name: "2xl", MinWidthPx: 1536},
	}, 0)
}

// Entries returns the breakpoints in width order.
func (t *Table) Entries() []Breakpoint {
	return t.entries
}

// WidthOf returns the width of a named breakpoint.
func (t *Table) WidthOf(name string) (float64, bool) {
	for _, bp := range t.entries {
		if bp.Name == name {
			return bp.MinWidthPx, true
		}
	}
	return 0, false
}

// IsBreakpoint reports whether name is a known responsive variant.
func (t *Table) IsBreakpoint(name string) bool {
	_, ok := t.WidthOf(name)
	return ok
}

// Resolve maps a min-width value in pixels to a breakpoint name. An exact
// match wins; otherwise the closest breakpoint by absolute distance is
// accepted only when its relative distance is within the table's tolerance.
func (t *Table) Resolve(px float64) (string, error) {
	if len(t.entries) == 0 {
		return "", fmt.Errorf("empty breakpoint table")
	}
	best := t.entries[0]
	bestDist := math.Abs(px - best.MinWidthPx)
	for _, bp := range t.entries[1:] {
		if d := math.Abs(px - bp.MinWidthPx); d < bestDist {
			best, bestDist = bp, d
		}
	}
	if bestDist == 0 {
		return best.Name, nil
	}
	if px > 0 && bestDist/px <= t.tolerance {
		return best.Name, nil
	}
	return "", fmt.Errorf("no matching breakpoint for min-width %gpx", px)
}

// ResolveCondition parses a media query condition like "(min-width: 768px)"
// and resolves it to a breakpoint name. Any condition that is not a single
// min-width expression is unsupported.
func (t *Table) ResolveCondition(condition string) (string, error) {
	cond := strings.TrimSpace(condition)
	lower := strings.ToLower(cond)
	if strings.Contains(lower, " and ") || strings.Contains(lower, " or ") || strings.Contains(lower, ",") {
		return "", fmt.Errorf("unsupported compound media condition: %s", cond)
	}
	cond = strings.TrimPrefix(cond, "(")
	cond = strings.TrimSuffix(cond, ")")
	name, value, found := strings.Cut(cond, ":")
	if !found {
		return "", fmt.Errorf("unsupported media condition: %s", condition)
	}
	if strings.ToLower(strings.TrimSpace(name)) != "min-width" {
		return "", fmt.Errorf("unsupported media condition: %s", condition)
	}

	px, err := parsePixels(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("unsupported min-width value %q: %w", strings.TrimSpace(value), err)
	}
	return t.Resolve(px)
}

// parsePixels normalizes a width literal to pixels. em and rem assume the
// usual 16px root font size.
func parsePixels(value string) (float64, error) {
	v := strings.ToLower(value)
	switch {
	case strings.HasSuffix(v, "px"):
		return strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	case strings.HasSuffix(v, "rem"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "rem"), 64)
		return n * 16, err
	case strings.HasSuffix(v, "em"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "em"), 64)
		return n * 16, err
	}
	return strconv.ParseFloat(v, 64)
}
