// Package mapper converts resolved CSS declarations into utility class
// tokens. Conversion is a pure function of (property, value): the same
// inputs always produce the same tokens and warnings.
package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// DefaultSpacingTolerance is the maximum relative distance between a pixel
// value and the closest spacing-scale entry for the match to be accepted.
// Like the breakpoint tolerance, the value is empirical and preserved from
// the original tool rather than re-derived.
const DefaultSpacingTolerance = 0.20

// colorDistanceLimit bounds how far (in RGB space, components 0..1) a color
// literal may sit from the nearest palette entry before it is reported as
// unmappable.
const colorDistanceLimit = 0.35

// dynamicFunctions are value functions that cannot be statically resolved.
var dynamicFunctions = []string{
	"calc(", "var(", "url(", "env(", "attr(", "min(", "max(", "clamp(", "counter(",
}

// Mapper converts declarations using the built-in scales and palette.
type Mapper struct {
	spacingTolerance float64
}

// New creates a mapper. A non-positive tolerance falls back to
// DefaultSpacingTolerance.
func New(spacingTolerance float64) *Mapper {
	if spacingTolerance <= 0 {
		spacingTolerance = DefaultSpacingTolerance
	}
	return &Mapper{spacingTolerance: spacingTolerance}
}

// Convert maps one declaration to zero or more utility tokens. Shorthand
// properties may expand to several tokens. A declaration that cannot be
// mapped yields no tokens and at least one warning.
func (m *Mapper) Convert(property, value string) (tokens []string, warnings []string) {
	prop := strings.ToLower(strings.TrimSpace(property))
	val := strings.TrimSpace(value)
	if val == "" {
		return nil, []string{fmt.Sprintf("empty value for %s", prop)}
	}
	lower := strings.ToLower(val)
	for _, fn := range dynamicFunctions {
		if strings.Contains(lower, fn) {
			return nil, []string{fmt.Sprintf("dynamic value for %s: %s", prop, val)}
		}
	}

	switch prop {
	case "display":
		return m.lookup(prop, lower, displayValues)
	case "position":
		return m.lookup(prop, lower, positionValues)
	case "text-align":
		return m.lookup(prop, lower, textAlignValues)
	case "flex-direction":
		return m.lookup(prop, lower, flexDirectionValues)
	case "justify-content":
		return m.lookup(prop, lower, justifyContentValues)
	case "align-items":
		return m.lookup(prop, lower, alignItemsValues)
	case "text-transform":
		return m.lookup(prop, lower, textTransformValues)
	case "text-decoration", "text-decoration-line":
		return m.lookup(prop, lower, textDecorationValues)
	case "font-weight":
		return m.lookup(prop, lower, fontWeights)
	case "font-style":
		switch lower {
		case "italic":
			return []string{"italic"}, nil
		case "normal":
			return []string{"not-italic"}, nil
		}
		return nil, []string{unmappable(prop, val)}
	case "font-size":
		return m.fontSize(val)
	case "line-height":
		return m.lineHeight(val)
	case "border-radius":
		return m.borderRadius(val)
	case "overflow", "overflow-x", "overflow-y":
		return m.overflow(prop, lower)
	case "color":
		return m.color("text", val)
	case "background-color":
		return m.color("bg", val)
	case "border-color":
		return m.color("border", val)
	case "margin", "padding":
		return m.boxShorthand(prop, val)
	case "margin-top", "margin-right", "margin-bottom", "margin-left",
		"padding-top", "padding-right", "padding-bottom", "padding-left":
		return m.boxSide(prop, val)
	case "gap":
		return m.spacingToken("gap", val, false)
	case "row-gap":
		return m.spacingToken("gap-y", val, false)
	case "column-gap":
		return m.spacingToken("gap-x", val, false)
	case "width":
		return m.dimension("w", val)
	case "height":
		return m.dimension("h", val)
	case "max-width":
		return m.dimension("max-w", val)
	case "min-width":
		return m.dimension("min-w", val)
	case "opacity":
		return m.opacity(val)
	}
	return nil, []string{fmt.Sprintf("unsupported property: %s", prop)}
}

func unmappable(prop, val string) string {
	return fmt.Sprintf("no utility for %s: %s", prop, val)
}

func (m *Mapper) lookup(prop, val string, table map[string]string) ([]string, []string) {
	if token, ok := table[val]; ok {
		return []string{token}, nil
	}
	return nil, []string{unmappable(prop, val)}
}

func (m *Mapper) overflow(prop, val string) ([]string, []string) {
	suffix, ok := overflowValues[val]
	if !ok {
		return nil, []string{unmappable(prop, val)}
	}
	switch prop {
	case "overflow-x":
		return []string{"overflow-x-" + suffix}, nil
	case "overflow-y":
		return []string{"overflow-y-" + suffix}, nil
	}
	return []string{"overflow-" + suffix}, nil
}

// parsePx normalizes a length literal to pixels. em and rem assume the usual
// 16px root font size.
func parsePx(value string) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "0":
		return 0, true
	case strings.HasSuffix(v, "px"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
		return n, err == nil
	case strings.HasSuffix(v, "rem"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "rem"), 64)
		return n * 16, err == nil
	case strings.HasSuffix(v, "em"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "em"), 64)
		return n * 16, err == nil
	}
	return 0, false
}

// spacingKey finds the scale key for a pixel value: exact match first, then
// the nearest entry within the relative tolerance.
func (m *Mapper) spacingKey(px float64) (string, bool) {
	abs := math.Abs(px)
	bestIdx := -1
	bestDist := math.MaxFloat64
	for i, entry := range spacingScale {
		d := math.Abs(abs - entry.Px)
		if d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestIdx < 0 {
		return "", false
	}
	if bestDist == 0 {
		return spacingScale[bestIdx].Key, true
	}
	if abs > 0 && bestDist/abs <= m.spacingTolerance {
		return spacingScale[bestIdx].Key, true
	}
	return "", false
}

func (m *Mapper) spacingToken(prefix, val string, allowNegative bool) ([]string, []string) {
	px, ok := parsePx(val)
	if !ok {
		if strings.ToLower(val) == "auto" && allowNegative {
			return []string{prefix + "-auto"}, nil
		}
		return nil, []string{unmappable(prefix, val)}
	}
	key, ok := m.spacingKey(px)
	if !ok {
		return nil, []string{fmt.Sprintf("no spacing scale entry near %s for %s", val, prefix)}
	}
	if px < 0 {
		if !allowNegative {
			return nil, []string{fmt.Sprintf("negative value for %s: %s", prefix, val)}
		}
		return []string{"-" + prefix + "-" + key}, nil
	}
	return []string{prefix + "-" + key}, nil
}

// boxSide converts one longhand margin/padding side.
func (m *Mapper) boxSide(prop, val string) ([]string, []string) {
	family, side, _ := strings.Cut(prop, "-")
	prefix := string(family[0]) + string(side[0])
	return m.spacingToken(prefix, val, family == "margin")
}

// boxShorthand expands 1-4 value margin/padding shorthands to side tokens,
// collapsing equal axes to the my/mx (py/px) forms.
func (m *Mapper) boxShorthand(prop, val string) ([]string, []string) {
	p := string(prop[0])
	parts := strings.Fields(val)
	isMargin := prop == "margin"
	if isMargin && len(parts) == 1 && strings.ToLower(parts[0]) == "auto" {
		return []string{p + "-auto"}, nil
	}

	one := func(prefix, v string) ([]string, []string) {
		return m.spacingToken(prefix, v, isMargin)
	}

	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		return one(p, parts[0])
	case 2:
		top, right = parts[0], parts[1]
		tks, warns := one(p+"y", top)
		tks2, warns2 := one(p+"x", right)
		return append(tks, tks2...), append(warns, warns2...)
	case 3:
		top, right, bottom = parts[0], parts[1], parts[2]
		tks, warns := one(p+"t", top)
		tks2, warns2 := one(p+"x", right)
		tks3, warns3 := one(p+"b", bottom)
		return append(append(tks, tks2...), tks3...), append(append(warns, warns2...), warns3...)
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
		var tokens, warnings []string
		for _, pair := range []struct{ prefix, value string }{
			{p + "t", top}, {p + "r", right}, {p + "b", bottom}, {p + "l", left},
		} {
			tks, warns := one(pair.prefix, pair.value)
			tokens = append(tokens, tks...)
			warnings = append(warnings, warns...)
		}
		return tokens, warnings
	}
	return nil, []string{unmappable(prop, val)}
}

func (m *Mapper) fontSize(val string) ([]string, []string) {
	px, ok := parsePx(val)
	if !ok {
		return nil, []string{unmappable("font-size", val)}
	}
	bestIdx := -1
	bestDist := math.MaxFloat64
	for i, entry := range fontSizeScale {
		d := math.Abs(px - entry.Px)
		if d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestDist == 0 || (px > 0 && bestDist/px <= m.spacingTolerance) {
		return []string{"text-" + fontSizeScale[bestIdx].Name}, nil
	}
	return nil, []string{fmt.Sprintf("no type scale entry near %s", val)}
}

func (m *Mapper) lineHeight(val string) ([]string, []string) {
	lower := strings.ToLower(val)
	if lower == "normal" {
		return []string{"leading-normal"}, nil
	}
	n, err := strconv.ParseFloat(lower, 64)
	if err != nil {
		// Length-valued line heights are not on the unitless scale.
		return nil, []string{unmappable("line-height", val)}
	}
	for _, entry := range lineHeightScale {
		if math.Abs(n-entry.Value) < 0.01 {
			return []string{entry.Name}, nil
		}
	}
	return nil, []string{unmappable("line-height", val)}
}

func (m *Mapper) borderRadius(val string) ([]string, []string) {
	if strings.ToLower(val) == "50%" {
		return []string{"rounded-full"}, nil
	}
	px, ok := parsePx(val)
	if !ok {
		return nil, []string{unmappable("border-radius", val)}
	}
	bestIdx := -1
	bestDist := math.MaxFloat64
	for i, entry := range borderRadiusScale {
		d := math.Abs(px - entry.Px)
		if d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestDist == 0 || (px > 0 && bestDist/px <= m.spacingTolerance) {
		return []string{borderRadiusScale[bestIdx].Name}, nil
	}
	return nil, []string{unmappable("border-radius", val)}
}

func (m *Mapper) dimension(prefix, val string) ([]string, []string) {
	lower := strings.ToLower(strings.TrimSpace(val))
	switch lower {
	case "auto":
		return []string{prefix + "-auto"}, nil
	case "100vw":
		if prefix == "w" {
			return []string{"w-screen"}, nil
		}
	case "100vh":
		if prefix == "h" {
			return []string{"h-screen"}, nil
		}
	}
	if strings.HasSuffix(lower, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(lower, "%"), 64)
		if err != nil {
			return nil, []string{unmappable(prefix, val)}
		}
		for _, f := range fractionWidths {
			if math.Abs(pct-f.Percent) < 0.5 {
				return []string{prefix + "-" + f.Name}, nil
			}
		}
		return nil, []string{unmappable(prefix, val)}
	}
	return m.spacingToken(prefix, val, false)
}

func (m *Mapper) opacity(val string) ([]string, []string) {
	n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil || n < 0 || n > 1 {
		return nil, []string{unmappable("opacity", val)}
	}
	// Steps of 5, matching the opacity utility scale.
	step := math.Round(n * 20) * 5
	return []string{fmt.Sprintf("opacity-%d", int(step))}, nil
}

// color maps a color literal to "<prefix>-<palette entry>": CSS keywords go
// through the named table, everything else is parsed and matched to the
// nearest palette entry by RGB distance.
func (m *Mapper) color(prefix, val string) ([]string, []string) {
	lower := strings.ToLower(strings.TrimSpace(val))
	if name, ok := namedColors[lower]; ok {
		return []string{prefix + "-" + name}, nil
	}

	parsed, err := csscolorparser.Parse(val)
	if err != nil {
		return nil, []string{fmt.Sprintf("unparseable color for %s: %s", prefix, val)}
	}

	bestName := ""
	bestDist := math.MaxFloat64
	for _, entry := range palette {
		c, err := csscolorparser.Parse(entry.Hex)
		if err != nil {
			continue
		}
		d := colorDistance(parsed, c)
		if d < bestDist {
			bestName, bestDist = entry.Name, d
		}
	}
	if bestName == "" || bestDist > colorDistanceLimit {
		return nil, []string{fmt.Sprintf("no palette match for %s: %s", prefix, val)}
	}
	return []string{prefix + "-" + bestName}, nil
}

func colorDistance(a, b csscolorparser.Color) float64 {
	dr := a.R - b.R
	dg := a.G - b.G
	db := a.B - b.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
