package mapper

// spacingScale maps utility scale keys to pixel values, assuming the usual
// 16px root font size (1 unit = 0.25rem).
var spacingScale = []struct {
	Key string
	Px  float64
}{
	{"0", 0},
	{"px", 1},
	{"0.5", 2},
	{"1", 4},
	{"1.5", 6},
	{"2", 8},
	{"2.5", 10},
	{"3", 12},
	{"3.5", 14},
	{"4", 16},
	{"5", 20},
	{"6", 24},
	{"7", 28},
	{"8", 32},
	{"9", 36},
	{"10", 40},
	{"11", 44},
	{"12", 48},
	{"14", 56},
	{"16", 64},
	{"20", 80},
	{"24", 96},
	{"28", 112},
	{"32", 128},
	{"36", 144},
	{"40", 160},
	{"44", 176},
	{"48", 192},
	{"52", 208},
	{"56", 224},
	{"60", 240},
	{"64", 256},
	{"72", 288},
	{"80", 320},
	{"96", 384},
}

// fontSizeScale maps pixel font sizes to the type scale.
var fontSizeScale = []struct {
	Name string
	Px   float64
}{
	{"xs", 12},
	{"sm", 14},
	{"base", 16},
	{"lg", 18},
	{"xl", 20},
	{"2xl", 24},
	{"3xl", 30},
	{"4xl", 36},
	{"5xl", 48},
	{"6xl", 60},
	{"7xl", 72},
	{"8xl", 96},
	{"9xl", 128},
}

var fontWeights = map[string]string{
	"100":    "font-thin",
	"200":    "font-extralight",
	"300":    "font-light",
	"400":    "font-normal",
	"normal": "font-normal",
	"500":    "font-medium",
	"600":    "font-semibold",
	"700":    "font-bold",
	"bold":   "font-bold",
	"800":    "font-extrabold",
	"900":    "font-black",
}

var displayValues = map[string]string{
	"block":        "block",
	"inline-block": "inline-block",
	"inline":       "inline",
	"flex":         "flex",
	"inline-flex":  "inline-flex",
	"grid":         "grid",
	"inline-grid":  "inline-grid",
	"table":        "table",
	"none":         "hidden",
}

var positionValues = map[string]string{
	"static":   "static",
	"relative": "relative",
	"absolute": "absolute",
	"fixed":    "fixed",
	"sticky":   "sticky",
}

var textAlignValues = map[string]string{
	"left":    "text-left",
	"center":  "text-center",
	"right":   "text-right",
	"justify": "text-justify",
}

var flexDirectionValues = map[string]string{
	"row":            "flex-row",
	"row-reverse":    "flex-row-reverse",
	"column":         "flex-col",
	"column-reverse": "flex-col-reverse",
}

var justifyContentValues = map[string]string{
	"flex-start":    "justify-start",
	"start":         "justify-start",
	"center":        "justify-center",
	"flex-end":      "justify-end",
	"end":           "justify-end",
	"space-between": "justify-between",
	"space-around":  "justify-around",
	"space-evenly":  "justify-evenly",
}

var alignItemsValues = map[string]string{
	"flex-start": "items-start",
	"start":      "items-start",
	"center":     "items-center",
	"flex-end":   "items-end",
	"end":        "items-end",
	"stretch":    "items-stretch",
	"baseline":   "items-baseline",
}

var textTransformValues = map[string]string{
	"uppercase":  "uppercase",
	"lowercase":  "lowercase",
	"capitalize": "capitalize",
	"none":       "normal-case",
}

var textDecorationValues = map[string]string{
	"underline":    "underline",
	"line-through": "line-through",
	"overline":     "overline",
	"none":         "no-underline",
}

var overflowValues = map[string]string{
	"auto":    "auto",
	"hidden":  "hidden",
	"visible": "visible",
	"scroll":  "scroll",
}

var borderRadiusScale = []struct {
	Name string
	Px   float64
}{
	{"rounded-none", 0},
	{"rounded-sm", 2},
	{"rounded", 4},
	{"rounded-md", 6},
	{"rounded-lg", 8},
	{"rounded-xl", 12},
	{"rounded-2xl", 16},
	{"rounded-3xl", 24},
	{"rounded-full", 9999},
}

var lineHeightScale = []struct {
	Name  string
	Value float64
}{
	{"leading-none", 1},
	{"leading-tight", 1.25},
	{"leading-snug", 1.375},
	{"leading-normal", 1.5},
	{"leading-relaxed", 1.625},
	{"leading-loose", 2},
}

// fractionWidths maps percentage widths to fractional utilities.
var fractionWidths = []struct {
	Name    string
	Percent float64
}{
	{"1/4", 25},
	{"1/3", 33.333},
	{"1/2", 50},
	{"2/3", 66.667},
	{"3/4", 75},
	{"full", 100},
}

// namedColors maps CSS color keywords directly to palette tokens, so that
// e.g. "blue" converts to blue-500 rather than whichever palette entry is
// numerically nearest to #0000ff.
var namedColors = map[string]string{
	"white":       "white",
	"black":       "black",
	"gray":        "gray-500",
	"grey":        "gray-500",
	"red":         "red-500",
	"orange":      "orange-500",
	"yellow":      "yellow-500",
	"green":       "green-500",
	"teal":        "teal-500",
	"cyan":        "cyan-500",
	"blue":        "blue-500",
	"indigo":      "indigo-500",
	"violet":      "violet-500",
	"purple":      "purple-500",
	"pink":        "pink-500",
	"transparent": "transparent",
}

// palette holds the default color vocabulary, matched by RGB distance when a
// literal is not a known keyword.
var palette = []struct {
	Name string
	Hex  string
}{
	{"white", "#ffffff"},
	{"black", "#000000"},
	{"gray-100", "#f3f4f6"},
	{"gray-200", "#e5e7eb"},
	{"gray-300", "#d1d5db"},
	{"gray-400", "#9ca3af"},
	{"gray-500", "#6b7280"},
	{"gray-600", "#4b5563"},
	{"gray-700", "#374151"},
	{"gray-800", "#1f2937"},
	{"gray-900", "#111827"},
	{"red-100", "#fee2e2"},
	{"red-300", "#fca5a5"},
	{"red-500", "#ef4444"},
	{"red-700", "#b91c1c"},
	{"red-900", "#7f1d1d"},
	{"orange-500", "#f97316"},
	{"amber-500", "#f59e0b"},
	{"yellow-500", "#eab308"},
	{"green-100", "#dcfce7"},
	{"green-300", "#86efac"},
	{"green-500", "#22c55e"},
	{"green-700", "#15803d"},
	{"green-900", "#14532d"},
	{"teal-500", "#14b8a6"},
	{"cyan-500", "#06b6d4"},
	{"sky-500", "#0ea5e9"},
	{"blue-100", "#dbeafe"},
	{"blue-300", "#93c5fd"},
	{"blue-500", "#3b82f6"},
	{"blue-700", "#1d4ed8"},
	{"blue-900", "#1e3a8a"},
	{"indigo-500", "#6366f1"},
	{"violet-500", "#8b5cf6"},
	{"purple-500", "#a855f7"},
	{"pink-500", "#ec4899"},
	{"rose-500", "#f43f5e"},
}
