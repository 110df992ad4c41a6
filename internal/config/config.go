// Package config holds the caller-owned conversion configuration. There is
// no process-wide state: callers construct a Config (from defaults, a JSONC
// file, or a YAML file) and pass it down explicitly.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"utilify.dev/utilify/internal/breakpoint"
)

// ConfigFileNames are the file names probed, in order, when no explicit
// config path is given.
var ConfigFileNames = []string{
	"utilify.config.json",
	"utilify.config.jsonc",
	".utilify.yaml",
	".utilify.yml",
}

// BreakpointSpec is one configured responsive breakpoint.
type BreakpointSpec struct {
	Name       string  `json:"name" yaml:"name"`
	MinWidthPx float64 `json:"minWidthPx" yaml:"minWidthPx"`
}

// TokenFileSpec points at a DTCG design-token file whose tokens seed the
// variable registry as global custom-property definitions.
type TokenFileSpec struct {
	// Path to the token file, absolute or relative to the workspace root.
	Path string `json:"path" yaml:"path"`

	// Prefix for CSS variable names derived from this file.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// Config is the full conversion configuration.
type Config struct {
	// Breakpoints is the responsive breakpoint table. Empty means the
	// default five-breakpoint table.
	Breakpoints []BreakpointSpec `json:"breakpoints" yaml:"breakpoints"`

	// BreakpointTolerance is the relative distance within which a min-width
	// snaps to the nearest breakpoint.
	BreakpointTolerance float64 `json:"breakpointTolerance" yaml:"breakpointTolerance"`

	// SpacingTolerance is the relative distance within which a length snaps
	// to the nearest spacing-scale entry.
	SpacingTolerance float64 `json:"spacingTolerance" yaml:"spacingTolerance"`

	// Include are doublestar glob patterns selecting source files.
	Include []string `json:"include" yaml:"include"`

	// Exclude are doublestar glob patterns removing files from the set.
	Exclude []string `json:"exclude" yaml:"exclude"`

	// TokensFiles seed the variable registry before any CSS is read.
	TokensFiles []TokenFileSpec `json:"tokensFiles" yaml:"tokensFiles"`

	// Backup controls whether rewritten files get a .bak copy first.
	Backup bool `json:"backup" yaml:"backup"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Breakpoints: []BreakpointSpec{
			{Name: "sm", MinWidthPx: 640},
			{Name: "md", MinWidthPx: 768},
			{Name: "lg", MinWidthPx: 1024},
			{Name: "xl", MinWidthPx: 1280},
			{Name: "2xl", MinWidthPx: 1536},
		},
		BreakpointTolerance: breakpoint.DefaultTolerance,
		SpacingTolerance:    0.20,
		Include: []string{
			"**/*.css",
			"**/*.html",
			"**/*.htm",
			"**/*.js",
		},
		Exclude: []string{
			"**/node_modules/**",
			"**/*.min.css",
			"**/*.min.js",
		},
		Backup: true,
	}
}

// BreakpointTable builds the breakpoint table for this configuration.
func (c Config) BreakpointTable() *breakpoint.Table {
	entries := make([]breakpoint.Breakpoint, 0, len(c.Breakpoints))
	for _, spec := range c.Breakpoints {
		entries = append(entries, breakpoint.Breakpoint{Name: spec.Name, MinWidthPx: spec.MinWidthPx})
	}
	if len(entries) == 0 {
		return breakpoint.Default()
	}
	return breakpoint.NewTable(entries, c.BreakpointTolerance)
}

// Load reads a configuration file and merges it over the defaults. JSON
// files may contain comments (JSONC); YAML files use the same field names.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	loaded := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &loaded); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", path)
	}

	// Unmarshaling over the defaults keeps unset fields; only explicitly
	// emptied slices need restoring.
	defaults := Default()
	if loaded.Breakpoints == nil {
		loaded.Breakpoints = defaults.Breakpoints
	}
	if loaded.Include == nil {
		loaded.Include = defaults.Include
	}
	if loaded.Exclude == nil {
		loaded.Exclude = defaults.Exclude
	}
	if loaded.BreakpointTolerance <= 0 {
		loaded.BreakpointTolerance = defaults.BreakpointTolerance
	}
	if loaded.SpacingTolerance <= 0 {
		loaded.SpacingTolerance = defaults.SpacingTolerance
	}
	return loaded, nil
}

// Discover probes root for a config file, returning its path when found.
func Discover(root string) (string, bool) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
