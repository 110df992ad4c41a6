// Package workspace discovers source files under a root directory and runs
// the conversion engine over them: CSS files are rewritten in place, HTML
// files get both their embedded styles converted and their markup reclassed,
// and JS files with css-tagged templates are reported without modification.
package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"utilify.dev/utilify/internal/config"
	"utilify.dev/utilify/internal/engine"
	"utilify.dev/utilify/internal/log"
	"utilify.dev/utilify/internal/parser/html"
	"utilify.dev/utilify/internal/parser/js"
	"utilify.dev/utilify/internal/registry"
	"utilify.dev/utilify/internal/rewrite"
	"utilify.dev/utilify/internal/tokens"
)

// Summary aggregates the results of one workspace run.
type Summary struct {
	FilesScanned   int
	FilesChanged   int
	RulesConverted int
	RulesPartial   int
	RulesSkipped   int

	// EmptyFiles lists CSS files whose content converted away entirely;
	// they are left in place as whitespace for the caller to delete.
	EmptyFiles []string

	// Warnings collects every non-fatal problem across all files.
	Warnings []string

	// TokensSeeded is the number of design-token definitions registered
	// before scanning.
	TokensSeeded int
}

// Runner converts one workspace. Files are processed strictly one at a
// time, in sorted path order, against a single shared variable registry.
type Runner struct {
	root string
	cfg  config.Config
	reg  *registry.Registry
	eng  *engine.Engine

	// Out receives preview diffs and the run report. Defaults to stdout.
	Out io.Writer

	// Preview suppresses all writes; changes are shown as unified diffs.
	Preview bool
}

// New creates a runner rooted at dir.
func New(dir string, cfg config.Config) *Runner {
	reg := registry.New()
	return &Runner{
		root: dir,
		cfg:  cfg,
		reg:  reg,
		eng:  engine.New(cfg, engine.WithSharedRegistry(reg)),
		Out:  os.Stdout,
	}
}

// Run executes the full conversion: seed tokens, discover files, collect
// variables across every file in order, then convert file by file.
func (r *Runner) Run() (*Summary, error) {
	summary := &Summary{}

	if err := r.seedTokens(summary); err != nil {
		return nil, err
	}

	files, err := r.discover()
	if err != nil {
		return nil, err
	}
	summary.FilesScanned = len(files)
	log.Info("scanning %d files under %s", len(files), r.root)

	// Variable collection happens across the whole workspace before any
	// conversion, so definitions in later files are visible to references
	// in earlier ones.
	for _, path := range files {
		if err := r.collectFile(path, summary); err != nil {
			return nil, err
		}
	}

	for _, path := range files {
		if err := r.convertFile(path, summary); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// seedTokens registers every configured design-token file before scanning.
func (r *Runner) seedTokens(summary *Summary) error {
	for _, spec := range r.cfg.TokensFiles {
		path := spec.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.root, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading token file: %w", err)
		}
		n, err := tokens.Seed(r.reg, data, spec.Prefix)
		if err != nil {
			return fmt.Errorf("%s: %w", spec.Path, err)
		}
		summary.TokensSeeded += n
		log.Debug("seeded %d tokens from %s", n, spec.Path)
	}
	return nil
}

// discover walks the root applying the include and exclude glob patterns.
// Results are relative paths in sorted order.
func (r *Runner) discover() ([]string, error) {
	var files []string
	err := filepath.WalkDir(r.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchAny(r.cfg.Include, rel) || matchAny(r.cfg.Exclude, rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("workspace walk failed: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// collectFile registers the custom-property definitions of one file.
func (r *Runner) collectFile(rel string, summary *Summary) error {
	path := filepath.Join(r.root, rel)
	switch strings.ToLower(filepath.Ext(rel)) {
	case ".css":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := r.eng.CollectVariables(string(data)); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: %v", rel, err))
		}
	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		parser := html.AcquireParser()
		defer html.ReleaseParser(parser)
		doc, err := parser.Parse(string(data))
		if err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: %v", rel, err))
			return nil
		}
		for _, style := range doc.Styles {
			if err := r.eng.CollectVariables(style.Text); err != nil {
				summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: %v", rel, err))
			}
		}
	}
	return nil
}

// convertFile converts one file according to its type.
func (r *Runner) convertFile(rel string, summary *Summary) error {
	path := filepath.Join(r.root, rel)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	original := string(data)

	var updated string
	switch strings.ToLower(filepath.Ext(rel)) {
	case ".css":
		updated, err = r.convertCSS(rel, original, summary)
	case ".html", ".htm":
		updated, err = r.convertHTML(rel, original, summary)
	case ".js", ".mjs", ".cjs":
		r.reportJS(rel, original, summary)
		return nil
	default:
		return nil
	}
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: %v", rel, err))
		return nil
	}
	if updated == original {
		return nil
	}
	summary.FilesChanged++

	if r.Preview {
		return r.printDiff(rel, original, updated)
	}
	if r.cfg.Backup {
		if err := os.WriteFile(path+".bak", data, 0o644); err != nil {
			return fmt.Errorf("writing backup: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	log.Info("rewrote %s", rel)
	return nil
}

// convertCSS runs the engine over one stylesheet file.
func (r *Runner) convertCSS(rel, source string, summary *Summary) (string, error) {
	result, err := r.eng.ConvertStylesheet(source)
	if err != nil {
		return "", err
	}
	r.tally(rel, result, summary)
	if result.Empty {
		summary.EmptyFiles = append(summary.EmptyFiles, rel)
	}
	return result.Output, nil
}

// convertHTML converts each embedded style region and reclasses the markup
// from the converted rules, in one splice over the document.
func (r *Runner) convertHTML(rel, source string, summary *Summary) (string, error) {
	parser := html.AcquireParser()
	defer html.ReleaseParser(parser)

	doc, err := parser.Parse(source)
	if err != nil {
		return "", err
	}

	var edits []rewrite.Edit
	var rules []rewrite.ClassRule
	for _, style := range doc.Styles {
		result, err := r.eng.ConvertStylesheet(style.Text)
		if err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: %v", rel, err))
			continue
		}
		r.tally(rel, result, summary)
		for _, outcome := range result.Outcomes {
			if len(outcome.ConvertedTokens) == 0 {
				continue
			}
			rules = append(rules, rewrite.ClassRule{Parsed: outcome.Parsed, Tokens: outcome.ConvertedTokens})
		}
		if result.Output != style.Text {
			edits = append(edits, rewrite.Edit{Span: style.Span, Text: result.Output})
		}
	}

	classEdits, touched := rewrite.ClassEdits(doc, rules)
	edits = append(edits, classEdits...)
	if touched > 0 {
		log.Debug("%s: reclassed %d elements", rel, touched)
	}
	return rewrite.Splice(source, edits), nil
}

// reportJS scans css-tagged template literals and reports what a conversion
// would do. JS sources are never modified; template interpolation makes
// in-place rewriting unsafe.
func (r *Runner) reportJS(rel, source string, summary *Summary) {
	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)

	regions, err := parser.CSSRegions(source)
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: %v", rel, err))
		return
	}
	for _, region := range regions {
		result, err := r.eng.ConvertStylesheet(region.Text)
		if err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: %v", rel, err))
			continue
		}
		for _, outcome := range result.Outcomes {
			if len(outcome.ConvertedTokens) == 0 {
				continue
			}
			fmt.Fprintf(r.Out, "%s: %s -> %s (manual)\n", rel, outcome.Selector, strings.Join(outcome.ConvertedTokens, " "))
		}
	}
}

// tally folds one stylesheet result into the run summary.
func (r *Runner) tally(rel string, result *engine.Result, summary *Summary) {
	for _, warning := range result.Warnings {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: %s", rel, warning))
	}
	for _, outcome := range result.Outcomes {
		switch {
		case outcome.FullyConverted:
			summary.RulesConverted++
		case outcome.PartiallyConverted:
			summary.RulesPartial++
		default:
			summary.RulesSkipped++
		}
	}
}

// printDiff writes a colored unified diff of one file's pending change.
func (r *Runner) printDiff(rel, before, after string) error {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: rel,
		ToFile:   rel,
		Context:  3,
	})
	if err != nil {
		return err
	}
	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	head := color.New(color.FgCyan)
	for _, line := range strings.SplitAfter(text, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			head.Fprint(r.Out, line)
		case strings.HasPrefix(line, "+"):
			add.Fprint(r.Out, line)
		case strings.HasPrefix(line, "-"):
			del.Fprint(r.Out, line)
		default:
			fmt.Fprint(r.Out, line)
		}
	}
	return nil
}

// Report writes the human-readable run summary.
func (r *Runner) Report(summary *Summary) {
	bold := color.New(color.Bold)
	bold.Fprintf(r.Out, "%d files scanned, %d changed\n", summary.FilesScanned, summary.FilesChanged)
	fmt.Fprintf(r.Out, "rules: %d converted, %d partial, %d skipped\n",
		summary.RulesConverted, summary.RulesPartial, summary.RulesSkipped)
	if summary.TokensSeeded > 0 {
		fmt.Fprintf(r.Out, "design tokens seeded: %d\n", summary.TokensSeeded)
	}
	for _, file := range summary.EmptyFiles {
		fmt.Fprintf(r.Out, "fully converted (now empty): %s\n", file)
	}
	warn := color.New(color.FgYellow)
	for _, warning := range summary.Warnings {
		warn.Fprintf(r.Out, "warning: %s\n", warning)
	}
}
