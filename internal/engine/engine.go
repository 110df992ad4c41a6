// Package engine drives the cascade-aware conversion of one stylesheet:
// classify selectors, resolve variables, map declarations to utility
// candidates, adjudicate conflicts, and clean up the stylesheet AST.
package engine

import (
	"fmt"
	"strings"

	"utilify.dev/utilify/internal/breakpoint"
	"utilify.dev/utilify/internal/conflict"
	"utilify.dev/utilify/internal/config"
	"utilify.dev/utilify/internal/log"
	"utilify.dev/utilify/internal/mapper"
	"utilify.dev/utilify/internal/parser/css"
	"utilify.dev/utilify/internal/registry"
	"utilify.dev/utilify/internal/selector"
	"utilify.dev/utilify/internal/variant"
)

// Engine converts stylesheets against one configuration. It is
// single-threaded: one stylesheet is processed start to finish before the
// next begins.
type Engine struct {
	table  *breakpoint.Table
	asm    *variant.Assembler
	mapper *mapper.Mapper
	reg    *registry.Registry

	// shared is true when the caller owns the registry lifecycle. The
	// engine then never clears it and skips its own variable-collection
	// phase; the caller collects across files first.
	shared bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSharedRegistry makes the engine use a caller-owned registry. The
// engine will never clear it, so definitions collected from earlier files
// stay visible; the caller is responsible for collection order.
func WithSharedRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.reg = reg
		e.shared = true
	}
}

// New creates an engine for the given configuration.
func New(cfg config.Config, opts ...Option) *Engine {
	table := cfg.BreakpointTable()
	e := &Engine{
		table:  table,
		asm:    variant.NewAssembler(table),
		mapper: mapper.New(cfg.SpacingTolerance),
		reg:    registry.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry exposes the engine's registry, mainly for seeding and tests.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// RuleOutcome is the conversion result for one rule.
type RuleOutcome struct {
	// Selector is the rule's raw selector.
	Selector string

	// Parsed is the selector classification.
	Parsed selector.Parsed

	// Variants is the canonical variant set the rule's tokens live under.
	Variants []string

	// Candidates are the utility candidates the rule produced, before
	// conflict resolution.
	Candidates []conflict.Candidate

	// ConvertedTokens are the assembled surviving tokens, e.g.
	// "md:hover:bg-blue-500".
	ConvertedTokens []string

	// FullyConverted is true iff every declaration in the rule produced at
	// least one surviving token. PartiallyConverted is true iff some but
	// not all did. A rule with no surviving declarations is skipped with a
	// reason, never both skipped and converted.
	FullyConverted     bool
	PartiallyConverted bool
	SkipReason         string
}

// Skipped reports whether nothing in the rule converted.
func (o *RuleOutcome) Skipped() bool {
	return !o.FullyConverted && !o.PartiallyConverted
}

// Result is the outcome of converting one stylesheet.
type Result struct {
	// Outcomes holds one entry per scanned rule, in scan order.
	Outcomes []RuleOutcome

	// Warnings collects every non-fatal problem encountered.
	Warnings []string

	// Discarded records conflict losers for diagnostics.
	Discarded []conflict.Discard

	// Output is the serialized stylesheet after deletions.
	Output string

	// Empty is true when the output contains only whitespace, the signal
	// for the file-level safety policy.
	Empty bool
}

// scannedRule is one rule queued for conversion together with its variant
// context.
type scannedRule struct {
	rule       *css.Rule
	responsive string
	skipReason string
}

// ConvertStylesheet runs the conversion pass over one stylesheet text. A
// parse failure is fatal for the text and leaves nothing modified; every
// other problem degrades to a warning plus untouched CSS.
func (e *Engine) ConvertStylesheet(source string) (*Result, error) {
	parser := css.AcquireParser()
	defer css.ReleaseParser(parser)

	sheet, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("stylesheet parse failed: %w", err)
	}

	result := &Result{}

	// Variable collection. With a shared registry the caller has already
	// collected definitions across all files, in file order.
	if !e.shared {
		e.reg.Clear()
		e.collectFromSheet(sheet)
	}

	scanned := e.scanMediaRules(sheet, result)
	e.scanRules(scanned, result)
	e.cleanup(sheet)

	result.Output = sheet.Serialize()
	result.Empty = sheet.IsEmpty()
	return result, nil
}

// CollectVariables registers the custom-property definitions of one
// stylesheet text without converting anything. Callers sharing a registry
// across files call this for every file, in order, before converting;
// later files outrank earlier ones at equal specificity.
func (e *Engine) CollectVariables(source string) error {
	parser := css.AcquireParser()
	defer css.ReleaseParser(parser)

	sheet, err := parser.Parse(source)
	if err != nil {
		return fmt.Errorf("stylesheet parse failed: %w", err)
	}
	e.collectFromSheet(sheet)
	return nil
}

// collectFromSheet walks every rule in document order, registering
// custom-property declarations with their scope, specificity, and variant
// context. Document order matters: a definition written after a media block
// must outrank the media-scoped definition at equal specificity.
func (e *Engine) collectFromSheet(sheet *css.Stylesheet) {
	register := func(rule *css.Rule, responsive string) {
		for _, sel := range rule.Selectors {
			for _, decl := range rule.Declarations {
				if !decl.Custom() {
					continue
				}
				def := e.definitionFor(sel, decl, responsive)
				if def == nil {
					continue
				}
				e.reg.Register(def)
			}
		}
	}

	for _, node := range sheet.Nodes() {
		if node.Rule != nil {
			register(node.Rule, "")
			continue
		}
		at := node.At
		if at.Name != "media" {
			continue
		}
		responsive, err := e.table.ResolveCondition(at.Params)
		if err != nil {
			// Definitions inside unsupported media contexts are not
			// collected; their applicability cannot be modeled.
			continue
		}
		for _, rule := range at.Rules {
			register(rule, responsive)
		}
	}
}

// definitionFor builds a registry definition for one custom-property
// declaration under one selector occurrence.
func (e *Engine) definitionFor(sel string, decl *css.Declaration, responsive string) *registry.Definition {
	def := &registry.Definition{
		Name:        decl.Property,
		Value:       decl.Value,
		SourceOrder: e.reg.NextOrder(),
	}
	if responsive != "" {
		def.Variants = append(def.Variants, responsive)
	}

	if strings.TrimSpace(sel) == ":root" {
		root := selector.Parsed{Raw: sel}
		def.Specificity = root.Specificity()
		return def
	}
	parsed := selector.Classify(sel)
	if parsed.Complex {
		return nil
	}
	def.Scope = parsed.Target
	def.Specificity = parsed.Specificity()
	def.Variants = append(def.Variants, parsed.Variants...)
	return def
}

// scanMediaRules resolves every @media at-rule to a responsive variant and
// queues rules for conversion, in document order so candidate source order
// follows the cascade. Unsupported conditions leave their rules untouched
// with one warning each.
func (e *Engine) scanMediaRules(sheet *css.Stylesheet, result *Result) []scannedRule {
	var scanned []scannedRule
	for _, node := range sheet.Nodes() {
		if node.Rule != nil {
			scanned = append(scanned, scannedRule{rule: node.Rule})
			continue
		}
		at := node.At
		if at.Name != "media" {
			log.Debug("leaving @%s untouched", at.Name)
			continue
		}
		responsive, err := e.table.ResolveCondition(at.Params)
		if err != nil {
			warning := fmt.Sprintf("skipping @media (%s): %v", at.Params, err)
			result.Warnings = append(result.Warnings, warning)
			log.Warn("%s", warning)
			for _, rule := range at.Rules {
				scanned = append(scanned, scannedRule{rule: rule, skipReason: err.Error()})
			}
			continue
		}
		for _, rule := range at.Rules {
			scanned = append(scanned, scannedRule{rule: rule, responsive: responsive})
		}
	}
	return scanned
}

// candidateRef ties a produced candidate to the rule and declaration it
// came from. The per-parse source order doubles as the candidate identity.
type candidateRef struct {
	cand    conflict.Candidate
	outcome int
	decl    *css.Declaration
}

// scanRules converts every queued rule's declarations into candidates,
// resolves conflicts per element scope, and records per-rule outcomes.
func (e *Engine) scanRules(scanned []scannedRule, result *Result) {
	sourceOrder := 0
	var refs []candidateRef

	for _, sr := range scanned {
		outcome := RuleOutcome{Selector: sr.rule.RawSelectors}

		switch {
		case sr.skipReason != "":
			outcome.SkipReason = sr.skipReason
		case len(sr.rule.Selectors) != 1:
			outcome.SkipReason = "grouped selector"
			result.Warnings = append(result.Warnings, fmt.Sprintf("skipping grouped selector: %s", sr.rule.RawSelectors))
		default:
			outcome.Parsed = selector.Classify(sr.rule.Selectors[0])
			if outcome.Parsed.Complex {
				outcome.SkipReason = outcome.Parsed.Reason
				if strings.TrimSpace(sr.rule.Selectors[0]) != ":root" {
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("skipping selector %q: %s", sr.rule.Selectors[0], outcome.Parsed.Reason))
				}
			}
		}

		idx := len(result.Outcomes)
		if outcome.SkipReason != "" {
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		variants := append([]string{}, outcome.Parsed.Variants...)
		if sr.responsive != "" {
			variants = append(variants, sr.responsive)
		}
		outcome.Variants = e.asm.Normalize(variants)

		spec := outcome.Parsed.Specificity()
		ctx := registry.Context{
			Selector:    outcome.Parsed.Target,
			Specificity: spec,
			Variants:    outcome.Variants,
		}

		for _, decl := range sr.rule.Declarations {
			if decl.Custom() {
				continue
			}
			if decl.Important {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("cannot convert !important declaration %s in %s", decl.Property, outcome.Selector))
				continue
			}

			value := decl.Value
			if _, isRef := registry.ParseReference(value); isRef {
				res := e.reg.ResolveValue(value, ctx)
				if res.HasUnresolved {
					reason := "unresolved variable"
					if res.Circular {
						reason = "circular variable reference"
					}
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("%s in %s: %s", reason, outcome.Selector, value))
					continue
				}
				value = res.Value
			} else if containsDynamic(value) {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("dynamic value for %s in %s: %s", decl.Property, outcome.Selector, value))
				continue
			}

			tokens, warnings := e.mapper.Convert(decl.Property, value)
			result.Warnings = append(result.Warnings, warnings...)
			for _, token := range tokens {
				sourceOrder++
				cand := conflict.Candidate{
					Token:          token,
					Property:       candidateProperty(decl.Property, token),
					Specificity:    spec,
					SourceOrder:    sourceOrder,
					Variants:       outcome.Variants,
					OriginSelector: outcome.Selector,
				}
				outcome.Candidates = append(outcome.Candidates, cand)
				refs = append(refs, candidateRef{cand: cand, outcome: idx, decl: decl})
			}
		}

		result.Outcomes = append(result.Outcomes, outcome)
	}

	survivors := e.resolveConflicts(refs, result)
	e.finishOutcomes(scanned, refs, survivors, result)
}

// resolveConflicts adjudicates candidates per element scope. Candidates
// compete only when their selectors describe overlapping element sets:
// identical selectors always do, and a bare selector competes against every
// parent-qualified selector with the same target, because its matches are a
// superset. ".a h1" and ".b h1" style disjoint sets and never compete.
// Returns the set of surviving candidate orders.
func (e *Engine) resolveConflicts(refs []candidateRef, result *Result) map[int]bool {
	type scope struct {
		target string
		parent string
	}
	scopeOf := func(ref candidateRef) scope {
		parsed := result.Outcomes[ref.outcome].Parsed
		s := scope{target: parsed.Target.String()}
		if parsed.Parent != nil {
			s.parent = parsed.Parent.String()
		}
		return s
	}

	groups := make(map[scope][]conflict.Candidate)
	var order []scope
	for _, ref := range refs {
		key := scopeOf(ref)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], ref.cand)
	}

	survivors := make(map[int]bool)
	winners := make(map[scope][]conflict.Candidate)
	for _, key := range order {
		resolved := conflict.Resolve(groups[key], e.asm)
		winners[key] = resolved.Winners
		for _, w := range resolved.Winners {
			survivors[w.SourceOrder] = true
		}
		result.Discarded = append(result.Discarded, resolved.Discarded...)
		for _, d := range resolved.Discarded {
			log.Debug("conflict on %s [%s]: %s beat %s", d.Property, d.VariantKey, d.Winner.Token, d.Loser.Token)
		}
	}

	// A parent-qualified selector outweighs a bare selector with the same
	// target wherever both apply, so a surviving bare candidate is shadowed
	// by any qualified winner for the same property and variant set.
	type claim struct {
		target     string
		property   string
		variantKey string
	}
	claimed := make(map[claim]conflict.Candidate)
	for _, key := range order {
		if key.parent == "" {
			continue
		}
		for _, w := range winners[key] {
			c := claim{target: key.target, property: w.Property, variantKey: e.asm.Key(w.Variants)}
			if _, ok := claimed[c]; !ok {
				claimed[c] = w
			}
		}
	}
	for _, key := range order {
		if key.parent != "" {
			continue
		}
		for _, w := range winners[key] {
			c := claim{target: key.target, property: w.Property, variantKey: e.asm.Key(w.Variants)}
			shadow, ok := claimed[c]
			if !ok {
				continue
			}
			delete(survivors, w.SourceOrder)
			result.Discarded = append(result.Discarded, conflict.Discard{
				Winner:     shadow,
				Loser:      w,
				Property:   c.property,
				VariantKey: c.variantKey,
			})
			log.Debug("conflict on %s [%s]: %s shadows %s", c.property, c.variantKey, shadow.Token, w.Token)
		}
	}
	return survivors
}

// finishOutcomes decides each rule's outcome from its surviving candidates
// and applies the corresponding AST deletions.
func (e *Engine) finishOutcomes(scanned []scannedRule, refs []candidateRef, survivors map[int]bool, result *Result) {
	// A declaration is converted only when every candidate it produced
	// survived adjudication. Losing declarations stay in the CSS untouched:
	// the winner's selector may not reach every element the loser styles,
	// so deleting them could change rendering.
	won := make(map[*css.Declaration]bool)
	lost := make(map[*css.Declaration]bool)
	for _, ref := range refs {
		if survivors[ref.cand.SourceOrder] {
			won[ref.decl] = true
		} else {
			lost[ref.decl] = true
		}
	}
	converted := func(d *css.Declaration) bool {
		return won[d] && !lost[d]
	}

	// Tokens are emitted only for deleted declarations; a declaration kept
	// in the CSS already carries its own styling.
	entriesFor := make(map[int][]variant.TokenVariants)
	for _, ref := range refs {
		if survivors[ref.cand.SourceOrder] && converted(ref.decl) {
			entriesFor[ref.outcome] = append(entriesFor[ref.outcome],
				variant.TokenVariants{Token: ref.cand.Token, Variants: ref.cand.Variants})
		}
	}

	for i := range result.Outcomes {
		outcome := &result.Outcomes[i]
		if outcome.SkipReason != "" {
			continue
		}
		rule := scanned[i].rule

		total := len(rule.Declarations)
		done := 0
		for _, decl := range rule.Declarations {
			if converted(decl) {
				done++
			}
		}

		for _, entry := range e.asm.Merge(entriesFor[i]) {
			outcome.ConvertedTokens = append(outcome.ConvertedTokens, e.asm.Assemble(entry.Token, entry.Variants))
		}

		switch {
		case total > 0 && done == total:
			outcome.FullyConverted = true
			rule.Remove()
		case done > 0:
			outcome.PartiallyConverted = true
			for _, decl := range rule.Declarations {
				if converted(decl) {
					decl.Remove()
				}
			}
		case len(outcome.Candidates) > 0:
			outcome.SkipReason = "superseded by a higher-priority rule"
		default:
			outcome.SkipReason = "no convertible declarations"
		}
	}
}

// cleanup removes at-rules whose rules were all deleted.
func (e *Engine) cleanup(sheet *css.Stylesheet) {
	for _, at := range sheet.AtRules {
		if at.Empty() {
			at.Remove()
		}
	}
}

// boxAxisSuffix maps the axis letter of a margin/padding token prefix to the
// property suffix it covers.
var boxAxisSuffix = map[byte]string{
	't': "-top",
	'r': "-right",
	'b': "-bottom",
	'l': "-left",
	'x': "-inline",
	'y': "-block",
}

// candidateProperty refines the conflict property of a token. A box
// shorthand expands to per-side tokens ("padding: 8px 16px" yields py-2 and
// px-4) which cover disjoint sides: they must not compete with each other,
// and a side token must compete with the matching longhand declaration.
func candidateProperty(declProperty, token string) string {
	if declProperty != "margin" && declProperty != "padding" {
		return declProperty
	}
	prefix, _, _ := strings.Cut(strings.TrimPrefix(token, "-"), "-")
	if len(prefix) == 2 {
		if suffix, ok := boxAxisSuffix[prefix[1]]; ok {
			return declProperty + suffix
		}
	}
	return declProperty
}

// dynamicFunctions are value functions the engine cannot statically
// evaluate. Whole-value var() references are handled before this check.
var dynamicFunctions = []string{"calc(", "var(", "url(", "env(", "attr(", "min(", "max(", "clamp(", "counter("}

func containsDynamic(value string) bool {
	lower := strings.ToLower(value)
	for _, fn := range dynamicFunctions {
		if strings.Contains(lower, fn) {
			return true
		}
	}
	return false
}
