// Package registry stores CSS custom-property definitions and resolves
// variable references against them under cascade rules: scope matching first,
// then highest specificity, then latest source order.
package registry

import (
	"strings"
	"sync"

	"utilify.dev/utilify/internal/collections"
	"utilify.dev/utilify/internal/selector"
	"utilify.dev/utilify/internal/specificity"
)

// Definition is one custom-property definition collected from a stylesheet.
// Multiple definitions for the same name coexist; they are disambiguated at
// resolution time. Definitions are never mutated after registration.
type Definition struct {
	// Name is the custom property name including the leading dashes.
	Name string

	// Value is the literal value or expression on the right-hand side.
	Value string

	// Scope is the selector target the definition is bound to, or nil for a
	// global (:root) definition.
	Scope *selector.Target

	// Specificity is the cascade weight of the defining selector.
	Specificity specificity.Specificity

	// SourceOrder is the registry-assigned registration order. Later
	// definitions win ties.
	SourceOrder int

	// Variants are the variant names active at the definition site.
	Variants []string
}

// Context is the cascade position at which a variable reference occurs.
type Context struct {
	// Selector is the target of the rule containing the reference, or nil
	// when the reference occurs at global scope.
	Selector *selector.Target

	// Specificity is the cascade weight of that rule's selector.
	Specificity specificity.Specificity

	// Variants are the variant names active at the reference site.
	Variants []string
}

// Source identifies where a resolved value came from.
type Source int

const (
	// SourceNone means the reference did not resolve.
	SourceNone Source = iota
	// SourceDefinition means a registered definition supplied the value.
	SourceDefinition
	// SourceFallback means the reference's fallback supplied the value.
	SourceFallback
)

// Resolution is the outcome of resolving a single variable name.
type Resolution struct {
	Value    string
	Resolved bool
	Source   Source
}

// ValueResolution is the outcome of resolving a declaration value that may
// contain a chain of variable references.
type ValueResolution struct {
	// Value is the fully resolved literal, or the original expression when
	// resolution failed.
	Value string

	// HasUnresolved is true when any reference in the chain failed to
	// resolve, including circular reference chains.
	HasUnresolved bool

	// Circular is true when resolution stopped because a name reappeared in
	// the current resolution chain.
	Circular bool
}

// Registry is a multi-map of custom-property definitions. One instance may
// be shared across files by the caller; in that mode registration calls are
// strictly sequential and the caller must not Clear between files.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string][]*Definition
	order int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[string][]*Definition)}
}

// NextOrder returns a fresh monotonically increasing source-order value.
// The counter is never reset while the registry is alive, so definitions
// from later files outrank equal-specificity definitions from earlier ones.
func (r *Registry) NextOrder() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order++
	return r.order
}

// Register appends a definition. Existing definitions for the same name are
// kept; nothing is deduplicated or overwritten.
func (r *Registry) Register(def *Definition) {
	if def == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Name] = append(r.defs[def.Name], def)
}

// Count returns the number of registered definitions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, defs := range r.defs {
		n += len(defs)
	}
	return n
}

// Clear empties the registry. A caller sharing one registry across multiple
// source files must not call Clear between files; that would drop the
// cross-file definitions the sharing exists for.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs = make(map[string][]*Definition)
	r.order = 0
}

// matches reports whether a definition is applicable at the given context.
// Global definitions always apply. Scoped definitions apply only when the
// context selector structurally equals the scope target. Variant-tagged
// definitions apply only when every definition variant is active in the
// context.
func matches(def *Definition, ctx Context) bool {
	if def.Scope != nil {
		if ctx.Selector == nil || !def.Scope.Equal(*ctx.Selector) {
			return false
		}
	}
	if len(def.Variants) > 0 {
		active := collections.NewSet(ctx.Variants...)
		for _, v := range def.Variants {
			if !active.Has(v) {
				return false
			}
		}
	}
	return true
}

// Resolve picks the cascade-winning definition for name at the given
// context. Among applicable definitions the highest specificity wins, ties
// broken by the highest source order. When nothing applies the fallback is
// used if supplied, otherwise the resolution reports unresolved.
func (r *Registry) Resolve(name string, ctx Context, fallback *string) Resolution {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Definition
	for _, def := range r.defs[name] {
		if !matches(def, ctx) {
			continue
		}
		if best == nil {
			best = def
			continue
		}
		cmp := specificity.Compare(def.Specificity, best.Specificity)
		if cmp > 0 || (cmp == 0 && def.SourceOrder > best.SourceOrder) {
			best = def
		}
	}
	if best != nil {
		return Resolution{Value: best.Value, Resolved: true, Source: SourceDefinition}
	}
	if fallback != nil {
		return Resolution{Value: *fallback, Resolved: true, Source: SourceFallback}
	}
	return Resolution{Source: SourceNone}
}

// ResolveValue resolves a declaration value. A value that is not a variable
// reference expression is returned unchanged. Reference chains are followed
// recursively; a name that reappears within the current chain stops
// resolution and reports an unresolved circular reference instead of
// looping.
func (r *Registry) ResolveValue(expr string, ctx Context) ValueResolution {
	return r.resolveValue(expr, ctx, collections.NewSet[string]())
}

func (r *Registry) resolveValue(expr string, ctx Context, visited collections.Set[string]) ValueResolution {
	ref, ok := ParseReference(expr)
	if !ok {
		return ValueResolution{Value: expr}
	}
	if visited.Has(ref.Name) {
		return ValueResolution{Value: expr, HasUnresolved: true, Circular: true}
	}
	visited.Add(ref.Name)

	res := r.Resolve(ref.Name, ctx, ref.Fallback)
	if !res.Resolved {
		return ValueResolution{Value: expr, HasUnresolved: true}
	}
	if strings.Contains(res.Value, "var(") {
		return r.resolveValue(res.Value, ctx, visited)
	}
	return ValueResolution{Value: res.Value}
}

// Reference is a parsed var() expression.
type Reference struct {
	Name     string
	Fallback *string
}

// ParseReference extracts the referenced name and optional fallback text
// from a whole-value var() expression. Values that merely embed var() inside
// a larger expression are not treated as reference expressions here; the
// engine rejects those as dynamic.
func ParseReference(expr string) (Reference, bool) {
	s := strings.TrimSpace(expr)
	if !strings.HasPrefix(s, "var(") || !strings.HasSuffix(s, ")") {
		return Reference{}, false
	}
	inner := s[len("var(") : len(s)-1]

	// Split on the first top-level comma; the fallback may itself contain
	// nested function calls with commas.
	depth := 0
	split := -1
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				// Unbalanced; not a whole-value reference.
				return Reference{}, false
			}
			depth--
		case ',':
			if depth == 0 && split < 0 {
				split = i
			}
		}
	}
	if depth != 0 {
		return Reference{}, false
	}

	name := inner
	var fallback *string
	if split >= 0 {
		name = inner[:split]
		fb := strings.TrimSpace(inner[split+1:])
		fallback = &fb
	}
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, "--") {
		return Reference{}, false
	}
	return Reference{Name: name, Fallback: fallback}, true
}
