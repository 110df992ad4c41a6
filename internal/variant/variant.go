// Package variant normalizes variant lists and renders canonical
// "variant:variant:token" utility strings. Variants come from two families:
// responsive breakpoint names and state pseudo names; canonical order is
// responsive first (by breakpoint width ascending), then states in a fixed
// priority order, then anything else lexicographically.
package variant

import (
	"sort"
	"strings"

	"utilify.dev/utilify/internal/breakpoint"
	"utilify.dev/utilify/internal/collections"
)

// statePriority fixes the ordering of state-family variants.
var statePriority = map[string]int{
	"hover":    0,
	"focus":    1,
	"active":   2,
	"disabled": 3,
	"visited":  4,
	"first":    5,
	"last":     6,
	"before":   7,
	"after":    8,
}

// Assembler orders and renders variant sets against one breakpoint table.
type Assembler struct {
	table *breakpoint.Table
}

// NewAssembler creates an assembler for the given breakpoint table.
func NewAssembler(table *breakpoint.Table) *Assembler {
	if table == nil {
		table = breakpoint.Default()
	}
	return &Assembler{table: table}
}

// family rank: responsive < state < unknown.
func (a *Assembler) familyRank(name string) int {
	if a.table.IsBreakpoint(name) {
		return 0
	}
	if _, ok := statePriority[name]; ok {
		return 1
	}
	return 2
}

// Normalize dedupes and canonically orders a variant list. Input order is
// irrelevant to the result.
func (a *Assembler) Normalize(variants []string) []string {
	seen := collections.NewSet[string]()
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		if v == "" || seen.Has(v) {
			continue
		}
		seen.Add(v)
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := a.familyRank(out[i]), a.familyRank(out[j])
		if ri != rj {
			return ri < rj
		}
		switch ri {
		case 0:
			wi, _ := a.table.WidthOf(out[i])
			wj, _ := a.table.WidthOf(out[j])
			return wi < wj
		case 1:
			return statePriority[out[i]] < statePriority[out[j]]
		default:
			return out[i] < out[j]
		}
	})
	return out
}

// Key renders the canonical grouping key of a variant set. Two variant sets
// are equal iff their keys are equal.
func (a *Assembler) Key(variants []string) string {
	return strings.Join(a.Normalize(variants), ":")
}

// Assemble renders a utility token with its variant prefixes, e.g.
// Assemble("bg-blue-500", []string{"hover", "md"}) == "md:hover:bg-blue-500".
// A token with no variants is returned unchanged.
func (a *Assembler) Assemble(token string, variants []string) string {
	normalized := a.Normalize(variants)
	if len(normalized) == 0 {
		return token
	}
	return strings.Join(normalized, ":") + ":" + token
}

// TokenVariants pairs one utility token with a variant set.
type TokenVariants struct {
	Token    string
	Variants []string
}

// Merge unions the variant sets of entries sharing the same token, keeping
// first-occurrence order of tokens. It is used when the same literal utility
// is reachable through more than one cascade path.
func (a *Assembler) Merge(entries []TokenVariants) []TokenVariants {
	index := make(map[string]int)
	out := make([]TokenVariants, 0, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Token]; ok {
			out[i].Variants = a.Normalize(append(out[i].Variants, e.Variants...))
			continue
		}
		index[e.Token] = len(out)
		out = append(out, TokenVariants{Token: e.Token, Variants: a.Normalize(e.Variants)})
	}
	return out
}
