// Package conflict deduplicates utility candidates per CSS property and
// variant combination, keeping exactly one cascade winner per group.
package conflict

import (
	"sort"

	"utilify.dev/utilify/internal/specificity"
	"utilify.dev/utilify/internal/variant"
)

// Candidate is one proposed utility token plus the cascade metadata needed
// to adjudicate conflicts. Candidates are ephemeral: produced per
// declaration, consumed entirely within one conversion run.
type Candidate struct {
	Token          string
	Property       string
	Specificity    specificity.Specificity
	SourceOrder    int
	Variants       []string
	OriginSelector string
}

// Discard records one candidate that lost a conflict, for diagnostics.
type Discard struct {
	Winner     Candidate
	Loser      Candidate
	Property   string
	VariantKey string
}

// Result holds the surviving candidates and the discarded losers.
type Result struct {
	Winners   []Candidate
	Discarded []Discard
}

// Resolve groups candidates by (property, canonical variant set) and keeps
// exactly one winner per group: the candidate with the highest specificity,
// ties broken by the latest source order. Candidates in different property
// groups, or with differing canonical variant sets, never conflict with each
// other. The operation is idempotent: an already-resolved list passes
// through unchanged, winners in first-appearance group order.
func Resolve(candidates []Candidate, asm *variant.Assembler) Result {
	type groupKey struct {
		property   string
		variantKey string
	}

	groups := make(map[groupKey][]Candidate)
	order := make([]groupKey, 0, len(candidates))
	for _, c := range candidates {
		key := groupKey{property: c.Property, variantKey: asm.Key(c.Variants)}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	var result Result
	for _, key := range order {
		group := groups[key]
		if len(group) == 1 {
			result.Winners = append(result.Winners, group[0])
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			cmp := specificity.Compare(group[i].Specificity, group[j].Specificity)
			if cmp != 0 {
				return cmp > 0
			}
			return group[i].SourceOrder > group[j].SourceOrder
		})
		winner := group[0]
		result.Winners = append(result.Winners, winner)
		for _, loser := range group[1:] {
			result.Discarded = append(result.Discarded, Discard{
				Winner:     winner,
				Loser:      loser,
				Property:   key.property,
				VariantKey: key.variantKey,
			})
		}
	}
	return result
}
