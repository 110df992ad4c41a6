// Package selector classifies raw CSS selector strings into the small shape
// vocabulary the conversion engine can handle: simple class or element
// selectors, one-level descendant selectors, and pseudo-variant selectors.
// Everything else is classified as complex with a specific reason.
package selector

import (
	"strings"

	"utilify.dev/utilify/internal/specificity"
)

// Kind distinguishes the two supported selector target types.
type Kind int

const (
	// KindClass is a class selector target (.name).
	KindClass Kind = iota
	// KindElement is a type selector target (name).
	KindElement
)

// String returns "class" or "element".
func (k Kind) String() string {
	if k == KindClass {
		return "class"
	}
	return "element"
}

// Target identifies one node of a (possibly descendant) selector.
type Target struct {
	Kind Kind
	Name string
}

// Equal reports whether two targets have the same kind and name.
func (t Target) Equal(other Target) bool {
	return t.Kind == other.Kind && t.Name == other.Name
}

// String renders the target in selector syntax.
func (t Target) String() string {
	if t.Kind == KindClass {
		return "." + t.Name
	}
	return t.Name
}

// pseudoAllowlist maps accepted pseudo segments to their variant names.
var pseudoAllowlist = map[string]string{
	"hover":       "hover",
	"focus":       "focus",
	"active":      "active",
	"disabled":    "disabled",
	"visited":     "visited",
	"first-child": "first",
	"last-child":  "last",
	"before":      "before",
	"after":       "after",
}

// Parsed is the classification of one raw selector. It is produced once per
// rule and never mutated.
type Parsed struct {
	// Raw is the original selector string.
	Raw string

	// Complex is true when the selector cannot be converted; Reason says why.
	Complex bool
	Reason  string

	// Target is the (rightmost) selector target. Nil when Complex.
	Target *Target

	// Parent is the ancestor target of a descendant selector, nil otherwise.
	Parent *Target

	// Variants holds the state variant names derived from pseudo suffixes,
	// in source order.
	Variants []string
}

// IsDescendant reports whether the selector is a one-level descendant pair.
func (p *Parsed) IsDescendant() bool {
	return !p.Complex && p.Parent != nil
}

// Specificity computes the cascade weight of the classified selector.
// Each pseudo variant adds one unit of class weight.
func (p *Parsed) Specificity() specificity.Specificity {
	if p.Complex || p.Target == nil {
		return specificity.FromSelector(p.Raw)
	}
	var s specificity.Specificity
	if p.Parent != nil {
		s = specificity.ForDescendant(p.Parent.Kind == KindClass, p.Target.Kind == KindClass)
	} else if p.Target.Kind == KindClass {
		s = specificity.OfClass()
	} else {
		s = specificity.OfElement()
	}
	for range p.Variants {
		s = s.Add(specificity.OfClass())
	}
	return s
}

func complexSelector(raw, reason string) Parsed {
	return Parsed{Raw: raw, Complex: true, Reason: reason}
}

// Classify parses a single raw selector, already split on top-level commas by
// the caller. The classification is total and deterministic: the same input
// always yields the same result and reason string.
func Classify(raw string) Parsed {
	sel := strings.TrimSpace(raw)
	if sel == "" {
		return complexSelector(raw, "empty selector")
	}
	if strings.Contains(sel, ",") {
		return complexSelector(raw, "selector list must be split by the caller")
	}
	if strings.ContainsAny(sel, ">+~") {
		return complexSelector(raw, "child or sibling combinator")
	}
	if strings.Contains(sel, "[") {
		return complexSelector(raw, "attribute selector")
	}
	if strings.Contains(sel, "(") {
		return complexSelector(raw, "function-style pseudo")
	}
	if strings.Contains(sel, "#") {
		return complexSelector(raw, "id selector")
	}

	parts := strings.Fields(sel)
	switch len(parts) {
	case 1:
		return classifySimple(raw, parts[0])
	case 2:
		return classifyDescendant(raw, parts[0], parts[1])
	default:
		return complexSelector(raw, "more than two selector parts")
	}
}

// classifySimple parses a one-part selector, accepting pseudo suffixes from
// the allowlist.
func classifySimple(raw, part string) Parsed {
	base, pseudos, ok := splitPseudos(part)
	if !ok {
		return complexSelector(raw, "more than one pseudo segment")
	}

	var variants []string
	for _, pseudo := range pseudos {
		variant, ok := pseudoAllowlist[pseudo]
		if !ok {
			return complexSelector(raw, "unsupported pseudo :"+pseudo)
		}
		variants = append(variants, variant)
	}

	target, reason := parseTarget(base)
	if target == nil {
		return complexSelector(raw, reason)
	}
	return Parsed{Raw: raw, Target: target, Variants: variants}
}

// classifyDescendant parses a two-part descendant selector. Pseudo suffixes
// are only accepted on simple selectors, so any pseudo here is rejected.
func classifyDescendant(raw, parentPart, targetPart string) Parsed {
	if strings.Contains(parentPart, ":") || strings.Contains(targetPart, ":") {
		return complexSelector(raw, "pseudo on descendant selector")
	}

	parent, reason := parseTarget(parentPart)
	if parent == nil {
		return complexSelector(raw, reason)
	}
	target, reason := parseTarget(targetPart)
	if target == nil {
		return complexSelector(raw, reason)
	}
	return Parsed{Raw: raw, Target: target, Parent: parent}
}

// splitPseudos splits a selector part into its base and pseudo segments.
// "::" pseudo-element syntax is normalized to the single-colon form. At most
// one pseudo segment is allowed; ok is false otherwise.
func splitPseudos(part string) (base string, pseudos []string, ok bool) {
	normalized := strings.ReplaceAll(part, "::", ":")
	segments := strings.Split(normalized, ":")
	base = segments[0]
	pseudos = segments[1:]
	if len(pseudos) > 1 {
		return "", nil, false
	}
	for _, p := range pseudos {
		if p == "" {
			return "", nil, false
		}
	}
	return base, pseudos, true
}

// parseTarget parses a bare class or element name. Compound selectors like
// "h2.title" are not part of the supported vocabulary.
func parseTarget(s string) (*Target, string) {
	if s == "" {
		return nil, "missing selector target"
	}
	if strings.HasPrefix(s, ".") {
		name := s[1:]
		if name == "" || strings.Contains(name, ".") {
			return nil, "malformed class selector"
		}
		return &Target{Kind: KindClass, Name: name}, ""
	}
	if strings.Contains(s, ".") {
		return nil, "compound selector"
	}
	return &Target{Kind: KindElement, Name: strings.ToLower(s)}, ""
}
