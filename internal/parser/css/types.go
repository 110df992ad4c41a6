package css

import "strings"

// Span is a half-open byte range into the original source text.
type Span struct {
	Start uint
	End   uint
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() uint {
	return s.End - s.Start
}

// Declaration is one property declaration inside a rule. The Span covers the
// declaration text in the original source, excluding any trailing semicolon
// (removal extends over it).
type Declaration struct {
	Property  string
	Value     string
	Important bool
	Span      Span

	removed bool
}

// Custom reports whether this declares a custom property (--name).
func (d *Declaration) Custom() bool {
	return strings.HasPrefix(d.Property, "--")
}

// Remove marks the declaration for deletion on the next Serialize.
func (d *Declaration) Remove() {
	d.removed = true
}

// Removed reports whether the declaration is marked for deletion.
func (d *Declaration) Removed() bool {
	return d.removed
}

// Rule is one selector ruleset. Selectors holds the comma-separated selector
// strings, trimmed.
type Rule struct {
	Selectors    []string
	RawSelectors string
	Declarations []*Declaration
	Span         Span

	removed bool
}

// Remove marks the whole rule for deletion on the next Serialize.
func (r *Rule) Remove() {
	r.removed = true
}

// Removed reports whether the rule is marked for deletion.
func (r *Rule) Removed() bool {
	return r.removed
}

// Empty reports whether every declaration in the rule is removed.
func (r *Rule) Empty() bool {
	for _, d := range r.Declarations {
		if !d.removed {
			return false
		}
	}
	return true
}

// AtRule is an at-rule such as @media or @supports. Rules holds the nested
// rulesets for block-bearing at-rules.
type AtRule struct {
	// Name is the at-rule name without the leading "@".
	Name string

	// Params is the prelude text between the name and the block (or the
	// terminating semicolon), trimmed.
	Params string

	Rules []*Rule
	Span  Span

	removed bool
}

// Remove marks the at-rule and everything inside it for deletion.
func (a *AtRule) Remove() {
	a.removed = true
}

// Removed reports whether the at-rule is marked for deletion.
func (a *AtRule) Removed() bool {
	return a.removed
}

// Empty reports whether every nested rule is removed.
func (a *AtRule) Empty() bool {
	if len(a.Rules) == 0 {
		return false
	}
	for _, r := range a.Rules {
		if !r.removed {
			return false
		}
	}
	return true
}

// Stylesheet is the parsed form of one CSS text. Rules holds top-level
// rulesets; AtRules holds at-rules in source order. Serialization splices
// the original text, so unparsed constructs survive rewriting untouched.
type Stylesheet struct {
	source  []byte
	Rules   []*Rule
	AtRules []*AtRule
}

// Source returns the original text.
func (s *Stylesheet) Source() string {
	return string(s.source)
}

// AllRules returns top-level rules followed by rules nested in at-rules, in
// source order within each group.
func (s *Stylesheet) AllRules() []*Rule {
	out := make([]*Rule, 0, len(s.Rules))
	out = append(out, s.Rules...)
	for _, at := range s.AtRules {
		out = append(out, at.Rules...)
	}
	return out
}

// Node is one top-level construct of a stylesheet: exactly one of Rule or At
// is set.
type Node struct {
	Rule *Rule
	At   *AtRule
}

// Nodes returns top-level rules and at-rules interleaved by their position in
// the source text. Cascade-order-sensitive passes must walk this instead of
// Rules and AtRules separately.
func (s *Stylesheet) Nodes() []Node {
	nodes := make([]Node, 0, len(s.Rules)+len(s.AtRules))
	i, j := 0, 0
	for i < len(s.Rules) || j < len(s.AtRules) {
		switch {
		case j == len(s.AtRules):
			nodes = append(nodes, Node{Rule: s.Rules[i]})
			i++
		case i == len(s.Rules):
			nodes = append(nodes, Node{At: s.AtRules[j]})
			j++
		case s.Rules[i].Span.Start < s.AtRules[j].Span.Start:
			nodes = append(nodes, Node{Rule: s.Rules[i]})
			i++
		default:
			nodes = append(nodes, Node{At: s.AtRules[j]})
			j++
		}
	}
	return nodes
}
