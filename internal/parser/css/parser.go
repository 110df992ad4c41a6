// Package css parses CSS text with tree-sitter into a lightweight mutable
// overlay: rules and declarations carrying byte spans into the original
// source. Rewriting works by marking nodes removed and splicing the source,
// so constructs the overlay does not model pass through byte-identical.
package css

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers.
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
	},
}

// Parser parses CSS with tree-sitter.
type Parser struct {
	parser *sitter.Parser
}

// AcquireParser gets a parser from the pool.
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool.
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// atStatementNames maps tree-sitter statement kinds to at-rule names.
var atStatementNames = map[string]string{
	"media_statement":     "media",
	"import_statement":    "import",
	"charset_statement":   "charset",
	"namespace_statement": "namespace",
	"keyframes_statement": "keyframes",
	"supports_statement":  "supports",
}

// Parse parses CSS text into a Stylesheet. A failed or error-containing
// parse is fatal for the text: no partial stylesheet is returned.
func (p *Parser) Parse(source string) (*Stylesheet, error) {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("CSS parse error")
	}

	sheet := &Stylesheet{source: src}
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		kind := child.Kind()
		switch {
		case kind == "rule_set":
			if rule := parseRule(child, src); rule != nil {
				sheet.Rules = append(sheet.Rules, rule)
			}
		case atStatementNames[kind] != "" || kind == "at_rule":
			sheet.AtRules = append(sheet.AtRules, parseAtRule(child, src))
		}
	}
	return sheet, nil
}

// parseAtRule extracts the name, prelude, and any nested rulesets of an
// at-rule node.
func parseAtRule(node *sitter.Node, src []byte) *AtRule {
	at := &AtRule{
		Name: atStatementNames[node.Kind()],
		Span: Span{Start: node.StartByte(), End: node.EndByte()},
	}

	var block *sitter.Node
	preludeStart := node.StartByte()
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		kind := child.Kind()
		if i == 0 && strings.HasPrefix(kind, "@") {
			// The keyword token itself, e.g. "@media".
			if at.Name == "" {
				at.Name = strings.TrimPrefix(kind, "@")
			}
			preludeStart = child.EndByte()
			continue
		}
		if kind == "at_keyword" {
			at.Name = strings.TrimPrefix(text(child, src), "@")
			preludeStart = child.EndByte()
			continue
		}
		if kind == "block" || kind == "keyframe_block_list" {
			block = child
			break
		}
	}

	preludeEnd := node.EndByte()
	if block != nil {
		preludeEnd = block.StartByte()
	}
	at.Params = strings.TrimSuffix(strings.TrimSpace(string(src[preludeStart:preludeEnd])), ";")
	at.Params = strings.TrimSpace(at.Params)

	if block != nil {
		for i := uint(0); i < block.ChildCount(); i++ {
			child := block.Child(i)
			if child.Kind() == "rule_set" {
				if rule := parseRule(child, src); rule != nil {
					at.Rules = append(at.Rules, rule)
				}
			}
		}
	}
	return at
}

// parseRule extracts the selectors and declarations of a ruleset node.
func parseRule(node *sitter.Node, src []byte) *Rule {
	rule := &Rule{Span: Span{Start: node.StartByte(), End: node.EndByte()}}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "selectors":
			rule.RawSelectors = strings.TrimSpace(text(child, src))
		case "block":
			for j := uint(0); j < child.ChildCount(); j++ {
				item := child.Child(j)
				if item.Kind() == "declaration" {
					if decl := parseDeclaration(item, src); decl != nil {
						rule.Declarations = append(rule.Declarations, decl)
					}
				}
			}
		}
	}
	if rule.RawSelectors == "" {
		return nil
	}
	for part := range strings.SplitSeq(rule.RawSelectors, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			rule.Selectors = append(rule.Selectors, trimmed)
		}
	}
	return rule
}

// parseDeclaration extracts the property name and the raw value text. The
// value is sliced from the source between the first and last value nodes, so
// commas and nested function arguments survive verbatim.
func parseDeclaration(node *sitter.Node, src []byte) *Declaration {
	decl := &Declaration{Span: Span{Start: node.StartByte(), End: node.EndByte()}}

	var valueStart, valueEnd uint
	haveValue := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_name":
			decl.Property = text(child, src)
		case ":", ";":
			// Punctuation.
		case "important":
			decl.Important = true
		default:
			if decl.Property == "" {
				continue
			}
			if !haveValue {
				valueStart = child.StartByte()
				haveValue = true
			}
			valueEnd = child.EndByte()
		}
	}
	if decl.Property == "" {
		return nil
	}
	if haveValue {
		decl.Value = strings.TrimSpace(string(src[valueStart:valueEnd]))
	}
	// The node span may exclude the trailing semicolon; removal extends
	// over it during serialization.
	return decl
}

func text(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}

// Serialize renders the stylesheet back to text, splicing out every removed
// rule, at-rule, and declaration together with trailing separators and
// surrounding blank space.
func (s *Stylesheet) Serialize() string {
	var cuts []Span
	for _, at := range s.AtRules {
		if at.removed {
			cuts = append(cuts, s.expand(at.Span, false))
			continue
		}
		for _, r := range at.Rules {
			cuts = append(cuts, s.ruleCuts(r)...)
		}
	}
	for _, r := range s.Rules {
		cuts = append(cuts, s.ruleCuts(r)...)
	}
	if len(cuts) == 0 {
		return string(s.source)
	}

	sort.Slice(cuts, func(i, j int) bool { return cuts[i].Start < cuts[j].Start })
	var b strings.Builder
	pos := uint(0)
	for _, cut := range cuts {
		if cut.Start > pos {
			b.Write(s.source[pos:cut.Start])
		}
		if cut.End > pos {
			pos = cut.End
		}
	}
	if pos < uint(len(s.source)) {
		b.Write(s.source[pos:])
	}
	return b.String()
}

func (s *Stylesheet) ruleCuts(r *Rule) []Span {
	if r.removed {
		return []Span{s.expand(r.Span, false)}
	}
	var cuts []Span
	for _, d := range r.Declarations {
		if d.removed {
			cuts = append(cuts, s.expand(d.Span, true))
		}
	}
	return cuts
}

// expand grows a removal span over an immediately following semicolon (for
// declarations) and trailing spaces up to and including one newline, so
// deletions do not leave blank lines behind.
func (s *Stylesheet) expand(span Span, semicolon bool) Span {
	start := span.Start
	for start > 0 && (s.source[start-1] == ' ' || s.source[start-1] == '\t') {
		start--
	}
	end := span.End
	n := uint(len(s.source))
	if semicolon {
		for end < n && (s.source[end] == ' ' || s.source[end] == '\t') {
			end++
		}
		if end < n && s.source[end] == ';' {
			end++
		}
	}
	for end < n && (s.source[end] == ' ' || s.source[end] == '\t') {
		end++
	}
	if end < n && s.source[end] == '\n' {
		end++
	}
	return Span{Start: start, End: end}
}

// IsEmpty reports whether serialization yields only whitespace, the signal
// the file-level safety policy uses for whole-file decisions.
func (s *Stylesheet) IsEmpty() bool {
	return strings.TrimSpace(s.Serialize()) == ""
}
