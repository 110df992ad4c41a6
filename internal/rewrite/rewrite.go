// Package rewrite applies converted utility tokens to HTML markup: elements
// matched by a converted rule's selector receive the rule's tokens in their
// class attribute.
package rewrite

import (
	"sort"
	"strings"

	"utilify.dev/utilify/internal/collections"
	"utilify.dev/utilify/internal/parser/html"
	"utilify.dev/utilify/internal/selector"
)

// ClassRule pairs a converted rule's selector classification with the
// utility tokens that replace it.
type ClassRule struct {
	Parsed selector.Parsed
	Tokens []string
}

// Edit is one byte-range replacement in the document source. Callers may
// combine class edits with their own non-overlapping edits (for example
// style-region replacements) before splicing.
type Edit struct {
	Span html.Span
	Text string
}

// Apply adds every matching rule's tokens to the class attributes of the
// document's elements and returns the rewritten source plus the number of
// elements changed. Elements already carrying a token do not receive it
// again, so applying twice is a no-op.
func Apply(doc *html.Document, rules []ClassRule) (string, int) {
	edits, touched := ClassEdits(doc, rules)
	return Splice(doc.Source, edits), touched
}

// ClassEdits computes the class-attribute edits for every element the rules
// match, without splicing.
func ClassEdits(doc *html.Document, rules []ClassRule) ([]Edit, int) {
	var edits []Edit
	touched := 0

	for i := range doc.Elements {
		el := &doc.Elements[i]

		have := collections.NewSet(el.Classes...)
		var added []string
		for _, rule := range rules {
			if !Matches(doc, i, rule.Parsed) {
				continue
			}
			for _, token := range rule.Tokens {
				if have.Has(token) {
					continue
				}
				have.Add(token)
				added = append(added, token)
			}
		}
		if len(added) == 0 {
			continue
		}
		touched++

		if el.HasClassAttr {
			value := doc.Source[el.ClassValueSpan.Start:el.ClassValueSpan.End]
			joined := strings.Join(added, " ")
			if strings.TrimSpace(value) != "" {
				joined = value + " " + joined
			}
			edits = append(edits, Edit{Span: el.ClassValueSpan, Text: joined})
			continue
		}
		attr := ` class="` + strings.Join(added, " ") + `"`
		edits = append(edits, Edit{Span: html.Span{Start: el.TagNameEnd, End: el.TagNameEnd}, Text: attr})
	}

	return edits, touched
}

// Matches reports whether the element at arena index idx is selected by the
// classified selector. Descendant selectors walk the parent chain; variant
// pseudos do not restrict matching, they only shape the tokens.
func Matches(doc *html.Document, idx int, parsed selector.Parsed) bool {
	if parsed.Complex || parsed.Target == nil {
		return false
	}
	el := &doc.Elements[idx]
	if !targetMatches(el, *parsed.Target) {
		return false
	}
	if parsed.Parent == nil {
		return true
	}
	for p := el.Parent; p >= 0; p = doc.Elements[p].Parent {
		if targetMatches(&doc.Elements[p], *parsed.Parent) {
			return true
		}
	}
	return false
}

func targetMatches(el *html.Element, target selector.Target) bool {
	if target.Kind == selector.KindElement {
		return el.Tag == target.Name
	}
	for _, class := range el.Classes {
		if class == target.Name {
			return true
		}
	}
	return false
}

// Splice applies non-overlapping edits to the source in position order.
func Splice(source string, edits []Edit) string {
	if len(edits) == 0 {
		return source
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})

	var b strings.Builder
	b.Grow(len(source) + len(sorted)*16)
	cursor := uint(0)
	for _, e := range sorted {
		b.WriteString(source[cursor:e.Span.Start])
		b.WriteString(e.Text)
		cursor = e.Span.End
	}
	b.WriteString(source[cursor:])
	return b.String()
}
