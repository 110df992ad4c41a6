// Package html extracts embedded stylesheets and the element/class structure
// from HTML documents using tree-sitter. The element arena it produces is
// what the markup rewriter traverses when injecting utility classes.
package html

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// parserPool is a pool of reusable HTML parsers.
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}
		styleQuery, qerr := sitter.NewQuery(htmlLang, `(style_element (raw_text) @css)`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile style query: %v", qerr))
		}
		return &Parser{parser: parser, styleQuery: styleQuery}
	},
}

// Parser parses HTML with tree-sitter.
type Parser struct {
	parser     *sitter.Parser
	styleQuery *sitter.Query
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

// Close releases the parser's resources.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.styleQuery != nil {
		p.styleQuery.Close()
	}
}

// Parse extracts the embedded stylesheets and the element arena from an HTML
// document.
func (p *Parser) Parse(source string) (*Document, error) {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse HTML")
	}
	defer tree.Close()

	root := tree.RootNode()
	doc := &Document{Source: source}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	matches := cursor.Matches(p.styleQuery, root, src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			node := capture.Node
			doc.Styles = append(doc.Styles, StyleRegion{
				Text: string(src[node.StartByte():node.EndByte()]),
				Span: Span{Start: node.StartByte(), End: node.EndByte()},
			})
		}
	}

	collectElements(root, src, doc)
	return doc, nil
}

// collectElements walks the tree with an explicit worklist, building the
// element arena in document order. Parent indices refer into the arena, so
// visited state stays explicit instead of living on a recursion stack.
func collectElements(root *sitter.Node, src []byte, doc *Document) {
	type item struct {
		node   *sitter.Node
		parent int
	}
	stack := []item{{node: root, parent: -1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		parent := it.parent
		if it.node.Kind() == "element" {
			if el, ok := parseElement(it.node, src); ok {
				el.Parent = it.parent
				doc.Elements = append(doc.Elements, el)
				parent = len(doc.Elements) - 1
			}
		}

		// Push children in reverse so the stack pops them in document order.
		for i := it.node.ChildCount(); i > 0; i-- {
			stack = append(stack, item{node: it.node.Child(i - 1), parent: parent})
		}
	}
}

// parseElement reads the tag name and class attribute from an element's
// start tag.
func parseElement(node *sitter.Node, src []byte) (Element, bool) {
	var el Element
	var startTag *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if kind := child.Kind(); kind == "start_tag" || kind == "self_closing_tag" {
			startTag = child
			break
		}
	}
	if startTag == nil {
		return el, false
	}

	for i := uint(0); i < startTag.ChildCount(); i++ {
		child := startTag.Child(i)
		switch child.Kind() {
		case "tag_name":
			el.Tag = strings.ToLower(string(src[child.StartByte():child.EndByte()]))
			el.TagNameEnd = child.EndByte()
		case "attribute":
			name, valueSpan, hasValue := parseAttribute(child, src)
			if name == "class" && hasValue {
				el.HasClassAttr = true
				el.ClassValueSpan = valueSpan
				el.Classes = strings.Fields(string(src[valueSpan.Start:valueSpan.End]))
			}
		}
	}
	if el.Tag == "" {
		return el, false
	}
	return el, true
}

// parseAttribute returns an attribute's name and the span of its (unquoted)
// value text.
func parseAttribute(node *sitter.Node, src []byte) (string, Span, bool) {
	var name string
	var valueSpan Span
	hasValue := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "attribute_name":
			name = strings.ToLower(string(src[child.StartByte():child.EndByte()]))
		case "quoted_attribute_value":
			// The inner attribute_value excludes the quotes; an empty quoted
			// value has no inner node, so fall back to the quote interior.
			inner := Span{Start: child.StartByte() + 1, End: child.EndByte() - 1}
			for j := uint(0); j < child.ChildCount(); j++ {
				if v := child.Child(j); v.Kind() == "attribute_value" {
					inner = Span{Start: v.StartByte(), End: v.EndByte()}
				}
			}
			valueSpan = inner
			hasValue = true
		case "attribute_value":
			valueSpan = Span{Start: child.StartByte(), End: child.EndByte()}
			hasValue = true
		}
	}
	return name, valueSpan, hasValue
}
