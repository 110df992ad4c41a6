// Package js extracts CSS from tagged template literals (css`...`) in
// JavaScript and TypeScript sources, so stylesheets embedded in component
// code can at least be analyzed and reported on.
package js

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Region is one embedded stylesheet found in a JS source.
type Region struct {
	// Text is the CSS between the backticks, with template substitutions
	// left in place.
	Text string

	// StartByte is where the CSS text begins in the JS source.
	StartByte uint
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable JS parsers.
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}

		templateQuery, qerr := sitter.NewQuery(jsLang, `
			(call_expression
				function: (identifier) @tag
				arguments: (template_string) @template)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile template query: %v", qerr))
		}

		// Generic form: css<Type>`...` is valid TypeScript but the JS
		// grammar misparses it as nested binary expressions.
		genericQuery, qerr := sitter.NewQuery(jsLang, `
			(binary_expression
				left: (binary_expression
					left: (identifier) @tag)
				right: (template_string) @template)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile generic query: %v", qerr))
		}

		return &Parser{
			parser:        parser,
			templateQuery: templateQuery,
			genericQuery:  genericQuery,
		}
	},
}

// Parser parses JS/TS with tree-sitter.
type Parser struct {
	parser        *sitter.Parser
	templateQuery *sitter.Query
	genericQuery  *sitter.Query
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
	if p.templateQuery != nil {
		p.templateQuery.Close()
	}
	if p.genericQuery != nil {
		p.genericQuery.Close()
	}
}

// CSSRegions returns the contents of css-tagged template literals in source
// order.
func (p *Parser) CSSRegions(source string) ([]Region, error) {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse JS")
	}
	defer tree.Close()

	root := tree.RootNode()
	var regions []Region
	for _, query := range []*sitter.Query{p.templateQuery, p.genericQuery} {
		regions = append(regions, p.collect(query, root, src)...)
	}
	return regions, nil
}

func (p *Parser) collect(query *sitter.Query, root *sitter.Node, src []byte) []Region {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var regions []Region
	matches := cursor.Matches(query, root, src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var tag string
		var template *sitter.Node
		for _, capture := range match.Captures {
			node := capture.Node
			switch query.CaptureNames()[capture.Index] {
			case "tag":
				tag = string(src[node.StartByte():node.EndByte()])
			case "template":
				template = &node
			}
		}
		if tag != "css" || template == nil {
			continue
		}
		text := string(src[template.StartByte():template.EndByte()])
		trimmed := strings.TrimSuffix(strings.TrimPrefix(text, "`"), "`")
		regions = append(regions, Region{
			Text:      trimmed,
			StartByte: template.StartByte() + 1,
		})
	}
	return regions
}
