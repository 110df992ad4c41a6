// Package tokens seeds the variable registry from DTCG design token files.
// Seeded tokens behave exactly like :root custom-property definitions, so
// stylesheets referencing them convert without the defining CSS being
// present in the workspace.
package tokens

import (
	"fmt"
	"strings"

	asimonimParser "bennypowers.dev/asimonim/parser"
	"bennypowers.dev/asimonim/token"

	"utilify.dev/utilify/internal/registry"
	"utilify.dev/utilify/internal/specificity"
)

// Token is a parsed DTCG design token.
type Token = token.Token

// Parse parses DTCG JSON token data. The prefix is prepended to every
// generated custom-property name.
func Parse(data []byte, prefix string) ([]*Token, error) {
	parser := asimonimParser.NewJSONParser()
	parsed, err := parser.Parse(data, asimonimParser.Options{Prefix: prefix})
	if err != nil {
		return nil, fmt.Errorf("token file parse failed: %w", err)
	}
	return parsed, nil
}

// Seed parses DTCG JSON token data and registers every token as a global
// definition with :root weight. Returns the number of definitions added.
// Tokens whose values reference other tokens keep the reference form; the
// registry resolves chains at lookup time.
func Seed(reg *registry.Registry, data []byte, prefix string) (int, error) {
	parsed, err := Parse(data, prefix)
	if err != nil {
		return 0, err
	}

	rootWeight := specificity.OfClass()
	added := 0
	for _, tok := range parsed {
		value := strings.TrimSpace(tok.Value)
		if value == "" {
			continue
		}
		reg.Register(&registry.Definition{
			Name:        tok.CSSVariableName(),
			Value:       value,
			Specificity: rootWeight,
			SourceOrder: reg.NextOrder(),
		})
		added++
	}
	return added, nil
}
