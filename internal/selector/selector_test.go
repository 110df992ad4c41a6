package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utilify.dev/utilify/internal/selector"
	"utilify.dev/utilify/internal/specificity"
)

func TestClassifySimpleClass(t *testing.T) {
	p := selector.Classify(".card")
	require.False(t, p.Complex)
	assert.Equal(t, &selector.Target{Kind: selector.KindClass, Name: "card"}, p.Target)
	assert.Nil(t, p.Parent)
	assert.Empty(t, p.Variants)
}

func TestClassifySimpleElement(t *testing.T) {
	p := selector.Classify("H1")
	require.False(t, p.Complex)
	assert.Equal(t, &selector.Target{Kind: selector.KindElement, Name: "h1"}, p.Target)
}

func TestClassifyDescendant(t *testing.T) {
	p := selector.Classify(".blog-main h1")
	require.False(t, p.Complex)
	assert.True(t, p.IsDescendant())
	assert.Equal(t, &selector.Target{Kind: selector.KindClass, Name: "blog-main"}, p.Parent)
	assert.Equal(t, &selector.Target{Kind: selector.KindElement, Name: "h1"}, p.Target)
}

func TestClassifyPseudoVariant(t *testing.T) {
	p := selector.Classify(".card:hover")
	require.False(t, p.Complex)
	assert.Equal(t, []string{"hover"}, p.Variants)

	p = selector.Classify("a:first-child")
	require.False(t, p.Complex)
	assert.Equal(t, []string{"first"}, p.Variants)

	p = selector.Classify(".icon::before")
	require.False(t, p.Complex)
	assert.Equal(t, []string{"before"}, p.Variants)
}

// TestClassifyComplex covers every rejection with its reason; same input,
// same reason, every time.
func TestClassifyComplex(t *testing.T) {
	tests := []struct {
		raw    string
		reason string
	}{
		{"", "empty selector"},
		{"   ", "empty selector"},
		{".a > .b", "child or sibling combinator"},
		{".a + .b", "child or sibling combinator"},
		{".a ~ .b", "child or sibling combinator"},
		{"[disabled]", "attribute selector"},
		{":nth-child(2)", "function-style pseudo"},
		{"#header", "id selector"},
		{".a .b .c", "more than two selector parts"},
		{".card:hover:focus", "more than one pseudo segment"},
		{".nav a:hover", "pseudo on descendant selector"},
		{"h2.title", "compound selector"},
		{"li:nth-of-type(3)", "function-style pseudo"},
		{".btn:unknown-pseudo", "unsupported pseudo :unknown-pseudo"},
	}
	for _, tt := range tests {
		p := selector.Classify(tt.raw)
		assert.True(t, p.Complex, "selector %q", tt.raw)
		assert.Equal(t, tt.reason, p.Reason, "selector %q", tt.raw)
		assert.Nil(t, p.Target)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	first := selector.Classify(".card:hover")
	second := selector.Classify(".card:hover")
	assert.Equal(t, first, second)
}

func TestSpecificityOfClassified(t *testing.T) {
	tests := []struct {
		raw  string
		want specificity.Specificity
	}{
		{".card", specificity.Specificity{Class: 1}},
		{"h1", specificity.Specificity{Element: 1}},
		{".blog-main h1", specificity.Specificity{Class: 1, Element: 1}},
		{".card:hover", specificity.Specificity{Class: 2}},
		{"a:hover", specificity.Specificity{Class: 1, Element: 1}},
	}
	for _, tt := range tests {
		p := selector.Classify(tt.raw)
		assert.Equal(t, tt.want, p.Specificity(), "selector %q", tt.raw)
	}
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, ".card", selector.Target{Kind: selector.KindClass, Name: "card"}.String())
	assert.Equal(t, "h1", selector.Target{Kind: selector.KindElement, Name: "h1"}.String())
}
