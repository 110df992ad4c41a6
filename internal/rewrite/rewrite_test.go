package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utilify.dev/utilify/internal/parser/html"
	"utilify.dev/utilify/internal/rewrite"
	"utilify.dev/utilify/internal/selector"
)

func parse(t *testing.T, source string) *html.Document {
	t.Helper()
	parser := html.AcquireParser()
	defer html.ReleaseParser(parser)
	doc, err := parser.Parse(source)
	require.NoError(t, err)
	return doc
}

func classRule(t *testing.T, raw string, tokens ...string) rewrite.ClassRule {
	t.Helper()
	parsed := selector.Classify(raw)
	require.False(t, parsed.Complex, "selector %q", raw)
	return rewrite.ClassRule{Parsed: parsed, Tokens: tokens}
}

func TestApplyToClassTarget(t *testing.T) {
	doc := parse(t, `<div class="card">x</div>`)
	out, touched := rewrite.Apply(doc, []rewrite.ClassRule{
		classRule(t, ".card", "p-4", "bg-white"),
	})
	assert.Equal(t, 1, touched)
	assert.Equal(t, `<div class="card p-4 bg-white">x</div>`, out)
}

func TestApplyToElementTarget(t *testing.T) {
	doc := parse(t, `<h1>Title</h1>`)
	out, touched := rewrite.Apply(doc, []rewrite.ClassRule{
		classRule(t, "h1", "text-3xl", "font-bold"),
	})
	assert.Equal(t, 1, touched)
	assert.Equal(t, `<h1 class="text-3xl font-bold">Title</h1>`, out)
}

// TestApplyDescendant: the rule only matches h1 elements under the parent
// target.
func TestApplyDescendant(t *testing.T) {
	doc := parse(t, `<div class="blog-main"><h1>In</h1></div><h1>Out</h1>`)
	out, touched := rewrite.Apply(doc, []rewrite.ClassRule{
		classRule(t, ".blog-main h1", "text-3xl"),
	})
	assert.Equal(t, 1, touched)
	assert.Equal(t, `<div class="blog-main"><h1 class="text-3xl">In</h1></div><h1>Out</h1>`, out)
}

func TestApplyDeepDescendant(t *testing.T) {
	doc := parse(t, `<div class="wrap"><section><p>deep</p></section></div>`)
	out, touched := rewrite.Apply(doc, []rewrite.ClassRule{
		classRule(t, ".wrap p", "text-sm"),
	})
	assert.Equal(t, 1, touched)
	assert.Contains(t, out, `<p class="text-sm">`)
}

func TestApplyIdempotent(t *testing.T) {
	rules := []rewrite.ClassRule{classRule(t, ".card", "p-4")}

	doc := parse(t, `<div class="card">x</div>`)
	once, _ := rewrite.Apply(doc, rules)

	doc = parse(t, once)
	twice, touched := rewrite.Apply(doc, rules)
	assert.Equal(t, 0, touched)
	assert.Equal(t, once, twice)
}

func TestApplyMultipleElements(t *testing.T) {
	doc := parse(t, `<ul><li class="item">a</li><li class="item">b</li></ul>`)
	out, touched := rewrite.Apply(doc, []rewrite.ClassRule{
		classRule(t, ".item", "mb-2"),
	})
	assert.Equal(t, 2, touched)
	assert.Equal(t, `<ul><li class="item mb-2">a</li><li class="item mb-2">b</li></ul>`, out)
}

func TestApplyNoMatch(t *testing.T) {
	source := `<div class="hero">x</div>`
	doc := parse(t, source)
	out, touched := rewrite.Apply(doc, []rewrite.ClassRule{
		classRule(t, ".card", "p-4"),
	})
	assert.Equal(t, 0, touched)
	assert.Equal(t, source, out)
}

func TestMatches(t *testing.T) {
	doc := parse(t, `<div class="outer"><span class="inner">x</span></div>`)

	byClass := map[string]int{}
	for i, el := range doc.Elements {
		if len(el.Classes) > 0 {
			byClass[el.Classes[0]] = i
		}
	}

	inner := selector.Classify(".outer .inner")
	assert.True(t, rewrite.Matches(doc, byClass["inner"], inner))
	assert.False(t, rewrite.Matches(doc, byClass["outer"], inner))

	complex := selector.Classify(".a > .b")
	assert.False(t, rewrite.Matches(doc, byClass["inner"], complex))
}

func TestSplice(t *testing.T) {
	out := rewrite.Splice("hello world", []rewrite.Edit{
		{Span: html.Span{Start: 6, End: 11}, Text: "there"},
		{Span: html.Span{Start: 0, End: 5}, Text: "hi"},
	})
	assert.Equal(t, "hi there", out)
}
