package variant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"utilify.dev/utilify/internal/breakpoint"
	"utilify.dev/utilify/internal/variant"
)

func newAssembler() *variant.Assembler {
	return variant.NewAssembler(breakpoint.Default())
}

// TestNormalizeOrder checks the canonical family order: responsive first by
// width ascending, then states by fixed priority, then unknown names
// lexicographically.
func TestNormalizeOrder(t *testing.T) {
	asm := newAssembler()
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"hover", "md"}, []string{"md", "hover"}},
		{[]string{"focus", "hover"}, []string{"hover", "focus"}},
		{[]string{"lg", "sm"}, []string{"sm", "lg"}},
		{[]string{"zeta", "alpha", "hover", "md"}, []string{"md", "hover", "alpha", "zeta"}},
		{[]string{"after", "before", "first", "last"}, []string{"first", "last", "before", "after"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, asm.Normalize(tt.in))
	}
}

func TestNormalizeDedupes(t *testing.T) {
	asm := newAssembler()
	assert.Equal(t, []string{"md", "hover"}, asm.Normalize([]string{"hover", "md", "hover", "", "md"}))
}

func TestKeyEquality(t *testing.T) {
	asm := newAssembler()
	assert.Equal(t, asm.Key([]string{"hover", "md"}), asm.Key([]string{"md", "hover"}))
	assert.NotEqual(t, asm.Key([]string{"hover"}), asm.Key([]string{"focus"}))
	assert.Equal(t, "", asm.Key(nil))
}

func TestAssemble(t *testing.T) {
	asm := newAssembler()
	assert.Equal(t, "bg-blue-500", asm.Assemble("bg-blue-500", nil))
	assert.Equal(t, "hover:bg-blue-500", asm.Assemble("bg-blue-500", []string{"hover"}))
	assert.Equal(t, "md:hover:bg-blue-500", asm.Assemble("bg-blue-500", []string{"hover", "md"}))
}

func TestMerge(t *testing.T) {
	asm := newAssembler()
	merged := asm.Merge([]variant.TokenVariants{
		{Token: "font-bold", Variants: []string{"md"}},
		{Token: "text-xl"},
		{Token: "font-bold", Variants: []string{"hover"}},
	})
	assert.Equal(t, []variant.TokenVariants{
		{Token: "font-bold", Variants: []string{"md", "hover"}},
		{Token: "text-xl", Variants: []string{}},
	}, merged)
}
