package specificity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"utilify.dev/utilify/internal/specificity"
)

func TestConstructors(t *testing.T) {
	assert.Equal(t, specificity.Specificity{Inline: 1}, specificity.Inline())
	assert.Equal(t, specificity.Specificity{Class: 1}, specificity.OfClass())
	assert.Equal(t, specificity.Specificity{Element: 1}, specificity.OfElement())
}

func TestForDescendant(t *testing.T) {
	assert.Equal(t, specificity.Specificity{Class: 2},
		specificity.ForDescendant(true, true))
	assert.Equal(t, specificity.Specificity{Class: 1, Element: 1},
		specificity.ForDescendant(true, false))
	assert.Equal(t, specificity.Specificity{Class: 1, Element: 1},
		specificity.ForDescendant(false, true))
	assert.Equal(t, specificity.Specificity{Element: 2},
		specificity.ForDescendant(false, false))
}

// TestCompareOrdering verifies the lexicographic total order: inline beats
// id beats class beats element, and only equal tuples compare equal.
func TestCompareOrdering(t *testing.T) {
	ordered := []specificity.Specificity{
		{},
		{Element: 1},
		{Element: 2},
		{Class: 1},
		{Class: 1, Element: 5},
		{Class: 2},
		{ID: 1},
		{ID: 1, Class: 3},
		{Inline: 1},
	}
	for i := range ordered {
		for j := range ordered {
			got := specificity.Compare(ordered[i], ordered[j])
			switch {
			case i < j:
				assert.Negative(t, got, "%v should lose to %v", ordered[i], ordered[j])
			case i > j:
				assert.Positive(t, got, "%v should beat %v", ordered[i], ordered[j])
			default:
				assert.Zero(t, got)
			}
		}
	}
}

func TestAdd(t *testing.T) {
	sum := specificity.OfClass().Add(specificity.OfClass()).Add(specificity.OfElement())
	assert.Equal(t, specificity.Specificity{Class: 2, Element: 1}, sum)
}

func TestString(t *testing.T) {
	assert.Equal(t, "(0,1,2,3)", specificity.Specificity{ID: 1, Class: 2, Element: 3}.String())
}

func TestFromSelector(t *testing.T) {
	tests := []struct {
		selector string
		want     specificity.Specificity
	}{
		{".card", specificity.Specificity{Class: 1}},
		{"h1", specificity.Specificity{Element: 1}},
		{"#header", specificity.Specificity{ID: 1}},
		{".blog-main h1", specificity.Specificity{Class: 1, Element: 1}},
		{".card:hover", specificity.Specificity{Class: 2}},
		{"a::before", specificity.Specificity{Element: 2}},
		{"ul li a", specificity.Specificity{Element: 3}},
		{"[disabled]", specificity.Specificity{Class: 1}},
		{"*", specificity.Specificity{}},
		{":root", specificity.Specificity{Class: 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, specificity.FromSelector(tt.selector), "selector %q", tt.selector)
	}
}
