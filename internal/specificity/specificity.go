// Package specificity implements the 4-component CSS specificity weight used
// to rank competing declarations, following the ordering rules of
// https://www.w3.org/TR/selectors/#specificity-rules with an extra leading
// component for inline-style origins.
package specificity

import "fmt"

// Specificity is the cascade weight of a selector. Components are ordered
// most significant first and compared lexicographically. Values are never
// mutated after creation.
type Specificity struct {
	// Inline is 1 for inline-style origins, 0 otherwise. An inline origin
	// dominates any stylesheet selector.
	Inline int
	// ID counts id selectors.
	ID int
	// Class counts class selectors, attribute selectors, and simple
	// pseudo-classes.
	Class int
	// Element counts type selectors and pseudo-elements.
	Element int
}

// Inline returns the sentinel specificity of an inline-style origin.
func Inline() Specificity {
	return Specificity{Inline: 1}
}

// OfClass returns the specificity of a single class selector.
func OfClass() Specificity {
	return Specificity{Class: 1}
}

// OfElement returns the specificity of a single type selector.
func OfElement() Specificity {
	return Specificity{Element: 1}
}

// ForDescendant returns the specificity of a two-part descendant selector.
// Each side contributes one unit of class or element weight; the combinator
// itself contributes nothing.
func ForDescendant(parentIsClass, targetIsClass bool) Specificity {
	var s Specificity
	if parentIsClass {
		s.Class++
	} else {
		s.Element++
	}
	if targetIsClass {
		s.Class++
	} else {
		s.Element++
	}
	return s
}

// Add returns the component-wise sum of two specificities.
func (s Specificity) Add(other Specificity) Specificity {
	return Specificity{
		Inline:  s.Inline + other.Inline,
		ID:      s.ID + other.ID,
		Class:   s.Class + other.Class,
		Element: s.Element + other.Element,
	}
}

// Compare orders two specificities lexicographically, most significant
// component first. A positive result means a wins over b.
func Compare(a, b Specificity) int {
	if a.Inline != b.Inline {
		return a.Inline - b.Inline
	}
	if a.ID != b.ID {
		return a.ID - b.ID
	}
	if a.Class != b.Class {
		return a.Class - b.Class
	}
	return a.Element - b.Element
}

// String renders the specificity as "(inline,id,class,element)".
func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", s.Inline, s.ID, s.Class, s.Element)
}

// FromSelector computes the specificity of a raw selector string by
// structural counting. It recognizes id selectors, class selectors,
// attribute selectors, pseudo-classes, pseudo-elements, and type selectors.
// Combinators and the universal selector contribute nothing.
func FromSelector(selector string) Specificity {
	var s Specificity
	i := 0
	n := len(selector)
	for i < n {
		c := selector[i]
		switch {
		case c == '#':
			i++
			i = skipName(selector, i)
			s.ID++
		case c == '.':
			i++
			i = skipName(selector, i)
			s.Class++
		case c == '[':
			// Attribute selectors weigh the same as classes.
			for i < n && selector[i] != ']' {
				i++
			}
			if i < n {
				i++
			}
			s.Class++
		case c == ':':
			if i+1 < n && selector[i+1] == ':' {
				// Pseudo-element, weighs as an element.
				i += 2
				i = skipName(selector, i)
				s.Element++
			} else {
				i++
				i = skipName(selector, i)
				// Functional arguments are skipped; the pseudo-class
				// itself still counts once.
				if i < n && selector[i] == '(' {
					depth := 1
					i++
					for i < n && depth > 0 {
						switch selector[i] {
						case '(':
							depth++
						case ')':
							depth--
						}
						i++
					}
				}
				s.Class++
			}
		case c == '*':
			i++
		case isNameByte(c):
			i = skipName(selector, i)
			s.Element++
		default:
			// Whitespace, combinators, commas.
			i++
		}
	}
	return s
}

func skipName(s string, i int) int {
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	return i
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c >= 0x80
}
