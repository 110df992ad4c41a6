package html

// Span is a half-open byte range into the original source text.
type Span struct {
	Start uint
	End   uint
}

// StyleRegion is the raw text of one embedded <style> element.
type StyleRegion struct {
	// Text is the CSS source inside the element.
	Text string

	// Span covers the CSS text (not the tags) in the document.
	Span Span
}

// Element describes one markup element in document order. Elements form an
// arena indexed by position; Parent is an index into the same slice, or -1
// for document roots.
type Element struct {
	// Tag is the lowercased tag name.
	Tag string

	// Classes are the current class attribute values, in attribute order.
	Classes []string

	// ClassValueSpan covers the class attribute's value text when the
	// attribute exists; HasClassAttr is false otherwise.
	ClassValueSpan Span
	HasClassAttr   bool

	// TagNameEnd is the byte offset just after the start tag's name, where a
	// new class attribute can be inserted.
	TagNameEnd uint

	// Parent is the arena index of the enclosing element, or -1.
	Parent int
}

// Document is the parse result for one HTML text.
type Document struct {
	// Source is the original text.
	Source string

	// Styles are the embedded stylesheet regions in document order.
	Styles []StyleRegion

	// Elements is the element arena in document order.
	Elements []Element
}
