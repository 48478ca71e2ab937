// Package keypath parses the dotted key paths that address values inside a
// document, e.g. "blocks.0<image>.src".
//
// Each dot-separated chunk becomes a Segment carrying a field name, a
// numeric index, and an explicit variant annotation, any of which may be
// absent. Parsing never fails: a chunk that is not a well-formed index or
// annotation is kept as a literal name.
package keypath

import (
	"strconv"
	"strings"
)

// Wildcard is the index placeholder accepted where a concrete index is expected.
const Wildcard = "*"

// Segment is one parsed chunk of a key path.
type Segment struct {
	// Raw is the chunk as it appeared in the path.
	Raw string
	// Name is the field name. Empty for pure index or annotation chunks.
	Name string
	// Index is valid when HasIndex is set.
	Index    int
	HasIndex bool
	// Variant is the explicit union variant from a "<name>" suffix.
	Variant    string
	HasVariant bool
}

// IsIndex reports whether s is a pure numeric index ("3").
func (s Segment) IsIndex() bool {
	return s.HasIndex && s.Name == "" && !s.HasVariant
}

// IsWildcard reports whether s names the wildcard index ("*" or "*<x>").
func (s Segment) IsWildcard() bool {
	return s.Name == Wildcard && !s.HasIndex
}

// IsPosition reports whether s addresses a list item rather than a field:
// a numeric index, the wildcard, or a bare annotation ("<image>").
func (s Segment) IsPosition() bool {
	if s.HasIndex {
		return s.Name == ""
	}
	return s.IsWildcard() || (s.Name == "" && s.HasVariant)
}

// Key returns the chunk as it appears in a concrete value-map path,
// i.e. without the variant annotation.
func (s Segment) Key() string {
	if s.HasIndex && s.Name == "" {
		return strconv.Itoa(s.Index)
	}
	return s.Name
}

func (s Segment) String() string {
	return s.Raw
}

// Parse splits path on "." and parses every chunk.
func Parse(path string) []Segment {
	chunks := strings.Split(path, ".")
	segs := make([]Segment, 0, len(chunks))
	for _, chunk := range chunks {
		segs = append(segs, ParseSegment(chunk))
	}
	return segs
}

// ParseSegment parses a single chunk.
func ParseSegment(chunk string) Segment {
	seg := Segment{Raw: chunk}
	if idx, ok := parseIndex(chunk); ok {
		seg.Index, seg.HasIndex = idx, true
		return seg
	}

	if prefix, variant, ok := splitAnnotation(chunk); ok {
		seg.Variant, seg.HasVariant = variant, true
		if idx, ok := parseIndex(prefix); ok {
			seg.Index, seg.HasIndex = idx, true
		} else {
			seg.Name = prefix
		}
		return seg
	}

	seg.Name = chunk
	return seg
}

// Join builds a concrete path from parts, skipping empty ones.
func Join(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

// parseIndex accepts non-empty ASCII digit strings that fit in an int.
func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitAnnotation matches `^(.*)<([^<>]+)>$`.
func splitAnnotation(s string) (prefix, variant string, ok bool) {
	if !strings.HasSuffix(s, ">") {
		return "", "", false
	}
	open := strings.LastIndexByte(s, '<')
	if open < 0 {
		return "", "", false
	}
	variant = s[open+1 : len(s)-1]
	if variant == "" || strings.ContainsAny(variant, "<>") {
		return "", "", false
	}
	return s[:open], variant, true
}
