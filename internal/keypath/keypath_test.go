package keypath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSegment(t *testing.T) {
	tests := []struct {
		chunk string
		want  Segment
	}{
		{"title", Segment{Raw: "title", Name: "title"}},
		{"0", Segment{Raw: "0", Index: 0, HasIndex: true}},
		{"42", Segment{Raw: "42", Index: 42, HasIndex: true}},
		{"0<image>", Segment{Raw: "0<image>", Index: 0, HasIndex: true, Variant: "image", HasVariant: true}},
		{"*<image>", Segment{Raw: "*<image>", Name: "*", Variant: "image", HasVariant: true}},
		{"<image>", Segment{Raw: "<image>", Variant: "image", HasVariant: true}},
		{"media<video>", Segment{Raw: "media<video>", Name: "media", Variant: "video", HasVariant: true}},
		{"*", Segment{Raw: "*", Name: "*"}},
		{"", Segment{Raw: ""}},

		// Malformed annotations stay literal names.
		{"*<image", Segment{Raw: "*<image", Name: "*<image"}},
		{"*image>", Segment{Raw: "*image>", Name: "*image>"}},
		{"0<image>x", Segment{Raw: "0<image>x", Name: "0<image>x"}},
		{"blocks<>", Segment{Raw: "blocks<>", Name: "blocks<>"}},
		{"a<>b>", Segment{Raw: "a<>b>", Name: "a<>b>"}},

		// Signs, spaces and overflow are not indices.
		{"-1", Segment{Raw: "-1", Name: "-1"}},
		{" 1", Segment{Raw: " 1", Name: " 1"}},
		{"99999999999999999999999", Segment{Raw: "99999999999999999999999", Name: "99999999999999999999999"}},
	}

	for _, tt := range tests {
		t.Run(tt.chunk, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSegment(tt.chunk))
		})
	}
}

func TestParse(t *testing.T) {
	segs := Parse("blocks.0<image>.src")
	assert.Len(t, segs, 3)
	assert.Equal(t, "blocks", segs[0].Name)
	assert.True(t, segs[1].HasIndex)
	assert.Equal(t, "image", segs[1].Variant)
	assert.Equal(t, "src", segs[2].Name)

	segs = Parse("blocks.*<image.src")
	assert.Len(t, segs, 3)
	assert.Equal(t, "*<image", segs[1].Name, "unclosed annotation is a literal name")
	assert.False(t, segs[1].HasVariant)

	assert.Len(t, Parse(""), 1)
}

func TestSegment_Predicates(t *testing.T) {
	tests := []struct {
		chunk      string
		isIndex    bool
		isWildcard bool
		isPosition bool
		key        string
	}{
		{"3", true, false, true, "3"},
		{"3<img>", false, false, true, "3"},
		{"*", false, true, true, "*"},
		{"*<img>", false, true, true, "*"},
		{"<img>", false, false, true, ""},
		{"title", false, false, false, "title"},
		{"title<img>", false, false, false, "title"},
	}
	for _, tt := range tests {
		t.Run(tt.chunk, func(t *testing.T) {
			s := ParseSegment(tt.chunk)
			assert.Equal(t, tt.isIndex, s.IsIndex(), "IsIndex")
			assert.Equal(t, tt.isWildcard, s.IsWildcard(), "IsWildcard")
			assert.Equal(t, tt.isPosition, s.IsPosition(), "IsPosition")
			assert.Equal(t, tt.key, s.Key(), "Key")
			assert.Equal(t, tt.chunk, s.String())
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "blocks.0.type", Join("blocks", "0", "type"))
	assert.Equal(t, "type", Join("", "type"))
	assert.Equal(t, "", Join())
}
