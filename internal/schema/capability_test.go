package schema

import (
	"testing"

	"github.com/agentic-research/fieldpath/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMultiple(t *testing.T) {
	tests := []struct {
		name string
		f    Field
		want bool
	}{
		{"plain scalar", &Scalar{}, false},
		{"multiple scalar", &Scalar{Multiple: true}, true},
		{"object", &Object{}, false},
		{"object union", &ObjectUnion{}, false},
		{"list single", &ListSingle{}, true},
		{"list fixed", &ListFixed{}, true},
		{"list union", &ListUnion{}, true},
		{"list bare", &ListBare{}, true},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMultiple(tt.f))
		})
	}
}

func TestSummary(t *testing.T) {
	fields, err := BuildFields([]api.Field{
		{Name: "title"},
		{Name: "cities", Widget: "select", Multiple: true},
		{Name: "seo", Widget: "object", Fields: []api.Field{
			{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"}, {Name: "f"}, {Name: "g"},
		}},
		{Name: "tags", Widget: "list", Field: &api.Field{Name: "tag", Widget: "string"}},
		{Name: "links", Widget: "list", Fields: []api.Field{{Name: "url"}}},
		{Name: "blocks", Widget: "list", Types: []api.Field{{Name: "image"}, {Name: "text"}}},
		{Name: "media", Widget: "object", Types: []api.Field{{Name: "video"}}},
		{Name: "aliases", Widget: "list"},
	})
	require.NoError(t, err)

	want := []string{
		"string",
		"select(multiple)",
		"object{a,b,c,d,e,+2}",
		"list[string]",
		"list[object{url}]",
		"list<image|text>",
		"object<video>",
		"list",
	}
	for i, f := range fields {
		assert.Equal(t, want[i], Summary(f), NameOf(f))
	}
	assert.Equal(t, "none", Summary(nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "list-union", KindListUnion.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
