package resolver

import (
	"github.com/agentic-research/fieldpath/internal/keypath"
	"github.com/agentic-research/fieldpath/internal/schema"
	"github.com/spf13/cast"
)

// resolveVariant picks the variant of u for the value at path. An explicit
// annotation on seg wins; otherwise the discriminator is read from
// values[path + "." + u.TypeKey].
func resolveVariant(u *schema.Union, seg keypath.Segment, path string, values map[string]any) (*schema.Object, bool) {
	if seg.HasVariant {
		return u.Variant(seg.Variant)
	}

	raw, ok := values[keypath.Join(path, u.TypeKey)]
	if !ok || raw == nil {
		return nil, false
	}
	name, err := cast.ToStringE(raw)
	if err != nil || name == "" {
		return nil, false
	}
	return u.Variant(name)
}
