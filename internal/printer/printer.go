// Package printer implements the alloy math type printers: a synthetic
// child provider and a one-line summary formatter per type. Providers are
// rebuilt on every inspection so children reflect current target memory.
// Failures never propagate: summaries degrade to a fixed placeholder,
// children to nil, name lookups to -1.
package printer

import (
	"strconv"

	"github.com/alloyengine/peek/internal/registry"
	"github.com/alloyengine/peek/internal/valobj"
)

// floatTypeName is the component type looked up in the target, matching the
// debug information alloy emits for f32.
const floatTypeName = "float"

// Default returns a registry with all the alloy printers registered under
// the fully-qualified type names the debuggee emits.
func Default() *registry.Registry {
	r := registry.New()
	register := func(pattern string, factory registry.SyntheticFactory, summary registry.SummaryFunc) {
		if err := r.AddSynthetic(pattern, factory); err != nil {
			panic(err)
		}
		if err := r.AddSummary(pattern, summary); err != nil {
			panic(err)
		}
	}
	register(`alloy::math::quaternion::Quaternion`, func(v valobj.Value) registry.Synthetic { return NewQuaternion(v) }, QuaternionSummary)
	register(`alloy::math::vec::vec2::Vec2`, func(v valobj.Value) registry.Synthetic { return NewVec2(v) }, Vec2Summary)
	register(`alloy::math::vec::vec3::Vec3`, func(v valobj.Value) registry.Synthetic { return NewVec3(v) }, Vec3Summary)
	register(`alloy::math::vec::vec4::Vec4`, func(v valobj.Value) registry.Synthetic { return NewVec4(v) }, Vec4Summary)
	register(`alloy::math::mat::mat4::Mat4`, func(v valobj.Value) registry.Synthetic { return NewMat4(v) }, Mat4Summary)
	register(`alloy::model::color::Color`, func(v valobj.Value) registry.Synthetic { return NewColor(v) }, ColorSummary)
	return r
}

// formatFloat renders a component the way a debugger displays a float: the
// shortest representation that round-trips a 4-byte value.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 32)
}

// memberUint reads a named unsigned member, zero when absent or unreadable,
// matching a debugger's GetValueAsUnsigned error default.
func memberUint(v valobj.Value, name string) uint64 {
	child, err := v.ChildByName(name)
	if err != nil {
		return 0
	}
	u, err := child.Uint()
	if err != nil {
		return 0
	}
	return u
}
