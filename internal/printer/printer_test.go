package printer

import (
	"testing"
)

func TestDefaultPatterns(t *testing.T) {
	reg := Default()

	registered := []string{
		"alloy::math::quaternion::Quaternion",
		"alloy::math::vec::vec2::Vec2",
		"alloy::math::vec::vec3::Vec3",
		"alloy::math::vec::vec4::Vec4",
		"alloy::math::mat::mat4::Mat4",
		"alloy::model::color::Color",
	}

	for _, typeName := range registered {
		t.Run(typeName, func(t *testing.T) {
			p, ok := reg.Lookup(typeName)
			if !ok {
				t.Fatalf("Lookup(%q) found no printer", typeName)
			}
			if p.Synthetic == nil {
				t.Fatal("synthetic hook should be registered")
			}
			if p.Summary == nil {
				t.Fatal("summary hook should be registered")
			}
		})
	}

	for _, typeName := range []string{"alloy::math::vec::Vector4", "std::vector<float>", "float", ""} {
		if _, ok := reg.Lookup(typeName); ok {
			t.Fatalf("Lookup(%q) should find no printer", typeName)
		}
	}
}

func TestDefaultDispatch(t *testing.T) {
	reg := Default()

	q := quaternionValue(1, 2, 0, -3)
	p, ok := reg.Lookup(q.TypeName())
	if !ok {
		t.Fatalf("Lookup(%q) found no printer", q.TypeName())
	}
	if got := p.Summary(q); got != "1 +2i -3k" {
		t.Fatalf("Summary = %q, want 1 +2i -3k", got)
	}
	syn := p.Synthetic(q)
	if n := syn.NumChildren(); n != 4 {
		t.Fatalf("NumChildren = %d, want 4", n)
	}
	if child := syn.ChildAtIndex(1); child == nil || child.Name() != "i" {
		t.Fatalf("ChildAtIndex(1) = %v, want child named i", child)
	}

	v := fatView(t, "alloy::math::vec::vec2::Vec2", vecDataAddr, 2, []float32{3, -4})
	p, ok = reg.Lookup(v.TypeName())
	if !ok {
		t.Fatalf("Lookup(%q) found no printer", v.TypeName())
	}
	if got := p.Summary(v); got != "{x:3, y:-4}" {
		t.Fatalf("Summary = %q, want {x:3, y:-4}", got)
	}
	if n := p.Synthetic(v).NumChildren(); n != 2 {
		t.Fatalf("NumChildren = %d, want 2", n)
	}
}
