package printer

import (
	"encoding/binary"
	"testing"

	"github.com/alloyengine/peek/internal/layout"
	"github.com/alloyengine/peek/internal/testutil"
	"github.com/alloyengine/peek/internal/valobj"
	"github.com/go-gl/mathgl/mgl32"
)

func vector4Type() *layout.Type {
	float := &layout.Type{Kind: layout.KindFloat, Name: "float", Size: 4}
	return &layout.Type{
		Kind: layout.KindStruct,
		Name: "alloy::math::vec::Vector4",
		Size: 16,
		Members: []layout.Member{
			{Name: "x", Type: float, Offset: 0},
			{Name: "y", Type: float, Offset: 4},
			{Name: "z", Type: float, Offset: 8},
			{Name: "w", Type: float, Offset: 12},
		},
	}
}

func quaternionType() *layout.Type {
	return &layout.Type{
		Kind: layout.KindStruct,
		Name: "alloy::math::quaternion::Quaternion",
		Size: 16,
		Members: []layout.Member{
			{Name: "0", Type: vector4Type(), Offset: 0},
		},
	}
}

func quaternionValue(w, i, j, k float32) valobj.Value {
	data := testutil.QuatData(binary.LittleEndian, mgl32.Quat{W: w, V: mgl32.Vec3{i, j, k}})
	return valobj.NewDataValue("q", quaternionType(), data, nil)
}

func TestQuaternionSummary(t *testing.T) {
	tests := []struct {
		name       string
		w, i, j, k float32
		want       string
	}{
		{
			name: "all zero",
			want: "0",
		},
		{
			name: "real only",
			w:    1,
			want: "1",
		},
		{
			name: "negative real",
			w:    -1,
			want: "-1",
		},
		{
			name: "negative imaginary only",
			i:    -2,
			want: "-2i",
		},
		{
			name: "zero terms omitted",
			w:    1,
			i:    2,
			k:    -3,
			want: "1 +2i -3k",
		},
		{
			name: "all terms",
			w:    1,
			i:    -1,
			j:    0.5,
			k:    -0.25,
			want: "1 -1i +0.5j -0.25k",
		},
		{
			name: "fractional single term",
			j:    2.5,
			want: "2.5j",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuaternionSummary(quaternionValue(tt.w, tt.i, tt.j, tt.k))
			if got != tt.want {
				t.Fatalf("QuaternionSummary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuaternionSummaryPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		v    valobj.Value
	}{
		{
			name: "missing tuple member",
			v:    valobj.NewDataValue("q", vector4Type(), testutil.Float32Data(binary.LittleEndian, 1, 2, 3, 4), nil),
		},
		{
			name: "truncated data",
			v:    valobj.NewDataValue("q", quaternionType(), make([]byte, 8), nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuaternionSummary(tt.v); got != "Quaternion(err)" {
				t.Fatalf("QuaternionSummary = %q, want Quaternion(err)", got)
			}
		})
	}
}

func TestQuaternionChildren(t *testing.T) {
	q := NewQuaternion(quaternionValue(1, 2, 3, 4))

	if n := q.NumChildren(); n != 4 {
		t.Fatalf("NumChildren = %d, want 4", n)
	}

	want := []struct {
		name  string
		value float64
	}{
		{name: "w", value: 1},
		{name: "i", value: 2},
		{name: "j", value: 3},
		{name: "k", value: 4},
	}

	for i, w := range want {
		child := q.ChildAtIndex(i)
		if child == nil {
			t.Fatalf("ChildAtIndex(%d) = nil", i)
		}
		if child.Name() != w.name {
			t.Fatalf("ChildAtIndex(%d).Name() = %q, want %q", i, child.Name(), w.name)
		}
		if child.TypeName() != "float" {
			t.Fatalf("ChildAtIndex(%d).TypeName() = %q, want float", i, child.TypeName())
		}
		f, err := child.Float()
		if err != nil {
			t.Fatalf("ChildAtIndex(%d).Float() failed: %v", i, err)
		}
		if f != w.value {
			t.Fatalf("ChildAtIndex(%d).Float() = %v, want %v", i, f, w.value)
		}
		if got := q.ChildIndex(child.Name()); got != i {
			t.Fatalf("ChildIndex(%q) = %d, want %d", child.Name(), got, i)
		}
	}

	if q.ChildAtIndex(-1) != nil {
		t.Fatal("ChildAtIndex(-1) should be nil")
	}
	if q.ChildAtIndex(4) != nil {
		t.Fatal("ChildAtIndex(4) should be nil")
	}
	if got := q.ChildIndex("x"); got != -1 {
		t.Fatalf("ChildIndex(x) = %d, want -1", got)
	}
}

func TestQuaternionChildrenDegraded(t *testing.T) {
	broken := NewQuaternion(valobj.NewDataValue("q", vector4Type(), nil, nil))

	if n := broken.NumChildren(); n != 4 {
		t.Fatalf("NumChildren = %d, want 4 even for a degraded value", n)
	}
	for i := 0; i < 4; i++ {
		if child := broken.ChildAtIndex(i); child != nil {
			t.Fatalf("ChildAtIndex(%d) = %v, want nil", i, child)
		}
	}
	if got := broken.ChildIndex("w"); got != 0 {
		t.Fatalf("ChildIndex(w) = %d, want 0", got)
	}
}
