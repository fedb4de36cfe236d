package printer

import (
	"fmt"

	"github.com/alloyengine/peek/internal/layout"
	"github.com/alloyengine/peek/internal/valobj"
)

// mat4Length is the number of packed floats behind a Mat4 fat pointer.
const mat4Length = 16

// Mat4 exposes a 4x4 matrix as four float[4] row children. Like Vec it is a
// fat-pointer view, but children are fabricated rows instead of scalars.
type Mat4 struct {
	v       valobj.Value
	dataPtr uint64
	length  uint64
}

func NewMat4(v valobj.Value) *Mat4 {
	return &Mat4{
		v:       v,
		dataPtr: memberUint(v, "data_ptr"),
		length:  memberUint(v, "length"),
	}
}

// NumChildren is 4 only when the stored length matches a full matrix; a
// partially initialized view exposes nothing rather than bogus rows.
func (m *Mat4) NumChildren() int {
	if m.length == mat4Length {
		return 4
	}
	return 0
}

func (m *Mat4) ChildAtIndex(index int) valobj.Value {
	if index < 0 || index >= 4 {
		return nil
	}
	target := m.v.Target()
	if target == nil {
		return nil
	}
	floatType, ok := target.FindType(floatTypeName)
	if !ok {
		return nil
	}
	rowType := layout.ArrayOf(floatType, 4)
	row, err := target.ValueFromAddress(fmt.Sprintf("[%d]", index), m.dataPtr+uint64(index)*4*4, rowType)
	if err != nil {
		return nil
	}
	return row
}

func (m *Mat4) ChildIndex(name string) int {
	switch name {
	case "[0]":
		return 0
	case "[1]":
		return 1
	case "[2]":
		return 2
	case "[3]":
		return 3
	}
	return -1
}

// Mat4Summary is constant; the row children carry the values.
func Mat4Summary(valobj.Value) string {
	return "Mat4(...)"
}
