package printer

import (
	"fmt"
	"strings"

	"github.com/alloyengine/peek/internal/valobj"
)

var vecComponentNames = [4]string{"x", "y", "z", "w"}

// Vec exposes the components of an alloy vector as named children. The
// inspected value is a fat pointer {data_ptr, length} over packed floats,
// so children are fabricated by address rather than member lookup.
type Vec struct {
	v       valobj.Value
	arity   int
	dataPtr uint64
	length  uint64
}

func newVec(v valobj.Value, arity int) *Vec {
	return &Vec{
		v:       v,
		arity:   arity,
		dataPtr: memberUint(v, "data_ptr"),
		length:  memberUint(v, "length"),
	}
}

func NewVec2(v valobj.Value) *Vec { return newVec(v, 2) }

func NewVec3(v valobj.Value) *Vec { return newVec(v, 3) }

func NewVec4(v valobj.Value) *Vec { return newVec(v, 4) }

// NumChildren reports the stored length, capped at the vector's arity so a
// corrupt length cannot make the debugger enumerate unbounded children.
func (vec *Vec) NumChildren() int {
	if vec.length > uint64(vec.arity) {
		return vec.arity
	}
	return int(vec.length)
}

func (vec *Vec) ChildAtIndex(index int) valobj.Value {
	if index < 0 || index >= vec.arity {
		return nil
	}
	if vec.dataPtr == 0 {
		return nil
	}
	target := vec.v.Target()
	if target == nil {
		return nil
	}
	floatType, ok := target.FindType(floatTypeName)
	if !ok {
		return nil
	}
	child, err := target.ValueFromAddress(vecComponentNames[index], vec.dataPtr+uint64(index)*4, floatType)
	if err != nil {
		return nil
	}
	return child
}

func (vec *Vec) ChildIndex(name string) int {
	for n := 0; n < vec.arity; n++ {
		if vecComponentNames[n] == name {
			return n
		}
	}
	return -1
}

func Vec2Summary(v valobj.Value) string { return vecSummary(v, 2) }

func Vec3Summary(v valobj.Value) string { return vecSummary(v, 3) }

func Vec4Summary(v valobj.Value) string { return vecSummary(v, 4) }

// vecSummary renders "{x:..., y:...}" from the pointed-to floats. A nil data
// pointer, a length that disagrees with the arity, and a failed read each
// degrade to their own placeholder so the UI can tell the cases apart.
func vecSummary(v valobj.Value, arity int) string {
	vec := newVec(v, arity)
	if vec.dataPtr == 0 {
		return fmt.Sprintf("Vec%d(null)", arity)
	}
	if vec.length != uint64(arity) {
		return fmt.Sprintf("Vec%d(?)", arity)
	}

	errSummary := fmt.Sprintf("Vec%d(err)", arity)
	target := v.Target()
	if target == nil {
		return errSummary
	}
	floatType, ok := target.FindType(floatTypeName)
	if !ok {
		return errSummary
	}

	var sb strings.Builder
	sb.WriteByte('{')
	for n := 0; n < arity; n++ {
		child, err := target.ValueFromAddress(vecComponentNames[n], vec.dataPtr+uint64(n)*4, floatType)
		if err != nil {
			return errSummary
		}
		f, err := child.Float()
		if err != nil {
			return errSummary
		}
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(vecComponentNames[n])
		sb.WriteByte(':')
		sb.WriteString(formatFloat(f))
	}
	sb.WriteByte('}')
	return sb.String()
}
