package printer

import (
	"math"
	"strings"

	"github.com/alloyengine/peek/internal/valobj"
)

// quaternionErrSummary is returned whenever component extraction or numeric
// conversion fails; the debugger UI must always receive a printable string.
const quaternionErrSummary = "Quaternion(err)"

// Quaternion exposes the four components of an alloy quaternion as named
// children. The debuggee stores them in a single Vector4 member where x
// holds the real part and y/z/w hold i/j/k.
type Quaternion struct {
	w valobj.Value
	i valobj.Value
	j valobj.Value
	k valobj.Value
}

func NewQuaternion(v valobj.Value) *Quaternion {
	q := new(Quaternion)
	vec, err := v.ChildByName("0")
	if err != nil {
		return q
	}
	q.w, _ = vec.ChildByName("x")
	q.i, _ = vec.ChildByName("y")
	q.j, _ = vec.ChildByName("z")
	q.k, _ = vec.ChildByName("w")
	return q
}

func (q *Quaternion) NumChildren() int {
	return 4
}

func (q *Quaternion) ChildAtIndex(index int) valobj.Value {
	var component valobj.Value
	var name string
	switch index {
	case 0:
		component, name = q.w, "w"
	case 1:
		component, name = q.i, "i"
	case 2:
		component, name = q.j, "j"
	case 3:
		component, name = q.k, "k"
	default:
		return nil
	}
	if component == nil {
		return nil
	}
	data, err := component.Data()
	if err != nil {
		return nil
	}
	return valobj.NewDataValue(name, component.Type(), data, component.Target())
}

func (q *Quaternion) ChildIndex(name string) int {
	switch name {
	case "w":
		return 0
	case "i":
		return 1
	case "j":
		return 2
	case "k":
		return 3
	}
	return -1
}

// QuaternionSummary renders the components as a signed polynomial over the
// basis {1, i, j, k}. Terms that are exactly zero are omitted; when all four
// are zero the summary is "0".
func QuaternionSummary(v valobj.Value) string {
	q := NewQuaternion(v)
	components := [4]valobj.Value{q.w, q.i, q.j, q.k}
	suffixes := [4]string{"", "i", "j", "k"}

	var sb strings.Builder
	for n, component := range components {
		if component == nil {
			return quaternionErrSummary
		}
		f, err := component.Float()
		if err != nil {
			return quaternionErrSummary
		}
		if f == 0 {
			continue
		}
		if sb.Len() == 0 {
			if f < 0 {
				sb.WriteByte('-')
			}
		} else if f < 0 {
			sb.WriteString(" -")
		} else {
			sb.WriteString(" +")
		}
		sb.WriteString(formatFloat(math.Abs(f)))
		sb.WriteString(suffixes[n])
	}
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}
