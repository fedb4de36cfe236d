// Package valobj models values resident in an inspected target's memory,
// exposed read-only through the capability surface a debugger supplies:
// member lookup, raw data access, numeric conversion, and construction of
// new values from addresses or bytes.
package valobj

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/alloyengine/peek/internal/layout"
)

// ErrNoMember indicates a structural lookup failed: the expected named
// member is absent from the value's type (stripped or mismatched debug
// information).
var ErrNoMember = errors.New("no such member")

// ErrNotNumeric indicates a value could not be converted to a number.
var ErrNotNumeric = errors.New("value is not numeric")

// ErrNoData indicates the bytes backing a value are unavailable or shorter
// than its type requires.
var ErrNoData = errors.New("value data unavailable")

// ErrTypeMismatch indicates a value could not be fabricated because the
// requested type is missing or does not fit the supplied storage.
var ErrTypeMismatch = errors.New("type mismatch")

type (
	// Value is a non-owning view of one value in the target. It is valid
	// for a single inspection pass; nothing retains it across debugger
	// stops, so every read reflects current target memory.
	Value interface {
		Name() string
		TypeName() string
		Type() *layout.Type

		// ChildByName resolves a named structural member.
		ChildByName(name string) (Value, error)
		// Float converts the value to a host float.
		Float() (float64, error)
		// Uint reads the value as an unsigned integer (pointers, lengths).
		Uint() (uint64, error)
		// Data returns the raw bytes backing the value.
		Data() ([]byte, error)

		Target() Target
	}

	// Target is the side of the debugger a Value hangs off: type lookup
	// and value fabrication, the equivalents of FindFirstType,
	// CreateValueFromAddress and CreateValueFromData.
	Target interface {
		FindType(name string) (*layout.Type, bool)
		ValueFromAddress(name string, addr uint64, typ *layout.Type) (Value, error)
		ValueFromData(name string, data []byte, typ *layout.Type) (Value, error)
		ByteOrder() binary.ByteOrder
	}
)

// DecodeFloat reads a floating-point number of the type's width from data.
func DecodeFloat(data []byte, typ *layout.Type, bo binary.ByteOrder) (float64, error) {
	if typ == nil {
		return 0, ErrNotNumeric
	}
	switch typ.Kind {
	case layout.KindFloat:
		switch typ.Size {
		case 4:
			if len(data) < 4 {
				return 0, ErrNoData
			}
			return float64(math.Float32frombits(bo.Uint32(data))), nil
		case 8:
			if len(data) < 8 {
				return 0, ErrNoData
			}
			return math.Float64frombits(bo.Uint64(data)), nil
		}
		return 0, ErrNotNumeric
	case layout.KindUint:
		u, err := DecodeUint(data, typ, bo)
		if err != nil {
			return 0, err
		}
		return float64(u), nil
	}
	return 0, ErrNotNumeric
}

// DecodeUint reads an unsigned integer of the type's width from data.
func DecodeUint(data []byte, typ *layout.Type, bo binary.ByteOrder) (uint64, error) {
	if typ == nil || (typ.Kind != layout.KindUint && typ.Kind != layout.KindPointer) {
		return 0, ErrNotNumeric
	}
	if uint64(len(data)) < typ.Size {
		return 0, ErrNoData
	}
	switch typ.Size {
	case 1:
		return uint64(data[0]), nil
	case 2:
		return uint64(bo.Uint16(data)), nil
	case 4:
		return uint64(bo.Uint32(data)), nil
	case 8:
		return bo.Uint64(data), nil
	}
	return 0, ErrNotNumeric
}
