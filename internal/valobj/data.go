package valobj

import (
	"encoding/binary"

	"github.com/alloyengine/peek/internal/layout"
)

// DataValue is a Value backed by a plain byte buffer instead of target
// memory. Relabeled synthetic children are DataValues sharing the parent
// component's bytes and type.
type DataValue struct {
	name   string
	typ    *layout.Type
	data   []byte
	target Target
}

// NewDataValue wraps data as a value of the given type. target may be nil
// for detached values; byte order then defaults to little-endian.
func NewDataValue(name string, typ *layout.Type, data []byte, target Target) *DataValue {
	return &DataValue{name: name, typ: typ, data: data, target: target}
}

func (v *DataValue) Name() string { return v.name }

func (v *DataValue) TypeName() string {
	if v.typ == nil {
		return ""
	}
	return v.typ.Name
}

func (v *DataValue) Type() *layout.Type { return v.typ }

func (v *DataValue) Target() Target { return v.target }

func (v *DataValue) Data() ([]byte, error) {
	if v.data == nil {
		return nil, ErrNoData
	}
	return v.data, nil
}

func (v *DataValue) ChildByName(name string) (Value, error) {
	m, ok := v.typ.Member(name)
	if !ok {
		return nil, ErrNoMember
	}
	end := m.Offset + m.Type.Size
	if uint64(len(v.data)) < end {
		return nil, ErrNoData
	}
	return NewDataValue(name, m.Type, v.data[m.Offset:end], v.target), nil
}

func (v *DataValue) Float() (float64, error) {
	return DecodeFloat(v.data, v.typ, v.byteOrder())
}

func (v *DataValue) Uint() (uint64, error) {
	return DecodeUint(v.data, v.typ, v.byteOrder())
}

func (v *DataValue) byteOrder() binary.ByteOrder {
	if v.target != nil {
		return v.target.ByteOrder()
	}
	return binary.LittleEndian
}
