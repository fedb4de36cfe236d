package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/alloyengine/peek/internal/errorutil"
	"github.com/alloyengine/peek/internal/layout"
	"github.com/alloyengine/peek/internal/valobj"
)

// ErrUnmappedAddress indicates a read touched memory outside every captured
// region.
var ErrUnmappedAddress = errors.New("address not mapped in snapshot")

// ErrRootNotFound indicates the snapshot has no root with the requested
// name.
var ErrRootNotFound = errors.New("root not found")

// Target exposes a snapshot through the valobj reflection surface: type
// lookup, bounds-checked memory reads and value fabrication. It is
// read-only and safe for concurrent use once built.
type Target struct {
	table     *layout.Table
	regions   []Region
	byteOrder binary.ByteOrder
	roots     []Root
}

func NewTarget(s *Snapshot) (*Target, error) {
	table := layout.NewTable()
	if err := table.Load(s.Types); err != nil {
		return nil, fmt.Errorf("snapshot: %w: %s", errorutil.ErrDataIntegrity, err)
	}
	regions := make([]Region, len(s.Regions))
	copy(regions, s.Regions)
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Addr < regions[j].Addr
	})
	t := &Target{
		table:     table,
		regions:   regions,
		byteOrder: binary.LittleEndian,
		roots:     s.Roots,
	}
	if s.ByteOrder == ByteOrderBig {
		t.byteOrder = binary.BigEndian
	}
	return t, nil
}

// ReadMemory returns size bytes at addr. Reads must fall inside a single
// captured region; the returned slice aliases the region data and must be
// treated as read-only.
func (t *Target) ReadMemory(addr, size uint64) ([]byte, error) {
	for _, r := range t.regions {
		base := uint64(r.Addr)
		if addr < base {
			continue
		}
		off := addr - base
		if off > uint64(len(r.Data)) || uint64(len(r.Data))-off < size {
			continue
		}
		return r.Data[off : off+size], nil
	}
	return nil, fmt.Errorf("snapshot: %w: 0x%x", ErrUnmappedAddress, addr)
}

func (t *Target) FindType(name string) (*layout.Type, bool) {
	return t.table.Find(name)
}

// ValueFromAddress fabricates a value over target memory. The read is
// deferred until the value is used, so an unreadable address is reported by
// the accessors, not here.
func (t *Target) ValueFromAddress(name string, addr uint64, typ *layout.Type) (valobj.Value, error) {
	if typ == nil {
		return nil, valobj.ErrTypeMismatch
	}
	return &addrValue{name: name, typ: typ, addr: addr, target: t}, nil
}

// ValueFromData fabricates a detached value over the supplied bytes.
func (t *Target) ValueFromData(name string, data []byte, typ *layout.Type) (valobj.Value, error) {
	if typ == nil {
		return nil, valobj.ErrTypeMismatch
	}
	if uint64(len(data)) < typ.Size {
		return nil, valobj.ErrNoData
	}
	return valobj.NewDataValue(name, typ, data, t), nil
}

func (t *Target) ByteOrder() binary.ByteOrder {
	return t.byteOrder
}

// Root resolves a named root to a value.
func (t *Target) Root(name string) (valobj.Value, error) {
	for _, r := range t.roots {
		if r.Name != name {
			continue
		}
		typ, ok := t.table.Find(r.Type)
		if !ok {
			return nil, fmt.Errorf("snapshot: %w: root %q has unknown type %q", errorutil.ErrDataIntegrity, name, r.Type)
		}
		return t.ValueFromAddress(r.Name, uint64(r.Addr), typ)
	}
	return nil, fmt.Errorf("snapshot: %w: %q", ErrRootNotFound, name)
}

// Roots lists the snapshot's named roots in capture order.
func (t *Target) Roots() []Root {
	return t.roots
}

// addrValue is a value resident in snapshot memory. Reads happen on access
// so it behaves like a debugger value: fabricating one at a bogus address
// succeeds, using it fails.
type addrValue struct {
	name   string
	typ    *layout.Type
	addr   uint64
	target *Target
}

func (v *addrValue) Name() string { return v.name }

func (v *addrValue) TypeName() string { return v.typ.Name }

func (v *addrValue) Type() *layout.Type { return v.typ }

func (v *addrValue) Target() valobj.Target { return v.target }

func (v *addrValue) Data() ([]byte, error) {
	return v.target.ReadMemory(v.addr, v.typ.Size)
}

func (v *addrValue) ChildByName(name string) (valobj.Value, error) {
	m, ok := v.typ.Member(name)
	if !ok {
		return nil, valobj.ErrNoMember
	}
	return &addrValue{name: name, typ: m.Type, addr: v.addr + m.Offset, target: v.target}, nil
}

func (v *addrValue) Float() (float64, error) {
	data, err := v.Data()
	if err != nil {
		return 0, err
	}
	return valobj.DecodeFloat(data, v.typ, v.target.byteOrder)
}

func (v *addrValue) Uint() (uint64, error) {
	data, err := v.Data()
	if err != nil {
		return 0, err
	}
	return valobj.DecodeUint(data, v.typ, v.target.byteOrder)
}
