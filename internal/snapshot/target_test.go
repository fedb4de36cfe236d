package snapshot

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/alloyengine/peek/internal/errorutil"
	"github.com/alloyengine/peek/internal/layout"
	"github.com/alloyengine/peek/internal/testutil"
	"github.com/alloyengine/peek/internal/valobj"
)

func TestTargetReadMemory(t *testing.T) {
	region := make([]byte, 16)
	for i := range region {
		region[i] = byte(i)
	}
	s := validSnapshot()
	s.Regions = []Region{{Addr: 0x1000, Data: region}}
	target, err := NewTarget(&s)
	if err != nil {
		t.Fatalf("NewTarget failed: %v", err)
	}

	tests := []struct {
		name    string
		addr    uint64
		size    uint64
		want    []byte
		wantErr bool
	}{
		{
			name: "inside region",
			addr: 0x1004,
			size: 4,
			want: []byte{4, 5, 6, 7},
		},
		{
			name: "whole region",
			addr: 0x1000,
			size: 16,
			want: region,
		},
		{
			name:    "before region",
			addr:    0x0fff,
			size:    4,
			wantErr: true,
		},
		{
			name:    "straddles region end",
			addr:    0x100d,
			size:    4,
			wantErr: true,
		},
		{
			name:    "unmapped",
			addr:    0x2000,
			size:    1,
			wantErr: true,
		},
		{
			name:    "size overflows",
			addr:    0x1000,
			size:    math.MaxUint64,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := target.ReadMemory(tt.addr, tt.size)
			if tt.wantErr {
				if !errors.Is(err, ErrUnmappedAddress) {
					t.Fatalf("ReadMemory = %v, want ErrUnmappedAddress", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadMemory failed: %v", err)
			}
			if diff := testutil.Diff(tt.want, got); diff != "" {
				t.Fatalf("ReadMemory mismatch: %s", diff)
			}
		})
	}
}

func TestTargetRoot(t *testing.T) {
	s := validSnapshot()
	target, err := NewTarget(&s)
	if err != nil {
		t.Fatalf("NewTarget failed: %v", err)
	}

	v, err := target.Root("position")
	if err != nil {
		t.Fatalf("Root(position) failed: %v", err)
	}
	if v.TypeName() != "alloy::math::vec::Vector4" {
		t.Fatalf("TypeName = %q", v.TypeName())
	}
	y, err := v.ChildByName("y")
	if err != nil {
		t.Fatalf("ChildByName(y) failed: %v", err)
	}
	f, err := y.Float()
	if err != nil {
		t.Fatalf("Float failed: %v", err)
	}
	if f != 2 {
		t.Fatalf("Float = %v, want 2", f)
	}

	if _, err := target.Root("missing"); !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("Root(missing) = %v, want ErrRootNotFound", err)
	}

	if diff := testutil.Diff(s.Roots, target.Roots()); diff != "" {
		t.Fatalf("Roots mismatch: %s", diff)
	}
}

func TestTargetRootUnknownType(t *testing.T) {
	s := validSnapshot()
	s.Roots[0].Type = "alloy::math::vec::Vector5"
	target, err := NewTarget(&s)
	if err != nil {
		t.Fatalf("NewTarget failed: %v", err)
	}
	if _, err := target.Root("position"); !errors.Is(err, errorutil.ErrDataIntegrity) {
		t.Fatalf("Root = %v, want ErrDataIntegrity", err)
	}
}

func TestTargetBigEndian(t *testing.T) {
	s := validSnapshot()
	s.ByteOrder = ByteOrderBig
	s.Regions = []Region{
		{Addr: 0x1000, Data: testutil.Float32Data(binary.BigEndian, 1.5, -2, 0.25, 8)},
	}
	target, err := NewTarget(&s)
	if err != nil {
		t.Fatalf("NewTarget failed: %v", err)
	}
	if target.ByteOrder() != binary.BigEndian {
		t.Fatalf("ByteOrder = %v, want big endian", target.ByteOrder())
	}

	v, err := target.Root("position")
	if err != nil {
		t.Fatalf("Root(position) failed: %v", err)
	}
	x, err := v.ChildByName("x")
	if err != nil {
		t.Fatalf("ChildByName(x) failed: %v", err)
	}
	f, err := x.Float()
	if err != nil {
		t.Fatalf("Float failed: %v", err)
	}
	if f != 1.5 {
		t.Fatalf("Float = %v, want 1.5", f)
	}
}

func TestTargetValueFabrication(t *testing.T) {
	s := validSnapshot()
	target, err := NewTarget(&s)
	if err != nil {
		t.Fatalf("NewTarget failed: %v", err)
	}
	floatType, ok := target.FindType("float")
	if !ok {
		t.Fatal("FindType(float) should succeed")
	}
	if _, ok := target.FindType("alloy::math::mat::mat4::Mat4"); ok {
		t.Fatal("FindType should miss types the snapshot never declared")
	}

	if _, err := target.ValueFromAddress("x", 0x1000, nil); !errors.Is(err, valobj.ErrTypeMismatch) {
		t.Fatalf("ValueFromAddress(nil type) = %v, want ErrTypeMismatch", err)
	}
	v, err := target.ValueFromAddress("x", 0xdead0000, floatType)
	if err != nil {
		t.Fatalf("ValueFromAddress failed: %v", err)
	}
	if _, err := v.Data(); !errors.Is(err, ErrUnmappedAddress) {
		t.Fatalf("Data = %v, want ErrUnmappedAddress", err)
	}
	if _, err := v.Float(); !errors.Is(err, ErrUnmappedAddress) {
		t.Fatalf("Float = %v, want ErrUnmappedAddress", err)
	}

	if _, err := target.ValueFromData("x", nil, nil); !errors.Is(err, valobj.ErrTypeMismatch) {
		t.Fatalf("ValueFromData(nil type) = %v, want ErrTypeMismatch", err)
	}
	if _, err := target.ValueFromData("x", []byte{1, 2}, floatType); !errors.Is(err, valobj.ErrNoData) {
		t.Fatalf("ValueFromData(short) = %v, want ErrNoData", err)
	}
	dv, err := target.ValueFromData("x", testutil.Float32Data(binary.LittleEndian, 7), floatType)
	if err != nil {
		t.Fatalf("ValueFromData failed: %v", err)
	}
	f, err := dv.Float()
	if err != nil {
		t.Fatalf("Float failed: %v", err)
	}
	if f != 7 {
		t.Fatalf("Float = %v, want 7", f)
	}
}

func TestNewTargetBadManifest(t *testing.T) {
	s := validSnapshot()
	s.Types["broken"] = layout.TypeDesc{Kind: "enum", Size: 4}
	if _, err := NewTarget(&s); !errors.Is(err, errorutil.ErrDataIntegrity) {
		t.Fatalf("NewTarget = %v, want ErrDataIntegrity", err)
	}
}
