package testutil

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Float32Data encodes values the way they sit in the inspected process's
// memory, 4 bytes each in the given byte order.
func Float32Data(order binary.ByteOrder, values ...float32) []byte {
	b := make([]byte, 0, len(values)*4)
	var buf [4]byte
	for _, v := range values {
		order.PutUint32(buf[:], math.Float32bits(v))
		b = append(b, buf[:]...)
	}
	return b
}

// QuatData lays out a quaternion as alloy stores it: the inner Vector4 holds
// the real part in x and the i/j/k parts in y/z/w.
func QuatData(order binary.ByteOrder, q mgl32.Quat) []byte {
	return Float32Data(order, q.W, q.V[0], q.V[1], q.V[2])
}

func Vec2Data(order binary.ByteOrder, v mgl32.Vec2) []byte {
	return Float32Data(order, v[0], v[1])
}

func Vec3Data(order binary.ByteOrder, v mgl32.Vec3) []byte {
	return Float32Data(order, v[0], v[1], v[2])
}

func Vec4Data(order binary.ByteOrder, v mgl32.Vec4) []byte {
	return Float32Data(order, v[0], v[1], v[2], v[3])
}

// Mat4Data flattens the matrix in storage order, 16 consecutive floats.
func Mat4Data(order binary.ByteOrder, m mgl32.Mat4) []byte {
	return Float32Data(order, m[:]...)
}
