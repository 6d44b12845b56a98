package internal

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Next returns the next n bytes of the buffer, or an error if fewer are left.
func Next(buf *bytes.Buffer, n int) ([]byte, error) {
	if buf.Len() < n {
		return nil, fmt.Errorf("unexpected end of data: need %d bytes, have %d", n, buf.Len())
	}
	return buf.Next(n), nil
}

func WriteLInt64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func LInt64(b []byte) int64 {
	return int64(binary.LittleEndian.Uint64(b))
}

func WriteLFloat32(buf *bytes.Buffer, f float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
	buf.Write(b[:])
}

func LFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// WriteVec3 writes the three components of the vector as little endian floats.
func WriteVec3(buf *bytes.Buffer, v mgl32.Vec3) {
	for _, c := range v {
		WriteLFloat32(buf, c)
	}
}

// ReadVec3 reads a vector written by WriteVec3.
func ReadVec3(buf *bytes.Buffer) (mgl32.Vec3, error) {
	b, err := Next(buf, 12)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{LFloat32(b[0:4]), LFloat32(b[4:8]), LFloat32(b[8:12])}, nil
}

// WriteQuat writes the rotation as its scalar followed by its vector part.
func WriteQuat(buf *bytes.Buffer, q mgl32.Quat) {
	WriteLFloat32(buf, q.W)
	WriteVec3(buf, q.V)
}

// ReadQuat reads a rotation written by WriteQuat.
func ReadQuat(buf *bytes.Buffer) (mgl32.Quat, error) {
	b, err := Next(buf, 4)
	if err != nil {
		return mgl32.Quat{}, err
	}
	v, err := ReadVec3(buf)
	if err != nil {
		return mgl32.Quat{}, err
	}
	return mgl32.Quat{W: LFloat32(b), V: v}, nil
}
