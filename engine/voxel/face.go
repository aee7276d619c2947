package voxel

import "github.com/go-gl/mathgl/mgl32"

type FaceType uint8

const (
	XP FaceType = iota
	XN
	YP
	YN
	ZP
	ZN
	FaceCount
)

func (f FaceType) String() string {
	switch f {
	case XP:
		return "XP"
	case XN:
		return "XN"
	case YP:
		return "YP"
	case YN:
		return "YN"
	case ZP:
		return "ZP"
	case ZN:
		return "ZN"
	}
	return "?"
}

// faceAxes holds the outward normal and two in-plane axes per face, with u x v == normal.
var faceAxes = [FaceCount][3]Int3{
	XP: {{X: 1}, {Y: 1}, {Z: 1}},
	XN: {{X: -1}, {Z: 1}, {Y: 1}},
	YP: {{Y: 1}, {Z: 1}, {X: 1}},
	YN: {{Y: -1}, {X: 1}, {Z: 1}},
	ZP: {{Z: 1}, {X: 1}, {Y: 1}},
	ZN: {{Z: -1}, {Y: 1}, {X: 1}},
}

func (f FaceType) Normal() Int3 {
	return faceAxes[f][0]
}

// Face is one visible voxel side. Pos is the packed local position of the
// voxel that owns the face, AO holds four 2-bit corner occlusion values.
type Face struct {
	Pos   uint16
	Block Block
	AO    uint8
	Dir   FaceType
}

func PackPos(x, y, z int32) uint16 {
	return uint16(x) | uint16(z)<<4 | uint16(y)<<8
}

func (f Face) Local() Int3 {
	return Int3{X: int32(f.Pos & 0xF), Y: int32(f.Pos >> 8), Z: int32(f.Pos >> 4 & 0xF)}
}

// CornerAO returns the occlusion of corner 0..3, from 0 (dark) to 3 (open).
func (f Face) CornerAO(corner int) uint8 {
	return f.AO >> (2 * corner) & 3
}

// Corners returns the face's quad in local space, counter-clockwise seen from
// outside and in the same order as CornerAO.
func (f Face) Corners() [4]mgl32.Vec3 {
	axes := faceAxes[f.Dir]
	center := f.Local().ToVec3().Add(mgl32.Vec3{0.5, 0.5, 0.5}).Add(axes[0].ToVec3().Mul(0.5))
	u, v := axes[1].ToVec3().Mul(0.5), axes[2].ToVec3().Mul(0.5)
	return [4]mgl32.Vec3{
		center.Sub(u).Sub(v),
		center.Add(u).Sub(v),
		center.Add(u).Add(v),
		center.Sub(u).Add(v),
	}
}
