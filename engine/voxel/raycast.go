package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RayHit describes the first cell a ray stopped in.
type RayHit struct {
	Hit      bool
	Distance float64
	Position mgl32.Vec3
	Cell     Int3
	// Previous is the empty cell the ray left to enter Cell.
	Previous Int3
	// Face is the face of Cell the ray entered through.
	Face FaceType
}

// Raycast walks the voxel grid from start to end and reports the first cell for
// which stop returns true. Cells are visited in ray order, including the start cell.
func Raycast(start, end mgl32.Vec3, stop func(cell Int3) bool) RayHit {
	ray := end.Sub(start)
	length := float64(ray.Len())
	if length == 0 {
		cell := Int3{floor(start.X()), floor(start.Y()), floor(start.Z())}
		if stop(cell) {
			return RayHit{Hit: true, Position: start, Cell: cell, Previous: cell}
		}
		return RayHit{}
	}
	dir := ray.Normalize()

	var (
		cell  = Int3{floor(start.X()), floor(start.Y()), floor(start.Z())}
		step  [3]int32
		delta [3]float64
		next  [3]float64
	)
	for axis := 0; axis < 3; axis++ {
		d := float64(dir[axis])
		origin := float64(start[axis])
		base := math.Floor(origin)
		switch {
		case d > 0:
			step[axis] = 1
			delta[axis] = 1 / d
			next[axis] = (base + 1 - origin) * delta[axis]
		case d < 0:
			step[axis] = -1
			delta[axis] = -1 / d
			next[axis] = (origin - base) * delta[axis]
		default:
			delta[axis] = math.Inf(1)
			next[axis] = math.Inf(1)
		}
	}

	t := 0.0
	stepped := -1
	for t <= length {
		if stop(cell) {
			hit := RayHit{
				Hit:      true,
				Distance: t,
				Position: start.Add(dir.Mul(float32(t))),
				Cell:     cell,
				Previous: cell,
			}
			if stepped >= 0 {
				var back Int3
				setAxis(&back, stepped, -step[stepped])
				hit.Previous = cell.Add(back)
				hit.Face = faceTowards(back)
			}
			return hit
		}

		stepped = 0
		if next[1] < next[stepped] {
			stepped = 1
		}
		if next[2] < next[stepped] {
			stepped = 2
		}
		t = next[stepped]
		next[stepped] += delta[stepped]
		var move Int3
		setAxis(&move, stepped, step[stepped])
		cell = cell.Add(move)
	}
	return RayHit{}
}

func setAxis(v *Int3, axis int, value int32) {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
}

func faceTowards(n Int3) FaceType {
	for f := FaceType(0); f < FaceCount; f++ {
		if f.Normal() == n {
			return f
		}
	}
	return XP
}
