package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRaycastDownHitsGround(t *testing.T) {
	ground := func(cell Int3) bool { return cell.Y <= 10 }
	hit := Raycast(mgl32.Vec3{3.5, 40.5, -2.5}, mgl32.Vec3{3.5, 0, -2.5}, ground)
	if !hit.Hit {
		t.Fatalf("expected a hit")
	}
	if hit.Cell != (Int3{X: 3, Y: 10, Z: -3}) {
		t.Fatalf("cell = %v", hit.Cell)
	}
	if hit.Previous != (Int3{X: 3, Y: 11, Z: -3}) {
		t.Fatalf("previous = %v", hit.Previous)
	}
	if hit.Face != YP {
		t.Fatalf("face = %v, want YP", hit.Face)
	}
	if hit.Distance < 29.4 || hit.Distance > 29.6 {
		t.Fatalf("distance = %f", hit.Distance)
	}
}

func TestRaycastSideways(t *testing.T) {
	wall := func(cell Int3) bool { return cell.X == -4 }
	hit := Raycast(mgl32.Vec3{0.5, 5.5, 0.5}, mgl32.Vec3{-10, 5.5, 0.5}, wall)
	if !hit.Hit || hit.Cell.X != -4 || hit.Face != XP {
		t.Fatalf("hit = %+v", hit)
	}
}

func TestRaycastMissesBeyondEnd(t *testing.T) {
	hit := Raycast(mgl32.Vec3{0.5, 5.5, 0.5}, mgl32.Vec3{0.5, 5.5, 3.5}, func(cell Int3) bool { return cell.Z >= 8 })
	if hit.Hit {
		t.Fatalf("ray should stop at its end, got %+v", hit)
	}
}

func TestRaycastStartCell(t *testing.T) {
	hit := Raycast(mgl32.Vec3{1.2, 1.2, 1.2}, mgl32.Vec3{5, 5, 5}, func(Int3) bool { return true })
	if !hit.Hit || hit.Distance != 0 || hit.Cell != (Int3{1, 1, 1}) || hit.Previous != hit.Cell {
		t.Fatalf("hit = %+v", hit)
	}
}
