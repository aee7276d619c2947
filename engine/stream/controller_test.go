package stream

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkstream/engine/voxel"
	"golang.org/x/time/rate"
)

type fakeMesh struct {
	renderer *fakeRenderer
}

func (m *fakeMesh) Release() {
	m.renderer.released++
}

type fakeRenderer struct {
	uploads  map[voxel.ChunkCoord]int
	faces    int
	released int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{uploads: make(map[voxel.ChunkCoord]int)}
}

func (r *fakeRenderer) Upload(coord voxel.ChunkCoord, faces []voxel.Face) MeshHandle {
	r.uploads[coord]++
	r.faces += len(faces)
	return &fakeMesh{renderer: r}
}

func TestInRangeCount(t *testing.T) {
	tests := []struct {
		radius int32
		want   int
	}{
		{0, 1},
		{1, 9},
		{2, 21},
		{3, 37},
	}
	for _, tt := range tests {
		count := 0
		for coord, inRange := range ResidentSet(voxel.ChunkCoord{X: 4, Z: -7}, tt.radius) {
			if inRange {
				count++
				continue
			}
			if InRange(coord.X-4, coord.Z+7, tt.radius) {
				t.Fatalf("radius %d: %v marked apron", tt.radius, coord)
			}
		}
		if count != tt.want {
			t.Errorf("radius %d: %d in range, want %d", tt.radius, count, tt.want)
		}
	}
}

func TestRadiusTwoMeshesExactlyTheDisc(t *testing.T) {
	w := newTestWorld(t, 4)
	ctrl := NewController(w, 2, nil)
	ctrl.Update(mgl32.Vec3{8, 64, 8})
	waitIdle(t, w)
	checkGraph(t, w)

	want := ResidentSet(voxel.ChunkCoord{}, 2)
	coords := w.Coords()
	if len(coords) != len(want) {
		t.Fatalf("resident %d, want %d", len(coords), len(want))
	}
	meshed := 0
	for _, coord := range coords {
		inRange, ok := want[coord]
		if !ok {
			t.Fatalf("%v resident outside the set", coord)
		}
		state := mustState(t, w, coord)
		if inRange != (state == voxel.StateMeshed) {
			t.Fatalf("%v in range %v but %v", coord, inRange, state)
		}
		if state == voxel.StateMeshed {
			meshed++
		}
	}
	if meshed != 21 {
		t.Fatalf("meshed %d chunks, want 21", meshed)
	}

	renderer := newFakeRenderer()
	if n := w.Uploads().Drain(renderer); n != 21 {
		t.Fatalf("drained %d uploads", n)
	}
	if renderer.faces == 0 {
		t.Fatalf("uploaded meshes are empty")
	}
}

func TestScansOnlyOnQuadrantCrossing(t *testing.T) {
	w := newTestWorld(t, 0)
	ctrl := NewController(w, 1, nil)
	ctrl.Update(mgl32.Vec3{1, 0, 1})
	ctrl.Update(mgl32.Vec3{2, 0, 3})
	if ctrl.Scans() != 1 {
		t.Fatalf("scans inside one quadrant = %d", ctrl.Scans())
	}
	ctrl.Update(mgl32.Vec3{9, 0, 1})
	if ctrl.Scans() != 2 || ctrl.Fulcrum() != (voxel.ChunkCoord{}) {
		t.Fatalf("after half chunk: scans %d fulcrum %v", ctrl.Scans(), ctrl.Fulcrum())
	}
	ctrl.Update(mgl32.Vec3{17, 0, 1})
	if ctrl.Scans() != 3 || ctrl.Fulcrum() != (voxel.ChunkCoord{X: 1}) {
		t.Fatalf("after chunk crossing: scans %d fulcrum %v", ctrl.Scans(), ctrl.Fulcrum())
	}
	ctrl.Update(mgl32.Vec3{-0.5, 0, -0.5})
	if ctrl.Fulcrum() != (voxel.ChunkCoord{X: -1, Z: -1}) {
		t.Fatalf("negative fulcrum %v", ctrl.Fulcrum())
	}
}

func TestLimiterThrottlesInserts(t *testing.T) {
	w := newTestWorld(t, 0)
	ctrl := NewController(w, 2, rate.NewLimiter(rate.Every(time.Hour), 3))
	ctrl.Update(mgl32.Vec3{8, 0, 8})
	if n := len(w.Coords()); n != 3 {
		t.Fatalf("inserted %d chunks through a burst of 3", n)
	}
	if _, ok := w.Lookup(voxel.ChunkCoord{}); !ok {
		t.Fatalf("nearest chunk was not inserted first")
	}
	if ctrl.Backlog() != len(ResidentSet(voxel.ChunkCoord{}, 2))-3 {
		t.Fatalf("backlog %d", ctrl.Backlog())
	}
}

func TestMovingObserverEvictsOldChunks(t *testing.T) {
	w := newTestWorld(t, 3)
	ctrl := NewController(w, 2, nil)
	ctrl.Update(mgl32.Vec3{8, 64, 8})
	waitIdle(t, w)

	far := mgl32.Vec3{8 + 10*float32(voxel.CHUNK_WIDTH), 64, 8}
	for i := 0; i < 200; i++ {
		ctrl.Update(far)
		if ctrl.PendingRemovals() == 0 && ctrl.Backlog() == 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if ctrl.PendingRemovals() != 0 {
		t.Fatalf("%d removals still pending", ctrl.PendingRemovals())
	}
	waitIdle(t, w)
	checkGraph(t, w)

	want := ResidentSet(voxel.ChunkCoord{X: 10}, 2)
	for _, coord := range w.Coords() {
		if _, ok := want[coord]; !ok {
			t.Fatalf("%v still resident after moving away", coord)
		}
	}
	if n := len(w.Coords()); n != len(want) {
		t.Fatalf("resident %d, want %d", n, len(want))
	}

	renderer := newFakeRenderer()
	w.Uploads().Drain(renderer)
	if renderer.released != 21 || w.Uploads().Live() != 21 {
		t.Fatalf("released %d, live %d", renderer.released, w.Uploads().Live())
	}
}

func TestStatesOnlyMoveForward(t *testing.T) {
	w := newTestWorld(t, 4)
	ctrl := NewController(w, 3, nil)
	seen := make(map[voxel.Handle]voxel.State)
	sample := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.store.arena.Each(func(h voxel.Handle, e *entry) {
			state := e.lifecycle().State()
			if prev, ok := seen[h]; ok && state < prev && !(prev == voxel.StateMeshed && state == voxel.StateMeshing) {
				t.Errorf("%v went from %v to %v", e.chunk, prev, state)
			}
			seen[h] = state
		})
	}
	for i := 0; i < 60; i++ {
		ctrl.Update(mgl32.Vec3{float32(i) * 4, 64, float32(i) * 2})
		if i%7 == 0 {
			_ = w.SetBlock(voxel.Int3{X: int32(i) * 4, Y: 7, Z: int32(i) * 2}, voxel.Air)
		}
		sample()
		checkGraph(t, w)
		time.Sleep(time.Millisecond)
	}
	waitIdle(t, w)
	sample()
}

func TestUploadReplacesAndReleases(t *testing.T) {
	w := newTestWorld(t, 0)
	insertSquare(w, voxel.ChunkCoord{}, 1)
	drain(w)
	renderer := newFakeRenderer()
	if n := w.Uploads().Drain(renderer); n != 1 {
		t.Fatalf("uploads %d", n)
	}
	if err := w.SetBlock(voxel.Int3{X: 8, Y: 8, Z: 8}, voxel.Stone); err != nil {
		t.Fatalf("set block: %v", err)
	}
	drain(w)
	w.Uploads().Drain(renderer)
	if renderer.uploads[voxel.ChunkCoord{}] != 2 || renderer.released != 1 {
		t.Fatalf("uploads %v released %d", renderer.uploads, renderer.released)
	}
	if !w.Remove(voxel.ChunkCoord{}) {
		t.Fatalf("remove refused")
	}
	w.Uploads().Drain(renderer)
	if renderer.released != 2 || w.Uploads().Live() != 0 {
		t.Fatalf("released %d live %d", renderer.released, w.Uploads().Live())
	}
}
