package voxel

import (
	"sort"

	"github.com/pkg/errors"
)

// LifecycleView is the world-lock side of a chunk: state, neighbour links
// and the published faces. Callers must hold the lock that serializes the
// chunk store.
type LifecycleView struct {
	c *Chunk
}

func (v LifecycleView) Chunk() *Chunk {
	return v.c
}

func (v LifecycleView) State() State {
	return v.c.state
}

func legalTransition(from, to State) bool {
	switch to {
	case StateGenerating:
		return from == StateInitiated
	case StateGenerated:
		return from == StateGenerating
	case StateMeshing:
		return from == StateGenerated || from == StateMeshed
	case StateMeshed:
		return from == StateMeshing
	}
	return false
}

// Advance moves the chunk along its lifecycle and panics on an illegal step.
func (v LifecycleView) Advance(to State) {
	if !legalTransition(v.c.state, to) {
		panic(errors.Errorf("%v: illegal transition %v -> %v", v.c, v.c.state, to))
	}
	v.c.state = to
}

// Self is the chunk's own handle, kept in the centre ring slot.
func (v LifecycleView) Self() Handle {
	return v.c.neighbors[RING_CENTER]
}

func (v LifecycleView) Bind(h Handle) {
	v.c.neighbors[RING_CENTER] = h
}

func (v LifecycleView) Neighbor(slot int) Handle {
	return v.c.neighbors[slot]
}

func (v LifecycleView) Link(slot int, h Handle) {
	if slot == RING_CENTER {
		panic(errors.New("cannot link the centre slot"))
	}
	if !v.c.neighbors[slot].IsZero() {
		panic(errors.Errorf("%v: ring slot %d already linked", v.c, slot))
	}
	v.c.neighbors[slot] = h
	v.c.linked++
}

func (v LifecycleView) Unlink(slot int) Handle {
	h := v.c.neighbors[slot]
	if slot == RING_CENTER || h.IsZero() {
		return Handle{}
	}
	v.c.neighbors[slot] = Handle{}
	v.c.linked--
	return h
}

// Linked counts resident horizontal and diagonal neighbours, 0..8.
func (v LifecycleView) Linked() int {
	return v.c.linked
}

func (v LifecycleView) SetFaces(border, interior []Face) {
	v.c.border = border
	v.c.interior = interior
}

func (v LifecycleView) SetInteriorFaces(interior []Face) {
	v.c.interior = interior
}

// Faces returns a fresh slice holding the border faces followed by the interior ones.
func (v LifecycleView) Faces() []Face {
	faces := make([]Face, 0, len(v.c.border)+len(v.c.interior))
	faces = append(faces, v.c.border...)
	return append(faces, v.c.interior...)
}

// MeshingView is the read side used while building a mesh: a chunk and the
// eight chunks around it, indexed by ring slot. A missing neighbour reads as air.
type MeshingView struct {
	ring [RING_SIZE]*Chunk
}

func NewMeshingView(ring [RING_SIZE]*Chunk) MeshingView {
	if ring[RING_CENTER] == nil {
		panic(errors.New("meshing view without a centre chunk"))
	}
	return MeshingView{ring: ring}
}

func (v MeshingView) Center() *Chunk {
	return v.ring[RING_CENTER]
}

// Block reads a voxel relative to the centre chunk. x and z may leave the
// chunk by at most one chunk width. Below the world is solid, above it is air.
func (v MeshingView) Block(x, y, z int32) Block {
	if y < 0 {
		return Bedrock
	}
	if y >= CHUNK_HEIGHT {
		return Air
	}
	var dx, dz int32
	if x < 0 {
		dx, x = -1, x+CHUNK_WIDTH
	} else if x >= CHUNK_WIDTH {
		dx, x = 1, x-CHUNK_WIDTH
	}
	if z < 0 {
		dz, z = -1, z+CHUNK_WIDTH
	} else if z >= CHUNK_WIDTH {
		dz, z = 1, z-CHUNK_WIDTH
	}
	c := v.ring[RingSlot(dx, dz)]
	if c == nil {
		return Air
	}
	return c.data[blockIndex(x, y, z)]
}

// column reads from the centre chunk only; x and z must be local.
func (v MeshingView) column(x, y, z int32) Block {
	if y < 0 {
		return Bedrock
	}
	if y >= CHUNK_HEIGHT {
		return Air
	}
	return v.ring[RING_CENTER].data[blockIndex(x, y, z)]
}

// lockOrder sorts the ring by coordinate so that concurrent meshing jobs
// always take overlapping read locks in the same order.
func (v MeshingView) lockOrder() []*Chunk {
	order := make([]*Chunk, 0, RING_SIZE)
	for _, c := range v.ring {
		if c != nil {
			order = append(order, c)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		return order[i].coord.Less(order[j].coord)
	})
	return order
}

func (v MeshingView) RLock() {
	for _, c := range v.lockOrder() {
		c.dataLock.RLock()
	}
}

func (v MeshingView) RUnlock() {
	for _, c := range v.ring {
		if c != nil {
			c.dataLock.RUnlock()
		}
	}
}
