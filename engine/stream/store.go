package stream

import (
	"container/list"

	"github.com/memmaker/chunkstream/engine/util"
	"github.com/memmaker/chunkstream/engine/voxel"
	"github.com/pkg/errors"
)

// entry is a resident chunk plus the queue elements of its unclaimed jobs,
// which lets Remove cancel them without scanning the queue.
type entry struct {
	chunk   *voxel.Chunk
	genJob  *list.Element
	meshJob *list.Element
}

func (e *entry) lifecycle() voxel.LifecycleView {
	return e.chunk.Lifecycle()
}

// ChunkStore maps coordinates to arena handles. Neighbour links inside the
// chunks are handles too, so a removed chunk can never be reached through
// a stale link.
type ChunkStore struct {
	arena  voxel.Arena[*entry]
	coords map[voxel.ChunkCoord]voxel.Handle
}

func newChunkStore() ChunkStore {
	return ChunkStore{coords: make(map[voxel.ChunkCoord]voxel.Handle)}
}

func (s *ChunkStore) lookup(coord voxel.ChunkCoord) (voxel.Handle, *entry, bool) {
	h, ok := s.coords[coord]
	if !ok {
		return voxel.Handle{}, nil, false
	}
	e, ok := s.arena.Get(h)
	if !ok {
		panic(errors.Errorf("coordinate %v maps to a dead handle", coord))
	}
	return h, e, true
}

func (s *ChunkStore) get(h voxel.Handle) (*entry, bool) {
	return s.arena.Get(h)
}

// neighbor resolves a ring slot. Links are kept symmetric, so a linked
// handle that does not resolve is a bookkeeping bug.
func (s *ChunkStore) neighbor(e *entry, slot int) (voxel.Handle, *entry, bool) {
	h := e.lifecycle().Neighbor(slot)
	if h.IsZero() {
		return h, nil, false
	}
	n, ok := s.arena.Get(h)
	if !ok {
		panic(errors.Errorf("%v: ring slot %d holds a dead handle", e.chunk, slot))
	}
	return h, n, true
}

func (s *ChunkStore) Len() int {
	return s.arena.Len()
}

// Insert makes coord resident and queues its generation. Inserting a
// resident coordinate returns the existing handle.
func (w *World) Insert(coord voxel.ChunkCoord) voxel.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.insertLocked(coord)
}

func (w *World) insertLocked(coord voxel.ChunkCoord) voxel.Handle {
	if h, _, ok := w.store.lookup(coord); ok {
		return h
	}
	e := &entry{chunk: voxel.NewChunk(coord)}
	h := w.store.arena.Insert(e)
	w.store.coords[coord] = h
	lc := e.lifecycle()
	lc.Bind(h)

	e.genJob = w.jobs.push(&Job{Kind: JobGenerate, Target: h, Coord: coord}, w.priority(coord))

	for slot := 0; slot < voxel.RING_SIZE; slot++ {
		if slot == voxel.RING_CENTER {
			continue
		}
		dx, dz := voxel.RingOffset(slot)
		nh, n, ok := w.store.lookup(coord.Offset(dx, dz))
		if !ok {
			continue
		}
		lc.Link(slot, nh)
		n.lifecycle().Link(voxel.OppositeSlot(slot), h)
		w.ringCompleted(nh, n)
	}
	w.ringCompleted(h, e)
	w.cond.Broadcast()
	util.LogStreamDebug(util.Logf("Store", "insert %v, %d linked", coord, lc.Linked()))
	return h
}

// ringCompleted queues a full mesh of a chunk once its eighth neighbour is
// linked. A chunk that was meshed before lost a neighbour in between, and
// the reinserted one may hold different voxels.
func (w *World) ringCompleted(h voxel.Handle, e *entry) {
	lc := e.lifecycle()
	if lc.Linked() != voxel.NEIGHBOR_COUNT {
		return
	}
	if e.meshJob != nil {
		e.meshJob.Value.(*Job).Interior = false
		return
	}
	if lc.State() >= voxel.StateMeshing {
		util.LogStreamDebug(util.Logf("Store", "ring of %v completed again, remeshing", e.chunk.Coord()))
	}
	e.meshJob = w.jobs.push(&Job{Kind: JobMesh, Target: h, Coord: e.chunk.Coord()}, w.priority(e.chunk.Coord()))
}

// Remove evicts coord. It refuses, returning false, while any linked
// neighbour is meshing since that job is reading this chunk's voxels.
// Removing a chunk that is not resident also returns false.
func (w *World) Remove(coord voxel.ChunkCoord) bool {
	w.mu.Lock()
	h, e, ok := w.store.lookup(coord)
	if !ok {
		w.mu.Unlock()
		return false
	}
	for slot := 0; slot < voxel.RING_SIZE; slot++ {
		if slot == voxel.RING_CENTER {
			continue
		}
		if _, n, ok := w.store.neighbor(e, slot); ok && n.lifecycle().State() == voxel.StateMeshing {
			w.mu.Unlock()
			return false
		}
	}

	lc := e.lifecycle()
	for slot := 0; slot < voxel.RING_SIZE; slot++ {
		if slot == voxel.RING_CENTER {
			continue
		}
		_, n, ok := w.store.neighbor(e, slot)
		if !ok {
			continue
		}
		if back := n.lifecycle().Unlink(voxel.OppositeSlot(slot)); back != h {
			panic(errors.Errorf("asymmetric link between %v and %v", e.chunk, n.chunk))
		}
		lc.Unlink(slot)
	}
	if e.genJob != nil {
		w.jobs.remove(e.genJob)
		e.genJob = nil
	}
	if e.meshJob != nil {
		w.jobs.remove(e.meshJob)
		e.meshJob = nil
	}
	w.store.arena.Remove(h)
	delete(w.store.coords, coord)
	w.uploads.release(h)

	// generation has finished for any chunk that could carry edits
	evict := w.evictor != nil && lc.State() >= voxel.StateGenerated
	w.cond.Broadcast()
	w.mu.Unlock()

	// the edit flag lives behind the voxel lock, so read it outside the world lock
	if evict && e.chunk.Edited() {
		w.evictor.Evict(coord, e.chunk.Snapshot())
	}
	util.LogStreamDebug(util.Logf("Store", "remove %v", coord))
	return true
}

// Lookup returns the handle of a resident chunk.
func (w *World) Lookup(coord voxel.ChunkCoord) (voxel.Handle, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	h, _, ok := w.store.lookup(coord)
	return h, ok
}
