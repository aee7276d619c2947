package stream

import (
	"github.com/memmaker/chunkstream/engine/util"
	"github.com/memmaker/chunkstream/engine/voxel"
	"github.com/pkg/errors"
)

// SetBlock edits one voxel of a generated chunk and queues remeshes for the
// chunk and for each neighbour whose border faces read the edited column.
func (w *World) SetBlock(pos voxel.Int3, b voxel.Block) error {
	h, c, lx, lz, err := w.resolveGenerated(pos)
	if err != nil {
		return err
	}
	// never wait for a voxel lock while holding the world lock
	if _, err = c.Edit(lx, pos.Y, lz, b); err != nil {
		return errors.Wrapf(ErrOutOfBounds, "set %v: %v", pos, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.store.get(h)
	if !ok {
		return errors.Wrapf(ErrNotResident, "set %v: chunk %v evicted during the edit", pos, c.Coord())
	}
	w.requestRemesh(h, e, voxel.IsDeepInterior(lx, lz))
	for _, slot := range voxel.BorderNeighbors(lx, lz) {
		if nh, n, ok := w.store.neighbor(e, slot); ok {
			w.requestRemesh(nh, n, false)
		}
	}
	w.cond.Broadcast()
	util.LogStreamDebug(util.Logf("Edit", "%v -> %s", pos, b.Name()))
	return nil
}

// GetBlock reads one voxel of a generated chunk. Below the world reads as
// solid bedrock and above it as air, whatever is resident.
func (w *World) GetBlock(pos voxel.Int3) (voxel.Block, error) {
	if pos.Y < 0 {
		return voxel.Bedrock, nil
	}
	if pos.Y >= voxel.CHUNK_HEIGHT {
		return voxel.Air, nil
	}
	_, c, lx, lz, err := w.resolveGenerated(pos)
	if err != nil {
		return voxel.Air, err
	}
	return c.GetBlock(lx, pos.Y, lz)
}

func (w *World) resolveGenerated(pos voxel.Int3) (voxel.Handle, *voxel.Chunk, int32, int32, error) {
	if pos.Y < 0 || pos.Y >= voxel.CHUNK_HEIGHT {
		return voxel.Handle{}, nil, 0, 0, errors.Wrapf(ErrOutOfBounds, "block %v", pos)
	}
	coord, lx, lz := voxel.SplitWorld(pos.X, pos.Z)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return voxel.Handle{}, nil, 0, 0, ErrClosed
	}
	h, e, ok := w.store.lookup(coord)
	if !ok {
		return voxel.Handle{}, nil, 0, 0, errors.Wrapf(ErrNotResident, "block %v in %v", pos, coord)
	}
	// states never fall back below Generated, so the check holds after unlocking
	if e.lifecycle().State() < voxel.StateGenerated {
		return voxel.Handle{}, nil, 0, 0, errors.Wrapf(ErrNotGenerated, "block %v in %v", pos, coord)
	}
	return h, e.chunk, lx, lz, nil
}

// requestRemesh queues an urgent mesh job for a chunk that already has, or
// is about to get, a mesh. Requests fold into one pending job per chunk;
// a full request upgrades a pending interior-only one.
func (w *World) requestRemesh(h voxel.Handle, e *entry, interior bool) {
	if e.meshJob != nil {
		job := e.meshJob.Value.(*Job)
		if !interior {
			job.Interior = false
		}
		w.jobs.makeUrgent(e.meshJob)
		return
	}
	if e.lifecycle().State() < voxel.StateMeshing {
		// the first mesh is queued when the ring completes and will see the edit
		return
	}
	e.meshJob = w.jobs.pushUrgent(&Job{Kind: JobMesh, Target: h, Coord: e.chunk.Coord(), Interior: interior})
}
