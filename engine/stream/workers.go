package stream

import (
	"container/list"

	"github.com/memmaker/chunkstream/engine/util"
	"github.com/memmaker/chunkstream/engine/voxel"
	"github.com/pkg/errors"
)

// claimed is a job taken off the queue together with everything the worker
// needs to run it without the world lock.
type claimed struct {
	job   *Job
	entry *entry
	view  voxel.MeshingView

	border   []voxel.Face
	interior []voxel.Face
}

func (w *World) worker(id int) {
	defer w.workers.Done()
	w.mu.Lock()
	defer w.mu.Unlock()
	for {
		if !w.running {
			util.LogStreamDebug(util.Logf("Worker", "%d exiting", id))
			return
		}
		c, ok := w.claim()
		if !ok {
			w.cond.Wait()
			continue
		}
		w.mu.Unlock()
		w.execute(&c)
		w.mu.Lock()
		w.publish(&c)
	}
}

func (w *World) ringReady(e *entry) bool {
	lc := e.lifecycle()
	if lc.Linked() != voxel.NEIGHBOR_COUNT || lc.State() < voxel.StateGenerated {
		return false
	}
	for slot := 0; slot < voxel.RING_SIZE; slot++ {
		if slot == voxel.RING_CENTER {
			continue
		}
		_, n, ok := w.store.neighbor(e, slot)
		if !ok || n.lifecycle().State() < voxel.StateGenerated {
			return false
		}
	}
	return true
}

func (w *World) eligible(job *Job) bool {
	e, ok := w.store.get(job.Target)
	if !ok {
		panic(errors.Errorf("queued %v job for dead chunk %v", job.Kind, job.Coord))
	}
	if e.lifecycle().State().InProgress() {
		return false
	}
	if job.Kind == JobMesh {
		return w.ringReady(e)
	}
	return true
}

func (w *World) nextEligible() *list.Element {
	for el := w.jobs.front(); el != nil; el = el.Next() {
		if w.eligible(el.Value.(*Job)) {
			return el
		}
	}
	return nil
}

// claim takes the first eligible job and moves its chunk into the matching
// in-progress state. Must be called with the world lock held.
func (w *World) claim() (claimed, bool) {
	el := w.nextEligible()
	if el == nil {
		return claimed{}, false
	}
	job := el.Value.(*Job)
	w.jobs.remove(el)
	e, _ := w.store.get(job.Target)
	lc := e.lifecycle()
	c := claimed{job: job, entry: e}

	switch job.Kind {
	case JobGenerate:
		e.genJob = nil
		lc.Advance(voxel.StateGenerating)
	case JobMesh:
		e.meshJob = nil
		if lc.State() != voxel.StateMeshed {
			// nothing cached yet to reuse
			job.Interior = false
		}
		lc.Advance(voxel.StateMeshing)
		var ring [voxel.RING_SIZE]*voxel.Chunk
		for slot := range ring {
			n, _ := w.store.get(lc.Neighbor(slot))
			ring[slot] = n.chunk
		}
		c.view = voxel.NewMeshingView(ring)
	}
	w.active++
	return c, true
}

func (w *World) execute(c *claimed) {
	switch c.job.Kind {
	case JobGenerate:
		done := w.timer.Start("generate")
		w.generator.Generate(c.job.Coord, c.entry.chunk.Blocks())
		done()
	case JobMesh:
		c.view.RLock()
		var ms float64
		if c.job.Interior {
			done := w.timer.Start("mesh interior")
			c.interior = c.view.MeshInterior()
			ms = done()
		} else {
			done := w.timer.Start("mesh")
			c.border, c.interior = c.view.MeshBorder()
			ms = done()
		}
		c.view.RUnlock()
		util.LogMeshDebug(util.Logf("Mesh", "%v interior=%v: %d border, %d interior faces in %.2fms", c.job.Coord, c.job.Interior, len(c.border), len(c.interior), ms))
	}
}

// publish records a finished job. Results for chunks removed in the meantime are dropped.
func (w *World) publish(c *claimed) {
	w.active--
	defer w.cond.Broadcast()
	if _, ok := w.store.get(c.job.Target); !ok {
		util.LogStreamDebug(util.Logf("Worker", "dropped %v result for evicted %v", c.job.Kind, c.job.Coord))
		return
	}
	lc := c.entry.lifecycle()
	switch c.job.Kind {
	case JobGenerate:
		lc.Advance(voxel.StateGenerated)
	case JobMesh:
		if c.job.Interior {
			lc.SetInteriorFaces(c.interior)
		} else {
			lc.SetFaces(c.border, c.interior)
		}
		lc.Advance(voxel.StateMeshed)
		w.uploads.push(Upload{Handle: c.job.Target, Coord: c.job.Coord, Faces: lc.Faces()})
	}
}
