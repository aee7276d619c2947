package stream

import (
	"sync"

	"github.com/memmaker/chunkstream/engine/voxel"
)

// MeshHandle is whatever the render backend returns for an uploaded mesh.
type MeshHandle interface {
	Release()
}

// Renderer is the render backend side of the upload queue. It is only ever
// called from the goroutine that drains the queue.
type Renderer interface {
	Upload(coord voxel.ChunkCoord, faces []voxel.Face) MeshHandle
}

type Upload struct {
	Handle voxel.Handle
	Coord  voxel.ChunkCoord
	Faces  []voxel.Face
}

// UploadQueue hands finished meshes from the workers to the main thread.
// Drain must always be called from the same goroutine; it owns the map of
// live render meshes.
type UploadQueue struct {
	lock     sync.Mutex
	pending  []Upload
	releases []voxel.Handle

	meshes map[voxel.Handle]MeshHandle
}

func NewUploadQueue() *UploadQueue {
	return &UploadQueue{meshes: make(map[voxel.Handle]MeshHandle)}
}

func (q *UploadQueue) push(u Upload) {
	q.lock.Lock()
	q.pending = append(q.pending, u)
	q.lock.Unlock()
}

func (q *UploadQueue) release(h voxel.Handle) {
	q.lock.Lock()
	q.releases = append(q.releases, h)
	q.lock.Unlock()
}

// Len counts uploads and releases not yet drained.
func (q *UploadQueue) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.pending) + len(q.releases)
}

// Drain uploads every pending mesh, replacing older meshes of the same
// chunk, then releases the meshes of evicted chunks. It returns the number
// of uploads performed.
func (q *UploadQueue) Drain(r Renderer) int {
	q.lock.Lock()
	pending, releases := q.pending, q.releases
	q.pending, q.releases = nil, nil
	q.lock.Unlock()

	for _, u := range pending {
		if old, ok := q.meshes[u.Handle]; ok && old != nil {
			old.Release()
		}
		q.meshes[u.Handle] = r.Upload(u.Coord, u.Faces)
	}
	for _, h := range releases {
		if mesh, ok := q.meshes[h]; ok {
			if mesh != nil {
				mesh.Release()
			}
			delete(q.meshes, h)
		}
	}
	return len(pending)
}

// Live counts meshes currently held by the renderer.
func (q *UploadQueue) Live() int {
	return len(q.meshes)
}
