package stream

import (
	"context"
	"sync"

	"github.com/memmaker/chunkstream/engine/util"
	"github.com/memmaker/chunkstream/engine/voxel"
	"github.com/pkg/errors"
)

var (
	ErrNotResident  = errors.New("chunk not resident")
	ErrNotGenerated = errors.New("chunk not generated")
	ErrOutOfBounds  = errors.New("position outside the world column")
	ErrClosed       = errors.New("world closed")
)

// Evictor receives the voxels of edited chunks when they leave the store.
type Evictor interface {
	Evict(coord voxel.ChunkCoord, blocks []voxel.Block)
}

type Config struct {
	Workers   int
	Generator voxel.Generator
	Evictor   Evictor
}

// World owns the chunk store, the job queue and the worker pool. One mutex
// guards the job list, every chunk's lifecycle state and the adjacency graph.
type World struct {
	mu      sync.Mutex
	cond    *sync.Cond
	running bool
	active  int

	store   ChunkStore
	jobs    JobQueue
	center  voxel.ChunkCoord
	uploads *UploadQueue

	generator voxel.Generator
	evictor   Evictor
	timer     *util.Timer
	workers   sync.WaitGroup
}

func NewWorld(cfg Config) *World {
	if cfg.Generator == nil {
		panic(errors.New("world without a generator"))
	}
	w := &World{
		running:   true,
		store:     newChunkStore(),
		jobs:      newJobQueue(),
		uploads:   NewUploadQueue(),
		generator: cfg.Generator,
		evictor:   cfg.Evictor,
		timer:     util.NewTimer(),
	}
	w.cond = sync.NewCond(&w.mu)
	for i := 0; i < cfg.Workers; i++ {
		w.workers.Add(1)
		go w.worker(i)
	}
	util.LogStreamInfo(util.Logf("World", "started with %d workers", cfg.Workers))
	return w
}

// Close stops the workers after their current job and waits for them.
func (w *World) Close() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.cond.Broadcast()
	w.mu.Unlock()
	w.workers.Wait()
	util.LogStreamInfo(util.Logf("World", "stopped"))
}

func (w *World) Uploads() *UploadQueue {
	return w.uploads
}

// State reports the lifecycle state of a resident chunk.
func (w *World) State(coord voxel.ChunkCoord) (voxel.State, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, e, ok := w.store.lookup(coord)
	if !ok {
		return 0, false
	}
	return e.lifecycle().State(), true
}

// Coords lists every resident coordinate.
func (w *World) Coords() []voxel.ChunkCoord {
	w.mu.Lock()
	defer w.mu.Unlock()
	coords := make([]voxel.ChunkCoord, 0, len(w.store.coords))
	for coord := range w.store.coords {
		coords = append(coords, coord)
	}
	return coords
}

// Faces copies the last published face list of a chunk.
func (w *World) Faces(coord voxel.ChunkCoord) ([]voxel.Face, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, e, ok := w.store.lookup(coord)
	if !ok {
		return nil, errors.Wrapf(ErrNotResident, "faces of %v", coord)
	}
	return e.lifecycle().Faces(), nil
}

// WaitIdle blocks until no job is running and none is claimable.
func (w *World) WaitIdle(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		w.mu.Lock()
		w.cond.Broadcast()
		w.mu.Unlock()
	})
	defer stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	for w.active > 0 || w.nextEligible() != nil {
		if !w.running {
			return ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "waiting for idle world")
		}
		w.cond.Wait()
	}
	return nil
}
