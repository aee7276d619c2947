package voxel

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

type State int32

const (
	StateInitiated State = iota
	StateGenerating
	StateGenerated
	StateMeshing
	StateMeshed
)

func (s State) String() string {
	switch s {
	case StateInitiated:
		return "Initiated"
	case StateGenerating:
		return "Generating"
	case StateGenerated:
		return "Generated"
	case StateMeshing:
		return "Meshing"
	case StateMeshed:
		return "Meshed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// InProgress is true while a worker owns the chunk.
func (s State) InProgress() bool {
	return s == StateGenerating || s == StateMeshing
}

// Chunk is one 16 x 128 x 16 column of voxels.
// Voxel data is guarded by its own RWMutex. Everything else (state, links,
// cached faces) belongs to whoever holds the world lock and is only touched
// through a LifecycleView.
type Chunk struct {
	coord    ChunkCoord
	data     []Block
	dataLock sync.RWMutex
	edited   bool

	state     State
	neighbors [RING_SIZE]Handle
	linked    int
	border    []Face
	interior  []Face
}

func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{
		coord: coord,
		data:  make([]Block, CHUNK_VOLUME),
	}
}

func blockIndex(x, y, z int32) int32 {
	return x*CHUNK_HEIGHT*CHUNK_WIDTH + y*CHUNK_WIDTH + z
}

func Contains(x, y, z int32) bool {
	return x >= 0 && x < CHUNK_WIDTH && y >= 0 && y < CHUNK_HEIGHT && z >= 0 && z < CHUNK_WIDTH
}

func (c *Chunk) Coord() ChunkCoord {
	return c.coord
}

// Blocks exposes the raw storage for the generator. Only the worker holding
// the chunk in Generating may write to it.
func (c *Chunk) Blocks() []Block {
	return c.data
}

// Local reads without bounds or lock checks.
func (c *Chunk) Local(x, y, z int32) Block {
	return c.data[blockIndex(x, y, z)]
}

func (c *Chunk) SetLocal(x, y, z int32, b Block) {
	c.data[blockIndex(x, y, z)] = b
}

// GetBlock is the locked, bounds checked read for callers outside the job system.
func (c *Chunk) GetBlock(x, y, z int32) (Block, error) {
	if !Contains(x, y, z) {
		return Air, errors.Errorf("block %d,%d,%d outside chunk %v", x, y, z, c.coord)
	}
	c.dataLock.RLock()
	defer c.dataLock.RUnlock()
	return c.data[blockIndex(x, y, z)], nil
}

// Edit replaces one voxel under the write lock and returns the previous value.
func (c *Chunk) Edit(x, y, z int32, b Block) (Block, error) {
	if !Contains(x, y, z) {
		return Air, errors.Errorf("block %d,%d,%d outside chunk %v", x, y, z, c.coord)
	}
	c.dataLock.Lock()
	defer c.dataLock.Unlock()
	i := blockIndex(x, y, z)
	old := c.data[i]
	c.data[i] = b
	c.edited = true
	return old, nil
}

// Snapshot copies the voxels under the read lock.
func (c *Chunk) Snapshot() []Block {
	c.dataLock.RLock()
	defer c.dataLock.RUnlock()
	return append([]Block(nil), c.data...)
}

// Edited reports whether the chunk diverged from its generated terrain.
func (c *Chunk) Edited() bool {
	c.dataLock.RLock()
	defer c.dataLock.RUnlock()
	return c.edited
}

func (c *Chunk) Lifecycle() LifecycleView {
	return LifecycleView{c: c}
}

func (c *Chunk) String() string {
	return fmt.Sprintf("Chunk(%d,%d)", c.coord.X, c.coord.Z)
}
