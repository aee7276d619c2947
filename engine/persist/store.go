package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/zstd"
	"github.com/memmaker/chunkstream/engine/util"
	"github.com/memmaker/chunkstream/engine/voxel"
	"github.com/pkg/errors"
)

const formatVersion = 1

type chunkFile struct {
	Version int32   `nbt:"version"`
	X       int32   `nbt:"x"`
	Z       int32   `nbt:"z"`
	Width   int32   `nbt:"width"`
	Height  int32   `nbt:"height"`
	Blocks  []int32 `nbt:"blocks"`
}

type eviction struct {
	coord  voxel.ChunkCoord
	blocks []voxel.Block
	seq    uint64
}

// Store keeps edited chunks on disk. It wraps a base generator: chunks with
// a saved file are restored from it, all others are generated fresh.
// Evicted chunks are written by a single background writer in eviction
// order; until their file is written they are restored from memory.
type Store struct {
	dir  string
	base voxel.Generator

	lock    sync.Mutex
	pending map[voxel.ChunkCoord]eviction
	seq     uint64

	// sendLock keeps Close from closing the queue under a sender
	sendLock sync.RWMutex
	closed   bool
	queue    chan eviction
	saves    sync.WaitGroup
	writer   sync.WaitGroup
}

func NewStore(dir string, base voxel.Generator) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating chunk directory %s", dir)
	}
	s := &Store{
		dir:     dir,
		base:    base,
		pending: make(map[voxel.ChunkCoord]eviction),
		queue:   make(chan eviction, 64),
	}
	s.writer.Add(1)
	go s.writeLoop()
	return s, nil
}

func (s *Store) writeLoop() {
	defer s.writer.Done()
	for ev := range s.queue {
		if err := s.Save(ev.coord, ev.blocks); err != nil {
			util.LogIOError(util.Logf("Persist", "%v", err))
		} else {
			util.LogIOInfo(util.Logf("Persist", "saved edited chunk %v", ev.coord))
		}
		s.lock.Lock()
		if s.pending[ev.coord].seq == ev.seq {
			delete(s.pending, ev.coord)
		}
		s.lock.Unlock()
		s.saves.Done()
	}
}

// Flush waits until every eviction queued before the call is on disk.
// It must not run concurrently with Evict.
func (s *Store) Flush() {
	s.saves.Wait()
}

// Close writes the remaining evictions and stops the writer.
func (s *Store) Close() {
	s.sendLock.Lock()
	if s.closed {
		s.sendLock.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.sendLock.Unlock()
	s.writer.Wait()
}

func (s *Store) path(coord voxel.ChunkCoord) string {
	return filepath.Join(s.dir, fmt.Sprintf("c.%d.%d.nbt.zst", coord.X, coord.Z))
}

func (s *Store) Generate(coord voxel.ChunkCoord, blocks []voxel.Block) {
	s.lock.Lock()
	ev, queued := s.pending[coord]
	s.lock.Unlock()
	if queued {
		copy(blocks, ev.blocks)
		util.LogStreamDebug(util.Logf("Persist", "restored %v from the write queue", coord))
		return
	}
	found, err := s.Load(coord, blocks)
	if err != nil {
		util.LogIOError(util.Logf("Persist", "%v, regenerating", err))
	}
	if found && err == nil {
		util.LogStreamDebug(util.Logf("Persist", "restored %v", coord))
		return
	}
	s.base.Generate(coord, blocks)
}

// Evict queues an edited chunk for writing. It keeps blocks, so the caller
// must hand over a copy it no longer touches.
func (s *Store) Evict(coord voxel.ChunkCoord, blocks []voxel.Block) {
	s.sendLock.RLock()
	defer s.sendLock.RUnlock()
	if s.closed {
		util.LogIOError(util.Logf("Persist", "dropped eviction of %v after close", coord))
		return
	}
	s.lock.Lock()
	s.seq++
	ev := eviction{coord: coord, blocks: blocks, seq: s.seq}
	s.pending[coord] = ev
	s.saves.Add(1)
	s.lock.Unlock()
	s.queue <- ev
}

// Save writes the chunk through a temp file so readers never see a partial file.
func (s *Store) Save(coord voxel.ChunkCoord, blocks []voxel.Block) error {
	if len(blocks) != int(voxel.CHUNK_VOLUME) {
		return errors.Errorf("saving %v: %d blocks, want %d", coord, len(blocks), voxel.CHUNK_VOLUME)
	}
	file := chunkFile{
		Version: formatVersion,
		X:       coord.X,
		Z:       coord.Z,
		Width:   voxel.CHUNK_WIDTH,
		Height:  voxel.CHUNK_HEIGHT,
		Blocks:  make([]int32, len(blocks)),
	}
	for i, b := range blocks {
		file.Blocks[i] = int32(b)
	}

	tmp, err := os.CreateTemp(s.dir, "chunk-*.tmp")
	if err != nil {
		return errors.Wrapf(err, "saving %v", coord)
	}
	defer os.Remove(tmp.Name())

	enc, err := zstd.NewWriter(tmp, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		tmp.Close()
		return errors.Wrapf(err, "saving %v", coord)
	}
	if err := nbt.NewEncoder(enc).Encode(file, "chunk"); err != nil {
		enc.Close()
		tmp.Close()
		return errors.Wrapf(err, "encoding %v", coord)
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "compressing %v", coord)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "saving %v", coord)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), s.path(coord)), "saving %v", coord)
}

// Load fills blocks from a saved file. It reports false without an error
// when the chunk was never saved.
func (s *Store) Load(coord voxel.ChunkCoord, blocks []voxel.Block) (bool, error) {
	f, err := os.Open(s.path(coord))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "loading %v", coord)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return false, errors.Wrapf(err, "loading %v", coord)
	}
	defer dec.Close()

	var file chunkFile
	if _, err := nbt.NewDecoder(dec).Decode(&file); err != nil {
		return false, errors.Wrapf(err, "decoding %v", coord)
	}
	if file.Version != formatVersion || file.Width != voxel.CHUNK_WIDTH || file.Height != voxel.CHUNK_HEIGHT {
		return false, errors.Errorf("loading %v: incompatible file v%d %dx%d", coord, file.Version, file.Width, file.Height)
	}
	if file.X != coord.X || file.Z != coord.Z || len(file.Blocks) != len(blocks) {
		return false, errors.Errorf("loading %v: file holds chunk %d,%d with %d blocks", coord, file.X, file.Z, len(file.Blocks))
	}
	for i, b := range file.Blocks {
		blocks[i] = voxel.Block(b)
	}
	return true, nil
}

// Saved reports whether coord has a file on disk.
func (s *Store) Saved(coord voxel.ChunkCoord) bool {
	_, err := os.Stat(s.path(coord))
	return err == nil
}
