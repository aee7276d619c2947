package main

import (
	"fmt"

	"github.com/memmaker/chunkstream/engine/stream"
	"github.com/memmaker/chunkstream/engine/voxel"
)

// countingRenderer stands in for a GPU backend and only tracks what it holds.
type countingRenderer struct {
	live     int
	faces    int
	uploads  int
	releases int
}

type countedMesh struct {
	renderer *countingRenderer
	faces    int
}

func newCountingRenderer() *countingRenderer {
	return &countingRenderer{}
}

func (r *countingRenderer) Upload(coord voxel.ChunkCoord, faces []voxel.Face) stream.MeshHandle {
	r.live++
	r.uploads++
	r.faces += len(faces)
	return &countedMesh{renderer: r, faces: len(faces)}
}

func (m *countedMesh) Release() {
	m.renderer.live--
	m.renderer.releases++
	m.renderer.faces -= m.faces
}

func (r *countingRenderer) String() string {
	return fmt.Sprintf("meshes live: %d, faces: %d, uploads: %d, releases: %d", r.live, r.faces, r.uploads, r.releases)
}
