package meshexport

import (
	"path/filepath"
	"testing"

	"github.com/memmaker/chunkstream/engine/voxel"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func cubeFaces() []voxel.Face {
	c := voxel.NewChunk(voxel.ChunkCoord{X: 1, Z: -1})
	c.SetLocal(4, 20, 4, voxel.Stone)
	var ring [voxel.RING_SIZE]*voxel.Chunk
	ring[voxel.RING_CENTER] = c
	_, interior := voxel.NewMeshingView(ring).MeshBorder()
	return interior
}

func TestBuildExpandsQuads(t *testing.T) {
	coord := voxel.ChunkCoord{X: 1, Z: -1}
	positions, colors, indices := Build(coord, cubeFaces())
	if len(positions) != 24 || len(colors) != 24 || len(indices) != 36 {
		t.Fatalf("got %d positions %d colors %d indices", len(positions), len(colors), len(indices))
	}
	for _, i := range indices {
		if int(i) >= len(positions) {
			t.Fatalf("index %d out of range", i)
		}
	}
	lo, hi := Bounds(positions)
	origin := coord.Origin()
	if lo.X() != float32(origin.X+4) || hi.Y() != 21 || lo.Z() != float32(origin.Z+4) {
		t.Fatalf("bounds %v %v", lo, hi)
	}
}

func TestSplitFollowsOcclusion(t *testing.T) {
	dark := voxel.Face{Block: voxel.Stone, Dir: voxel.YP, AO: voxel.OcclusionFromMask(1 << 0)}
	_, _, indices := Build(voxel.ChunkCoord{}, []voxel.Face{dark})
	if indices[0] != 1 {
		t.Fatalf("quad split through the dark corner: %v", indices)
	}
	_, _, indices = Build(voxel.ChunkCoord{}, []voxel.Face{{Block: voxel.Stone, Dir: voxel.YP, AO: 0xFF}})
	if indices[0] != 0 {
		t.Fatalf("open quad split differently: %v", indices)
	}
}

func TestSaveAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunk.gltf")
	faces := cubeFaces()
	if err := Save(path, voxel.ChunkCoord{X: 1, Z: -1}, faces); err != nil {
		t.Fatalf("save: %v", err)
	}
	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(doc.Meshes) != 1 || len(doc.Nodes) != 1 {
		t.Fatalf("meshes %d nodes %d", len(doc.Meshes), len(doc.Nodes))
	}
	primitive := doc.Meshes[0].Primitives[0]
	positions, err := modeler.ReadPosition(doc, doc.Accessors[primitive.Attributes[gltf.POSITION]], nil)
	if err != nil {
		t.Fatalf("read positions: %v", err)
	}
	if len(positions) != 4*len(faces) {
		t.Fatalf("read back %d positions", len(positions))
	}
}

func TestEmptyChunkHasNoMesh(t *testing.T) {
	doc := Document(voxel.ChunkCoord{}, nil)
	if len(doc.Meshes) != 0 || len(doc.Nodes) != 1 || doc.Nodes[0].Mesh != nil {
		t.Fatalf("empty export produced geometry")
	}
}
