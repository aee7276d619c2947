package terrain

import (
	"reflect"
	"testing"

	"github.com/memmaker/chunkstream/engine/voxel"
)

func generate(gen voxel.Generator, coord voxel.ChunkCoord) []voxel.Block {
	c := voxel.NewChunk(coord)
	gen.Generate(coord, c.Blocks())
	return c.Blocks()
}

func TestSimplexIsDeterministic(t *testing.T) {
	coord := voxel.ChunkCoord{X: -3, Z: 11}
	a := generate(NewSimplex(7), coord)
	b := generate(NewSimplex(7), coord)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different chunks")
	}
}

func TestSimplexColumns(t *testing.T) {
	gen := NewSimplex(99)
	coord := voxel.ChunkCoord{X: 2, Z: -1}
	c := voxel.NewChunk(coord)
	gen.Generate(coord, c.Blocks())
	origin := coord.Origin()
	for x := int32(0); x < voxel.CHUNK_WIDTH; x++ {
		for z := int32(0); z < voxel.CHUNK_WIDTH; z++ {
			h := gen.Height(origin.X+x, origin.Z+z)
			if h < 1 || h >= voxel.CHUNK_HEIGHT-1 {
				t.Fatalf("height %d out of range", h)
			}
			if top := c.Local(x, h, z); top != voxel.Grass && top != voxel.Sand {
				t.Fatalf("column %d,%d topped with %s", x, z, top.Name())
			}
			if above := c.Local(x, h+1, z); above != voxel.Air && above != voxel.Water {
				t.Fatalf("column %d,%d has %s above the surface", x, z, above.Name())
			}
			if c.Local(x, 0, z) != voxel.Bedrock {
				t.Fatalf("missing bedrock")
			}
		}
	}
}
