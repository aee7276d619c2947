package voxel

// Generator fills a chunk's voxels. It runs on worker goroutines, so an
// implementation must be safe for concurrent use and deterministic per coordinate.
type Generator interface {
	Generate(coord ChunkCoord, blocks []Block)
}

type GeneratorFunc func(coord ChunkCoord, blocks []Block)

func (f GeneratorFunc) Generate(coord ChunkCoord, blocks []Block) {
	f(coord, blocks)
}

// Fill writes a block at local x, y, z into a raw chunk buffer.
func Fill(blocks []Block, x, y, z int32, b Block) {
	blocks[blockIndex(x, y, z)] = b
}
