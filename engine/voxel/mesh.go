package voxel

type blockReader func(x, y, z int32) Block

// MeshBorder meshes the whole centre chunk, reading across into the ring
// for border voxels. Faces are split by owner: voxels on the chunk's outer
// columns go to border, everything else to interior. The caller holds the
// ring's read locks.
func (v MeshingView) MeshBorder() (border, interior []Face) {
	return meshColumns(v.Center(), 0, CHUNK_WIDTH-1, v.Block)
}

// MeshInterior re-meshes only the inner columns [1, CHUNK_WIDTH-2] and never
// reads outside the centre chunk. It is only valid when the cached border
// faces are still correct, which holds for edits that pass IsDeepInterior.
func (v MeshingView) MeshInterior() []Face {
	_, interior := meshColumns(v.Center(), 1, CHUNK_WIDTH-2, v.column)
	return interior
}

func meshColumns(c *Chunk, lo, hi int32, read blockReader) (border, interior []Face) {
	for x := lo; x <= hi; x++ {
		for z := lo; z <= hi; z++ {
			onBorder := x == 0 || x == CHUNK_WIDTH-1 || z == 0 || z == CHUNK_WIDTH-1
			for y := int32(0); y < CHUNK_HEIGHT; y++ {
				block := c.data[blockIndex(x, y, z)]
				if !block.IsSolid() {
					continue
				}
				for dir := FaceType(0); dir < FaceCount; dir++ {
					n := faceAxes[dir][0]
					if read(x+n.X, y+n.Y, z+n.Z).IsOpaque() {
						continue
					}
					face := Face{
						Pos:   PackPos(x, y, z),
						Block: block,
						AO:    occlusion(read, x, y, z, dir),
						Dir:   dir,
					}
					if onBorder {
						border = append(border, face)
					} else {
						interior = append(interior, face)
					}
				}
			}
		}
	}
	return border, interior
}

func occlusion(read blockReader, x, y, z int32, dir FaceType) uint8 {
	var mask uint8
	for i, off := range aoOffsets[dir] {
		if read(x+off.X, y+off.Y, z+off.Z).IsOpaque() {
			mask |= 1 << i
		}
	}
	return aoTable[mask]
}
