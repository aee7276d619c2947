package voxel

// The eight voxels in front of a face are numbered around the ring starting
// at (-u,-v): 0 (-1,-1), 1 (0,-1), 2 (1,-1), 3 (1,0), 4 (1,1), 5 (0,1), 6 (-1,1), 7 (-1,0).
// Corner k of the face then has sides 2k-1 and 2k+1 and its diagonal at 2k.
var ringUV = [8][2]int32{{-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}}

var (
	aoTable   [256]uint8
	aoOffsets [FaceCount][8]Int3
)

func init() {
	for mask := 0; mask < 256; mask++ {
		var packed uint8
		for corner := 0; corner < 4; corner++ {
			side1 := mask >> ((2*corner + 7) % 8) & 1
			side2 := mask >> (2*corner + 1) & 1
			diagonal := mask >> (2 * corner) & 1
			packed |= vertexAO(side1, side2, diagonal) << (2 * corner)
		}
		aoTable[mask] = packed
	}
	for dir := FaceType(0); dir < FaceCount; dir++ {
		axes := faceAxes[dir]
		for i, uv := range ringUV {
			aoOffsets[dir][i] = axes[0].Add(axes[1].Mul(uv[0])).Add(axes[2].Mul(uv[1]))
		}
	}
}

func vertexAO(side1, side2, corner int) uint8 {
	if side1 == 1 && side2 == 1 {
		return 0
	}
	return uint8(3 - (side1 + side2 + corner))
}

// OcclusionFromMask maps an 8-bit neighbour mask to four packed corner values.
func OcclusionFromMask(mask uint8) uint8 {
	return aoTable[mask]
}
