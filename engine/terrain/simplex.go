package terrain

import (
	"github.com/memmaker/chunkstream/engine/voxel"
	"github.com/ojrac/opensimplex-go"
)

// Simplex is a heightmap generator over two octaves of OpenSimplex noise.
// It only reads the noise tables after construction, so workers can share it.
type Simplex struct {
	noise     opensimplex.Noise
	Scale     float64
	Base      int32
	Amplitude int32
	SeaLevel  int32
}

func NewSimplex(seed int64) *Simplex {
	return &Simplex{
		noise:     opensimplex.New(seed),
		Scale:     64,
		Base:      40,
		Amplitude: 24,
		SeaLevel:  36,
	}
}

// Height is the y of the topmost solid block of the column at world x, z.
func (s *Simplex) Height(x, z int32) int32 {
	fx, fz := float64(x)/s.Scale, float64(z)/s.Scale
	n := s.noise.Eval2(fx, fz) + 0.25*s.noise.Eval2(fx*4, fz*4)
	h := s.Base + int32(n*float64(s.Amplitude))
	if h < 1 {
		h = 1
	}
	if h > voxel.CHUNK_HEIGHT-2 {
		h = voxel.CHUNK_HEIGHT - 2
	}
	return h
}

func (s *Simplex) Generate(coord voxel.ChunkCoord, blocks []voxel.Block) {
	origin := coord.Origin()
	for x := int32(0); x < voxel.CHUNK_WIDTH; x++ {
		for z := int32(0); z < voxel.CHUNK_WIDTH; z++ {
			h := s.Height(origin.X+x, origin.Z+z)
			top := voxel.Grass
			if h <= s.SeaLevel+1 {
				top = voxel.Sand
			}
			voxel.Fill(blocks, x, 0, z, voxel.Bedrock)
			for y := int32(1); y < h; y++ {
				if y < h-3 {
					voxel.Fill(blocks, x, y, z, voxel.Stone)
				} else {
					voxel.Fill(blocks, x, y, z, voxel.Dirt)
				}
			}
			voxel.Fill(blocks, x, h, z, top)
			for y := h + 1; y <= s.SeaLevel; y++ {
				voxel.Fill(blocks, x, y, z, voxel.Water)
			}
		}
	}
}
