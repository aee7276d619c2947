package meshexport

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkstream/engine/voxel"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var blockColors = map[uint16][3]uint8{
	voxel.Stone.ID():   {128, 128, 128},
	voxel.Dirt.ID():    {121, 85, 58},
	voxel.Grass.ID():   {95, 159, 53},
	voxel.Sand.ID():    {219, 207, 163},
	voxel.Glass.ID():   {200, 230, 240},
	voxel.Leaves.ID():  {60, 120, 40},
	voxel.Log.ID():     {102, 81, 51},
	voxel.Bedrock.ID(): {50, 50, 50},
}

// aoShade scales a corner's colour by its occlusion value 0..3.
var aoShade = [4]float32{0.35, 0.55, 0.8, 1}

func vertexColor(b voxel.Block, ao uint8) [4]uint8 {
	base, ok := blockColors[b.ID()]
	if !ok {
		base = [3]uint8{255, 0, 255}
	}
	shade := aoShade[ao]
	return [4]uint8{uint8(float32(base[0]) * shade), uint8(float32(base[1]) * shade), uint8(float32(base[2]) * shade), 255}
}

// Build expands faces into an indexed triangle list in world space. Each quad
// is split along the diagonal with the brighter corners so the occlusion
// gradient does not flip between neighbouring faces.
func Build(coord voxel.ChunkCoord, faces []voxel.Face) ([][3]float32, [][4]uint8, []uint32) {
	origin := coord.Origin().ToVec3()
	positions := make([][3]float32, 0, 4*len(faces))
	colors := make([][4]uint8, 0, 4*len(faces))
	indices := make([]uint32, 0, 6*len(faces))
	for _, f := range faces {
		base := uint32(len(positions))
		for i, corner := range f.Corners() {
			p := corner.Add(origin)
			positions = append(positions, [3]float32(p))
			colors = append(colors, vertexColor(f.Block, f.CornerAO(i)))
		}
		if f.CornerAO(0)+f.CornerAO(2) >= f.CornerAO(1)+f.CornerAO(3) {
			indices = append(indices, base, base+1, base+2, base, base+2, base+3)
		} else {
			indices = append(indices, base+1, base+2, base+3, base+1, base+3, base)
		}
	}
	return positions, colors, indices
}

// Document wraps one chunk's faces into a glTF scene with a single node.
func Document(coord voxel.ChunkCoord, faces []voxel.Face) *gltf.Document {
	doc := gltf.NewDocument()
	name := fmt.Sprintf("chunk_%d_%d", coord.X, coord.Z)
	node := &gltf.Node{Name: name}
	if len(faces) > 0 {
		positions, colors, indices := Build(coord, faces)
		posAccessor := modeler.WritePosition(doc, positions)
		colorAccessor := modeler.WriteColor(doc, colors)
		indexAccessor := modeler.WriteIndices(doc, indices)
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: name,
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(indexAccessor),
				Attributes: map[string]uint32{
					gltf.POSITION: posAccessor,
					gltf.COLOR_0:  colorAccessor,
				},
			}},
		})
		node.Mesh = gltf.Index(uint32(len(doc.Meshes) - 1))
	}
	doc.Nodes = append(doc.Nodes, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	return doc
}

// Save writes the faces of one chunk as a glTF file.
func Save(path string, coord voxel.ChunkCoord, faces []voxel.Face) error {
	if err := gltf.Save(Document(coord, faces), path); err != nil {
		return errors.Wrapf(err, "exporting chunk %v to %s", coord, path)
	}
	return nil
}

// Bounds returns the world-space box around the exported positions.
func Bounds(positions [][3]float32) (mgl32.Vec3, mgl32.Vec3) {
	if len(positions) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo, hi := mgl32.Vec3(positions[0]), mgl32.Vec3(positions[0])
	for _, p := range positions[1:] {
		for axis := 0; axis < 3; axis++ {
			if p[axis] < lo[axis] {
				lo[axis] = p[axis]
			}
			if p[axis] > hi[axis] {
				hi[axis] = p[axis]
			}
		}
	}
	return lo, hi
}
