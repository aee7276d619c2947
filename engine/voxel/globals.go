package voxel

import "github.com/go-gl/mathgl/mgl32"

const (
	AIR            uint16 = 0
	CHUNK_WIDTH    int32  = 16
	CHUNK_HEIGHT   int32  = 128
	CHUNK_LAYER    int32  = CHUNK_WIDTH * CHUNK_WIDTH
	CHUNK_VOLUME   int32  = CHUNK_LAYER * CHUNK_HEIGHT
	HALF_CHUNK     int32  = CHUNK_WIDTH / 2
	RING_SIZE             = 9
	RING_CENTER           = 4
	NEIGHBOR_COUNT        = RING_SIZE - 1
)

// Face positions pack x and z into 4 bits and y into 8.
var _ [16 - CHUNK_WIDTH]struct{}
var _ [256 - CHUNK_HEIGHT]struct{}

type Int3 struct {
	X, Y, Z int32
}

func (i Int3) Add(other Int3) Int3 {
	return Int3{i.X + other.X, i.Y + other.Y, i.Z + other.Z}
}

func (i Int3) Sub(other Int3) Int3 {
	return Int3{i.X - other.X, i.Y - other.Y, i.Z - other.Z}
}

func (i Int3) Mul(factor int32) Int3 {
	i.X *= factor
	i.Y *= factor
	i.Z *= factor
	return i
}

func (i Int3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X), float32(i.Y), float32(i.Z)}
}

// ChunkCoord addresses a chunk column on the horizontal grid.
type ChunkCoord struct {
	X, Z int32
}

func (c ChunkCoord) Offset(dx, dz int32) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Z: c.Z + dz}
}

// Origin is the world position of the chunk's local (0,0,0) voxel.
func (c ChunkCoord) Origin() Int3 {
	return Int3{X: c.X * CHUNK_WIDTH, Z: c.Z * CHUNK_WIDTH}
}

func (c ChunkCoord) DistanceSquared(other ChunkCoord) int32 {
	dx, dz := c.X-other.X, c.Z-other.Z
	return dx*dx + dz*dz
}

// Less orders coordinates by x, then z.
func (c ChunkCoord) Less(other ChunkCoord) bool {
	if c.X != other.X {
		return c.X < other.X
	}
	return c.Z < other.Z
}

// FloorDiv rounds towards negative infinity, so -1 / 16 is -1 and not 0.
func FloorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Mod is the non-negative remainder matching FloorDiv.
func Mod(a, b int32) int32 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// SplitWorld maps world x/z to the owning chunk and the local column inside it.
func SplitWorld(x, z int32) (ChunkCoord, int32, int32) {
	return ChunkCoord{X: FloorDiv(x, CHUNK_WIDTH), Z: FloorDiv(z, CHUNK_WIDTH)}, Mod(x, CHUNK_WIDTH), Mod(z, CHUNK_WIDTH)
}

func ChunkOf(pos mgl32.Vec3) ChunkCoord {
	coord, _, _ := SplitWorld(floor(pos.X()), floor(pos.Z()))
	return coord
}

// QuadrantOf returns the half-chunk cell containing pos.
func QuadrantOf(pos mgl32.Vec3) [2]int32 {
	return [2]int32{FloorDiv(floor(pos.X()), HALF_CHUNK), FloorDiv(floor(pos.Z()), HALF_CHUNK)}
}

func floor(f float32) int32 {
	i := int32(f)
	if f < 0 && float32(i) != f {
		i--
	}
	return i
}

// RingSlot maps a neighbour offset in [-1,1]² to its index in a 3x3 ring.
func RingSlot(dx, dz int32) int {
	return int((dz+1)*3 + (dx + 1))
}

func RingOffset(slot int) (int32, int32) {
	return int32(slot%3) - 1, int32(slot/3) - 1
}

func OppositeSlot(slot int) int {
	return RING_SIZE - 1 - slot
}

// BorderNeighbors lists the ring slots whose meshes read the local column (x,z).
// Interior columns touch none, edges touch one, corners touch three.
func BorderNeighbors(x, z int32) []int {
	var dx, dz int32
	if x == 0 {
		dx = -1
	} else if x == CHUNK_WIDTH-1 {
		dx = 1
	}
	if z == 0 {
		dz = -1
	} else if z == CHUNK_WIDTH-1 {
		dz = 1
	}
	var slots []int
	if dx != 0 {
		slots = append(slots, RingSlot(dx, 0))
	}
	if dz != 0 {
		slots = append(slots, RingSlot(0, dz))
	}
	if dx != 0 && dz != 0 {
		slots = append(slots, RingSlot(dx, dz))
	}
	return slots
}

// IsDeepInterior reports whether an edit at column (x,z) leaves every border face untouched.
func IsDeepInterior(x, z int32) bool {
	return x >= 2 && x <= CHUNK_WIDTH-3 && z >= 2 && z <= CHUNK_WIDTH-3
}
