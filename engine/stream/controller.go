package stream

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkstream/engine/util"
	"github.com/memmaker/chunkstream/engine/voxel"
	"golang.org/x/time/rate"
)

// InRange reports whether a chunk at offset (dx,dz) from the fulcrum lies
// within radius + 0.5 chunks. Squaring both sides keeps it in integers.
func InRange(dx, dz, radius int32) bool {
	return dx*dx+dz*dz <= radius*radius+radius
}

// ResidentSet returns every coordinate that should be resident around center.
// In-range coordinates map to true. The ring of neighbours around them maps
// to false: those chunks are generated so the outer in-range chunks can mesh,
// but are never meshed themselves.
func ResidentSet(center voxel.ChunkCoord, radius int32) map[voxel.ChunkCoord]bool {
	set := make(map[voxel.ChunkCoord]bool)
	var inRange []voxel.ChunkCoord
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if InRange(dx, dz, radius) {
				coord := center.Offset(dx, dz)
				set[coord] = true
				inRange = append(inRange, coord)
			}
		}
	}
	for _, coord := range inRange {
		for slot := 0; slot < voxel.RING_SIZE; slot++ {
			dx, dz := voxel.RingOffset(slot)
			apron := coord.Offset(dx, dz)
			if _, ok := set[apron]; !ok {
				set[apron] = false
			}
		}
	}
	return set
}

// Controller keeps the resident set centred on the observer. It is driven
// from the main thread, one Update per frame.
type Controller struct {
	world   *World
	radius  int32
	limiter *rate.Limiter

	started  bool
	quadrant [2]int32
	fulcrum  voxel.ChunkCoord
	desired  map[voxel.ChunkCoord]bool
	backlog  *util.PriorityQueue[voxel.ChunkCoord]
	removals map[voxel.ChunkCoord]struct{}
	scans    int
}

// NewController streams chunks within radius of the observer into world.
// A nil limiter inserts the whole backlog in one frame.
func NewController(world *World, radius int32, limiter *rate.Limiter) *Controller {
	return &Controller{
		world:    world,
		radius:   radius,
		limiter:  limiter,
		backlog:  util.NewPriorityQueue[voxel.ChunkCoord](nil),
		removals: make(map[voxel.ChunkCoord]struct{}),
	}
}

func (c *Controller) Update(observer mgl32.Vec3) {
	quadrant := voxel.QuadrantOf(observer)
	if !c.started || quadrant != c.quadrant {
		c.quadrant = quadrant
		fulcrum := voxel.ChunkOf(observer)
		if !c.started || fulcrum != c.fulcrum {
			c.fulcrum = fulcrum
			c.world.Reprioritize(fulcrum)
			util.LogStreamDebug(util.Logf("Controller", "fulcrum %v", fulcrum))
		}
		c.started = true
		c.scan()
	}
	c.retryRemovals()
	c.drainBacklog()
}

func (c *Controller) scan() {
	c.scans++
	c.desired = ResidentSet(c.fulcrum, c.radius)
	resident := make(map[voxel.ChunkCoord]struct{})
	for _, coord := range c.world.Coords() {
		resident[coord] = struct{}{}
		if _, ok := c.desired[coord]; !ok {
			c.removals[coord] = struct{}{}
		}
	}
	for coord := range c.removals {
		if _, ok := c.desired[coord]; ok {
			delete(c.removals, coord)
		}
	}
	c.backlog.Clear()
	for coord := range c.desired {
		if _, ok := resident[coord]; !ok {
			c.backlog.Enqueue(coord, int(coord.DistanceSquared(c.fulcrum)))
		}
	}
	util.LogStreamDebug(util.Logf("Controller", "scan around %v: %d to insert, %d to remove", c.fulcrum, c.backlog.Len(), len(c.removals)))
}

// retryRemovals evicts chunks that left the resident set. A chunk next to a
// meshing neighbour refuses and stays listed for the next frame.
func (c *Controller) retryRemovals() {
	for coord := range c.removals {
		if _, ok := c.world.Lookup(coord); !ok || c.world.Remove(coord) {
			delete(c.removals, coord)
		}
	}
}

func (c *Controller) drainBacklog() {
	for !c.backlog.IsEmpty() {
		if c.limiter != nil && !c.limiter.Allow() {
			return
		}
		c.world.Insert(c.backlog.Dequeue())
	}
}

func (c *Controller) Fulcrum() voxel.ChunkCoord {
	return c.fulcrum
}

// Scans counts resident-set scans, one per quadrant crossing.
func (c *Controller) Scans() int {
	return c.scans
}

func (c *Controller) Backlog() int {
	return c.backlog.Len()
}

func (c *Controller) PendingRemovals() int {
	return len(c.removals)
}
