package voxel

import "testing"

func TestBlockIndexLayout(t *testing.T) {
	if blockIndex(0, 0, 1) != 1 {
		t.Fatalf("z should be the fastest axis")
	}
	if blockIndex(0, 1, 0) != CHUNK_WIDTH {
		t.Fatalf("y stride = %d", blockIndex(0, 1, 0))
	}
	if blockIndex(1, 0, 0) != CHUNK_HEIGHT*CHUNK_WIDTH {
		t.Fatalf("x stride = %d", blockIndex(1, 0, 0))
	}
	if blockIndex(CHUNK_WIDTH-1, CHUNK_HEIGHT-1, CHUNK_WIDTH-1) != CHUNK_VOLUME-1 {
		t.Fatalf("last index out of place")
	}
}

func TestLifecycleTransitions(t *testing.T) {
	lc := NewChunk(ChunkCoord{}).Lifecycle()
	for _, next := range []State{StateGenerating, StateGenerated, StateMeshing, StateMeshed, StateMeshing, StateMeshed} {
		lc.Advance(next)
		if lc.State() != next {
			t.Fatalf("state = %v, want %v", lc.State(), next)
		}
	}
}

func TestLifecycleRejectsSkippedState(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Initiated -> Meshing did not panic")
		}
	}()
	NewChunk(ChunkCoord{}).Lifecycle().Advance(StateMeshing)
}

func TestLifecycleRejectsRegression(t *testing.T) {
	lc := NewChunk(ChunkCoord{}).Lifecycle()
	lc.Advance(StateGenerating)
	lc.Advance(StateGenerated)
	defer func() {
		if recover() == nil {
			t.Fatalf("Generated -> Generating did not panic")
		}
	}()
	lc.Advance(StateGenerating)
}

func TestLinkCounting(t *testing.T) {
	var a Arena[*Chunk]
	c := NewChunk(ChunkCoord{})
	lc := c.Lifecycle()
	lc.Bind(a.Insert(c))
	for slot := 0; slot < RING_SIZE; slot++ {
		if slot == RING_CENTER {
			continue
		}
		dx, dz := RingOffset(slot)
		lc.Link(slot, a.Insert(NewChunk(ChunkCoord{X: dx, Z: dz})))
	}
	if lc.Linked() != NEIGHBOR_COUNT {
		t.Fatalf("linked = %d", lc.Linked())
	}
	if lc.Unlink(RingSlot(1, 0)).IsZero() {
		t.Fatalf("unlink returned zero handle")
	}
	if !lc.Unlink(RingSlot(1, 0)).IsZero() {
		t.Fatalf("double unlink returned a handle")
	}
	if lc.Linked() != NEIGHBOR_COUNT-1 {
		t.Fatalf("linked after unlink = %d", lc.Linked())
	}
	if lc.Self().IsZero() {
		t.Fatalf("self handle lost")
	}
}

func TestEditRoundTrip(t *testing.T) {
	c := NewChunk(ChunkCoord{X: 2, Z: -3})
	if c.Edited() {
		t.Fatalf("fresh chunk marked edited")
	}
	if _, err := c.Edit(3, 40, 7, Glass); err != nil {
		t.Fatalf("edit: %v", err)
	}
	b, err := c.GetBlock(3, 40, 7)
	if err != nil || b != Glass {
		t.Fatalf("read back %v %v", b, err)
	}
	if !c.Edited() {
		t.Fatalf("edit not recorded")
	}
	if _, err := c.Edit(3, CHUNK_HEIGHT, 7, Glass); err == nil {
		t.Fatalf("edit above the column should fail")
	}
}

func TestRingSlots(t *testing.T) {
	if RingSlot(0, 0) != RING_CENTER {
		t.Fatalf("centre slot = %d", RingSlot(0, 0))
	}
	for slot := 0; slot < RING_SIZE; slot++ {
		dx, dz := RingOffset(slot)
		if RingSlot(dx, dz) != slot {
			t.Fatalf("slot %d does not round trip", slot)
		}
		ox, oz := RingOffset(OppositeSlot(slot))
		if ox != -dx || oz != -dz {
			t.Fatalf("opposite of %d is %d,%d", slot, ox, oz)
		}
	}
}

func TestSplitWorldNegative(t *testing.T) {
	coord, x, z := SplitWorld(-1, 16)
	if coord != (ChunkCoord{X: -1, Z: 1}) || x != 15 || z != 0 {
		t.Fatalf("got %v %d %d", coord, x, z)
	}
	if FloorDiv(-16, 16) != -1 || FloorDiv(-17, 16) != -2 || FloorDiv(15, 16) != 0 {
		t.Fatalf("floor division wrong")
	}
}

func TestBorderNeighbors(t *testing.T) {
	if got := BorderNeighbors(0, 5); len(got) != 1 || got[0] != RingSlot(-1, 0) {
		t.Fatalf("west edge: %v", got)
	}
	if got := BorderNeighbors(5, CHUNK_WIDTH-1); len(got) != 1 || got[0] != RingSlot(0, 1) {
		t.Fatalf("south edge: %v", got)
	}
	if got := BorderNeighbors(CHUNK_WIDTH-1, 0); len(got) != 3 {
		t.Fatalf("corner should touch three neighbours: %v", got)
	}
	if got := BorderNeighbors(1, 14); len(got) != 0 {
		t.Fatalf("interior column touched %v", got)
	}
}

func TestBlockFlags(t *testing.T) {
	if !Stone.IsSolid() || !Stone.IsOpaque() || Stone.IsFluid() {
		t.Fatalf("stone flags")
	}
	if Glass.IsOpaque() || !Glass.IsSolid() {
		t.Fatalf("glass flags")
	}
	if !Water.IsFluid() || Water.IsSolid() {
		t.Fatalf("water flags")
	}
	if !Air.IsAir() || Stone.ID() != 1 {
		t.Fatalf("ids")
	}
	if b, ok := BlockByName("Leaves"); !ok || b != Leaves {
		t.Fatalf("lookup by name: %v %v", b, ok)
	}
}
