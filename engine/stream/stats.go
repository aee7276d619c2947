package stream

import (
	"fmt"
	"strings"

	"github.com/memmaker/chunkstream/engine/util"
	"github.com/memmaker/chunkstream/engine/voxel"
)

type Stats struct {
	Resident int
	Pending  int
	Active   int
	ByState  [voxel.StateMeshed + 1]int
	Uploads  int
	Timings  []util.TimerState
}

func (s Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "resident: %d, pending: %d, active: %d, uploads: %d", s.Resident, s.Pending, s.Active, s.Uploads)
	for state, count := range s.ByState {
		fmt.Fprintf(&sb, ", %v: %d", voxel.State(state), count)
	}
	for _, timing := range s.Timings {
		sb.WriteString("\n> ")
		sb.WriteString(timing.String())
	}
	return sb.String()
}

func (w *World) Stats() Stats {
	w.mu.Lock()
	stats := Stats{
		Resident: w.store.Len(),
		Pending:  w.jobs.Len(),
		Active:   w.active,
	}
	w.store.arena.Each(func(_ voxel.Handle, e *entry) {
		stats.ByState[e.lifecycle().State()]++
	})
	w.mu.Unlock()
	stats.Uploads = w.uploads.Len()
	stats.Timings = w.timer.Snapshot()
	return stats
}
