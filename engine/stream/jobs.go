package stream

import (
	"container/list"
	"sort"

	"github.com/memmaker/chunkstream/engine/voxel"
)

type JobKind uint8

const (
	JobGenerate JobKind = iota
	JobMesh
)

func (k JobKind) String() string {
	if k == JobGenerate {
		return "generate"
	}
	return "mesh"
}

// urgent jobs sit ahead of every distance priority and keep their place on reprioritisation.
const urgent int32 = -1

type Job struct {
	Kind   JobKind
	Target voxel.Handle
	Coord  voxel.ChunkCoord
	// Interior asks for the inner columns only, reusing the cached border faces.
	Interior bool

	priority int32
}

// JobQueue keeps jobs ordered by priority, FIFO among equals.
// Elements stay valid until removed, so chunks can hold on to them.
type JobQueue struct {
	list *list.List
}

func newJobQueue() JobQueue {
	return JobQueue{list: list.New()}
}

func (q *JobQueue) Len() int {
	return q.list.Len()
}

func (q *JobQueue) push(job *Job, priority int32) *list.Element {
	job.priority = priority
	// new work is usually farther out than what is queued, so search from the back
	for el := q.list.Back(); el != nil; el = el.Prev() {
		if el.Value.(*Job).priority <= priority {
			return q.list.InsertAfter(job, el)
		}
	}
	return q.list.PushFront(job)
}

// pushUrgent queues behind earlier urgent jobs but ahead of everything else.
func (q *JobQueue) pushUrgent(job *Job) *list.Element {
	job.priority = urgent
	for el := q.list.Front(); el != nil; el = el.Next() {
		if el.Value.(*Job).priority != urgent {
			return q.list.InsertBefore(job, el)
		}
	}
	return q.list.PushBack(job)
}

func (q *JobQueue) makeUrgent(el *list.Element) {
	job := el.Value.(*Job)
	if job.priority == urgent {
		return
	}
	job.priority = urgent
	for at := q.list.Front(); at != nil; at = at.Next() {
		if at.Value.(*Job).priority != urgent {
			q.list.MoveBefore(el, at)
			return
		}
	}
	q.list.MoveToBack(el)
}

func (q *JobQueue) remove(el *list.Element) {
	q.list.Remove(el)
}

func (q *JobQueue) front() *list.Element {
	return q.list.Front()
}

// reprioritize recomputes every non-urgent priority and restores the order.
// Element identity is preserved, only links move.
func (q *JobQueue) reprioritize(priority func(voxel.ChunkCoord) int32) {
	elements := make([]*list.Element, 0, q.list.Len())
	for el := q.list.Front(); el != nil; el = el.Next() {
		job := el.Value.(*Job)
		if job.priority != urgent {
			job.priority = priority(job.Coord)
		}
		elements = append(elements, el)
	}
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Value.(*Job).priority < elements[j].Value.(*Job).priority
	})
	for _, el := range elements {
		q.list.MoveToBack(el)
	}
}

func (w *World) priority(coord voxel.ChunkCoord) int32 {
	return coord.DistanceSquared(w.center)
}

// Reprioritize re-sorts pending jobs around a new fulcrum.
func (w *World) Reprioritize(center voxel.ChunkCoord) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if center == w.center {
		return
	}
	w.center = center
	w.jobs.reprioritize(w.priority)
}

// PendingJobs counts queued, unclaimed jobs.
func (w *World) PendingJobs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.jobs.Len()
}
