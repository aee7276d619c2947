package util

import (
	"fmt"
	"math"
	"sync"
	"time"
)

type TimerState struct {
	name         string
	lastDuration float64

	totalDuration  float64
	executionCount int64

	minDuration float64
	maxDuration float64
}

func (t TimerState) Name() string {
	return t.name
}

func (t TimerState) Count() int64 {
	return t.executionCount
}

func (t TimerState) AverageMS() float64 {
	if t.executionCount == 0 {
		return 0
	}
	return t.totalDuration / float64(t.executionCount)
}

func (t TimerState) String() string {
	return fmt.Sprintf("%s n: %d, last: %.2fms, avg: %.2fms, min: %.2fms, max: %.2fms", t.name, t.executionCount, t.lastDuration, t.AverageMS(), t.minDuration, t.maxDuration)
}

// Timer aggregates named durations. It is shared by the worker goroutines.
type Timer struct {
	lock       sync.Mutex
	states     map[string]*TimerState
	timerNames []string
}

func NewTimer() *Timer {
	return &Timer{
		states: make(map[string]*TimerState),
	}
}

// Snapshot copies the current states in registration order.
func (t *Timer) Snapshot() []TimerState {
	t.lock.Lock()
	defer t.lock.Unlock()
	snapshot := make([]TimerState, 0, len(t.timerNames))
	for _, name := range t.timerNames {
		snapshot = append(snapshot, *t.states[name])
	}
	return snapshot
}

func (t *Timer) String() string {
	var str string
	for _, state := range t.Snapshot() {
		str += state.String() + "\n"
	}
	return str
}

// Start begins a measurement; calling the returned func records it and returns milliseconds.
func (t *Timer) Start(name string) func() float64 {
	start := time.Now()
	return func() float64 {
		durationInMS := float64(time.Since(start).Microseconds()) / 1000.0
		t.lock.Lock()
		defer t.lock.Unlock()
		state, ok := t.states[name]
		if !ok {
			t.timerNames = append(t.timerNames, name)
			state = &TimerState{
				name:        name,
				minDuration: math.MaxInt64,
				maxDuration: math.MinInt64,
			}
			t.states[name] = state
		}
		state.lastDuration = durationInMS
		state.totalDuration += durationInMS
		state.executionCount++
		if durationInMS < state.minDuration {
			state.minDuration = durationInMS
		}
		if durationInMS > state.maxDuration {
			state.maxDuration = durationInMS
		}
		return durationInMS
	}
}
