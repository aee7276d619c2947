package main

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/solarlune/gocoro"
)

// Flight moves the observer along a list of waypoints, pausing at each one.
// The route runs as a coroutine stepped once per frame.
type Flight struct {
	coroutine gocoro.Coroutine
	position  mgl32.Vec3
	target    mgl32.Vec3
	speed     float32
}

func NewFlight(start mgl32.Vec3, speed float32, waypoints []mgl32.Vec3) *Flight {
	f := &Flight{position: start, target: start, speed: speed}
	f.coroutine = gocoro.NewCoroutine()
	should(f.coroutine.Run(f.route, waypoints))
	return f
}

func (f *Flight) route(exe *gocoro.Execution) {
	waypoints := exe.Args[0].([]mgl32.Vec3)
	for _, waypoint := range waypoints {
		f.target = waypoint
		should(exe.YieldFunc(f.arrived))
		should(exe.YieldTime(time.Millisecond * 500))
	}
}

func (f *Flight) arrived() bool {
	return f.position.Sub(f.target).Len() < 0.01
}

func (f *Flight) Update(deltaSeconds float32) {
	if f.coroutine.Running() {
		f.coroutine.Update()
	}
	step := f.target.Sub(f.position)
	maxStep := f.speed * deltaSeconds
	if step.Len() > maxStep {
		step = step.Normalize().Mul(maxStep)
	}
	f.position = f.position.Add(step)
}

func (f *Flight) Position() mgl32.Vec3 {
	return f.position
}

func (f *Flight) Done() bool {
	return !f.coroutine.Running()
}
