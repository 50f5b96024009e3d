package main

import (
	"fmt"
	"time"

	"github.com/gridveil/engine/internal/core/system"
)

// walkSystem drives the random walks. Phase 0 (Update).
type walkSystem struct {
	sim *simulation
}

func newWalkSystem(sim *simulation) *walkSystem { return &walkSystem{sim: sim} }

func (w *walkSystem) Phase() system.Phase { return system.PhaseUpdate }

func (w *walkSystem) Update(_ time.Duration) { w.sim.walk() }

// observeSystem recomputes FOV and senses once movement settles.
// Phase 1 (PostUpdate).
type observeSystem struct {
	sim *simulation
}

func newObserveSystem(sim *simulation) *observeSystem { return &observeSystem{sim: sim} }

func (o *observeSystem) Phase() system.Phase { return system.PhasePostUpdate }

func (o *observeSystem) Update(_ time.Duration) { o.sim.observe() }

// renderSystem prints the ANSI frame. Phase 2 (Output). Registered only
// when rendering is on.
type renderSystem struct {
	sim *simulation
}

func newRenderSystem(sim *simulation) *renderSystem { return &renderSystem{sim: sim} }

func (r *renderSystem) Phase() system.Phase { return system.PhaseOutput }

func (r *renderSystem) Update(_ time.Duration) { fmt.Print(r.sim.frame()) }
