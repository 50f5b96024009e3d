package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseUpdate     Phase = iota // 0: mutate the spatial maps (walks, spawns)
	PhasePostUpdate              // 1: recompute derived fields (fov, senses)
	PhaseOutput                  // 2: render frames, emit logs
)

// System is one stage of the per-tick pipeline.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
