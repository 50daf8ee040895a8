package system

import "time"

// Phase defines where a frame hook runs relative to the world passes.
type Phase int

const (
	PhaseInput   Phase = iota // 0: before World.Update
	PhaseOutput               // 1: after World.Render, hand results to collaborators
	PhasePersist              // 2: journal flush
)

// System is a frame-level job that is not an ECS system: it sees the frame
// delta, not entities.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Stepper is the world the loop drives. *ecs.World satisfies it.
type Stepper interface {
	Update(dt float64)
	FixedUpdate(dt float64)
	Render(dt float64)
}
