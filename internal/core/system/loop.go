package system

import (
	"sort"
	"time"
)

// Loop advances one logical frame per Tick: input hooks, World.Update, as
// many fixed steps as the accumulated time allows (capped), World.Render,
// then output and persist hooks. Everything runs on the caller's goroutine.
type Loop struct {
	world     Stepper
	fixedStep time.Duration
	maxSteps  int

	acc     time.Duration
	frames  uint64
	dropped uint64

	systems []System
	sorted  bool
}

// NewLoop builds a loop. A non-positive fixedStep disables the fixed pass;
// maxSteps < 1 is treated as 1.
func NewLoop(w Stepper, fixedStep time.Duration, maxSteps int) *Loop {
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &Loop{
		world:     w,
		fixedStep: fixedStep,
		maxSteps:  maxSteps,
		systems:   make([]System, 0, 8),
	}
}

func (l *Loop) Register(s System) {
	l.systems = append(l.systems, s)
	l.sorted = false
}

// Tick runs one frame of dt and returns the number of fixed steps taken.
func (l *Loop) Tick(dt time.Duration) int {
	l.ensureSorted()
	l.runPhase(PhaseInput, dt)

	secs := dt.Seconds()
	l.world.Update(secs)

	steps := 0
	if l.fixedStep > 0 {
		l.acc += dt
		for l.acc >= l.fixedStep && steps < l.maxSteps {
			l.world.FixedUpdate(l.fixedStep.Seconds())
			l.acc -= l.fixedStep
			steps++
		}
		// Too far behind: keep the remainder below one step instead of
		// spiralling on the next frame.
		if l.acc >= l.fixedStep {
			l.dropped += uint64(l.acc / l.fixedStep)
			l.acc %= l.fixedStep
		}
	}

	l.world.Render(secs)
	l.runPhase(PhaseOutput, dt)
	l.runPhase(PhasePersist, dt)
	l.frames++
	return steps
}

// Frames counts completed ticks.
func (l *Loop) Frames() uint64 { return l.frames }

// DroppedSteps counts fixed steps skipped by the catch-up cap.
func (l *Loop) DroppedSteps() uint64 { return l.dropped }

func (l *Loop) runPhase(phase Phase, dt time.Duration) {
	for _, s := range l.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

func (l *Loop) ensureSorted() {
	if !l.sorted {
		sort.SliceStable(l.systems, func(i, j int) bool {
			return l.systems[i].Phase() < l.systems[j].Phase()
		})
		l.sorted = true
	}
}
