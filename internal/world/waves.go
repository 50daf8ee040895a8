package world

import (
	"time"

	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/mathx"
	"go.uber.org/zap"
)

// SpawnDueWaves releases every scheduled wave whose time has come and
// returns the number of enemies spawned.
func (a *Arena) SpawnDueWaves() int {
	waves := a.Layout.Waves()
	now := a.World.Now()
	spawned := 0
	for a.nextWave < len(waves) && waves[a.nextWave].At <= now {
		wv := waves[a.nextWave]
		a.nextWave++
		for _, sp := range wv.Spawns {
			var step mathx.Vec3
			if dir := sp.Step.Vec3(); !dir.IsZero() {
				step = dir.Normalize().Scale(sp.Spacing)
			}
			for i := 0; i < sp.Count; i++ {
				pos := sp.From.Vec3().Add(step.Scale(float64(i)))
				if _, err := a.SpawnEnemy(sp.Enemy, pos, sp.Velocity.Vec3(), wv.Number); err != nil {
					a.log.Warn("wave spawn failed", zap.Int("wave", wv.Number), zap.Error(err))
					continue
				}
				spawned++
			}
		}
		a.grantWavePoints()
		a.log.Info("wave released", zap.Int("wave", wv.Number), zap.Float64("time", now))
	}
	return spawned
}

// WaveSpawner releases due waves before each frame. Input phase.
type WaveSpawner struct {
	arena *Arena
}

func NewWaveSpawner(a *Arena) *WaveSpawner {
	return &WaveSpawner{arena: a}
}

func (s *WaveSpawner) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *WaveSpawner) Update(_ time.Duration) {
	s.arena.SpawnDueWaves()
}
