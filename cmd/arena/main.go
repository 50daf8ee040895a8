package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/config"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/persist"
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/system"
	"github.com/l1jgo/arena/internal/world"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file (default $"+config.EnvPath+")")
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	players := flag.Int("players", 1, "simulated tower owners; each fills every slot")
	level := flag.Int("level", 1, "player level of the simulated owners")
	unlocks := flag.String("unlock", "veteran,long_sight", "abilities owners buy, in order, as skill points arrive")
	flag.Parse()

	// 1. Config and logging
	cfg, err := config.Load(config.Path(*configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profileMode)
	}

	// 2. Static data and scripts
	layout, err := data.LoadArena(cfg.Data.Arena)
	if err != nil {
		return fmt.Errorf("load arena data: %w", err)
	}
	lua, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("init scripting: %w", err)
	}
	defer lua.Close()
	log.Info("arena data loaded",
		zap.Int("towers", layout.TowerCount()),
		zap.Int("enemies", layout.EnemyCount()),
		zap.Int("slots", len(layout.Slots())),
		zap.Int("waves", len(layout.Waves())))

	// 3. Arena
	arena, err := world.NewArena(layout, world.Options{
		CellSize:    cfg.Spatial.CellSize,
		PoolPrewarm: cfg.Pool.Prewarm,
		Damage:      lua.TowerDamage,
		WaveHealth:  lua.WaveHealth,
	}, log)
	if err != nil {
		return err
	}
	owners, err := placeTowers(arena, *players, *level)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Combat journal
	var journal *persist.Journal
	var flusher *system.JournalFlushSystem
	if cfg.Journal.Enabled {
		db, err := persist.NewDB(ctx, cfg.Journal, log)
		if err != nil {
			return fmt.Errorf("open journal db: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		journal = persist.NewJournal(persist.NewJournalRepo(db), cfg.Journal.MaxPending, log)
		flusher = system.NewJournalFlushSystem(journal, cfg.Journal.FlushInterval, log)
	}

	// 5. Frame loop
	loop := coresys.NewLoop(arena.World, cfg.Simulation.FixedStep, cfg.Simulation.MaxFixedSteps)
	loop.Register(world.NewWaveSpawner(arena))
	loop.Register(&abilityBuyer{arena: arena, owners: owners, plan: parseAbilities(*unlocks), log: log})
	var rec system.Recorder
	if journal != nil {
		rec = journal
	}
	combatLog := system.NewCombatLogSystem(arena.World, rec, arena.ID, log)
	loop.Register(combatLog)
	if flusher != nil {
		loop.Register(flusher)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watchSignals(gctx, cancel, log) })
	g.Go(func() error {
		defer cancel()
		return simulate(gctx, loop, cfg.Simulation, log)
	})
	err = g.Wait()

	if flusher != nil {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		flusher.FlushNow(flushCtx)
		flushCancel()
	}

	attacks, kills := combatLog.Totals()
	stats := arena.Stats()
	log.Info("arena stopped",
		zap.Uint64("frames", loop.Frames()),
		zap.Uint64("dropped_steps", loop.DroppedSteps()),
		zap.Float64("game_time", arena.World.Now()),
		zap.Int("attacks", attacks),
		zap.Int("kills", kills),
		zap.Int("entities", stats.Entities),
		zap.Int("cells", stats.Cells))
	return err
}

// placeTowers gives each simulated owner a tower in every slot, cycling
// through the templates.
func placeTowers(a *world.Arena, players, level int) ([]uuid.UUID, error) {
	names := a.Layout.TowerNames()
	if len(names) == 0 {
		return nil, errors.New("arena data defines no towers")
	}
	owners := make([]uuid.UUID, 0, players)
	for p := 0; p < players; p++ {
		owner := uuid.New()
		for i, s := range a.Layout.Slots() {
			if _, err := a.BuildTower(owner, s.ID, names[i%len(names)], level); err != nil {
				return nil, fmt.Errorf("place towers: %w", err)
			}
		}
		owners = append(owners, owner)
	}
	return owners, nil
}

func parseAbilities(list string) []component.AbilityID {
	var out []component.AbilityID
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, component.AbilityID(f))
		}
	}
	return out
}

// abilityBuyer spends the simulated owners' skill points on the next
// ability of the plan once the wave spawner has granted them.
type abilityBuyer struct {
	arena  *world.Arena
	owners []uuid.UUID
	plan   []component.AbilityID
	log    *zap.Logger
}

func (b *abilityBuyer) Phase() coresys.Phase { return coresys.PhaseInput }

func (b *abilityBuyer) Update(_ time.Duration) {
	for _, owner := range b.owners {
		ab, err := b.arena.Abilities(owner)
		if err != nil || ab.Points == 0 {
			continue
		}
		for i, id := range b.plan {
			if ab.Has(id) {
				continue
			}
			if err := b.arena.Unlock(owner, id); err != nil {
				b.log.Warn("ability unlock failed", zap.String("ability", string(id)), zap.Error(err))
				if errors.Is(err, component.ErrUnknownAbility) {
					b.plan = slices.Delete(b.plan, i, i+1)
				}
			}
			break
		}
	}
}

// simulate ticks the loop at the configured rate until ctx ends or the
// frame limit is reached.
func simulate(ctx context.Context, loop *coresys.Loop, sim config.SimulationConfig, log *zap.Logger) error {
	ticker := time.NewTicker(sim.TickRate)
	defer ticker.Stop()

	log.Info("simulation started", zap.Duration("tick", sim.TickRate), zap.Duration("fixed_step", sim.FixedStep))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			loop.Tick(sim.TickRate)
			if sim.MaxFrames > 0 && loop.Frames() >= sim.MaxFrames {
				log.Info("frame limit reached", zap.Uint64("frames", loop.Frames()))
				return nil
			}
		}
	}
}

func watchSignals(ctx context.Context, cancel context.CancelFunc, log *zap.Logger) error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	select {
	case sig := <-ch:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	case <-ctx.Done():
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
