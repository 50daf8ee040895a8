package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l1jgo/arena/internal/component"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Script entry points.
const (
	fnTowerDamage = "calc_tower_damage"
	fnWaveHealth  = "calc_wave_health"
)

// Engine wraps a single gopher-lua VM hosting the tunable combat formulas.
// Single-goroutine access only (game loop). Every call falls back to the
// built-in Go formula when the script function is missing or fails.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads the scripts under scriptsDir.
// Missing directories are skipped, so an empty dir gives a VM that always
// falls back.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("BASE_TOWER_DAMAGE", lua.LNumber(component.BaseTowerDamage))
	vm.SetGlobal("TOWER_DAMAGE_PER_LEVEL", lua.LNumber(component.TowerDamagePerLevel))

	e := &Engine{vm: vm, log: log}
	for _, sub := range []string{"core", "combat"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasFunc reports whether the scripts define a global function name.
func (e *Engine) HasFunc(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// TowerDamage calls calc_tower_damage(level). It has the signature of
// component.DamageFunc.
func (e *Engine) TowerDamage(level int) int {
	dmg, ok := e.callIntFunc(fnTowerDamage, level)
	if !ok || dmg < 0 {
		return component.TowerDamage(level)
	}
	return dmg
}

// WaveHealth calls calc_wave_health(base, wave) to scale enemy health per
// wave. Without the script, base is returned unchanged.
func (e *Engine) WaveHealth(base, wave int) int {
	hp, ok := e.callIntFunc(fnWaveHealth, base, wave)
	if !ok || hp < 1 {
		return base
	}
	return hp
}

// callIntFunc calls a global Lua function with int args and one numeric
// result. ok is false when the function is absent, raises, or returns a
// non-number.
func (e *Engine) callIntFunc(name string, args ...int) (int, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return 0, false
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua function returned non-number", zap.String("func", name), zap.String("type", result.Type().String()))
		return 0, false
	}
	return int(n), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
