package data

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/mathx"
	"gopkg.in/yaml.v3"
)

// Vec is a YAML [x, y, z] triple.
type Vec [3]float64

func (v Vec) Vec3() mathx.Vec3 { return mathx.V3(v[0], v[1], v[2]) }

// TowerTemplate holds the static stats of a tower type.
type TowerTemplate struct {
	Name           string   `yaml:"name"`
	Health         int      `yaml:"health"`
	Radius         float64  `yaml:"radius"` // cylinder collider
	Height         float64  `yaml:"height"`
	AttackRange    float64  `yaml:"attack_range"`
	AttackCooldown float64  `yaml:"attack_cooldown"` // seconds
	SearchRange    float64  `yaml:"search_range"`
	SearchCooldown float64  `yaml:"search_cooldown"` // seconds
	Layers         []string `yaml:"layers"`
	TargetLayers   []string `yaml:"target_layers"`

	Layer      component.Layer `yaml:"-"`
	TargetMask component.Layer `yaml:"-"`
}

// Slot is a build position on the arena floor.
type Slot struct {
	ID       int `yaml:"id"`
	Position Vec `yaml:"position"`
}

// EnemyTemplate holds the static stats of an enemy type.
type EnemyTemplate struct {
	Name   string   `yaml:"name"`
	Health int      `yaml:"health"`
	Radius float64  `yaml:"radius"` // sphere collider
	Layers []string `yaml:"layers"`
	Mask   []string `yaml:"mask"`

	Layer        component.Layer `yaml:"-"`
	CollidesWith component.Layer `yaml:"-"`
}

// WaveSpawn places Count enemies starting at From, each Spacing further
// along Step, all moving at Velocity.
type WaveSpawn struct {
	Enemy    string  `yaml:"enemy"`
	Count    int     `yaml:"count"`
	From     Vec     `yaml:"from"`
	Step     Vec     `yaml:"step"`
	Velocity Vec     `yaml:"velocity"`
	Spacing  float64 `yaml:"spacing"`
}

// Wave is a batch of spawns released at game time At (seconds).
type Wave struct {
	Number int         `yaml:"wave"`
	At     float64     `yaml:"at"`
	Spawns []WaveSpawn `yaml:"spawns"`
}

type arenaFile struct {
	Towers  []TowerTemplate `yaml:"towers"`
	Slots   []Slot          `yaml:"slots"`
	Enemies []EnemyTemplate `yaml:"enemies"`
	Waves   []Wave          `yaml:"waves"`
}

// Arena is the static layout of one arena: tower types, build slots,
// enemy types and the wave schedule.
type Arena struct {
	towers  map[string]*TowerTemplate
	slots   map[int]Slot
	enemies map[string]*EnemyTemplate
	waves   []Wave
}

// LoadArena loads an arena layout from a YAML file.
func LoadArena(path string) (*Arena, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read arena: %w", err)
	}
	a, err := ParseArena(raw)
	if err != nil {
		return nil, fmt.Errorf("arena %s: %w", path, err)
	}
	return a, nil
}

// ParseArena decodes and validates an arena layout.
func ParseArena(raw []byte) (*Arena, error) {
	var f arenaFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse arena: %w", err)
	}
	a := &Arena{
		towers:  make(map[string]*TowerTemplate, len(f.Towers)),
		slots:   make(map[int]Slot, len(f.Slots)),
		enemies: make(map[string]*EnemyTemplate, len(f.Enemies)),
	}
	var errs []error
	for i := range f.Towers {
		t := &f.Towers[i]
		t.applyDefaults()
		var err error
		if t.Layer, err = layers(t.Layers, component.LayerTower); err != nil {
			errs = append(errs, fmt.Errorf("tower %q layers: %w", t.Name, err))
		}
		if t.TargetMask, err = layers(t.TargetLayers, component.LayerEnemy); err != nil {
			errs = append(errs, fmt.Errorf("tower %q target_layers: %w", t.Name, err))
		}
		if _, dup := a.towers[t.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate tower %q", t.Name))
		}
		a.towers[t.Name] = t
	}
	for _, s := range f.Slots {
		if _, dup := a.slots[s.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate slot %d", s.ID))
		}
		a.slots[s.ID] = s
	}
	for i := range f.Enemies {
		en := &f.Enemies[i]
		en.applyDefaults()
		var err error
		if en.Layer, err = layers(en.Layers, component.LayerEnemy); err != nil {
			errs = append(errs, fmt.Errorf("enemy %q layers: %w", en.Name, err))
		}
		if en.CollidesWith, err = layers(en.Mask, component.LayerAll); err != nil {
			errs = append(errs, fmt.Errorf("enemy %q mask: %w", en.Name, err))
		}
		if _, dup := a.enemies[en.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate enemy %q", en.Name))
		}
		a.enemies[en.Name] = en
	}
	for _, w := range f.Waves {
		for _, sp := range w.Spawns {
			if _, ok := a.enemies[sp.Enemy]; !ok {
				errs = append(errs, fmt.Errorf("wave %d: unknown enemy %q", w.Number, sp.Enemy))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	a.waves = f.Waves
	sort.SliceStable(a.waves, func(i, j int) bool { return a.waves[i].At < a.waves[j].At })
	return a, nil
}

func layers(names []string, def component.Layer) (component.Layer, error) {
	if len(names) == 0 {
		return def, nil
	}
	l, unknown := component.ParseLayers(names)
	if len(unknown) > 0 {
		return 0, fmt.Errorf("unknown layers %v", unknown)
	}
	return l, nil
}

func (t *TowerTemplate) applyDefaults() {
	if t.Health <= 0 {
		t.Health = component.DefaultMaxHealth
	}
	if t.Radius <= 0 {
		t.Radius = 1
	}
	if t.Height <= 0 {
		t.Height = 4
	}
	if t.AttackRange <= 0 {
		t.AttackRange = component.DefaultAttackRange
	}
	if t.AttackCooldown <= 0 {
		t.AttackCooldown = component.DefaultAttackCooldown
	}
	if t.SearchRange <= 0 {
		t.SearchRange = component.DefaultSearchRange
	}
	if t.SearchCooldown <= 0 {
		t.SearchCooldown = component.DefaultSearchCooldown
	}
}

func (e *EnemyTemplate) applyDefaults() {
	if e.Health <= 0 {
		e.Health = component.DefaultMaxHealth
	}
	if e.Radius <= 0 {
		e.Radius = 0.5
	}
}

// Tower returns a tower template by name.
func (a *Arena) Tower(name string) *TowerTemplate {
	return a.towers[name]
}

// Slot returns a build slot by id.
func (a *Arena) Slot(id int) (Slot, bool) {
	s, ok := a.slots[id]
	return s, ok
}

// Slots returns every slot ordered by id.
func (a *Arena) Slots() []Slot {
	out := make([]Slot, 0, len(a.slots))
	for _, s := range a.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Enemy returns an enemy template by name.
func (a *Arena) Enemy(name string) *EnemyTemplate {
	return a.enemies[name]
}

// Waves returns the wave schedule ordered by release time.
func (a *Arena) Waves() []Wave { return a.waves }

// TowerCount returns the number of tower templates.
func (a *Arena) TowerCount() int { return len(a.towers) }

// EnemyCount returns the number of enemy templates.
func (a *Arena) EnemyCount() int { return len(a.enemies) }

// TowerNames returns the tower template names, sorted.
func (a *Arena) TowerNames() []string {
	out := make([]string, 0, len(a.towers))
	for name := range a.towers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
