// Package component holds the simulation's component types. Each type
// declares a fixed ecs.ComponentType tag; Register wires them into a world.
package component

import (
	"fmt"

	"github.com/l1jgo/arena/internal/core/ecs"
)

// Component type tags. Values are part of the pool/query contract; append,
// never renumber.
const (
	TypeTransform ecs.ComponentType = iota + 1
	TypeCollider
	TypeHealth
	TypeTower
	TypeRenderer
	TypeVelocity
	TypeAbilities
)

// Register adds every component type to w. Transform and Renderer are not
// pooled: a transform carries hierarchy links into other entities and a
// renderer carries handles owned by the presentation layer, neither of
// which can be safely handed to an unrelated entity.
func Register(w *ecs.World) error {
	specs := []ecs.ComponentSpec{
		{Type: TypeTransform, Name: "transform", New: func() ecs.Component { return NewTransform() }, Unpooled: true},
		{Type: TypeCollider, Name: "collider", New: func() ecs.Component { return NewCollider() }},
		{Type: TypeHealth, Name: "health", New: func() ecs.Component { return NewHealth() }},
		{Type: TypeTower, Name: "tower", New: func() ecs.Component { return NewTower() }},
		{Type: TypeRenderer, Name: "renderer", New: func() ecs.Component { return NewRenderer() }, Unpooled: true},
		{Type: TypeVelocity, Name: "velocity", New: func() ecs.Component { return NewVelocity() }},
		{Type: TypeAbilities, Name: "abilities", New: func() ecs.Component { return NewAbilities() }},
	}
	for _, s := range specs {
		if err := w.RegisterComponent(s); err != nil {
			return fmt.Errorf("register components: %w", err)
		}
	}
	return nil
}
