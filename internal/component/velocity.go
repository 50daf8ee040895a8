package component

import (
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/mathx"
)

// Velocity is a linear velocity in world units per second.
type Velocity struct {
	Linear mathx.Vec3
}

func NewVelocity() *Velocity { return &Velocity{} }

func (*Velocity) Type() ecs.ComponentType { return TypeVelocity }

func (v *Velocity) Reset() { *v = Velocity{} }

func (v *Velocity) Clone() ecs.Component {
	c := *v
	return &c
}
