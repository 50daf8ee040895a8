package component

import "github.com/l1jgo/arena/internal/core/ecs"

// Renderer carries an opaque presentation handle (mesh, sprite, effect
// rig). The simulation never looks inside Handle.
type Renderer struct {
	Handle  any
	Visible bool
	Order   int
}

func NewRenderer() *Renderer { return &Renderer{Visible: true} }

func (*Renderer) Type() ecs.ComponentType { return TypeRenderer }

func (r *Renderer) Reset() { *r = Renderer{Visible: true} }

func (r *Renderer) Clone() ecs.Component {
	c := *r
	return &c
}
