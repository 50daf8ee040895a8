package component

import (
	"testing"

	"github.com/l1jgo/arena/internal/mathx"
	"github.com/stretchr/testify/assert"
)

func sphere(r float64) *Collider {
	c := NewCollider()
	c.SetSphere(r)
	return c
}

func TestCanCollideWithIsSymmetric(t *testing.T) {
	layers := []Layer{LayerDefault, LayerEnemy, LayerProjectile, LayerTower, LayerEnemy | LayerTower}
	masks := []Layer{LayerNone, LayerAll, LayerEnemy, LayerProjectile | LayerTower}
	var cs []*Collider
	for _, l := range layers {
		for _, m := range masks {
			c := NewCollider()
			c.Layer, c.Mask = l, m
			cs = append(cs, c)
		}
	}
	for _, a := range cs {
		for _, b := range cs {
			assert.Equal(t, a.CanCollideWith(b), b.CanCollideWith(a))
		}
	}

	enemy := NewCollider()
	enemy.Layer = LayerEnemy
	bullet := NewCollider()
	bullet.Layer, bullet.Mask = LayerProjectile, LayerEnemy
	assert.True(t, enemy.CanCollideWith(bullet))
	enemy.Mask = LayerTower
	assert.False(t, enemy.CanCollideWith(bullet), "both sides must accept the other")
}

func TestSphereSphereBoundary(t *testing.T) {
	a, b := sphere(1), sphere(2)
	assert.True(t, a.Intersects(b, mathx.V3(0, 0, 0), mathx.V3(3, 0, 0)))
	assert.False(t, a.Intersects(b, mathx.V3(0, 0, 0), mathx.V3(3.0001, 0, 0)))
}

func TestShapePairs(t *testing.T) {
	box := NewCollider()
	box.SetBox(mathx.V3(1, 1, 1))
	cyl := NewCollider()
	cyl.SetCylinder(1, 4)
	capsule := NewCollider()
	capsule.SetCapsule(0.5, 2)

	cases := []struct {
		name   string
		a, b   *Collider
		pa, pb mathx.Vec3
		want   bool
	}{
		{"box-box touching", box, box.Clone().(*Collider), mathx.V3(0, 0, 0), mathx.V3(2, 0, 0), true},
		{"box-box apart", box, box.Clone().(*Collider), mathx.V3(0, 0, 0), mathx.V3(2.1, 0, 0), false},
		{"sphere-box face", sphere(1), box, mathx.V3(2, 0, 0), mathx.V3(0, 0, 0), true},
		{"sphere-box corner gap", sphere(0.5), box, mathx.V3(1.4, 1.4, 0), mathx.V3(0, 0, 0), false},
		{"box-sphere swapped", box, sphere(1), mathx.V3(0, 0, 0), mathx.V3(2, 0, 0), true},
		{"sphere-cylinder side", sphere(0.5), cyl, mathx.V3(1.5, 0, 0), mathx.V3(0, 0, 0), true},
		{"sphere-cylinder above", sphere(0.5), cyl, mathx.V3(0, 2.6, 0), mathx.V3(0, 0, 0), false},
		{"cylinder-sphere swapped", cyl, sphere(0.5), mathx.V3(0, 0, 0), mathx.V3(1.6, 0, 0), false},
		{"sphere-capsule cap", sphere(0.5), capsule, mathx.V3(0, 2, 0), mathx.V3(0, 0, 0), true},
		{"capsule-capsule", capsule, capsule.Clone().(*Collider), mathx.V3(0, 0, 0), mathx.V3(0.9, 1, 0), true},
		{"box-cylinder fallback", box, cyl, mathx.V3(0, 0, 0), mathx.V3(1.9, 0, 1.9), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Intersects(tc.b, tc.pa, tc.pb))
		})
	}
}

func TestStaticColliderKeepsBoundsUntilInvalidated(t *testing.T) {
	c := sphere(1)
	c.IsStatic = true
	c.UpdateBounds(mathx.V3(0, 0, 0))
	assert.False(t, c.BoundsDirty())

	c.UpdateBounds(mathx.V3(10, 0, 0))
	assert.Equal(t, mathx.V3(0, 0, 0), c.Center(), "static bounds are not recomputed")

	c.Invalidate()
	c.UpdateBounds(mathx.V3(10, 0, 0))
	assert.Equal(t, mathx.V3(10, 0, 0), c.Center())

	dynamic := sphere(1)
	dynamic.UpdateBounds(mathx.V3(0, 0, 0))
	dynamic.UpdateBounds(mathx.V3(5, 0, 0))
	assert.Equal(t, mathx.AABB{Min: mathx.V3(4, -1, -1), Max: mathx.V3(6, 1, 1)}, dynamic.Bounds())
}

func TestBoundsIncludeOffsetAndShape(t *testing.T) {
	c := NewCollider()
	c.SetCapsule(1, 2)
	c.SetOffset(mathx.V3(0, 2, 0))
	c.UpdateBounds(mathx.V3(1, 0, 1))
	assert.Equal(t, mathx.AABB{Min: mathx.V3(0, 0, 0), Max: mathx.V3(2, 4, 2)}, c.Bounds())
	assert.InDelta(t, 2.0, c.BoundingSphere().Radius, 1e-12)
}

func TestParseLayers(t *testing.T) {
	l, unknown := ParseLayers([]string{"enemy", "tower", "bogus"})
	assert.Equal(t, LayerEnemy|LayerTower, l)
	assert.Equal(t, []string{"bogus"}, unknown)
}
