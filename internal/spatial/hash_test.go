package spatial

import (
	"testing"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/mathx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(i uint32) ecs.EntityID { return ecs.NewEntityID(i, 0) }

func box(x, y, z, half float64) mathx.AABB {
	return mathx.Cube(mathx.V3(x, y, z), half)
}

// registeredCells collects every cell whose bucket holds eid.
func registeredCells(t *testing.T, h *Hash, eid ecs.EntityID) map[cellKey]bool {
	out := make(map[cellKey]bool)
	for k, bucket := range h.cells {
		for _, e := range bucket {
			if e.id == eid {
				require.False(t, out[k], "duplicate registration in %v", k)
				out[k] = true
			}
		}
	}
	return out
}

func expectedCells(h *Hash, b mathx.AABB) map[cellKey]bool {
	out := make(map[cellKey]bool)
	h.cellsFor(b).each(func(k cellKey) { out[k] = true })
	return out
}

func TestInsertQueryRemoveRoundTrip(t *testing.T) {
	h := NewHash(4)
	b := box(1, 1, 1, 0.5)
	h.Insert(id(1), b)
	assert.Contains(t, h.Query(b), id(1))
	assert.True(t, h.Contains(id(1)))

	require.True(t, h.Remove(id(1)))
	assert.NotContains(t, h.Query(b), id(1))
	assert.False(t, h.Remove(id(1)))
	assert.Zero(t, h.CellCount(), "empty cells are pruned")
	assert.Zero(t, h.Len())
}

func TestMultiCellEntityReportedOnce(t *testing.T) {
	h := NewHash(2)
	wide := mathx.AABB{Min: mathx.V3(-3, -1, -1), Max: mathx.V3(3, 1, 1)}
	h.Insert(id(1), wide)
	require.Greater(t, len(h.CellsOf(id(1))), 1)

	got := h.Query(mathx.AABB{Min: mathx.V3(-10, -10, -10), Max: mathx.V3(10, 10, 10)})
	assert.Equal(t, []ecs.EntityID{id(1)}, got)

	// a second query must not be fooled by the first query's marks
	assert.Equal(t, []ecs.EntityID{id(1)}, h.Query(wide))
}

func TestQueryFiltersByExactOverlap(t *testing.T) {
	h := NewHash(10)
	h.Insert(id(1), box(1, 1, 1, 0.5))
	h.Insert(id(2), box(8, 8, 8, 0.5))
	assert.Equal(t, []ecs.EntityID{id(1)}, h.Query(box(1, 1, 1, 1)), "same cell, disjoint box")
}

func TestUpdateWithinCellKeepsMembership(t *testing.T) {
	h := NewHash(10)
	h.Insert(id(1), box(2, 2, 2, 1))
	before := h.cells[cellKey{0, 0, 0}]
	require.Len(t, before, 1)

	h.Update(id(1), box(3, 2, 2, 1))
	after := h.cells[cellKey{0, 0, 0}]
	require.Len(t, after, 1)
	assert.Same(t, before[0], after[0], "entry mutated in place")
	b, _ := h.Bounds(id(1))
	assert.Equal(t, box(3, 2, 2, 1), b)
	assert.Equal(t, []ecs.EntityID{id(1)}, h.Query(box(3.9, 2, 2, 0.05)))
}

func TestUpdateAcrossCellsMovesRegistration(t *testing.T) {
	h := NewHash(4)
	h.Insert(id(1), box(1, 1, 1, 0.5))
	h.Update(id(1), box(9, 1, 1, 0.5))

	assert.Empty(t, h.Query(box(1, 1, 1, 0.5)))
	assert.Equal(t, []ecs.EntityID{id(1)}, h.Query(box(9, 1, 1, 0.5)))
	assert.Equal(t, [][3]int32{{2, 0, 0}}, h.CellsOf(id(1)))
	assert.Equal(t, 1, h.CellCount())
}

func TestUpdateInsertsUnknownEntity(t *testing.T) {
	h := NewHash(4)
	h.Update(id(5), box(0, 0, 0, 1))
	assert.True(t, h.Contains(id(5)))
}

func TestRegistrationMatchesBoundsAfterChurn(t *testing.T) {
	h := NewHash(3)
	moves := []mathx.AABB{
		box(0, 0, 0, 1),
		box(0.5, 0, 0, 1),
		box(-4, 2, 7, 2.5),
		box(-4.2, 2, 7, 2.5),
		box(20, -20, 0, 0.1),
	}
	for i, b := range moves {
		if i == 0 {
			h.Insert(id(1), b)
		} else {
			h.Update(id(1), b)
		}
		h.Insert(id(2), box(float64(i), 0, 0, 0.5))
		assert.Equal(t, expectedCells(h, b), registeredCells(t, h, id(1)), "move %d", i)
	}
	require.True(t, h.Remove(id(1)))
	assert.Empty(t, registeredCells(t, h, id(1)))
	assert.Equal(t, 1, h.Len())
}

func TestNegativeCoordinatesFloor(t *testing.T) {
	h := NewHash(4)
	h.Insert(id(1), box(-0.5, -0.5, -0.5, 0.1))
	assert.Equal(t, [][3]int32{{-1, -1, -1}}, h.CellsOf(id(1)))

	h.Insert(id(2), mathx.AABB{Min: mathx.V3(-4, 0, 0), Max: mathx.V3(-4, 0, 0)})
	assert.Equal(t, [][3]int32{{-1, 0, 0}}, h.CellsOf(id(2)))
}

func TestQueryRadius(t *testing.T) {
	h := NewHash(5)
	h.Insert(id(1), box(3, 0, 0, 0.5))
	h.Insert(id(2), box(3, 3, 0, 0.5))
	h.Insert(id(3), box(20, 0, 0, 0.5))

	got := h.QueryRadius(mathx.V3(0, 0, 0), 3)
	assert.ElementsMatch(t, []ecs.EntityID{id(1)}, got, "corner of the query cube is outside the radius")
	assert.ElementsMatch(t, []ecs.EntityID{id(1), id(2)}, h.QueryRadius(mathx.V3(0, 0, 0), 4))
}

func TestQueryIntoAppends(t *testing.T) {
	h := NewHash(4)
	h.Insert(id(1), box(0, 0, 0, 1))
	buf := []ecs.EntityID{id(9)}
	buf = h.QueryInto(box(0, 0, 0, 1), buf)
	assert.Equal(t, []ecs.EntityID{id(9), id(1)}, buf)
}

func TestClear(t *testing.T) {
	h := NewHash(0)
	assert.Equal(t, DefaultCellSize, h.CellSize())
	h.Insert(id(1), box(0, 0, 0, 1))
	h.Clear()
	assert.Zero(t, h.Len())
	assert.Zero(t, h.CellCount())
	assert.Empty(t, h.Query(box(0, 0, 0, 1)))
}

func TestRetainDropsRejected(t *testing.T) {
	h := NewHash(4)
	h.Insert(id(1), box(0, 0, 0, 1))
	h.Insert(id(2), box(20, 0, 0, 1))
	h.Insert(id(3), box(1, 0, 0, 1))

	n := h.Retain(func(eid ecs.EntityID) bool { return eid != id(2) })
	assert.Equal(t, 1, n)
	assert.False(t, h.Contains(id(2)))
	assert.Empty(t, h.Query(box(20, 0, 0, 1)))
	assert.ElementsMatch(t, []ecs.EntityID{id(1), id(3)}, h.Query(box(0, 0, 0, 2)))
	assert.Zero(t, h.Retain(func(ecs.EntityID) bool { return true }))
}
