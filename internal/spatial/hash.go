// Package spatial implements the uniform-grid spatial hash used for
// broad-phase queries.
package spatial

import (
	"math"
	"slices"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/mathx"
)

// DefaultCellSize is used when NewHash is given a non-positive size.
const DefaultCellSize = 10.0

type cellKey struct {
	x, y, z int32
}

// cellRange is the inclusive block of cells covered by a box. Two boxes
// cover the same cell set exactly when their ranges are equal.
type cellRange struct {
	lo, hi cellKey
}

func (r cellRange) each(fn func(cellKey)) {
	for x := r.lo.x; x <= r.hi.x; x++ {
		for y := r.lo.y; y <= r.hi.y; y++ {
			for z := r.lo.z; z <= r.hi.z; z++ {
				fn(cellKey{x, y, z})
			}
		}
	}
}

// entry is shared by every bucket the entity sits in, so an in-place
// bounds update is visible from all of them.
type entry struct {
	id     ecs.EntityID
	bounds mathx.AABB
	cells  cellRange
	stamp  uint64
}

// Hash is a uniform grid keyed by floored cell coordinates. Each entity is
// registered in every cell its bounds overlap.
// Accessed only from the simulation goroutine, no locks.
type Hash struct {
	cellSize float64
	cells    map[cellKey][]*entry
	entries  map[ecs.EntityID]*entry
	stamp    uint64
}

func NewHash(cellSize float64) *Hash {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Hash{
		cellSize: cellSize,
		cells:    make(map[cellKey][]*entry),
		entries:  make(map[ecs.EntityID]*entry),
	}
}

func (h *Hash) CellSize() float64 { return h.cellSize }

func (h *Hash) coord(v float64) int32 {
	return int32(math.Floor(v / h.cellSize))
}

func (h *Hash) key(p mathx.Vec3) cellKey {
	return cellKey{h.coord(p.X), h.coord(p.Y), h.coord(p.Z)}
}

func (h *Hash) cellsFor(b mathx.AABB) cellRange {
	return cellRange{lo: h.key(b.Min), hi: h.key(b.Max)}
}

// Insert registers id with bounds, replacing any earlier registration.
func (h *Hash) Insert(id ecs.EntityID, bounds mathx.AABB) {
	h.Remove(id)
	e := &entry{id: id, bounds: bounds, cells: h.cellsFor(bounds)}
	e.cells.each(func(k cellKey) {
		h.cells[k] = append(h.cells[k], e)
	})
	h.entries[id] = e
}

// Update moves id to bounds. When the covered cells are unchanged only the
// stored bounds change; otherwise the entity is re-inserted. Unknown ids
// are inserted.
func (h *Hash) Update(id ecs.EntityID, bounds mathx.AABB) {
	e, ok := h.entries[id]
	if ok && e.cells == h.cellsFor(bounds) {
		e.bounds = bounds
		return
	}
	h.Insert(id, bounds)
}

// Remove drops id from every cell it occupies and prunes emptied cells.
func (h *Hash) Remove(id ecs.EntityID) bool {
	e, ok := h.entries[id]
	if !ok {
		return false
	}
	e.cells.each(func(k cellKey) {
		bucket := h.cells[k]
		if i := slices.Index(bucket, e); i >= 0 {
			bucket = slices.Delete(bucket, i, i+1)
		}
		if len(bucket) == 0 {
			delete(h.cells, k)
		} else {
			h.cells[k] = bucket
		}
	})
	delete(h.entries, id)
	return true
}

// Query returns every entity whose bounds overlap b, each once.
func (h *Hash) Query(b mathx.AABB) []ecs.EntityID {
	return h.QueryInto(b, nil)
}

// QueryInto appends the Query result to dst.
func (h *Hash) QueryInto(b mathx.AABB, dst []ecs.EntityID) []ecs.EntityID {
	h.stamp++
	h.cellsFor(b).each(func(k cellKey) {
		for _, e := range h.cells[k] {
			if e.stamp == h.stamp {
				continue
			}
			e.stamp = h.stamp
			if e.bounds.Overlaps(b) {
				dst = append(dst, e.id)
			}
		}
	})
	return dst
}

// QueryRadius returns the entities whose bounds come within radius of
// center.
func (h *Hash) QueryRadius(center mathx.Vec3, radius float64) []ecs.EntityID {
	candidates := h.Query(mathx.Cube(center, radius))
	rr := radius * radius
	out := candidates[:0]
	for _, id := range candidates {
		if h.entries[id].bounds.DistanceSq(center) <= rr {
			out = append(out, id)
		}
	}
	return out
}

// Contains reports whether id is registered.
func (h *Hash) Contains(id ecs.EntityID) bool {
	_, ok := h.entries[id]
	return ok
}

// Bounds returns the registered bounds of id.
func (h *Hash) Bounds(id ecs.EntityID) (mathx.AABB, bool) {
	e, ok := h.entries[id]
	if !ok {
		return mathx.AABB{}, false
	}
	return e.bounds, true
}

// CellsOf lists the cells id is registered in, as integer coordinates.
func (h *Hash) CellsOf(id ecs.EntityID) [][3]int32 {
	e, ok := h.entries[id]
	if !ok {
		return nil
	}
	var out [][3]int32
	e.cells.each(func(k cellKey) {
		out = append(out, [3]int32{k.x, k.y, k.z})
	})
	return out
}

// CellCount is the number of non-empty cells.
func (h *Hash) CellCount() int { return len(h.cells) }

// Len is the number of registered entities.
func (h *Hash) Len() int { return len(h.entries) }

// Retain removes every entity for which keep reports false and returns how
// many were removed.
func (h *Hash) Retain(keep func(ecs.EntityID) bool) int {
	var drop []ecs.EntityID
	for id := range h.entries {
		if !keep(id) {
			drop = append(drop, id)
		}
	}
	for _, id := range drop {
		h.Remove(id)
	}
	return len(drop)
}

func (h *Hash) Clear() {
	clear(h.cells)
	clear(h.entries)
}
