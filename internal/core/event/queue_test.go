package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type impact struct{ Damage int }

func TestQueueAccumulatesUntilCleared(t *testing.T) {
	q := NewQueue()
	q.Emit("impact", impact{Damage: 10})
	q.Emit("impact", impact{Damage: 20})
	q.Emit("explosion", "boom")

	assert.Equal(t, 2, q.Len("impact"))
	assert.Equal(t, []impact{{10}, {20}}, Of[impact](q, "impact"))
	assert.Equal(t, []Type{"explosion", "impact"}, q.Types())

	// a consumer that does not clear sees the same events again
	assert.Len(t, q.Events("impact"), 2)

	q.Clear("impact")
	assert.Empty(t, q.Events("impact"))
	assert.Equal(t, 1, q.Len("explosion"))
	assert.Equal(t, []Type{"explosion"}, q.Types())

	q.ClearAll()
	assert.Empty(t, q.Types())
}

func TestOfSkipsForeignPayloads(t *testing.T) {
	q := NewQueue()
	q.Emit("impact", impact{Damage: 1})
	q.Emit("impact", "not an impact")
	assert.Equal(t, []impact{{1}}, Of[impact](q, "impact"))
	assert.Empty(t, Of[impact](q, "missing"))
}
