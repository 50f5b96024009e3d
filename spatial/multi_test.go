package spatial

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridveil/engine/grid"
	"github.com/gridveil/engine/pool"
)

func TestMultiMap_StacksItemsMostRecentFirst(t *testing.T) {
	m := NewMultiMap[string](0)
	p := grid.Pt(4, 4)

	require.NoError(t, m.Add("sword", p))
	require.NoError(t, m.Add("shield", p))
	require.NoError(t, m.Add("potion", p))

	assert.Equal(t, 3, m.Count())
	assert.Equal(t, 3, m.CountAt(p))
	assert.Equal(t, []string{"potion", "shield", "sword"}, m.ItemsAt(p))
	assert.Equal(t, []grid.Point{p}, m.Positions())
}

func TestMultiMap_AddRejectsDuplicateItem(t *testing.T) {
	m := NewMultiMap[string](0)
	require.NoError(t, m.Add("sword", grid.Pt(1, 1)))

	require.ErrorIs(t, m.Add("sword", grid.Pt(2, 2)), ErrDuplicateItem)
	assert.False(t, m.TryAdd("sword", grid.Pt(2, 2)))
	assert.Equal(t, 1, m.Count())
}

func TestMultiMap_Move(t *testing.T) {
	t.Run("keeps source order when one of several leaves", func(t *testing.T) {
		m := NewMultiMap[string](0)
		p, q := grid.Pt(1, 1), grid.Pt(2, 2)
		require.NoError(t, m.Add("a", p))
		require.NoError(t, m.Add("b", p))
		require.NoError(t, m.Add("c", p))

		require.NoError(t, m.Move("b", q))

		assert.Equal(t, []string{"c", "a"}, m.ItemsAt(p))
		assert.Equal(t, []string{"b"}, m.ItemsAt(q))
		assert.Equal(t, q, m.MustPositionOf("b"))
	})

	t.Run("sole occupant to a fresh position", func(t *testing.T) {
		m := NewMultiMap[string](0)
		require.NoError(t, m.Add("a", grid.Pt(1, 1)))

		require.NoError(t, m.Move("a", grid.Pt(6, 6)))

		assert.False(t, m.ContainsAt(grid.Pt(1, 1)))
		assert.Equal(t, []string{"a"}, m.ItemsAt(grid.Pt(6, 6)))
	})

	t.Run("onto the current position fails", func(t *testing.T) {
		m := NewMultiMap[string](0)
		require.NoError(t, m.Add("a", grid.Pt(1, 1)))

		require.ErrorIs(t, m.Move("a", grid.Pt(1, 1)), ErrNoOpMove)
		assert.False(t, m.TryMove("a", grid.Pt(1, 1)))
	})

	t.Run("unknown item fails", func(t *testing.T) {
		m := NewMultiMap[string](0)
		require.ErrorIs(t, m.Move("ghost", grid.Pt(1, 1)), ErrItemNotFound)
		assert.False(t, m.TryMove("ghost", grid.Pt(1, 1)))
	})
}

func TestMultiMap_MoveAll(t *testing.T) {
	t.Run("merges onto an occupied target", func(t *testing.T) {
		m := NewMultiMap[string](0)
		p, q := grid.Pt(1, 1), grid.Pt(2, 2)
		require.NoError(t, m.Add("a", p))
		require.NoError(t, m.Add("b", p))
		require.NoError(t, m.Add("c", q))

		require.True(t, m.CanMoveAll(p, q))
		require.NoError(t, m.MoveAll(p, q))

		assert.False(t, m.ContainsAt(p))
		// Arrivals read as the most recent occupants of the target.
		assert.Equal(t, []string{"b", "a", "c"}, m.ItemsAt(q))
	})

	t.Run("try variant reports movers in source iteration order", func(t *testing.T) {
		m := NewMultiMap[string](0)
		p, q := grid.Pt(1, 1), grid.Pt(2, 2)
		require.NoError(t, m.Add("a", p))
		require.NoError(t, m.Add("b", p))

		assert.Equal(t, []string{"b", "a"}, m.TryMoveAll(p, q))
		assert.Equal(t, []string{"b", "a"}, m.ItemsAt(q))
	})

	t.Run("empty source fails", func(t *testing.T) {
		m := NewMultiMap[string](0)
		require.ErrorIs(t, m.MoveAll(grid.Pt(0, 0), grid.Pt(1, 1)), ErrNothingToMove)
		assert.Empty(t, m.TryMoveAll(grid.Pt(0, 0), grid.Pt(1, 1)))
		assert.False(t, m.CanMoveAll(grid.Pt(0, 0), grid.Pt(1, 1)))
	})

	t.Run("equal source and target is a no-op failure", func(t *testing.T) {
		m := NewMultiMap[string](0)
		require.NoError(t, m.Add("a", grid.Pt(1, 1)))

		require.ErrorIs(t, m.MoveAll(grid.Pt(1, 1), grid.Pt(1, 1)), ErrNoOpMove)
		assert.Empty(t, m.TryMoveAll(grid.Pt(1, 1), grid.Pt(1, 1)))
		assert.False(t, m.CanMoveAll(grid.Pt(1, 1), grid.Pt(1, 1)))
	})
}

// Bulk moves fire their events only once every item has landed, so a
// handler sees the whole group already at the target.
func TestMultiMap_MoveAllEventsAfterFullMutation(t *testing.T) {
	m := NewMultiMap[string](0)
	p, q := grid.Pt(1, 1), grid.Pt(2, 2)
	require.NoError(t, m.Add("a", p))
	require.NoError(t, m.Add("b", p))

	var order []string
	m.OnMoved(func(ev ItemMoved[string]) {
		order = append(order, ev.Item)
		assert.Equal(t, q, m.MustPositionOf("a"))
		assert.Equal(t, q, m.MustPositionOf("b"))
		assert.False(t, m.ContainsAt(p))
	})

	require.NoError(t, m.MoveAll(p, q))
	assert.Equal(t, []string{"b", "a"}, order)
}

func TestMultiMap_RemoveAt(t *testing.T) {
	t.Run("returns every occupant most recent first", func(t *testing.T) {
		m := NewMultiMap[string](0)
		r := record[string](m)
		p := grid.Pt(3, 3)
		require.NoError(t, m.Add("a", p))
		require.NoError(t, m.Add("b", p))
		require.NoError(t, m.Add("c", p))

		removed := m.RemoveAt(p)

		assert.Equal(t, []string{"c", "b", "a"}, removed)
		assert.Zero(t, m.Count())
		assert.False(t, m.ContainsAt(p))

		require.Len(t, r.removed, 3)
		assert.Equal(t, "c", r.removed[0].Item)
		assert.Equal(t, "b", r.removed[1].Item)
		assert.Equal(t, "a", r.removed[2].Item)
	})

	t.Run("empty position yields nothing and no events", func(t *testing.T) {
		m := NewMultiMap[string](0)
		r := record[string](m)

		assert.Empty(t, m.RemoveAt(grid.Pt(9, 9)))
		assert.Empty(t, r.removed)
	})
}

func TestMultiMap_Remove(t *testing.T) {
	m := NewMultiMap[string](0)
	p := grid.Pt(1, 1)
	require.NoError(t, m.Add("a", p))
	require.NoError(t, m.Add("b", p))

	require.NoError(t, m.Remove("a"))
	assert.Equal(t, []string{"b"}, m.ItemsAt(p))

	require.NoError(t, m.Remove("b"))
	assert.False(t, m.ContainsAt(p), "last removal must clear the position entry")

	require.ErrorIs(t, m.Remove("b"), ErrItemNotFound)
	assert.False(t, m.TryRemove("b"))
}

// The map hands per-position slices back to its pool when the last
// occupant leaves and rents them again for fresh positions.
func TestMultiMap_PoolRoundTrip(t *testing.T) {
	fl := pool.NewFreeList[string](8, 2)
	m := NewMultiMapWithPool[string](0, fl)

	require.NoError(t, m.Add("x", grid.Pt(1, 1)))
	assert.Equal(t, 0, fl.Held())

	require.NoError(t, m.Remove("x"))
	assert.Equal(t, 1, fl.Held(), "emptied slice must return to the pool")

	require.NoError(t, m.Add("y", grid.Pt(2, 2)))
	assert.Equal(t, 0, fl.Held(), "fresh position must rent from the pool")
}

// Query results are copies: later mutations and pooled-slice reuse must
// not reach into a result the caller is still holding.
func TestMultiMap_ResultsAreInsulatedFromReuse(t *testing.T) {
	m := NewMultiMap[string](0)
	p := grid.Pt(1, 1)
	require.NoError(t, m.Add("a", p))
	require.NoError(t, m.Add("b", p))

	snapshot := m.ItemsAt(p)
	removed := m.RemoveAt(p)

	// Force reuse of the returned slice for a different position.
	require.NoError(t, m.Add("c", grid.Pt(2, 2)))
	require.NoError(t, m.Add("d", grid.Pt(2, 2)))

	assert.Equal(t, []string{"b", "a"}, snapshot)
	assert.Equal(t, []string{"b", "a"}, removed)
}

func TestMultiMap_NilPoolFallsBackToAllocation(t *testing.T) {
	m := NewMultiMapWithPool[string](0, nil)
	require.NoError(t, m.Add("a", grid.Pt(1, 1)))
	require.NoError(t, m.Remove("a"))
	require.NoError(t, m.Add("b", grid.Pt(1, 1)))
	assert.Equal(t, []string{"b"}, m.ItemsAt(grid.Pt(1, 1)))
}

func TestMultiMap_ConsistencyUnderChurn(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := NewMultiMap[int](0)

	for step := 0; step < 500; step++ {
		item := rng.Intn(30)
		p := grid.Pt(rng.Intn(6), rng.Intn(6))
		q := grid.Pt(rng.Intn(6), rng.Intn(6))
		switch rng.Intn(5) {
		case 0:
			m.TryAdd(item, p)
		case 1:
			m.TryMove(item, p)
		case 2:
			m.TryRemove(item)
		case 3:
			m.RemoveAt(p)
		case 4:
			m.TryMoveAll(p, q)
		}
		checkDualIndex[int](t, m)
	}
}
