package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPathStraightLine(t *testing.T) {
	g := NewPlayfield(26, 24, 32)
	path, found, err := g.FindPath(g.PathStart(), g.PathEnd(), false)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, path, 23)
	assert.Equal(t, g.PathEnd(), path[len(path)-1])
	assert.NotContains(t, path, g.PathStart())
	for _, c := range path {
		assert.Equal(t, 14, c.X)
	}
}

func TestFindPathIsContiguous(t *testing.T) {
	g := NewPlayfield(10, 10, 32)
	for x := 1; x <= 9; x++ {
		require.NoError(t, g.Set(Cell{x, 5}, Obstacle))
	}
	start := Cell{6, 1}
	path, found, err := g.FindPath(start, Cell{6, 10}, false)
	require.NoError(t, err)
	require.True(t, found)
	prev := start
	for _, c := range path {
		assert.Equal(t, 1, manhattan(prev, c), "step %v -> %v", prev, c)
		assert.True(t, g.Passable(c, false))
		prev = c
	}
	assert.Contains(t, path, Cell{10, 5})
}

func TestFindPathDeterministic(t *testing.T) {
	g := NewPlayfield(12, 12, 32)
	require.NoError(t, g.Set(Cell{6, 6}, Obstacle))
	first, _, err := g.FindPath(Cell{2, 2}, Cell{10, 10}, false)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, _, err := g.FindPath(Cell{2, 2}, Cell{10, 10}, false)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFindPathBlocked(t *testing.T) {
	g := NewPlayfield(8, 8, 32)
	for x := 1; x <= 8; x++ {
		require.NoError(t, g.Set(Cell{x, 4}, Obstacle))
	}
	_, found, err := g.FindPath(g.PathStart(), g.PathEnd(), false)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, g.HasPath(g.PathStart(), g.PathEnd(), false))

	path, found, err := g.FindPath(g.PathStart(), g.PathEnd(), true)
	require.NoError(t, err)
	assert.True(t, found, "air movers fly over obstacles")
	assert.Equal(t, g.PathEnd(), path[len(path)-1])
}

func TestFindPathAirRespectsRestricted(t *testing.T) {
	g := New(5, 5, 32)
	for x := 0; x < 5; x++ {
		require.NoError(t, g.Set(Cell{x, 2}, Restricted))
	}
	_, found, err := g.FindPath(Cell{2, 0}, Cell{2, 4}, true)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindPathFromBlockedStart(t *testing.T) {
	g := NewPlayfield(6, 6, 32)
	require.NoError(t, g.Set(Cell{3, 3}, Obstacle))
	_, found, err := g.FindPath(Cell{3, 3}, Cell{3, 6}, false)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestFindPathInvalidArgument(t *testing.T) {
	g := New(4, 4, 32)
	_, _, err := g.FindPath(Cell{-1, 0}, Cell{3, 3}, false)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, _, err = g.FindPath(Cell{0, 0}, Cell{4, 3}, false)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestFindPathSameCell(t *testing.T) {
	g := New(4, 4, 32)
	path, found, err := g.FindPath(Cell{1, 1}, Cell{1, 1}, false)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, path)
}
