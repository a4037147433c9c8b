package carve

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// gridFromRows builds a grid whose rows are given top to bottom.
func gridFromRows(t *testing.T, rows [][]RGB) *Grid {
	t.Helper()
	require.NotEmpty(t, rows)
	g, err := NewGrid(len(rows[0]), len(rows))
	require.NoError(t, err)
	for y, row := range rows {
		require.Len(t, row, g.Width(), "row %d", y)
		for x, c := range row {
			g.Set(x, y, c)
		}
	}
	return g
}

// uniformGrid returns a width×height grid filled with c.
func uniformGrid(t *testing.T, width, height int, c RGB) *Grid {
	t.Helper()
	g, err := NewGrid(width, height)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.Set(x, y, c)
		}
	}
	return g
}

// randomGrid returns a deterministic pseudo-random grid.
func randomGrid(t *testing.T, width, height int, seed int64) *Grid {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	g, err := NewGrid(width, height)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.Set(x, y, RGB{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))})
		}
	}
	return g
}

// column returns column x of g top to bottom.
func column(g *Grid, x int) []RGB {
	out := make([]RGB, g.Height())
	for y := range out {
		out[y] = g.At(x, y)
	}
	return out
}

// gray is a shorthand for an RGB with all channels equal to v.
func gray(v uint8) RGB { return RGB{v, v, v} }
