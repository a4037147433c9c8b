package carve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/seamcarve/pkg/errors"
)

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"single pixel", 1, 1, false},
		{"wide", 10, 3, false},
		{"zero width", 0, 5, true},
		{"zero height", 5, 0, true},
		{"negative", -1, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.width, tt.height)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.Is(err, errs.ErrCodeInvalidDimensions))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.width, g.Width())
			assert.Equal(t, tt.height, g.Height())
			assert.Equal(t, RGB{}, g.At(tt.width-1, tt.height-1))
		})
	}
}

func TestGridSetAt(t *testing.T) {
	g, err := NewGrid(3, 2)
	require.NoError(t, err)

	g.Set(2, 1, RGB{1, 2, 3})
	assert.Equal(t, RGB{1, 2, 3}, g.At(2, 1))
	assert.Equal(t, RGB{}, g.At(0, 0))
}

func TestGridOutOfBounds(t *testing.T) {
	g, err := NewGrid(3, 3)
	require.NoError(t, err)

	tests := []struct {
		name string
		fn   func()
	}{
		{"At negative x", func() { g.At(-1, 0) }},
		{"At x == width", func() { g.At(3, 0) }},
		{"At y == height", func() { g.At(0, 3) }},
		{"Set negative y", func() { g.Set(0, -1, RGB{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r, "expected panic")
				err, ok := r.(error)
				require.True(t, ok, "panic value should be an error, got %T", r)
				assert.True(t, errs.Is(err, errs.ErrCodeOutOfBounds), "got %v", err)
			}()
			tt.fn()
		})
	}
}

func TestTranspose(t *testing.T) {
	g := gridFromRows(t, [][]RGB{
		{gray(1), gray(2), gray(3)},
		{gray(4), gray(5), gray(6)},
	})

	tr := g.Transpose()
	require.Equal(t, 2, tr.Width())
	require.Equal(t, 3, tr.Height())

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			assert.Equal(t, g.At(x, y), tr.At(y, x), "transposed[%d][%d]", y, x)
		}
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {1, 7}, {7, 1}, {5, 3}, {16, 9}} {
		g := randomGrid(t, size[0], size[1], int64(size[0]*100+size[1]))
		assert.True(t, g.Transpose().Transpose().Equal(g), "round trip %dx%d", size[0], size[1])
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := uniformGrid(t, 3, 3, gray(9))
	c := g.Clone()
	require.True(t, c.Equal(g))

	c.Set(0, 0, gray(1))
	assert.Equal(t, gray(9), g.At(0, 0))
	assert.False(t, c.Equal(g))
}

func TestGridEqual(t *testing.T) {
	a := uniformGrid(t, 3, 4, gray(1))
	b := uniformGrid(t, 4, 3, gray(1))

	assert.False(t, a.Equal(b), "different shapes")
	assert.True(t, a.Equal(a.Clone()))
	assert.False(t, a.Equal(nil))

	var nilGrid *Grid
	assert.True(t, nilGrid.Equal(nil))
}
