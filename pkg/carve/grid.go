package carve

import (
	errs "github.com/matzehuels/seamcarve/pkg/errors"
)

// RGB is a single pixel. Alpha is not carried.
type RGB struct {
	R, G, B uint8
}

// Grid is a width×height array of pixels in row-major order.
// A Grid is never empty: both sides are at least 1.
type Grid struct {
	width, height int
	pix           []RGB // offset = y*width + x
}

// NewGrid allocates a black width×height grid.
// It returns INVALID_DIMENSIONS if either side is below 1.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, errs.New(errs.ErrCodeInvalidDimensions, "grid must be at least 1x1, got %dx%d", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		pix:    make([]RGB, width*height),
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// At returns the pixel at column x, row y.
// It panics with an OUT_OF_BOUNDS *errors.Error when (x, y) is outside the grid.
func (g *Grid) At(x, y int) RGB {
	g.mustContain("At", x, y)
	return g.pix[y*g.width+x]
}

// Set stores c at column x, row y.
// It panics with an OUT_OF_BOUNDS *errors.Error when (x, y) is outside the grid.
func (g *Grid) Set(x, y int, c RGB) {
	g.mustContain("Set", x, y)
	g.pix[y*g.width+x] = c
}

// Transpose returns a new grid with rows and columns swapped,
// so that t.At(x, y) == g.At(y, x).
func (g *Grid) Transpose() *Grid {
	t := &Grid{
		width:  g.height,
		height: g.width,
		pix:    make([]RGB, len(g.pix)),
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			t.pix[x*t.width+y] = g.pix[y*g.width+x]
		}
	}
	return t
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, pix: make([]RGB, len(g.pix))}
	copy(c.pix, g.pix)
	return c
}

// Equal reports whether g and o have the same dimensions and pixels.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.pix {
		if g.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

func (g *Grid) mustContain(method string, x, y int) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(errs.New(errs.ErrCodeOutOfBounds, "Grid.%s(%d,%d) outside %dx%d grid", method, x, y, g.width, g.height))
	}
}
