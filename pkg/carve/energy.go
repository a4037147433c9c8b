package carve

import (
	"math"

	"gonum.org/v1/gonum/mat"

	errs "github.com/matzehuels/seamcarve/pkg/errors"
)

// MinSide is the smallest width or height the energy operator accepts.
const MinSide = 3

// Energy computes the dual-gradient energy of every pixel in g.
//
// For pixel (x, y) the energy is sqrt(Gx + Gy), where Gx is the sum over the
// R, G and B channels of the squared difference between the left and right
// neighbours, and Gy the same for the up and down neighbours. On the borders
// the neighbour pair is shifted inward rather than shrunk: column 0 compares
// columns 0 and 2, the last column compares columns width-3 and width-1.
//
// The result has one row per grid row (height×width). Grids with a side
// below MinSide are rejected with INVALID_DIMENSIONS.
func Energy(g *Grid) (*mat.Dense, error) {
	w, h := g.Width(), g.Height()
	if w < MinSide || h < MinSide {
		return nil, errs.New(errs.ErrCodeInvalidDimensions,
			"energy needs at least %dx%d pixels, got %dx%d", MinSide, MinSide, w, h)
	}

	energy := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		up, down := neighbours(y, h)
		row := energy.RawRowView(y)
		for x := 0; x < w; x++ {
			left, right := neighbours(x, w)
			gx := gradient(g.At(left, y), g.At(right, y))
			gy := gradient(g.At(x, up), g.At(x, down))
			row[x] = math.Sqrt(gx + gy)
		}
	}
	return energy, nil
}

// neighbours returns the index pair sampled around i on an axis of length n.
func neighbours(i, n int) (int, int) {
	switch i {
	case 0:
		return 0, 2
	case n - 1:
		return n - 3, n - 1
	default:
		return i - 1, i + 1
	}
}

// gradient is the squared RGB distance between a and b.
func gradient(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return dr*dr + dg*dg + db*db
}
