package carve

import (
	errs "github.com/matzehuels/seamcarve/pkg/errors"
)

// ApplySeam returns a new grid one column narrower (grow == false) or wider
// (grow == true) than g. g is left untouched.
//
// For each row y, output columns up to and including seam[y] are copied from
// the same column of g. Later columns read from x+1 when shrinking and x-1
// when growing. Shrinking therefore drops the column right after the seam;
// growing repeats the seam column.
func ApplySeam(g *Grid, seam Seam, grow bool) (*Grid, error) {
	if err := seam.check(g.Width(), g.Height()); err != nil {
		return nil, err
	}

	width, shift := g.Width()-1, 1
	if grow {
		width, shift = g.Width()+1, -1
	}

	out, err := NewGrid(width, g.Height())
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeDegenerateResize, err, "cannot remove a seam from a %d-column grid", g.Width())
	}

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < width; x++ {
			src := x
			if x > seam[y] {
				src = x + shift
			}
			out.Set(x, y, g.At(src, y))
		}
	}
	return out, nil
}
