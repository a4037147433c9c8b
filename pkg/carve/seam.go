package carve

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	errs "github.com/matzehuels/seamcarve/pkg/errors"
)

// Seam holds one column index per row, top to bottom.
type Seam []int

// FindSeam extracts the minimum-cost seam from a cost matrix built by
// CumulativeCost.
//
// The bottom row picks the left-most minimum. Each row above starts from the
// column straight up, switches to up-left only if that is strictly cheaper,
// then switches to up-right only if that is strictly cheaper than the current
// choice. Equal costs therefore resolve straight > left > right.
func FindSeam(cost *mat.Dense) Seam {
	rows, cols := cost.Dims()
	seam := make(Seam, rows)

	last := rows - 1
	seam[last] = floats.MinIdx(cost.RawRowView(last))

	for r := last - 1; r >= 0; r-- {
		row := cost.RawRowView(r)
		prev := seam[r+1]
		choice := prev
		if prev > 0 && row[prev-1] < row[choice] {
			choice = prev - 1
		}
		if prev < cols-1 && row[prev+1] < row[choice] {
			choice = prev + 1
		}
		seam[r] = choice
	}
	return seam
}

// Connected reports whether adjacent entries differ by at most one column.
func (s Seam) Connected() bool {
	for r := 1; r < len(s); r++ {
		if d := s[r] - s[r-1]; d < -1 || d > 1 {
			return false
		}
	}
	return true
}

// check validates s against a width×height grid.
func (s Seam) check(width, height int) error {
	if len(s) != height {
		return errs.New(errs.ErrCodeInvalidInput, "seam has %d rows, grid has %d", len(s), height)
	}
	for y, x := range s {
		if x < 0 || x >= width {
			return errs.New(errs.ErrCodeInvalidInput, "seam column %d at row %d outside width %d", x, y, width)
		}
	}
	if !s.Connected() {
		return errs.New(errs.ErrCodeInvalidInput, "seam is not connected")
	}
	return nil
}
