package carve

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CumulativeCost builds the minimum-path cost matrix for energy.
//
// Row 0 equals row 0 of energy. Every later cell adds its own energy to the
// cheapest of its parents in the row above: up-left, up and up-right, with
// the missing parent dropped on the first and last columns. cost[r][c] is
// therefore the smallest total energy of any connected path from the top
// row down to (r, c). No ties are broken here.
func CumulativeCost(energy *mat.Dense) *mat.Dense {
	rows, cols := energy.Dims()
	cost := mat.NewDense(rows, cols, nil)
	cost.SetRow(0, energy.RawRowView(0))

	for r := 1; r < rows; r++ {
		above := cost.RawRowView(r - 1)
		cur := cost.RawRowView(r)
		e := energy.RawRowView(r)
		for c := 0; c < cols; c++ {
			cur[c] = e[c] + cheapestParent(above, c)
		}
	}
	return cost
}

func cheapestParent(above []float64, c int) float64 {
	best := above[c]
	if c > 0 {
		best = math.Min(best, above[c-1])
	}
	if c < len(above)-1 {
		best = math.Min(best, above[c+1])
	}
	return best
}
