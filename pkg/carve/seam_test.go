package carve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	errs "github.com/matzehuels/seamcarve/pkg/errors"
)

func TestFindSeam(t *testing.T) {
	cost := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		5, 2, 8,
		9, 10, 2,
	})

	got := FindSeam(cost)
	if diff := cmp.Diff(Seam{0, 1, 2}, got); diff != "" {
		t.Errorf("FindSeam mismatch (-want +got):\n%s", diff)
	}
}

func TestFindSeamTieBreaks(t *testing.T) {
	tests := []struct {
		name string
		cost []float64 // 2 rows × 3 columns
		want Seam
	}{
		{
			name: "flat last row picks column 0",
			cost: []float64{
				0, 0, 0,
				7, 7, 7,
			},
			want: Seam{0, 0},
		},
		{
			name: "straight beats tied left",
			cost: []float64{
				1, 1, 5,
				9, 0, 9,
			},
			want: Seam{1, 1},
		},
		{
			name: "straight beats tied right",
			cost: []float64{
				5, 1, 1,
				9, 0, 9,
			},
			want: Seam{1, 1},
		},
		{
			name: "left beats tied right",
			cost: []float64{
				1, 3, 1,
				9, 0, 9,
			},
			want: Seam{0, 1},
		},
		{
			name: "right wins when strictly cheapest",
			cost: []float64{
				2, 3, 1,
				9, 0, 9,
			},
			want: Seam{2, 1},
		},
		{
			name: "left-most minimum in last row",
			cost: []float64{
				0, 0, 0,
				4, 1, 1,
			},
			want: Seam{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindSeam(mat.NewDense(2, 3, tt.cost))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindSeam mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindSeamEdges(t *testing.T) {
	// Starting at column 0, the walk must never look at column -1;
	// starting at the last column, it must never look past it.
	left := FindSeam(mat.NewDense(3, 3, []float64{
		0, 9, 9,
		0, 9, 9,
		0, 9, 9,
	}))
	assert.Equal(t, Seam{0, 0, 0}, left)

	right := FindSeam(mat.NewDense(3, 3, []float64{
		9, 9, 0,
		9, 9, 0,
		9, 9, 0,
	}))
	assert.Equal(t, Seam{2, 2, 2}, right)
}

func TestFindSeamConnected(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		g := randomGrid(t, 20, 15, seed)
		e, err := Energy(g)
		require.NoError(t, err)

		seam := FindSeam(CumulativeCost(e))
		require.Len(t, seam, g.Height())
		assert.True(t, seam.Connected(), "seed %d: %v", seed, seam)
		for y, x := range seam {
			assert.True(t, x >= 0 && x < g.Width(), "row %d column %d", y, x)
		}
	}
}

func TestSeamConnected(t *testing.T) {
	assert.True(t, Seam{}.Connected())
	assert.True(t, Seam{3}.Connected())
	assert.True(t, Seam{1, 2, 1, 0, 0}.Connected())
	assert.False(t, Seam{0, 2}.Connected())
	assert.False(t, Seam{4, 4, 2}.Connected())
}

func TestSeamCheck(t *testing.T) {
	tests := []struct {
		name string
		seam Seam
		ok   bool
	}{
		{"valid", Seam{0, 1, 2}, true},
		{"too short", Seam{0, 1}, false},
		{"negative column", Seam{-1, 0, 0}, false},
		{"column past width", Seam{2, 3, 3}, false},
		{"disconnected", Seam{0, 2, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.seam.check(3, 3)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
		})
	}
}
