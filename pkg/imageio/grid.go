package imageio

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/seamcarve/pkg/carve"
)

// FromImage copies img into a new grid. Alpha is dropped.
func FromImage(img image.Image) (*carve.Grid, error) {
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = imaging.Clone(img)
	}
	b := nrgba.Bounds()
	g, err := carve.NewGrid(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	for y := 0; y < b.Dy(); y++ {
		off := nrgba.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < b.Dx(); x++ {
			p := nrgba.Pix[off+4*x : off+4*x+3]
			g.Set(x, y, carve.RGB{R: p[0], G: p[1], B: p[2]})
		}
	}
	return g, nil
}

// ToImage renders g as an opaque NRGBA image anchored at (0, 0).
func ToImage(g *carve.Grid) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := g.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = 0xff
		}
	}
	return img
}
