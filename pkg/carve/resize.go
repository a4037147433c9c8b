package carve

import (
	"context"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/seamcarve/pkg/errors"
)

// Phase identifies where Resize currently is.
type Phase int

const (
	// PhaseWidth carves the grid in its original orientation.
	PhaseWidth Phase = iota
	// PhaseHeight carves the transposed grid, so its width is the image height.
	PhaseHeight
	// PhaseDone is reported once, after the grid is transposed back.
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseWidth:
		return "width"
	case PhaseHeight:
		return "height"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Progress describes the state of a running resize.
// Width and Height are always given in the original orientation.
type Progress struct {
	Phase  Phase
	Done   int // seams applied in this phase
	Total  int // seams this phase needs
	Width  int
	Height int
}

// Option configures Resize.
type Option func(*driver)

// WithProgress registers fn to be called after every seam and at each phase change.
func WithProgress(fn func(Progress)) Option {
	return func(d *driver) { d.progress = fn }
}

// WithLogger sets the logger used for debug output. A nil logger disables logging.
func WithLogger(l *log.Logger) Option {
	return func(d *driver) { d.logger = l }
}

type driver struct {
	progress func(Progress)
	logger   *log.Logger
}

// Validate checks that a width×height grid can be carved to
// targetWidth×targetHeight.
//
// It returns INVALID_DIMENSIONS for non-positive targets or a source grid
// with a side below MinSide, and DEGENERATE_RESIZE for targets that would
// require computing energy on a grid with a side below MinSide.
func Validate(width, height, targetWidth, targetHeight int) error {
	if targetWidth <= 0 || targetHeight <= 0 {
		return errs.New(errs.ErrCodeInvalidDimensions,
			"target size must be positive, got %dx%d", targetWidth, targetHeight)
	}
	if width < MinSide || height < MinSide {
		return errs.New(errs.ErrCodeInvalidDimensions,
			"image must be at least %dx%d pixels, got %dx%d", MinSide, MinSide, width, height)
	}
	// The last shrinking step runs on a grid one column wider than the target.
	if targetWidth != width && targetWidth < MinSide-1 {
		return errs.New(errs.ErrCodeDegenerateResize,
			"cannot carve width %d down to %d", width, targetWidth)
	}
	if targetHeight != height {
		if targetHeight < MinSide-1 {
			return errs.New(errs.ErrCodeDegenerateResize,
				"cannot carve height %d down to %d", height, targetHeight)
		}
		// The height pass runs on a grid whose row count is targetWidth.
		if targetWidth < MinSide {
			return errs.New(errs.ErrCodeDegenerateResize,
				"cannot carve height once width is %d (need at least %d)", targetWidth, MinSide)
		}
	}
	return nil
}

// Resize carves g to targetWidth×targetHeight and returns the new grid.
// g itself is never modified.
//
// Width is carved first. The grid is then transposed, carved to targetHeight
// along its new width, and transposed back. Within each axis the direction
// (grow or shrink) is decided once from the size at the start of that axis.
//
// ctx is checked between seams; on cancellation Resize returns ctx.Err()
// and no partial result.
func Resize(ctx context.Context, g *Grid, targetWidth, targetHeight int, opts ...Option) (*Grid, error) {
	if err := Validate(g.Width(), g.Height(), targetWidth, targetHeight); err != nil {
		return nil, err
	}

	d := &driver{}
	for _, opt := range opts {
		opt(d)
	}

	d.debug("carving width", "from", g.Width(), "to", targetWidth)
	cur, err := d.carveAxis(ctx, PhaseWidth, g, targetWidth)
	if err != nil {
		return nil, err
	}

	d.debug("carving height", "from", cur.Height(), "to", targetHeight)
	cur, err = d.carveAxis(ctx, PhaseHeight, cur.Transpose(), targetHeight)
	if err != nil {
		return nil, err
	}
	cur = cur.Transpose()

	d.report(Progress{Phase: PhaseDone, Width: cur.Width(), Height: cur.Height()})
	return cur, nil
}

// carveAxis applies seams to g until its width equals target.
func (d *driver) carveAxis(ctx context.Context, phase Phase, g *Grid, target int) (*Grid, error) {
	grow := target > g.Width()
	total := target - g.Width()
	if total < 0 {
		total = -total
	}
	d.report(d.progressFor(phase, g, 0, total))

	for done := 0; g.Width() != target; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		energy, err := Energy(g)
		if err != nil {
			return nil, err
		}
		seam := FindSeam(CumulativeCost(energy))
		if g, err = ApplySeam(g, seam, grow); err != nil {
			return nil, err
		}

		done++
		d.report(d.progressFor(phase, g, done, total))
	}
	return g, nil
}

func (d *driver) progressFor(phase Phase, g *Grid, done, total int) Progress {
	p := Progress{Phase: phase, Done: done, Total: total, Width: g.Width(), Height: g.Height()}
	if phase == PhaseHeight {
		p.Width, p.Height = g.Height(), g.Width()
	}
	return p
}

func (d *driver) report(p Progress) {
	if d.progress != nil {
		d.progress(p)
	}
}

func (d *driver) debug(msg string, keyvals ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, keyvals...)
	}
}
