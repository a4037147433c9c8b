// Package pipeline runs decode → carve → encode with result caching.
//
// The CLI and the HTTP server both go through a [Runner] so that they share
// validation, cache keys and logging:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, data, pipeline.Options{
//	    Width:  640,
//	    Height: 480,
//	    Format: imageio.FormatPNG,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("out.png", res.Image, 0644)
//
// Results are keyed by the SHA-256 of the input bytes and the target
// parameters. A cache failure degrades to a recompute; it never fails a run.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seamcarve/pkg/cache"
	"github.com/matzehuels/seamcarve/pkg/carve"
	errs "github.com/matzehuels/seamcarve/pkg/errors"
	"github.com/matzehuels/seamcarve/pkg/imageio"
)

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Format imageio.Format `json:"format,omitempty"`

	// Refresh skips the cache lookup. The fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger          `json:"-"`
	Progress func(carve.Progress) `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the target size and output format and fills
// in defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errs.ValidateDimension("width", o.Width); err != nil {
		return err
	}
	if err := errs.ValidateDimension("height", o.Height); err != nil {
		return err
	}
	f, err := imageio.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = f
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResultKeyOpts returns the cache key parameters for o.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{Width: o.Width, Height: o.Height, Format: string(o.Format)}
}

// =============================================================================
// Result
// =============================================================================

// Result is the output of a pipeline run.
type Result struct {
	// ID identifies this run in logs and HTTP responses.
	ID string

	// InputHash is the hex SHA-256 of the input bytes.
	InputHash string

	// Image is the encoded output.
	Image  []byte
	Format imageio.Format

	Source imageio.Info
	Width  int
	Height int

	Stats    Stats
	CacheHit bool
}

// Stats holds timings and seam counts. Timings are zero on a cache hit.
type Stats struct {
	DecodeTime time.Duration
	CarveTime  time.Duration
	EncodeTime time.Duration

	WidthSeams  int
	HeightSeams int
}

// Seams returns the total number of seams removed or inserted.
func (s Stats) Seams() int { return s.WidthSeams + s.HeightSeams }
