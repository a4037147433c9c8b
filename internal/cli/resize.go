package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seamcarve/pkg/carve"
	errs "github.com/matzehuels/seamcarve/pkg/errors"
	"github.com/matzehuels/seamcarve/pkg/imageio"
	"github.com/matzehuels/seamcarve/pkg/pipeline"
)

// resizeOpts holds the flags of the resize command. Empty paths mean
// "not given"; a size is given when its flag was set or it is non-zero.
type resizeOpts struct {
	in        string
	out       string
	width     int
	height    int
	widthSet  bool
	heightSet bool
	format    string
	noCache   bool
	refresh   bool
}

func (o *resizeOpts) hasWidth() bool { return o.widthSet || o.width != 0 }
func (o *resizeOpts) hasHeight() bool { return o.heightSet || o.height != 0 }

func (c *CLI) resizeCommand() *cobra.Command {
	var opts resizeOpts

	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Resize an image by carving or inserting seams",
		Long: `Resize an image to an exact width and height by removing (or duplicating)
the connected pixel paths with the least visual energy.

Missing arguments are asked for interactively when stdin is a terminal.`,
		Example: `  seamcarve resize -i beach.jpg -o beach-wide.png --width 1200 --height 600
  seamcarve resize                      # prompt for everything`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.widthSet = cmd.Flags().Changed("width")
			opts.heightSet = cmd.Flags().Changed("height")
			return c.runResize(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.in, "in", "i", "", "input image path")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output image path")
	cmd.Flags().IntVar(&opts.width, "width", 0, "target width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "target height in pixels")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png, bmp, tiff (default from --out extension)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")

	return cmd
}

func (c *CLI) runResize(ctx context.Context, opts resizeOpts) error {
	logger := loggerFromContext(ctx)

	if err := c.collectPaths(&opts); err != nil {
		return err
	}
	if err := errs.ValidatePath(opts.out); err != nil {
		return err
	}

	data, err := imageio.ReadFile(opts.in)
	if err != nil {
		return err
	}
	// Decoded rather than inspected: EXIF orientation may swap the sides.
	_, src, err := imageio.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.in, err)
	}
	printInfo("Your image is %d width and %d height", src.Width, src.Height)

	if err := c.collectSize(&opts, src); err != nil {
		return err
	}

	format, err := c.outputFormat(opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spinner *Spinner
	if c.animate() && c.Logger.GetLevel() > LogDebug {
		spinner = newSpinnerWithContext(ctx, "Carving...")
		c.Logger.SetOutput(spinner)
		spinner.Start()
		defer func() {
			spinner.Stop()
			c.Logger.SetOutput(c.logOut)
		}()
	}

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, data, pipeline.Options{
		Width:   opts.width,
		Height:  opts.height,
		Format:  format,
		Refresh: opts.refresh,
		Logger:  logger,
		Progress: func(p carve.Progress) {
			if spinner != nil {
				spinner.SetMessage(progressMessage(p))
			}
		},
	})
	if err != nil {
		return err
	}

	logger.Info("Writing")
	if err := imageio.WriteFile(opts.out, res.Image); err != nil {
		return err
	}
	prog.done("Done")

	if spinner != nil {
		spinner.Stop()
	}
	printSuccess("Resized %s to %d×%d", filepath.Base(opts.in), res.Width, res.Height)
	printFile(opts.out)
	took := ""
	if !res.CacheHit {
		took = res.Stats.CarveTime.Round(time.Millisecond).String()
	}
	printStats(res.Stats.Seams(), took, res.CacheHit)
	return nil
}

// progressMessage renders a carve event for the spinner.
func progressMessage(p carve.Progress) string {
	switch p.Phase {
	case carve.PhaseWidth, carve.PhaseHeight:
		return fmt.Sprintf("Carving %s %d/%d (%d×%d)", p.Phase, p.Done, p.Total, p.Width, p.Height)
	default:
		return "Encoding..."
	}
}

// collectPaths fills in missing input and output paths, prompting when
// possible.
func (c *CLI) collectPaths(opts *resizeOpts) error {
	var fields []promptField
	if opts.in == "" {
		fields = append(fields, promptField{Label: "Input image"})
	}
	if opts.out == "" {
		fields = append(fields, promptField{Label: "Output image"})
	}
	if len(fields) == 0 {
		return nil
	}
	if !c.interactive() {
		return errs.New(errs.ErrCodeInvalidInput, "%s required (stdin is not a terminal)", missingFlags(opts))
	}

	values, err := c.prompt("Which image should be resized?", fields)
	if err != nil {
		return err
	}
	i := 0
	if opts.in == "" {
		opts.in, i = values[i], i+1
	}
	if opts.out == "" {
		opts.out = values[i]
	}
	return nil
}

// collectSize fills in a missing target width or height.
func (c *CLI) collectSize(opts *resizeOpts, src imageio.Info) error {
	var fields []promptField
	if !opts.hasWidth() {
		fields = append(fields, promptField{Label: "New width", Numeric: true})
	}
	if !opts.hasHeight() {
		fields = append(fields, promptField{Label: "New height", Numeric: true})
	}
	if len(fields) == 0 {
		return nil
	}
	if !c.interactive() {
		return errs.New(errs.ErrCodeInvalidInput, "%s required (stdin is not a terminal)", missingFlags(opts))
	}

	title := fmt.Sprintf("Your image is %d width and %d height", src.Width, src.Height)
	values, err := c.prompt(title, fields)
	if err != nil {
		return err
	}
	i := 0
	if !opts.hasWidth() {
		if opts.width, err = strconv.Atoi(values[i]); err != nil {
			return errs.New(errs.ErrCodeInvalidInput, "width must be a number, got %q", values[i])
		}
		i++
	}
	if !opts.hasHeight() {
		if opts.height, err = strconv.Atoi(values[i]); err != nil {
			return errs.New(errs.ErrCodeInvalidInput, "height must be a number, got %q", values[i])
		}
	}
	return nil
}

func missingFlags(opts *resizeOpts) string {
	var missing []string
	if opts.in == "" {
		missing = append(missing, "--in")
	}
	if opts.out == "" {
		missing = append(missing, "--out")
	}
	if !opts.hasWidth() {
		missing = append(missing, "--width")
	}
	if !opts.hasHeight() {
		missing = append(missing, "--height")
	}
	return joinList(missing)
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	s := items[0]
	for _, it := range items[1 : len(items)-1] {
		s += ", " + it
	}
	return s + " and " + items[len(items)-1]
}

// outputFormat picks --format, then the --out extension, then the
// configured default.
func (c *CLI) outputFormat(opts resizeOpts) (imageio.Format, error) {
	if opts.format != "" {
		return imageio.ParseFormat(opts.format)
	}
	if filepath.Ext(opts.out) != "" {
		return imageio.FormatFromPath(opts.out)
	}
	return imageio.ParseFormat(c.Config.Format)
}
