package imageio

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registers WebP with image.Decode

	"github.com/matzehuels/seamcarve/pkg/carve"
	errs "github.com/matzehuels/seamcarve/pkg/errors"
)

// Info describes a decoded image.
type Info struct {
	Format string // decoder name, e.g. "png", "jpeg"
	Width  int
	Height int
}

// Decode reads an image from data and converts it to a grid.
// Failures are reported as DECODE_FAILED. Images with a side above
// errs.MaxDimension are rejected as INVALID_DIMENSIONS before decoding.
func Decode(data []byte) (*carve.Grid, Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, errs.Wrap(errs.ErrCodeDecode, err, "unrecognized image data")
	}
	if cfg.Width > errs.MaxDimension || cfg.Height > errs.MaxDimension {
		return nil, Info{}, errs.New(errs.ErrCodeInvalidDimensions,
			"source image %dx%d too large (max %d per side)", cfg.Width, cfg.Height, errs.MaxDimension)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, Info{}, errs.Wrap(errs.ErrCodeDecode, err, "decode %s", format)
	}

	g, err := FromImage(img)
	if err != nil {
		return nil, Info{}, errs.Wrap(errs.ErrCodeDecode, err, "convert %s", format)
	}

	// Sides come from the grid: orientation may swap them.
	return g, Info{Format: format, Width: g.Width(), Height: g.Height()}, nil
}

// Inspect reports the format and size of an image without decoding pixels.
func Inspect(r io.Reader) (Info, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Info{}, errs.Wrap(errs.ErrCodeDecode, err, "unrecognized image data")
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Load reads and decodes the image at path.
func Load(path string) (*carve.Grid, Info, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, Info{}, err
	}
	return Decode(data)
}

// ReadFile reads path, mapping a missing file to FILE_NOT_FOUND.
func ReadFile(path string) ([]byte, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "no such file: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Encode writes g to w in format f.
func Encode(w io.Writer, g *carve.Grid, f Format) error {
	imgFormat, ok := imagingFormats[f]
	if !ok {
		return errs.New(errs.ErrCodeInvalidFormat, "unsupported output format %q", f)
	}
	if err := imaging.Encode(w, ToImage(g), imgFormat); err != nil {
		return errs.Wrap(errs.ErrCodeEncode, err, "encode %s", f)
	}
	return nil
}

// EncodeBytes encodes g in format f and returns the bytes.
func EncodeBytes(g *carve.Grid, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, g, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save encodes g and writes it to path, replacing any existing file.
func Save(path string, g *carve.Grid, f Format) error {
	data, err := EncodeBytes(g, f)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes data to path with 0644 permissions.
func WriteFile(path string, data []byte) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
