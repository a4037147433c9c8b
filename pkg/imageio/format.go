package imageio

import (
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	errs "github.com/matzehuels/seamcarve/pkg/errors"
)

// Format is a lossless output format.
type Format string

// Supported output formats.
const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// DefaultFormat is used when no format is requested and none can be inferred.
const DefaultFormat = FormatPNG

var imagingFormats = map[Format]imaging.Format{
	FormatPNG:  imaging.PNG,
	FormatBMP:  imaging.BMP,
	FormatTIFF: imaging.TIFF,
}

var contentTypes = map[Format]string{
	FormatPNG:  "image/png",
	FormatBMP:  "image/bmp",
	FormatTIFF: "image/tiff",
}

// ParseFormat parses a user-supplied format name. Matching is
// case-insensitive and accepts "tif" for TIFF. An empty name yields
// DefaultFormat. Lossy formats are rejected with INVALID_FORMAT.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "":
		return DefaultFormat, nil
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "jpg", "jpeg", "gif", "webp":
		return "", errs.New(errs.ErrCodeInvalidFormat, "%s is lossy; output must be png, bmp or tiff", name)
	default:
		return "", errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (must be png, bmp or tiff)", name)
	}
}

// FormatFromPath infers the output format from a file extension.
// Paths without an extension map to DefaultFormat.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Ext returns the canonical file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }
