// Package imageio converts between image files and [carve.Grid].
//
// Decoding accepts every format registered with the standard image package
// plus those pulled in by imaging and golang.org/x/image: PNG, JPEG, GIF,
// BMP, TIFF and WebP. EXIF orientation is applied on decode. Alpha is
// discarded: each pixel keeps its non-premultiplied RGB channels.
//
// Encoding is restricted to lossless formats (PNG, BMP, TIFF) so that the
// carved pixels are written exactly. PNG is the default.
//
// [carve.Grid]: github.com/matzehuels/seamcarve/pkg/carve.Grid
package imageio
