package cli

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seamcarve/pkg/carve"
	"github.com/matzehuels/seamcarve/pkg/imageio"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testCLI returns a non-interactive CLI logging into buf, with XDG
// directories pointed at temp dirs.
func testCLI(t *testing.T, buf *bytes.Buffer) *CLI {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(buf, log.InfoLevel)
	c.interactive = func() bool { return false }
	c.animate = func() bool { return false }
	c.prompt = func(string, []promptField) ([]string, error) {
		t.Fatal("unexpected prompt")
		return nil, nil
	}
	return c
}

// writePNG writes a w×h gradient PNG into dir and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	g, err := carve.NewGrid(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, carve.RGB{R: uint8(x * 20), G: uint8(y * 20), B: 128})
		}
	}
	path := filepath.Join(dir, name)
	if err := imageio.Save(path, g, imageio.FormatPNG); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeRotatedJPEG writes a w×h JPEG tagged with EXIF orientation 6
// (rotate 90° clockwise), so it displays as h×w.
func writeRotatedJPEG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
	jpg := buf.Bytes()
	tiff := []byte{
		'M', 'M', 0, 42, 0, 0, 0, 8,
		0, 1,
		0x01, 0x12, 0, 3, 0, 0, 0, 1, 0, 6, 0, 0,
		0, 0, 0, 0,
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	data := append([]byte{}, jpg[:2]...)
	data = append(data, 0xFF, 0xE1)
	data = binary.BigEndian.AppendUint16(data, uint16(len(payload)+2))
	data = append(data, payload...)
	data = append(data, jpg[2:]...)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
