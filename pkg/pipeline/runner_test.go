package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/seamcarve/pkg/cache"
	"github.com/matzehuels/seamcarve/pkg/carve"
	errs "github.com/matzehuels/seamcarve/pkg/errors"
	"github.com/matzehuels/seamcarve/pkg/imageio"
	"github.com/matzehuels/seamcarve/pkg/observability"
)

// memCache is an in-memory Cache that can be told to fail.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	failGet bool
	failSet bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return nil, false, errors.New("get failed")
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.failSet {
		return errors.New("set failed")
	}
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func testImage(t *testing.T, w, h int) []byte {
	t.Helper()
	g, err := carve.NewGrid(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, carve.RGB{R: uint8(x * 30), G: uint8(y * 30), B: uint8(x * y)})
		}
	}
	data, err := imageio.EncodeBytes(g, imageio.FormatPNG)
	require.NoError(t, err)
	return data
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), testImage(t, 8, 6), Options{Width: 5, Height: 9})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Len(t, res.InputHash, 64)
	assert.False(t, res.CacheHit)
	assert.Equal(t, imageio.Info{Format: "png", Width: 8, Height: 6}, res.Source)
	assert.Equal(t, 5, res.Width)
	assert.Equal(t, 9, res.Height)
	assert.Equal(t, 3, res.Stats.WidthSeams)
	assert.Equal(t, 3, res.Stats.HeightSeams)

	g, info, err := imageio.Decode(res.Image)
	require.NoError(t, err)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 5, g.Width())
	assert.Equal(t, 9, g.Height())
}

func TestExecuteFormat(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), testImage(t, 5, 5), Options{Width: 4, Height: 4, Format: "bmp"})
	require.NoError(t, err)
	assert.Equal(t, imageio.FormatBMP, res.Format)

	_, info, err := imageio.Decode(res.Image)
	require.NoError(t, err)
	assert.Equal(t, "bmp", info.Format)
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	tests := []struct {
		name  string
		input []byte
		opts  Options
		code  errs.Code
	}{
		{"garbage input", []byte("nope"), Options{Width: 4, Height: 4}, errs.ErrCodeDecode},
		{"zero target", testImage(t, 5, 5), Options{Width: 0, Height: 4}, errs.ErrCodeInvalidDimensions},
		{"tiny source", testImage(t, 2, 5), Options{Width: 4, Height: 4}, errs.ErrCodeInvalidDimensions},
		{"degenerate width", testImage(t, 5, 5), Options{Width: 1, Height: 5}, errs.ErrCodeDegenerateResize},
		{"lossy output", testImage(t, 5, 5), Options{Width: 4, Height: 4, Format: "jpg"}, errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.input, tt.opts)
			assert.True(t, errs.Is(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}

func TestExecuteRejectsOversizedSource(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, errs.MaxDimension+1, 3))))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	_, err := r.Execute(ctx, buf.Bytes(), Options{Width: 3, Height: 3})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidDimensions), "got %v", err)
	assert.NoError(t, ctx.Err(), "rejected only after carving started")
	assert.Zero(t, c.sets)
}

func TestExecuteCached(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	ctx := context.Background()
	input := testImage(t, 7, 7)
	opts := Options{Width: 5, Height: 6}

	first, err := r.Execute(ctx, input, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, c.sets)

	second, err := r.Execute(ctx, input, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.InputHash, second.InputHash)
	assert.Equal(t, first.Image, second.Image)
	assert.Equal(t, first.Source, second.Source)
	assert.Equal(t, first.Width, second.Width)
	assert.Equal(t, first.Stats.Seams(), second.Stats.Seams())

	// Different target: separate entry.
	third, err := r.Execute(ctx, input, Options{Width: 6, Height: 6})
	require.NoError(t, err)
	assert.False(t, third.CacheHit)

	// Refresh recomputes and overwrites.
	refreshed, err := r.Execute(ctx, input, Options{Width: 5, Height: 6, Refresh: true})
	require.NoError(t, err)
	assert.False(t, refreshed.CacheHit)
	assert.Equal(t, 3, c.sets)
}

func TestExecuteCacheFailuresAreMisses(t *testing.T) {
	c := newMemCache()
	c.failGet, c.failSet = true, true
	r := NewRunner(c, nil, quietLogger())

	res, err := r.Execute(context.Background(), testImage(t, 5, 5), Options{Width: 4, Height: 4})
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.Equal(t, 1, c.gets)
	assert.Equal(t, 1, c.sets)
}

func TestExecuteCorruptCacheEntry(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	input := testImage(t, 5, 5)
	opts := Options{Width: 4, Height: 4}
	require.NoError(t, opts.ValidateAndSetDefaults())
	c.data[r.Keyer.ResultKey(cache.Hash(input), opts.ResultKeyOpts())] = []byte("{garbage")

	res, err := r.Execute(context.Background(), input, Options{Width: 4, Height: 4})
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
}

func TestExecuteScopedKeyer(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, cache.NewScopedKeyer(nil, "api:"), quietLogger())
	_, err := r.Execute(context.Background(), testImage(t, 5, 5), Options{Width: 4, Height: 4})
	require.NoError(t, err)
	for k := range c.data {
		assert.True(t, strings.HasPrefix(k, "api:result:"), "key %q", k)
	}
}

func TestExecuteLogsPhases(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	r := NewRunner(nil, nil, logger)

	var events []carve.Progress
	_, err := r.Execute(context.Background(), testImage(t, 5, 5), Options{
		Width:    4,
		Height:   4,
		Progress: func(p carve.Progress) { events = append(events, p) },
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Working on new width...")
	assert.Contains(t, out, "Working on new height...")
	require.NotEmpty(t, events)
	assert.Equal(t, carve.PhaseDone, events[len(events)-1].Phase)
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Execute(ctx, testImage(t, 6, 6), Options{Width: 4, Height: 4})
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnDecodeComplete(context.Context, string, observability.Size, time.Duration, error) {
	h.add("decode")
}
func (h *recordingHooks) OnCarveStart(context.Context, observability.Size, observability.Size) {
	h.add("carve-start")
}
func (h *recordingHooks) OnCarveComplete(context.Context, int, time.Duration, error) {
	h.add("carve")
}
func (h *recordingHooks) OnEncodeComplete(context.Context, string, int, time.Duration, error) {
	h.add("encode")
}
func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.add("hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.add("miss") }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.add("set") }

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	r := NewRunner(newMemCache(), nil, quietLogger())
	input := testImage(t, 5, 5)
	for i := 0; i < 2; i++ {
		_, err := r.Execute(context.Background(), input, Options{Width: 4, Height: 4})
		require.NoError(t, err)
	}

	want := []string{"miss", "decode", "carve-start", "carve", "encode", "set", "hit"}
	assert.Equal(t, want, hooks.events)
}
