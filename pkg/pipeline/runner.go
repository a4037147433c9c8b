package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/seamcarve/pkg/cache"
	"github.com/matzehuels/seamcarve/pkg/carve"
	"github.com/matzehuels/seamcarve/pkg/imageio"
	"github.com/matzehuels/seamcarve/pkg/observability"
)

const keyTypeResult = "result"

// Runner executes the pipeline against a cache. It holds no per-run state
// and may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of stored results. Zero means cache.TTLResult.
	TTL time.Duration
}

// NewRunner returns a Runner. A nil cache disables caching, a nil keyer
// selects cache.DefaultKeyer and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute resizes the encoded image in input.
func (r *Runner) Execute(ctx context.Context, input []byte, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	hash := cache.Hash(input)
	key := r.Keyer.ResultKey(hash, opts.ResultKeyOpts())

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			res.ID = uuid.NewString()
			res.InputHash = hash
			logger.Debug("cache hit", "key", key)
			return res, nil
		}
	}

	res := &Result{ID: uuid.NewString(), InputHash: hash, Format: opts.Format}

	// Stage 1: Decode
	start := time.Now()
	g, info, err := imageio.Decode(input)
	res.Stats.DecodeTime = time.Since(start)
	observability.Pipeline().OnDecodeComplete(ctx, info.Format,
		observability.Size{Width: info.Width, Height: info.Height}, res.Stats.DecodeTime, err)
	if err != nil {
		return nil, err
	}
	res.Source = info
	logger.Debug("decoded", "format", info.Format, "width", info.Width, "height", info.Height,
		"duration", res.Stats.DecodeTime)

	// Stage 2: Carve
	res.Stats.WidthSeams = abs(opts.Width - g.Width())
	res.Stats.HeightSeams = abs(opts.Height - g.Height())
	observability.Pipeline().OnCarveStart(ctx,
		observability.Size{Width: g.Width(), Height: g.Height()},
		observability.Size{Width: opts.Width, Height: opts.Height})

	start = time.Now()
	out, err := carve.Resize(ctx, g, opts.Width, opts.Height,
		carve.WithLogger(logger),
		carve.WithProgress(phaseLogger(logger, opts.Progress)))
	res.Stats.CarveTime = time.Since(start)
	observability.Pipeline().OnCarveComplete(ctx, res.Stats.Seams(), res.Stats.CarveTime, err)
	if err != nil {
		return nil, err
	}
	res.Width, res.Height = out.Width(), out.Height()

	// Stage 3: Encode
	start = time.Now()
	res.Image, err = imageio.EncodeBytes(out, opts.Format)
	res.Stats.EncodeTime = time.Since(start)
	observability.Pipeline().OnEncodeComplete(ctx, string(opts.Format), len(res.Image), res.Stats.EncodeTime, err)
	if err != nil {
		return nil, err
	}

	logger.Debug("resized",
		"seams", res.Stats.Seams(),
		"carve", res.Stats.CarveTime,
		"bytes", len(res.Image))

	r.store(ctx, key, res)
	return res, nil
}

// phaseLogger logs the start of each carving phase at info level and
// forwards every event to next.
func phaseLogger(logger *log.Logger, next func(carve.Progress)) func(carve.Progress) {
	return func(p carve.Progress) {
		if p.Done == 0 {
			switch p.Phase {
			case carve.PhaseWidth:
				logger.Info("Working on new width...")
			case carve.PhaseHeight:
				logger.Info("Working on new height...")
			}
		}
		if next != nil {
			next(p)
		}
	}
}

// =============================================================================
// Cache envelope
// =============================================================================

type envelope struct {
	Format       imageio.Format `json:"format"`
	SourceFormat string         `json:"source_format"`
	SourceWidth  int            `json:"source_width"`
	SourceHeight int            `json:"source_height"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	WidthSeams   int            `json:"width_seams"`
	HeightSeams  int            `json:"height_seams"`
	Image        []byte         `json:"image"`
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || len(env.Image) == 0 {
		r.Logger.Debug("discarding unreadable cache entry", "key", key)
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeResult)

	return &Result{
		Image:  env.Image,
		Format: env.Format,
		Source: imageio.Info{Format: env.SourceFormat, Width: env.SourceWidth, Height: env.SourceHeight},
		Width:  env.Width,
		Height: env.Height,
		Stats: Stats{
			WidthSeams:  env.WidthSeams,
			HeightSeams: env.HeightSeams,
		},
		CacheHit: true,
	}, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(envelope{
		Format:       res.Format,
		SourceFormat: res.Source.Format,
		SourceWidth:  res.Source.Width,
		SourceHeight: res.Source.Height,
		Width:        res.Width,
		Height:       res.Height,
		WidthSeams:   res.Stats.WidthSeams,
		HeightSeams:  res.Stats.HeightSeams,
		Image:        res.Image,
	})
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLResult
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache store failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeResult, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
