// Package cli implements the seamcarve command-line interface.
//
// # Commands
//
//   - resize: content-aware resize of one image (prompts for missing arguments)
//   - info: print format and dimensions of images
//   - serve: run the HTTP resize service
//   - cache: inspect and clear the result cache
//   - config: show the effective configuration
//   - completion: generate shell completion scripts
//
// # Logging
//
// Commands log to stderr through charmbracelet/log. --verbose (-v) or
// verbose = true in the config file switches to debug level. The logger is
// carried in the command context; see loggerFromContext.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/seamcarve/pkg/cache"
	errs "github.com/matzehuels/seamcarve/pkg/errors"
	"github.com/matzehuels/seamcarve/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName names the config and cache directories.
const appName = "seamcarve"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	logOut io.Writer

	// interactive reports whether missing arguments may be prompted for.
	interactive func() bool
	// prompt collects field values from the user.
	prompt func(title string, fields []promptField) ([]string, error)
	// animate reports whether a spinner may be drawn on stderr.
	animate func() bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(w, level),
		Config:      defaultConfig(),
		logOut:      w,
		interactive: stdinIsTerminal,
		prompt:      runPrompt,
		animate:     stderrIsTerminal,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// keyer may be nil.
func (c *CLI) newRunner(ctx context.Context, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

// newCache opens the configured backend. Unreachable remote backends
// degrade to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config
	if noCache || cfg.NoCache {
		return cache.NewNullCache(), nil
	}

	switch cfg.Cache.Backend {
	case backendNull:
		return cache.NewNullCache(), nil
	case backendFile, "":
		dir, err := c.resolveCacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			c.Logger.Warn("caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	case backendMongo:
		mc, err := cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			c.Logger.Warn("caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return mc, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown cache backend %q", cfg.Cache.Backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// resolveCacheDir returns the configured cache dir or the XDG default.
func (c *CLI) resolveCacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/seamcarve/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/seamcarve/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultConfigPath returns configDir()/config.toml.
func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
