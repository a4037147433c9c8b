package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seamcarve/pkg/cache"
	errs "github.com/matzehuels/seamcarve/pkg/errors"
	"github.com/matzehuels/seamcarve/pkg/imageio"
)

// Cache backends selectable with [cache] backend.
const (
	backendFile  = "file"
	backendNull  = "null"
	backendRedis = "redis"
	backendMongo = "mongo"
)

// Config is the on-disk configuration. Command-line flags take precedence.
//
//	format = "png"
//	verbose = false
//	no_cache = false
//
//	[cache]
//	backend = "file"     # file, null, redis, mongo
//	dir = ""             # default $XDG_CACHE_HOME/seamcarve
//	ttl = "168h"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "seamcarve"
//	collection = "results"
//
//	[server]
//	addr = ":8080"
//	max_body_mb = 32
type Config struct {
	Format  string       `toml:"format"`
	Verbose bool         `toml:"verbose"`
	NoCache bool         `toml:"no_cache"`
	Cache   CacheConfig  `toml:"cache"`
	Redis   RedisConfig  `toml:"redis"`
	Mongo   MongoConfig  `toml:"mongo"`
	Server  ServerConfig `toml:"server"`

	// path is the file the config was loaded from, if any.
	path string
}

type CacheConfig struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type ServerConfig struct {
	Addr      string `toml:"addr"`
	MaxBodyMB int    `toml:"max_body_mb"`
}

func defaultConfig() Config {
	return Config{
		Format: string(imageio.DefaultFormat),
		Cache: CacheConfig{
			Backend: backendFile,
			TTL:     cache.TTLResult,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   appName,
			Collection: "results",
		},
		Server: ServerConfig{Addr: ":8080", MaxBodyMB: 32},
	}
}

// loadConfig decodes path over the defaults and returns the keys it did
// not recognise. A missing file yields the defaults unless explicit is set.
func loadConfig(path string, explicit bool) (Config, []string, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return defaultConfig(), nil, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}
	if err != nil {
		return Config{}, nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, nil, fmt.Errorf("%s: %w", path, err)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return cfg, unknown, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendNull, backendRedis, backendMongo:
	default:
		return errs.New(errs.ErrCodeInvalidInput,
			"cache.backend must be file, null, redis or mongo, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Server.MaxBodyMB <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "server.max_body_mb must be positive")
	}
	if _, err := imageio.ParseFormat(c.Format); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// config command
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config
			if cfg.Redis.Password != "" {
				cfg.Redis.Password = "********"
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.Config.path
			if path == "" {
				p, err := defaultConfigPath()
				if err != nil {
					return err
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				printDetail("file does not exist; defaults are in use")
			}
			return nil
		},
	})

	return cmd
}
