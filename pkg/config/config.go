// Package config loads topicmap settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/topicmap/config.toml (see [DefaultPath])
// unless a path is given explicitly. Every field is optional; missing
// values take the defaults from [Default]. Command-line flags override
// what the file sets.
//
//	[layout]
//	topic_radius = 900
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	layout_ttl = "72h"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/layout"
)

const appName = "topicmap"

// Store backends.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Config is the full set of file-configurable settings.
type Config struct {
	Layout layout.Options `toml:"layout"`
	Cache  CacheConfig    `toml:"cache"`
	Store  StoreConfig    `toml:"store"`
	Server ServerConfig   `toml:"server"`
}

// CacheConfig selects where layouts and artifacts are cached.
// A non-empty RedisURL takes precedence over Dir.
type CacheConfig struct {
	Dir         string   `toml:"dir"`
	RedisURL    string   `toml:"redis_url"`
	LayoutTTL   Duration `toml:"layout_ttl"`
	ArtifactTTL Duration `toml:"artifact_ttl"`
}

// StoreConfig selects the hierarchy store backend.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures `topicmap serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout Duration `toml:"request_timeout"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a Go duration string ("90s", "24h").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Layout: layout.DefaultOptions(),
		Cache: CacheConfig{
			LayoutTTL:   Duration{cache.TTLLayout},
			ArtifactTTL: Duration{cache.TTLArtifact},
		},
		Store: StoreConfig{
			Backend:       BackendFile,
			MongoDatabase: appName,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: Duration{30 * time.Second},
			MaxBodyBytes:   1 << 20,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/topicmap/config.toml, falling back to
// the platform's user config directory.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = dir
	}
	return filepath.Join(base, appName, "config.toml"), nil
}

// Load reads the file at path over [Default] and validates the result.
// An empty path loads [DefaultPath] if it exists and returns the defaults
// otherwise. Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Layout.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be caught by decoding alone.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout")
	}
	if c.Cache.LayoutTTL.Duration < 0 || c.Cache.ArtifactTTL.Duration < 0 {
		return invalid("cache TTLs must not be negative")
	}
	if !slices.Contains([]string{BackendFile, BackendMongo}, c.Store.Backend) {
		return invalid("store backend %q (must be one of: file, mongo)", c.Store.Backend)
	}
	if c.Store.Backend == BackendMongo && c.Store.MongoURI == "" {
		return invalid("store backend mongo requires mongo_uri")
	}
	if c.Server.Addr == "" {
		return invalid("server addr is empty")
	}
	if c.Server.RequestTimeout.Duration <= 0 {
		return invalid("server request_timeout must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return invalid("server max_body_bytes must be positive")
	}
	return nil
}

// Write encodes c as TOML to path, creating parent directories.
func Write(c Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}
