// Package config loads versedist settings from a .env file, an optional YAML
// file and VERSEDIST_* environment variables, in that order of precedence
// (later wins). Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/versedistance/core/cache"
	"github.com/FocuswithJustin/versedistance/core/distance"
	"github.com/FocuswithJustin/versedistance/core/errors"
)

// Corpus sources.
const (
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
	SourceOSIS     = "osis"
	SourceSnapshot = "snapshot"
	SourceAuto     = "auto" // detected from the file at Path
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "VERSEDIST_"

// Config is the complete runtime configuration.
type Config struct {
	Corpus struct {
		Source string `yaml:"source"` // sqlite, postgres, osis, snapshot or auto
		Path   string `yaml:"path"`   // file for sqlite, osis and snapshot
		DSN    string `yaml:"dsn"`    // connection string for postgres
	} `yaml:"corpus"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json or text
	} `yaml:"log"`

	Distance struct {
		Method string `yaml:"method"`
	} `yaml:"distance"`

	Lookup struct {
		Context int `yaml:"context"` // verses of context on each side
	} `yaml:"lookup"`

	Cache struct {
		Size int `yaml:"size"` // entries per scoped aggregate memo
	} `yaml:"cache"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	cfg.Corpus.Source = SourceSQLite
	cfg.Corpus.Path = "kjv.db"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Distance.Method = distance.TextPercentage.String()
	cfg.Lookup.Context = 2
	cfg.Cache.Size = cache.DefaultSize
	return cfg
}

// Load builds a Config from defaults, .env, the YAML file at path (skipped
// when path is empty) and the environment.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewIO("read", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewValidation("config", fmt.Sprintf("%s: %v", path, err))
		}
	}

	// 3. Override with environment variables if present
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SOURCE":          &c.Corpus.Source,
		"PATH":            &c.Corpus.Path,
		"DSN":             &c.Corpus.DSN,
		"LOG_LEVEL":       &c.Log.Level,
		"LOG_FORMAT":      &c.Log.Format,
		"DISTANCE_METHOD": &c.Distance.Method,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CONTEXT":    &c.Lookup.Context,
		"CACHE_SIZE": &c.Cache.Size,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewValidation(EnvPrefix+key, fmt.Sprintf("not an integer: %q", v))
		}
		*dst = n
	}
	return nil
}

// Validate checks that the configuration can be used to open a corpus.
func (c *Config) Validate() error {
	switch c.Corpus.Source {
	case SourceSQLite, SourceOSIS, SourceSnapshot, SourceAuto:
		if c.Corpus.Path == "" {
			return errors.NewValidation("corpus.path", "required for source "+c.Corpus.Source)
		}
	case SourcePostgres:
		if c.Corpus.DSN == "" {
			return errors.NewValidation("corpus.dsn", "required for source postgres")
		}
	default:
		return errors.NewValidation("corpus.source", fmt.Sprintf("unknown source %q (want sqlite, postgres, osis, snapshot or auto)", c.Corpus.Source))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return errors.NewValidation("log.format", fmt.Sprintf("unknown format %q (want json or text)", c.Log.Format))
	}
	if _, err := distance.ParseMethod(c.Distance.Method); err != nil {
		return errors.NewValidation("distance.method", err.Error())
	}
	if c.Lookup.Context < 0 {
		return errors.NewValidation("lookup.context", "must not be negative")
	}
	if c.Cache.Size < 1 {
		return errors.NewValidation("cache.size", "must be at least 1")
	}
	return nil
}
