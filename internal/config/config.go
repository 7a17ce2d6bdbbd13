// Package config resolves runtime settings for the todo service.
//
// Sources, lowest priority first:
//  1. Defaults
//  2. Config file (--config, else tada.toml / tada.yaml / tada.yml in the
//     working directory)
//  3. Environment variables
//  4. Command-line flags (applied by the cli package)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

const (
	DefaultAddr      = ":3000"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Environment variable names.
const (
	EnvAddr            = "TADA_ADDR"
	EnvPort            = "PORT"
	EnvStorageDriver   = "TADA_STORAGE_DRIVER"
	EnvStoragePath     = "TADA_STORAGE_PATH"
	EnvDurableWrites   = "TADA_DURABLE_WRITES"
	EnvSerializeWrites = "TADA_SERIALIZE_WRITES"
	EnvLogLevel        = "TADA_LOG_LEVEL"
	EnvLogFormat       = "TADA_LOG_FORMAT"
)

// ProjectConfigFiles are probed in order when no explicit file is given.
var ProjectConfigFiles = []string{"tada.toml", "tada.yaml", "tada.yml"}

type Config struct {
	Server  Server  `toml:"server" yaml:"server"`
	Storage Storage `toml:"storage" yaml:"storage"`
	Log     Log     `toml:"log" yaml:"log"`
}

type Server struct {
	Addr string `toml:"addr" yaml:"addr"`
}

type Storage struct {
	// Driver is one of json, sqlite, memory.
	Driver string `toml:"driver" yaml:"driver"`
	// Path of the data file. Empty picks the driver's default file name in
	// the working directory.
	Path string `toml:"path" yaml:"path"`
	// DurableWrites writes to a temp file and renames it into place.
	DurableWrites bool `toml:"durable_writes" yaml:"durable_writes"`
	// SerializeWrites runs every load-mutate-save under one process-wide
	// lock. Off means concurrent mutations can lose updates.
	SerializeWrites bool `toml:"serialize_writes" yaml:"serialize_writes"`
}

type Log struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:  Server{Addr: DefaultAddr},
		Storage: Storage{Driver: DriverJSON},
		Log:     Log{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Load applies defaults, the config file and the environment. path may be
// empty, in which case the project config files are probed.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = findProjectConfigFile()
	}
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(&cfg, os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func findProjectConfigFile() string {
	for _, name := range ProjectConfigFiles {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

func loadFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.DecodeFile(path, cfg)
		return err
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return yaml.Unmarshal(b, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func loadFromEnv(cfg *Config, getenv func(string) string) error {
	if port := strings.TrimSpace(getenv(EnvPort)); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if addr := strings.TrimSpace(getenv(EnvAddr)); addr != "" {
		cfg.Server.Addr = addr
	}
	if v := strings.TrimSpace(getenv(EnvStorageDriver)); v != "" {
		cfg.Storage.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvStoragePath)); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvLogFormat)); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}

	var errs []error
	if v := strings.TrimSpace(getenv(EnvDurableWrites)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvDurableWrites, err))
		}
		cfg.Storage.DurableWrites = b
	}
	if v := strings.TrimSpace(getenv(EnvSerializeWrites)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSerializeWrites, err))
		}
		cfg.Storage.SerializeWrites = b
	}
	return errors.Join(errs...)
}

// Validate rejects values the rest of the program can't act on.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}
	switch c.Storage.Driver {
	case DriverJSON, DriverSQLite, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q: want json, sqlite or memory", c.Storage.Driver))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text, json or logfmt", c.Log.Format))
	}
	return errors.Join(errs...)
}
