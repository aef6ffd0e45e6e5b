// Package config handles loading blobspace.toml configuration files.
//
// Values come from the defaults, then the TOML file, then environment
// variables:
//
//	print_blob_sizes_at_exit = true
//
//	[threadpool]
//	android_cap = true
//	ios_cap = false
//	threads = 0 # 0 derives the size from the core count
//
//	[logging]
//	level = "debug"
//	development = true
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/wippyai/blobspace/errors"
)

const (
	EnvPrintBlobSizes = "BLOBSPACE_PRINT_BLOB_SIZES_AT_EXIT"
	EnvAndroidCap     = "BLOBSPACE_THREADPOOL_ANDROID_CAP"
	EnvIOSCap         = "BLOBSPACE_THREADPOOL_IOS_CAP"
	EnvThreads        = "BLOBSPACE_THREADPOOL_THREADS"
	EnvLogLevel       = "BLOBSPACE_LOG_LEVEL"
	EnvLogDevelopment = "BLOBSPACE_LOG_DEVELOPMENT"
	DefaultConfigFile = "blobspace.toml"
)

// Config represents the blobspace.toml configuration file.
type Config struct {
	Logging    Logging    `toml:"logging"`
	Threadpool Threadpool `toml:"threadpool"`

	// PrintBlobSizesAtExit logs the blob size report when a workspace is closed.
	PrintBlobSizesAtExit bool `toml:"print_blob_sizes_at_exit"`
}

// Threadpool controls worker pool sizing.
type Threadpool struct {
	// AndroidCap applies the mobile cap table on Android.
	AndroidCap bool `toml:"android_cap"`

	// IOSCap applies the mobile cap table on iOS.
	IOSCap bool `toml:"ios_cap"`

	// Threads fixes the pool size; 0 derives it from the core count.
	Threads int `toml:"threads"`
}

// Logging selects the zap logger built by Logging.Build.
type Logging struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Threadpool: Threadpool{AndroidCap: true},
		Logging:    Logging{Level: "info"},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	ApplyEnv(&cfg, os.Getenv)
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "read config file "+path)
	}

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse config file "+path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("unknown keys in %s: %s", path, strings.Join(keys, ", ")))
	}
	if cfg.Threadpool.Threads < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "threadpool.threads must not be negative")
	}
	return nil
}

// ApplyEnv overrides cfg from environment variables. Unparseable values are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v, ok := parseBool(getenv(EnvPrintBlobSizes)); ok {
		cfg.PrintBlobSizesAtExit = v
	}
	if v, ok := parseBool(getenv(EnvAndroidCap)); ok {
		cfg.Threadpool.AndroidCap = v
	}
	if v, ok := parseBool(getenv(EnvIOSCap)); ok {
		cfg.Threadpool.IOSCap = v
	}
	if raw := strings.TrimSpace(getenv(EnvThreads)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			cfg.Threadpool.Threads = n
		}
	}
	if lvl := strings.TrimSpace(getenv(EnvLogLevel)); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if v, ok := parseBool(getenv(EnvLogDevelopment)); ok {
		cfg.Logging.Development = v
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// Build creates the configured zap logger.
func (l Logging) Build() (*zap.Logger, error) {
	level := l.Level
	if level == "" {
		level = "info"
	}
	atom, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level "+level)
	}

	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = atom
	return zc.Build()
}
