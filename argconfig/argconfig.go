// Package argconfig loads the ambient configuration the Executor and its
// collaborators need to run outside of a test harness — log sink,
// checkpoint backend, observer sinks — with the same layered precedence
// the teacher's config loader uses: defaults, then a YAML file, then
// environment variables.
package argconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "ARGMIN_"
	configEnvVar = "ARGMIN_CONFIG_PATH"
)

// LogConfig mirrors arglog.Config, duplicated here so argconfig has no
// import-time dependency on arglog; callers convert explicitly.
type LogConfig struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// CheckpointConfig selects and configures a checkpoint backend.
type CheckpointConfig struct {
	Backend     string // none, redis, postgres
	Mode        string // never, always, every
	EveryN      uint64
	RedisAddr   string
	RedisDB     int
	PostgresDSN string
	AutoMigrate bool
}

// ExecutorConfig is the top-level shape a run loads from file/env.
type ExecutorConfig struct {
	MaxIters     uint64
	TargetCost   float64
	Timeout      time.Duration
	Parallel     bool
	Log          LogConfig
	Checkpoint   CheckpointConfig
	ObserverMode string // always, new_best, every
	ObserverN    uint64
}

// Loader loads an ExecutorConfig through koanf's layered providers.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

type LoaderOption func(*Loader)

func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) { l.configPaths = paths }
}

func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) { l.envPrefix = prefix }
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"argmin.yaml",
			"config/argmin.yaml",
		},
		envPrefix: envPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load applies defaults, then an optional YAML file, then environment
// overrides, in that precedence order.
func (l *Loader) Load() (*ExecutorConfig, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("load argconfig defaults: %w", err)
	}
	if err := l.loadConfigFile(); err != nil {
		fmt.Fprintf(os.Stderr, "argconfig: %v\n", err)
	}
	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("load argconfig env overrides: %w", err)
	}

	var cfg ExecutorConfig
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal argconfig: %w", err)
	}
	return &cfg, nil
}

func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		"maxiters":               uint64(0), // 0 means unbounded, resolved by the caller
		"targetcost":             0.0,
		"timeout":                time.Duration(0),
		"parallel":               false,
		"log.level":              "info",
		"log.format":             "json",
		"log.output":             "stdout",
		"log.maxsize":            100,
		"log.maxbackups":         3,
		"log.maxage":             7,
		"log.compress":           true,
		"checkpoint.backend":     "none",
		"checkpoint.mode":        "never",
		"checkpoint.everyn":      uint64(1),
		"checkpoint.redisaddr":   "localhost:6379",
		"checkpoint.redisdb":     0,
		"checkpoint.automigrate": true,
		"observermode":           "always",
		"observern":              uint64(1),
	}
	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

func (l *Loader) loadConfigFile() error {
	if path := os.Getenv(configEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return l.k.Load(file.Provider(path), yaml.Parser())
		}
	}
	for _, path := range l.configPaths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err == nil {
			return l.k.Load(file.Provider(abs), yaml.Parser())
		}
	}
	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(l.envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, l.envPrefix)), "_", ".")
	}), nil)
}

// Load is a convenience entry point using default paths and prefix.
func Load() (*ExecutorConfig, error) {
	return NewLoader().Load()
}

// MustLoad loads or panics, for program entry points that can't recover
// from a broken configuration.
func MustLoad(opts ...LoaderOption) *ExecutorConfig {
	cfg, err := NewLoader(opts...).Load()
	if err != nil {
		panic(fmt.Sprintf("argconfig: %v", err))
	}
	return cfg
}
