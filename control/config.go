// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Typed configuration with YAML/env loading and a thread-safe store with
// reload propagation.

package control

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"github.com/momentics/osthread/api"
)

// Config holds the tunables of the thread runtime.
type Config struct {
	// MaxThreads caps live threads started through the library; 0 is unlimited.
	MaxThreads int `yaml:"maxThreads" env:"OSTHREAD_MAX_THREADS"`

	// DefaultPriority is applied when Start is called without an explicit
	// priority. Empty means inherit, which skips suspended creation.
	DefaultPriority string `yaml:"defaultPriority" env:"OSTHREAD_DEFAULT_PRIORITY"`

	// LogLevel selects the level of loggers built from this config.
	LogLevel string `yaml:"logLevel" env:"OSTHREAD_LOG_LEVEL"`

	// MetricsNamespace prefixes Prometheus metric names.
	MetricsNamespace string `yaml:"metricsNamespace" env:"OSTHREAD_METRICS_NAMESPACE"`

	// HistorySize is how many lifecycle events are retained; 0 disables history.
	HistorySize int `yaml:"historySize" env:"OSTHREAD_HISTORY_SIZE"`
}

// DefaultConfig returns the configuration used when nothing is loaded.
func DefaultConfig() Config {
	return Config{
		MaxThreads:       0,
		DefaultPriority:  "",
		LogLevel:         "info",
		MetricsNamespace: "osthread",
		HistorySize:      64,
	}
}

// Validate checks field ranges and names.
func (c Config) Validate() error {
	if c.MaxThreads < 0 {
		return fmt.Errorf("%w: maxThreads must be >= 0, got %d", api.ErrInvalidArgument, c.MaxThreads)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("%w: historySize must be >= 0, got %d", api.ErrInvalidArgument, c.HistorySize)
	}
	if _, _, err := c.Priority(); err != nil {
		return err
	}
	return nil
}

// Priority parses DefaultPriority. ok is false when it is empty.
func (c Config) Priority() (p api.Priority, ok bool, err error) {
	if c.DefaultPriority == "" {
		return 0, false, nil
	}
	p, err = api.ParsePriority(c.DefaultPriority)
	if err != nil {
		return 0, false, err
	}
	return p, true, nil
}

// LoadConfigFile reads a YAML file over DefaultConfig and validates it.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides cfg with any OSTHREAD_* variables that are set.
func ApplyEnv(cfg Config) (Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config env: %w", err)
	}
	return cfg, cfg.Validate()
}

// ConfigFromEnv is DefaultConfig overridden by the environment.
func ConfigFromEnv() (Config, error) {
	return ApplyEnv(DefaultConfig())
}

// ConfigStore holds the current Config with snapshot reads and listeners
// notified on every update.
type ConfigStore struct {
	mu        sync.RWMutex
	config    Config
	listeners []func(Config)
}

// NewConfigStore initializes a store with cfg.
func NewConfigStore(cfg Config) *ConfigStore {
	return &ConfigStore{config: cfg}
}

// Snapshot returns a copy of the current config.
func (cs *ConfigStore) Snapshot() Config {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.config
}

// Update applies fn to a copy of the config, validates the result and, if
// valid, stores it and notifies listeners synchronously in registration order.
func (cs *ConfigStore) Update(fn func(*Config)) error {
	cs.mu.Lock()
	next := cs.config
	fn(&next)
	if err := next.Validate(); err != nil {
		cs.mu.Unlock()
		return err
	}
	cs.config = next
	listeners := slices.Clone(cs.listeners)
	cs.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return nil
}

// OnReload registers a listener called with the new config after updates.
func (cs *ConfigStore) OnReload(fn func(Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
