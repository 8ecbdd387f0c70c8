// Package config loads configs/config.yaml (with include lists) into Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"assetscope/internal/logger"
)

// EnvPath names the environment variable holding the config path.
const (
	EnvPath     = "ASSETSCOPE_CONFIG"
	DefaultPath = "configs/config.yaml"
)

// PathFromEnv returns $ASSETSCOPE_CONFIG or the default path.
func PathFromEnv() string {
	if p := strings.TrimSpace(os.Getenv(EnvPath)); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	files, err := includeOrder(path)
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigType("yaml")
	for _, file := range files {
		if err := mergeConfigFile(v, file); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", file, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	setKeys := make(keySet)
	markKeys("", v.AllSettings(), setKeys)
	cfg.applyDefaults(setKeys)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist. Any other error is returned.
func LoadOrDefault(path string) (*Config, bool, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Dump renders the effective configuration as YAML, with API keys masked.
func (c *Config) Dump() (string, error) {
	cp := *c
	for _, src := range []*SourceConfig{&cp.Sources.CoinGecko, &cp.Sources.CryptoCompare, &cp.Sources.Eurostat, &cp.Sources.WorldBank} {
		if src.APIKey != "" {
			src.APIKey = "***"
		}
	}
	out, err := yaml.Marshal(&cp)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (b BreakerConfig) Cooldown() time.Duration {
	return time.Duration(b.CooldownSeconds) * time.Second
}

func (c CatalogConfig) ProbeDelay() time.Duration {
	return time.Duration(c.ProbeDelayMS) * time.Millisecond
}

// Watcher reloads the config file on change and hands every valid reload to
// its listeners. Invalid edits are logged and ignored.
type Watcher struct {
	path string
	v    *viper.Viper

	mu        sync.Mutex
	listeners []func(*Config)
}

func Watch(path string) (*Watcher, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config watcher requires path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}
	w := &Watcher{path: path, v: v}
	v.OnConfigChange(func(evt fsnotify.Event) {
		cfg, err := Load(w.path)
		if err != nil {
			logger.Errorf("config reload failed (%s): %v", evt.Name, err)
			return
		}
		w.notify(cfg)
	})
	v.WatchConfig()
	return w, nil
}

func (w *Watcher) Subscribe(fn func(*Config)) {
	if fn == nil {
		return
	}
	w.mu.Lock()
	w.listeners = append(w.listeners, fn)
	w.mu.Unlock()
}

func (w *Watcher) notify(cfg *Config) {
	w.mu.Lock()
	listeners := append([]func(*Config){}, w.listeners...)
	w.mu.Unlock()
	for _, fn := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("config listener panic: %v", r)
				}
			}()
			fn(cfg)
		}()
	}
}

// LogLevelListener applies app.log_level on every reload.
func LogLevelListener(cfg *Config) {
	if logger.ParseLevel(cfg.App.LogLevel) != logger.Level() {
		logger.Infof("log level -> %s", cfg.App.LogLevel)
	}
	logger.SetLevel(cfg.App.LogLevel)
}

func mergeConfigFile(v *viper.Viper, path string) error {
	part := viper.New()
	part.SetConfigFile(path)
	if err := part.ReadInConfig(); err != nil {
		return err
	}
	return v.MergeConfigMap(part.AllSettings())
}

// includeOrder returns path and everything it includes, depth first, so that
// included files are merged before the file that names them. A file reached
// twice is merged once; a file that includes itself transitively is an error.
func includeOrder(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("config path is empty")
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	var (
		order  []string
		done   = map[string]bool{}
		active = map[string]bool{}
	)
	var walk func(file string) error
	walk = func(file string) error {
		file = filepath.Clean(file)
		switch {
		case active[file]:
			return fmt.Errorf("include cycle at %s", file)
		case done[file]:
			return nil
		}
		active[file] = true
		incs, err := readIncludes(file)
		if err != nil {
			return fmt.Errorf("read includes of %s: %w", file, err)
		}
		for _, inc := range incs {
			if !filepath.IsAbs(inc) {
				inc = filepath.Join(filepath.Dir(file), inc)
			}
			if err := walk(inc); err != nil {
				return err
			}
		}
		active[file] = false
		done[file] = true
		order = append(order, file)
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return order, nil
}

// readIncludes decodes only the top-level include list of a YAML file.
func readIncludes(file string) ([]string, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var head struct {
		Include []string `yaml:"include"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("include must be a list of paths: %w", err)
	}
	out := head.Include[:0]
	for _, inc := range head.Include {
		if inc = strings.TrimSpace(inc); inc != "" {
			out = append(out, inc)
		}
	}
	return out, nil
}

// markKeys records every leaf key present in settings as a dotted path, so
// defaults can tell an explicit zero from an absent key.
func markKeys(prefix string, node any, dest keySet) {
	switch val := node.(type) {
	case map[string]any:
		for k, child := range val {
			key := strings.ToLower(strings.TrimSpace(k))
			if key == "" {
				continue
			}
			if prefix != "" {
				key = prefix + "." + key
			}
			markKeys(key, child, dest)
		}
	default:
		if prefix != "" {
			dest.mark(prefix)
		}
	}
}
