// Package config provides router configuration loading and persistence.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"pcb-router/internal/pushout"
	"pcb-router/internal/rules"
)

// ErrUnsupportedFormat is returned for file extensions with no codec.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is the router session configuration.
type Config struct {
	Version   int    `json:"version" toml:"version" yaml:"version"`
	Name      string `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Clearance int    `json:"clearance" toml:"clearance" yaml:"clearance"`

	Pushout pushout.Policy `json:"pushout" toml:"pushout" yaml:"pushout"`

	// DefaultClass applies to every net without an assignment.
	DefaultClass rules.NetClass   `json:"default_class" toml:"default_class" yaml:"default_class"`
	NetClasses   []rules.NetClass `json:"net_class,omitempty" toml:"net_class,omitempty" yaml:"net_class,omitempty"`
	// Nets maps a net number to a class name.
	Nets map[string]string `json:"nets,omitempty" toml:"nets,omitempty" yaml:"nets,omitempty"`

	Log LogSettings `json:"log" toml:"log" yaml:"log"`
}

// LogSettings controls the session trace.
type LogSettings struct {
	Enabled bool `json:"enabled" toml:"enabled" yaml:"enabled"`
	// Path is relative to the config file unless absolute.
	Path string `json:"path,omitempty" toml:"path,omitempty" yaml:"path,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Version:      1,
		Clearance:    0,
		Pushout:      pushout.DefaultPolicy(),
		DefaultClass: rules.DefaultNetClass(),
		Log: LogSettings{
			Enabled: true,
			Path:    "pns.log",
		},
	}
}

// WithClearance returns a copy with the base clearance changed.
func (c Config) WithClearance(clearance int) Config {
	c.Clearance = clearance
	return c
}

// WithPushout returns a copy with the pushout policy changed.
func (c Config) WithPushout(p pushout.Policy) Config {
	c.Pushout = p
	return c
}

// WithNetClass returns a copy with class added or replaced.
func (c Config) WithNetClass(class rules.NetClass) Config {
	classes := lo.Reject(c.NetClasses, func(nc rules.NetClass, _ int) bool { return nc.Name == class.Name })
	c.NetClasses = append(classes, class)
	return c
}

// WithNet returns a copy with net assigned to the named class.
func (c Config) WithNet(net int, class string) Config {
	nets := lo.Assign(c.Nets, map[string]string{strconv.Itoa(net): class})
	c.Nets = nets
	return c
}

// WithLogPath returns a copy logging to path.
func (c Config) WithLogPath(path string) Config {
	c.Log.Path = path
	c.Log.Enabled = path != ""
	return c
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Clearance < 0 {
		errs = append(errs, fmt.Errorf("clearance %d is negative", c.Clearance))
	}
	if c.Pushout.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("pushout max_iterations %d is negative", c.Pushout.MaxIterations))
	}
	if c.Pushout.MinStep <= 0 {
		errs = append(errs, fmt.Errorf("pushout min_step %d must be positive", c.Pushout.MinStep))
	}
	seen := make(map[string]bool)
	for _, nc := range c.NetClasses {
		if nc.Name == "" {
			errs = append(errs, errors.New("net class without a name"))
			continue
		}
		if seen[nc.Name] {
			errs = append(errs, fmt.Errorf("duplicate net class %q", nc.Name))
		}
		seen[nc.Name] = true
	}
	return errors.Join(errs...)
}

// BuildRules creates the clearance rules described by the config.
func (c Config) BuildRules() (*rules.Rules, error) {
	r := rules.New(c.DefaultClass)
	for _, nc := range c.NetClasses {
		r.AddClass(nc)
	}
	keys := lo.Keys(c.Nets)
	slices.Sort(keys)
	for _, key := range keys {
		net, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("net %q: %w", key, err)
		}
		if err := r.AssignNet(net, c.Nets[key]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LogPath returns the absolute trace path for a config stored at configPath.
func (c Config) LogPath(configPath string) string {
	if c.Log.Path == "" || filepath.IsAbs(c.Log.Path) || configPath == "" {
		return c.Log.Path
	}
	return filepath.Join(filepath.Dir(configPath), c.Log.Path)
}

// Load reads a config file, choosing the codec by extension. Settings absent
// from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config, choosing the codec by extension.
func (c Config) Save(path string) error {
	var data []byte
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(c)
		data = buf.Bytes()
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
