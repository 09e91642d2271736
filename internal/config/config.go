// Package config loads godelta's CLI-level configuration: default diff
// options and in-place policy, merged from defaults, an optional
// tolerant-JSON config file, and CLI flag overrides (mirroring the
// teacher lineage's own config.go).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"godelta/internal/engine"
)

// ErrConfigFileNotFound is returned when an explicitly named config
// file (via -c/--config) does not exist.
var ErrConfigFileNotFound = errors.New("config: file not found")

// ErrConfigInvalid wraps a JSON/JSONC parse error, naming the file.
var ErrConfigInvalid = errors.New("config: invalid config file")

// FileName is the default project config file name.
const FileName = ".godelta.json"

// Config is the resolved, effective configuration for a CLI run.
type Config struct {
	Algorithm string `json:"algorithm,omitempty"`
	SeedLen   int    `json:"seed_len,omitempty"`
	TableSize uint64 `json:"table_size,omitempty"`
	UseSplay  bool   `json:"use_splay,omitempty"`
	BufCap    int    `json:"buf_cap,omitempty"`
	Policy    string `json:"policy,omitempty"`

	// EffectiveCwd and Sources are resolved/diagnostic, never
	// serialized to or from a config file.
	EffectiveCwd string  `json:"-"`
	Sources      Sources `json:"-"`
}

// Sources tracks which config file (if any) contributed the effective
// configuration, for the `godelta print-config` subcommand's diagnostics.
type Sources struct {
	Project string
}

// Default returns godelta's built-in defaults (spec §6.3).
func Default() Config {
	return Config{
		Algorithm: string(engine.Greedy),
		SeedLen:   engine.DefaultSeedLen,
		TableSize: engine.DefaultTableSize,
		BufCap:    engine.DefaultBufCap,
		Policy:    "local-min",
	}
}

// LoadInput holds the inputs to Load.
type LoadInput struct {
	WorkDirOverride string // -C/--cwd; empty uses os.Getwd()
	ConfigPath      string // -c/--config; empty looks for the default project file
}

// Load resolves configuration with precedence (highest wins): built-in
// defaults, then the project config file (explicit path if given,
// otherwise FileName in the working directory, if present).
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("config: cannot get working directory: %w", err)
		}
	}

	cfg := Default()
	cfg.EffectiveCwd = workDir

	fileCfg, path, err := loadProjectFile(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = path
	cfg = merge(cfg, fileCfg)

	return cfg, nil
}

// ToOptions converts the resolved config into engine.Options.
func (c Config) ToOptions() engine.Options {
	return engine.Options{
		SeedLen:   c.SeedLen,
		TableSize: c.TableSize,
		UseSplay:  c.UseSplay,
		BufCap:    c.BufCap,
	}
}

func loadProjectFile(workDir, explicitPath string) (Config, string, error) {
	path := explicitPath
	mustExist := explicitPath != ""

	if path == "" {
		path = filepath.Join(workDir, FileName)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, "", nil
		}

		if mustExist {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, explicitPath)
		}

		return Config{}, "", nil
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	var fileCfg Config

	if err := json.Unmarshal(standardized, &fileCfg); err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return fileCfg, path, nil
}

func merge(base, overlay Config) Config {
	if overlay.Algorithm != "" {
		base.Algorithm = overlay.Algorithm
	}

	if overlay.SeedLen != 0 {
		base.SeedLen = overlay.SeedLen
	}

	if overlay.TableSize != 0 {
		base.TableSize = overlay.TableSize
	}

	if overlay.BufCap != 0 {
		base.BufCap = overlay.BufCap
	}

	if overlay.Policy != "" {
		base.Policy = overlay.Policy
	}

	base.UseSplay = base.UseSplay || overlay.UseSplay

	return base
}
