// Package config loads ftag configuration from JSONC files and flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DBPath      string `json:"db_path"`
	LockTimeout string `json:"lock_timeout,omitempty"`
	NoColor     *bool  `json:"no_color,omitempty"`

	// Resolved values (computed, not serialized)
	EffectiveCwd string        `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	DBPathAbs    string        `json:"-"` // Absolute path to the store file
	LockWait     time.Duration `json:"-"` // Parsed LockTimeout; zero means the store default

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// ColorDisabled reports whether no_color was set to true by any source.
func (c Config) ColorDisabled() bool {
	return c.NoColor != nil && *c.NoColor
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DBPath: ".ftag.db",
	}
}

// FileName is the project config file name.
const FileName = ".ftag.json"

// globalPath returns $XDG_CONFIG_HOME/ftag/config.json if set, otherwise
// ~/.config/ftag/config.json, or "" when neither variable is set.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "ftag", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "ftag", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	DBPathOverride  string            // --db flag value; empty means no override
	Env             map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/ftag/config.json or $XDG_CONFIG_HOME/ftag/config.json)
// 3. Project config file (.ftag.json, if exists) or the explicit -c file
// 4. CLI overrides.
//
// DBPathAbs and EffectiveCwd are absolute in the returned Config.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
	}

	cfg := Default()

	globalCfg, loadedGlobal, err := loadGlobal(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = loadedGlobal
	cfg = merge(cfg, globalCfg)

	projectCfg, loadedProject, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = loadedProject
	cfg = merge(cfg, projectCfg)

	if input.DBPathOverride != "" {
		cfg.DBPath = input.DBPathOverride
	}

	cfg.LockWait, err = validate(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.DBPath) {
		cfg.DBPathAbs = cfg.DBPath
	} else {
		cfg.DBPathAbs = filepath.Join(workDir, cfg.DBPath)
	}

	return cfg, nil
}

func loadGlobal(env map[string]string) (Config, string, error) {
	path := globalPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, explicitEmpty, loaded, err := loadFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrDBPathEmpty)
	}

	return cfg, path, nil
}

// loadProject loads .ftag.json from workDir, or configPath when set. An
// explicit file must exist.
func loadProject(workDir, configPath string) (Config, string, error) {
	path := filepath.Join(workDir, FileName)
	mustExist := false

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		mustExist = true

		_, statErr := os.Stat(path)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	}

	cfg, explicitEmpty, loaded, err := loadFile(path, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrDBPathEmpty)
	}

	return cfg, path, nil
}

// loadFile reads and parses path. A missing optional file yields loaded=false.
// explicitEmpty reports a db_path that is present but "".
func loadFile(path string, mustExist bool) (cfg Config, explicitEmpty bool, loaded bool, err error) {
	data, err := os.ReadFile(path) //nolint:gosec // config paths come from the user
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, false, nil
		}

		return Config{}, false, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	cfg, explicitEmpty, err = parse(data)
	if err != nil {
		return Config{}, false, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, explicitEmpty, true, nil
}

func parse(data []byte) (Config, bool, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, false, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]json.RawMessage

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := false
	if val, ok := raw["db_path"]; ok && string(val) == `""` {
		explicitEmpty = true
	}

	return cfg, explicitEmpty, nil
}

func merge(base, overlay Config) Config {
	if overlay.DBPath != "" {
		base.DBPath = overlay.DBPath
	}

	if overlay.LockTimeout != "" {
		base.LockTimeout = overlay.LockTimeout
	}

	if overlay.NoColor != nil {
		base.NoColor = overlay.NoColor
	}

	return base
}

func validate(cfg Config) (time.Duration, error) {
	if cfg.DBPath == "" {
		return 0, ErrDBPathEmpty
	}

	if cfg.LockTimeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(cfg.LockTimeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrLockTimeoutInvalid, cfg.LockTimeout)
	}

	return d, nil
}
