// Package config resolves lrut configuration from defaults, JSONC config
// files, .env files, environment variables and command-line flags.
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

	"github.com/joho/godotenv"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/lrutable/internal/logger"
)

// Config holds the resolved configuration.
type Config struct {
	Capacity int
	Compact  bool
	LogLevel string
	Format   string

	// EffectiveCwd is the absolute working directory (from -C or os.Getwd).
	EffectiveCwd string

	// Sources tracks which files were loaded (for diagnostics).
	Sources Sources
}

// Sources tracks which configuration files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project or explicit config if loaded, empty otherwise
	DotEnv  string // Path to .env if loaded, empty otherwise
}

// Overrides is one configuration layer. Nil fields leave the value from
// lower layers untouched. Config files decode into it directly.
type Overrides struct {
	Capacity *int    `json:"capacity,omitempty"`
	Compact  *bool   `json:"compact,omitempty"`
	LogLevel *string `json:"log_level,omitempty"`
	Format   *string `json:"format,omitempty"`
}

// Default values.
const (
	DefaultCapacity = 32000
	DefaultLogLevel = "warn"
	DefaultFormat   = "text"
)

// FileName is the project config file name.
const FileName = ".lrut.json"

// DotEnvFileName is the optional dotenv file read from the working directory.
const DotEnvFileName = ".env"

// Environment variable names.
const (
	EnvCapacity = "LRUT_CAPACITY"
	EnvCompact  = "LRUT_COMPACT"
	EnvLogLevel = "LRUT_LOG_LEVEL"
	EnvFormat   = "LRUT_FORMAT"
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		Capacity: DefaultCapacity,
		LogLevel: DefaultLogLevel,
		Format:   DefaultFormat,
	}
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Env             map[string]string // process environment
	Flags           Overrides         // command-line flag values
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/lrut/config.json or $XDG_CONFIG_HOME/lrut/config.json)
// 3. Project config file (.lrut.json in the working directory, if it exists)
// 4. Explicit config file via ConfigPath (replaces 3; must exist)
// 5. Environment variables, where .env in the working directory fills in
// variables missing from the process environment
// 6. Flags.
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
	cfg.EffectiveCwd = workDir

	env, dotEnvPath, err := loadEnv(workDir, input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.DotEnv = dotEnvPath

	if globalPath := globalConfigPath(env); globalPath != "" {
		layer, loaded, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = globalPath
			cfg = merge(cfg, layer)
		}
	}

	projectLayer, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = merge(cfg, projectLayer)

	envLayer, err := envOverrides(env)
	if err != nil {
		return Config{}, err
	}

	cfg = merge(cfg, envLayer)
	cfg = merge(cfg, input.Flags)

	err = validate(cfg)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// globalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/lrut/config.json if set, otherwise ~/.config/lrut/config.json.
// Returns empty string if home directory cannot be determined.
func globalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "lrut", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "lrut", "config.json")
	}

	return ""
}

// loadEnv merges the .env file in workDir under env. Variables already in
// env win. Returns the merged map and the .env path if one was loaded.
func loadEnv(workDir string, env map[string]string) (map[string]string, string, error) {
	merged := make(map[string]string, len(env))
	for k, v := range env {
		merged[k] = v
	}

	path := filepath.Join(workDir, DotEnvFileName)

	fileEnv, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return merged, "", nil
		}

		return nil, "", fmt.Errorf("%w %s: %w", ErrDotEnvInvalid, path, err)
	}

	for k, v := range fileEnv {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}

	return merged, path, nil
}

// loadProjectConfig loads the project config file (.lrut.json) or an explicit config file.
// Returns the layer, the path if loaded, and any error.
func loadProjectConfig(workDir, configPath string) (Overrides, string, error) {
	if configPath == "" {
		path := filepath.Join(workDir, FileName)

		layer, loaded, err := loadFile(path, false)
		if err != nil || !loaded {
			return Overrides{}, "", err
		}

		return layer, path, nil
	}

	path := configPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	_, statErr := os.Stat(path)
	if statErr != nil {
		return Overrides{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	layer, _, err := loadFile(path, true)
	if err != nil {
		return Overrides{}, "", err
	}

	return layer, path, nil
}

// loadFile loads a config file. If mustExist is false, missing files return
// an empty layer. Returns the layer, whether the file was loaded, and any error.
func loadFile(path string, mustExist bool) (Overrides, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Overrides{}, false, nil
		}

		return Overrides{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	layer, err := Parse(data)
	if err != nil {
		return Overrides{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return layer, true, nil
}

// Parse decodes a JSONC (JSON with comments and trailing commas) config
// document. Unknown fields are rejected.
func Parse(data []byte) (Overrides, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Overrides{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	var layer Overrides

	err = dec.Decode(&layer)
	if err != nil {
		return Overrides{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return layer, nil
}

func envOverrides(env map[string]string) (Overrides, error) {
	var layer Overrides

	if raw, ok := env[EnvCapacity]; ok && raw != "" {
		capacity, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Overrides{}, fmt.Errorf("%w %s=%q: %w", ErrEnvInvalid, EnvCapacity, raw, err)
		}

		layer.Capacity = &capacity
	}

	if raw, ok := env[EnvCompact]; ok && raw != "" {
		compact, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Overrides{}, fmt.Errorf("%w %s=%q: %w", ErrEnvInvalid, EnvCompact, raw, err)
		}

		layer.Compact = &compact
	}

	if raw, ok := env[EnvLogLevel]; ok && raw != "" {
		layer.LogLevel = &raw
	}

	if raw, ok := env[EnvFormat]; ok && raw != "" {
		layer.Format = &raw
	}

	return layer, nil
}

func merge(base Config, overlay Overrides) Config {
	if overlay.Capacity != nil {
		base.Capacity = *overlay.Capacity
	}

	if overlay.Compact != nil {
		base.Compact = *overlay.Compact
	}

	if overlay.LogLevel != nil {
		base.LogLevel = *overlay.LogLevel
	}

	if overlay.Format != nil {
		base.Format = *overlay.Format
	}

	return base
}

func validate(cfg Config) error {
	if cfg.Capacity < 1 {
		return fmt.Errorf("%w, got %d", ErrCapacityInvalid, cfg.Capacity)
	}

	if cfg.Format != "text" && cfg.Format != "json" {
		return fmt.Errorf("%w, got %q", ErrFormatInvalid, cfg.Format)
	}

	_, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w %q", ErrLogLevelInvalid, cfg.LogLevel)
	}

	return nil
}

// Format renders cfg as key=value lines followed by its sources.
func Format(cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "effective_cwd=%s\n", cfg.EffectiveCwd)
	fmt.Fprintf(&b, "capacity=%d\n", cfg.Capacity)
	fmt.Fprintf(&b, "compact=%t\n", cfg.Compact)
	fmt.Fprintf(&b, "log_level=%s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "format=%s\n", cfg.Format)
	b.WriteString("\n# sources\n")

	if cfg.Sources == (Sources{}) {
		b.WriteString("(defaults only)\n")

		return b.String()
	}

	if cfg.Sources.Global != "" {
		fmt.Fprintf(&b, "global_config=%s\n", cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		fmt.Fprintf(&b, "project_config=%s\n", cfg.Sources.Project)
	}

	if cfg.Sources.DotEnv != "" {
		fmt.Fprintf(&b, "dotenv=%s\n", cfg.Sources.DotEnv)
	}

	return b.String()
}
