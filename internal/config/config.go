// Package config loads icuc.toml project settings and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"

	"icuc/internal/codegen"
	"icuc/internal/compiler"
	"icuc/internal/diag"
	"icuc/internal/skeleton"
)

// FileName is the project manifest looked up from the working directory.
const FileName = "icuc.toml"

// Config is the merged project configuration.
type Config struct {
	// Path is the manifest the config was read from, "" for defaults.
	Path string `toml:"-"`
	// Root is the directory relative paths are resolved against.
	Root string `toml:"-"`

	Compile CompileConfig `toml:"compile"`
	Formats FormatsConfig `toml:"formats"`
	Log     LogConfig     `toml:"log"`
}

// CompileConfig is the [compile] section.
type CompileConfig struct {
	Locale       string   `toml:"locale" env:"ICUC_LOCALE"`
	Target       string   `toml:"target" env:"ICUC_TARGET"`
	TypeScript   bool     `toml:"typescript" env:"ICUC_TYPESCRIPT"`
	JSX          string   `toml:"jsx" env:"ICUC_JSX"`
	Declarations bool     `toml:"declarations" env:"ICUC_DECLARATIONS"`
	OutDir       string   `toml:"out_dir" env:"ICUC_OUT_DIR"`
	Inputs       []string `toml:"inputs" env:"ICUC_INPUTS" envSeparator:","`
	Jobs         int      `toml:"jobs" env:"ICUC_JOBS"`
	CacheDir     string   `toml:"cache_dir" env:"ICUC_CACHE_DIR"`
}

// FormatsConfig is the [formats.<kind>.<style>] tree of option tables.
type FormatsConfig struct {
	Number map[string]map[string]any `toml:"number,omitempty"`
	Date   map[string]map[string]any `toml:"date,omitempty"`
	Time   map[string]map[string]any `toml:"time,omitempty"`
}

// LogConfig is the [log] section.
type LogConfig struct {
	Level string `toml:"level" env:"ICUC_LOG_LEVEL"`
}

// Error is a configuration problem with its diagnostic code.
type Error struct {
	Code diag.Code
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Code.ID(), e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Code.ID(), e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Compile: CompileConfig{
			Locale: "en",
			Target: compiler.TargetTree.String(),
			JSX:    codegen.JSXPreserve.String(),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Find walks up from startDir looking for icuc.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, &Error{Code: diag.CfgInvalidFile, Path: path, Err: fmt.Errorf("failed to parse TOML: %w", err)}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, &Error{Code: diag.CfgUnknownKey, Path: path, Err: fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))}
	}
	// пустая локаль в файле означает значение по умолчанию
	if meta.IsDefined("compile", "locale") && strings.TrimSpace(cfg.Compile.Locale) == "" {
		cfg.Compile.Locale = Default().Compile.Locale
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover loads the nearest icuc.toml (or the defaults) and applies
// ICUC_* environment overrides.
func Discover(startDir string) (*Config, error) {
	cfg := Default()
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if ok {
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	} else if cfg.Root, err = filepath.Abs(startDir); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from ICUC_* variables that are set.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(&c.Compile); err != nil {
		return &Error{Code: diag.CfgInvalidFile, Err: fmt.Errorf("environment: %w", err)}
	}
	if err := env.Parse(&c.Log); err != nil {
		return &Error{Code: diag.CfgInvalidFile, Err: fmt.Errorf("environment: %w", err)}
	}
	return c.Validate()
}

// Validate checks locale, target, JSX mode and format tables.
func (c *Config) Validate() error {
	if _, err := language.Parse(c.Compile.Locale); err != nil {
		return &Error{Code: diag.CfgInvalidLocale, Path: c.Path, Err: fmt.Errorf("locale %q: %w", c.Compile.Locale, err)}
	}
	if _, err := compiler.ParseTarget(c.Compile.Target); err != nil {
		return &Error{Code: diag.CfgInvalidTarget, Path: c.Path, Err: err}
	}
	if _, err := codegen.ParseJSXMode(c.Compile.JSX); err != nil {
		return &Error{Code: diag.CfgInvalidTarget, Path: c.Path, Err: err}
	}
	if c.Compile.Jobs < 0 {
		return &Error{Code: diag.CfgInvalidFile, Path: c.Path, Err: fmt.Errorf("jobs must not be negative, got %d", c.Compile.Jobs)}
	}
	if _, err := c.formats(); err != nil {
		return &Error{Code: diag.CfgInvalidFile, Path: c.Path, Err: err}
	}
	return nil
}

func (c *Config) formats() (compiler.Formats, error) {
	var out compiler.Formats
	var err error
	if out.Number, err = convertStyles("number", c.Formats.Number); err != nil {
		return out, err
	}
	if out.Date, err = convertStyles("date", c.Formats.Date); err != nil {
		return out, err
	}
	if out.Time, err = convertStyles("time", c.Formats.Time); err != nil {
		return out, err
	}
	return out, nil
}

func convertStyles(kind string, styles map[string]map[string]any) (map[string]skeleton.Options, error) {
	if len(styles) == 0 {
		return nil, nil
	}
	out := make(map[string]skeleton.Options, len(styles))
	for name, table := range styles {
		opts, err := skeleton.FromMap(table)
		if err != nil {
			return nil, fmt.Errorf("[formats.%s.%s]: %w", kind, name, err)
		}
		out[name] = opts
	}
	return out, nil
}

// CompilerOptions converts the config into compiler options.
func (c *Config) CompilerOptions() (compiler.Options, error) {
	target, err := compiler.ParseTarget(c.Compile.Target)
	if err != nil {
		return compiler.Options{}, err
	}
	formats, err := c.formats()
	if err != nil {
		return compiler.Options{}, err
	}
	return compiler.Options{Locale: c.Compile.Locale, Formats: formats, Target: target}, nil
}

// CodegenOptions converts the config into printer options.
func (c *Config) CodegenOptions() (codegen.Options, error) {
	mode, err := codegen.ParseJSXMode(c.Compile.JSX)
	if err != nil {
		return codegen.Options{}, err
	}
	return codegen.Options{TypeScript: c.Compile.TypeScript, JSX: mode}, nil
}

// ResolvePath makes p absolute against the config root.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, filepath.FromSlash(p))
}

// Write encodes c as TOML.
func Write(w io.Writer, c *Config) error {
	return toml.NewEncoder(w).Encode(c)
}
