package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"icuc/internal/config"
	"icuc/internal/driver"
)

// session is the per-invocation state shared by the compile-like commands.
type session struct {
	cfg *config.Config
	log zerolog.Logger
}

// newSession loads the project config (--config or the nearest icuc.toml),
// applies ICUC_* overrides and builds the logger.
func newSession(cmd *cobra.Command) (*session, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg *config.Config
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
		if err = cfg.ApplyEnv(); err != nil {
			return nil, err
		}
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if cfg, err = config.Discover(wd); err != nil {
			return nil, err
		}
	}

	level, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if level == "" {
		level = cfg.Log.Level
	}
	log, err := newLogger(os.Stderr, level)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		log.Debug().Str("path", cfg.Path).Msg("config loaded")
	}
	return &session{cfg: cfg, log: log}, nil
}

// newLogger writes human-readable lines to a terminal and JSON otherwise.
func newLogger(out *os.File, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	var w io.Writer = out
	if isTerminal(out) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// applyCompileFlags copies explicitly set flags over the [compile] section.
func (s *session) applyCompileFlags(cmd *cobra.Command) error {
	c := &s.cfg.Compile
	flags := cmd.Flags()
	var err error
	if flags.Changed("locale") {
		if c.Locale, err = flags.GetString("locale"); err != nil {
			return err
		}
	}
	if flags.Changed("target") {
		if c.Target, err = flags.GetString("target"); err != nil {
			return err
		}
	}
	if flags.Changed("ts") {
		if c.TypeScript, err = flags.GetBool("ts"); err != nil {
			return err
		}
	}
	if flags.Changed("jsx") {
		if c.JSX, err = flags.GetString("jsx"); err != nil {
			return err
		}
	}
	if flags.Changed("declarations") {
		if c.Declarations, err = flags.GetBool("declarations"); err != nil {
			return err
		}
	}
	if flags.Changed("out-dir") {
		if c.OutDir, err = flags.GetString("out-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("jobs") {
		if c.Jobs, err = flags.GetInt("jobs"); err != nil {
			return err
		}
	}
	return s.cfg.Validate()
}

// addCompileFlags registers the flags applyCompileFlags understands.
func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().String("locale", "", "locale passed to Intl constructors")
	cmd.Flags().String("target", "", "output kind (tree|string)")
	cmd.Flags().Bool("ts", false, "emit TypeScript")
	cmd.Flags().String("jsx", "", "fragment output (preserve|classic)")
	cmd.Flags().Bool("declarations", false, "emit .d.ts next to JavaScript output")
	cmd.Flags().String("out-dir", "", "directory for generated modules (default: next to inputs)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

// inputs expands positional arguments, or [compile] inputs when none are given.
func (s *session) inputs(args []string) ([]string, error) {
	if len(args) > 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return driver.ExpandInputs(args, wd)
	}
	if len(s.cfg.Compile.Inputs) == 0 {
		return nil, fmt.Errorf("no inputs: pass message files or set [compile] inputs in %s", config.FileName)
	}
	return driver.ExpandInputs(s.cfg.Compile.Inputs, s.cfg.Root)
}

// driverOptions converts the session config into driver options.
func (s *session) driverOptions(cmd *cobra.Command) (driver.Options, error) {
	copts, err := s.cfg.CompilerOptions()
	if err != nil {
		return driver.Options{}, err
	}
	gopts, err := s.cfg.CodegenOptions()
	if err != nil {
		return driver.Options{}, err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	outDir := s.cfg.Compile.OutDir
	if outDir != "" {
		outDir = s.cfg.ResolvePath(outDir)
	}
	return driver.Options{
		Compiler:       copts,
		Codegen:        gopts,
		Declarations:   s.cfg.Compile.Declarations,
		OutDir:         outDir,
		BaseDir:        s.cfg.Root,
		Jobs:           s.cfg.Compile.Jobs,
		MaxDiagnostics: maxDiagnostics,
		Logger:         s.log,
	}, nil
}

// openCache opens the configured cache directory or the user cache. A cache
// that cannot be opened only costs speed, so it is logged and skipped.
func (s *session) openCache() *driver.DiskCache {
	var (
		cache *driver.DiskCache
		err   error
	)
	if dir := s.cfg.Compile.CacheDir; dir != "" {
		cache, err = driver.OpenDiskCacheAt(filepath.Clean(s.cfg.ResolvePath(dir)))
	} else {
		cache, err = driver.OpenDiskCache("icuc")
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("disk cache disabled")
		return nil
	}
	s.log.Debug().Str("dir", cache.Dir()).Msg("disk cache")
	return cache
}
