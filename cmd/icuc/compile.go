package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"icuc/internal/buildpipeline"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] [files|dirs|globs...]",
	Short: "Compile message catalogs into JavaScript/TypeScript modules",
	Long: `Compile reads JSON message catalogs (message name -> ICU text) and writes one
module per catalog. Without arguments the [compile] inputs of icuc.toml are used.`,
	RunE: runCompile,
}

func init() {
	addCompileFlags(compileCmd)
	compileCmd.Flags().Bool("no-cache", false, "disable the on-disk compile cache")
	compileCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	compileCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	compileCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if err = s.applyCompileFlags(cmd); err != nil {
		return err
	}
	files, err := s.inputs(args)
	if err != nil {
		return err
	}
	opts, err := s.driverOptions(cmd)
	if err != nil {
		return err
	}
	opts.Write = true

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if !noCache {
		opts.Cache = s.openCache()
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	formatValue, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readDiagFormat(formatValue)
	if err != nil {
		return err
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}

	req := &buildpipeline.CompileRequest{
		Files:   files,
		BaseDir: s.cfg.Root,
		Driver:  opts,
	}
	var res buildpipeline.CompileResult
	if !quiet && shouldUseTUI(mode) {
		display := buildpipeline.ProgressFiles(files, s.cfg.Root)
		res, err = runCompileWithUI(cmd.Context(), "compile", display, req)
	} else {
		req.Progress = buildpipeline.FuncSink(func(evt buildpipeline.Event) {
			if evt.Status == buildpipeline.StatusQueued || evt.File == "" {
				return
			}
			s.log.Trace().Str("file", evt.File).Str("stage", string(evt.Stage)).
				Str("status", string(evt.Status)).Dur("elapsed", evt.Elapsed).Msg("progress")
		})
		res, err = buildpipeline.Compile(cmd.Context(), req)
	}
	if res.Driver == nil {
		return err
	}

	if perr := printDiagnostics(os.Stderr, res.Driver.Files, diagOptions{
		format:    format,
		color:     color,
		withNotes: withNotes,
	}); perr != nil {
		return perr
	}

	failed := res.Driver.Failed()
	written := 0
	hits := 0
	for i := range res.Driver.Files {
		f := &res.Driver.Files[i]
		if f.Failed() || f.Output == "" {
			continue
		}
		written++
		if f.CacheHit {
			hits++
		}
		if !quiet && format == "pretty" {
			fmt.Fprintf(os.Stdout, "%s -> %s\n", f.Path, f.Output)
		}
	}
	s.log.Info().Int("files", len(files)).Int("written", written).Int("cached", hits).Int("failed", len(failed)).Msg("compile finished")
	if showTimings {
		printStageTimings(os.Stdout, res.Timings)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed to compile", len(failed), len(files))
	}
	return err
}
