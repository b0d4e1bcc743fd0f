package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"icuc/internal/diag"
	"icuc/internal/driver"
	"icuc/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [files|dirs|globs...]",
	Short: "Report problems in message catalogs without writing output",
	Long: `Check compiles every message of every catalog and reports all diagnostics.
Unlike compile it keeps going after the first broken message of a file.`,
	RunE: runCheck,
}

func init() {
	addCompileFlags(checkCmd)
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
}

// runCheck exits with a non-zero status when any catalog has errors.
func runCheck(cmd *cobra.Command, args []string) error {
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
	opts.KeepGoing = true
	if opts.Timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
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
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	minSeverityValue, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	minSeverity, err := diag.ParseSeverity(minSeverityValue)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	res, err := driver.CompileFiles(cmd.Context(), files, opts)
	if res == nil {
		return err
	}
	if perr := printDiagnostics(os.Stdout, res.Files, diagOptions{
		format:      format,
		color:       color,
		withNotes:   withNotes,
		suggest:     suggest,
		fullPath:    fullPath,
		minSeverity: minSeverity,
	}); perr != nil {
		return perr
	}

	errs, _ := countDiagnostics(res.Files)
	if opts.Timings && !quiet && format == "pretty" {
		reports := make([]observ.Report, 0, len(res.Files))
		for i := range res.Files {
			reports = append(reports, res.Files[i].Timing)
		}
		if werr := observ.Aggregate(reports...).WriteSummary(os.Stdout); werr != nil {
			return werr
		}
	}
	if !quiet && format == "pretty" {
		if errs == 0 {
			fmt.Fprintf(os.Stdout, "checked %d files, no problems\n", len(files))
		} else {
			fmt.Fprintf(os.Stdout, "\nchecked %d files, %d errors\n", len(files), errs)
		}
	}
	if errs > 0 || err != nil {
		// диагностики уже напечатаны; os.Exit пропускает defer
		cleanup()
		os.Exit(1)
	}
	return nil
}
