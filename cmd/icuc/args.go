package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"icuc/internal/compiler"
	"icuc/internal/driver"
)

var argsCmd = &cobra.Command{
	Use:   "args [flags] [files|dirs|globs...]",
	Short: "Print the inferred argument types of every message",
	Long: `Args compiles the catalogs in memory and prints, per file and message,
the arguments each generated function expects together with their types.`,
	RunE: runArgs,
}

func init() {
	addCompileFlags(argsCmd)
	argsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// fileArguments is the output shape: file -> export -> arguments.
type fileArguments map[string]map[string][]compiler.Argument

func runArgs(cmd *cobra.Command, args []string) error {
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
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format %q (expected pretty|json)", format)
	}

	res, err := driver.CompileFiles(cmd.Context(), files, opts)
	if res == nil {
		return err
	}
	color, cerr := useColor(cmd, os.Stderr)
	if cerr != nil {
		return cerr
	}
	if perr := printDiagnostics(os.Stderr, res.Files, diagOptions{format: "pretty", color: color}); perr != nil {
		return perr
	}

	out := make(fileArguments, len(res.Files))
	for i := range res.Files {
		f := &res.Files[i]
		if f.Failed() {
			continue
		}
		out[displayPath(f)] = f.Arguments
	}

	colored, cerr := useColor(cmd, os.Stdout)
	if cerr != nil {
		return cerr
	}
	data, merr := marshalArguments(out, format == "pretty" && colored)
	if merr != nil {
		return merr
	}
	if _, werr := fmt.Fprintln(os.Stdout, string(data)); werr != nil {
		return werr
	}
	return err
}

func marshalArguments(v fileArguments, colored bool) ([]byte, error) {
	if colored {
		return prettyjson.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

func displayPath(f *driver.FileResult) string {
	if f.FileSet != nil {
		if file := f.FileSet.Get(0); file != nil {
			return file.FormatPath("relative", f.FileSet.BaseDir())
		}
	}
	return f.Path
}
