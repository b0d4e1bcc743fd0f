package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"icuc/internal/ast"
	"icuc/internal/diag"
	"icuc/internal/diagfmt"
	"icuc/internal/parser"
	"icuc/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <message>",
	Short: "Parse one ICU message and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("name", "message", "name used for the message in diagnostics")
}

func runParse(cmd *cobra.Command, args []string) error {
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	fs := source.NewFileSet()
	bag := diag.NewBag(maxDiagnostics)
	_, nodes, ok := parser.ParseString(fs, name, args[0], parser.Options{
		MaxErrors: 1,
		Reporter:  diag.BagReporter{Bag: bag},
	})
	if !ok {
		color, cerr := useColor(cmd, os.Stderr)
		if cerr != nil {
			return cerr
		}
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{Color: color, Context: 2, ShowNotes: true, ShowFixes: true})
		return fmt.Errorf("message %q does not parse", name)
	}
	return ast.Fprint(os.Stdout, nodes)
}
