package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"icuc/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create an icuc.toml with default settings",
	Long: `Initialize a project by writing icuc.toml and, if missing, a sample
messages/en.json catalog. If [path] is omitted the current directory is used;
a non-existing path is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing icuc.toml")
}

const sampleCatalog = `{
  "greeting": "Hello, {name}!",
  "inbox": "You have {count, plural, =0 {no messages} one {one message} other {# messages}}."
}
`

// runInit refuses to replace an existing manifest unless --force is given.
func runInit(cmd *cobra.Command, args []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return err
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, config.FileName)
	if _, err := os.Stat(manifestPath); err == nil && !force {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	cfg := config.Default()
	cfg.Compile.Inputs = []string{"messages"}
	cfg.Compile.OutDir = "generated"

	var buf bytes.Buffer
	buf.WriteString("# icuc project manifest\n")
	if err := config.Write(&buf, cfg); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	catalogPath := filepath.Join(target, "messages", "en.json")
	createdCatalog := false
	if _, err := os.Stat(catalogPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(catalogPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(catalogPath, []byte(sampleCatalog), 0o600); err != nil {
			return fmt.Errorf("failed to write sample catalog: %w", err)
		}
		createdCatalog = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized icuc project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", config.FileName)
	if createdCatalog {
		fmt.Fprintf(out, "  - messages/en.json\n")
	} else {
		fmt.Fprintf(out, "  - messages/en.json (existing)\n")
	}
	return nil
}
