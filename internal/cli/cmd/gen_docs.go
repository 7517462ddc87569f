package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/bnema/focuscore/internal/infrastructure/config"
)

const dirPerm = 0o755

var (
	genDocsOutputDir string
	genDocsFormat    string
)

var genDocsCmd = &cobra.Command{
	Use:    "gen-docs",
	Short:  "Generate man pages or markdown from the command tree",
	Hidden: true,
	Long: `Generate documentation from the focusctl command definitions.

Supported formats:
  man       Unix manual pages (groff format)
  markdown  Markdown files

Man pages go to ~/.local/share/man/man1/ unless --output is set.

Examples:
  focusctl gen-docs
  focusctl gen-docs --format markdown --output ./docs`,
	Args: cobra.NoArgs,
	RunE: runGenDocs,
}

func init() {
	rootCmd.AddCommand(genDocsCmd)
	genDocsCmd.Flags().StringVarP(&genDocsOutputDir, "output", "o", "", "output directory")
	genDocsCmd.Flags().StringVarP(&genDocsFormat, "format", "f", "man", "output format: man, markdown")
}

func runGenDocs(cmd *cobra.Command, _ []string) error {
	var (
		ext      string
		generate func(dir string) error
	)
	switch genDocsFormat {
	case "man":
		ext = ".1"
		generate = func(dir string) error {
			now := time.Now()
			return doc.GenManTree(rootCmd, &doc.GenManHeader{
				Title:   "FOCUSCTL",
				Section: "1",
				Source:  "focusctl " + buildInfo.Version,
				Manual:  "focuscore Manual",
				Date:    &now,
			}, dir)
		}
	case "markdown":
		ext = ".md"
		generate = func(dir string) error { return doc.GenMarkdownTree(rootCmd, dir) }
	default:
		return fmt.Errorf("unsupported format %q (use: man, markdown)", genDocsFormat)
	}

	outputDir := genDocsOutputDir
	if outputDir == "" {
		outputDir = "./docs"
		if genDocsFormat == "man" {
			manDir, err := config.GetManDir()
			if err != nil {
				return fmt.Errorf("resolve man directory: %w", err)
			}
			outputDir = manDir
		}
	}
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Reproducible output
	rootCmd.DisableAutoGenTag = true
	if err := generate(outputDir); err != nil {
		return fmt.Errorf("generate %s docs: %w", genDocsFormat, err)
	}
	return listGenerated(cmd.OutOrStdout(), outputDir, ext)
}

func listGenerated(w io.Writer, dir, ext string) error {
	fmt.Fprintf(w, "Generated docs in %s\n", dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil // Non-fatal
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ext {
			fmt.Fprintf(w, "  - %s\n", e.Name())
		}
	}
	return nil
}
