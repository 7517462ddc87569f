package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/focuscore/internal/application/port"
	"github.com/bnema/focuscore/internal/cli/styles"
	"github.com/bnema/focuscore/internal/infrastructure/config"
)

var (
	configYes      bool
	configOutput   string
	configKeysJSON bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and write configuration",
	Long:  `Show the effective configuration, write a default config file or export its JSON schema.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging the config file, FOCUSCORE_
environment variables and defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with all defaults",
	Long: `Write config.toml with every setting at its default value, together with
config.schema.json for editor completion.

An existing file is only replaced after confirmation (or with --yes).`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigSchema,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every config key with its type, default and description",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSchemaCmd)
	configCmd.AddCommand(configKeysCmd)
	configKeysCmd.Flags().BoolVar(&configKeysJSON, "json", false, "print the keys as JSON")
	configInitCmd.Flags().BoolVarP(&configYes, "yes", "y", false, "overwrite without confirmation")
	configInitCmd.Flags().StringVarP(&configOutput, "output", "o", "", "file to write (default: the XDG config file)")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewConfigRenderer(app.Theme)

	body, err := config.MarshalOrdered(app.Config)
	if err != nil {
		fmt.Fprint(cmd.OutOrStdout(), renderer.RenderError(err))
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderer.RenderConfig(app.ConfigManager.GetConfigFile(), body))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewConfigRenderer(app.Theme)
	out := cmd.OutOrStdout()

	path := configOutput
	if path == "" {
		var err error
		if path, err = config.GetConfigFile(); err != nil {
			fmt.Fprint(out, renderer.RenderError(err))
			return err
		}
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil && !configYes:
		ok, err := styles.Ask(app.Theme, fmt.Sprintf("Replace %s with defaults?", filepath.Base(path)))
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			fmt.Fprint(out, renderer.RenderKept(path))
			return nil
		}
	case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
		fmt.Fprint(out, renderer.RenderError(statErr))
		return statErr
	}

	if err := config.WriteConfigOrdered(config.DefaultConfig(), path); err != nil {
		fmt.Fprint(out, renderer.RenderError(err))
		return err
	}
	fmt.Fprint(out, renderer.RenderWritten("config", path))

	schemaPath := filepath.Join(filepath.Dir(path), "config.schema.json")
	if err := config.WriteSchemaFile(schemaPath); err != nil {
		fmt.Fprint(out, renderer.RenderError(err))
		return err
	}
	fmt.Fprint(out, renderer.RenderWritten("schema", schemaPath))
	return nil
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	data, err := config.GenerateSchema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	return printConfigKeys(cmd, config.NewSchemaProvider(), styles.NewConfigSchemaRenderer(app.Theme))
}

func printConfigKeys(cmd *cobra.Command, provider port.ConfigSchemaProvider, renderer *styles.ConfigSchemaRenderer) error {
	keys := provider.GetSchema()
	if !configKeysJSON {
		fmt.Fprint(cmd.OutOrStdout(), renderer.Render(keys))
		return nil
	}
	out, err := renderer.RenderJSON(keys)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
