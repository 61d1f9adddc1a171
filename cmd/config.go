package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/folio-cli/pkg/config"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change folio settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration and the backend in use",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := app.Settings.ConfigPath()

		// Write defaults first so the editor has something to show
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := app.Settings.Config().Save(path); err != nil {
				return err
			}
		}

		fmt.Println(ui.FormatInfo("Opening config: " + path))
		if err := OpenInEditor(path); err != nil {
			return err
		}
		if err := app.Settings.Reload(); err != nil {
			return err
		}
		ui.SetTheme(app.Settings.Config().ColorTheme)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration key",
	Long: "Set one configuration key.\n\nKeys:\n  " + strings.Join(config.Keys(), "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Settings.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s set to %q", args[0], args[1])))
		return nil
	},
}

var configSetURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Point folio at another backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		saved, err := app.Settings.SetAPIURL(args[0])
		if err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("API URL saved: " + saved))

		active, err := app.Retarget(apiFlag)
		if err != nil {
			return err
		}
		if active != saved {
			fmt.Println(ui.FormatWarning(fmt.Sprintf("Still using %s (from %s)", active, app.APISource)))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configEditCmd, configSetCmd, configSetURLCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	out, err := yaml.Marshal(app.Settings.Config())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	fmt.Println(ui.RenderKeyValue("Config file", app.Settings.ConfigPath()))
	fmt.Println(ui.RenderKeyValue("API URL", fmt.Sprintf("%s (%s)", app.Client.BaseURL(), app.APISource)))
	fmt.Println()
	fmt.Print(highlight(string(out), "yaml"))
	return nil
}
