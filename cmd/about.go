package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

var aboutFlags = newFieldFlags(services.AboutForm{}.NewState().Specs, false, "", "")

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show or update the about section",
	Args:  cobra.NoArgs,
	RunE:  runAboutShow,
}

var aboutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the about section",
	Args:  cobra.NoArgs,
	RunE:  runAboutShow,
}

var aboutSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the about section",
	Long: `Update the about section. Only the fields given as flags change;
with no flags the section opens in your editor as YAML.

Examples:
  folio about set --current-role "Staff Engineer" --current-company Acme
  folio about set -e`,
	Args: cobra.NoArgs,
	RunE: runAboutSet,
}

func init() {
	aboutFlags.register(aboutSetCmd)
	aboutCmd.AddCommand(aboutShowCmd, aboutSetCmd)
	rootCmd.AddCommand(aboutCmd)
}

func runAboutShow(_ *cobra.Command, _ []string) error {
	about, err := app.About.Load(getContext())
	if err != nil {
		return err
	}
	fmt.Print(ui.RenderDisplay(services.RenderAbout(about)))
	return nil
}

func runAboutSet(cmd *cobra.Command, _ []string) error {
	if err := requireLogin(); err != nil {
		return err
	}
	ctx := getContext()

	if _, err := app.About.Load(ctx); err != nil {
		return err
	}
	if err := aboutFlags.apply(cmd, app.About); err != nil {
		app.About.Reset()
		return err
	}

	saved, err := app.About.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("About section saved"))
	fmt.Println()
	fmt.Print(ui.RenderDisplay(services.RenderAbout(saved)))
	return nil
}
