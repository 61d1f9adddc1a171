package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

var (
	backupListLocal bool
	backupCopyPath  bool
	backupShowPlain bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, list and download backend snapshots",
	Long: `Create, list and download snapshots of the whole portfolio database.

Examples:
  folio backup create
  folio backup list
  folio backup download            # pick from the backend's snapshots
  folio backup list --local        # downloaded snapshots
  folio backup show ~/.local/share/folio/backups/portfolio_backup.json`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Ask the backend for a new snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		info, err := app.Backups.Create(getContext())
		if err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Created %s (%.1f KB)", info.Filename, info.SizeKB)))
		fmt.Println(ui.FormatInfo("Download it with: folio backup download " + info.Filename))
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List snapshots on the backend, or downloaded ones with --local",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if backupListLocal {
			paths, err := app.Backups.LocalBackups()
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Println(ui.FormatInfo("No downloaded backups in " + app.Backups.BackupDir()))
				return nil
			}
			fmt.Println(ui.RenderSimpleList(paths))
			return nil
		}

		if err := requireLogin(); err != nil {
			return err
		}
		backups, err := app.Backups.List(getContext())
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println(ui.FormatInfo("The backend holds no backups yet"))
			return nil
		}
		fmt.Print(renderBackupTable(backups))
		return nil
	},
}

var backupDownloadCmd = &cobra.Command{
	Use:   "download [filename]",
	Short: "Download a snapshot into the backups directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		ctx := getContext()

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			backups, err := app.Backups.List(ctx)
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Println(ui.FormatWarning("The backend holds no backups yet"))
				return nil
			}
			idx, err := fuzzyfinder.Find(
				backups,
				func(i int) string { return backups[i].Filename },
				fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
					if i == -1 {
						return ""
					}
					b := backups[i]
					return fmt.Sprintf("File: %s\nSize: %.1f KB\nCreated: %s", b.Filename, b.SizeKB, b.CreatedAt)
				}),
			)
			if err != nil {
				fmt.Println(ui.FormatInfo("Operation cancelled."))
				return nil
			}
			name = backups[idx].Filename
		}

		resp, err := app.Backups.Download(ctx, name)
		if err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Saved %s (%d bytes)", resp.Path, resp.Bytes)))

		if backupCopyPath {
			if err := clipboard.WriteAll(resp.Path); err != nil {
				fmt.Println(ui.FormatWarning("Could not copy to clipboard: " + err.Error()))
			} else {
				fmt.Println(ui.FormatInfo("Path copied to clipboard"))
			}
		}
		return nil
	},
}

var backupShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a downloaded snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := app.Backups.Preview(args[0])
		if err != nil {
			return err
		}
		if !backupShowPlain {
			content = highlight(content, "json")
		}
		fmt.Println(content)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all portfolio data with a local snapshot",
	Long: `Replace all portfolio data with a local snapshot.
The backend writes a safety backup of the current data before restoring.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		result, err := app.Backups.Restore(getContext(), args[0], confirmer())
		if err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess(nonEmptyOr(result.Message, "Restored "+filepath.Base(args[0]))))
		if result.BackupCreated != "" {
			fmt.Println(ui.RenderKeyValue("Safety backup", result.BackupCreated))
		}
		if result.IntegrityCheck != "" {
			fmt.Println(ui.RenderKeyValue("Integrity", result.IntegrityCheck))
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the backend with sample data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireLogin(); err != nil {
			return err
		}
		result, err := app.Backups.Seed(getContext(), confirmer())
		if err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess(nonEmptyOr(result.Message, "Database seeded")))
		if out := strings.TrimSpace(result.Output); out != "" {
			fmt.Println(ui.StyleMuted.Render(out))
		}
		return nil
	},
}

func init() {
	backupListCmd.Flags().BoolVar(&backupListLocal, "local", false, "List downloaded snapshots instead")
	backupDownloadCmd.Flags().BoolVar(&backupCopyPath, "copy", false, "Copy the saved path to the clipboard")
	backupShowCmd.Flags().BoolVar(&backupShowPlain, "plain", false, "Do not highlight")

	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupDownloadCmd, backupShowCmd)
	rootCmd.AddCommand(backupCmd, restoreCmd, seedCmd)
}

func renderBackupTable(backups []domain.BackupInfo) string {
	t := ui.NewTable([]ui.TableColumn{
		{Header: "FILE", Max: 48},
		{Header: "SIZE", Align: "right"},
		{Header: "CREATED"},
	})
	for _, b := range backups {
		t.AddRow(b.Filename, fmt.Sprintf("%.1f KB", b.SizeKB), b.CreatedAt)
	}
	return t.Render()
}

func nonEmptyOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
