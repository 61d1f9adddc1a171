package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/adapters/session"
	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/config"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
	"github.com/kamal-hamza/folio-cli/pkg/workspace"
)

var (
	// Global workspace and configuration
	appWorkspace *workspace.Workspace
	appConfig    *config.Config

	// Wired services
	app *App

	// notify receives controller notices; the dashboard redirects it
	notify = func(msg string) { fmt.Println(ui.FormatInfo(msg)) }

	// Global flags
	apiFlag       string
	verboseFlag   bool
	ephemeralFlag bool
	yesFlag       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio - manage your portfolio from the terminal",
	Long: ui.StyleTitle.Render("Folio") + " - Portfolio Admin Client\n\n" +
		"Edit the projects, experience, skills and about section of your portfolio,\n" +
		"read contact submissions, and back up or restore the whole site.",
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if errors.Is(err, domain.ErrNotConfirmed) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return
	}
	if err != nil {
		fmt.Println(ui.FormatError(describeError(err)))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiFlag, "api", "", "Backend base URL (overrides FOLIO_API_URL and config)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log requests and background failures to stderr")
	rootCmd.PersistentFlags().BoolVar(&ephemeralFlag, "ephemeral", false, "Keep the login in memory only")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Do not ask before destructive actions")
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// Help and version need nothing wired
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	ws, err := workspace.New()
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	if err := ws.Initialize(); err != nil {
		return err
	}
	appWorkspace = ws

	cwd, _ := os.Getwd()
	if err := services.LoadDotEnv(filepath.Join(cwd, ".env"), filepath.Join(filepath.Dir(ws.ConfigPath), ".env")); err != nil {
		fmt.Println(ui.FormatWarning(err.Error()))
	}

	cfg, err := config.Load(ws.ConfigPath)
	if err != nil {
		return err
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	backupDir := cfg.BackupDir
	if backupDir == "" {
		backupDir = ws.BackupsPath
	}

	var store ports.SessionStore = session.NewFileStore(ws.SessionFile())
	if ephemeralFlag {
		store = session.NewMemoryStore()
	}

	a, err := NewApp(AppOptions{
		Config:     cfg,
		ConfigPath: ws.ConfigPath,
		APIFlag:    apiFlag,
		Session:    store,
		BackupDir:  backupDir,
		Logger:     newLogger(verboseFlag),
		Notifier:   ports.NotifyFunc(func(msg string) { notify(msg) }),
	})
	if err != nil {
		return err
	}
	app = a
	return nil
}

func newLogger(verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "folio: ", log.LstdFlags)
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
