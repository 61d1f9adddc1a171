package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

var (
	loginUsername      string
	loginPasswordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the admin API",
	Long: `Sign in with the admin username and password.

The credential is verified against the backend and kept for the rest of the
login session (it is stored under $XDG_RUNTIME_DIR, which the OS clears on
logout). A rejected credential is never kept.

Examples:
  folio login
  folio login -u admin
  echo "$PASSWORD" | folio login -u admin --password-stdin`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Auth.Logout(); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Logged out"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		status := app.Auth.Status()
		if status.LoggedIn {
			fmt.Println(ui.RenderKeyValue("User", status.Username))
		} else {
			fmt.Println(ui.FormatLocked("Not logged in"))
		}
		fmt.Println(ui.RenderKeyValue("Backend", app.Client.BaseURL()+ui.FormatMuted(" ("+string(app.APISource)+")")))
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is up",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.FormatMuted("Checking " + app.Client.BaseURL() + "..."))
		health, err := app.Client.Health(getContext())
		if err != nil {
			return err
		}

		status := ui.FormatSuccess(health.Status)
		if !strings.EqualFold(health.Status, "healthy") {
			status = ui.FormatWarning(health.Status)
		}
		fmt.Println(ui.RenderKeyValue("Status", status))
		if health.Message != "" {
			fmt.Println(ui.RenderKeyValue("Message", health.Message))
		}
		db := ui.FormatSuccess("ok")
		if !health.Database.Healthy {
			db = ui.FormatError(health.Database.Message)
		}
		fmt.Println(ui.RenderKeyValue("Database", db))
		if health.Timestamp != "" {
			fmt.Println(ui.RenderKeyValue("Checked", health.Timestamp))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Admin username (defaults to the configured one)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, healthCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	username := loginUsername
	if username == "" {
		username = appConfig.Username
	}
	if username == "" {
		var err error
		username, err = readLine(stdin, os.Stdout, "Username: ")
		if err != nil {
			return err
		}
	}

	var password string
	if loginPasswordStdin {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(string(b), "\r\n")
	} else {
		var err error
		password, err = readPassword("Password: ")
		if err != nil {
			return err
		}
	}

	resp, err := app.Auth.Login(getContext(), services.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}

	if appConfig.Username != resp.Username {
		if err := app.Settings.Set("username", resp.Username); err != nil {
			app.Logger.Printf("failed to remember username: %v", err)
		}
	}
	fmt.Println(ui.FormatSuccess("Logged in as " + resp.Username))
	return nil
}
