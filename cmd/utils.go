package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

// stdin is shared so prompts in one command read the same buffer
var stdin = bufio.NewReader(os.Stdin)

// GetPreferredEditor returns the editor command from config, env, or default
func GetPreferredEditor() string {
	// 1. Check Config
	if appConfig != nil && appConfig.Editor != "" {
		return appConfig.Editor
	}
	// 2. Check Environment
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	// 3. Fallback
	return "vi"
}

// OpenInEditor runs the preferred editor on path and waits for it to exit
func OpenInEditor(path string) error {
	editor := GetPreferredEditor()
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("no editor configured")
	}

	c := exec.Command(parts[0], append(parts[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor %s failed: %w", parts[0], err)
	}
	return nil
}

// confirmer returns the Confirmer used by destructive commands. --yes, or
// confirm_delete: false in the config, skips the prompt.
func confirmer() ports.Confirmer {
	if yesFlag || (appConfig != nil && !appConfig.ConfirmDelete) {
		return func(string) bool { return true }
	}
	return func(prompt string) bool {
		return askYesNo(stdin, os.Stdout, prompt)
	}
}

// askYesNo prints prompt and reports whether the answer starts with y
func askYesNo(in *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, ui.StyleWarning.Render(prompt+" (y/N): "))
	answer, err := in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// readLine prompts for one line of input
func readLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, ui.StyleInfo.Render(prompt))
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword prompts without echo when stdin is a terminal
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine(stdin, os.Stdout, prompt)
	}
	fmt.Print(ui.StyleInfo.Render(prompt))
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// describeError turns gateway errors into the line shown to the user
func describeError(err error) string {
	var (
		authErr *domain.AuthError
		netErr  *domain.NetworkError
		vErr    *domain.ValidationError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Error() + ". Run 'folio login' to sign in"
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.As(err, &netErr):
		if netErr.Timeout {
			return "The backend did not respond in time. It may be starting up; try again shortly"
		}
		return fmt.Sprintf("Could not reach the backend (%v)", netErr.Err)
	default:
		return err.Error()
	}
}

// requireLogin fails early for admin commands when no credential is held
func requireLogin() error {
	if !app.Auth.Status().LoggedIn {
		return &domain.AuthError{Reason: "not logged in"}
	}
	return nil
}
