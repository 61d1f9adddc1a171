package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "folio"

// Workspace represents the local directories folio manages
type Workspace struct {
	RootPath    string
	BackupsPath string
	CachePath   string
	ConfigPath  string
	RuntimePath string
}

// New creates a new Workspace instance with XDG-compliant paths
func New() (*Workspace, error) {
	rootPath, rootErr := getDataRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine data root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	ws := &Workspace{
		RootPath:    rootPath,
		BackupsPath: filepath.Join(rootPath, "backups"),
		CachePath:   filepath.Join(rootPath, "cache"),
		ConfigPath:  configPath,
		RuntimePath: getRuntimeDir(),
	}

	return ws, nil
}

// getDataRoot returns the data directory path
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getDataRoot() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}

	return filepath.Join(homeDir, ".local", "share", appName), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName+"-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

// getRuntimeDir returns a directory that lives as long as the login session.
// XDG_RUNTIME_DIR is removed by the OS on logout; without it a per-user temp
// directory is used.
func getRuntimeDir() string {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, appName)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", appName, os.Getuid()))
}

// Initialize creates the directory structure if it doesn't exist
func (w *Workspace) Initialize() error {
	directories := []string{
		w.RootPath,
		w.BackupsPath,
		w.CachePath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the workspace has been initialized
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// SessionFile returns the path of the session credential file
func (w *Workspace) SessionFile() string {
	return filepath.Join(w.RuntimePath, "session.json")
}

// GetBackupPath returns the full path for a downloaded backup
func (w *Workspace) GetBackupPath(filename string) string {
	return filepath.Join(w.BackupsPath, filepath.Base(filename))
}

// GetCachePath returns the full path for a cached file
func (w *Workspace) GetCachePath(filename string) string {
	return filepath.Join(w.CachePath, filename)
}

// VisitsDBPath returns the default location of the visitor database
func (w *Workspace) VisitsDBPath() string {
	return filepath.Join(w.RootPath, "visits.db")
}

// CleanCache removes all files in the cache directory
func (w *Workspace) CleanCache() error {
	entries, err := os.ReadDir(w.CachePath)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(w.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}
