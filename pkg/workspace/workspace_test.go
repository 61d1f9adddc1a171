package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWorkspace_GetBackupPath(t *testing.T) {
	w := &Workspace{
		BackupsPath: "/test/folio/backups",
	}

	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"plain filename", "portfolio_backup_20260101.json", "/test/folio/backups/portfolio_backup_20260101.json"},
		{"path is stripped", "../../etc/passwd", "/test/folio/backups/passwd"},
		{"nested server path", "backups/portfolio.json", "/test/folio/backups/portfolio.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := w.GetBackupPath(tt.filename)
			if result != tt.expected {
				t.Errorf("GetBackupPath(%q) = %q, want %q", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestWorkspace_GetCachePath(t *testing.T) {
	w := &Workspace{
		CachePath: "/test/folio/cache",
	}

	result := w.GetCachePath("stats.html")
	if result != "/test/folio/cache/stats.html" {
		t.Errorf("GetCachePath() = %q", result)
	}
}

func TestWorkspace_SessionFile(t *testing.T) {
	w := &Workspace{RuntimePath: "/run/user/1000/folio"}

	expected := filepath.Join("/run/user/1000/folio", "session.json")
	if got := w.SessionFile(); got != expected {
		t.Errorf("SessionFile() = %q, want %q", got, expected)
	}
}

func TestNew_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_RUNTIME_DIR", "/xdg/runtime")

	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"RootPath", w.RootPath, "/xdg/data/folio"},
		{"BackupsPath", w.BackupsPath, "/xdg/data/folio/backups"},
		{"CachePath", w.CachePath, "/xdg/data/folio/cache"},
		{"ConfigPath", w.ConfigPath, "/xdg/config/folio/config.yaml"},
		{"RuntimePath", w.RuntimePath, "/xdg/runtime/folio"},
		{"VisitsDBPath", w.VisitsDBPath(), "/xdg/data/folio/visits.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestNew_RuntimeFallback(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !strings.HasPrefix(w.RuntimePath, os.TempDir()) {
		t.Errorf("RuntimePath = %q, want it under %q", w.RuntimePath, os.TempDir())
	}
}

func TestWorkspace_InitializeAndClean(t *testing.T) {
	root := t.TempDir()
	w := &Workspace{
		RootPath:    root,
		BackupsPath: filepath.Join(root, "backups"),
		CachePath:   filepath.Join(root, "cache"),
	}

	if w.Exists() != true {
		t.Fatal("temp root should exist")
	}
	if err := w.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	for _, dir := range []string{w.BackupsPath, w.CachePath} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("directory %s was not created", dir)
		}
	}

	if err := os.WriteFile(w.GetCachePath("a.html"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := w.CleanCache(); err != nil {
		t.Fatalf("CleanCache() error = %v", err)
	}
	entries, _ := os.ReadDir(w.CachePath)
	if len(entries) != 0 {
		t.Errorf("cache has %d entries after clean", len(entries))
	}
}
