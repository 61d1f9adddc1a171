package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// BackupService creates, downloads and restores server snapshots
type BackupService struct {
	store     ports.BackupStore
	backupDir string
}

// NewBackupService creates a new backup service saving downloads in backupDir
func NewBackupService(store ports.BackupStore, backupDir string) *BackupService {
	return &BackupService{
		store:     store,
		backupDir: backupDir,
	}
}

// BackupDir returns where downloads are written
func (s *BackupService) BackupDir() string {
	return s.backupDir
}

// Create asks the backend for a new snapshot
func (s *BackupService) Create(ctx context.Context) (*domain.BackupInfo, error) {
	info, err := s.store.Backup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup: %w", err)
	}
	return info, nil
}

// List returns the snapshots held by the backend
func (s *BackupService) List(ctx context.Context) ([]domain.BackupInfo, error) {
	backups, err := s.store.Backups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	return backups, nil
}

// DownloadResponse describes a saved snapshot
type DownloadResponse struct {
	Path  string
	Bytes int64
}

// Download saves a snapshot into the backups directory
func (s *BackupService) Download(ctx context.Context, filename string) (*DownloadResponse, error) {
	name := filepath.Base(filename)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return nil, domain.NewValidationError("filename", "backup filename is required")
	}

	if err := os.MkdirAll(s.backupDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	target := filepath.Join(s.backupDir, name)
	tmp, err := os.CreateTemp(s.backupDir, name+".*.part")
	if err != nil {
		return nil, fmt.Errorf("failed to create download file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := s.store.DownloadBackup(ctx, name, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download backup: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return nil, fmt.Errorf("failed to save backup: %w", err)
	}
	return &DownloadResponse{Path: target, Bytes: n}, nil
}

// CheckRestoreFile reads a snapshot and rejects anything the backend would:
// a non-.json name, an empty file, or malformed JSON
func CheckRestoreFile(path string) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil, domain.NewValidationError("file", "only .json backups can be restored")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, domain.NewValidationError("file", "backup file is empty")
	}
	if !json.Valid(content) {
		return nil, domain.NewValidationError("file", "backup file is not valid JSON")
	}
	return content, nil
}

// Restore replaces the backend state with a local snapshot
func (s *BackupService) Restore(ctx context.Context, path string, confirm ports.Confirmer) (*domain.RestoreResult, error) {
	content, err := CheckRestoreFile(path)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("Replace ALL portfolio data with %s?", filepath.Base(path))
	if confirm == nil || !confirm(prompt) {
		return nil, domain.ErrNotConfirmed
	}

	result, err := s.store.Restore(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("failed to restore backup: %w", err)
	}
	return result, nil
}

// Seed fills the backend with sample data
func (s *BackupService) Seed(ctx context.Context, confirm ports.Confirmer) (*domain.SeedResult, error) {
	if confirm == nil || !confirm("Seed the database with sample data?") {
		return nil, domain.ErrNotConfirmed
	}
	result, err := s.store.Seed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}
	return result, nil
}

// Preview returns a snapshot re-indented for display
func (s *BackupService) Preview(path string) (string, error) {
	content, err := CheckRestoreFile(path)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, content, "", "  "); err != nil {
		return "", fmt.Errorf("failed to format backup: %w", err)
	}
	return out.String(), nil
}

// LocalBackups lists downloaded snapshots, newest name first
func (s *BackupService) LocalBackups() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var paths []string
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(s.backupDir, e.Name()))
	}
	return paths, nil
}
