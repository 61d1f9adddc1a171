package mocks

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// MockVerifier answers credential checks
type MockVerifier struct {
	Response *domain.VerifyResponse
	Err      error
	Calls    int
}

// Verify implements ports.Verifier
func (m *MockVerifier) Verify(ctx context.Context) (*domain.VerifyResponse, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Response == nil {
		return &domain.VerifyResponse{Authenticated: true}, nil
	}
	return m.Response, nil
}

// MockAboutStore holds an about section in memory
type MockAboutStore struct {
	mu       sync.Mutex
	Current  domain.About
	LoadErr  error
	SaveErr  error
	Payloads []any

	// BeforeSave runs inside SaveAbout before the section is stored
	BeforeSave func()
}

// About implements ports.AboutStore
func (m *MockAboutStore) About(ctx context.Context) (*domain.About, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	a := m.Current
	return &a, nil
}

// SaveAbout implements ports.AboutStore
func (m *MockAboutStore) SaveAbout(ctx context.Context, payload any) (*domain.About, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Payloads = append(m.Payloads, payload)
	if m.BeforeSave != nil {
		m.BeforeSave()
	}
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	m.Current.ID = 1
	a := m.Current
	return &a, nil
}

// MockContactSink records public submissions
type MockContactSink struct {
	Requests []domain.ContactRequest
	Err      error
}

// SubmitContact implements ports.ContactSink
func (m *MockContactSink) SubmitContact(ctx context.Context, req domain.ContactRequest) (*domain.MessageResponse, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.MessageResponse{Message: "Thank you for your message!", Success: true}, nil
}

// MockBackupStore serves a fixed snapshot
type MockBackupStore struct {
	Snapshot  string
	Restored  []byte
	RestoreAs string
	Seeded    int
	Err       error
}

// Backup implements ports.BackupStore
func (m *MockBackupStore) Backup(ctx context.Context) (*domain.BackupInfo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.BackupInfo{Success: true, Filename: "portfolio_backup_test.json", SizeKB: 0.1}, nil
}

// Backups implements ports.BackupStore
func (m *MockBackupStore) Backups(ctx context.Context) ([]domain.BackupInfo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return []domain.BackupInfo{{Filename: "portfolio_backup_test.json"}}, nil
}

// DownloadBackup implements ports.BackupStore
func (m *MockBackupStore) DownloadBackup(ctx context.Context, filename string, w io.Writer) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return io.Copy(w, strings.NewReader(m.Snapshot))
}

// Restore implements ports.BackupStore
func (m *MockBackupStore) Restore(ctx context.Context, filename string, content []byte) (*domain.RestoreResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Restored = content
	m.RestoreAs = filename
	return &domain.RestoreResult{Success: true, BytesWritten: len(content), IntegrityCheck: "passed"}, nil
}

// Seed implements ports.BackupStore
func (m *MockBackupStore) Seed(ctx context.Context) (*domain.SeedResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Seeded++
	return &domain.SeedResult{Success: true, Message: "seeded"}, nil
}
