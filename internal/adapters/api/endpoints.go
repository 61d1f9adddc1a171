package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// Verify checks the held credential
func (c *Client) Verify(ctx context.Context) (*domain.VerifyResponse, error) {
	var out domain.VerifyResponse
	if err := c.Call(ctx, http.MethodGet, "/api/admin/verify", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the backend health report
func (c *Client) Health(ctx context.Context) (*domain.HealthStatus, error) {
	var out domain.HealthStatus
	if err := c.Call(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// About fetches the about section; an empty object yields a zero About
func (c *Client) About(ctx context.Context) (*domain.About, error) {
	var out domain.About
	if err := c.Call(ctx, http.MethodGet, "/api/about", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveAbout upserts the about section
func (c *Client) SaveAbout(ctx context.Context, payload any) (*domain.About, error) {
	var out domain.About
	if err := c.Call(ctx, http.MethodPost, "/api/admin/about", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitContact posts a public contact form
func (c *Client) SubmitContact(ctx context.Context, req domain.ContactRequest) (*domain.MessageResponse, error) {
	var out domain.MessageResponse
	if err := c.Call(ctx, http.MethodPost, "/api/contact", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Backup asks the backend to produce a snapshot
func (c *Client) Backup(ctx context.Context) (*domain.BackupInfo, error) {
	var out domain.BackupInfo
	if err := c.Call(ctx, http.MethodGet, "/api/admin/backup", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Backups lists the snapshots the backend holds
func (c *Client) Backups(ctx context.Context) ([]domain.BackupInfo, error) {
	var out domain.BackupList
	if err := c.Call(ctx, http.MethodGet, "/api/admin/backups", nil, &out); err != nil {
		return nil, err
	}
	return out.Backups, nil
}

// DownloadBackup streams a snapshot into w
func (c *Client) DownloadBackup(ctx context.Context, filename string, w io.Writer) (int64, error) {
	endpoint := "/api/admin/backup/download/" + url.PathEscape(filename)
	var written int64
	err := c.Stream(ctx, endpoint, func(r io.Reader) error {
		n, err := io.Copy(w, r)
		written = n
		return err
	})
	return written, err
}

// Restore uploads a snapshot as multipart field "file"
func (c *Client) Restore(ctx context.Context, filename string, content []byte) (*domain.RestoreResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	body := RawBody{ContentType: mw.FormDataContentType(), Reader: &buf}
	var out domain.RestoreResult
	if err := c.Call(ctx, http.MethodPost, "/api/admin/restore", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Seed fills the backend with sample data
func (c *Client) Seed(ctx context.Context) (*domain.SeedResult, error) {
	var out domain.SeedResult
	if err := c.Call(ctx, http.MethodPost, "/api/admin/seed", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
