package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/kamal-hamza/folio-cli/internal/adapters/api/apitest"
	"github.com/kamal-hamza/folio-cli/internal/adapters/session"
	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

func newTestClient(t *testing.T, loggedIn bool) (*Client, *apitest.Server, *session.MemoryStore) {
	t.Helper()
	srv := apitest.New(t)
	store := session.NewMemoryStore()
	if loggedIn {
		_ = store.Save(apitest.Username, BasicToken(apitest.Username, apitest.Password))
	}
	c, err := NewClient(srv.URL, store)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c, srv, store
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"relative", "/api"},
		{"ftp scheme", "ftp://example.com"},
		{"no host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.url, session.NewMemoryStore()); !domain.IsValidationError(err) {
				t.Errorf("NewClient(%q) error = %v, want ValidationError", tt.url, err)
			}
		})
	}
}

func TestBasicToken(t *testing.T) {
	token := BasicToken("admin", "s3cret:x")
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("token is not base64: %v", err)
	}
	if string(raw) != "admin:s3cret:x" {
		t.Errorf("decoded token = %q", raw)
	}
}

func TestRequiresAuth(t *testing.T) {
	tests := []struct {
		endpoint string
		expected bool
	}{
		{"/api/admin/projects", true},
		{"/api/admin/verify", true},
		{"/api/projects", false},
		{"/api/contact", false},
		{"/api/administrator", false},
	}
	for _, tt := range tests {
		if got := RequiresAuth(tt.endpoint); got != tt.expected {
			t.Errorf("RequiresAuth(%q) = %v, want %v", tt.endpoint, got, tt.expected)
		}
	}
}

func TestCall_AdminWithoutCredentialFailsBeforeNetwork(t *testing.T) {
	c, srv, _ := newTestClient(t, false)

	err := c.Call(context.Background(), http.MethodGet, "/api/admin/verify", nil, nil)
	if !domain.IsAuthError(err) {
		t.Fatalf("error = %v, want AuthError", err)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("made %d requests, want 0", n)
	}
}

func TestCall_AttachesCredential(t *testing.T) {
	c, srv, _ := newTestClient(t, true)

	if _, err := c.Verify(context.Background()); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	// Public reads carry the credential as well when one is held
	if _, err := Projects(c).List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := "Basic " + BasicToken(apitest.Username, apitest.Password)
	for _, r := range srv.Requests() {
		if r.Auth != want {
			t.Errorf("%s %s Authorization = %q, want %q", r.Method, r.Path, r.Auth, want)
		}
	}
}

func TestCall_UnauthorizedForcesLogout(t *testing.T) {
	c, _, store := newTestClient(t, false)
	_ = store.Save("admin", BasicToken("admin", "wrong"))

	hookCalls := 0
	c.OnUnauthorized(func() { hookCalls++ })

	_, err := c.Verify(context.Background())
	if !domain.IsAuthError(err) {
		t.Fatalf("error = %v, want AuthError", err)
	}
	if !strings.Contains(err.Error(), "Invalid credentials") {
		t.Errorf("error = %q, want backend detail", err)
	}
	if _, ok := store.Token(); ok {
		t.Error("credential should be cleared after 401")
	}
	if hookCalls != 1 {
		t.Errorf("OnUnauthorized called %d times, want 1", hookCalls)
	}
}

func TestCall_ErrorDetail(t *testing.T) {
	c, srv, _ := newTestClient(t, true)

	srv.SeedSkills(domain.Skill{Name: "Go"})
	_, err := Skills(c).Create(context.Background(), map[string]any{"name": "go"})

	var httpErr *domain.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want HTTPError", err)
	}
	if httpErr.Status != http.StatusBadRequest || httpErr.Detail != "Skill already exists" {
		t.Errorf("HTTPError = %+v", httpErr)
	}
}

func TestCall_ValidationDetail(t *testing.T) {
	c, _, _ := newTestClient(t, true)

	_, err := Projects(c).Create(context.Background(), map[string]any{"title": "x", "technologies": []string{}})
	var httpErr *domain.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want HTTPError", err)
	}
	if httpErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", httpErr.Status)
	}
	if httpErr.Detail != "technologies: ensure this value has at least 1 items" {
		t.Errorf("detail = %q", httpErr.Detail)
	}
}

func TestParseErrorDetail(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
		ok       bool
	}{
		{"string detail", `{"detail":"Not found"}`, "Not found", true},
		{"validation array", `{"detail":[{"loc":["body","title"],"msg":"field required"},{"loc":["body","technologies"],"msg":"too short"}]}`, "title: field required; technologies: too short", true},
		{"array without loc", `{"detail":[{"msg":"bad"}]}`, "bad", true},
		{"object detail", `{"detail":{"code":1}}`, `{"code":1}`, true},
		{"no detail", `{"error":"x"}`, "", false},
		{"null detail", `{"detail":null}`, "", false},
		{"blank detail", `{"detail":"  "}`, "", false},
		{"not json", `Internal Server Error`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseErrorDetail([]byte(tt.body))
			if ok != tt.ok || got != tt.expected {
				t.Errorf("parseErrorDetail() = %q, %v, want %q, %v", got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestCall_RawTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, session.NewMemoryStore())
	err := c.Call(context.Background(), http.MethodGet, "/api/projects", nil, nil)

	var httpErr *domain.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Detail != "upstream exploded" {
		t.Errorf("error = %v, want raw text detail", err)
	}
}

func TestCall_NullDetailFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": null}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, session.NewMemoryStore())
	err := c.Call(context.Background(), http.MethodGet, "/api/projects", nil, nil)

	var httpErr *domain.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Detail != http.StatusText(http.StatusBadRequest) {
		t.Errorf("error = %v, want status text detail", err)
	}
}

func TestCall_PublicTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _ := NewClient(srv.URL, session.NewMemoryStore(), WithPublicTimeout(50*time.Millisecond))
	err := c.Call(context.Background(), http.MethodGet, "/api/projects", nil, nil)

	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if !netErr.Timeout {
		t.Error("NetworkError.Timeout should be set")
	}
}

func TestCall_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := NewClient(url, session.NewMemoryStore())
	err := c.Call(context.Background(), http.MethodGet, "/api/health", nil, nil)

	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if netErr.Op != "GET /api/health" {
		t.Errorf("Op = %q", netErr.Op)
	}
}

func TestSetBaseURL(t *testing.T) {
	c, _, _ := newTestClient(t, false)
	if err := c.SetBaseURL("not a url"); err == nil {
		t.Error("SetBaseURL should reject invalid URLs")
	}
	if err := c.SetBaseURL("https://api.example.com/"); err != nil {
		t.Fatalf("SetBaseURL() error = %v", err)
	}
	if c.BaseURL() != "https://api.example.com" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
}

func TestResource_CRUDPaths(t *testing.T) {
	c, srv, _ := newTestClient(t, true)
	ctx := context.Background()
	projects := Projects(c)

	created, err := projects.Create(ctx, map[string]any{"title": "A", "description": "d", "technologies": []string{"Go"}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created project has no id")
	}
	if _, err := projects.Update(ctx, created.ID, map[string]any{"title": "B", "description": "d", "technologies": []string{"Go"}}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	list, err := projects.List(ctx)
	if err != nil || len(list) != 1 || list[0].Title != "B" {
		t.Fatalf("List() = %+v, %v", list, err)
	}
	if err := projects.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	id := "/api/admin/projects/" + strconv.Itoa(created.ID)
	checks := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/admin/projects"},
		{http.MethodPut, id},
		{http.MethodGet, "/api/projects"},
		{http.MethodDelete, id},
	}
	for _, chk := range checks {
		if srv.Count(chk.method, chk.path) != 1 {
			t.Errorf("expected one %s %s", chk.method, chk.path)
		}
	}
}

func TestResource_JSONContentType(t *testing.T) {
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"id":1,"name":"Go"}`))
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	_ = store.Save("admin", "tok")
	c, _ := NewClient(srv.URL, store)
	if _, err := Skills(c).Create(context.Background(), map[string]string{"name": "Go"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q", gotType)
	}
}

func TestEndpoints_BackupFlow(t *testing.T) {
	c, srv, _ := newTestClient(t, true)
	ctx := context.Background()

	info, err := c.Backup(ctx)
	if err != nil || info.Filename == "" {
		t.Fatalf("Backup() = %+v, %v", info, err)
	}

	var buf bytes.Buffer
	n, err := c.DownloadBackup(ctx, info.Filename, &buf)
	if err != nil {
		t.Fatalf("DownloadBackup() error = %v", err)
	}
	if n == 0 || int64(buf.Len()) != n {
		t.Errorf("downloaded %d bytes, buffer has %d", n, buf.Len())
	}

	backups, err := c.Backups(ctx)
	if err != nil || len(backups) != 1 {
		t.Errorf("Backups() = %+v, %v", backups, err)
	}

	content := []byte(`{"projects":[]}`)
	res, err := c.Restore(ctx, "/tmp/snap.json", content)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if res.BytesWritten != len(content) || !bytes.Equal(srv.Restored(), content) {
		t.Errorf("restore uploaded %q, result %+v", srv.Restored(), res)
	}

	if _, err := c.Seed(ctx); err != nil {
		t.Errorf("Seed() error = %v", err)
	}
}

func TestEndpoints_AboutEmptyObject(t *testing.T) {
	c, _, _ := newTestClient(t, false)
	about, err := c.About(context.Background())
	if err != nil {
		t.Fatalf("About() error = %v", err)
	}
	if !about.IsEmpty() {
		t.Errorf("About() = %+v, want empty", about)
	}
}

func TestEndpoints_Health(t *testing.T) {
	c, _, _ := newTestClient(t, false)
	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if h.Status != "healthy" || !h.Database.Healthy {
		t.Errorf("Health() = %+v", h)
	}
}
