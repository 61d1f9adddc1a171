package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kamal-hamza/folio-cli/internal/adapters/api"
	"github.com/kamal-hamza/folio-cli/internal/adapters/api/apitest"
	"github.com/kamal-hamza/folio-cli/internal/adapters/session"
	"github.com/kamal-hamza/folio-cli/internal/adapters/visits"
	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	backend *apitest.Server
	store   *visits.Store
	site    *Server
}

func newFixture(t *testing.T, track bool) *fixture {
	t.Helper()

	backend := apitest.New(t)
	client, err := api.NewClient(backend.URL, session.NewMemoryStore())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	opts := Options{
		Sources: Sources{
			About:      client,
			Projects:   api.Projects(client),
			Experience: api.Experience(client),
			Skills:     api.Skills(client),
		},
		Contact: services.NewContactService(client, api.Contacts(client)),
		Salt:    "test-salt",
		Backend: backend.URL,
	}

	f := &fixture{backend: backend}
	if track {
		store, err := visits.Open(":memory:")
		if err != nil {
			t.Fatalf("visits.Open failed: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		opts.Visits = store
		f.store = store
	}

	site, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	f.site = site
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.site.Handler().ServeHTTP(w, req)
	return w
}

func TestIndexRendersPortfolio(t *testing.T) {
	f := newFixture(t, false)
	role := "Engineer"
	lang := "Languages"
	f.backend.SeedAbout(domain.About{ID: 1, Bio: "I build things.", CurrentRole: &role})
	f.backend.SeedProjects(domain.Project{Title: "Folio", Description: "Admin client", Technologies: []string{"Go"}, IsFeatured: true})
	f.backend.SeedExperience(domain.Experience{Company: "Acme", Role: "Developer", DateRange: "2020 - 2024", Responsibilities: []string{"Shipped"}})
	f.backend.SeedSkills(domain.Skill{Name: "Go", Category: &lang})

	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"I build things.", "Engineer", "Featured", "Folio", "Developer @ Acme", "Languages", "<form"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexPlaceholders(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"No projects yet.", "No experience yet.", "No skills yet."} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing placeholder %q", want)
		}
	}
	if strings.Contains(body, `id="about"`) {
		t.Error("empty about section should not render")
	}
}

func TestIndexBackendUnreachable(t *testing.T) {
	f := newFixture(t, false)
	f.backend.Fail(http.MethodGet, "/api/projects", http.StatusInternalServerError)

	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "temporarily unavailable") {
		t.Errorf("expected unreachable page, got %s", w.Body.String())
	}
}

func postContact(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestContactSubmit(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(postContact(url.Values{
		"name":    {"Ada Lovelace"},
		"email":   {"ada@example.com"},
		"subject": {"Hello"},
		"message": {"I would like to work together."},
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "contact-success") {
		t.Errorf("expected success fragment, got %s", w.Body.String())
	}
	if f.backend.Count(http.MethodPost, "/api/contact") != 1 {
		t.Error("expected the submission to reach the backend")
	}
}

func TestContactValidationStaysLocal(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(postContact(url.Values{
		"name":    {"Ada"},
		"email":   {"not-an-email"},
		"message": {"I would like to work together."},
	}))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "email") {
		t.Errorf("expected the email error, got %s", w.Body.String())
	}
	if f.backend.Count(http.MethodPost, "/api/contact") != 0 {
		t.Error("invalid submission must not reach the backend")
	}
}

func TestContactBackendFailure(t *testing.T) {
	f := newFixture(t, false)
	f.backend.Fail(http.MethodPost, "/api/contact", http.StatusInternalServerError)

	w := f.do(postContact(url.Values{
		"name":    {"Ada Lovelace"},
		"email":   {"ada@example.com"},
		"message": {"I would like to work together."},
	}))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "contact-error") {
		t.Errorf("expected error fragment, got %s", w.Body.String())
	}
}

func TestVisitorTracking(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	tracked := httptest.NewRequest(http.MethodGet, "/", nil)
	tracked.RemoteAddr = "10.0.0.1:1234"
	f.do(tracked)

	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.RemoteAddr = "10.0.0.1:4321"
	f.do(again)

	dnt := httptest.NewRequest(http.MethodGet, "/", nil)
	dnt.RemoteAddr = "10.0.0.2:1234"
	dnt.Header.Set("DNT", "1")
	f.do(dnt)

	f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	views, visitors, err := f.store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if views != 2 {
		t.Errorf("expected 2 views, got %d", views)
	}
	if visitors != 1 {
		t.Errorf("expected 1 visitor, got %d", visitors)
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
