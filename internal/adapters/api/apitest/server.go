// Package apitest provides an in-memory portfolio backend for tests
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

const (
	Username = "admin"
	Password = "changeme"
)

// Request is a recorded call
type Request struct {
	Method string
	Path   string
	Body   []byte
	Auth   string
}

// Server is a fake backend serving the admin and public endpoints
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	requests   []Request
	nextID     int
	projects   []domain.Project
	experience []domain.Experience
	skills     []domain.Skill
	contacts   []domain.Contact
	about      *domain.About
	restored   []byte

	// FailNext makes the next matching call (method+" "+path) reply with the status
	failures map[string]int
	holds    map[string]chan struct{}
}

// New starts a fake backend and closes it when the test ends
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{nextID: 1, failures: map[string]int{}, holds: map[string]chan struct{}{}}
	r := chi.NewRouter()
	r.Use(s.record)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"message":   "API is running",
			"database":  map[string]any{"healthy": true, "message": "ok"},
			"timestamp": "2026-01-01T00:00:00",
		})
	})
	r.Get("/api/projects", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		respondJSON(w, http.StatusOK, nonNil(s.projects))
	})
	r.Get("/api/experience", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		respondJSON(w, http.StatusOK, nonNil(s.experience))
	})
	r.Get("/api/skills", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		respondJSON(w, http.StatusOK, nonNil(s.skills))
	})
	r.Get("/api/about", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.about == nil {
			respondJSON(w, http.StatusOK, map[string]any{})
			return
		}
		respondJSON(w, http.StatusOK, s.about)
	})
	r.Post("/api/contact", s.submitContact)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(requireBasic)
		r.Get("/verify", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]any{"authenticated": true, "username": Username})
		})

		r.Post("/projects", s.createProject)
		r.Put("/projects/{id}", s.updateProject)
		r.Delete("/projects/{id}", s.deleteProject)

		r.Post("/experience", s.createExperience)
		r.Put("/experience/{id}", s.updateExperience)
		r.Delete("/experience/{id}", s.deleteExperience)

		r.Post("/skills", s.createSkill)
		r.Put("/skills/{id}", s.updateSkill)
		r.Delete("/skills/{id}", s.deleteSkill)

		r.Post("/about", s.saveAbout)

		r.Get("/contacts", func(w http.ResponseWriter, r *http.Request) {
			s.mu.Lock()
			defer s.mu.Unlock()
			respondJSON(w, http.StatusOK, nonNil(s.contacts))
		})
		r.Delete("/contacts/{id}", s.deleteContact)

		r.Get("/backup", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, domain.BackupInfo{
				Success:     true,
				Message:     "Backup created successfully",
				Filename:    "portfolio_backup_20260101_000000.json",
				SizeKB:      1.5,
				DownloadURL: "/api/admin/backup/download/portfolio_backup_20260101_000000.json",
			})
		})
		r.Get("/backup/download/{filename}", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = io.WriteString(w, `{"version":1,"collections":{"projects":[]}}`)
		})
		r.Get("/backups", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, domain.BackupList{
				Success: true,
				Backups: []domain.BackupInfo{{Filename: "portfolio_backup_20260101_000000.json", SizeKB: 1.5}},
			})
		})
		r.Post("/restore", s.restore)
		r.Post("/seed", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, domain.SeedResult{Success: true, Message: "Database seeded successfully"})
		})
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Fail makes the next call to method+path reply with status
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Hold blocks the next call to method+path until the returned channel is closed
func (s *Server) Hold(method, path string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	release := make(chan struct{})
	s.holds[method+" "+path] = release
	return release
}

// Requests returns every recorded call in order
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many calls matched method and path
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent call matching method, if any
func (s *Server) Last(method string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method {
			return reqs[i], true
		}
	}
	return Request{}, false
}

// Restored returns the bytes of the last restore upload
func (s *Server) Restored() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restored
}

// SeedProjects replaces the stored projects, assigning ids where missing
func (s *Server) SeedProjects(projects ...domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = nil
	for _, p := range projects {
		if p.ID == 0 {
			p.ID = s.allocID()
		} else if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		s.projects = append(s.projects, p)
	}
}

// SeedExperience replaces the stored experience entries
func (s *Server) SeedExperience(entries ...domain.Experience) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.experience = nil
	for _, e := range entries {
		if e.ID == 0 {
			e.ID = s.allocID()
		} else if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
		s.experience = append(s.experience, e)
	}
}

// SeedSkills replaces the stored skills
func (s *Server) SeedSkills(skills ...domain.Skill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills = nil
	for _, sk := range skills {
		if sk.ID == 0 {
			sk.ID = s.allocID()
		} else if sk.ID >= s.nextID {
			s.nextID = sk.ID + 1
		}
		s.skills = append(s.skills, sk)
	}
}

// SeedContacts replaces the stored contact submissions
func (s *Server) SeedContacts(contacts ...domain.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = nil
	for _, c := range contacts {
		if c.ID == 0 {
			c.ID = s.allocID()
		} else if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
		s.contacts = append(s.contacts, c)
	}
}

// SeedAbout sets the about section
func (s *Server) SeedAbout(a domain.About) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.about = &a
}

// Projects returns the stored projects
func (s *Server) Projects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Project(nil), s.projects...)
}

func (s *Server) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   body,
			Auth:   r.Header.Get("Authorization"),
		})
		key := r.Method + " " + r.URL.Path
		status, fail := s.failures[key]
		if fail {
			delete(s.failures, key)
		}
		release, held := s.holds[key]
		if held {
			delete(s.holds, key)
		}
		s.mu.Unlock()

		if held {
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}

		if fail {
			respondError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireBasic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != Username || pass != Password {
			w.Header().Set("WWW-Authenticate", "Basic")
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if !decode(w, r, &p) {
		return
	}
	if len(p.Technologies) == 0 {
		respondValidation(w, "technologies", "ensure this value has at least 1 items")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.allocID()
	p.CreatedAt = "2026-01-01T00:00:00"
	s.projects = append(s.projects, p)
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p domain.Project
	if !decode(w, r, &p) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			p.ID = id
			p.CreatedAt = s.projects[i].CreatedAt
			s.projects[i] = p
			respondJSON(w, http.StatusOK, p)
			return
		}
	}
	respondError(w, http.StatusNotFound, "Project not found")
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Project deleted successfully", Success: true})
			return
		}
	}
	respondError(w, http.StatusNotFound, "Project not found")
}

func (s *Server) createExperience(w http.ResponseWriter, r *http.Request) {
	var e domain.Experience
	if !decode(w, r, &e) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.allocID()
	s.experience = append(s.experience, e)
	respondJSON(w, http.StatusOK, e)
}

func (s *Server) updateExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var e domain.Experience
	if !decode(w, r, &e) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.experience {
		if s.experience[i].ID == id {
			e.ID = id
			s.experience[i] = e
			respondJSON(w, http.StatusOK, e)
			return
		}
	}
	respondError(w, http.StatusNotFound, "Experience not found")
}

func (s *Server) deleteExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.experience {
		if s.experience[i].ID == id {
			s.experience = append(s.experience[:i], s.experience[i+1:]...)
			respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Experience deleted successfully", Success: true})
			return
		}
	}
	respondError(w, http.StatusNotFound, "Experience not found")
}

func (s *Server) createSkill(w http.ResponseWriter, r *http.Request) {
	var sk domain.Skill
	if !decode(w, r, &sk) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.skills {
		if strings.EqualFold(existing.Name, sk.Name) {
			respondError(w, http.StatusBadRequest, "Skill already exists")
			return
		}
	}
	sk.ID = s.allocID()
	s.skills = append(s.skills, sk)
	respondJSON(w, http.StatusOK, sk)
}

func (s *Server) updateSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var sk domain.Skill
	if !decode(w, r, &sk) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.skills {
		if s.skills[i].ID == id {
			sk.ID = id
			s.skills[i] = sk
			respondJSON(w, http.StatusOK, sk)
			return
		}
	}
	respondError(w, http.StatusNotFound, "Skill not found")
}

func (s *Server) deleteSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.skills {
		if s.skills[i].ID == id {
			s.skills = append(s.skills[:i], s.skills[i+1:]...)
			respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Skill deleted successfully", Success: true})
			return
		}
	}
	respondError(w, http.StatusNotFound, "Skill not found")
}

func (s *Server) saveAbout(w http.ResponseWriter, r *http.Request) {
	var a domain.About
	if !decode(w, r, &a) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = 1
	a.UpdatedAt = "2026-01-01T00:00:00"
	s.about = &a
	respondJSON(w, http.StatusOK, a)
}

func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Contact submission deleted", Success: true})
			return
		}
	}
	respondError(w, http.StatusNotFound, "Contact submission not found")
}

func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, domain.Contact{
		ID:      s.allocID(),
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	respondJSON(w, http.StatusOK, domain.MessageResponse{
		Message: "Thank you for your message! I'll get back to you soon.",
		Success: true,
	})
}

func (s *Server) restore(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()
	if !strings.HasSuffix(header.Filename, ".json") {
		respondError(w, http.StatusBadRequest, "Only .json files are allowed")
		return
	}
	content, _ := io.ReadAll(file)
	s.mu.Lock()
	s.restored = content
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, domain.RestoreResult{
		Success:        true,
		Message:        "Database restored successfully",
		BackupCreated:  "portfolio_backup_safety.json",
		IntegrityCheck: "passed",
		BytesWritten:   len(content),
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]any{"detail": detail, "success": false})
}

func respondValidation(w http.ResponseWriter, field, msg string) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": []string{"body", field}, "msg": msg, "type": "value_error"}},
	})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
