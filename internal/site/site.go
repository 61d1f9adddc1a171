package site

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kamal-hamza/folio-cli/internal/adapters/visits"
	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the public site
type Options struct {
	Sources  Sources
	Contact  *services.ContactService
	Visits   ports.VisitStore // nil disables visitor counting
	Salt     string           // visitor hash salt; random when empty
	Logger   *log.Logger
	Timeout  time.Duration // bound on building one page
	Backend  string        // shown on the unreachable page
	Accesses io.Writer     // request log; nil discards
}

// Server renders the public portfolio page from the backend
type Server struct {
	opts   Options
	engine *gin.Engine
	logger *log.Logger
}

// New builds the router
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Accesses == nil {
		opts.Accesses = io.Discard
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Salt == "" {
		salt, err := randomSalt()
		if err != nil {
			return nil, err
		}
		opts.Salt = salt
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"join": strings.Join,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{opts: opts, logger: opts.Logger}

	r := gin.New()
	r.Use(gin.LoggerWithWriter(opts.Accesses), gin.Recovery())
	r.SetHTMLTemplate(tmpl)
	if opts.Visits != nil {
		r.Use(s.trackVisitors())
	}

	r.GET("/", s.index)
	r.POST("/contact", s.contact)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine = r
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.opts.Timeout)
	defer cancel()

	content, err := s.opts.Sources.Load(ctx)
	if err != nil {
		s.logger.Printf("public page: %v", err)
		c.HTML(http.StatusServiceUnavailable, "unreachable.html", gin.H{
			"backend": s.opts.Backend,
		})
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"about":      content.About,
		"featured":   content.Featured,
		"projects":   content.Projects,
		"experience": content.Experience,
		"skills":     content.Skills,
	})
}

func (s *Server) contact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "contact-result.html", gin.H{
			"error": "Sorry, that submission could not be read.",
		})
		return
	}

	resp, err := s.opts.Contact.Send(c.Request.Context(), req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			c.HTML(http.StatusUnprocessableEntity, "contact-result.html", gin.H{"error": vErr.Error()})
			return
		}
		s.logger.Printf("contact: %v", err)
		c.HTML(http.StatusBadGateway, "contact-result.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "contact-result.html", gin.H{"success": resp.Message})
}

// trackVisitors counts page views with hashed addresses and honors Do Not Track
func (s *Server) trackVisitors() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/favicon") ||
			path == "/healthz" {
			c.Next()
			return
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		hash := visits.HashVisitor(c.ClientIP(), s.opts.Salt)
		if err := s.opts.Visits.Record(c.Request.Context(), hash, path); err != nil {
			s.logger.Printf("visit: %v", err)
		}
		c.Next()
	}
}

func randomSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
