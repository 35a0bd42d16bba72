// Package web serves the upload, quiz, results and history screens as plain
// server-rendered pages in front of the remote quiz service.
package web

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/docquiz/internal/auth"
	"github.com/mind-engage/docquiz/internal/quiz"
	"github.com/mind-engage/docquiz/internal/results"
	"github.com/mind-engage/docquiz/internal/sessions"
	"github.com/mind-engage/docquiz/internal/upload"
)

const (
	defaultRequestTimeout = 60 * time.Second
	timeoutSlack          = 10 * time.Second
)

var errNoSigner = errors.New("web: identity signer is required")

//go:embed templates/*.html
var templateFS embed.FS

// Service is everything the screens need from the quiz service.
type Service interface {
	quiz.Service
	upload.Service
	results.Service
}

type Options struct {
	Sessions      sessions.Store
	Signer        *auth.Signer
	SecureCookies bool
	CORSOrigins   []string
	Location      *time.Location
	Logger        *log.Logger

	// RequestTimeout bounds a single quiz service call. Requests get this
	// plus timeoutSlack before the router cancels them.
	RequestTimeout time.Duration

	// Ready reports whether dependencies are reachable; nil means always.
	Ready func(r *http.Request) error
}

type Server struct {
	svc   Service
	opt   Options
	log   *log.Logger
	pages *template.Template
	locks *keyedLocks
}

func New(svc Service, opt Options) (*Server, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if opt.Sessions == nil {
		opt.Sessions = sessions.NewMemory()
	}
	if opt.Signer == nil {
		return nil, errNoSigner
	}
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = defaultRequestTimeout
	}
	if opt.Location == nil {
		opt.Location = time.Local
	}
	l := opt.Logger
	if l == nil {
		l = log.Default()
	}
	return &Server{svc: svc, opt: opt, log: l, pages: pages, locks: newKeyedLocks()}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(s.opt.RequestTimeout + timeoutSlack))

	// cors.Options with no origins allows any origin, so skip it entirely.
	if len(s.opt.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opt.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyHandler())

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(s.opt.Signer, s.opt.SecureCookies))

		pr.Get("/", s.indexHandler())
		pr.Post("/upload", s.uploadHandler())
		pr.Post("/generate", s.generateHandler())

		pr.Route("/quiz", func(qr chi.Router) {
			qr.Get("/", s.quizHandler())
			qr.Post("/select", s.selectHandler())
			qr.Post("/submit", s.submitHandler())
			qr.Post("/next", s.nextHandler())
		})

		pr.Get("/results", s.resultsHandler())
		pr.Get("/history", s.historyHandler())
		pr.Get("/api/identity", s.identityHandler())
	})
	return r
}

func (s *Server) readyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opt.Ready != nil {
			if err := s.opt.Ready(r); err != nil {
				http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.log.Printf("render %s: %v", name, err)
	}
}
