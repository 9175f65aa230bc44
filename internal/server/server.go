// Package server exposes the import pipeline over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pvekit/scriptport/internal/categories"
	"github.com/pvekit/scriptport/internal/credentials"
	"github.com/pvekit/scriptport/internal/importer"
	"github.com/pvekit/scriptport/internal/manifest"
)

// Server bundles the handlers for the HTTP API.
type Server struct {
	imp   *importer.Importer
	cats  *categories.Manager
	creds *credentials.Store
	log   *slog.Logger
}

// New creates a Server. creds may be nil when no store secret is configured;
// the credential endpoints then respond 503.
func New(imp *importer.Importer, cats *categories.Manager, creds *credentials.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{imp: imp, cats: cats, creds: creds, log: log}
}

// Routes builds the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/import/github", s.handleImport)
		r.Get("/preview", s.handlePreview)

		r.Route("/imports", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Get("/{slug}", s.handleGet)
			r.Delete("/{slug}", s.handleRemove)
			r.Post("/{slug}/update", s.handleUpdate)
			r.Patch("/{slug}/category", s.handleSetCategory)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleCategoryList)
			r.Post("/", s.handleCategoryAdd)
			r.Delete("/{id}", s.handleCategoryRemove)
		})

		r.Route("/credentials", func(r chi.Router) {
			r.Use(s.requireCredentialStore)
			r.Get("/", s.handleCredentialList)
			r.Post("/", s.handleCredentialAdd)
			r.Put("/{id}", s.handleCredentialUpdate)
			r.Delete("/{id}", s.handleCredentialRemove)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]string{"status": "ok"})
}

type importRequest struct {
	URL         string `json:"url"`
	Category    int    `json:"category,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	CPU         int    `json:"cpu,omitempty"`
	RAM         int    `json:"ram,omitempty"`
	HDD         int    `json:"hdd,omitempty"`
	Port        int    `json:"port,omitempty"`
}

func (req importRequest) overrides() manifest.Overrides {
	return manifest.Overrides{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		CPU:         req.CPU,
		RAM:         req.RAM,
		HDD:         req.HDD,
		Port:        req.Port,
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.URL == "" {
		badRequest(w, "url is required")
		return
	}

	res, err := s.imp.Import(r.Context(), req.URL, req.overrides())
	if err != nil {
		s.log.Error("import failed", "url", req.URL, "error", err)
		fail(w, err)
		return
	}
	created(w, res)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		badRequest(w, "url query parameter is required")
		return
	}

	res, err := s.imp.Preview(r.Context(), url)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, res)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.imp.List(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, entries)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	m, err := s.imp.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, m)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := s.imp.Remove(r.Context(), slug); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "removed " + slug})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	res, err := s.imp.Update(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, res)
}

func (s *Server) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category int `json:"category"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if _, err := s.cats.Get(req.Category); err != nil {
		fail(w, err)
		return
	}
	if err := s.imp.SetCategory(r.Context(), chi.URLParam(r, "slug"), req.Category); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "category updated"})
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	cats, err := s.cats.List()
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, cats)
}

func (s *Server) handleCategoryAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil || req.Name == "" {
		badRequest(w, "name is required")
		return
	}

	cat, err := s.cats.Add(req.Name)
	if err != nil {
		fail(w, err)
		return
	}
	created(w, cat)
}

func (s *Server) handleCategoryRemove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "category id must be numeric")
		return
	}
	if err := s.cats.Remove(id); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "category removed"})
}

func (s *Server) requireCredentialStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.creds == nil {
			writeJSON(w, http.StatusServiceUnavailable, envelope{
				Success: false,
				Message: "credential store is not configured; set SCRIPTPORT_SECRET",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCredentialList(w http.ResponseWriter, r *http.Request) {
	creds, err := s.creds.List()
	if err != nil {
		fail(w, err)
		return
	}
	redacted := make([]credentials.Credential, len(creds))
	for i, c := range creds {
		redacted[i] = c.Redacted()
	}
	ok(w, redacted)
}

func (s *Server) handleCredentialAdd(w http.ResponseWriter, r *http.Request) {
	var c credentials.Credential
	if err := decode(r, &c); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if c.Name == "" || c.Token == "" {
		badRequest(w, "name and token are required")
		return
	}

	added, err := s.creds.Add(c)
	if err != nil {
		fail(w, err)
		return
	}
	created(w, added.Redacted())
}

func (s *Server) handleCredentialUpdate(w http.ResponseWriter, r *http.Request) {
	var c credentials.Credential
	if err := decode(r, &c); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	c.ID = chi.URLParam(r, "id")

	updated, err := s.creds.Update(c)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, updated.Redacted())
}

func (s *Server) handleCredentialRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.creds.Remove(chi.URLParam(r, "id")); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "credential removed"})
}
