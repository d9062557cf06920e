// Package server exposes version mappings over a small read-only HTTP API.
//
// Routes:
//
//	GET /healthz
//	GET /v1/releases[?family=orml][&refresh=true]
//	GET /v1/releases/{release}/crates[?source=plan|lockfile][&family=orml]
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/paritytech/psvm/pkg/buildinfo"
	psvmerrors "github.com/paritytech/psvm/pkg/errors"
	"github.com/paritytech/psvm/pkg/integrations"
	"github.com/paritytech/psvm/pkg/versions"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Resolver resolves the version mapping of a release.
type Resolver interface {
	Resolve(ctx context.Context, req versions.Request) (versions.Mapping, error)
}

// Releases lists resolvable releases.
type Releases interface {
	Releases(ctx context.Context, refresh bool) ([]string, error)
	FamilyReleases(ctx context.Context, family string, refresh bool) ([]string, error)
}

// Server serves the API. It holds no per-request state.
type Server struct {
	resolver Resolver
	releases Releases
	logger   *log.Logger
}

// New creates a server. A nil logger selects log.Default().
func New(resolver Resolver, releases Releases, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{resolver: resolver, releases: releases, logger: logger}
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/releases", func(r chi.Router) {
		r.Get("/", s.handleReleases)
		r.Get("/{release}/crates", s.handleCrates)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return psvmerrors.Wrap(psvmerrors.ErrCodeInvalidInput, err, "listen %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Current()})
}

type releasesResponse struct {
	Family   string   `json:"family,omitempty"`
	Releases []string `json:"releases"`
}

func (s *Server) handleReleases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	refresh, _ := strconv.ParseBool(q.Get("refresh"))
	family := q.Get("family")

	var list []string
	var err error
	if family == "" {
		list, err = s.releases.Releases(r.Context(), refresh)
	} else {
		list, err = s.releases.FamilyReleases(r.Context(), family, refresh)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	if list == nil {
		list = []string{}
	}
	writeJSON(w, http.StatusOK, releasesResponse{Family: family, Releases: list})
}

type cratesResponse struct {
	Release  string            `json:"release"`
	Source   string            `json:"source"`
	Families []string          `json:"families,omitempty"`
	Crates   map[string]string `json:"crates"`
}

func (s *Server) handleCrates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source, err := versions.ParseSourceKind(q.Get("source"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	req := versions.Request{
		Release:  chi.URLParam(r, "release"),
		Source:   source,
		Families: splitList(q["family"]),
	}

	m, err := s.resolver.Resolve(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cratesResponse{
		Release:  req.Release,
		Source:   source.String(),
		Families: req.Families,
		Crates:   m,
	})
}

// splitList accepts both repeated and comma-separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

type errorResponse struct {
	Error string          `json:"error"`
	Code  psvmerrors.Code `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error: psvmerrors.UserMessage(err),
		Code:  psvmerrors.GetCode(err),
	})
}

func statusFor(err error) int {
	switch psvmerrors.GetCode(err) {
	case psvmerrors.ErrCodeNotFound, psvmerrors.ErrCodeUnknownFamily, psvmerrors.ErrCodeSnapshotNotFound:
		return http.StatusNotFound
	case psvmerrors.ErrCodeInvalidFormat:
		return http.StatusUnprocessableEntity
	case psvmerrors.ErrCodeInvalidInput, psvmerrors.ErrCodeInvalidRelease:
		return http.StatusBadRequest
	case psvmerrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case psvmerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, integrations.ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
