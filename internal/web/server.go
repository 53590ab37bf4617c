// Package web serves the fact-checking UI: credential fields, a claim box,
// an image upload and the rendered verdict.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"image"
	"net"
	"net/http"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/session"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templateFS embed.FS

// Extractor turns an uploaded image into claim text
type Extractor interface {
	ExtractText(ctx context.Context, img image.Image) (string, error)
}

// Resolver verifies a claim with one session's credentials
type Resolver interface {
	Resolve(ctx context.Context, claim string, creds model.Credentials) (*model.Verdict, error)
}

// Server holds the UI handlers and their dependencies
type Server struct {
	config    *model.Config
	store     *session.Store
	extractor Extractor
	resolver  Resolver
	logger    *zap.Logger
	page      *template.Template
	markdown  goldmark.Markdown
	msg       messages
}

// NewServer creates a UI server. A nil logger disables logging.
func NewServer(cfg *model.Config, store *session.Store, extractor Extractor, resolver Resolver, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = session.NewStore(cfg.Session)
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		config:    cfg,
		store:     store,
		extractor: extractor,
		resolver:  resolver,
		logger:    logger,
		page:      page,
		// Raw HTML in model output is dropped; goldmark is safe by default
		markdown: goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Table)),
		msg:      messagesFor(cfg.Prompt.Language),
	}, nil
}

// Handler returns the routed handler wrapped with request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /extract", s.handleExtract)
	mux.HandleFunc("POST /verify", s.handleVerify)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.logRequests(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.Server.ReadTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web UI listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down web UI")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// renderMarkdown converts verdict markdown to HTML. On failure the escaped
// source is shown instead.
func (s *Server) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		s.logger.Warn("markdown render failed", zap.Error(err))
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
