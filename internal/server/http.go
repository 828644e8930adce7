// Package server exposes the renderer over HTTP for editors and web previews.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mithrel/quill/internal/logging"
	"github.com/mithrel/quill/pkg/api"
)

// Renderer is the subset of preview.Service the server needs.
type Renderer interface {
	Render(ctx context.Context, req api.RenderRequest) (api.RenderResult, error)
	Rules(safe bool) []api.RuleInfo
}

// Options configure a Server.
type Options struct {
	// Token, when set, must be sent as "Authorization: Bearer <token>" on /v1 routes.
	Token        string
	MaxBodyBytes int64
}

const defaultMaxBody = 1 << 20

// Server serves render and rule listing endpoints.
type Server struct {
	r    Renderer
	log  *zap.Logger
	opts Options
}

func New(r Renderer, log *zap.Logger, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}
	opts.Token = strings.TrimSpace(opts.Token)
	return &Server{r: r, log: logging.OrNop(log), opts: opts}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/render", s.auth(s.handleRender))
	mux.HandleFunc("/v1/rules", s.auth(s.handleRules))
	return s.logRequests(mux)
}

// Serve runs the router on l until ctx is cancelled, then drains in-flight
// requests for up to shutdownGrace.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	s.log.Info("listening", zap.String("addr", l.Addr().String()))
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}

const shutdownGrace = 5 * time.Second

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(s.opts.Token)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}

// handleRender accepts either a JSON api.RenderRequest (answered with an
// api.RenderResult) or raw text/plain Markdown (answered with the HTML
// fragment). For raw bodies the flags come from ?compact=1&safe=1.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	asJSON := isJSON(r.Header.Get("Content-Type"))
	var req api.RenderRequest
	if asJSON {
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
	} else {
		q := r.URL.Query()
		req = api.RenderRequest{Content: string(body), Compact: queryBool(q.Get("compact")), Safe: queryBool(q.Get("safe"))}
	}

	res, err := s.r.Render(r.Context(), req)
	if err != nil {
		s.log.Warn("render failed", zap.Error(err))
		http.Error(w, "render failed", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("ETag", strconv.Quote(res.Hash))
	if asJSON {
		writeJSON(w, res)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, res.HTML)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.r.Rules(queryBool(r.URL.Query().Get("safe"))))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func isJSON(contentType string) bool {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mt), "application/json")
}

func queryBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
