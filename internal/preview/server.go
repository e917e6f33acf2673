// Package preview implements the develop server: it serves the built site,
// watches the data and template directories and rebuilds on change.
package preview

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/eventsite/internal/logfields"
	"git.home.luguber.info/inful/eventsite/internal/metrics"
	"git.home.luguber.info/inful/eventsite/internal/site"
)

// Builder runs one site build.
type Builder interface {
	Build(ctx context.Context) (*site.Report, error)
}

// Options configures the develop server.
type Options struct {
	Host      string
	Port      int
	OutputDir string
	// WatchDirs are watched recursively; missing directories are skipped.
	WatchDirs []string
	Debounce  time.Duration
	// Registry backs /metrics. Optional.
	Registry *prom.Registry
	Logger   *slog.Logger
}

// Server is the develop server.
type Server struct {
	opts    Options
	builder Builder
	status  *buildStatus
	logger  *slog.Logger
}

// New creates a develop server around builder.
func New(builder Builder, opts Options) *Server {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{opts: opts, builder: builder, status: &buildStatus{}, logger: opts.Logger}
}

// Status returns the latest build status.
func (s *Server) Status() Snapshot { return s.status.snapshot() }

// Rebuild runs one build and records its result.
func (s *Server) Rebuild(ctx context.Context) error {
	report, err := s.builder.Build(ctx)
	if err != nil {
		s.status.setError(err)
		s.logger.Warn("Rebuild failed", logfields.Error(err))
		return err
	}
	s.status.setSuccess()
	s.logger.Info("Site rebuilt", logfields.Count(report.Pages), logfields.Duration(report.Duration()))
	return nil
}

// Router returns the HTTP routes of the develop server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", metrics.HTTPHandler(s.opts.Registry))

	files := http.FileServer(http.Dir(s.opts.OutputDir))
	r.With(middleware.NoCache).Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if snap := s.status.snapshot(); !snap.HasGoodBuild && snap.Error != "" {
			http.Error(w, "build failed: "+snap.Error, http.StatusServiceUnavailable)
			return
		}
		files.ServeHTTP(w, req)
	}))
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := s.status.snapshot()
	code := http.StatusOK
	if !snap.Healthy {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(snap)
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
}

// Run performs the initial build, serves HTTP and rebuilds on change until ctx
// is canceled. A failed initial build does not stop the server.
func (s *Server) Run(ctx context.Context) error {
	_ = s.Rebuild(ctx)

	watcher, err := newWatcher(s.opts.WatchDirs, s.logger)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	s.logger.Info("Preview server listening", slog.String("url", "http://"+ln.Addr().String()))

	deb := newDebouncer(s.opts.Debounce)
	defer deb.stop()
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go runRebuildWorker(workerCtx, deb, func(ctx context.Context) {
		s.logger.Info("Change detected; rebuilding site")
		_ = s.Rebuild(ctx)
	})

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(srv)
		case err, ok := <-serveErr:
			if ok && err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return s.shutdown(srv)
			}
			handleFileEvent(watcher, ev, deb.trigger, s.logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return s.shutdown(srv)
			}
			s.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) shutdown(srv *http.Server) error {
	s.logger.Info("Shutting down preview server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
