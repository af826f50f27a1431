// Package api exposes the HTTP surface of the file crypto service.
package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vaheed/filecrypt/internal/lib/httperr"
	"github.com/vaheed/filecrypt/internal/logging"
	"github.com/vaheed/filecrypt/internal/ratelimit"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	version         = "0.1.0"
	otelServiceName = "filecrypt-api"

	// maxUploadBytes caps request bodies before any handler runs.
	maxUploadBytes int64 = 100 << 20 // 100MB

	// maxJSONBytes caps the small JSON endpoints.
	maxJSONBytes int64 = 1 << 20 // 1MB

	// ipCeilingLimit is a coarse router-wide per-IP ceiling on top of the
	// per-endpoint limiter rules.
	ipCeilingLimit  = 300
	ipCeilingWindow = time.Minute
)

// Server exposes the HTTP handlers for the file crypto API. The rate-limit
// store is injected so deployments can share one Redis and tests can supply a
// deterministic in-memory store.
type Server struct {
	limiter     ratelimit.Store
	fileOps     ratelimit.Rule
	keygen      ratelimit.Rule
	requireAuth bool
	signingKey  []byte
}

// NewServer builds a Server around the provided rate-limit store. The signing
// key comes from SECRET_KEY and falls back to a random per-process key so
// issued tokens can still be parsed by the same process.
func NewServer(limiter ratelimit.Store) *Server {
	key := []byte(os.Getenv("SECRET_KEY"))
	if len(key) == 0 {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err == nil {
			key = []byte(hex.EncodeToString(raw))
		}
	}
	return &Server{
		limiter:     limiter,
		fileOps:     ratelimit.FileOps,
		keygen:      ratelimit.Keygen,
		requireAuth: parseBool(os.Getenv("FILECRYPT_REQUIRE_AUTH")),
		signingKey:  key,
	}
}

// Router returns the configured HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(otelhttp.NewMiddleware(otelServiceName))
	r.Use(s.logMiddleware)
	r.Use(maxUploadMiddleware)
	r.Use(httprate.Limit(
		ipCeilingLimit, ipCeilingWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httperr.Write(w, http.StatusTooManyRequests, "Rate limit exceeded")
		}),
	))

	r.Get("/", s.index)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/healthz", s.healthz)
		api.Post("/tokens", s.issueToken)

		api.Group(func(pr chi.Router) {
			pr.Use(s.authMiddleware)
			pr.Post("/encrypt", s.encrypt)
			pr.Post("/decrypt", s.decrypt)
			pr.Post("/generate-keys", s.generateKeys)
			pr.Post("/validate-password", s.validatePassword)
		})
	})

	return r
}

// StartHTTP listens and serves until the context is canceled.
func StartHTTP(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		_ = srv.Shutdown(context.Background())
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		}
		spanCtx := trace.SpanContextFromContext(r.Context())
		if spanCtx.IsValid() {
			fields = append(fields, zap.String("trace_id", spanCtx.TraceID().String()))
		}
		logging.L.Info("http_request", fields...)
	})
}

// maxUploadMiddleware enforces the 100MB body cap before handlers run.
func maxUploadMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the requesting client for rate limiting. RealIP has
// already rewritten RemoteAddr when forwarding headers are present.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}
