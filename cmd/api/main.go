package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vaheed/filecrypt/internal/api"
	"github.com/vaheed/filecrypt/internal/logging"
	"github.com/vaheed/filecrypt/internal/observability"
	"github.com/vaheed/filecrypt/internal/ratelimit"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var limiter ratelimit.Store
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		rl := ratelimit.NewRedis(addr)
		if err := rl.Ping(ctx); err != nil {
			logging.L.Fatal("redis limiter init", zap.String("addr", addr), zap.Error(err))
		}
		defer rl.Close()
		limiter = rl
		logging.L.Info("rate limiter backed by redis", zap.String("addr", addr))
	} else {
		limiter = ratelimit.NewMemory()
	}

	shutdown, err := observability.Setup(ctx, observability.Config{
		ServiceName: "filecrypt-api",
	})
	if err != nil {
		logging.L.Error("otel setup", zap.Error(err))
	}
	defer func() { _ = shutdown(context.Background()) }()

	srv := api.NewServer(limiter)
	s := &http.Server{Addr: envOrDefault("FILECRYPT_ADDR", ":8080"), Handler: srv.Router()}
	logging.L.Info("filecrypt API listening", zap.String("addr", s.Addr))
	if err := api.StartHTTP(ctx, s); err != nil && err != context.Canceled {
		logging.L.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
