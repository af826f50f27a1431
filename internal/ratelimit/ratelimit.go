// Package ratelimit provides the per-client sliding-window request limiter
// used by the API handlers. The store is injected into the server rather than
// held in package state so tests can supply a deterministic clock and
// deployments can switch to Redis for multi-instance setups.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrLimited is returned by Limit when a client exhausted its window.
var ErrLimited = errors.New("rate limit exceeded")

// Store records request timestamps per client key and decides admission.
// Allow must prune entries older than the window, reject when the remaining
// count has reached limit, and otherwise record the new request.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Rule bundles a limit with its window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Default rules for the API surface.
var (
	FileOps = Rule{Limit: 10, Window: 60 * time.Second}
	Keygen  = Rule{Limit: 5, Window: 300 * time.Second}
)

// Limit applies a rule against the store, mapping denial to ErrLimited.
// Store failures deny the request rather than silently admitting it.
func Limit(ctx context.Context, st Store, key string, r Rule) error {
	ok, err := st.Allow(ctx, key, r.Limit, r.Window)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLimited
	}
	return nil
}
