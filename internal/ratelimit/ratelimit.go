// Package ratelimit exposes the per-user rate check the chat pipeline calls
// before spending provider tokens. Only the no-op policy exists today; a
// real quota can be swapped in without touching the handlers.
package ratelimit

import "context"

// Limiter answers whether a user may run another exchange right now.
type Limiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// Noop allows every request.
type Noop struct{}

// Allow implements Limiter.
func (Noop) Allow(context.Context, string) (bool, error) {
	return true, nil
}
