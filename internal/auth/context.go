package auth

import (
	"context"
	"sync"
)

type ctxKey int

const (
	principalCtxKey ctxKey = iota
	roleCacheCtxKey
)

// WithPrincipal stores the authenticated principal on the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFrom returns the principal stored on the context, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(Principal)
	return p, ok
}

// roleCache memoizes admin-group membership per user for the lifetime of
// one request context. It is installed fresh by the auth middleware, so
// cached results can never leak into another request.
type roleCache struct {
	mu    sync.Mutex
	admin map[string]bool
}

// WithRoleCache installs a fresh, empty role cache on the context.
func WithRoleCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, roleCacheCtxKey, &roleCache{admin: make(map[string]bool)})
}

func roleCacheFrom(ctx context.Context) *roleCache {
	c, _ := ctx.Value(roleCacheCtxKey).(*roleCache)
	return c
}

func (c *roleCache) lookup(userID string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.admin[userID]
	return v, ok
}

func (c *roleCache) store(userID string, isAdmin bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.admin[userID] = isAdmin
}
