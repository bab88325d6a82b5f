package auth

import (
	"context"

	"serviceease/internal/domain"
)

// MembershipRepo answers group-membership questions for users.
type MembershipRepo interface {
	IsMember(ctx context.Context, userID, group string) (bool, error)
}

// Resolver decides whether a principal is an administrator. The lookup hits
// the membership repo at most once per request: results are memoized on the
// request-scoped role cache when one is present on the context.
type Resolver struct {
	groups MembershipRepo
}

func NewResolver(groups MembershipRepo) *Resolver {
	return &Resolver{groups: groups}
}

// IsAdmin reports whether p belongs to the Admin group.
func (r *Resolver) IsAdmin(ctx context.Context, p Principal) (bool, error) {
	cache := roleCacheFrom(ctx)
	if cache != nil {
		if v, ok := cache.lookup(p.ID); ok {
			return v, nil
		}
	}
	isAdmin, err := r.groups.IsMember(ctx, p.ID, domain.GroupAdmin)
	if err != nil {
		return false, err
	}
	if cache != nil {
		cache.store(p.ID, isAdmin)
	}
	return isAdmin, nil
}
