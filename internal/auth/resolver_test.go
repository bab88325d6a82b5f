package auth

import (
	"context"
	"errors"
	"testing"

	"serviceease/internal/domain"
)

type stubMembershipRepo struct {
	admins map[string]bool
	err    error
	calls  int
}

func (s *stubMembershipRepo) IsMember(_ context.Context, userID, group string) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	if group != domain.GroupAdmin {
		return false, nil
	}
	return s.admins[userID], nil
}

func TestResolverIsAdmin(t *testing.T) {
	repo := &stubMembershipRepo{admins: map[string]bool{"a1": true}}
	r := NewResolver(repo)
	ctx := WithRoleCache(context.Background())

	isAdmin, err := r.IsAdmin(ctx, Principal{ID: "a1"})
	if err != nil || !isAdmin {
		t.Fatalf("expected admin, got %v %v", isAdmin, err)
	}
	isAdmin, err = r.IsAdmin(ctx, Principal{ID: "u1"})
	if err != nil || isAdmin {
		t.Fatalf("expected non-admin, got %v %v", isAdmin, err)
	}
}

func TestResolverMemoizesPerRequest(t *testing.T) {
	repo := &stubMembershipRepo{admins: map[string]bool{"a1": true}}
	r := NewResolver(repo)
	ctx := WithRoleCache(context.Background())

	for i := 0; i < 5; i++ {
		if _, err := r.IsAdmin(ctx, Principal{ID: "a1"}); err != nil {
			t.Fatalf("IsAdmin: %v", err)
		}
	}
	if repo.calls != 1 {
		t.Fatalf("expected exactly one membership lookup, got %d", repo.calls)
	}
}

func TestResolverCacheDoesNotLeakAcrossRequests(t *testing.T) {
	repo := &stubMembershipRepo{admins: map[string]bool{"a1": true}}
	r := NewResolver(repo)

	ctx1 := WithRoleCache(context.Background())
	if _, err := r.IsAdmin(ctx1, Principal{ID: "a1"}); err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}

	// Membership changes between requests must be observed by a new request.
	repo.admins["a1"] = false
	ctx2 := WithRoleCache(context.Background())
	isAdmin, err := r.IsAdmin(ctx2, Principal{ID: "a1"})
	if err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}
	if isAdmin {
		t.Fatalf("second request saw cached state from the first")
	}
	if repo.calls != 2 {
		t.Fatalf("expected one lookup per request, got %d", repo.calls)
	}
}

func TestResolverWithoutCacheStillResolves(t *testing.T) {
	repo := &stubMembershipRepo{admins: map[string]bool{"a1": true}}
	r := NewResolver(repo)

	isAdmin, err := r.IsAdmin(context.Background(), Principal{ID: "a1"})
	if err != nil || !isAdmin {
		t.Fatalf("expected admin without cache, got %v %v", isAdmin, err)
	}
}

func TestResolverPropagatesLookupError(t *testing.T) {
	repo := &stubMembershipRepo{err: errors.New("db down")}
	r := NewResolver(repo)
	ctx := WithRoleCache(context.Background())

	if _, err := r.IsAdmin(ctx, Principal{ID: "a1"}); err == nil {
		t.Fatalf("expected error")
	}
}
