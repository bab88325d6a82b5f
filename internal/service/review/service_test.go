package review

import (
	"context"
	"errors"
	"testing"

	"serviceease/internal/auth"
	"serviceease/internal/domain"
	catrepo "serviceease/internal/repository/catalog"
	reviewrepo "serviceease/internal/repository/review"
)

type stubMembers map[string]bool

func (s stubMembers) IsMember(_ context.Context, userID, group string) (bool, error) {
	return group == domain.GroupAdmin && s[userID], nil
}

type stubReviewRepo struct {
	byID      map[string]*domain.Review
	createErr error
	created   *reviewrepo.CreateReviewInput
	deleted   []string
}

func (s *stubReviewRepo) Create(_ context.Context, in reviewrepo.CreateReviewInput) (*domain.Review, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &in
	return &domain.Review{ID: "r1", ServiceID: in.ServiceID, UserID: in.UserID, Rating: in.Rating, Text: in.Text}, nil
}

func (s *stubReviewRepo) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (s *stubReviewRepo) ListAll(context.Context) ([]domain.Review, error) { return nil, nil }
func (s *stubReviewRepo) ListByService(context.Context, string) ([]domain.Review, error) {
	return nil, nil
}

func (s *stubReviewRepo) ListByUser(_ context.Context, userID string) ([]domain.Review, error) {
	var mine []domain.Review
	for _, r := range s.byID {
		if r.UserID == userID {
			mine = append(mine, *r)
		}
	}
	return mine, nil
}

func (s *stubReviewRepo) Update(ctx context.Context, id string, _ reviewrepo.UpdateReviewInput) (*domain.Review, error) {
	return s.GetByID(ctx, id)
}

func (s *stubReviewRepo) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubServices map[string]*domain.Service

func (s stubServices) ListCategories(context.Context) ([]domain.Category, error) { return nil, nil }
func (s stubServices) GetCategory(context.Context, string) (*domain.Category, error) {
	return nil, domain.ErrNotFound
}
func (s stubServices) CreateCategory(context.Context, catrepo.CreateCategoryInput) (*domain.Category, error) {
	return nil, nil
}
func (s stubServices) UpdateCategory(context.Context, string, catrepo.CreateCategoryInput) (*domain.Category, error) {
	return nil, nil
}
func (s stubServices) DeleteCategory(context.Context, string) error { return nil }
func (s stubServices) ListServices(context.Context, catrepo.ListServicesInput) ([]domain.Service, error) {
	return nil, nil
}
func (s stubServices) GetService(_ context.Context, id string) (*domain.Service, error) {
	svc, ok := s[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return svc, nil
}
func (s stubServices) CreateService(context.Context, catrepo.CreateServiceInput) (*domain.Service, error) {
	return nil, nil
}
func (s stubServices) UpdateService(context.Context, string, catrepo.UpdateServiceInput) (*domain.Service, error) {
	return nil, nil
}
func (s stubServices) DeleteService(context.Context, string) error { return nil }

func newTestService(reviews *stubReviewRepo, services stubServices, admins ...string) *Service {
	m := stubMembers{}
	for _, id := range admins {
		m[id] = true
	}
	return New(reviews, services, auth.NewGuard(auth.NewResolver(m)), nil)
}

func ctx() context.Context {
	return auth.WithRoleCache(context.Background())
}

func TestCreateReviewValidation(t *testing.T) {
	reviews := &stubReviewRepo{}
	services := stubServices{"s1": {ID: "s1", Active: true}}
	svc := newTestService(reviews, services)
	p := auth.Principal{ID: "u1"}

	for _, rating := range []int{0, -1, 6} {
		if _, err := svc.Create(ctx(), p, CreateInput{Service: "s1", Rating: rating}); err == nil {
			t.Errorf("expected error for rating %d", rating)
		}
	}
	if _, err := svc.Create(ctx(), p, CreateInput{Service: "missing", Rating: 4}); err == nil {
		t.Fatal("expected error for unknown service")
	}

	rev, err := svc.Create(ctx(), p, CreateInput{Service: "s1", Rating: 4, Text: "  solid work  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rev.UserID != "u1" || reviews.created.Text != "solid work" {
		t.Fatalf("unexpected review %+v input %+v", rev, reviews.created)
	}
}

func TestDuplicateReviewBecomesValidationError(t *testing.T) {
	reviews := &stubReviewRepo{createErr: domain.ErrAlreadyExists}
	svc := newTestService(reviews, stubServices{"s1": {ID: "s1", Active: true}})

	_, err := svc.Create(ctx(), auth.Principal{ID: "u1"}, CreateInput{Service: "s1", Rating: 5})
	if verr, ok := domain.AsValidation(err); !ok || verr.Field != "service" {
		t.Fatalf("expected service validation error, got %v", err)
	}
}

func TestListByUserScopedToAuthorOrAdmin(t *testing.T) {
	reviews := &stubReviewRepo{byID: map[string]*domain.Review{
		"r1": {ID: "r1", UserID: "u1", Rating: 3},
		"r2": {ID: "r2", UserID: "u2", Rating: 5},
	}}
	svc := newTestService(reviews, stubServices{}, "admin")

	if _, err := svc.ListByUser(ctx(), auth.Principal{ID: "u2"}, "u1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	mine, err := svc.ListByUser(ctx(), auth.Principal{ID: "u1"}, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "r1" {
		t.Fatalf("unexpected reviews %+v", mine)
	}
	if _, err := svc.ListByUser(ctx(), auth.Principal{ID: "admin"}, "u1"); err != nil {
		t.Fatalf("admin ListByUser: %v", err)
	}
}

func TestUpdateAndDeleteScopedToAuthor(t *testing.T) {
	reviews := &stubReviewRepo{byID: map[string]*domain.Review{"r1": {ID: "r1", UserID: "u1", Rating: 3}}}
	svc := newTestService(reviews, stubServices{}, "admin")

	rating := 5
	if _, err := svc.Update(ctx(), auth.Principal{ID: "u2"}, "r1", UpdateInput{Rating: &rating}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.Update(ctx(), auth.Principal{ID: "u1"}, "r1", UpdateInput{Rating: &rating}); err != nil {
		t.Fatalf("author update: %v", err)
	}
	bad := 9
	if _, err := svc.Update(ctx(), auth.Principal{ID: "u1"}, "r1", UpdateInput{Rating: &bad}); err == nil {
		t.Fatal("expected error for out-of-range rating")
	}

	if err := svc.Delete(ctx(), auth.Principal{ID: "u2"}, "r1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
	if err := svc.Delete(ctx(), auth.Principal{ID: "admin"}, "r1"); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
