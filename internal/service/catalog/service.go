package catalog

import (
	"context"
	"strings"

	"serviceease/internal/auth"
	"serviceease/internal/domain"
	"serviceease/internal/logger"
	catrepo "serviceease/internal/repository/catalog"

	"github.com/shopspring/decimal"
)

// Service exposes the public catalog and its admin-only mutations.
type Service struct {
	repo  catrepo.Repository
	roles *auth.Resolver
	log   *logger.Logger
}

func New(repo catrepo.Repository, roles *auth.Resolver, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{repo: repo, roles: roles, log: log}
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// CategoryServices lists the active services attached to a category. A
// category with no active services reads as not found.
func (s *Service) CategoryServices(ctx context.Context, categoryID string) ([]domain.Service, error) {
	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	services, err := s.repo.ListServices(ctx, catrepo.ListServicesInput{CategoryID: categoryID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, domain.ErrNotFound
	}
	return services, nil
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) CreateCategory(ctx context.Context, p auth.Principal, in CategoryInput) (*domain.Category, error) {
	if err := s.requireAdmin(ctx, p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	return s.repo.CreateCategory(ctx, catrepo.CreateCategoryInput{Name: in.Name, Description: in.Description})
}

func (s *Service) UpdateCategory(ctx context.Context, p auth.Principal, id string, in CategoryInput) (*domain.Category, error) {
	if err := s.requireAdmin(ctx, p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	return s.repo.UpdateCategory(ctx, id, catrepo.CreateCategoryInput{Name: in.Name, Description: in.Description})
}

func (s *Service) DeleteCategory(ctx context.Context, p auth.Principal, id string) error {
	if err := s.requireAdmin(ctx, p); err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, id)
}

// ListInput carries the query parameters of the service listing.
type ListInput struct {
	Search   string
	Ordering string
	Category string
}

func (s *Service) ListServices(ctx context.Context, in ListInput) ([]domain.Service, error) {
	return s.repo.ListServices(ctx, catrepo.ListServicesInput{
		Search:     strings.TrimSpace(in.Search),
		Ordering:   in.Ordering,
		CategoryID: in.Category,
	})
}

func (s *Service) GetService(ctx context.Context, id string) (*domain.Service, error) {
	return s.repo.GetService(ctx, id)
}

type ServiceInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    *string         `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Duration    domain.Duration `json:"duration"`
	ImageURL    string          `json:"image_url"`
	Active      *bool           `json:"active"`
}

func (s *Service) CreateService(ctx context.Context, p auth.Principal, in ServiceInput) (*domain.Service, error) {
	if err := s.requireAdmin(ctx, p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "price must not be negative")
	}
	if in.Duration <= 0 {
		return nil, domain.NewValidationError("duration", "duration must be positive")
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	svc, err := s.repo.CreateService(ctx, catrepo.CreateServiceInput{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.Category,
		Price:       in.Price,
		Duration:    in.Duration,
		ImageURL:    in.ImageURL,
		Active:      active,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("service created", "service_id", svc.ID)
	return svc, nil
}

type UpdateServiceInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Duration    *domain.Duration `json:"duration"`
	ImageURL    *string          `json:"image_url"`
	Active      *bool            `json:"active"`
}

func (s *Service) UpdateService(ctx context.Context, p auth.Principal, id string, in UpdateServiceInput) (*domain.Service, error) {
	if err := s.requireAdmin(ctx, p); err != nil {
		return nil, err
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "price must not be negative")
	}
	if in.Duration != nil && *in.Duration <= 0 {
		return nil, domain.NewValidationError("duration", "duration must be positive")
	}
	return s.repo.UpdateService(ctx, id, catrepo.UpdateServiceInput{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.Category,
		Price:       in.Price,
		Duration:    in.Duration,
		ImageURL:    in.ImageURL,
		Active:      in.Active,
	})
}

func (s *Service) DeleteService(ctx context.Context, p auth.Principal, id string) error {
	if err := s.requireAdmin(ctx, p); err != nil {
		return err
	}
	return s.repo.DeleteService(ctx, id)
}

func (s *Service) requireAdmin(ctx context.Context, p auth.Principal) error {
	admin, err := s.roles.IsAdmin(ctx, p)
	if err != nil {
		return err
	}
	if !admin {
		return domain.ErrForbidden
	}
	return nil
}
