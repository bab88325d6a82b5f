package catalog

import (
	"context"

	"serviceease/internal/domain"

	"github.com/shopspring/decimal"
)

// ListServicesInput narrows and orders the service listing. Ordering accepts
// the API's field names ("price", "duration", "average_rating", "active"),
// optionally prefixed with "-" for descending; empty means the default
// ordering by average rating, best first.
type ListServicesInput struct {
	Search     string
	Ordering   string
	CategoryID string
	ActiveOnly bool
}

type CreateCategoryInput struct {
	Name        string
	Description string
}

type CreateServiceInput struct {
	Name        string
	Description string
	CategoryID  *string
	Price       decimal.Decimal
	Duration    domain.Duration
	ImageURL    string
	Active      bool
}

type UpdateServiceInput struct {
	Name        *string
	Description *string
	CategoryID  *string
	Price       *decimal.Decimal
	Duration    *domain.Duration
	ImageURL    *string
	Active      *bool
}

type Repository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in CreateCategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListServices(ctx context.Context, in ListServicesInput) ([]domain.Service, error)
	GetService(ctx context.Context, id string) (*domain.Service, error)
	CreateService(ctx context.Context, in CreateServiceInput) (*domain.Service, error)
	UpdateService(ctx context.Context, id string, in UpdateServiceInput) (*domain.Service, error)
	DeleteService(ctx context.Context, id string) error
}
