package review

import (
	"context"

	"serviceease/internal/domain"
)

type CreateReviewInput struct {
	ServiceID string
	UserID    string
	Rating    int
	Text      string
}

type UpdateReviewInput struct {
	Rating *int
	Text   *string
}

type Repository interface {
	// Create returns ErrAlreadyExists when the user has already reviewed
	// the service.
	Create(ctx context.Context, in CreateReviewInput) (*domain.Review, error)
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListAll(ctx context.Context) ([]domain.Review, error)
	ListByService(ctx context.Context, serviceID string) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Review, error)
	Update(ctx context.Context, id string, in UpdateReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}
