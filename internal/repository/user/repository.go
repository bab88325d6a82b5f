package user

import (
	"context"

	"serviceease/internal/domain"
)

type CreateUserInput struct {
	Email        string
	Username     string
	PasswordHash string
}

type UpdateUserInput struct {
	Email    *string
	Username *string
}

type UpdateProfileInput struct {
	FullName    *string
	PhoneNumber *string
	Address     *string
	PictureURL  *string
	Bio         *string
	DateOfBirth *string
}

type Repository interface {
	// Create inserts the user, its empty profile and the Client group
	// membership in one transaction.
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error

	IsMember(ctx context.Context, userID, group string) (bool, error)

	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.Profile, error)
	DeleteProfile(ctx context.Context, userID string) error
}
