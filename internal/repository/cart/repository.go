package cart

import (
	"context"

	"serviceease/internal/domain"
)

type AddLineInput struct {
	ServiceID string
	Quantity  int
}

type Repository interface {
	// GetOrCreateByUser returns the user's cart, creating an empty one if
	// none exists yet. The second return value reports whether a new cart
	// was created. Concurrent calls for the same user converge on a single
	// cart.
	GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, bool, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	List(ctx context.Context) ([]domain.Cart, error)
	Delete(ctx context.Context, id string) error

	// AddLine inserts a line for the service, or merges quantities when the
	// cart already holds one for it.
	AddLine(ctx context.Context, cartID string, in AddLineInput) (*domain.CartLine, error)
	GetLine(ctx context.Context, lineID string) (*domain.CartLine, string, error)
	SetLineQuantity(ctx context.Context, lineID string, quantity int) (*domain.CartLine, error)
	DeleteLine(ctx context.Context, lineID string) error
}
