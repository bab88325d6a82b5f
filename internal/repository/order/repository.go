package order

import (
	"context"

	"serviceease/internal/domain"
)

type UpdateOrderInput struct {
	ClientID *string
	Status   *domain.OrderStatus
}

type AddLineInput struct {
	ServiceID string
	Quantity  int
}

type Repository interface {
	// CreateFromCart turns the client's cart into a pending order in a
	// single transaction: the cart is locked, its lines are copied with the
	// current service name, price and duration, the total is computed, and
	// the cart is removed. ErrNotFound means the client has no cart; an
	// empty cart yields a ValidationError.
	CreateFromCart(ctx context.Context, clientID string) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Order, error)
	Update(ctx context.Context, id string, in UpdateOrderInput) (*domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) error

	GetLine(ctx context.Context, lineID string) (*domain.OrderLine, error)
	// AddLine snapshots the service onto the order and recomputes the total.
	AddLine(ctx context.Context, orderID string, in AddLineInput) (*domain.OrderLine, error)
	DeleteLine(ctx context.Context, lineID string) error
}
