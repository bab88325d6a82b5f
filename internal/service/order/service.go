package order

import (
	"context"
	"errors"

	"serviceease/internal/auth"
	"serviceease/internal/domain"
	"serviceease/internal/logger"
	orderrepo "serviceease/internal/repository/order"
)

// Service turns carts into orders and manages their lifecycle.
type Service struct {
	orders orderrepo.Repository
	guard  *auth.Guard
	roles  *auth.Resolver
	log    *logger.Logger
}

func New(orders orderrepo.Repository, guard *auth.Guard, roles *auth.Resolver, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{orders: orders, guard: guard, roles: roles, log: log}
}

type CheckoutInput struct {
	Client *string `json:"client"`
}

// Checkout places an order from the client's cart. Regular callers order
// for themselves; admins must name the client they order on behalf of.
func (s *Service) Checkout(ctx context.Context, p auth.Principal, in CheckoutInput) (*domain.Order, error) {
	admin, err := s.roles.IsAdmin(ctx, p)
	if err != nil {
		return nil, err
	}

	clientID := p.ID
	if admin {
		if in.Client == nil || *in.Client == "" {
			return nil, domain.NewValidationError("client", "admin must specify a client to place the order for")
		}
		clientID = *in.Client
	} else if in.Client != nil && *in.Client != "" && *in.Client != p.ID {
		return nil, domain.NewValidationError("client", "cannot place an order for another user")
	}

	return s.orders.CreateFromCart(ctx, clientID)
}

// List returns all orders for admins and only the caller's own otherwise.
func (s *Service) List(ctx context.Context, p auth.Principal) ([]domain.Order, error) {
	admin, err := s.roles.IsAdmin(ctx, p)
	if err != nil {
		return nil, err
	}
	if admin {
		return s.orders.ListAll(ctx)
	}
	return s.orders.ListByClient(ctx, p.ID)
}

func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, p, auth.OrderResource{ClientID: o.ClientID}); err != nil {
		return nil, err
	}
	return o, nil
}

type UpdateInput struct {
	Client *string `json:"client"`
	Status *string `json:"status"`
}

// Update patches an order. Only admins may move the status or reassign the
// client; for other callers those fields are dropped without complaint, so
// a client updating an order never fails on a status it cannot touch.
func (s *Service) Update(ctx context.Context, p auth.Principal, id string, in UpdateInput) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, p, auth.OrderResource{ClientID: o.ClientID}); err != nil {
		return nil, err
	}

	admin, err := s.roles.IsAdmin(ctx, p)
	if err != nil {
		return nil, err
	}
	if !admin {
		in.Status = nil
		in.Client = nil
	}

	var status *domain.OrderStatus
	if in.Status != nil {
		st := domain.OrderStatus(*in.Status)
		if !st.Valid() {
			return nil, domain.NewValidationError("status", "invalid order status")
		}
		status = &st
	}
	if in.Client == nil && status == nil {
		return o, nil
	}
	updated, err := s.orders.Update(ctx, id, orderrepo.UpdateOrderInput{ClientID: in.Client, Status: status})
	if err != nil {
		return nil, err
	}
	if status != nil {
		s.log.Info("order status changed", "order_id", id, "status", string(*status))
	}
	return updated, nil
}

// Delete removes an order. Admin only.
func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) error {
	if err := s.requireAdmin(ctx, p); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

func (s *Service) GetLine(ctx context.Context, p auth.Principal, lineID string) (*domain.OrderLine, error) {
	line, err := s.orders.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.GetByID(ctx, line.OrderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, p, auth.OrderResource{ClientID: o.ClientID}); err != nil {
		return nil, err
	}
	return line, nil
}

type AddLineInput struct {
	Order    string `json:"order"`
	Service  string `json:"service"`
	Quantity int    `json:"quantity"`
}

// AddLine appends a service to a placed order, snapshotting its current
// price. Admin only: placed orders are otherwise immutable.
func (s *Service) AddLine(ctx context.Context, p auth.Principal, in AddLineInput) (*domain.OrderLine, error) {
	if err := s.requireAdmin(ctx, p); err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, domain.NewValidationError("quantity", "quantity must be at least 1")
	}
	if _, err := s.orders.GetByID(ctx, in.Order); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("order", "order does not exist")
		}
		return nil, err
	}
	line, err := s.orders.AddLine(ctx, in.Order, orderrepo.AddLineInput{ServiceID: in.Service, Quantity: in.Quantity})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("service", "service does not exist")
		}
		return nil, err
	}
	return line, nil
}

// DeleteLine removes a line from a placed order. Admin only.
func (s *Service) DeleteLine(ctx context.Context, p auth.Principal, lineID string) error {
	if err := s.requireAdmin(ctx, p); err != nil {
		return err
	}
	return s.orders.DeleteLine(ctx, lineID)
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

func (s *Service) requireAccess(ctx context.Context, p auth.Principal, res auth.Resource) error {
	ok, err := s.guard.CanAccess(ctx, p, res)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}
