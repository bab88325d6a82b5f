package cart

import (
	"context"
	"errors"

	"serviceease/internal/auth"
	"serviceease/internal/domain"
	"serviceease/internal/logger"
	cartrepo "serviceease/internal/repository/cart"
	catrepo "serviceease/internal/repository/catalog"
)

// Service manages the per-user cart and its lines.
type Service struct {
	carts    cartrepo.Repository
	services catrepo.Repository
	guard    *auth.Guard
	roles    *auth.Resolver
	log      *logger.Logger
}

func New(carts cartrepo.Repository, services catrepo.Repository, guard *auth.Guard, roles *auth.Resolver, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{carts: carts, services: services, guard: guard, roles: roles, log: log}
}

// List returns every cart for admins and only the caller's own cart
// otherwise. A caller without a cart gets an empty list, not an error.
func (s *Service) List(ctx context.Context, p auth.Principal) ([]domain.Cart, error) {
	admin, err := s.roles.IsAdmin(ctx, p)
	if err != nil {
		return nil, err
	}
	if admin {
		return s.carts.List(ctx)
	}
	c, err := s.carts.GetByUser(ctx, p.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Cart{}, nil
		}
		return nil, err
	}
	return []domain.Cart{*c}, nil
}

// GetOrCreate returns the caller's cart, creating one on first use. The
// boolean reports whether a new cart was created.
func (s *Service) GetOrCreate(ctx context.Context, p auth.Principal) (*domain.Cart, bool, error) {
	return s.carts.GetOrCreateByUser(ctx, p.ID)
}

func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (*domain.Cart, error) {
	c, err := s.carts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, p, auth.CartResource{OwnerID: c.UserID}); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) error {
	c, err := s.carts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireAccess(ctx, p, auth.CartResource{OwnerID: c.UserID}); err != nil {
		return err
	}
	return s.carts.Delete(ctx, id)
}

type AddLineInput struct {
	Cart     string `json:"cart"`
	Service  string `json:"service"`
	Quantity int    `json:"quantity"`
}

// AddLine puts a service into a cart, merging quantities when the cart
// already holds a line for it.
func (s *Service) AddLine(ctx context.Context, p auth.Principal, in AddLineInput) (*domain.CartLine, error) {
	if in.Quantity < 1 {
		return nil, domain.NewValidationError("quantity", "quantity must be at least 1")
	}
	c, err := s.carts.GetByID(ctx, in.Cart)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, p, auth.CartResource{OwnerID: c.UserID}); err != nil {
		return nil, err
	}
	svc, err := s.services.GetService(ctx, in.Service)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, domain.NewValidationError("service", "service is not available")
	}
	line, err := s.carts.AddLine(ctx, c.ID, cartrepo.AddLineInput{ServiceID: svc.ID, Quantity: in.Quantity})
	if err != nil {
		return nil, err
	}
	s.log.Debug("cart line added", "cart_id", c.ID, "service_id", svc.ID, "quantity", line.Quantity)
	return line, nil
}

func (s *Service) GetLine(ctx context.Context, p auth.Principal, lineID string) (*domain.CartLine, error) {
	line, ownerID, err := s.carts.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, p, auth.CartLineResource{CartOwnerID: ownerID}); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *Service) SetLineQuantity(ctx context.Context, p auth.Principal, lineID string, quantity int) (*domain.CartLine, error) {
	if quantity < 1 {
		return nil, domain.NewValidationError("quantity", "quantity must be at least 1")
	}
	_, ownerID, err := s.carts.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, p, auth.CartLineResource{CartOwnerID: ownerID}); err != nil {
		return nil, err
	}
	return s.carts.SetLineQuantity(ctx, lineID, quantity)
}

func (s *Service) DeleteLine(ctx context.Context, p auth.Principal, lineID string) error {
	_, ownerID, err := s.carts.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	if err := s.requireAccess(ctx, p, auth.CartLineResource{CartOwnerID: ownerID}); err != nil {
		return err
	}
	return s.carts.DeleteLine(ctx, lineID)
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
