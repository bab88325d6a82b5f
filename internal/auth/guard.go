package auth

import "context"

// Resource tags the kinds of objects the ownership guard can rule on. Each
// variant carries exactly the owner identity its rule needs, so every arm
// of the access check is spelled out below rather than probed at runtime.
type Resource interface {
	isResource()
}

type UserResource struct{ UserID string }

type ProfileResource struct{ OwnerID string }

type OrderResource struct{ ClientID string }

type CartResource struct{ OwnerID string }

// CartLineResource resolves ownership through the parent cart.
type CartLineResource struct{ CartOwnerID string }

// ReviewResource resolves ownership through the review's author.
type ReviewResource struct{ AuthorID string }

func (UserResource) isResource()     {}
func (ProfileResource) isResource()  {}
func (OrderResource) isResource()    {}
func (CartResource) isResource()     {}
func (CartLineResource) isResource() {}
func (ReviewResource) isResource()   {}

// Guard answers whether a principal may act on a resource instance:
// admins always may, owners may, everyone else may not.
type Guard struct {
	roles *Resolver
}

func NewGuard(roles *Resolver) *Guard {
	return &Guard{roles: roles}
}

// CanAccess is a pure function of (principal, resource); its only side
// effect is the admin-status memoization inside the role resolver.
func (g *Guard) CanAccess(ctx context.Context, p Principal, res Resource) (bool, error) {
	isAdmin, err := g.roles.IsAdmin(ctx, p)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return true, nil
	}
	switch r := res.(type) {
	case UserResource:
		return r.UserID == p.ID, nil
	case ProfileResource:
		return r.OwnerID == p.ID, nil
	case OrderResource:
		return r.ClientID == p.ID, nil
	case CartResource:
		return r.OwnerID == p.ID, nil
	case CartLineResource:
		return r.CartOwnerID == p.ID, nil
	case ReviewResource:
		return r.AuthorID == p.ID, nil
	}
	return false, nil
}
