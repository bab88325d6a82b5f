package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"serviceease/internal/auth"
	"serviceease/internal/domain"
	cartrepo "serviceease/internal/repository/cart"
	catrepo "serviceease/internal/repository/catalog"
	orderrepo "serviceease/internal/repository/order"
	userrepo "serviceease/internal/repository/user"
	"serviceease/internal/logger"
	accountsvc "serviceease/internal/service/account"
	cartsvc "serviceease/internal/service/cart"
	ordersvc "serviceease/internal/service/order"

	"github.com/shopspring/decimal"
)

type memUserRepo struct {
	seq     int
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	admins  map[string]bool
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    map[string]*domain.User{},
		byEmail: map[string]*domain.User{},
		admins:  map[string]bool{},
	}
}

func (m *memUserRepo) Create(_ context.Context, in userrepo.CreateUserInput) (*domain.User, error) {
	if _, ok := m.byEmail[in.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	m.seq++
	u := &domain.User{
		ID:           fmt.Sprintf("u%d", m.seq),
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		Active:       true,
		Groups:       []string{domain.GroupClient},
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return u, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	var all []domain.User
	for _, u := range m.byID {
		all = append(all, *u)
	}
	return all, nil
}

func (m *memUserRepo) Update(ctx context.Context, id string, _ userrepo.UpdateUserInput) (*domain.User, error) {
	return m.GetByID(ctx, id)
}

func (m *memUserRepo) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *memUserRepo) IsMember(_ context.Context, userID, group string) (bool, error) {
	return group == domain.GroupAdmin && m.admins[userID], nil
}

func (m *memUserRepo) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	return &domain.Profile{UserID: userID}, nil
}

func (m *memUserRepo) UpdateProfile(_ context.Context, userID string, _ userrepo.UpdateProfileInput) (*domain.Profile, error) {
	return &domain.Profile{UserID: userID}, nil
}

func (m *memUserRepo) DeleteProfile(context.Context, string) error { return nil }

type memCartRepo struct {
	cart *domain.Cart
}

func (m *memCartRepo) GetOrCreateByUser(_ context.Context, userID string) (*domain.Cart, bool, error) {
	if m.cart != nil && m.cart.UserID == userID {
		return m.cart, false, nil
	}
	m.cart = &domain.Cart{ID: "c1", UserID: userID}
	return m.cart, true, nil
}

func (m *memCartRepo) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	if m.cart == nil || m.cart.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.cart, nil
}

func (m *memCartRepo) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	if m.cart == nil || m.cart.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return m.cart, nil
}

func (m *memCartRepo) List(context.Context) ([]domain.Cart, error) { return nil, nil }
func (m *memCartRepo) Delete(context.Context, string) error        { return nil }
func (m *memCartRepo) AddLine(context.Context, string, cartrepo.AddLineInput) (*domain.CartLine, error) {
	return nil, nil
}
func (m *memCartRepo) GetLine(context.Context, string) (*domain.CartLine, string, error) {
	return nil, "", domain.ErrNotFound
}
func (m *memCartRepo) SetLineQuantity(context.Context, string, int) (*domain.CartLine, error) {
	return nil, nil
}
func (m *memCartRepo) DeleteLine(context.Context, string) error { return nil }

type memOrderRepo struct {
	order *domain.Order
}

func (m *memOrderRepo) CreateFromCart(_ context.Context, clientID string) (*domain.Order, error) {
	m.order = &domain.Order{ID: "o1", ClientID: clientID, Status: domain.StatusPending}
	return m.order, nil
}

func (m *memOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if m.order == nil || m.order.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.order, nil
}

func (m *memOrderRepo) ListAll(context.Context) ([]domain.Order, error) { return nil, nil }
func (m *memOrderRepo) ListByClient(context.Context, string) ([]domain.Order, error) {
	return nil, nil
}
func (m *memOrderRepo) Update(context.Context, string, orderrepo.UpdateOrderInput) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}
func (m *memOrderRepo) SetStatus(context.Context, string, domain.OrderStatus) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}
func (m *memOrderRepo) Delete(context.Context, string) error { return nil }
func (m *memOrderRepo) GetLine(context.Context, string) (*domain.OrderLine, error) {
	return nil, domain.ErrNotFound
}
func (m *memOrderRepo) AddLine(context.Context, string, orderrepo.AddLineInput) (*domain.OrderLine, error) {
	return nil, domain.ErrNotFound
}
func (m *memOrderRepo) DeleteLine(context.Context, string) error { return nil }

type emptyCatalogRepo struct{}

func (emptyCatalogRepo) ListCategories(context.Context) ([]domain.Category, error) { return nil, nil }
func (emptyCatalogRepo) GetCategory(context.Context, string) (*domain.Category, error) {
	return nil, domain.ErrNotFound
}
func (emptyCatalogRepo) CreateCategory(context.Context, catrepo.CreateCategoryInput) (*domain.Category, error) {
	return nil, nil
}
func (emptyCatalogRepo) UpdateCategory(context.Context, string, catrepo.CreateCategoryInput) (*domain.Category, error) {
	return nil, nil
}
func (emptyCatalogRepo) DeleteCategory(context.Context, string) error { return nil }
func (emptyCatalogRepo) ListServices(context.Context, catrepo.ListServicesInput) ([]domain.Service, error) {
	return nil, nil
}
func (emptyCatalogRepo) GetService(context.Context, string) (*domain.Service, error) {
	return nil, domain.ErrNotFound
}
func (emptyCatalogRepo) CreateService(context.Context, catrepo.CreateServiceInput) (*domain.Service, error) {
	return nil, nil
}
func (emptyCatalogRepo) UpdateService(context.Context, string, catrepo.UpdateServiceInput) (*domain.Service, error) {
	return nil, nil
}
func (emptyCatalogRepo) DeleteService(context.Context, string) error { return nil }

func testRouter(t *testing.T, users *memUserRepo, carts *memCartRepo) http.Handler {
	t.Helper()
	lg := logger.Discard()
	roles := auth.NewResolver(users)
	guard := auth.NewGuard(roles)
	accounts := accountsvc.New(users, guard, roles, "test-secret", time.Hour, lg)
	cartService := cartsvc.New(carts, emptyCatalogRepo{}, guard, roles, lg)
	orderService := ordersvc.New(&memOrderRepo{}, guard, roles, lg)
	return buildRouter(lg, nil, Deps{
		Accounts: accounts,
		Carts:    cartService,
		Orders:   orderService,
	})
}

func registerAndLogin(t *testing.T, router http.Handler, email, username string) (token, userID string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "username": username, "password": "Passw0rd1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d body=%s", rec.Code, rec.Body)
	}
	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "Passw0rd1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", rec.Code, rec.Body)
	}
	var resp struct {
		Access string `json:"access"`
		User   struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Access, resp.User.ID
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, newMemUserRepo(), &memCartRepo{})
	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	router := testRouter(t, newMemUserRepo(), &memCartRepo{})

	rec := doJSON(t, router, http.MethodGet, "/users", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/users", "not.a.token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}
}

func TestRegisterLoginAndScopedRead(t *testing.T) {
	users := newMemUserRepo()
	router := testRouter(t, users, &memCartRepo{})

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "bob@example.com", "username": "bob", "password": "Passw0rd1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d body=%s", rec.Code, rec.Body)
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "eve@example.com", "username": "eve", "password": "Passw0rd1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("second register: expected 201, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "Passw0rd1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", rec.Code, rec.Body)
	}
	var loginResp struct {
		Access string `json:"access"`
		User   struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if loginResp.Access == "" {
		t.Fatal("missing access token")
	}

	rec = doJSON(t, router, http.MethodGet, "/users/"+loginResp.User.ID, loginResp.Access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("read self: expected 200, got %d body=%s", rec.Code, rec.Body)
	}

	eve := users.byEmail["eve@example.com"]
	rec = doJSON(t, router, http.MethodGet, "/users/"+eve.ID, loginResp.Access, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("read other user: expected 403, got %d body=%s", rec.Code, rec.Body)
	}

	rec = doJSON(t, router, http.MethodGet, "/users", loginResp.Access, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("list users as client: expected 403, got %d", rec.Code)
	}
}

func TestRegisterValidationErrorShape(t *testing.T) {
	router := testRouter(t, newMemUserRepo(), &memCartRepo{})

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "bob@example.com", "username": "bob", "password": "short",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if len(body["password"]) != 1 {
		t.Fatalf("expected password error list, got %v", body)
	}
}

func TestCheckoutAcceptsEmptyBody(t *testing.T) {
	users := newMemUserRepo()
	router := testRouter(t, users, &memCartRepo{})
	token, userID := registerAndLogin(t, router, "bob@example.com", "bob")

	rec := doJSON(t, router, http.MethodPost, "/orders", token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout without body: expected 201, got %d body=%s", rec.Code, rec.Body)
	}
	var o struct {
		Client string `json:"client"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &o); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if o.Client != userID {
		t.Fatalf("expected order for %s, got %s", userID, o.Client)
	}
	if o.Status != string(domain.StatusPending) {
		t.Fatalf("expected PENDING, got %s", o.Status)
	}
}

func TestNestedCartItemsListing(t *testing.T) {
	users := newMemUserRepo()
	carts := &memCartRepo{}
	router := testRouter(t, users, carts)
	token, _ := registerAndLogin(t, router, "bob@example.com", "bob")

	rec := doJSON(t, router, http.MethodPost, "/carts", token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create cart: expected 201, got %d body=%s", rec.Code, rec.Body)
	}
	carts.cart.Lines = []domain.CartLine{
		{ID: "l1", CartID: "c1", ServiceID: "s1", Quantity: 2},
	}

	rec = doJSON(t, router, http.MethodGet, "/carts/c1/items", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list items: expected 200, got %d body=%s", rec.Code, rec.Body)
	}
	var items []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 1 || items[0].ID != "l1" {
		t.Fatalf("unexpected items %v", items)
	}
}

func TestCartEndpointReportsTotals(t *testing.T) {
	users := newMemUserRepo()
	carts := &memCartRepo{}
	router := testRouter(t, users, carts)

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "bob@example.com", "username": "bob", "password": "Passw0rd1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "Passw0rd1",
	})
	var loginResp struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	rec = doJSON(t, router, http.MethodPost, "/carts", loginResp.Access, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create cart: expected 201, got %d body=%s", rec.Code, rec.Body)
	}

	carts.cart.Lines = []domain.CartLine{
		{UnitPrice: decimal.RequireFromString("19.99"), Duration: domain.Duration(time.Hour), Quantity: 2},
	}
	rec = doJSON(t, router, http.MethodPost, "/carts", loginResp.Access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refetch cart: expected 200, got %d", rec.Code)
	}
	var cartResp struct {
		TotalPrice    string `json:"total_price"`
		TotalDuration string `json:"total_duration"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cartResp); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if cartResp.TotalPrice != "39.98" {
		t.Fatalf("expected total 39.98, got %s", cartResp.TotalPrice)
	}
	if cartResp.TotalDuration != "2h0m0s" {
		t.Fatalf("expected 2h0m0s, got %s", cartResp.TotalDuration)
	}
}
