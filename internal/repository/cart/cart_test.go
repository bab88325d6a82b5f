package cart

import (
	"context"
	"os"
	"testing"

	"serviceease/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_GetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	userID := insertUser(ctx, t, pool, "cart-owner@example.com")
	repo := NewPostgres(pool, nil)

	first, created, err := repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetOrCreateByUser: %v", err)
	}
	if !created {
		t.Fatal("expected first call to create the cart")
	}

	second, created, err := repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetOrCreateByUser again: %v", err)
	}
	if created {
		t.Fatal("second call must not create a new cart")
	}
	if second.ID != first.ID {
		t.Fatalf("expected same cart, got %s and %s", first.ID, second.ID)
	}
}

func TestPostgres_GetOrCreateRaceYieldsOneCart(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	userID := insertUser(ctx, t, pool, "cart-race@example.com")
	repo := NewPostgres(pool, nil)

	type result struct {
		id      string
		created bool
		err     error
	}
	results := make(chan result, 2)
	for i := 0; i < 2; i++ {
		go func() {
			c, created, err := repo.GetOrCreateByUser(ctx, userID)
			if err != nil {
				results <- result{err: err}
				return
			}
			results <- result{id: c.ID, created: created}
		}()
	}
	first, second := <-results, <-results
	if first.err != nil || second.err != nil {
		t.Fatalf("concurrent GetOrCreateByUser: %v, %v", first.err, second.err)
	}
	if first.id != second.id {
		t.Fatalf("expected one cart, got %s and %s", first.id, second.id)
	}
	if first.created && second.created {
		t.Fatal("both callers claim to have created the cart")
	}
}

func TestPostgres_AddLineMergesQuantities(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	userID := insertUser(ctx, t, pool, "merge-owner@example.com")
	serviceID := insertService(ctx, t, pool, "Merge Test Service")
	repo := NewPostgres(pool, nil)

	c, _, err := repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetOrCreateByUser: %v", err)
	}

	first, err := repo.AddLine(ctx, c.ID, AddLineInput{ServiceID: serviceID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	second, err := repo.AddLine(ctx, c.ID, AddLineInput{ServiceID: serviceID, Quantity: 3})
	if err != nil {
		t.Fatalf("AddLine again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same line, got %s and %s", first.ID, second.ID)
	}
	if second.Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", second.Quantity)
	}

	fetched, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(fetched.Lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(fetched.Lines))
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO users (email, username, password_hash)
VALUES ($1, $1, 'x')
ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
RETURNING id::text
`, email).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := pool.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, id); err != nil {
		t.Fatalf("reset carts: %v", err)
	}
	return id
}

func insertService(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO services (name, description, price, duration_seconds)
VALUES ($1, 'integration test service', 10.00, 3600)
RETURNING id::text
`, name).Scan(&id)
	if err != nil {
		t.Fatalf("insert service: %v", err)
	}
	return id
}
