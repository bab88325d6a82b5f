package cart

import (
	"context"
	"errors"
	"fmt"

	"serviceease/internal/domain"
	"serviceease/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const lineColumns = `
cl.id::text, cl.cart_id::text, cl.service_id::text, s.name, s.price::text, s.duration_seconds, cl.quantity, cl.created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *logger.Logger) Repository {
	if log == nil {
		log = logger.Discard()
	}
	return &postgresRepo{pool: pool, log: log}
}

func (r *postgresRepo) GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, bool, error) {
	// The insert is a no-op when a cart already exists for the user; either
	// way the follow-up select sees exactly one cart.
	const q = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO NOTHING
`
	cmd, err := r.pool.Exec(ctx, q, userID)
	if err != nil {
		return nil, false, err
	}
	created := cmd.RowsAffected() == 1

	c, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if created {
		r.log.Debug("cart created", "user_id", userID, "cart_id", c.ID)
	}
	return c, created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	const q = `
SELECT id::text, user_id::text, created_at
FROM carts
WHERE id = $1
`
	return r.fetchCart(ctx, q, id)
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT id::text, user_id::text, created_at
FROM carts
WHERE user_id = $1
`
	return r.fetchCart(ctx, q, userID)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Cart, error) {
	const q = `
SELECT id::text, user_id::text, created_at
FROM carts
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Cart
	for rows.Next() {
		var c domain.Cart
		if err := rows.Scan(&c.ID, &c.UserID, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		lines, err := r.linesFor(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Lines = lines
	}
	return result, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) AddLine(ctx context.Context, cartID string, in AddLineInput) (*domain.CartLine, error) {
	// Adding a service already in the cart merges quantities instead of
	// growing a second line.
	const q = `
INSERT INTO cart_lines (cart_id, service_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, service_id)
DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, cartID, in.ServiceID, in.Quantity).Scan(&id); err != nil {
		return nil, err
	}
	line, _, err := r.GetLine(ctx, id)
	return line, err
}

func (r *postgresRepo) GetLine(ctx context.Context, lineID string) (*domain.CartLine, string, error) {
	q := `
SELECT ` + lineColumns + `, c.user_id::text
FROM cart_lines cl
JOIN services s ON s.id = cl.service_id
JOIN carts c ON c.id = cl.cart_id
WHERE cl.id = $1
`
	var (
		line    domain.CartLine
		price   string
		seconds int64
		ownerID string
	)
	err := r.pool.QueryRow(ctx, q, lineID).Scan(
		&line.ID, &line.CartID, &line.ServiceID, &line.ServiceName, &price, &seconds, &line.Quantity, &line.CreatedAt,
		&ownerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, "", fmt.Errorf("parse cart line price %q: %w", price, err)
	}
	line.UnitPrice = parsed
	line.Duration = domain.DurationFromSeconds(seconds)
	return &line, ownerID, nil
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, lineID string, quantity int) (*domain.CartLine, error) {
	const q = `
UPDATE cart_lines
SET quantity = $2
WHERE id = $1
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, lineID, quantity).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	line, _, err := r.GetLine(ctx, id)
	return line, err
}

func (r *postgresRepo) DeleteLine(ctx context.Context, lineID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1`, lineID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, q string, args ...interface{}) (*domain.Cart, error) {
	var c domain.Cart
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&c.ID, &c.UserID, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	lines, err := r.linesFor(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Lines = lines
	return &c, nil
}

func (r *postgresRepo) linesFor(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	q := `
SELECT ` + lineColumns + `
FROM cart_lines cl
JOIN services s ON s.id = cl.service_id
WHERE cl.cart_id = $1
ORDER BY cl.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var (
			line    domain.CartLine
			price   string
			seconds int64
		)
		if err := rows.Scan(
			&line.ID, &line.CartID, &line.ServiceID, &line.ServiceName, &price, &seconds, &line.Quantity, &line.CreatedAt,
		); err != nil {
			return nil, err
		}
		parsed, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse cart line price %q: %w", price, err)
		}
		line.UnitPrice = parsed
		line.Duration = domain.DurationFromSeconds(seconds)
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
