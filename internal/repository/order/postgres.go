package order

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

const orderColumns = `
o.id::text, o.client_id::text, o.status, o.total_price::text, o.created_at, o.updated_at`

const lineColumns = `
ol.id::text, ol.order_id::text, ol.service_id::text, ol.service_name, ol.unit_price::text, ol.duration_seconds, ol.quantity`

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

func (r *postgresRepo) CreateFromCart(ctx context.Context, clientID string) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the cart so a concurrent checkout or line mutation waits until
	// this one commits or rolls back.
	var cartID string
	err = tx.QueryRow(ctx, `
SELECT id::text FROM carts WHERE user_id = $1 FOR UPDATE
`, clientID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	type snapshot struct {
		serviceID string
		name      string
		price     string
		seconds   int64
		quantity  int
	}
	rows, err := tx.Query(ctx, `
SELECT cl.service_id::text, s.name, s.price::text, s.duration_seconds, cl.quantity
FROM cart_lines cl
JOIN services s ON s.id = cl.service_id
WHERE cl.cart_id = $1
ORDER BY cl.created_at ASC
`, cartID)
	if err != nil {
		return nil, err
	}
	var snaps []snapshot
	for rows.Next() {
		var sn snapshot
		if err := rows.Scan(&sn.serviceID, &sn.name, &sn.price, &sn.seconds, &sn.quantity); err != nil {
			rows.Close()
			return nil, err
		}
		snaps = append(snaps, sn)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, domain.NewValidationError("cart", "no items in cart to place an order")
	}

	var orderID string
	err = tx.QueryRow(ctx, `
INSERT INTO orders (client_id, status, total_price)
VALUES ($1, $2, 0)
RETURNING id::text
`, clientID, domain.StatusPending).Scan(&orderID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, sn := range snaps {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_lines (order_id, service_id, service_name, unit_price, duration_seconds, quantity)
VALUES ($1, $2, $3, $4::numeric, $5, $6)
`, orderID, sn.serviceID, sn.name, sn.price, sn.seconds, sn.quantity); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(sn.price)
		if err != nil {
			return nil, fmt.Errorf("parse service price %q: %w", sn.price, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(sn.quantity))))
	}

	if _, err := tx.Exec(ctx, `
UPDATE orders SET total_price = $2::numeric WHERE id = $1
`, orderID, total.Round(2).StringFixed(2)); err != nil {
		return nil, err
	}

	// The cart is consumed by checkout; its lines go with it.
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.log.Info("order placed", "order_id", orderID, "client_id", clientID, "total", total.StringFixed(2))
	return r.GetByID(ctx, orderID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	lines, err := r.linesFor(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders o ORDER BY o.created_at DESC`
	return r.listOrders(ctx, q)
}

func (r *postgresRepo) ListByClient(ctx context.Context, clientID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders o WHERE o.client_id = $1 ORDER BY o.created_at DESC`
	return r.listOrders(ctx, q, clientID)
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateOrderInput) (*domain.Order, error) {
	var status *string
	if in.Status != nil {
		s := string(*in.Status)
		status = &s
	}
	const q = `
UPDATE orders
SET client_id = COALESCE($2::uuid, client_id),
    status = COALESCE($3, status),
    updated_at = now()
WHERE id = $1
RETURNING id::text
`
	var updated string
	if err := r.pool.QueryRow(ctx, q, id, in.ClientID, status).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	return r.Update(ctx, id, UpdateOrderInput{Status: &status})
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) GetLine(ctx context.Context, lineID string) (*domain.OrderLine, error) {
	q := `SELECT ` + lineColumns + ` FROM order_lines ol WHERE ol.id = $1`
	line, err := scanLine(r.pool.QueryRow(ctx, q, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) AddLine(ctx context.Context, orderID string, in AddLineInput) (*domain.OrderLine, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var lineID string
	err = tx.QueryRow(ctx, `
INSERT INTO order_lines (order_id, service_id, service_name, unit_price, duration_seconds, quantity)
SELECT $1, s.id, s.name, s.price, s.duration_seconds, $3
FROM services s
WHERE s.id = $2
RETURNING id::text
`, orderID, in.ServiceID, in.Quantity).Scan(&lineID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := recomputeTotal(ctx, tx, orderID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetLine(ctx, lineID)
}

func (r *postgresRepo) DeleteLine(ctx context.Context, lineID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var orderID string
	err = tx.QueryRow(ctx, `
DELETE FROM order_lines WHERE id = $1 RETURNING order_id::text
`, lineID).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if err := recomputeTotal(ctx, tx, orderID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// recomputeTotal resets the order total from its line snapshots.
func recomputeTotal(ctx context.Context, tx pgx.Tx, orderID string) error {
	_, err := tx.Exec(ctx, `
UPDATE orders
SET total_price = (
	SELECT COALESCE(SUM(unit_price * quantity), 0)
	FROM order_lines
	WHERE order_id = $1
),
    updated_at = now()
WHERE id = $1
`, orderID)
	return err
}

func (r *postgresRepo) listOrders(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
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

func (r *postgresRepo) linesFor(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	q := `SELECT ` + lineColumns + ` FROM order_lines ol WHERE ol.order_id = $1 ORDER BY ol.id`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	return lines, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
		total  string
	)
	if err := row.Scan(&o.ID, &o.ClientID, &status, &total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse order total %q: %w", total, err)
	}
	o.Status = domain.OrderStatus(status)
	o.TotalPrice = parsed
	return &o, nil
}

func scanLine(row pgx.Row) (*domain.OrderLine, error) {
	var (
		line    domain.OrderLine
		price   string
		seconds int64
	)
	if err := row.Scan(
		&line.ID, &line.OrderID, &line.ServiceID, &line.ServiceName, &price, &seconds, &line.Quantity,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse order line price %q: %w", price, err)
	}
	line.UnitPrice = parsed
	line.Duration = domain.DurationFromSeconds(seconds)
	return &line, nil
}
