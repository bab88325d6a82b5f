package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"serviceease/internal/domain"
	"serviceease/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const serviceColumns = `
s.id::text, s.name, s.description, s.category_id::text, s.price::text, s.duration_seconds,
COALESCE(s.image_url, ''), s.active,
(SELECT AVG(r.rating)::float8 FROM reviews r WHERE r.service_id = s.id),
s.created_at, s.updated_at`

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

func (r *postgresRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id::text, name, COALESCE(description, '')
FROM categories
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	const q = `
SELECT id::text, name, COALESCE(description, '')
FROM categories
WHERE id = $1
`
	var c domain.Category
	if err := r.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, description)
VALUES ($1, $2)
RETURNING id::text, name, COALESCE(description, '')
`
	var c domain.Category
	if err := r.pool.QueryRow(ctx, q, in.Name, in.Description).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) UpdateCategory(ctx context.Context, id string, in CreateCategoryInput) (*domain.Category, error) {
	const q = `
UPDATE categories
SET name = $2, description = $3
WHERE id = $1
RETURNING id::text, name, COALESCE(description, '')
`
	var c domain.Category
	if err := r.pool.QueryRow(ctx, q, id, in.Name, in.Description).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) DeleteCategory(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListServices(ctx context.Context, in ListServicesInput) ([]domain.Service, error) {
	var (
		where []string
		args  []interface{}
	)
	if in.CategoryID != "" {
		args = append(args, in.CategoryID)
		where = append(where, fmt.Sprintf("s.category_id = $%d", len(args)))
	}
	if in.ActiveOnly {
		where = append(where, "s.active")
	}
	if in.Search != "" {
		args = append(args, "%"+in.Search+"%")
		where = append(where, fmt.Sprintf("(s.name ILIKE $%d OR s.description ILIKE $%d)", len(args), len(args)))
	}

	q := `SELECT ` + serviceColumns + ` FROM services s`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + orderClause(in.Ordering)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *svc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.log.Debug("services listed", "count", len(result))
	return result, nil
}

func (r *postgresRepo) GetService(ctx context.Context, id string) (*domain.Service, error) {
	q := `SELECT ` + serviceColumns + ` FROM services s WHERE s.id = $1`
	svc, err := scanService(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}

func (r *postgresRepo) CreateService(ctx context.Context, in CreateServiceInput) (*domain.Service, error) {
	const q = `
INSERT INTO services (name, description, category_id, price, duration_seconds, image_url, active)
VALUES ($1, $2, $3::uuid, $4::numeric, $5, NULLIF($6, ''), $7)
RETURNING id::text
`
	var id string
	err := r.pool.QueryRow(ctx, q,
		in.Name, in.Description, in.CategoryID, in.Price.StringFixed(2), in.Duration.Seconds(), in.ImageURL, in.Active,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetService(ctx, id)
}

func (r *postgresRepo) UpdateService(ctx context.Context, id string, in UpdateServiceInput) (*domain.Service, error) {
	var price *string
	if in.Price != nil {
		s := in.Price.StringFixed(2)
		price = &s
	}
	var durationSeconds *int64
	if in.Duration != nil {
		s := in.Duration.Seconds()
		durationSeconds = &s
	}
	const q = `
UPDATE services
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    category_id = COALESCE($4::uuid, category_id),
    price = COALESCE($5::numeric, price),
    duration_seconds = COALESCE($6, duration_seconds),
    image_url = COALESCE($7, image_url),
    active = COALESCE($8, active),
    updated_at = now()
WHERE id = $1
RETURNING id::text
`
	var updated string
	err := r.pool.QueryRow(ctx, q, id,
		in.Name, in.Description, in.CategoryID, price, durationSeconds, in.ImageURL, in.Active,
	).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetService(ctx, id)
}

func (r *postgresRepo) DeleteService(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var (
		svc        domain.Service
		categoryID *string
		price      string
		seconds    int64
	)
	if err := row.Scan(
		&svc.ID, &svc.Name, &svc.Description, &categoryID, &price, &seconds,
		&svc.ImageURL, &svc.Active, &svc.AverageRating, &svc.CreatedAt, &svc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse service price %q: %w", price, err)
	}
	svc.CategoryID = categoryID
	svc.Price = parsed
	svc.Duration = domain.DurationFromSeconds(seconds)
	return &svc, nil
}

// orderClause maps an API ordering value onto a safe ORDER BY expression.
// Unknown values fall back to the default ordering.
func orderClause(ordering string) string {
	dir := "ASC"
	field := strings.TrimSpace(ordering)
	if strings.HasPrefix(field, "-") {
		dir = "DESC"
		field = field[1:]
	}
	switch field {
	case "price":
		return "s.price " + dir + ", s.id"
	case "duration":
		return "s.duration_seconds " + dir + ", s.id"
	case "active":
		return "s.active " + dir + ", s.id"
	case "average_rating":
		return "(SELECT AVG(r.rating) FROM reviews r WHERE r.service_id = s.id) " + dir + " NULLS LAST, s.id"
	default:
		return "(SELECT AVG(r.rating) FROM reviews r WHERE r.service_id = s.id) DESC NULLS LAST, s.id"
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
