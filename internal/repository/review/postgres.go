package review

import (
	"context"
	"errors"

	"serviceease/internal/domain"
	"serviceease/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reviewColumns = `
r.id::text, r.service_id::text, r.user_id::text, u.username, r.rating, r.review_text, r.created_at`

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

func (r *postgresRepo) Create(ctx context.Context, in CreateReviewInput) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (service_id, user_id, rating, review_text)
VALUES ($1, $2, $3, $4)
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, in.ServiceID, in.UserID, in.Rating, in.Text).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	r.log.Debug("review created", "review_id", id, "service_id", in.ServiceID)
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	q := `
SELECT ` + reviewColumns + `
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.id = $1
`
	var rev domain.Review
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&rev.ID, &rev.ServiceID, &rev.UserID, &rev.Username, &rev.Rating, &rev.Text, &rev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Review, error) {
	q := `
SELECT ` + reviewColumns + `
FROM reviews r
JOIN users u ON u.id = r.user_id
ORDER BY r.created_at DESC
`
	return r.list(ctx, q)
}

func (r *postgresRepo) ListByService(ctx context.Context, serviceID string) ([]domain.Review, error) {
	q := `
SELECT ` + reviewColumns + `
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.service_id = $1
ORDER BY r.created_at DESC
`
	return r.list(ctx, q, serviceID)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	q := `
SELECT ` + reviewColumns + `
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.user_id = $1
ORDER BY r.created_at DESC
`
	return r.list(ctx, q, userID)
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateReviewInput) (*domain.Review, error) {
	const q = `
UPDATE reviews
SET rating = COALESCE($2, rating),
    review_text = COALESCE($3, review_text)
WHERE id = $1
RETURNING id::text
`
	var updated string
	if err := r.pool.QueryRow(ctx, q, id, in.Rating, in.Text).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(
			&rev.ID, &rev.ServiceID, &rev.UserID, &rev.Username, &rev.Rating, &rev.Text, &rev.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rev)
	}
	return result, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
