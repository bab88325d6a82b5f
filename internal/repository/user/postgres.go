package user

import (
	"context"
	"errors"

	"serviceease/internal/domain"
	"serviceease/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

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

func (r *postgresRepo) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const userQ = `
INSERT INTO users (email, username, password_hash, active)
VALUES ($1, $2, $3, TRUE)
RETURNING id::text, email, username, password_hash, active, created_at
`
	var u domain.User
	if err := tx.QueryRow(ctx, userQ, in.Email, in.Username, in.PasswordHash).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Active, &u.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	// New users start with an empty profile and Client membership, the way
	// activation used to assign them.
	var profileID string
	if err := tx.QueryRow(ctx, `
INSERT INTO profiles (user_id) VALUES ($1) RETURNING id::text
`, u.ID).Scan(&profileID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO user_groups (user_id, group_id)
SELECT $1, id FROM groups WHERE name = $2
ON CONFLICT DO NOTHING
`, u.ID, domain.GroupClient); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	u.Groups = []string{domain.GroupClient}
	u.Profile = &domain.Profile{ID: profileID, UserID: u.ID}
	r.log.Debug("user created", "user_id", u.ID)
	return &u, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id::text, email, username, password_hash, active, created_at
FROM users
WHERE id = $1
`
	return r.fetchUser(ctx, q, id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id::text, email, username, password_hash, active, created_at
FROM users
WHERE lower(email) = lower($1)
`
	return r.fetchUser(ctx, q, email)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `
SELECT id::text, email, username, password_hash, active, created_at
FROM users
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.attachDetails(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	const q = `
UPDATE users
SET email = COALESCE($2, email),
    username = COALESCE($3, username)
WHERE id = $1
RETURNING id::text
`
	var updated string
	if err := r.pool.QueryRow(ctx, q, id, in.Email, in.Username).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) IsMember(ctx context.Context, userID, group string) (bool, error) {
	const q = `
SELECT EXISTS (
	SELECT 1
	FROM user_groups ug
	JOIN groups g ON g.id = ug.group_id
	WHERE ug.user_id = $1 AND g.name = $2
)
`
	var ok bool
	if err := r.pool.QueryRow(ctx, q, userID, group).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *postgresRepo) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	const q = `
SELECT id::text, user_id::text, full_name, phone_number, address, picture_url, bio, COALESCE(to_char(date_of_birth, 'YYYY-MM-DD'), '')
FROM profiles
WHERE user_id = $1
`
	var p domain.Profile
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.PhoneNumber, &p.Address, &p.PictureURL, &p.Bio, &p.DateOfBirth,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.Profile, error) {
	const q = `
UPDATE profiles
SET full_name = COALESCE($2, full_name),
    phone_number = COALESCE($3, phone_number),
    address = COALESCE($4, address),
    picture_url = COALESCE($5, picture_url),
    bio = COALESCE($6, bio),
    date_of_birth = COALESCE($7::date, date_of_birth)
WHERE user_id = $1
RETURNING id::text
`
	var id string
	err := r.pool.QueryRow(ctx, q, userID,
		in.FullName, in.PhoneNumber, in.Address, in.PictureURL, in.Bio, in.DateOfBirth,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetProfile(ctx, userID)
}

func (r *postgresRepo) DeleteProfile(ctx context.Context, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchUser(ctx context.Context, q string, args ...interface{}) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Active, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.attachDetails(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepo) attachDetails(ctx context.Context, u *domain.User) error {
	rows, err := r.pool.Query(ctx, `
SELECT g.name
FROM user_groups ug
JOIN groups g ON g.id = ug.group_id
WHERE ug.user_id = $1
ORDER BY g.name
`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		u.Groups = append(u.Groups, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	profile, err := r.GetProfile(ctx, u.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	u.Profile = profile
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
