package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"serviceease/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type serviceSeed struct {
	Name        string
	Description string
	Category    string
	Price       string
	Duration    time.Duration
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, g := range []string{domain.GroupAdmin, domain.GroupClient} {
		if _, err := pool.Exec(ctx, `
INSERT INTO groups (name) VALUES ($1) ON CONFLICT (name) DO NOTHING
`, g); err != nil {
			return fmt.Errorf("ensure group %s: %w", g, err)
		}
	}

	if err := ensureAdmin(ctx, pool); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	categories := map[string]string{
		"Cleaning": "Home and office cleaning",
		"Wellness": "Massage, spa and personal care",
		"Repairs":  "Plumbing, electrics and appliances",
		"Tutoring": "Private lessons and coaching",
	}
	categoryIDs := make(map[string]string, len(categories))
	for name, desc := range categories {
		var id string
		err := pool.QueryRow(ctx, `
INSERT INTO categories (name, description)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
RETURNING id::text
`, name, desc).Scan(&id)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", name, err)
		}
		categoryIDs[name] = id
	}

	services := []serviceSeed{
		{Name: "Deep Apartment Cleaning", Description: "Full clean including kitchen and bathrooms", Category: "Cleaning", Price: "79.99", Duration: 3 * time.Hour},
		{Name: "Office Window Cleaning", Description: "Interior and exterior windows up to 3rd floor", Category: "Cleaning", Price: "49.50", Duration: 90 * time.Minute},
		{Name: "Swedish Massage", Description: "60 minute full body relaxation massage", Category: "Wellness", Price: "65.00", Duration: time.Hour},
		{Name: "Leak Repair", Description: "Diagnosis and fix of household water leaks", Category: "Repairs", Price: "55.00", Duration: 2 * time.Hour},
		{Name: "Math Tutoring", Description: "One-on-one session, secondary school level", Category: "Tutoring", Price: "30.00", Duration: time.Hour},
	}
	for _, s := range services {
		if err := upsertService(ctx, pool, categoryIDs[s.Category], s); err != nil {
			return fmt.Errorf("upsert service %s: %w", s.Name, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool) error {
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "Admin12345"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var userID string
	err = pool.QueryRow(ctx, `
INSERT INTO users (email, username, password_hash, active)
VALUES ('admin@serviceease.local', 'admin', $1, TRUE)
ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
RETURNING id::text
`, string(hashed)).Scan(&userID)
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
INSERT INTO profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
`, userID); err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
INSERT INTO user_groups (user_id, group_id)
SELECT $1, id FROM groups WHERE name = $2
ON CONFLICT DO NOTHING
`, userID, domain.GroupAdmin)
	return err
}

func upsertService(ctx context.Context, pool *pgxpool.Pool, categoryID string, s serviceSeed) error {
	const q = `
INSERT INTO services (name, description, category_id, price, duration_seconds, active)
SELECT $1, $2, $3::uuid, $4::numeric, $5, TRUE
WHERE NOT EXISTS (SELECT 1 FROM services WHERE name = $1)
`
	_, err := pool.Exec(ctx, q, s.Name, s.Description, categoryID, s.Price, int64(s.Duration.Seconds()))
	return err
}
