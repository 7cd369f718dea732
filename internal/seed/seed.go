package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type orderSeed struct {
	Number   string
	Name     string
	Email    string
	Brand    string
	Model    string
	WatchID  int
	Price    string
	Total    string
	Method   string
	Status   string
	Tracking string
}

// Apply inserts demo data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	profileID, err := ensureProfile(ctx, pool, "demo@standardtime.example", "demo-password", "Demo Shopper")
	if err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}

	orders := []orderSeed{
		{
			Number: "100001", Name: "Demo Shopper", Email: "demo@standardtime.example",
			Brand: "Rolex", Model: "Datejust 36 16234", WatchID: 9,
			Price: "$1,850", Total: "1850.00", Method: "bank-transfer", Status: "pending",
		},
		{
			Number: "100002", Name: "Demo Shopper", Email: "demo@standardtime.example",
			Brand: "Omega", Model: "Speedmaster Professional 3570.50", WatchID: 2,
			Price: "$4,600", Total: "4600.00", Method: "card", Status: "confirmed",
			Tracking: "1Z999AA10123456784",
		},
	}
	for _, o := range orders {
		if err := upsertOrder(ctx, pool, profileID, o); err != nil {
			return fmt.Errorf("upsert order %s: %w", o.Number, err)
		}
	}

	if err := seedChat(ctx, pool, "demo@standardtime.example", "Demo Shopper"); err != nil {
		return fmt.Errorf("seed chat: %w", err)
	}

	return nil
}

func ensureProfile(ctx context.Context, pool *pgxpool.Pool, email, password, name string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	const q = `
INSERT INTO profiles (email, password_hash, display_name)
VALUES ($1, $2, $3)
ON CONFLICT (email) DO UPDATE SET display_name = EXCLUDED.display_name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, email, string(hashed), name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertOrder(ctx context.Context, pool *pgxpool.Pool, profileID string, o orderSeed) error {
	const q = `
INSERT INTO orders (
  order_number, profile_id, customer_name, email, phone, address, city, country,
  watch_id, watch_brand, watch_model, watch_year, price, total, currency,
  payment_method, status, tracking_number,
  confirmed_at
)
VALUES ($1, $2, $3, $4, '+1 555 0100', '1 Demo Street', 'Demoville', 'US',
        $5, $6, $7, '2000', $8, $9, 'USD', $10, $11, NULLIF($12, ''),
        CASE WHEN $11 <> 'pending' THEN now() END)
ON CONFLICT (order_number) DO NOTHING
`
	_, err := pool.Exec(ctx, q, o.Number, profileID, o.Name, o.Email,
		o.WatchID, o.Brand, o.Model, o.Price, o.Total, o.Method, o.Status, o.Tracking)
	return err
}

func seedChat(ctx context.Context, pool *pgxpool.Pool, email, name string) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM chat_messages WHERE customer_email = $1`, email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	const q = `
INSERT INTO chat_messages (customer_email, customer_name, sender, message)
VALUES ($1, $2, 'customer', 'Hi, is the Speedmaster still available?'),
       ($1, 'Support', 'admin', 'Hello! Yes it is, happy to share more photos.')
`
	_, err := pool.Exec(ctx, q, email, name)
	return err
}
