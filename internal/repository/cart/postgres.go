package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"standardtime/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetOrCreate(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (owner_key)
VALUES ($1)
ON CONFLICT (owner_key) DO UPDATE SET owner_key = EXCLUDED.owner_key
RETURNING id::text, owner_key, created_at
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, ownerKey).Scan(&cart.ID, &cart.OwnerKey, &cart.CreatedAt); err != nil {
		return nil, err
	}
	lines, err := r.fetchLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Lines = lines
	return &cart, nil
}

func (r *postgresRepo) AddLine(ctx context.Context, cartID string, in AddLineInput) error {
	const q = `
INSERT INTO cart_lines (cart_id, watch_id, brand, model, year, price, image, condition, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (cart_id, watch_id) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity
`
	_, err := r.pool.Exec(ctx, q, cartID, in.WatchID, in.Brand, in.Model, in.Year, in.Price, in.Image, in.Condition, in.Quantity)
	return err
}

func (r *postgresRepo) SetQuantity(ctx context.Context, cartID string, watchID, quantity int) error {
	const q = `
UPDATE cart_lines
SET quantity = $1
WHERE cart_id = $2 AND watch_id = $3
RETURNING id::text
`
	var lineID string
	if err := r.pool.QueryRow(ctx, q, quantity, cartID, watchID).Scan(&lineID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *postgresRepo) RemoveLine(ctx context.Context, cartID string, watchID int) error {
	const q = `DELETE FROM cart_lines WHERE cart_id = $1 AND watch_id = $2`
	tag, err := r.pool.Exec(ctx, q, cartID, watchID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	return err
}

func (r *postgresRepo) fetchLines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	const q = `
SELECT id::text, cart_id::text, watch_id, brand, model, year, price, COALESCE(image, ''), COALESCE(condition, ''), quantity, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ID, &line.CartID, &line.WatchID, &line.Brand, &line.Model, &line.Year, &line.Price, &line.Image, &line.Condition, &line.Quantity, &line.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
