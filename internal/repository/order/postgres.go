package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"standardtime/internal/domain"
)

const orderColumns = `
id::text, order_number, profile_id::text, customer_name, email, phone, address, city,
COALESCE(postal_code, ''), country, watch_id, watch_brand, watch_model, watch_year,
price, total, currency, payment_method, customs_assistance, status,
COALESCE(tracking_number, ''), created_at, updated_at,
confirmed_at, photos_sent_at, shipped_at, delivered_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (
  order_number, profile_id, customer_name, email, phone, address, city, postal_code,
  country, watch_id, watch_brand, watch_model, watch_year, price, total, currency,
  payment_method, customs_assistance, status
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, 'pending')
RETURNING ` + orderColumns
	row := r.pool.QueryRow(ctx, q,
		o.OrderNumber, o.ProfileID, o.CustomerName, o.Email, o.Phone, o.Address, o.City,
		nilIfEmpty(o.PostalCode), o.Country, o.WatchID, o.WatchBrand, o.WatchModel,
		o.WatchYear, o.Price, o.Total, o.Currency, string(o.PaymentMethod), o.CustomsAssistance,
	)
	created, err := scanOrder(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: create number=%s error=%v", o.OrderNumber, err)
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s number=%s", created.ID, created.OrderNumber)
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByStatus(ctx context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}
	if len(statuses) > 0 {
		vals := make([]string, len(statuses))
		for i, s := range statuses {
			vals[i] = string(s)
		}
		q += ` WHERE status = ANY($1)`
		args = append(args, vals)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list statuses=%v error=%v", statuses, err)
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
	return result, rows.Err()
}

func (r *postgresRepo) ListByProfile(ctx context.Context, profileID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE profile_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, profileID)
	if err != nil {
		r.logger.Printf("order repo: list profile=%s error=%v", profileID, err)
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
	return result, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	col, ok := statusTimestampColumn(status)
	if !ok {
		return nil, fmt.Errorf("no timestamp column for status %q", status)
	}
	q := fmt.Sprintf(`
UPDATE orders
SET status = $1, %s = now(), updated_at = now()
WHERE id = $2
RETURNING `, col) + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: update status id=%s status=%s error=%v", id, status, err)
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) SetTracking(ctx context.Context, id, trackingNumber string) (*domain.Order, error) {
	q := `
UPDATE orders
SET tracking_number = $1, updated_at = now()
WHERE id = $2
RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, trackingNumber, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// statusTimestampColumn maps a post-pending status to its transition
// timestamp column.
func statusTimestampColumn(status domain.OrderStatus) (string, bool) {
	switch status {
	case domain.StatusConfirmed:
		return "confirmed_at", true
	case domain.StatusPhotosSent:
		return "photos_sent_at", true
	case domain.StatusShipped:
		return "shipped_at", true
	case domain.StatusDelivered:
		return "delivered_at", true
	default:
		return "", false
	}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var method string
	var status string
	if err := row.Scan(
		&o.ID, &o.OrderNumber, &o.ProfileID, &o.CustomerName, &o.Email, &o.Phone,
		&o.Address, &o.City, &o.PostalCode, &o.Country, &o.WatchID, &o.WatchBrand,
		&o.WatchModel, &o.WatchYear, &o.Price, &o.Total, &o.Currency, &method,
		&o.CustomsAssistance, &status, &o.TrackingNumber, &o.CreatedAt, &o.UpdatedAt,
		&o.ConfirmedAt, &o.PhotosSentAt, &o.ShippedAt, &o.DeliveredAt,
	); err != nil {
		return nil, err
	}
	o.PaymentMethod = domain.PaymentMethod(method)
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
