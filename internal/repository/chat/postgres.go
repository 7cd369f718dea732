package chat

import (
	"context"
	"io"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"standardtime/internal/domain"
)

// NotifyChannel is the Postgres NOTIFY channel fired by the insert trigger
// on chat_messages. The payload is the customer email.
const NotifyChannel = "chat_messages"

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

func (r *postgresRepo) Insert(ctx context.Context, in InsertInput) (*domain.ChatMessage, error) {
	const q = `
INSERT INTO chat_messages (customer_email, customer_name, sender, message)
VALUES ($1, $2, $3, $4)
RETURNING id::text, customer_email, COALESCE(customer_name, ''), sender, message, created_at
`
	var msg domain.ChatMessage
	var sender string
	if err := r.pool.QueryRow(ctx, q, in.CustomerEmail, in.CustomerName, string(in.Sender), in.Message).Scan(
		&msg.ID, &msg.CustomerEmail, &msg.CustomerName, &sender, &msg.Message, &msg.CreatedAt,
	); err != nil {
		r.logger.Printf("chat repo: insert customer=%s error=%v", in.CustomerEmail, err)
		return nil, err
	}
	msg.Sender = domain.ChatSender(sender)
	return &msg, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerEmail string) ([]domain.ChatMessage, error) {
	const q = `
SELECT id::text, customer_email, COALESCE(customer_name, ''), sender, message, created_at
FROM chat_messages
WHERE customer_email = $1
ORDER BY created_at
`
	rows, err := r.pool.Query(ctx, q, customerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		var sender string
		if err := rows.Scan(&msg.ID, &msg.CustomerEmail, &msg.CustomerName, &sender, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Sender = domain.ChatSender(sender)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *postgresRepo) ListCustomers(ctx context.Context) ([]string, error) {
	const q = `
SELECT customer_email
FROM chat_messages
GROUP BY customer_email
ORDER BY max(created_at) DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// Listen blocks on the chat NOTIFY channel and invokes handle with the
// customer email of every inserted message until ctx is cancelled. Run it
// in its own goroutine; it holds a dedicated connection from the pool.
func Listen(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger, handle func(customerEmail string)) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return err
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Printf("chat listen: %v", err)
			return err
		}
		handle(notification.Payload)
	}
}
