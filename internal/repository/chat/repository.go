package chat

import (
	"context"

	"standardtime/internal/domain"
)

// InsertInput is one outgoing message row.
type InsertInput struct {
	CustomerEmail string
	CustomerName  string
	Sender        domain.ChatSender
	Message       string
}

type Repository interface {
	Insert(ctx context.Context, in InsertInput) (*domain.ChatMessage, error)
	// ListByCustomer returns the full transcript for one customer, oldest
	// first. Subscribers re-read the whole transcript on every event
	// instead of merging increments.
	ListByCustomer(ctx context.Context, customerEmail string) ([]domain.ChatMessage, error)
	// ListCustomers returns the distinct customer emails with at least one
	// message, most recent conversation first. Used by the admin board.
	ListCustomers(ctx context.Context) ([]string, error)
}
