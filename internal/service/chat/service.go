package chat

import (
	"context"
	"errors"
	"strings"

	"standardtime/internal/domain"
	chatrepo "standardtime/internal/repository/chat"
)

// Service mirrors the live-chat widget: customers and admins append rows,
// subscribers get nudged and re-read the whole transcript.
type Service struct {
	repo chatrepo.Repository
	hub  *hub
}

func New(repo chatrepo.Repository) *Service {
	return &Service{repo: repo, hub: newHub()}
}

// Send appends one message and nudges local subscribers. On failure
// nothing is appended and the caller keeps the unsent text for retry.
func (s *Service) Send(ctx context.Context, customerEmail, customerName string, sender domain.ChatSender, text string) (*domain.ChatMessage, error) {
	customerEmail = strings.TrimSpace(strings.ToLower(customerEmail))
	text = strings.TrimSpace(text)
	if customerEmail == "" {
		return nil, errors.New("customer email required")
	}
	if text == "" {
		return nil, errors.New("message required")
	}
	msg, err := s.repo.Insert(ctx, chatrepo.InsertInput{
		CustomerEmail: customerEmail,
		CustomerName:  customerName,
		Sender:        sender,
		Message:       text,
	})
	if err != nil {
		return nil, err
	}
	s.hub.notify(customerEmail)
	return msg, nil
}

// Transcript returns the customer's full message history, oldest first.
func (s *Service) Transcript(ctx context.Context, customerEmail string) ([]domain.ChatMessage, error) {
	return s.repo.ListByCustomer(ctx, strings.TrimSpace(strings.ToLower(customerEmail)))
}

// Conversations lists customers with chat history for the admin board.
func (s *Service) Conversations(ctx context.Context) ([]string, error) {
	return s.repo.ListCustomers(ctx)
}

// Subscribe registers for nudges on the customer's channel. Each nudge
// means "re-fetch the transcript"; no message data rides on the channel.
func (s *Service) Subscribe(customerEmail string) (<-chan struct{}, func()) {
	return s.hub.subscribe(strings.TrimSpace(strings.ToLower(customerEmail)))
}

// Notify is fed by the database listener so that messages written by other
// processes reach local subscribers too.
func (s *Service) Notify(customerEmail string) {
	s.hub.notify(customerEmail)
}
