package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"standardtime/internal/domain"
)

type memoryRepo struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
}

// NewMemory returns the in-memory fake used by tests.
func NewMemory() Repository {
	return &memoryRepo{}
}

func (r *memoryRepo) Insert(_ context.Context, in InsertInput) (*domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := domain.ChatMessage{
		ID:            uuid.NewString(),
		CustomerEmail: in.CustomerEmail,
		CustomerName:  in.CustomerName,
		Sender:        in.Sender,
		Message:       in.Message,
		CreatedAt:     time.Now().UTC(),
	}
	r.messages = append(r.messages, msg)
	return &msg, nil
}

func (r *memoryRepo) ListByCustomer(_ context.Context, customerEmail string) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ChatMessage
	for _, m := range r.messages {
		if m.CustomerEmail == customerEmail {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListCustomers(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for i := len(r.messages) - 1; i >= 0; i-- {
		email := r.messages[i].CustomerEmail
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out, nil
}
