package domain

import "time"

// ChatSender identifies which side of the conversation wrote a message.
type ChatSender string

const (
	SenderCustomer ChatSender = "customer"
	SenderAdmin    ChatSender = "admin"
)

// ChatMessage is one append-only transcript entry, partitioned by the
// customer's email.
type ChatMessage struct {
	ID            string     `json:"id"`
	CustomerEmail string     `json:"customerEmail"`
	CustomerName  string     `json:"customerName,omitempty"`
	Sender        ChatSender `json:"sender"`
	Message       string     `json:"message"`
	CreatedAt     time.Time  `json:"createdAt"`
}
