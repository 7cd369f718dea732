package domain

import "time"

// OrderStatus values form a fixed forward lifecycle. Transitions only move
// one step at a time and are never reversed through this service.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPhotosSent OrderStatus = "photos_sent"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
)

// NextStatus returns the single legal forward step from s, or "" when s is
// terminal or unknown.
func NextStatus(s OrderStatus) OrderStatus {
	switch s {
	case StatusPending:
		return StatusConfirmed
	case StatusConfirmed:
		return StatusPhotosSent
	case StatusPhotosSent:
		return StatusShipped
	case StatusShipped:
		return StatusDelivered
	default:
		return ""
	}
}

// PaymentMethod selected during checkout. Neither branch captures payment
// in-process; settlement is a manual bank-transfer workflow.
type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank-transfer"
)

// Order is the record written at checkout completion and advanced through
// its lifecycle by the admin board.
type Order struct {
	ID                string        `json:"id"`
	OrderNumber       string        `json:"orderNumber"`
	ProfileID         *string       `json:"profileId,omitempty"`
	CustomerName      string        `json:"customerName"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone"`
	Address           string        `json:"address"`
	City              string        `json:"city"`
	PostalCode        string        `json:"postalCode,omitempty"`
	Country           string        `json:"country"`
	WatchID           int           `json:"watchId"`
	WatchBrand        string        `json:"watchBrand"`
	WatchModel        string        `json:"watchModel"`
	WatchYear         string        `json:"watchYear"`
	Price             string        `json:"price"`
	Total             string        `json:"total"`
	Currency          string        `json:"currency"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	CustomsAssistance bool          `json:"customsAssistance"`
	Status            OrderStatus   `json:"status"`
	TrackingNumber    string        `json:"trackingNumber,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	ConfirmedAt       *time.Time    `json:"confirmedAt,omitempty"`
	PhotosSentAt      *time.Time    `json:"photosSentAt,omitempty"`
	ShippedAt         *time.Time    `json:"shippedAt,omitempty"`
	DeliveredAt       *time.Time    `json:"deliveredAt,omitempty"`
}
