package models

import "time"

// OrderCreatedMessage is the event published to the notifications exchange
// after an order has been stored.
type OrderCreatedMessage struct {
	OrderID       string    `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	PaymentMethod string    `json:"payment_method"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}
