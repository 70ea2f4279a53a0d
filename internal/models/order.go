package models

import (
	"fmt"
	"strings"
)

// Validation failure kinds. The HTTP layer maps all of them to a 400.
const (
	KindInvalidPaymentMethod = "invalid_payment_method"
	KindEmptyCart            = "empty_cart"
	KindMalformedItem        = "malformed_item"
	KindMalformedOrder       = "malformed_order"
)

// allowedPaymentMethods holds the accepted payment methods, lower-cased.
var allowedPaymentMethods = map[string]bool{
	"cod": true,
	"upi": true,
}

// ValidationError describes a client-caused order rejection.
type ValidationError struct {
	Kind    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OrderItem represents a single line in an order
type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category,omitempty"`
}

// Order represents a customer order as submitted by the storefront.
// Subtotal, Discount and Total are recomputed server-side before the order
// is persisted; whatever the client sent in those fields is discarded.
type Order struct {
	CustomerName  string      `json:"customer_name"`
	Phone         string      `json:"phone"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total"`
	Notes         string      `json:"notes,omitempty"`
}

// CreateOrderResponse represents the response after creating an order
type CreateOrderResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
}

// Validate checks the order payload, failing fast on the first violation.
func (o *Order) Validate() error {
	if !allowedPaymentMethods[strings.ToLower(o.PaymentMethod)] {
		return &ValidationError{
			Kind:    KindInvalidPaymentMethod,
			Field:   "payment_method",
			Message: "invalid payment method, use 'cod' or 'upi'",
		}
	}

	if len(o.Items) == 0 {
		return &ValidationError{
			Kind:    KindEmptyCart,
			Field:   "items",
			Message: "cart is empty",
		}
	}

	for i, item := range o.Items {
		if err := validateItem(item, i); err != nil {
			return err
		}
	}

	if len(o.CustomerName) < 2 {
		return &ValidationError{
			Kind:    KindMalformedOrder,
			Field:   "customer_name",
			Message: "customer name must be at least 2 characters",
		}
	}

	if len(o.Phone) < 8 || len(o.Phone) > 15 {
		return &ValidationError{
			Kind:    KindMalformedOrder,
			Field:   "phone",
			Message: "phone must be between 8 and 15 characters",
		}
	}

	return nil
}

// validateItem validates a single order item
func validateItem(item OrderItem, index int) error {
	if item.Name == "" {
		return &ValidationError{
			Kind:    KindMalformedItem,
			Field:   fmt.Sprintf("items[%d].name", index),
			Message: "item name is required",
		}
	}

	if item.Quantity < 1 {
		return &ValidationError{
			Kind:    KindMalformedItem,
			Field:   fmt.Sprintf("items[%d].quantity", index),
			Message: "item quantity must be at least 1",
		}
	}

	if item.Price < 0 {
		return &ValidationError{
			Kind:    KindMalformedItem,
			Field:   fmt.Sprintf("items[%d].price", index),
			Message: "item price must not be negative",
		}
	}

	return nil
}

// RecomputeTotals overwrites the money fields from the per-item data.
// Client-submitted subtotal, discount and total are never trusted: the
// subtotal is rebuilt from price and quantity, the discount is clamped to
// be non-negative, and the total can never go below zero.
func (o *Order) RecomputeTotals() {
	var subtotal float64
	for _, item := range o.Items {
		subtotal += item.Price * float64(item.Quantity)
	}

	discount := o.Discount
	if discount < 0 {
		discount = 0
	}

	total := subtotal - discount
	if total < 0 {
		total = 0
	}

	o.Subtotal = subtotal
	o.Discount = discount
	o.Total = total
}
