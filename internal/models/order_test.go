package models

import (
	"errors"
	"testing"
)

func validOrder() *Order {
	return &Order{
		CustomerName:  "John Doe",
		Phone:         "9876543210",
		PaymentMethod: "cod",
		Items: []OrderItem{
			{Name: "Masala Dosa", Price: 50, Quantity: 1},
		},
	}
}

func TestOrder_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(o *Order)
		wantKind string
	}{
		{
			name:   "valid cod order",
			mutate: func(o *Order) {},
		},
		{
			name:   "valid upi order",
			mutate: func(o *Order) { o.PaymentMethod = "upi" },
		},
		{
			name:   "payment method is case-insensitive",
			mutate: func(o *Order) { o.PaymentMethod = "UPI" },
		},
		{
			name:   "mixed case payment method",
			mutate: func(o *Order) { o.PaymentMethod = "Upi" },
		},
		{
			name:     "unknown payment method",
			mutate:   func(o *Order) { o.PaymentMethod = "cash" },
			wantKind: KindInvalidPaymentMethod,
		},
		{
			name:     "missing payment method",
			mutate:   func(o *Order) { o.PaymentMethod = "" },
			wantKind: KindInvalidPaymentMethod,
		},
		{
			name:     "empty cart",
			mutate:   func(o *Order) { o.Items = nil },
			wantKind: KindEmptyCart,
		},
		{
			name: "empty cart wins over other broken fields",
			mutate: func(o *Order) {
				o.Items = []OrderItem{}
				o.CustomerName = "X"
				o.Phone = "123"
			},
			wantKind: KindEmptyCart,
		},
		{
			name:     "zero quantity",
			mutate:   func(o *Order) { o.Items[0].Quantity = 0 },
			wantKind: KindMalformedItem,
		},
		{
			name:     "negative quantity",
			mutate:   func(o *Order) { o.Items[0].Quantity = -2 },
			wantKind: KindMalformedItem,
		},
		{
			name:     "negative price",
			mutate:   func(o *Order) { o.Items[0].Price = -1 },
			wantKind: KindMalformedItem,
		},
		{
			name:     "item without name",
			mutate:   func(o *Order) { o.Items[0].Name = "" },
			wantKind: KindMalformedItem,
		},
		{
			name:     "customer name too short",
			mutate:   func(o *Order) { o.CustomerName = "J" },
			wantKind: KindMalformedOrder,
		},
		{
			name:     "phone too short",
			mutate:   func(o *Order) { o.Phone = "1234567" },
			wantKind: KindMalformedOrder,
		},
		{
			name:     "phone too long",
			mutate:   func(o *Order) { o.Phone = "1234567890123456" },
			wantKind: KindMalformedOrder,
		},
		{
			name:   "phone at lower bound",
			mutate: func(o *Order) { o.Phone = "12345678" },
		},
		{
			name:   "phone at upper bound",
			mutate: func(o *Order) { o.Phone = "123456789012345" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := validOrder()
			tt.mutate(order)

			err := order.Validate()
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("Validate() returned unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Kind != tt.wantKind {
				t.Errorf("Validate() kind = %s, want %s", verr.Kind, tt.wantKind)
			}
		})
	}
}

func TestOrder_RecomputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []OrderItem
		discount     float64
		wantSubtotal float64
		wantDiscount float64
		wantTotal    float64
	}{
		{
			name: "plain recompute",
			items: []OrderItem{
				{Name: "A", Price: 100, Quantity: 2},
				{Name: "B", Price: 50, Quantity: 1},
			},
			discount:     30,
			wantSubtotal: 250,
			wantDiscount: 30,
			wantTotal:    220,
		},
		{
			name: "negative discount clamped to zero",
			items: []OrderItem{
				{Name: "A", Price: 100, Quantity: 2},
				{Name: "B", Price: 50, Quantity: 1},
			},
			discount:     -10,
			wantSubtotal: 250,
			wantDiscount: 0,
			wantTotal:    250,
		},
		{
			name: "total clamped to zero",
			items: []OrderItem{
				{Name: "A", Price: 10, Quantity: 1},
			},
			discount:     1000,
			wantSubtotal: 10,
			wantDiscount: 1000,
			wantTotal:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{
				Items:    tt.items,
				Discount: tt.discount,
				// Client-submitted derived fields must be discarded.
				Subtotal: 1,
				Total:    1,
			}

			order.RecomputeTotals()

			if order.Subtotal != tt.wantSubtotal {
				t.Errorf("subtotal = %v, want %v", order.Subtotal, tt.wantSubtotal)
			}
			if order.Discount != tt.wantDiscount {
				t.Errorf("discount = %v, want %v", order.Discount, tt.wantDiscount)
			}
			if order.Total != tt.wantTotal {
				t.Errorf("total = %v, want %v", order.Total, tt.wantTotal)
			}
		})
	}
}

func TestOrder_RecomputeTotals_Idempotent(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Name: "A", Price: 100, Quantity: 2},
			{Name: "B", Price: 50, Quantity: 1},
		},
		Discount: 30,
		Subtotal: 9999,
		Total:    -5,
	}

	order.RecomputeTotals()
	first := *order
	order.RecomputeTotals()

	if order.Subtotal != first.Subtotal || order.Discount != first.Discount || order.Total != first.Total {
		t.Errorf("recomputation is not idempotent: first %+v, second %+v", first, *order)
	}
}
