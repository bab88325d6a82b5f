package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusAccepted   OrderStatus = "ACCEPTED"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the five known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is the immutable result of a checkout. TotalPrice is captured at
// checkout time and never recomputed from the live catalog.
type Order struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client"`
	Status     OrderStatus     `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Lines      []OrderLine     `json:"order_items"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrderLine snapshots a purchased service at checkout time. UnitPrice,
// Duration and ServiceName are frozen copies; later catalog edits do not
// touch them. ServiceID is nil once the catalog service has been deleted;
// the snapshot fields keep the line readable regardless.
type OrderLine struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"-"`
	ServiceID   *string         `json:"service"`
	ServiceName string          `json:"service_name"`
	UnitPrice   decimal.Decimal `json:"price"`
	Duration    Duration        `json:"duration"`
	Quantity    int             `json:"quantity"`
}

// LineTotal recomputes the order total from its snapshot lines. It must
// always equal TotalPrice as stored.
func (o Order) LineTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2)
}
