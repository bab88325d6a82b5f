package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the single pending selection of a user. At most one cart exists
// per user at any time; checkout consumes it.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user"`
	Lines     []CartLine `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

// CartLine is one (service, quantity) selection. ServiceName, UnitPrice and
// Duration are the service's current values joined in at read time, not a
// snapshot: cart totals always reflect the live catalog.
type CartLine struct {
	ID          string          `json:"id"`
	CartID      string          `json:"cart"`
	ServiceID   string          `json:"service"`
	ServiceName string          `json:"service_name"`
	UnitPrice   decimal.Decimal `json:"price"`
	Duration    Duration        `json:"duration"`
	Quantity    int             `json:"quantity"`
	CreatedAt   time.Time       `json:"-"`
}

// TotalPrice sums price*quantity over all lines, rounded to 2 decimal places.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2)
}

// TotalDuration sums duration*quantity over all lines.
func (c Cart) TotalDuration() Duration {
	var total time.Duration
	for _, line := range c.Lines {
		total += line.Duration.Std() * time.Duration(line.Quantity)
	}
	return Duration(total)
}
