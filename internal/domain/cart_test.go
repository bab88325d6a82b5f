package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCartTotals(t *testing.T) {
	c := Cart{
		Lines: []CartLine{
			{UnitPrice: decimal.RequireFromString("19.99"), Duration: Duration(time.Hour), Quantity: 2},
			{UnitPrice: decimal.RequireFromString("5.50"), Duration: Duration(30 * time.Minute), Quantity: 1},
		},
	}

	if got := c.TotalPrice().StringFixed(2); got != "45.48" {
		t.Fatalf("total price: expected 45.48, got %s", got)
	}
	if got := c.TotalDuration(); got != Duration(2*time.Hour+30*time.Minute) {
		t.Fatalf("total duration: expected 2h30m, got %v", got.Std())
	}
}

func TestEmptyCartTotals(t *testing.T) {
	var c Cart
	if !c.TotalPrice().IsZero() {
		t.Fatalf("expected zero total, got %s", c.TotalPrice())
	}
	if c.TotalDuration() != 0 {
		t.Fatalf("expected zero duration, got %v", c.TotalDuration())
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, st := range []OrderStatus{StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled} {
		if !st.Valid() {
			t.Errorf("%s should be valid", st)
		}
	}
	if OrderStatus("SHIPPED").Valid() {
		t.Error("SHIPPED should not be valid")
	}
}

func TestOrderLineTotal(t *testing.T) {
	o := Order{
		Lines: []OrderLine{
			{UnitPrice: decimal.RequireFromString("10.00"), Quantity: 3},
			{UnitPrice: decimal.RequireFromString("2.25"), Quantity: 2},
		},
	}
	if got := o.LineTotal().StringFixed(2); got != "34.50" {
		t.Fatalf("expected 34.50, got %s", got)
	}
}
