package payment

import "context"

// SessionInput carries everything the gateway needs to open a checkout
// session for an order.
type SessionInput struct {
	TransactionID   string
	Amount          string
	Currency        string
	ProductName     string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	SuccessURL      string
	FailURL         string
	CancelURL       string
}

// Gateway opens hosted payment sessions with an external provider.
type Gateway interface {
	// CreateSession returns the URL the customer is redirected to for
	// payment.
	CreateSession(ctx context.Context, in SessionInput) (string, error)
}
