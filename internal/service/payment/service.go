package payment

import (
	"context"
	"fmt"
	"strings"

	"serviceease/internal/auth"
	"serviceease/internal/domain"
	"serviceease/internal/logger"
	orderrepo "serviceease/internal/repository/order"
	userrepo "serviceease/internal/repository/user"

	"github.com/google/uuid"
)

const txnPrefix = "txn_"

// Service drives the payment flow: open a gateway session for a pending
// order, then accept the order when the gateway confirms.
type Service struct {
	orders     orderrepo.Repository
	users      userrepo.Repository
	gateway    Gateway
	guard      *auth.Guard
	backendURL string
	log        *logger.Logger
}

func New(orders orderrepo.Repository, users userrepo.Repository, gateway Gateway, guard *auth.Guard, backendURL string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		orders:     orders,
		users:      users,
		gateway:    gateway,
		guard:      guard,
		backendURL: strings.TrimRight(backendURL, "/"),
		log:        log,
	}
}

// Initiate opens a gateway session for the order and returns the URL to
// redirect the customer to. Only pending orders can be paid.
func (s *Service) Initiate(ctx context.Context, p auth.Principal, orderID string) (string, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	ok, err := s.guard.CanAccess(ctx, p, auth.OrderResource{ClientID: o.ClientID})
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrForbidden
	}
	if o.Status != domain.StatusPending {
		return "", domain.NewValidationError("order", "only pending orders can be paid")
	}

	client, err := s.users.GetByID(ctx, o.ClientID)
	if err != nil {
		return "", err
	}
	in := SessionInput{
		TransactionID: txnPrefix + o.ID,
		Amount:        o.TotalPrice.StringFixed(2),
		Currency:      "BDT",
		ProductName:   fmt.Sprintf("Order %s", o.ID),
		CustomerName:  client.Username,
		CustomerEmail: client.Email,
		SuccessURL:    s.backendURL + "/payments/success",
		FailURL:       s.backendURL + "/payments/fail",
		CancelURL:     s.backendURL + "/payments/cancel",
	}
	if client.Profile != nil {
		if client.Profile.FullName != "" {
			in.CustomerName = client.Profile.FullName
		}
		in.CustomerPhone = client.Profile.PhoneNumber
		in.CustomerAddress = client.Profile.Address
	}

	redirectURL, err := s.gateway.CreateSession(ctx, in)
	if err != nil {
		return "", err
	}
	s.log.Info("payment session opened", "order_id", o.ID, "amount", in.Amount)
	return redirectURL, nil
}

// HandleSuccess marks the order behind the transaction as accepted. A
// repeated callback for an already accepted order is a no-op.
func (s *Service) HandleSuccess(ctx context.Context, transactionID string) (*domain.Order, error) {
	orderID, err := orderIDFromTransaction(transactionID)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch o.Status {
	case domain.StatusAccepted:
		return o, nil
	case domain.StatusPending:
		updated, err := s.orders.SetStatus(ctx, orderID, domain.StatusAccepted)
		if err != nil {
			return nil, err
		}
		s.log.Info("payment confirmed", "order_id", orderID)
		return updated, nil
	default:
		return nil, domain.NewValidationError("order", "order is not awaiting payment")
	}
}

// HandleFailure records a failed or cancelled payment attempt. The order
// stays pending so the customer can retry.
func (s *Service) HandleFailure(ctx context.Context, transactionID string) error {
	orderID, err := orderIDFromTransaction(transactionID)
	if err != nil {
		return err
	}
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return err
	}
	s.log.Warn("payment not completed", "order_id", orderID)
	return nil
}

// orderIDFromTransaction defends against malformed or forged transaction
// ids coming back from the gateway callback.
func orderIDFromTransaction(transactionID string) (string, error) {
	raw, found := strings.CutPrefix(transactionID, txnPrefix)
	if !found {
		return "", domain.NewValidationError("tran_id", "unrecognized transaction id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", domain.NewValidationError("tran_id", "unrecognized transaction id")
	}
	return id.String(), nil
}
