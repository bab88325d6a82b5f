package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"serviceease/internal/domain"
)

// SSLCommerzGateway talks to the SSLCommerz hosted checkout API.
type SSLCommerzGateway struct {
	baseURL   string
	storeID   string
	storePass string
	client    *http.Client
}

func NewSSLCommerz(baseURL, storeID, storePass string) *SSLCommerzGateway {
	return &SSLCommerzGateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		storeID:   storeID,
		storePass: storePass,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

func (g *SSLCommerzGateway) CreateSession(ctx context.Context, in SessionInput) (string, error) {
	form := url.Values{}
	form.Set("store_id", g.storeID)
	form.Set("store_passwd", g.storePass)
	form.Set("total_amount", in.Amount)
	form.Set("currency", in.Currency)
	form.Set("tran_id", in.TransactionID)
	form.Set("success_url", in.SuccessURL)
	form.Set("fail_url", in.FailURL)
	form.Set("cancel_url", in.CancelURL)
	form.Set("cus_name", in.CustomerName)
	form.Set("cus_email", in.CustomerEmail)
	form.Set("cus_phone", in.CustomerPhone)
	form.Set("cus_add1", in.CustomerAddress)
	form.Set("cus_city", "N/A")
	form.Set("cus_country", "N/A")
	form.Set("shipping_method", "NO")
	form.Set("product_name", in.ProductName)
	form.Set("product_category", "Service")
	form.Set("product_profile", "general")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/gwprocess/v4/api.php", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: gateway returned %s", domain.ErrExternal, resp.Status)
	}
	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode gateway response: %v", domain.ErrExternal, err)
	}
	if !strings.EqualFold(body.Status, "SUCCESS") || body.GatewayPageURL == "" {
		reason := body.FailedReason
		if reason == "" {
			reason = "session was not created"
		}
		return "", fmt.Errorf("%w: %s", domain.ErrExternal, reason)
	}
	return body.GatewayPageURL, nil
}
