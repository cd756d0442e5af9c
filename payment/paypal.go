// Package payment wraps the PayPal Orders v2 REST calls used at checkout.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront/apperr"
)

type PayPalClient struct {
	baseURL  string
	clientID string
	secret   string
	currency string
	http     *http.Client
}

func NewPayPalClient(baseURL, clientID, secret, currency string) *PayPalClient {
	return &PayPalClient{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		currency: currency,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *PayPalClient) Configured() bool {
	return p.clientID != "" && p.secret != ""
}

func (p *PayPalClient) token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/oauth2/token", bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", apperr.Wrap(err, apperr.Internal, "paypal token request")
	}
	req.SetBasicAuth(p.clientID, p.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", apperr.Wrap(err, apperr.Unavailable, "paypal unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", apperr.New(apperr.Unavailable, fmt.Sprintf("paypal token: status %d", resp.StatusCode))
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperr.Wrap(err, apperr.Unavailable, "paypal token decode")
	}
	return body.AccessToken, nil
}

// CreateOrder registers an order with PayPal and returns their order id.
func (p *PayPalClient) CreateOrder(ctx context.Context, amount float64, reference string) (string, error) {
	token, err := p.token(ctx)
	if err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"reference_id": reference,
			"amount": map[string]string{
				"currency_code": p.currency,
				"value":         fmt.Sprintf("%.2f", amount),
			},
		}},
	}
	raw, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v2/checkout/orders", bytes.NewReader(raw))
	if err != nil {
		return "", apperr.Wrap(err, apperr.Internal, "paypal create request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", apperr.Wrap(err, apperr.Unavailable, "paypal unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", apperr.New(apperr.Unavailable, fmt.Sprintf("paypal create: status %d", resp.StatusCode))
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperr.Wrap(err, apperr.Unavailable, "paypal create decode")
	}
	return body.ID, nil
}

// CaptureOrder finalizes a previously created PayPal order.
func (p *PayPalClient) CaptureOrder(ctx context.Context, paypalOrderID string) error {
	token, err := p.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v2/checkout/orders/"+paypalOrderID+"/capture", bytes.NewReader([]byte("{}")))
	if err != nil {
		return apperr.Wrap(err, apperr.Internal, "paypal capture request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return apperr.Wrap(err, apperr.Unavailable, "paypal unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return apperr.New(apperr.Unavailable, fmt.Sprintf("paypal capture: status %d", resp.StatusCode))
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return apperr.Wrap(err, apperr.Unavailable, "paypal capture decode")
	}
	if body.Status != "COMPLETED" {
		return apperr.New(apperr.Invalid, "paypal capture not completed: "+body.Status)
	}
	return nil
}
