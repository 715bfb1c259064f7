package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// GatewayProvider talks to a merchant-API style gateway: authenticate for a
// token, then POST JSON requests with it.
type GatewayProvider struct {
	BaseURL  string
	Email    string
	Password string
	client   *http.Client
}

func NewGatewayProvider(baseURL, email, password string) *GatewayProvider {
	return &GatewayProvider{
		BaseURL:  baseURL,
		Email:    email,
		Password: password,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type gatewayLoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type gatewayLoginResp struct {
	Token string `json:"token"`
}

// getToken authenticates with the merchant API and returns a fresh token.
func (p *GatewayProvider) getToken(ctx context.Context) (string, error) {
	body, _ := json.Marshal(gatewayLoginReq{Email: p.Email, Password: p.Password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/merchants/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway login failed: %d %s", resp.StatusCode, string(respBody))
	}
	var out gatewayLoginResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("gateway: login returned empty token")
	}
	return out.Token, nil
}

type gatewayPaymentReq struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Reference   string  `json:"reference"`
	Description string  `json:"description"`
	ExpirySec   int     `json:"expiry_seconds"`
	WebhookURL  string  `json:"webhook_url"`
}

type gatewayPaymentResp struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	PageURL   string `json:"page_url"`
	ExpiresAt string `json:"expires_at"`
}

func (p *GatewayProvider) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	token, err := p.getToken(ctx)
	if err != nil {
		return nil, err
	}
	payload, _ := json.Marshal(gatewayPaymentReq{
		Amount:      float64(req.AmountCents) / 100,
		Currency:    req.Currency,
		Reference:   req.Reference,
		Description: req.Description,
		ExpirySec:   int(req.ExpiresIn.Seconds()),
		WebhookURL:  req.CallbackURL,
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/merchants/payments", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway payment failed: %d %s", resp.StatusCode, string(respBody))
	}
	var out gatewayPaymentResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	expiresAt, _ := time.Parse(time.RFC3339, out.ExpiresAt)
	return &PaymentResponse{
		Reference:   out.Reference,
		Status:      out.Status,
		CheckoutURL: out.PageURL,
		ExpiresAt:   expiresAt,
	}, nil
}

type gatewayRefundReq struct {
	PaymentReference string  `json:"payment_reference"`
	Amount           float64 `json:"amount"`
	Reason           string  `json:"reason"`
	WebhookURL       string  `json:"webhook_url"`
}

type gatewayRefundResp struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}

func (p *GatewayProvider) CreateRefund(ctx context.Context, req RefundRequest) (*RefundResponse, error) {
	token, err := p.getToken(ctx)
	if err != nil {
		return nil, err
	}
	payload, _ := json.Marshal(gatewayRefundReq{
		PaymentReference: req.PaymentReference,
		Amount:           float64(req.AmountCents) / 100,
		Reason:           req.Reason,
		WebhookURL:       req.CallbackURL,
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/merchants/refunds", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway refund failed: %d %s", resp.StatusCode, string(respBody))
	}
	var out gatewayRefundResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return &RefundResponse{RefundID: out.RefundID, Status: out.Status}, nil
}

func (p *GatewayProvider) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	token, err := p.getToken(ctx)
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/merchants/payments/"+reference, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("[Gateway] verify %s: %d %s", reference, resp.StatusCode, string(respBody))
		return false, nil
	}
	var out gatewayPaymentResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return false, err
	}
	return out.Status == "PAID" || out.Status == "COMPLETED", nil
}
