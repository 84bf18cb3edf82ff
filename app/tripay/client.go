package tripay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	ProductionBaseURL = "https://tripay.co.id/api/"
	SandboxBaseURL    = "https://tripay.co.id/api-sandbox/"
)

// Payment statuses as reported by Tripay in payment_status callbacks.
const (
	StatusUnpaid  = "UNPAID"
	StatusPaid    = "PAID"
	StatusExpired = "EXPIRED"
	StatusFailed  = "FAILED"
	StatusRefund  = "REFUND"
)

// EventPaymentStatus is the only X-Callback-Event value acted upon.
const EventPaymentStatus = "payment_status"

type Config struct {
	APIKey      string
	SandboxMode bool
	// BaseURL overrides the sandbox/production URL selection when set.
	BaseURL     string
	HTTPTimeout time.Duration
}

type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		if cfg.SandboxMode {
			cfg.BaseURL = SandboxBaseURL
		} else {
			cfg.BaseURL = ProductionBaseURL
		}
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type OrderItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int32  `json:"quantity"`
}

type CreateTransactionRequest struct {
	Method        string      `json:"method"`
	MerchantRef   string      `json:"merchant_ref"`
	Amount        int64       `json:"amount"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	CustomerPhone string      `json:"customer_phone"`
	OrderItems    []OrderItem `json:"order_items"`
	CallbackURL   string      `json:"callback_url"`
	ReturnURL     string      `json:"return_url"`
	ExpiredTime   int64       `json:"expired_time"`
	Signature     string      `json:"signature"`
}

type CreateTransactionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Reference   string `json:"reference"`
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// WebhookEvent is a single parsed payment_status callback body. It is
// consumed once by the reconciler and never persisted as-is.
type WebhookEvent struct {
	MerchantRef string `json:"merchant_ref"`
	Status      string `json:"status"`
	Reference   string `json:"reference"`
	TotalAmount int64  `json:"total_amount"`
}

// ParseWebhookEvent trims fields but keeps the reported status verbatim:
// Tripay documents the uppercase literals and anything else must fall
// through to the unknown-status rejection, not be coerced into a match.
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	event.MerchantRef = strings.TrimSpace(event.MerchantRef)
	event.Status = strings.TrimSpace(event.Status)
	event.Reference = strings.TrimSpace(event.Reference)
	return &event, nil
}

// CreateTransaction posts a closed-transaction request to Tripay and returns
// the decoded envelope. A success=false envelope is not an error; only
// transport failures and undecodable bodies are.
func (c *Client) CreateTransaction(ctx context.Context, req *CreateTransactionRequest) (*CreateTransactionResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/transaction/create"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result CreateTransactionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("tripay create transaction: invalid response: status=%d body=%s", resp.StatusCode, string(body))
	}

	return &result, nil
}
