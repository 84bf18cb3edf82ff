package types

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// IPNResponse is the envelope echoed back to Tripay on every processed
// delivery. Business rejections still ship over HTTP 200 with success=false
// so the provider does not redeliver conditions that can never become legal.
type IPNResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckoutOptionsResponse tells the storefront how to render the payment
// step: the display label and the channels the merchant has enabled.
type CheckoutOptionsResponse struct {
	Label    string   `json:"label"`
	Channels []string `json:"channels"`
}

type CheckoutData struct {
	CheckoutURL string `json:"checkout_url"`
}

type CheckoutResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Data    *CheckoutData `json:"data,omitempty"`
}

type Order struct {
	ID             uint64      `json:"id"`
	Status         string      `json:"status"`
	TransactionRef string      `json:"transaction_ref"`
	AmountDue      int64       `json:"amount_due"`
	Currency       string      `json:"currency"`
	CustomerName   string      `json:"customer_name"`
	CustomerEmail  string      `json:"customer_email"`
	CustomerPhone  string      `json:"customer_phone"`
	Channel        string      `json:"channel"`
	CheckoutURL    string      `json:"checkout_url,omitempty"`
	ExpiresAt      string      `json:"expires_at"`
	CreatedAt      string      `json:"created_at"`
	UpdatedAt      string      `json:"updated_at"`
	Notes          []OrderNote `json:"notes,omitempty"`
}

type OrderNote struct {
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

type OrderEnvelopeResponse struct {
	Order *Order `json:"order"`
}
