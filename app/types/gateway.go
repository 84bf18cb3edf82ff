package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type CartItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int32  `json:"quantity"`
}

type CreateCheckoutRequest struct {
	Channel       string     `json:"channel"`
	Currency      string     `json:"currency"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone"`
	Items         []CartItem `json:"items"`
}

func NewCreateCheckoutRequestFromContext(ctx echo.Context) (*CreateCheckoutRequest, error) {
	var body CreateCheckoutRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.Channel = strings.ToUpper(strings.TrimSpace(body.Channel))
	body.Currency = strings.ToUpper(strings.TrimSpace(body.Currency))
	body.CustomerName = strings.TrimSpace(body.CustomerName)
	body.CustomerEmail = strings.TrimSpace(body.CustomerEmail)
	body.CustomerPhone = strings.TrimSpace(body.CustomerPhone)
	for i := range body.Items {
		body.Items[i].ID = strings.TrimSpace(body.Items[i].ID)
		body.Items[i].Name = strings.TrimSpace(body.Items[i].Name)
	}

	return &body, nil
}

func (r *CreateCheckoutRequest) Validate() error {
	if r.Channel == "" {
		return errors.New("channel is required")
	}
	if r.Currency != "IDR" {
		return errors.New("currency must be IDR")
	}
	if r.CustomerName == "" {
		return errors.New("customer_name is required")
	}
	if r.CustomerEmail == "" {
		return errors.New("customer_email is required")
	}
	if r.CustomerPhone == "" {
		return errors.New("customer_phone is required")
	}
	if len(r.Items) == 0 {
		return errors.New("items must contain at least one entry")
	}
	for _, item := range r.Items {
		if item.ID == "" || item.Name == "" {
			return errors.New("items require id and name")
		}
		if item.Price <= 0 {
			return errors.New("item price must be > 0")
		}
		if item.Quantity <= 0 {
			return errors.New("item quantity must be > 0")
		}
	}
	return nil
}

// Subtotal is the amount charged for the whole cart, in whole rupiah.
func (r *CreateCheckoutRequest) Subtotal() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

type GetOrderRequest struct {
	ID uint64
}

func NewGetOrderRequestFromContext(ctx echo.Context) (*GetOrderRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &GetOrderRequest{ID: id}, nil
}

func (r *GetOrderRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid order id")
	}
	return nil
}
