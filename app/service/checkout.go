package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-tripay/app/entity"
	"github.com/vibast-solutions/ms-go-tripay/app/tripay"
	"github.com/vibast-solutions/ms-go-tripay/app/types"
)

// CreateCheckout builds a pending order and requests a hosted checkout page
// from Tripay. The order is persisted before the outbound call; when the
// call fails the order stays pending and the buyer retries checkout.
func (s *GatewayService) CreateCheckout(ctx context.Context, req *types.CreateCheckoutRequest) (*entity.Order, error) {
	if req.Currency != "IDR" {
		return nil, fmt.Errorf("%w: %s", ErrCurrencyNotSupported, req.Currency)
	}
	if !channelEnabled(req.Channel, s.tripayCfg.PaymentChannels) {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotEnabled, req.Channel)
	}

	amount := req.Subtotal()
	if amount <= 0 {
		return nil, fmt.Errorf("%w: cart subtotal must be > 0", ErrInvalidRequest)
	}

	now := time.Now().UTC()
	order := &entity.Order{
		Status:        entity.OrderStatusPending,
		AmountDue:     amount,
		Currency:      req.Currency,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Channel:       req.Channel,
		ExpiresAt:     now.Add(time.Duration(s.tripayCfg.ExpiresAfterDays) * 24 * time.Hour),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}

	merchantRef := tripay.NewMerchantRef(s.tripayCfg.MerchantRefPrefix, order.ID)
	if err := s.orderRepo.SetTransactionRef(ctx, order.ID, merchantRef); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}
	order.TransactionRef = merchantRef

	items := make([]tripay.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, tripay.OrderItem{
			SKU:      "SKU-" + item.ID + "-" + merchantRef + "-EDD",
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	signature := tripay.Sign(
		[]byte(s.tripayCfg.MerchantCode+merchantRef+strconv.FormatInt(amount, 10)),
		s.tripayCfg.PrivateKey,
	)

	resp, err := s.client.CreateTransaction(ctx, &tripay.CreateTransactionRequest{
		Method:        req.Channel,
		MerchantRef:   merchantRef,
		Amount:        amount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		OrderItems:    items,
		CallbackURL:   s.tripayCfg.CallbackURL,
		ReturnURL:     s.tripayCfg.ReturnURL,
		ExpiredTime:   order.ExpiresAt.Unix(),
		Signature:     signature,
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("Tripay create transaction failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if !resp.Success {
		message := strings.TrimSpace(resp.Message)
		if message == "" {
			message = "connection to payment gateway failed, try again"
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstream, message)
	}

	checkoutURL := strings.TrimSpace(resp.Data.CheckoutURL)
	if checkoutURL == "" {
		return nil, fmt.Errorf("%w: checkout url missing from response", ErrUpstream)
	}

	if err := s.orderRepo.SetCheckoutURL(ctx, order.ID, checkoutURL); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("Failed to store checkout url")
	}
	order.CheckoutURL = &checkoutURL

	s.addNote(ctx, order.ID, "Checkout created. Merchant Ref: "+merchantRef, now)

	return order, nil
}
