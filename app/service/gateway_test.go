package service

import (
	"context"
	"time"

	"github.com/vibast-solutions/ms-go-tripay/app/entity"
	"github.com/vibast-solutions/ms-go-tripay/app/repository"
	"github.com/vibast-solutions/ms-go-tripay/app/tripay"
	"github.com/vibast-solutions/ms-go-tripay/config"
)

type gatewayOrderRepo struct {
	orders    map[uint64]*entity.Order
	nextID    uint64
	createErr error
	setRefErr error
	applyErr  error
}

func newGatewayOrderRepo() *gatewayOrderRepo {
	return &gatewayOrderRepo{
		orders: map[uint64]*entity.Order{},
		nextID: 1,
	}
}

func (r *gatewayOrderRepo) seed(order *entity.Order) {
	copyItem := *order
	r.orders[order.ID] = &copyItem
	if order.ID >= r.nextID {
		r.nextID = order.ID + 1
	}
}

func (r *gatewayOrderRepo) Create(_ context.Context, order *entity.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	id := r.nextID
	r.nextID++
	copyItem := *order
	copyItem.ID = id
	r.orders[id] = &copyItem
	order.ID = id
	return nil
}

func (r *gatewayOrderRepo) FindByID(_ context.Context, id uint64) (*entity.Order, error) {
	item, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (r *gatewayOrderRepo) SetTransactionRef(_ context.Context, id uint64, ref string) error {
	if r.setRefErr != nil {
		return r.setRefErr
	}
	item, ok := r.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	item.TransactionRef = ref
	return nil
}

func (r *gatewayOrderRepo) SetCheckoutURL(_ context.Context, id uint64, url string) error {
	item, ok := r.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	item.CheckoutURL = &url
	return nil
}

func (r *gatewayOrderRepo) ApplyTransition(_ context.Context, id uint64, from, to entity.OrderStatus, transactionRef string) error {
	if r.applyErr != nil {
		return r.applyErr
	}
	item, ok := r.orders[id]
	if !ok || item.Status != from {
		return repository.ErrOrderConflict
	}
	item.Status = to
	item.TransactionRef = transactionRef
	item.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *gatewayOrderRepo) ListExpiredPending(_ context.Context, cutoff time.Time, limit int32) ([]*entity.Order, error) {
	items := make([]*entity.Order, 0)
	for _, item := range r.orders {
		if item.Status == entity.OrderStatusPending && !item.ExpiresAt.After(cutoff) {
			copyItem := *item
			items = append(items, &copyItem)
		}
		if limit > 0 && int32(len(items)) >= limit {
			break
		}
	}
	return items, nil
}

type gatewayNoteRepo struct {
	notes []*entity.OrderNote
}

func (r *gatewayNoteRepo) Create(_ context.Context, note *entity.OrderNote) error {
	copyItem := *note
	r.notes = append(r.notes, &copyItem)
	return nil
}

func (r *gatewayNoteRepo) ListByOrderID(_ context.Context, orderID uint64) ([]*entity.OrderNote, error) {
	items := make([]*entity.OrderNote, 0)
	for _, note := range r.notes {
		if note.OrderID == orderID {
			copyItem := *note
			items = append(items, &copyItem)
		}
	}
	return items, nil
}

type gatewayCallbackRepo struct {
	callbacks []*entity.IPNCallback
}

func (r *gatewayCallbackRepo) Create(_ context.Context, callback *entity.IPNCallback) error {
	copyItem := *callback
	r.callbacks = append(r.callbacks, &copyItem)
	return nil
}

type gatewayClient struct {
	resp    *tripay.CreateTransactionResponse
	err     error
	lastReq *tripay.CreateTransactionRequest
	calls   int
}

func (c *gatewayClient) CreateTransaction(_ context.Context, req *tripay.CreateTransactionRequest) (*tripay.CreateTransactionResponse, error) {
	c.calls++
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}
	return c.resp, nil
}

func testTripayConfig() config.TripayConfig {
	return config.TripayConfig{
		MerchantCode:      "T1234",
		APIKey:            "api-key-1",
		PrivateKey:        "private-key-1",
		ExpiresAfterDays:  1,
		PaymentChannels:   []string{"BRIVA", "QRIS"},
		CheckoutLabel:     "TriPay Payment",
		CallbackURL:       "https://shop.example.com/webhooks/tripay",
		ReturnURL:         "https://shop.example.com/thanks",
		MerchantRefPrefix: "EDD",
	}
}

func newTestService(orderRepo *gatewayOrderRepo, noteRepo *gatewayNoteRepo, callbackRepo *gatewayCallbackRepo, client *gatewayClient) *GatewayService {
	return NewGatewayService(orderRepo, noteRepo, callbackRepo, client, testTripayConfig(), config.OrdersConfig{JobBatchSize: 100})
}

func successEnvelope(checkoutURL string) *tripay.CreateTransactionResponse {
	resp := &tripay.CreateTransactionResponse{Success: true}
	resp.Data.Reference = "T429518138RGQI9"
	resp.Data.CheckoutURL = checkoutURL
	return resp
}

func pendingOrder(id uint64, amountDue int64) *entity.Order {
	now := time.Now().UTC()
	return &entity.Order{
		ID:             id,
		Status:         entity.OrderStatusPending,
		TransactionRef: tripay.NewMerchantRef("EDD", id),
		AmountDue:      amountDue,
		Currency:       "IDR",
		CustomerName:   "Budi Santoso",
		CustomerEmail:  "budi@example.com",
		CustomerPhone:  "0812345678",
		Channel:        "BRIVA",
		ExpiresAt:      now.Add(24 * time.Hour),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
