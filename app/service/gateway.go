package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-tripay/app/entity"
	"github.com/vibast-solutions/ms-go-tripay/app/factory"
	"github.com/vibast-solutions/ms-go-tripay/app/tripay"
	"github.com/vibast-solutions/ms-go-tripay/config"
)

const defaultBatchSize = int32(100)

type orderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uint64) (*entity.Order, error)
	SetTransactionRef(ctx context.Context, id uint64, ref string) error
	SetCheckoutURL(ctx context.Context, id uint64, url string) error
	ApplyTransition(ctx context.Context, id uint64, from, to entity.OrderStatus, transactionRef string) error
	ListExpiredPending(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Order, error)
}

type orderNoteRepository interface {
	Create(ctx context.Context, note *entity.OrderNote) error
	ListByOrderID(ctx context.Context, orderID uint64) ([]*entity.OrderNote, error)
}

type ipnCallbackRepository interface {
	Create(ctx context.Context, callback *entity.IPNCallback) error
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, req *tripay.CreateTransactionRequest) (*tripay.CreateTransactionResponse, error)
}

type GatewayService struct {
	orderRepo    orderRepository
	noteRepo     orderNoteRepository
	callbackRepo ipnCallbackRepository
	client       transactionCreator
	tripayCfg    config.TripayConfig
	ordersCfg    config.OrdersConfig
	logger       logrus.FieldLogger
}

func NewGatewayService(
	orderRepo orderRepository,
	noteRepo orderNoteRepository,
	callbackRepo ipnCallbackRepository,
	client transactionCreator,
	tripayCfg config.TripayConfig,
	ordersCfg config.OrdersConfig,
) *GatewayService {
	return &GatewayService{
		orderRepo:    orderRepo,
		noteRepo:     noteRepo,
		callbackRepo: callbackRepo,
		client:       client,
		tripayCfg:    tripayCfg,
		ordersCfg:    ordersCfg,
		logger:       factory.NewModuleLogger("gateway-service"),
	}
}

func (s *GatewayService) GetOrder(ctx context.Context, id uint64) (*entity.Order, []*entity.OrderNote, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}

	notes, err := s.noteRepo.ListByOrderID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return order, notes, nil
}

// CheckoutOptions reports the checkout display label and enabled channels.
func (s *GatewayService) CheckoutOptions() (string, []string) {
	channels := make([]string, len(s.tripayCfg.PaymentChannels))
	copy(channels, s.tripayCfg.PaymentChannels)
	return s.tripayCfg.CheckoutLabel, channels
}

func (s *GatewayService) addNote(ctx context.Context, orderID uint64, note string, now time.Time) {
	err := s.noteRepo.Create(ctx, &entity.OrderNote{
		OrderID:   orderID,
		Note:      note,
		CreatedAt: now,
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("Failed to append order note")
	}
}

func (s *GatewayService) batchSize() int32 {
	if s.ordersCfg.JobBatchSize > 0 {
		return s.ordersCfg.JobBatchSize
	}
	return defaultBatchSize
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}

func channelEnabled(channel string, enabled []string) bool {
	for _, item := range enabled {
		if strings.EqualFold(channel, item) {
			return true
		}
	}
	return false
}
