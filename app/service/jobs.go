package service

import (
	"context"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-tripay/app/entity"
	"github.com/vibast-solutions/ms-go-tripay/app/repository"
)

// RunExpirePendingBatch abandons pending orders whose payment window has
// closed. Tripay normally reports EXPIRED itself; this covers deliveries
// that never arrive.
func (s *GatewayService) RunExpirePendingBatch(ctx context.Context) error {
	now := time.Now().UTC()

	orders, err := s.orderRepo.ListExpiredPending(ctx, now, s.batchSize())
	if err != nil {
		return err
	}

	for _, order := range orders {
		err := s.orderRepo.ApplyTransition(ctx, order.ID, entity.OrderStatusPending, entity.OrderStatusAbandoned, order.TransactionRef)
		if errors.Is(err, repository.ErrOrderConflict) {
			continue
		}
		if err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Warn("Failed to abandon expired order")
			continue
		}
		s.addNote(ctx, order.ID, "Order abandoned, payment window expired.", now)
	}

	return nil
}
