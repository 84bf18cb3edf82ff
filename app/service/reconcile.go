package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-tripay/app/entity"
	"github.com/vibast-solutions/ms-go-tripay/app/repository"
	"github.com/vibast-solutions/ms-go-tripay/app/tripay"
)

// ReconcileResult reports the outcome of one IPN delivery. Success mirrors
// the envelope flag sent back to Tripay; Applied tells whether a status
// transition was actually written. They differ for underpaid PAID events,
// which write "revoked" but still answer success=false.
type ReconcileResult struct {
	Applied   bool
	NewStatus entity.OrderStatus
	Success   bool
	Message   string
}

type transitionRule struct {
	target      entity.OrderStatus
	requirePaid bool
	blockedFrom []entity.OrderStatus
	noteFmt     string
}

// transitionRules is the legality matrix for reported-status transitions
// keyed by the status Tripay reports. A reported status is rejected while
// the order sits in any of its blockedFrom states; otherwise the order
// moves to target.
var transitionRules = map[string]transitionRule{
	tripay.StatusUnpaid: {
		target: entity.OrderStatusPending,
		blockedFrom: []entity.OrderStatus{
			entity.OrderStatusPending,
			entity.OrderStatusAbandoned,
			entity.OrderStatusPaid,
			entity.OrderStatusComplete,
		},
		noteFmt: "Payment status reverted to UNPAID/PENDING. TriPay Ref: %s",
	},
	tripay.StatusPaid: {
		target: entity.OrderStatusPaid,
		blockedFrom: []entity.OrderStatus{
			entity.OrderStatusPaid,
			entity.OrderStatusComplete,
			entity.OrderStatusAbandoned,
		},
		noteFmt: "Payment successful. TriPay Ref: %s",
	},
	tripay.StatusExpired: {
		target: entity.OrderStatusAbandoned,
		blockedFrom: []entity.OrderStatus{
			entity.OrderStatusPaid,
			entity.OrderStatusComplete,
			entity.OrderStatusAbandoned,
		},
		noteFmt: "Payment status changed to EXPIRED/ABANDONED. TriPay Ref: %s",
	},
	tripay.StatusFailed: {
		target: entity.OrderStatusFailed,
		blockedFrom: []entity.OrderStatus{
			entity.OrderStatusPaid,
			entity.OrderStatusComplete,
		},
		noteFmt: "Payment status changed to FAILED. TriPay Ref: %s",
	},
	tripay.StatusRefund: {
		target:      entity.OrderStatusRefunded,
		requirePaid: true,
		blockedFrom: []entity.OrderStatus{
			entity.OrderStatusAbandoned,
			entity.OrderStatusRefunded,
		},
		noteFmt: "Payment status changed to REFUNDED. TriPay Ref: %s",
	},
}

// HandleIPN reconciles one verified payment_status callback against the
// order store. The caller has already authenticated the delivery; from here
// every business-rule violation is a soft rejection carried in the result,
// never an error. Errors are reserved for store failures.
func (s *GatewayService) HandleIPN(ctx context.Context, event *tripay.WebhookEvent, signature string, payload []byte) (*ReconcileResult, error) {
	orderID, err := tripay.ParseMerchantRef(event.MerchantRef)
	if err != nil {
		return s.rejectIPN(ctx, nil, signature, payload, "invalid merchant ref: "+event.MerchantRef), nil
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return s.rejectIPN(ctx, nil, signature, payload, fmt.Sprintf("order %d not found", orderID)), nil
	}

	id := order.ID

	// The signature proves the delivery came from Tripay; this proves the
	// delivery belongs to the order's current payment attempt.
	if order.TransactionRef != event.MerchantRef {
		reason := fmt.Sprintf("merchant ref mismatch: got %s, stored %s", event.MerchantRef, order.TransactionRef)
		return s.rejectIPN(ctx, &id, signature, payload, reason), nil
	}

	rule, ok := transitionRules[event.Status]
	if !ok {
		return s.rejectIPN(ctx, &id, signature, payload, "unknown payment status: "+event.Status), nil
	}

	if rule.requirePaid && !order.Status.Paid() {
		reason := fmt.Sprintf("cannot apply %s: order is not paid", event.Status)
		return s.rejectIPN(ctx, &id, signature, payload, reason), nil
	}
	for _, blocked := range rule.blockedFrom {
		if order.Status == blocked {
			reason := fmt.Sprintf("cannot apply %s: order is already %s", event.Status, order.Status)
			return s.rejectIPN(ctx, &id, signature, payload, reason), nil
		}
	}

	target := rule.target
	note := fmt.Sprintf(rule.noteFmt, event.Reference)
	success := true

	// Underpayment revokes the order instead of settling it. Paying the
	// exact amount due settles; there is no partial-paid state.
	if event.Status == tripay.StatusPaid && event.TotalAmount < order.AmountDue {
		target = entity.OrderStatusRevoked
		note = fmt.Sprintf(
			"Order revoked, payment amount mismatch. Paid: Rp.%d Due: Rp.%d. TriPay Ref: %s",
			event.TotalAmount, order.AmountDue, event.Reference,
		)
		success = false
	}

	now := time.Now().UTC()
	if err := s.orderRepo.ApplyTransition(ctx, order.ID, order.Status, target, event.MerchantRef); err != nil {
		if errors.Is(err, repository.ErrOrderConflict) {
			reason := fmt.Sprintf("cannot apply %s: order status changed concurrently", event.Status)
			return s.rejectIPN(ctx, &id, signature, payload, reason), nil
		}
		return nil, err
	}

	s.addNote(ctx, order.ID, note, now)
	s.recordIPN(ctx, &id, signature, payload, entity.IPNCallbackStatusProcessed, nil)

	s.logger.WithField("order_id", order.ID).WithField("status", string(target)).Info("IPN applied")

	return &ReconcileResult{
		Applied:   true,
		NewStatus: target,
		Success:   success,
		Message:   note,
	}, nil
}

func (s *GatewayService) rejectIPN(ctx context.Context, orderID *uint64, signature string, payload []byte, reason string) *ReconcileResult {
	s.logger.WithField("reason", reason).Warn("IPN rejected")

	trimmed := truncate(reason, 1024)
	s.recordIPN(ctx, orderID, signature, payload, entity.IPNCallbackStatusRejected, &trimmed)

	return &ReconcileResult{Success: false, Message: reason}
}

func (s *GatewayService) recordIPN(ctx context.Context, orderID *uint64, signature string, payload []byte, status int32, errMsg *string) {
	err := s.callbackRepo.Create(ctx, &entity.IPNCallback{
		OrderID:     orderID,
		Event:       tripay.EventPaymentStatus,
		Signature:   signature,
		PayloadJSON: string(payload),
		Status:      status,
		Error:       errMsg,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to record IPN callback")
	}
}
