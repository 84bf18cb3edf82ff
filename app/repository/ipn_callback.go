package repository

import (
	"context"

	"github.com/vibast-solutions/ms-go-tripay/app/entity"
)

type IPNCallbackRepository struct {
	db DBTX
}

func NewIPNCallbackRepository(db DBTX) *IPNCallbackRepository {
	return &IPNCallbackRepository{db: db}
}

func (r *IPNCallbackRepository) Create(ctx context.Context, callback *entity.IPNCallback) error {
	query := `
		INSERT INTO ipn_callbacks (
			order_id, event, signature, payload_json, status, error, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableUint64Value(callback.OrderID),
		callback.Event,
		callback.Signature,
		callback.PayloadJSON,
		callback.Status,
		nullableStringValue(callback.Error),
		callback.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	callback.ID = uint64(id)
	return nil
}
