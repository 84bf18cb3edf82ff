package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-tripay/app/entity"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrOrderConflict signals a lost compare-and-swap: the order status
	// changed between the caller's read and the write.
	ErrOrderConflict = errors.New("order status conflict")
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (
			status, transaction_ref, amount_due, currency,
			customer_name, customer_email, customer_phone, channel,
			checkout_url, expires_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		string(order.Status),
		order.TransactionRef,
		order.AmountDue,
		order.Currency,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.Channel,
		nullableStringValue(order.CheckoutURL),
		order.ExpiresAt,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrOrderAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	order.ID = uint64(id)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint64) (*entity.Order, error) {
	query := `
		SELECT id, status, transaction_ref, amount_due, currency,
			customer_name, customer_email, customer_phone, channel,
			checkout_url, expires_at, created_at, updated_at
		FROM orders
		WHERE id = ?
	`

	order := &entity.Order{}
	if err := scanOrder(r.db.QueryRowContext(ctx, query, id), order); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) SetTransactionRef(ctx context.Context, id uint64, ref string) error {
	query := `UPDATE orders SET transaction_ref = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, ref, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrOrderNotFound)
}

func (r *OrderRepository) SetCheckoutURL(ctx context.Context, id uint64, url string) error {
	query := `UPDATE orders SET checkout_url = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, url, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrOrderNotFound)
}

// ApplyTransition writes a status transition as a compare-and-swap on the
// current status. Concurrent webhook deliveries for the same order race
// between read and write; the swap guarantees only one of them commits.
func (r *OrderRepository) ApplyTransition(ctx context.Context, id uint64, from, to entity.OrderStatus, transactionRef string) error {
	query := `
		UPDATE orders SET status = ?, transaction_ref = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		string(to),
		transactionRef,
		time.Now().UTC(),
		id,
		string(from),
	)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrOrderConflict)
}

func (r *OrderRepository) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Order, error) {
	query := `
		SELECT id, status, transaction_ref, amount_due, currency,
			customer_name, customer_email, customer_phone, channel,
			checkout_url, expires_at, created_at, updated_at
		FROM orders
		WHERE status = ? AND expires_at <= ?
		ORDER BY id
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, string(entity.OrderStatusPending), cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*entity.Order, 0)
	for rows.Next() {
		order := &entity.Order{}
		if err := scanOrder(rows, order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(row rowScanner, order *entity.Order) error {
	var status string
	var checkoutURL sql.NullString

	err := row.Scan(
		&order.ID,
		&status,
		&order.TransactionRef,
		&order.AmountDue,
		&order.Currency,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.Channel,
		&checkoutURL,
		&order.ExpiresAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return err
	}

	order.Status = entity.OrderStatus(status)
	order.CheckoutURL = stringPtrFromNull(checkoutURL)
	return nil
}

func requireAffected(result sql.Result, missing error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return missing
	}
	return nil
}
