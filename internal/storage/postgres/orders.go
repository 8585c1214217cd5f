package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// orderRepositoryPg хранит заказы и их позиции в рамках текущей транзакции.
type orderRepositoryPg struct {
	tx *sql.Tx
}

var _ domain.OrderRepository = (*orderRepositoryPg)(nil)

const orderColumns = `
	id, user_id, status, currency, total_minor,
	receiver, phone, address, city, state, postal_code,
	payment_method, payment_ref, provider_order_id,
	paid_at, shipped_at, version, created_at, updated_at`

func (r *orderRepositoryPg) Create(ctx context.Context, order domain.Order) error {
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, status, currency, total_minor,
			receiver, phone, address, city, state, postal_code,
			payment_method, payment_ref, provider_order_id,
			paid_at, shipped_at, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 1, $17, $18)
	`,
		order.ID, order.UserID, string(order.Status), order.Currency, order.TotalMinor,
		order.Shipping.Receiver, order.Shipping.Phone, order.Shipping.Address,
		order.Shipping.City, order.Shipping.State, order.Shipping.PostalCode,
		order.PaymentMethod, order.PaymentRef, order.ProviderOrderID,
		order.PaidAt, order.ShippedAt, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", order.ID, err)
	}

	for _, item := range order.Items {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, name, qty,
				unit_price_minor, line_total_minor, image_url, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			item.ID, order.ID, item.ProductID, item.Name, item.Qty,
			item.UnitPriceMinor, item.LineTotalMinor, item.ImageURL, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order item %s: %w", item.ID, err)
		}
	}
	return nil
}

func (r *orderRepositoryPg) Get(ctx context.Context, id string) (domain.Order, error) {
	row := r.tx.QueryRowContext(ctx, `SELECT`+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("query order %s: %w", id, err)
	}

	items, err := r.loadItems(ctx, []string{order.ID})
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *orderRepositoryPg) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.tx.QueryContext(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders for user %s: %w", userID, err)
	}
	return r.collectOrders(ctx, rows)
}

func (r *orderRepositoryPg) List(ctx context.Context, limit int) ([]domain.Order, error) {
	query := `SELECT` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.tx.QueryContext(ctx, query+` LIMIT $1`, limit)
	} else {
		rows, err = r.tx.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return r.collectOrders(ctx, rows)
}

func (r *orderRepositoryPg) Update(ctx context.Context, order domain.Order) error {
	result, err := r.tx.ExecContext(ctx, `
		UPDATE orders SET
			status = $2, payment_method = $3, payment_ref = $4,
			provider_order_id = $5, paid_at = $6, shipped_at = $7,
			version = version + 1, updated_at = $8
		WHERE id = $1 AND version = $9
	`,
		order.ID, string(order.Status), order.PaymentMethod, order.PaymentRef,
		order.ProviderOrderID, order.PaidAt, order.ShippedAt, order.UpdatedAt,
		order.Version,
	)
	if err != nil {
		return fmt.Errorf("update order %s: %w", order.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order %s: rows affected: %w", order.ID, err)
	}
	if affected == 0 {
		var exists bool
		if err := r.tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, order.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check order %s: %w", order.ID, err)
		}
		if !exists {
			return domain.ErrOrderNotFound
		}
		return domain.ErrVersionConflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.UserID, (*string)(&order.Status), &order.Currency, &order.TotalMinor,
		&order.Shipping.Receiver, &order.Shipping.Phone, &order.Shipping.Address,
		&order.Shipping.City, &order.Shipping.State, &order.Shipping.PostalCode,
		&order.PaymentMethod, &order.PaymentRef, &order.ProviderOrderID,
		&order.PaidAt, &order.ShippedAt, &order.Version, &order.CreatedAt, &order.UpdatedAt,
	)
	return order, err
}

func (r *orderRepositoryPg) collectOrders(ctx context.Context, rows *sql.Rows) ([]domain.Order, error) {
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *orderRepositoryPg) loadItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, qty,
		       unit_price_minor, line_total_minor, image_url, created_at
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY created_at, id
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var item domain.OrderItem
		var orderID string
		if err := rows.Scan(
			&item.ID, &orderID, &item.ProductID, &item.Name, &item.Qty,
			&item.UnitPriceMinor, &item.LineTotalMinor, &item.ImageURL, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		result[orderID] = append(result[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}
	return result, nil
}
