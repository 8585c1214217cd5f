package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// productRepositoryPg — каталог товаров в рамках текущей транзакции.
type productRepositoryPg struct {
	tx *sql.Tx
}

var _ domain.ProductRepository = (*productRepositoryPg)(nil)

func (r *productRepositoryPg) Get(ctx context.Context, id string) (domain.Product, error) {
	var product domain.Product
	err := r.tx.QueryRowContext(ctx, `
		SELECT id, name, price_minor, stock, image_url, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(&product.ID, &product.Name, &product.PriceMinor, &product.Stock, &product.ImageURL, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("query product %s: %w", id, err)
	}
	return product, nil
}

func (r *productRepositoryPg) Update(ctx context.Context, product domain.Product) error {
	result, err := r.tx.ExecContext(ctx, `
		UPDATE products
		SET name = $2, price_minor = $3, stock = $4, image_url = $5, updated_at = NOW()
		WHERE id = $1
	`, product.ID, product.Name, product.PriceMinor, product.Stock, product.ImageURL)
	if err != nil {
		return fmt.Errorf("update product %s: %w", product.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product %s: rows affected: %w", product.ID, err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AdjustStock меняет остаток одним UPDATE с проверкой достаточности в самом
// условии: конкурентное списание не может увести остаток ниже нуля.
func (r *productRepositoryPg) AdjustStock(ctx context.Context, id string, delta int32) error {
	result, err := r.tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0
	`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust stock for product %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust stock for product %s: rows affected: %w", id, err)
	}
	if affected == 0 {
		var exists bool
		if err := r.tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check product %s: %w", id, err)
		}
		if !exists {
			return domain.ErrProductNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// cartRepositoryPg — корзины пользователей в рамках текущей транзакции.
type cartRepositoryPg struct {
	tx *sql.Tx
}

var _ domain.CartRepository = (*cartRepositoryPg)(nil)

func (r *cartRepositoryPg) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	rows, err := r.tx.QueryContext(ctx, `
		SELECT user_id, product_id, qty, added_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY added_at, product_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart for user %s: %w", userID, err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.UserID, &line.ProductID, &line.Qty, &line.AddedAt); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart rows: %w", err)
	}
	return lines, nil
}

func (r *cartRepositoryPg) Clear(ctx context.Context, userID string) error {
	if _, err := r.tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart for user %s: %w", userID, err)
	}
	return nil
}

// returnRepositoryPg — заявки на возврат в рамках текущей транзакции.
type returnRepositoryPg struct {
	tx *sql.Tx
}

var _ domain.ReturnRepository = (*returnRepositoryPg)(nil)

func (r *returnRepositoryPg) Create(ctx context.Context, request domain.ReturnRequest) error {
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO return_requests (
			id, order_id, product_id, user_id, reason, description,
			status, requested_at, resolved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		request.ID, request.OrderID, request.ProductID, request.UserID,
		request.Reason, request.Description, string(request.Status),
		request.RequestedAt, request.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert return request %s: %w", request.ID, err)
	}
	return nil
}

func (r *returnRepositoryPg) Get(ctx context.Context, id string) (domain.ReturnRequest, error) {
	var request domain.ReturnRequest
	err := r.tx.QueryRowContext(ctx, `
		SELECT id, order_id, product_id, user_id, reason, description,
		       status, requested_at, resolved_at
		FROM return_requests
		WHERE id = $1
	`, id).Scan(
		&request.ID, &request.OrderID, &request.ProductID, &request.UserID,
		&request.Reason, &request.Description, (*string)(&request.Status),
		&request.RequestedAt, &request.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReturnRequest{}, domain.ErrReturnNotFound
		}
		return domain.ReturnRequest{}, fmt.Errorf("query return request %s: %w", id, err)
	}
	return request, nil
}

func (r *returnRepositoryPg) List(ctx context.Context) ([]domain.ReturnRequest, error) {
	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, order_id, product_id, user_id, reason, description,
		       status, requested_at, resolved_at
		FROM return_requests
		ORDER BY requested_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query return requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.ReturnRequest
	for rows.Next() {
		var request domain.ReturnRequest
		if err := rows.Scan(
			&request.ID, &request.OrderID, &request.ProductID, &request.UserID,
			&request.Reason, &request.Description, (*string)(&request.Status),
			&request.RequestedAt, &request.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("scan return request row: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate return request rows: %w", err)
	}
	return requests, nil
}

func (r *returnRepositoryPg) Update(ctx context.Context, request domain.ReturnRequest) error {
	result, err := r.tx.ExecContext(ctx, `
		UPDATE return_requests
		SET status = $2, resolved_at = $3
		WHERE id = $1
	`, request.ID, string(request.Status), request.ResolvedAt)
	if err != nil {
		return fmt.Errorf("update return request %s: %w", request.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update return request %s: rows affected: %w", request.ID, err)
	}
	if affected == 0 {
		return domain.ErrReturnNotFound
	}
	return nil
}

// userRepositoryPg — чтение пользователей для проекций заказов.
type userRepositoryPg struct {
	tx *sql.Tx
}

var _ domain.UserRepository = (*userRepositoryPg)(nil)

func (r *userRepositoryPg) Get(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := r.tx.QueryRowContext(ctx, `SELECT id, email FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("query user %s: %w", id, err)
	}
	return user, nil
}

// timelineRepositoryPg — события жизненного цикла заказа.
type timelineRepositoryPg struct {
	tx *sql.Tx
}

var _ domain.TimelineRepository = (*timelineRepositoryPg)(nil)

func (r *timelineRepositoryPg) Append(ctx context.Context, event domain.TimelineEvent) error {
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO order_timeline (order_id, event_type, reason, occurred_at)
		VALUES ($1, $2, $3, $4)
	`, event.OrderID, event.Type, event.Reason, event.Occurred)
	if err != nil {
		return fmt.Errorf("append timeline event for order %s: %w", event.OrderID, err)
	}
	return nil
}

func (r *timelineRepositoryPg) List(ctx context.Context, orderID string) ([]domain.TimelineEvent, error) {
	rows, err := r.tx.QueryContext(ctx, `
		SELECT order_id, event_type, reason, occurred_at
		FROM order_timeline
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query timeline for order %s: %w", orderID, err)
	}
	defer rows.Close()

	var events []domain.TimelineEvent
	for rows.Next() {
		var event domain.TimelineEvent
		if err := rows.Scan(&event.OrderID, &event.Type, &event.Reason, &event.Occurred); err != nil {
			return nil, fmt.Errorf("scan timeline row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline rows: %w", err)
	}
	return events, nil
}
