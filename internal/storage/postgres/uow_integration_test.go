package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func seedIntegrationCatalog(t *testing.T, store *Store) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := store.DB().ExecContext(ctx, `
		INSERT INTO users (id, email) VALUES ('user-1', 'user@example.com');
		INSERT INTO products (id, name, price_minor, stock) VALUES
			('prod-a', 'Keyboard', 1000, 5),
			('prod-b', 'Mouse', 500, 3);
		INSERT INTO cart_items (user_id, product_id, qty) VALUES
			('user-1', 'prod-a', 2),
			('user-1', 'prod-b', 1);
	`)
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
}

func integrationOrder(id string, now time.Time) domain.Order {
	item := domain.OrderItem{
		ID:             id + "-item-1",
		ProductID:      "prod-a",
		Name:           "Keyboard",
		Qty:            2,
		UnitPriceMinor: 1000,
		LineTotalMinor: 2000,
		CreatedAt:      now,
	}
	return domain.Order{
		ID:         id,
		UserID:     "user-1",
		Status:     domain.OrderStatusPending,
		Currency:   "USD",
		TotalMinor: 2000,
		Shipping: domain.ShippingDetails{
			Receiver: "John Smith",
			Address:  "1 Main St",
		},
		PaymentMethod: "cod",
		Items:         []domain.OrderItem{item},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestUnitOfWork_PostgresCommitAndReadBack(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	seedIntegrationCatalog(t, store)
	uow := NewUnitOfWork(store)
	ctx := context.Background()
	now := time.Now().UTC().Round(time.Microsecond)

	err := uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		if err := r.Orders().Create(ctx, integrationOrder("order-1", now)); err != nil {
			return err
		}
		return r.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  "order-1",
			Type:     domain.TimelineOrderCreated,
			Occurred: now,
		})
	})
	require.NoError(t, err)

	order, err := domain.ExecuteValue(ctx, uow, func(ctx context.Context, r domain.Repos) (domain.Order, error) {
		return r.Orders().Get(ctx, "order-1")
	})
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.Equal(t, int64(2000), order.TotalMinor)
	require.Len(t, order.Items, 1)
	require.Equal(t, int64(1), order.Version)

	events, err := domain.ExecuteValue(ctx, uow, func(ctx context.Context, r domain.Repos) ([]domain.TimelineEvent, error) {
		return r.Timeline().List(ctx, "order-1")
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, domain.TimelineOrderCreated, events[0].Type)
}

func TestUnitOfWork_PostgresRollbackOnDomainError(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	seedIntegrationCatalog(t, store)
	uow := NewUnitOfWork(store)
	ctx := context.Background()

	// Вторая позиция превышает остаток: первое списание должно откатиться.
	err := uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		if err := r.Products().AdjustStock(ctx, "prod-a", -2); err != nil {
			return err
		}
		return r.Products().AdjustStock(ctx, "prod-b", -10)
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	product, err := domain.ExecuteValue(ctx, uow, func(ctx context.Context, r domain.Repos) (domain.Product, error) {
		return r.Products().Get(ctx, "prod-a")
	})
	require.NoError(t, err)
	require.Equal(t, int32(5), product.Stock)
}

func TestUnitOfWork_PostgresVersionConflict(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	seedIntegrationCatalog(t, store)
	uow := NewUnitOfWork(store)
	ctx := context.Background()
	now := time.Now().UTC().Round(time.Microsecond)

	err := uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		return r.Orders().Create(ctx, integrationOrder("order-2", now))
	})
	require.NoError(t, err)

	err = uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		order, err := r.Orders().Get(ctx, "order-2")
		if err != nil {
			return err
		}
		order.Version = order.Version + 10 // устаревшая копия
		order.Status = domain.OrderStatusCanceled
		return r.Orders().Update(ctx, order)
	})
	require.True(t, errors.Is(err, domain.ErrVersionConflict))
}

func TestUnitOfWork_PostgresNestedExecuteRejected(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	uow := NewUnitOfWork(store)
	ctx := context.Background()

	err := uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		return uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
			return nil
		})
	})
	require.ErrorIs(t, err, domain.ErrNestedUnitOfWork)
}

func TestUnitOfWork_PostgresCartClear(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	seedIntegrationCatalog(t, store)
	uow := NewUnitOfWork(store)
	ctx := context.Background()

	lines, err := domain.ExecuteValue(ctx, uow, func(ctx context.Context, r domain.Repos) ([]domain.CartLine, error) {
		return r.Carts().Lines(ctx, "user-1")
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	err = uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		return r.Carts().Clear(ctx, "user-1")
	})
	require.NoError(t, err)

	lines, err = domain.ExecuteValue(ctx, uow, func(ctx context.Context, r domain.Repos) ([]domain.CartLine, error) {
		return r.Carts().Lines(ctx, "user-1")
	})
	require.NoError(t, err)
	require.Empty(t, lines)
}
