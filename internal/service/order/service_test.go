package order

import (
	"context"
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/payment"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

type recordingSink struct {
	placed   []string
	statuses []domain.OrderStatus
}

func (s *recordingSink) OrderPlaced(_ context.Context, orderID, _ string) {
	s.placed = append(s.placed, orderID)
}

func (s *recordingSink) OrderStatusChanged(_ context.Context, _ string, status domain.OrderStatus) {
	s.statuses = append(s.statuses, status)
}

type fixture struct {
	store   *memory.Store
	sink    *recordingSink
	gateway *payment.MockGateway
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStoreWithRetry(domain.RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	})
	sink := &recordingSink{}
	gateway := payment.NewMockGateway(nil)
	logger := log.New()
	logger.SetLevel(log.ErrorLevel)
	service := NewServiceWithoutMetrics(store, sink, gateway, "USD", logger.WithField("component", "order-service-test"))

	return &fixture{store: store, sink: sink, gateway: gateway, service: service}
}

func (f *fixture) seedCatalog() {
	f.store.AddUser(domain.User{ID: "user-1", Email: "user@example.com"})
	f.store.AddProduct(domain.Product{ID: "prod-a", Name: "Keyboard", PriceMinor: 1000, Stock: 5})
	f.store.AddProduct(domain.Product{ID: "prod-b", Name: "Mouse", PriceMinor: 500, Stock: 3})
}

func (f *fixture) seedCart() {
	now := time.Now().UTC()
	f.store.AddCartLine(domain.CartLine{UserID: "user-1", ProductID: "prod-a", Qty: 2, AddedAt: now})
	f.store.AddCartLine(domain.CartLine{UserID: "user-1", ProductID: "prod-b", Qty: 1, AddedAt: now.Add(time.Second)})
}

func placeRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		Shipping: domain.ShippingDetails{
			Receiver: "John Smith",
			Address:  "1 Main St",
			City:     "Springfield",
		},
	}
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)
	require.NotEmpty(t, orderID)

	order, err := f.service.GetOrder(ctx, orderID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.OrderStatusPending), order.Status)
	assert.Equal(t, int64(2500), order.TotalMinor)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, "cod", order.PaymentMethod)
	assert.Equal(t, "user@example.com", order.UserEmail)
	assert.Len(t, order.Items, 2)
	assert.Nil(t, order.PaidAt)

	// Pending — мягкая бронь: остатки и корзина не тронуты.
	productA, _ := f.store.Product("prod-a")
	assert.Equal(t, int32(5), productA.Stock)
	assert.Len(t, f.store.CartLines("user-1"), 2)

	assert.Equal(t, []string{orderID}, f.sink.placed)
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	ctx := context.Background()

	_, err := f.service.PlaceOrder(ctx, "", placeRequest())
	assert.ErrorIs(t, err, domain.ErrUserRequired)
	assert.True(t, domain.IsValidation(err))

	req := placeRequest()
	req.Shipping.Receiver = "  "
	_, err = f.service.PlaceOrder(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrReceiverRequired)

	req = placeRequest()
	req.Shipping.Address = ""
	_, err = f.service.PlaceOrder(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrAddressRequired)

	// Корзина пуста.
	_, err = f.service.PlaceOrder(ctx, "user-1", placeRequest())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.store.AddCartLine(domain.CartLine{UserID: "user-1", ProductID: "prod-a", Qty: 2, AddedAt: time.Now()})
	f.store.AddCartLine(domain.CartLine{UserID: "user-1", ProductID: "prod-b", Qty: 10, AddedAt: time.Now()})
	ctx := context.Background()

	_, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Заказ не появился, корзина не изменилась.
	orders, err := f.service.ListUserOrders(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Len(t, f.store.CartLines("user-1"), 2)
	assert.Empty(t, f.sink.placed)
}

func TestPlaceOrderPriceSnapshot(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	// Цена изменилась после оформления — сумма заказа зафиксирована.
	f.store.AddProduct(domain.Product{ID: "prod-a", Name: "Keyboard", PriceMinor: 9999, Stock: 5})

	order, err := f.service.GetOrder(ctx, orderID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), order.TotalMinor)
	for _, item := range order.Items {
		if item.ProductID == "prod-a" {
			assert.Equal(t, int64(1000), item.UnitPriceMinor)
		}
	}
}

func TestPlaceOrderRetriesTransientFaults(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	f.store.FailNext(domain.ErrStorageUnavailable, domain.ErrStorageUnavailable)

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	order, err := f.service.GetOrder(ctx, orderID, "")
	require.NoError(t, err)
	assert.Equal(t, string(domain.OrderStatusPending), order.Status)
}

func TestVerifyPayment(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	accepted, err := f.service.VerifyPayment(ctx, PaymentVerification{
		OrderID:       orderID,
		TransactionID: "txn-42",
		Status:        "SUCCESS",
		PaymentMethod: "Card",
	})
	require.NoError(t, err)
	require.True(t, accepted)

	order, err := f.service.GetOrder(ctx, orderID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.OrderStatusProcessing), order.Status)
	assert.Equal(t, "txn-42", order.PaymentRef)
	assert.Equal(t, "card", order.PaymentMethod)
	require.NotNil(t, order.PaidAt)

	// Остатки списаны, корзина очищена.
	productA, _ := f.store.Product("prod-a")
	productB, _ := f.store.Product("prod-b")
	assert.Equal(t, int32(3), productA.Stock)
	assert.Equal(t, int32(2), productB.Stock)
	assert.Empty(t, f.store.CartLines("user-1"))

	assert.Contains(t, f.sink.statuses, domain.OrderStatusProcessing)
}

func TestVerifyPaymentFailedStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	accepted, err := f.service.VerifyPayment(ctx, PaymentVerification{
		OrderID:       orderID,
		TransactionID: "txn-1",
		Status:        "failed",
	})
	require.NoError(t, err)
	assert.False(t, accepted)

	order, err := f.service.GetOrder(ctx, orderID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.OrderStatusPending), order.Status)
	assert.Empty(t, order.PaymentRef)

	productA, _ := f.store.Product("prod-a")
	assert.Equal(t, int32(5), productA.Stock)
	assert.Len(t, f.store.CartLines("user-1"), 2)
}

func TestVerifyPaymentSecondCallbackRejected(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	verification := PaymentVerification{OrderID: orderID, TransactionID: "txn-1", Status: "success"}
	accepted, err := f.service.VerifyPayment(ctx, verification)
	require.NoError(t, err)
	require.True(t, accepted)

	// Повторная доставка колбэка не списывает остатки второй раз.
	_, err = f.service.VerifyPayment(ctx, verification)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	productA, _ := f.store.Product("prod-a")
	assert.Equal(t, int32(3), productA.Stock)
}

func TestVerifyPaymentInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	// Остаток второй позиции ушёл между оформлением и подтверждением оплаты.
	f.store.AddProduct(domain.Product{ID: "prod-b", Name: "Mouse", PriceMinor: 500, Stock: 0})

	_, err = f.service.VerifyPayment(ctx, PaymentVerification{
		OrderID: orderID, TransactionID: "txn-1", Status: "success",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Списание первой позиции откатилось, заказ остался pending.
	productA, _ := f.store.Product("prod-a")
	assert.Equal(t, int32(5), productA.Stock)

	order, err := f.service.GetOrder(ctx, orderID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.OrderStatusPending), order.Status)
	assert.Len(t, f.store.CartLines("user-1"), 2)
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.VerifyPayment(ctx, PaymentVerification{
		OrderID: "missing", TransactionID: "txn-1", Status: "success",
	})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	// Pending → shipped запрещён: оплата не подтверждена.
	err = f.service.UpdateStatus(ctx, orderID, domain.OrderStatusShipped)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.service.VerifyPayment(ctx, PaymentVerification{OrderID: orderID, TransactionID: "txn-1", Status: "success"})
	require.NoError(t, err)

	require.NoError(t, f.service.UpdateStatus(ctx, orderID, domain.OrderStatusShipped))
	order, err := f.service.GetOrder(ctx, orderID, "")
	require.NoError(t, err)
	assert.Equal(t, string(domain.OrderStatusShipped), order.Status)
	require.NotNil(t, order.ShippedAt)

	require.NoError(t, f.service.UpdateStatus(ctx, orderID, domain.OrderStatusDelivered))

	// Delivered — терминальный статус.
	err = f.service.UpdateStatus(ctx, orderID, domain.OrderStatusCanceled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelPaidOrderRestoresStock(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)
	_, err = f.service.VerifyPayment(ctx, PaymentVerification{OrderID: orderID, TransactionID: "txn-1", Status: "success"})
	require.NoError(t, err)

	productA, _ := f.store.Product("prod-a")
	require.Equal(t, int32(3), productA.Stock)

	require.NoError(t, f.service.Cancel(ctx, orderID, "user-1"))

	productA, _ = f.store.Product("prod-a")
	productB, _ := f.store.Product("prod-b")
	assert.Equal(t, int32(5), productA.Stock)
	assert.Equal(t, int32(3), productB.Stock)

	// Повторная отмена запрещена: остатки не возвращаются дважды.
	err = f.service.Cancel(ctx, orderID, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	productA, _ = f.store.Product("prod-a")
	assert.Equal(t, int32(5), productA.Stock)
}

func TestCancelPendingOrderLeavesStock(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	require.NoError(t, f.service.Cancel(ctx, orderID, "user-1"))

	// Списания не было — возвращать нечего.
	productA, _ := f.store.Product("prod-a")
	assert.Equal(t, int32(5), productA.Stock)

	order, err := f.service.GetOrder(ctx, orderID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.OrderStatusCanceled), order.Status)
}

func TestCancelRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	err = f.service.Cancel(ctx, orderID, "user-2")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestCancelShippedOrderForbidden(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)
	_, err = f.service.VerifyPayment(ctx, PaymentVerification{OrderID: orderID, TransactionID: "txn-1", Status: "success"})
	require.NoError(t, err)
	require.NoError(t, f.service.UpdateStatus(ctx, orderID, domain.OrderStatusShipped))

	err = f.service.Cancel(ctx, orderID, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDirectBuy(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	ctx := context.Background()

	response, err := f.service.DirectBuy(ctx, "user-1", DirectBuyRequest{
		ProductID: "prod-a",
		Qty:       2,
		Shipping:  placeRequest().Shipping,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.OrderStatusPending), response.Status)
	assert.Equal(t, int64(2000), response.TotalMinor)
	assert.Equal(t, "online", response.PaymentMethod)
	require.Len(t, response.Items, 1)
	assert.Equal(t, "prod-a", response.Items[0].ProductID)

	// Шлюз вызван ровно один раз, сумма в младших единицах.
	require.Equal(t, 1, f.gateway.Calls())
	created := f.gateway.Orders()[0]
	assert.Equal(t, int64(2000), created.AmountMinor)
	assert.Equal(t, "USD", created.Currency)

	// До оплаты остаток не двигается.
	productA, _ := f.store.Product("prod-a")
	assert.Equal(t, int32(5), productA.Stock)
}

func TestDirectBuyInsufficientStockSkipsGateway(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	ctx := context.Background()

	_, err := f.service.DirectBuy(ctx, "user-1", DirectBuyRequest{
		ProductID: "prod-a",
		Qty:       50,
		Shipping:  placeRequest().Shipping,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 0, f.gateway.Calls())
}

func TestDirectBuyGatewayFailure(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.gateway.FailWith = errors.New("gateway down")
	ctx := context.Background()

	_, err := f.service.DirectBuy(ctx, "user-1", DirectBuyRequest{
		ProductID: "prod-a",
		Qty:       1,
		Shipping:  placeRequest().Shipping,
	})
	require.Error(t, err)

	orders, err := f.service.ListUserOrders(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestGetOrderOwnership(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	_, err = f.service.GetOrder(ctx, orderID, "user-2")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	// Пустой requester — административный доступ.
	_, err = f.service.GetOrder(ctx, orderID, "")
	assert.NoError(t, err)

	_, err = f.service.GetOrder(ctx, "missing", "user-1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	ctx := context.Background()

	f.store.AddCartLine(domain.CartLine{UserID: "user-1", ProductID: "prod-a", Qty: 1, AddedAt: time.Now()})
	first, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	_, err = f.service.VerifyPayment(ctx, PaymentVerification{OrderID: first, TransactionID: "txn-1", Status: "success"})
	require.NoError(t, err)

	f.store.AddCartLine(domain.CartLine{UserID: "user-1", ProductID: "prod-b", Qty: 2, AddedAt: time.Now()})
	second, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	orders, err := f.service.ListUserOrders(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	ids := []string{orders[0].ID, orders[1].ID}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)

	all, err := f.service.ListAllOrders(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	limited, err := f.service.ListAllOrders(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOrderTimeline(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)
	_, err = f.service.VerifyPayment(ctx, PaymentVerification{OrderID: orderID, TransactionID: "txn-1", Status: "success"})
	require.NoError(t, err)
	require.NoError(t, f.service.UpdateStatus(ctx, orderID, domain.OrderStatusShipped))

	events, err := f.service.OrderTimeline(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.TimelineOrderCreated, events[0].Type)
	assert.Equal(t, domain.TimelinePaymentConfirmed, events[1].Type)
	assert.Equal(t, domain.TimelineStatusChanged, events[2].Type)
}

func deliverOrder(t *testing.T, f *fixture, ctx context.Context) string {
	t.Helper()
	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)
	_, err = f.service.VerifyPayment(ctx, PaymentVerification{OrderID: orderID, TransactionID: "txn-1", Status: "success"})
	require.NoError(t, err)
	require.NoError(t, f.service.UpdateStatus(ctx, orderID, domain.OrderStatusShipped))
	require.NoError(t, f.service.UpdateStatus(ctx, orderID, domain.OrderStatusDelivered))
	return orderID
}

func TestCreateReturnRequest(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()
	orderID := deliverOrder(t, f, ctx)

	returnID, err := f.service.CreateReturnRequest(ctx, "user-1", orderID, CreateReturnRequest{
		ProductID: "prod-a",
		Reason:    "defective",
	})
	require.NoError(t, err)
	require.NotEmpty(t, returnID)

	requests, err := f.service.ListReturnRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, domain.ReturnStatusPending, requests[0].Status)
	assert.Equal(t, orderID, requests[0].OrderID)

	events, err := f.service.OrderTimeline(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.TimelineReturnRequested, events[len(events)-1].Type)
}

func TestCreateReturnRequestGuards(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()

	orderID, err := f.service.PlaceOrder(ctx, "user-1", placeRequest())
	require.NoError(t, err)

	// Возврат возможен только по доставленному заказу.
	_, err = f.service.CreateReturnRequest(ctx, "user-1", orderID, CreateReturnRequest{ProductID: "prod-a", Reason: "defective"})
	assert.ErrorIs(t, err, domain.ErrReturnNotAllowed)

	_, err = f.service.VerifyPayment(ctx, PaymentVerification{OrderID: orderID, TransactionID: "txn-1", Status: "success"})
	require.NoError(t, err)
	require.NoError(t, f.service.UpdateStatus(ctx, orderID, domain.OrderStatusShipped))
	require.NoError(t, f.service.UpdateStatus(ctx, orderID, domain.OrderStatusDelivered))

	_, err = f.service.CreateReturnRequest(ctx, "user-2", orderID, CreateReturnRequest{ProductID: "prod-a", Reason: "defective"})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = f.service.CreateReturnRequest(ctx, "user-1", orderID, CreateReturnRequest{ProductID: "prod-x", Reason: "defective"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = f.service.CreateReturnRequest(ctx, "user-1", orderID, CreateReturnRequest{ProductID: "prod-a", Reason: " "})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
}

func TestUpdateReturnStatus(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog()
	f.seedCart()
	ctx := context.Background()
	orderID := deliverOrder(t, f, ctx)

	returnID, err := f.service.CreateReturnRequest(ctx, "user-1", orderID, CreateReturnRequest{ProductID: "prod-a", Reason: "defective"})
	require.NoError(t, err)

	// Pending → picked_up минует одобрение.
	err = f.service.UpdateReturnStatus(ctx, returnID, domain.ReturnStatusPickedUp)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, f.service.UpdateReturnStatus(ctx, returnID, domain.ReturnStatusApproved))
	require.NoError(t, f.service.UpdateReturnStatus(ctx, returnID, domain.ReturnStatusPickedUp))
	require.NoError(t, f.service.UpdateReturnStatus(ctx, returnID, domain.ReturnStatusRefunded))

	requests, err := f.service.ListReturnRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, domain.ReturnStatusRefunded, requests[0].Status)
	assert.NotNil(t, requests[0].ResolvedAt)

	err = f.service.UpdateReturnStatus(ctx, "missing", domain.ReturnStatusApproved)
	assert.ErrorIs(t, err, domain.ErrReturnNotFound)
}
