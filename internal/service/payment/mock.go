package payment

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// MockGateway — эмуляция платёжного провайдера для разработки и тестов.
// Регистрирует платёжные заказы с предсказуемыми идентификаторами и помнит
// количество обращений.
type MockGateway struct {
	logger *log.Entry

	mu      sync.Mutex
	orders  []CreatedOrder
	counter atomic.Int64

	// FailWith заставляет CreateOrder возвращать указанную ошибку.
	FailWith error
}

// CreatedOrder — запись о зарегистрированном у провайдера платёжном заказе.
type CreatedOrder struct {
	ProviderOrderID string
	AmountMinor     int64
	Currency        string
	Receipt         string
}

var _ domain.PaymentGateway = (*MockGateway)(nil)

// NewMockGateway создаёт мок платёжного шлюза.
func NewMockGateway(logger *log.Entry) *MockGateway {
	if logger == nil {
		logger = log.New().WithField("component", "payment-mock")
	}
	return &MockGateway{logger: logger}
}

// CreateOrder регистрирует платёжный заказ и возвращает идентификатор провайдера.
func (g *MockGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g.FailWith != nil {
		return "", g.FailWith
	}

	providerOrderID := fmt.Sprintf("mock-pay-%d", g.counter.Add(1))

	g.mu.Lock()
	g.orders = append(g.orders, CreatedOrder{
		ProviderOrderID: providerOrderID,
		AmountMinor:     amountMinor,
		Currency:        currency,
		Receipt:         receipt,
	})
	g.mu.Unlock()

	g.logger.WithFields(log.Fields{
		"provider_order_id": providerOrderID,
		"amount_minor":      amountMinor,
		"currency":          currency,
	}).Info("mock payment order created")

	return providerOrderID, nil
}

// Orders возвращает копию зарегистрированных платёжных заказов.
func (g *MockGateway) Orders() []CreatedOrder {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]CreatedOrder(nil), g.orders...)
}

// Calls возвращает число успешных обращений к шлюзу.
func (g *MockGateway) Calls() int {
	return int(g.counter.Load())
}
