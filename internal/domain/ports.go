package domain

import "context"

// NotificationSink получает сигналы о событиях заказа. Вызывается строго
// после фиксации транзакции, best effort: реализация логирует сбои сама и
// никогда не влияет на результат операции.
type NotificationSink interface {
	// OrderPlaced сигнализирует о созданном заказе.
	OrderPlaced(ctx context.Context, orderID, message string)
	// OrderStatusChanged сигнализирует о смене статуса заказа.
	OrderStatusChanged(ctx context.Context, orderID string, status OrderStatus)
}

// PaymentGateway — внешний платёжный провайдер. Создание платёжного заказа
// неидемпотентно, поэтому вызывается до входа в unit of work.
type PaymentGateway interface {
	// CreateOrder регистрирует платёж у провайдера и возвращает его ссылку.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
}
