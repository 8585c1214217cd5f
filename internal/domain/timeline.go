package domain

import "time"

// Типы событий timeline заказа.
const (
	TimelineOrderCreated     = "OrderCreated"
	TimelineStatusChanged    = "OrderStatusChanged"
	TimelinePaymentConfirmed = "OrderPaymentConfirmed"
	TimelineOrderCanceled    = "OrderCanceled"
	TimelineReturnRequested  = "OrderReturnRequested"
)

// TimelineEvent описывает событие в жизненном цикле заказа. События пишутся
// в той же транзакции, что и породившая их мутация.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}
