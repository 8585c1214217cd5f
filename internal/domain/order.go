package domain

import (
	"strings"
	"time"
)

// OrderStatus описывает жизненный цикл заказа в витрине магазина.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, оплата ещё не подтверждена, остатки не списаны.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing — оплата подтверждена, остатки списаны, заказ в обработке.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен покупателю (терминальный статус).
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCanceled — заказ отменён до отгрузки (терминальный статус).
	OrderStatusCanceled OrderStatus = "canceled"
)

// allowedTransitions задаёт разрешённые переходы статусов таблицей, а не
// арифметикой над порядковыми номерами. Прямое движение — строго на один шаг,
// отмена доступна только до отгрузки.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCanceled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCanceled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCanceled:   {},
}

// CanTransitionTo сообщает, разрешён ли переход из текущего статуса в next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal сообщает, что из статуса нет дальнейших переходов.
func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// ParseOrderStatus разбирает статус из внешнего представления.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled:
		return status, nil
	}
	return "", ErrStatusUnknown
}

// OrderItem представляет одну позицию заказа. Название и цена — снимок товара
// на момент оформления: последующие правки каталога не меняют историю.
type OrderItem struct {
	ID        string
	ProductID string
	// Name — снимок названия товара.
	Name string
	// Qty — количество единиц товара.
	Qty int32
	// UnitPriceMinor — снимок цены за единицу в минимальных денежных единицах.
	UnitPriceMinor int64
	// LineTotalMinor — сумма позиции (UnitPriceMinor * Qty), хранится явно.
	LineTotalMinor int64
	// ImageURL — снимок ссылки на изображение для проекции заказа.
	ImageURL  string
	CreatedAt time.Time
}

// NewOrderItem делает снимок товара под позицию заказа.
func NewOrderItem(id string, product Product, qty int32, now time.Time) OrderItem {
	return OrderItem{
		ID:             id,
		ProductID:      product.ID,
		Name:           product.Name,
		Qty:            qty,
		UnitPriceMinor: product.PriceMinor,
		LineTotalMinor: product.PriceMinor * int64(qty),
		ImageURL:       product.ImageURL,
		CreatedAt:      now,
	}
}

// ShippingDetails содержит адрес и контакты получателя.
type ShippingDetails struct {
	Receiver   string
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID     string
	UserID string
	Status OrderStatus
	// Currency — код валюты всех сумм заказа.
	Currency string
	// TotalMinor фиксируется при создании заказа и больше не пересчитывается.
	TotalMinor    int64
	Shipping      ShippingDetails
	PaymentMethod string
	// PaymentRef — внешний идентификатор транзакции, появляется после сверки оплаты.
	PaymentRef string
	PaidAt     *time.Time
	// ProviderOrderID — ссылка платёжного провайдера для direct buy.
	ProviderOrderID string
	ShippedAt       *time.Time
	Items           []OrderItem
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ItemsTotalMinor суммирует позиции заказа по снимкам цен.
func (o *Order) ItemsTotalMinor() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.UnitPriceMinor * int64(item.Qty)
	}
	return total
}

// StockDebited сообщает, было ли по заказу списание остатков.
// Политика: остатки списываются только при подтверждении оплаты.
func (o *Order) StockDebited() bool {
	return o.PaidAt != nil
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserRequired)
	}
	if o.Currency == "" {
		errs = append(errs, ErrCurrencyRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.TotalMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}

	// Сверяем сумму заказа с позициями: unit price * qty и явный line total.
	var calc int64
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.UnitPriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		if item.LineTotalMinor != item.UnitPriceMinor*int64(item.Qty) {
			errs = append(errs, ErrLineTotalMismatch)
		}
		calc += item.UnitPriceMinor * int64(item.Qty)
	}
	if calc != o.TotalMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
