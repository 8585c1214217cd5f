package order

import (
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// defaultPaymentMethod используется, когда клиент не указал способ оплаты.
const defaultPaymentMethod = "cod"

// PlaceOrderRequest — входные данные оформления заказа из корзины.
type PlaceOrderRequest struct {
	Shipping      domain.ShippingDetails
	PaymentMethod string
}

func (r PlaceOrderRequest) validate() error {
	if strings.TrimSpace(r.Shipping.Receiver) == "" {
		return domain.ErrReceiverRequired
	}
	if strings.TrimSpace(r.Shipping.Address) == "" {
		return domain.ErrAddressRequired
	}
	return nil
}

// DirectBuyRequest — покупка одного товара мимо корзины.
type DirectBuyRequest struct {
	ProductID string
	Qty       int32
	Shipping  domain.ShippingDetails
}

func (r DirectBuyRequest) validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return domain.ErrProductNotFound
	}
	if r.Qty <= 0 {
		return domain.ErrQtyInvalid
	}
	if strings.TrimSpace(r.Shipping.Receiver) == "" {
		return domain.ErrReceiverRequired
	}
	if strings.TrimSpace(r.Shipping.Address) == "" {
		return domain.ErrAddressRequired
	}
	return nil
}

// PaymentVerification — колбэк сверки оплаты от платёжного провайдера.
type PaymentVerification struct {
	OrderID       string
	TransactionID string
	// Status — строка статуса провайдера; оплата принимается только при "success"
	// без учёта регистра.
	Status        string
	PaymentMethod string
}

// CreateReturnRequest — заявка покупателя на возврат позиции заказа.
type CreateReturnRequest struct {
	ProductID   string
	Reason      string
	Description string
}

func (r CreateReturnRequest) validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return domain.ErrProductNotFound
	}
	if strings.TrimSpace(r.Reason) == "" {
		return domain.ErrReasonRequired
	}
	return nil
}

// OrderItemView — позиция заказа во внешней проекции.
type OrderItemView struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Qty            int32  `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	LineTotalMinor int64  `json:"line_total_minor"`
	ImageURL       string `json:"image_url,omitempty"`
}

// OrderResponse — внешняя проекция заказа.
type OrderResponse struct {
	ID            string                 `json:"id"`
	OrderDate     time.Time              `json:"order_date"`
	TotalMinor    int64                  `json:"total_minor"`
	Currency      string                 `json:"currency"`
	Status        string                 `json:"status"`
	Shipping      domain.ShippingDetails `json:"shipping"`
	PaymentMethod string                 `json:"payment_method"`
	PaymentRef    string                 `json:"payment_ref,omitempty"`
	PaidAt        *time.Time             `json:"paid_at,omitempty"`
	ShippedAt     *time.Time             `json:"shipped_at,omitempty"`
	UserEmail     string                 `json:"user_email,omitempty"`
	Items         []OrderItemView        `json:"items"`
}

func paymentMethodOrDefault(method string) string {
	method = strings.TrimSpace(method)
	if method == "" {
		return defaultPaymentMethod
	}
	return strings.ToLower(method)
}
