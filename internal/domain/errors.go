package domain

import "errors"

var (
	// Ошибка оформления заказа из пустой корзины.
	ErrEmptyCart = errors.New("cart is empty")
	// Ошибка некорректного количества во входных данных.
	ErrQtyInvalid = errors.New("quantity must be greater than zero")
	// Ошибка отсутствующего получателя в деталях доставки.
	ErrReceiverRequired = errors.New("receiver name is required")
	// Ошибка отсутствующего адреса доставки.
	ErrAddressRequired = errors.New("shipping address is required")
	// Ошибка отсутствующей причины возврата.
	ErrReasonRequired = errors.New("return reason is required")
	// Ошибка нераспознанного статуса во внешнем представлении.
	ErrStatusUnknown = errors.New("unknown status")

	// Ошибка отсутствующего владельца заказа.
	ErrUserRequired = errors.New("user_id is required")
	// Ошибка отсутствующего кода валюты.
	ErrCurrencyRequired = errors.New("currency is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отрицательной суммы заказа.
	ErrAmountNegative = errors.New("total_minor must be non-negative")
	// Ошибка при некорректном количестве в позиции (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка отрицательной цены позиции.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка расхождения явного line total с unit price * qty.
	ErrLineTotalMismatch = errors.New("item line total does not match unit price and qty")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order total does not match items sum")

	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound возвращается, если товар отсутствует в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrUserNotFound возвращается, если пользователь неизвестен.
	ErrUserNotFound = errors.New("user not found")
	// ErrReturnNotFound возвращается, если заявка на возврат не найдена.
	ErrReturnNotFound = errors.New("return request not found")

	// ErrInsufficientStock — на складе меньше единиц, чем запрошено.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidTransition — запрошенный переход статуса запрещён таблицей переходов.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNotAuthorized — операция запрошена не владельцем заказа.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrReturnNotAllowed — возврат возможен только по доставленному заказу.
	ErrReturnNotAllowed = errors.New("return allowed only for delivered orders")

	// ErrVersionConflict сигнализирует о конфликте версий при сохранении заказа.
	ErrVersionConflict = errors.New("order version conflict")
	// ErrStorageUnavailable — временный сбой хранилища; координатор повторяет блок целиком.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
	// ErrNestedUnitOfWork — попытка открыть транзакцию внутри активной транзакции.
	ErrNestedUnitOfWork = errors.New("nested unit of work is not allowed")
)

// validationErrors перечисляет ошибки, которые относятся к некорректному вводу.
var validationErrors = []error{
	ErrEmptyCart,
	ErrQtyInvalid,
	ErrReceiverRequired,
	ErrAddressRequired,
	ErrReasonRequired,
	ErrStatusUnknown,
	ErrUserRequired,
}

// notFoundErrors перечисляет ошибки отсутствующих сущностей.
var notFoundErrors = []error{
	ErrOrderNotFound,
	ErrProductNotFound,
	ErrUserNotFound,
	ErrReturnNotFound,
}

// IsValidation проверяет, является ли ошибка ошибкой валидации входных данных.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound проверяет, является ли ошибка отсутствием сущности.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsTransient проверяет, является ли ошибка временным сбоем хранилища.
// Только такие ошибки координатор транзакций повторяет автоматически.
func IsTransient(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
