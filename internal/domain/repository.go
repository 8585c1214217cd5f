package domain

import (
	"context"
	"time"
)

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с позициями.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(ctx context.Context, id string) (Order, error)
	// ListByUser возвращает заказы пользователя, свежие первыми.
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	// List возвращает заказы всех пользователей с опциональным лимитом (limit<=0 — без лимита).
	List(ctx context.Context, limit int) ([]Order, error)
	// Update применяет обновления к заказу с учётом optimistic locking.
	Update(ctx context.Context, order Order) error
}

// ProductRepository — доступ движка заказов к цене и остатку товара.
type ProductRepository interface {
	// Get возвращает товар или ErrProductNotFound.
	Get(ctx context.Context, id string) (Product, error)
	// Update перезаписывает товар.
	Update(ctx context.Context, product Product) error
	// AdjustStock атомарно меняет остаток на delta. Возвращает ErrInsufficientStock,
	// если результат стал бы отрицательным: это и есть защита от lost update
	// при конкурентных списаниях.
	AdjustStock(ctx context.Context, id string, delta int32) error
}

// CartRepository — доступ к строкам корзины пользователя.
type CartRepository interface {
	// Lines возвращает текущие строки корзины пользователя.
	Lines(ctx context.Context, userID string) ([]CartLine, error)
	// Clear удаляет все строки корзины пользователя.
	Clear(ctx context.Context, userID string) error
}

// ReturnRepository — хранилище заявок на возврат.
type ReturnRepository interface {
	Create(ctx context.Context, request ReturnRequest) error
	Get(ctx context.Context, id string) (ReturnRequest, error)
	List(ctx context.Context) ([]ReturnRequest, error)
	Update(ctx context.Context, request ReturnRequest) error
}

// UserRepository отдаёт данные пользователя для внешней проекции заказа.
type UserRepository interface {
	// Get возвращает пользователя или ErrUserNotFound.
	Get(ctx context.Context, id string) (User, error)
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(ctx context.Context, event TimelineEvent) error
	List(ctx context.Context, orderID string) ([]TimelineEvent, error)
}

// Repos — набор репозиториев, доступный внутри одной единицы работы.
// Все полученные через Repos операции попадают в одну транзакцию.
type Repos interface {
	Orders() OrderRepository
	Products() ProductRepository
	Carts() CartRepository
	Returns() ReturnRepository
	Users() UserRepository
	Timeline() TimelineRepository
}

// UnitOfWork выполняет блок операций над репозиториями атомарно: либо все
// записи фиксируются, либо ни одна. Временные сбои хранилища повторяются
// целым блоком, поэтому внутри fn не должно быть неидемпотентных внешних
// вызовов (платежи, уведомления) — им место после успешного Execute.
type UnitOfWork interface {
	// Execute запускает fn в транзакции. Любая ошибка внутри fn откатывает
	// транзакцию и возвращается вызывающему без изменений. Вложенный Execute
	// из fn — ошибка программирования, возвращается ErrNestedUnitOfWork.
	Execute(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

// ExecuteValue — вариант Execute с возвращаемым значением.
func ExecuteValue[T any](ctx context.Context, uow UnitOfWork, fn func(ctx context.Context, r Repos) (T, error)) (T, error) {
	var result T
	err := uow.Execute(ctx, func(ctx context.Context, r Repos) error {
		var innerErr error
		result, innerErr = fn(ctx, r)
		return innerErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

type uowMarker struct{}

// MarkUnitOfWork помечает контекст активной транзакцией. Используется
// реализациями UnitOfWork для запрета вложенных Execute.
func MarkUnitOfWork(ctx context.Context) context.Context {
	return context.WithValue(ctx, uowMarker{}, struct{}{})
}

// InsideUnitOfWork сообщает, выполняется ли контекст внутри Execute.
func InsideUnitOfWork(ctx context.Context) bool {
	return ctx.Value(uowMarker{}) != nil
}

// RetryConfig задаёт политику повторов координатора для временных сбоев.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig возвращает политику повторов по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// NextDelay возвращает задержку перед следующей попыткой с экспоненциальным ростом.
func (c RetryConfig) NextDelay(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * c.BackoffFactor)
	if next > c.MaxDelay {
		next = c.MaxDelay
	}
	return next
}
