package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Репозитории ниже существуют только внутри session: блокировку держит
// Execute, поэтому методы работают с картами напрямую.

type orderRepositoryInMemory struct {
	store *Store
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepositoryInMemory) Create(_ context.Context, order domain.Order) error {
	if _, exists := r.store.orders[order.ID]; exists {
		return domain.ErrVersionConflict
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	r.store.orders[order.ID] = cloneOrder(order)
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(_ context.Context, id string) (domain.Order, error) {
	order, ok := r.store.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// ListByUser возвращает заказы пользователя, свежие первыми.
func (r *orderRepositoryInMemory) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	result := make([]domain.Order, 0)
	for _, order := range r.store.orders {
		if order.UserID != userID {
			continue
		}
		result = append(result, cloneOrder(order))
	}
	sortOrders(result)
	return result, nil
}

// List возвращает заказы всех пользователей.
func (r *orderRepositoryInMemory) List(_ context.Context, limit int) ([]domain.Order, error) {
	result := make([]domain.Order, 0, len(r.store.orders))
	for _, order := range r.store.orders {
		result = append(result, cloneOrder(order))
	}
	sortOrders(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Update перезаписывает заказ, проверяя версию (optimistic locking).
func (r *orderRepositoryInMemory) Update(_ context.Context, order domain.Order) error {
	current, ok := r.store.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrVersionConflict
	}
	order.Version++
	r.store.orders[order.ID] = cloneOrder(order)
	return nil
}

func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

type productRepositoryInMemory struct {
	store *Store
}

// Get возвращает товар или ErrProductNotFound.
func (r *productRepositoryInMemory) Get(_ context.Context, id string) (domain.Product, error) {
	product, ok := r.store.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// Update перезаписывает товар.
func (r *productRepositoryInMemory) Update(_ context.Context, product domain.Product) error {
	if _, ok := r.store.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.store.products[product.ID] = product
	return nil
}

// AdjustStock атомарно меняет остаток; отрицательный результат запрещён.
func (r *productRepositoryInMemory) AdjustStock(_ context.Context, id string, delta int32) error {
	product, ok := r.store.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	next := product.Stock + delta
	if next < 0 {
		return domain.ErrInsufficientStock
	}
	product.Stock = next
	r.store.products[id] = product
	return nil
}

type cartRepositoryInMemory struct {
	store *Store
}

// Lines возвращает строки корзины пользователя в порядке добавления.
func (r *cartRepositoryInMemory) Lines(_ context.Context, userID string) ([]domain.CartLine, error) {
	lines := cloneLines(r.store.carts[userID])
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].AddedAt.Before(lines[j].AddedAt)
	})
	return lines, nil
}

// Clear удаляет корзину пользователя.
func (r *cartRepositoryInMemory) Clear(_ context.Context, userID string) error {
	delete(r.store.carts, userID)
	return nil
}

type returnRepositoryInMemory struct {
	store *Store
}

// Create сохраняет новую заявку на возврат.
func (r *returnRepositoryInMemory) Create(_ context.Context, request domain.ReturnRequest) error {
	if _, exists := r.store.returns[request.ID]; exists {
		return domain.ErrVersionConflict
	}
	r.store.returns[request.ID] = request
	return nil
}

// Get возвращает заявку или ErrReturnNotFound.
func (r *returnRepositoryInMemory) Get(_ context.Context, id string) (domain.ReturnRequest, error) {
	request, ok := r.store.returns[id]
	if !ok {
		return domain.ReturnRequest{}, domain.ErrReturnNotFound
	}
	return request, nil
}

// List возвращает все заявки, свежие первыми.
func (r *returnRepositoryInMemory) List(_ context.Context) ([]domain.ReturnRequest, error) {
	result := make([]domain.ReturnRequest, 0, len(r.store.returns))
	for _, request := range r.store.returns {
		result = append(result, request)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].RequestedAt.Equal(result[j].RequestedAt) {
			return result[i].RequestedAt.After(result[j].RequestedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Update перезаписывает заявку.
func (r *returnRepositoryInMemory) Update(_ context.Context, request domain.ReturnRequest) error {
	if _, ok := r.store.returns[request.ID]; !ok {
		return domain.ErrReturnNotFound
	}
	r.store.returns[request.ID] = request
	return nil
}

type userRepositoryInMemory struct {
	store *Store
}

// Get возвращает пользователя или ErrUserNotFound.
func (r *userRepositoryInMemory) Get(_ context.Context, id string) (domain.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

type timelineRepositoryInMemory struct {
	store *Store
}

// Append добавляет событие жизненного цикла заказа.
func (r *timelineRepositoryInMemory) Append(_ context.Context, event domain.TimelineEvent) error {
	r.store.timeline[event.OrderID] = append(r.store.timeline[event.OrderID], event)
	return nil
}

// List возвращает события заказа в хронологическом порядке.
func (r *timelineRepositoryInMemory) List(_ context.Context, orderID string) ([]domain.TimelineEvent, error) {
	events := cloneEvents(r.store.timeline[orderID])
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Occurred.Before(events[j].Occurred)
	})
	return events, nil
}

var (
	_ domain.OrderRepository    = (*orderRepositoryInMemory)(nil)
	_ domain.ProductRepository  = (*productRepositoryInMemory)(nil)
	_ domain.CartRepository     = (*cartRepositoryInMemory)(nil)
	_ domain.ReturnRepository   = (*returnRepositoryInMemory)(nil)
	_ domain.UserRepository     = (*userRepositoryInMemory)(nil)
	_ domain.TimelineRepository = (*timelineRepositoryInMemory)(nil)
)
