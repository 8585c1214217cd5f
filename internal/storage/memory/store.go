package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Store — in-memory хранилище для локальной разработки и тестов. Все таблицы
// живут под одним мьютексом; Execute делает снимок состояния и откатывает его
// при любой ошибке блока, так что семантика совпадает с транзакцией БД.
type Store struct {
	mu       sync.Mutex
	orders   map[string]domain.Order
	products map[string]domain.Product
	carts    map[string][]domain.CartLine
	returns  map[string]domain.ReturnRequest
	users    map[string]domain.User
	timeline map[string][]domain.TimelineEvent

	// faults — очередь инъецируемых сбоев: каждая попытка Execute снимает
	// один элемент и завершается им. Нужна тестам политики повторов.
	faults []error

	retry domain.RetryConfig
}

// NewStore создаёт пустое in-memory хранилище с политикой повторов по умолчанию.
func NewStore() *Store {
	return NewStoreWithRetry(domain.DefaultRetryConfig())
}

// NewStoreWithRetry создаёт хранилище с заданной политикой повторов.
func NewStoreWithRetry(retry domain.RetryConfig) *Store {
	return &Store{
		orders:   make(map[string]domain.Order),
		products: make(map[string]domain.Product),
		carts:    make(map[string][]domain.CartLine),
		returns:  make(map[string]domain.ReturnRequest),
		users:    make(map[string]domain.User),
		timeline: make(map[string][]domain.TimelineEvent),
		retry:    retry,
	}
}

// Execute выполняет fn атомарно с автоматическим повтором временных сбоев.
func (s *Store) Execute(ctx context.Context, fn func(ctx context.Context, r domain.Repos) error) error {
	if domain.InsideUnitOfWork(ctx) {
		return domain.ErrNestedUnitOfWork
	}
	ctx = domain.MarkUnitOfWork(ctx)

	delay := s.retry.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		err := s.runAttempt(ctx, fn)
		if err == nil {
			return nil
		}
		lastErr = err
		if !domain.IsTransient(err) {
			return err
		}
		if attempt < s.retry.MaxAttempts {
			time.Sleep(delay)
			delay = s.retry.NextDelay(delay)
		}
	}
	return lastErr
}

func (s *Store) runAttempt(ctx context.Context, fn func(ctx context.Context, r domain.Repos) error) error {
	if err := s.nextFault(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx, &session{store: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// FailNext ставит в очередь сбои: следующие len(errs) попыток Execute
// завершатся этими ошибками до выполнения блока.
func (s *Store) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, errs...)
}

func (s *Store) nextFault() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.faults) == 0 {
		return nil
	}
	err := s.faults[0]
	s.faults = s.faults[1:]
	return err
}

// AddProduct кладёт товар в каталог (для тестов и dev-наполнения).
func (s *Store) AddProduct(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
}

// AddUser регистрирует пользователя.
func (s *Store) AddUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// AddCartLine добавляет строку в корзину пользователя.
func (s *Store) AddCartLine(line domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[line.UserID] = append(s.carts[line.UserID], line)
}

// Product возвращает срез состояния товара вне транзакции (для проверок в тестах).
func (s *Store) Product(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	return product, ok
}

// CartLines возвращает копию корзины пользователя вне транзакции.
func (s *Store) CartLines(userID string) []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.carts[userID])
}

type storeSnapshot struct {
	orders   map[string]domain.Order
	products map[string]domain.Product
	carts    map[string][]domain.CartLine
	returns  map[string]domain.ReturnRequest
	users    map[string]domain.User
	timeline map[string][]domain.TimelineEvent
}

func (s *Store) snapshot() storeSnapshot {
	snap := storeSnapshot{
		orders:   make(map[string]domain.Order, len(s.orders)),
		products: make(map[string]domain.Product, len(s.products)),
		carts:    make(map[string][]domain.CartLine, len(s.carts)),
		returns:  make(map[string]domain.ReturnRequest, len(s.returns)),
		users:    make(map[string]domain.User, len(s.users)),
		timeline: make(map[string][]domain.TimelineEvent, len(s.timeline)),
	}
	for id, order := range s.orders {
		snap.orders[id] = cloneOrder(order)
	}
	for id, product := range s.products {
		snap.products[id] = product
	}
	for userID, lines := range s.carts {
		snap.carts[userID] = cloneLines(lines)
	}
	for id, request := range s.returns {
		snap.returns[id] = request
	}
	for id, user := range s.users {
		snap.users[id] = user
	}
	for orderID, events := range s.timeline {
		snap.timeline[orderID] = cloneEvents(events)
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.orders = snap.orders
	s.products = snap.products
	s.carts = snap.carts
	s.returns = snap.returns
	s.users = snap.users
	s.timeline = snap.timeline
}

func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}

func cloneLines(lines []domain.CartLine) []domain.CartLine {
	if lines == nil {
		return nil
	}
	result := make([]domain.CartLine, len(lines))
	copy(result, lines)
	return result
}

func cloneEvents(events []domain.TimelineEvent) []domain.TimelineEvent {
	result := make([]domain.TimelineEvent, len(events))
	copy(result, events)
	return result
}

// session отдаёт репозитории, работающие с данными текущей транзакции.
type session struct {
	store *Store
}

func (s *session) Orders() domain.OrderRepository     { return &orderRepositoryInMemory{store: s.store} }
func (s *session) Products() domain.ProductRepository { return &productRepositoryInMemory{store: s.store} }
func (s *session) Carts() domain.CartRepository       { return &cartRepositoryInMemory{store: s.store} }
func (s *session) Returns() domain.ReturnRepository   { return &returnRepositoryInMemory{store: s.store} }
func (s *session) Users() domain.UserRepository       { return &userRepositoryInMemory{store: s.store} }
func (s *session) Timeline() domain.TimelineRepository {
	return &timelineRepositoryInMemory{store: s.store}
}

var (
	_ domain.UnitOfWork = (*Store)(nil)
	_ domain.Repos      = (*session)(nil)
)
