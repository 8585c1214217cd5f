package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// UnitOfWork выполняет блоки операций движка заказов в одной транзакции
// PostgreSQL уровня serializable. Временные сбои (конфликт сериализации,
// дедлок, потеря соединения) повторяются целым блоком с экспоненциальной
// задержкой; доменные ошибки возвращаются сразу.
type UnitOfWork struct {
	db     *sql.DB
	retry  domain.RetryConfig
	logger *log.Entry
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork создаёт координатор транзакций поверх подключения Store.
func NewUnitOfWork(store *Store) *UnitOfWork {
	return NewUnitOfWorkWithRetry(store, domain.DefaultRetryConfig())
}

// NewUnitOfWorkWithRetry создаёт координатор с заданной политикой повторов.
func NewUnitOfWorkWithRetry(store *Store, retry domain.RetryConfig) *UnitOfWork {
	return &UnitOfWork{
		db:     store.DB(),
		retry:  retry,
		logger: log.WithField("component", "postgres-uow"),
	}
}

// Execute запускает fn в serializable-транзакции с повтором временных сбоев.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, r domain.Repos) error) error {
	if domain.InsideUnitOfWork(ctx) {
		return domain.ErrNestedUnitOfWork
	}
	ctx = domain.MarkUnitOfWork(ctx)

	delay := u.retry.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= u.retry.MaxAttempts; attempt++ {
		err := u.runAttempt(ctx, fn)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		lastErr = err

		u.logger.WithError(err).WithField("attempt", attempt).Warn("transient storage fault, retrying transaction")
		if attempt < u.retry.MaxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = u.retry.NextDelay(delay)
		}
	}
	return fmt.Errorf("transaction failed after %d attempts: %w: %v", u.retry.MaxAttempts, domain.ErrStorageUnavailable, lastErr)
}

func (u *UnitOfWork) runAttempt(ctx context.Context, fn func(ctx context.Context, r domain.Repos) error) error {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, &txRepos{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txRepos отдаёт репозитории, привязанные к текущей транзакции.
type txRepos struct {
	tx *sql.Tx
}

var _ domain.Repos = (*txRepos)(nil)

func (r *txRepos) Orders() domain.OrderRepository     { return &orderRepositoryPg{tx: r.tx} }
func (r *txRepos) Products() domain.ProductRepository { return &productRepositoryPg{tx: r.tx} }
func (r *txRepos) Carts() domain.CartRepository       { return &cartRepositoryPg{tx: r.tx} }
func (r *txRepos) Returns() domain.ReturnRepository   { return &returnRepositoryPg{tx: r.tx} }
func (r *txRepos) Users() domain.UserRepository       { return &userRepositoryPg{tx: r.tx} }
func (r *txRepos) Timeline() domain.TimelineRepository {
	return &timelineRepositoryPg{tx: r.tx}
}
