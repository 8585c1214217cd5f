package app

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/service/notification"
	"github.com/vladislavdragonenkov/storefront/internal/service/payment"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// Dependencies собирает инфраструктуру приложения: хранилище, уведомления и
// платёжный шлюз.
type Dependencies struct {
	UoW     domain.UnitOfWork
	Sink    domain.NotificationSink
	Gateway domain.PaymentGateway

	pgStore  *postgres.Store
	producer *kafka.Producer
}

// buildDependencies выбирает реализацию по конфигурации: PostgreSQL при
// заданном DSN, иначе in-memory; Kafka при заданных брокерах, иначе журнал.
func buildDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	deps := &Dependencies{}

	if dsn := strings.TrimSpace(cfg.PostgresDSN); dsn != "" {
		store, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		deps.pgStore = store
		deps.UoW = postgres.NewUnitOfWork(store)
		logger.Info("postgres storage initialized")
	} else {
		deps.UoW = memory.NewStore()
		logger.Info("in-memory storage initialized")
	}

	if brokersRaw := strings.TrimSpace(cfg.KafkaBrokers); brokersRaw != "" {
		brokers := strings.Split(brokersRaw, ",")
		producer, err := kafka.NewProducer(brokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, falling back to log notifications")
		} else {
			deps.producer = producer
			deps.Sink = kafka.NewSink(producer)
			logger.WithField("brokers", brokers).Info("kafka producer initialized")
		}
	}
	if deps.Sink == nil {
		deps.Sink = notification.NewLogSink(logger.WithField("component", "notification-log"))
	}

	// NOTE: Using mock payment gateway for development/demo purposes
	// In production, replace with a real payment provider client
	deps.Gateway = payment.NewMockGateway(logger.WithField("component", "payment-mock"))

	return deps, nil
}

// registerHealthChecks подключает проверки компонентов к health handler.
func (d *Dependencies) registerHealthChecks(handler *healthcheck.Handler) {
	if d.pgStore != nil {
		store := d.pgStore
		handler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(ctx)
		}))
	}
}

// Close освобождает подключения в обратном порядке инициализации.
func (d *Dependencies) Close(logger *log.Entry) {
	if d.producer != nil {
		if err := d.producer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			logger.Info("kafka producer closed")
		}
	}
	if d.pgStore != nil {
		if err := d.pgStore.Close(); err != nil {
			logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
