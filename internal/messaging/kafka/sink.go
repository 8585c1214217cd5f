package kafka

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Sink переводит уведомления движка заказов в события Kafka. Публикация
// выполняется после фиксации транзакции и работает по принципу best effort:
// ошибка доставки логируется и не влияет на результат операции.
type Sink struct {
	producer *Producer
	logger   *log.Entry
}

var _ domain.NotificationSink = (*Sink)(nil)

// NewSink создает sink поверх готового producer.
func NewSink(producer *Producer) *Sink {
	return &Sink{
		producer: producer,
		logger:   log.WithField("component", "kafka-sink"),
	}
}

// OrderPlaced публикует событие оформления заказа.
func (s *Sink) OrderPlaced(ctx context.Context, orderID, message string) {
	event := NewOrderEvent(EventTypeOrderPlaced, orderID, string(domain.OrderStatusPending), message)
	if err := s.producer.Publish(event); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("order placed event lost")
	}
}

// OrderStatusChanged публикует событие смены статуса заказа.
func (s *Sink) OrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) {
	event := NewOrderEvent(EventTypeOrderStatusChanged, orderID, string(status), "")
	if err := s.producer.Publish(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"status":   status,
		}).Warn("order status event lost")
	}
}
