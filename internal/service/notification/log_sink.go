package notification

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// LogSink пишет уведомления в журнал. Используется, когда брокер событий
// не сконфигурирован.
type LogSink struct {
	logger *log.Entry
}

var _ domain.NotificationSink = (*LogSink)(nil)

// NewLogSink создаёт sink, пишущий в журнал.
func NewLogSink(logger *log.Entry) *LogSink {
	if logger == nil {
		logger = log.New().WithField("component", "notification-log")
	}
	return &LogSink{logger: logger}
}

// OrderPlaced журналирует факт оформления заказа.
func (s *LogSink) OrderPlaced(ctx context.Context, orderID, message string) {
	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"message":  message,
	}).Info("order placed notification")
}

// OrderStatusChanged журналирует смену статуса заказа.
func (s *LogSink) OrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) {
	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"status":   status,
	}).Info("order status notification")
}
