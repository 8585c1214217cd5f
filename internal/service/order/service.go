package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Service — оркестратор жизненного цикла заказа: оформление, движение по
// статусам, отмена, сверка оплаты и заявки на возврат. Каждая операция —
// ровно одна единица работы; внешние вызовы (платёжный шлюз, уведомления)
// выполняются вне транзакции.
//
// Политика списания остатков: pending-заказ — мягкая бронь без движения
// склада; остатки списываются и корзина очищается только при подтверждении
// оплаты, отмена возвращает остатки только если списание уже произошло.
type Service struct {
	uow      domain.UnitOfWork
	sink     domain.NotificationSink
	gateway  domain.PaymentGateway
	currency string
	logger   *log.Entry
	metrics  *metrics.OrderMetrics

	now   func() time.Time
	newID func() string
}

// NewService создаёт рабочий экземпляр сервиса заказов.
func NewService(uow domain.UnitOfWork, sink domain.NotificationSink, gateway domain.PaymentGateway, currency string, logger *log.Entry) *Service {
	s := newService(uow, sink, gateway, currency, logger)
	s.metrics = metrics.NewOrderMetrics()
	return s
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(uow domain.UnitOfWork, sink domain.NotificationSink, gateway domain.PaymentGateway, currency string, logger *log.Entry) *Service {
	return newService(uow, sink, gateway, currency, logger)
}

func newService(uow domain.UnitOfWork, sink domain.NotificationSink, gateway domain.PaymentGateway, currency string, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		uow:      uow,
		sink:     sink,
		gateway:  gateway,
		currency: currency,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// PlaceOrder оформляет заказ из корзины пользователя. Остатки проверяются,
// но не списываются; корзина остаётся нетронутой до подтверждения оплаты.
func (s *Service) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (string, error) {
	start := time.Now()

	if strings.TrimSpace(userID) == "" {
		return "", domain.ErrUserRequired
	}
	if err := req.validate(); err != nil {
		return "", err
	}

	orderID := s.newID()
	now := s.now()

	err := s.uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		lines, err := r.Carts().Lines(ctx, userID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		items := make([]domain.OrderItem, 0, len(lines))
		var total int64
		for _, line := range lines {
			if line.Qty <= 0 {
				return domain.ErrQtyInvalid
			}
			product, err := r.Products().Get(ctx, line.ProductID)
			if err != nil {
				return fmt.Errorf("product %s: %w", line.ProductID, err)
			}
			if product.Stock < line.Qty {
				return fmt.Errorf("product %s: %w", product.ID, domain.ErrInsufficientStock)
			}
			item := domain.NewOrderItem(s.newID(), product, line.Qty, now)
			items = append(items, item)
			total += item.LineTotalMinor
		}

		order := domain.Order{
			ID:            orderID,
			UserID:        userID,
			Status:        domain.OrderStatusPending,
			Currency:      s.currency,
			TotalMinor:    total,
			Shipping:      req.Shipping,
			PaymentMethod: paymentMethodOrDefault(req.PaymentMethod),
			Items:         items,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if errs := order.ValidateInvariants(); len(errs) > 0 {
			return errs[0]
		}

		if err := r.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return r.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  orderID,
			Type:     domain.TimelineOrderCreated,
			Occurred: now,
		})
	})
	if err != nil {
		s.recordFailure(err)
		return "", err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderPlaced()
		s.metrics.RecordPlaceDuration(time.Since(start))
	}
	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"user_id":  userID,
	}).Info("order placed")
	s.notifyPlaced(ctx, orderID)

	return orderID, nil
}

// DirectBuy создаёт заказ на один товар мимо корзины. Платёжный заказ у
// провайдера регистрируется до входа в транзакцию: вызов шлюза неидемпотентен
// и не должен попадать в повторяемый блок.
func (s *Service) DirectBuy(ctx context.Context, userID string, req DirectBuyRequest) (OrderResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return OrderResponse{}, domain.ErrUserRequired
	}
	if err := req.validate(); err != nil {
		return OrderResponse{}, err
	}

	// Предварительная проверка наличия и расчёт суммы до обращения к шлюзу.
	product, err := domain.ExecuteValue(ctx, s.uow, func(ctx context.Context, r domain.Repos) (domain.Product, error) {
		return r.Products().Get(ctx, req.ProductID)
	})
	if err != nil {
		return OrderResponse{}, err
	}
	if product.Stock < req.Qty {
		s.recordFailure(domain.ErrInsufficientStock)
		return OrderResponse{}, fmt.Errorf("product %s: %w", product.ID, domain.ErrInsufficientStock)
	}

	totalMinor := product.PriceMinor * int64(req.Qty)
	providerOrderID, err := s.gateway.CreateOrder(ctx, totalMinor, s.currency, s.newID())
	if err != nil {
		return OrderResponse{}, fmt.Errorf("payment gateway: %w", err)
	}

	orderID := s.newID()
	now := s.now()

	response, err := domain.ExecuteValue(ctx, s.uow, func(ctx context.Context, r domain.Repos) (OrderResponse, error) {
		// Остаток мог измениться между предварительной проверкой и транзакцией.
		fresh, err := r.Products().Get(ctx, req.ProductID)
		if err != nil {
			return OrderResponse{}, fmt.Errorf("product %s: %w", req.ProductID, err)
		}
		if fresh.Stock < req.Qty {
			return OrderResponse{}, fmt.Errorf("product %s: %w", fresh.ID, domain.ErrInsufficientStock)
		}

		item := domain.NewOrderItem(s.newID(), fresh, req.Qty, now)
		order := domain.Order{
			ID:              orderID,
			UserID:          userID,
			Status:          domain.OrderStatusPending,
			Currency:        s.currency,
			TotalMinor:      item.LineTotalMinor,
			Shipping:        req.Shipping,
			PaymentMethod:   "online",
			ProviderOrderID: providerOrderID,
			Items:           []domain.OrderItem{item},
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if errs := order.ValidateInvariants(); len(errs) > 0 {
			return OrderResponse{}, errs[0]
		}

		if err := r.Orders().Create(ctx, order); err != nil {
			return OrderResponse{}, fmt.Errorf("create order: %w", err)
		}
		if err := r.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  orderID,
			Type:     domain.TimelineOrderCreated,
			Occurred: now,
		}); err != nil {
			return OrderResponse{}, err
		}

		return mapOrder(order, s.lookupEmail(ctx, r, userID)), nil
	})
	if err != nil {
		s.recordFailure(err)
		return OrderResponse{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordDirectBuy()
	}
	s.logger.WithFields(log.Fields{
		"order_id":          orderID,
		"user_id":           userID,
		"provider_order_id": providerOrderID,
	}).Info("direct buy order created")
	s.notifyPlaced(ctx, orderID)

	return response, nil
}

// VerifyPayment сверяет колбэк платёжного провайдера с заказом. Принимается
// только статус "success" (без учёта регистра) и только из pending — это
// защита от повторной доставки колбэка и двойного списания остатков.
// Списание остатков, смена статуса, платёжная ссылка и очистка корзины
// фиксируются одной транзакцией.
func (s *Service) VerifyPayment(ctx context.Context, req PaymentVerification) (bool, error) {
	if !strings.EqualFold(strings.TrimSpace(req.Status), "success") {
		// Неуспех у провайдера — no-op: товары остаются в корзине, повтор безопасен.
		s.logger.WithFields(log.Fields{
			"order_id": req.OrderID,
			"status":   req.Status,
		}).Info("payment not successful, ignoring callback")
		if s.metrics != nil {
			s.metrics.RecordPaymentRejected()
		}
		return false, nil
	}

	var userID string
	err := s.uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		order, err := r.Orders().Get(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPending {
			return domain.ErrInvalidTransition
		}

		// Остатки могли уйти после оформления: проверка и списание атомарны,
		// отказ по любой позиции откатывает все предыдущие списания.
		for _, item := range order.Items {
			if err := r.Products().AdjustStock(ctx, item.ProductID, -item.Qty); err != nil {
				return fmt.Errorf("product %s: %w", item.ProductID, err)
			}
		}

		now := s.now()
		order.Status = domain.OrderStatusProcessing
		order.PaymentRef = req.TransactionID
		order.PaidAt = &now
		if method := strings.TrimSpace(req.PaymentMethod); method != "" {
			order.PaymentMethod = strings.ToLower(method)
		}
		order.UpdatedAt = now

		if err := r.Orders().Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if err := r.Carts().Clear(ctx, order.UserID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		userID = order.UserID
		return r.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  order.ID,
			Type:     domain.TimelinePaymentConfirmed,
			Occurred: now,
		})
	})
	if err != nil {
		s.recordFailure(err)
		return false, err
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentAccepted()
		s.metrics.RecordStatusTransition(string(domain.OrderStatusProcessing))
	}
	s.logger.WithFields(log.Fields{
		"order_id":       req.OrderID,
		"user_id":        userID,
		"transaction_id": req.TransactionID,
	}).Info("payment confirmed")
	s.notifyStatus(ctx, req.OrderID, domain.OrderStatusProcessing)

	return true, nil
}

// UpdateStatus переводит заказ в статус next по таблице переходов. Переход в
// shipped проставляет дату отгрузки; переход в canceled возвращает остатки,
// если списание уже произошло.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus) error {
	err := s.uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		order, err := r.Orders().Get(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return domain.ErrInvalidTransition
		}
		return s.applyTransition(ctx, r, order, next)
	})
	if err != nil {
		s.recordFailure(err)
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordStatusTransition(string(next))
		if next == domain.OrderStatusCanceled {
			s.metrics.RecordOrderCanceled()
		}
	}
	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"status":   next,
	}).Info("order status updated")
	s.notifyStatus(ctx, orderID, next)

	return nil
}

// Cancel отменяет заказ по запросу владельца. Разрешена только до отгрузки.
func (s *Service) Cancel(ctx context.Context, orderID, userID string) error {
	err := s.uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		order, err := r.Orders().Get(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return domain.ErrNotAuthorized
		}
		if !order.Status.CanTransitionTo(domain.OrderStatusCanceled) {
			return domain.ErrInvalidTransition
		}
		return s.applyTransition(ctx, r, order, domain.OrderStatusCanceled)
	})
	if err != nil {
		s.recordFailure(err)
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCanceled()
		s.metrics.RecordStatusTransition(string(domain.OrderStatusCanceled))
	}
	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"user_id":  userID,
	}).Info("order canceled")
	s.notifyStatus(ctx, orderID, domain.OrderStatusCanceled)

	return nil
}

// applyTransition применяет уже разрешённый переход внутри текущей транзакции.
func (s *Service) applyTransition(ctx context.Context, r domain.Repos, order domain.Order, next domain.OrderStatus) error {
	now := s.now()

	if next == domain.OrderStatusShipped {
		order.ShippedAt = &now
	}
	if next == domain.OrderStatusCanceled && order.StockDebited() {
		// Возврат остатков и смена статуса — одна транзакция, частичный
		// возврат невозможен.
		for _, item := range order.Items {
			if err := r.Products().AdjustStock(ctx, item.ProductID, item.Qty); err != nil {
				return fmt.Errorf("restore product %s: %w", item.ProductID, err)
			}
		}
	}

	order.Status = next
	order.UpdatedAt = now
	if err := r.Orders().Update(ctx, order); err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	eventType := domain.TimelineStatusChanged
	if next == domain.OrderStatusCanceled {
		eventType = domain.TimelineOrderCanceled
	}
	return r.Timeline().Append(ctx, domain.TimelineEvent{
		OrderID:  order.ID,
		Type:     eventType,
		Reason:   string(next),
		Occurred: now,
	})
}

func (s *Service) lookupEmail(ctx context.Context, r domain.Repos, userID string) string {
	user, err := r.Users().Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.WithError(err).WithField("user_id", userID).Warn("lookup user email failed")
		}
		return ""
	}
	return user.Email
}

func (s *Service) notifyPlaced(ctx context.Context, orderID string) {
	if s.sink == nil {
		return
	}
	s.sink.OrderPlaced(ctx, orderID, "your order has been placed")
}

func (s *Service) notifyStatus(ctx context.Context, orderID string, status domain.OrderStatus) {
	if s.sink == nil {
		return
	}
	s.sink.OrderStatusChanged(ctx, orderID, status)
}

func (s *Service) recordFailure(err error) {
	if s.metrics != nil && errors.Is(err, domain.ErrInsufficientStock) {
		s.metrics.RecordStockConflict()
	}
}
