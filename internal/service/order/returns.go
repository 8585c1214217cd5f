package order

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// CreateReturnRequest создаёт заявку на возврат позиции заказа. Возврат
// разрешён только владельцу и только по доставленному заказу.
func (s *Service) CreateReturnRequest(ctx context.Context, userID, orderID string, req CreateReturnRequest) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", domain.ErrUserRequired
	}
	if err := req.validate(); err != nil {
		return "", err
	}

	requestID := s.newID()
	now := s.now()

	err := s.uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		order, err := r.Orders().Get(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return domain.ErrNotAuthorized
		}
		if order.Status != domain.OrderStatusDelivered {
			return domain.ErrReturnNotAllowed
		}

		found := false
		for _, item := range order.Items {
			if item.ProductID == req.ProductID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("product %s is not part of order %s: %w", req.ProductID, orderID, domain.ErrProductNotFound)
		}

		request := domain.ReturnRequest{
			ID:          requestID,
			OrderID:     orderID,
			ProductID:   req.ProductID,
			UserID:      userID,
			Reason:      req.Reason,
			Description: req.Description,
			Status:      domain.ReturnStatusPending,
			RequestedAt: now,
		}
		if err := r.Returns().Create(ctx, request); err != nil {
			return fmt.Errorf("create return request: %w", err)
		}
		return r.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  orderID,
			Type:     domain.TimelineReturnRequested,
			Reason:   req.Reason,
			Occurred: now,
		})
	})
	if err != nil {
		return "", err
	}

	s.logger.WithFields(log.Fields{
		"order_id":  orderID,
		"return_id": requestID,
		"user_id":   userID,
	}).Info("return request created")

	return requestID, nil
}

// UpdateReturnStatus переводит заявку на возврат в статус next по таблице
// переходов заявок.
func (s *Service) UpdateReturnStatus(ctx context.Context, requestID string, next domain.ReturnStatus) error {
	err := s.uow.Execute(ctx, func(ctx context.Context, r domain.Repos) error {
		request, err := r.Returns().Get(ctx, requestID)
		if err != nil {
			return err
		}
		if !request.Status.CanTransitionTo(next) {
			return domain.ErrInvalidTransition
		}

		request.Status = next
		if next == domain.ReturnStatusRejected || next == domain.ReturnStatusRefunded {
			resolved := s.now()
			request.ResolvedAt = &resolved
		}
		return r.Returns().Update(ctx, request)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(log.Fields{
		"return_id": requestID,
		"status":    next,
	}).Info("return request status updated")

	return nil
}

// ListReturnRequests возвращает все заявки на возврат (административная выборка).
func (s *Service) ListReturnRequests(ctx context.Context) ([]domain.ReturnRequest, error) {
	return domain.ExecuteValue(ctx, s.uow, func(ctx context.Context, r domain.Repos) ([]domain.ReturnRequest, error) {
		return r.Returns().List(ctx)
	})
}
