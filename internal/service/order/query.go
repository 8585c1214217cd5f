package order

import (
	"context"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// GetOrder возвращает проекцию заказа. Непустой requesterID означает запрос
// от имени покупателя: чужой заказ отдаётся как ErrNotAuthorized. Пустой
// requesterID — административный доступ.
func (s *Service) GetOrder(ctx context.Context, orderID, requesterID string) (OrderResponse, error) {
	return domain.ExecuteValue(ctx, s.uow, func(ctx context.Context, r domain.Repos) (OrderResponse, error) {
		order, err := r.Orders().Get(ctx, orderID)
		if err != nil {
			return OrderResponse{}, err
		}
		if requesterID != "" && order.UserID != requesterID {
			return OrderResponse{}, domain.ErrNotAuthorized
		}
		return mapOrder(order, s.lookupEmail(ctx, r, order.UserID)), nil
	})
}

// ListUserOrders возвращает заказы пользователя, свежие первыми.
func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]OrderResponse, error) {
	return domain.ExecuteValue(ctx, s.uow, func(ctx context.Context, r domain.Repos) ([]OrderResponse, error) {
		orders, err := r.Orders().ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		email := s.lookupEmail(ctx, r, userID)
		result := make([]OrderResponse, 0, len(orders))
		for _, order := range orders {
			result = append(result, mapOrder(order, email))
		}
		return result, nil
	})
}

// ListAllOrders возвращает заказы всех пользователей (административная выборка).
func (s *Service) ListAllOrders(ctx context.Context, limit int) ([]OrderResponse, error) {
	return domain.ExecuteValue(ctx, s.uow, func(ctx context.Context, r domain.Repos) ([]OrderResponse, error) {
		orders, err := r.Orders().List(ctx, limit)
		if err != nil {
			return nil, err
		}
		result := make([]OrderResponse, 0, len(orders))
		for _, order := range orders {
			result = append(result, mapOrder(order, s.lookupEmail(ctx, r, order.UserID)))
		}
		return result, nil
	})
}

// OrderTimeline возвращает события жизненного цикла заказа.
func (s *Service) OrderTimeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error) {
	return domain.ExecuteValue(ctx, s.uow, func(ctx context.Context, r domain.Repos) ([]domain.TimelineEvent, error) {
		if _, err := r.Orders().Get(ctx, orderID); err != nil {
			return nil, err
		}
		return r.Timeline().List(ctx, orderID)
	})
}

func mapOrder(order domain.Order, email string) OrderResponse {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemView{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Qty:            item.Qty,
			UnitPriceMinor: item.UnitPriceMinor,
			LineTotalMinor: item.LineTotalMinor,
			ImageURL:       item.ImageURL,
		})
	}
	return OrderResponse{
		ID:            order.ID,
		OrderDate:     order.CreatedAt,
		TotalMinor:    order.TotalMinor,
		Currency:      order.Currency,
		Status:        string(order.Status),
		Shipping:      order.Shipping,
		PaymentMethod: order.PaymentMethod,
		PaymentRef:    order.PaymentRef,
		PaidAt:        order.PaidAt,
		ShippedAt:     order.ShippedAt,
		UserEmail:     email,
		Items:         items,
	}
}
