package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/order"
)

type shippingPayload struct {
	Receiver   string `json:"receiver"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

func (p shippingPayload) toDomain() domain.ShippingDetails {
	return domain.ShippingDetails{
		Receiver:   p.Receiver,
		Phone:      p.Phone,
		Address:    p.Address,
		City:       p.City,
		State:      p.State,
		PostalCode: p.PostalCode,
	}
}

type placeOrderPayload struct {
	Shipping      shippingPayload `json:"shipping"`
	PaymentMethod string          `json:"payment_method"`
}

func (s *Server) placeOrder(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}
	var payload placeOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	orderID, err := s.orders.PlaceOrder(c.Request.Context(), userID, order.PlaceOrderRequest{
		Shipping:      payload.Shipping.toDomain(),
		PaymentMethod: payload.PaymentMethod,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_id": orderID})
}

type directBuyPayload struct {
	ProductID string          `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	Shipping  shippingPayload `json:"shipping"`
}

func (s *Server) directBuy(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}
	var payload directBuyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	response, err := s.orders.DirectBuy(c.Request.Context(), userID, order.DirectBuyRequest{
		ProductID: payload.ProductID,
		Qty:       payload.Quantity,
		Shipping:  payload.Shipping.toDomain(),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (s *Server) listMyOrders(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}
	orders, err := s.orders.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) listAllOrders(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	orders, err := s.orders.ListAllOrders(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) getOrder(c *gin.Context) {
	// Заголовок опционален: без него запрос считается административным.
	requesterID := c.GetHeader(userIDHeader)

	response, err := s.orders.GetOrder(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) orderTimeline(c *gin.Context) {
	events, err := s.orders.OrderTimeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	type eventPayload struct {
		Type     string `json:"type"`
		Reason   string `json:"reason,omitempty"`
		Occurred string `json:"occurred_at"`
	}
	payload := make([]eventPayload, 0, len(events))
	for _, event := range events {
		payload = append(payload, eventPayload{
			Type:     event.Type,
			Reason:   event.Reason,
			Occurred: event.Occurred.Format(time.RFC3339Nano),
		})
	}
	c.JSON(http.StatusOK, payload)
}

type updateStatusPayload struct {
	Status string `json:"status"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var payload updateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status, err := domain.ParseOrderStatus(payload.Status)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.orders.UpdateStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "status": string(status)})
}

func (s *Server) cancelOrder(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}
	if err := s.orders.Cancel(c.Request.Context(), c.Param("id"), userID); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "status": string(domain.OrderStatusCanceled)})
}

type verifyPaymentPayload struct {
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
}

func (s *Server) verifyPayment(c *gin.Context) {
	var payload verifyPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	accepted, err := s.orders.VerifyPayment(c.Request.Context(), order.PaymentVerification{
		OrderID:       payload.OrderID,
		TransactionID: payload.TransactionID,
		Status:        payload.Status,
		PaymentMethod: payload.PaymentMethod,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": payload.OrderID, "accepted": accepted})
}

type createReturnPayload struct {
	ProductID   string `json:"product_id"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

func (s *Server) createReturn(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}
	var payload createReturnPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	returnID, err := s.orders.CreateReturnRequest(c.Request.Context(), userID, c.Param("id"), order.CreateReturnRequest{
		ProductID:   payload.ProductID,
		Reason:      payload.Reason,
		Description: payload.Description,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"return_id": returnID})
}

func (s *Server) listReturns(c *gin.Context) {
	requests, err := s.orders.ListReturnRequests(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	type returnPayload struct {
		ID          string  `json:"id"`
		OrderID     string  `json:"order_id"`
		ProductID   string  `json:"product_id"`
		UserID      string  `json:"user_id"`
		Reason      string  `json:"reason"`
		Description string  `json:"description,omitempty"`
		Status      string  `json:"status"`
		RequestedAt string  `json:"requested_at"`
		ResolvedAt  *string `json:"resolved_at,omitempty"`
	}
	payload := make([]returnPayload, 0, len(requests))
	for _, request := range requests {
		item := returnPayload{
			ID:          request.ID,
			OrderID:     request.OrderID,
			ProductID:   request.ProductID,
			UserID:      request.UserID,
			Reason:      request.Reason,
			Description: request.Description,
			Status:      string(request.Status),
			RequestedAt: request.RequestedAt.Format(time.RFC3339Nano),
		}
		if request.ResolvedAt != nil {
			resolved := request.ResolvedAt.Format(time.RFC3339Nano)
			item.ResolvedAt = &resolved
		}
		payload = append(payload, item)
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) updateReturnStatus(c *gin.Context) {
	var payload updateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status, err := domain.ParseReturnStatus(payload.Status)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.orders.UpdateReturnStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"return_id": c.Param("id"), "status": string(status)})
}
