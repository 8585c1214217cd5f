package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/order"
)

// userIDHeader несёт идентификатор покупателя. Аутентификация выполняется
// выше по стеку (API gateway), сервис доверяет заголовку.
const userIDHeader = "X-User-ID"

// Server — REST-поверхность движка заказов.
type Server struct {
	engine *gin.Engine
	orders *order.Service
	logger *log.Entry
}

// NewServer создаёт HTTP-сервер и регистрирует маршруты.
func NewServer(orders *order.Service, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, orders: orders, logger: logger}
	s.registerRoutes()
	return s
}

// Engine возвращает роутер для запуска и тестов.
func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		orders.POST("", s.placeOrder)
		orders.POST("/direct", s.directBuy)
		orders.GET("", s.listMyOrders)
		orders.GET("/all", s.listAllOrders)
		orders.GET("/:id", s.getOrder)
		orders.GET("/:id/timeline", s.orderTimeline)
		orders.PUT("/:id/status", s.updateOrderStatus)
		orders.POST("/:id/cancel", s.cancelOrder)
		orders.POST("/:id/return", s.createReturn)

		payments := v1.Group("/payments")
		payments.POST("/verify", s.verifyPayment)

		returns := v1.Group("/returns")
		returns.GET("", s.listReturns)
		returns.PUT("/:id/status", s.updateReturnStatus)
	}
}

func (s *Server) userID(c *gin.Context) (string, bool) {
	userID := c.GetHeader(userIDHeader)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + userIDHeader + " header"})
		return "", false
	}
	return userID, true
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		s.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func mapErrorToStatus(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrReturnNotAllowed),
		domain.IsVersionConflict(err):
		return http.StatusConflict
	case domain.IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
