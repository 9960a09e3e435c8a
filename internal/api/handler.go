package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const userIDKey = "userID"

// Handler contains HTTP handlers
type Handler struct {
	checkout *service.CheckoutService
	orders   *service.OrderService
	carts    *service.CartService
	catalog  *service.CatalogService
	users    *service.UserService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	checkout *service.CheckoutService,
	orders *service.OrderService,
	carts *service.CartService,
	catalog *service.CatalogService,
	users *service.UserService,
) *Handler {
	return &Handler{
		checkout: checkout,
		orders:   orders,
		carts:    carts,
		catalog:  catalog,
		users:    users,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/categories", h.listCategories)
		v1.GET("/categories/:id", h.getCategory)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/sizes", h.listSizes)
	}

	user := v1.Group("")
	user.Use(h.requireUser())
	{
		user.GET("/cart", h.getCart)
		user.POST("/cart", h.addToCart)
		user.PUT("/cart", h.updateCart)
		user.DELETE("/cart", h.deleteCartItem)
		user.DELETE("/cart/clear", h.clearCart)

		user.GET("/shipping_price", h.getShippingPrices)
		user.POST("/order", h.createOrder)
		user.GET("/orders", h.listOrders)
		user.GET("/orders/:id", h.getOrder)
		user.PUT("/order/:id", h.completeOrder)

		user.GET("/user", h.getProfile)
		user.PUT("/user/address", h.updateAddress)
		user.PUT("/user/balance", h.updateBalance)
	}

	admin := v1.Group("/admin")
	admin.Use(h.requireUser(), h.requireAdmin())
	{
		admin.GET("/orders", h.listAdminOrders)
		admin.PUT("/orders/:id", h.setOrderStatus)

		admin.POST("/categories", h.createCategory)
		admin.PUT("/categories/:id", h.updateCategory)
		admin.DELETE("/categories/:id", h.deleteCategory)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// requireUser resolves the caller identity from the X-User-ID header set
// by the upstream auth proxy.
func (h *Handler) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing user identity"})
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid user identity"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// requireAdmin gates admin routes on the caller's admin flag.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.users.GetProfile(c.Request.Context(), currentUser(c))
		if err != nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) uuid.UUID {
	return c.MustGet(userIDKey).(uuid.UUID)
}

// respondError maps service errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	var (
		invalidInput *service.InvalidInputError
		insufficient *service.InsufficientBalanceError
		outOfStock   *service.OutOfStockError
		persistence  *service.PersistenceError
	)

	switch {
	case errors.As(err, &invalidInput),
		errors.As(err, &insufficient),
		errors.As(err, &outOfStock),
		errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})

	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})

	case errors.As(err, &persistence):
		util.GetLogger().Error("Persistence failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})

	default:
		util.GetLogger().Error("Unexpected failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong, please try again"})
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
