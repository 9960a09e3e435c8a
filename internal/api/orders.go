package api

import (
	"net/http"
	"strconv"

	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
)

// getShippingPrices previews shipping prices for the caller's cart
func (h *Handler) getShippingPrices(c *gin.Context) {
	quotes, err := h.checkout.Preview(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quotes})
}

// createOrder runs the checkout workflow for the caller's cart
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	resp, err := h.checkout.Checkout(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// listOrders lists the caller's orders
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.ListUserOrders(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// getOrder returns the order detail projection
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.orders.GetOrderDetail(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// completeOrder is the user transition shipped -> completed
func (h *Handler) completeOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orders.CompleteOrder(c.Request.Context(), currentUser(c), orderID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

// listAdminOrders lists all orders sorted by computed total
func (h *Handler) listAdminOrders(c *gin.Context) {
	sortBy := c.DefaultQuery("sort_by", "Price a_z")
	if sortBy != "Price a_z" && sortBy != "Price z_a" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid sort_by"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid page"})
		return
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "25"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid page_size"})
		return
	}

	result, err := h.orders.ListAdminOrders(c.Request.Context(), sortBy == "Price a_z", page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// setOrderStatus is the admin transition to any enum member
func (h *Handler) setOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	status := c.Query("status")
	if err := h.orders.SetOrderStatus(c.Request.Context(), orderID, status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
}
