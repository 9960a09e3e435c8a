package api

import (
	"net/http"

	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
)

type updateBalanceRequest struct {
	Balance int64 `json:"balance"`
}

// getProfile returns the caller's profile and balance
func (h *Handler) getProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// updateAddress updates the caller's shipping address
func (h *Handler) updateAddress(c *gin.Context) {
	var req service.ShippingAddress
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.users.UpdateAddress(c.Request.Context(), currentUser(c), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address updated"})
}

// updateBalance sets the caller's balance
func (h *Handler) updateBalance(c *gin.Context) {
	var req updateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.users.SetBalance(c.Request.Context(), currentUser(c), req.Balance); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Balance updated"})
}
