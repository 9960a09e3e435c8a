package api

import (
	"errors"
	"net/http"

	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type addToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type updateCartRequest struct {
	ID       uuid.UUID `json:"id" binding:"required"`
	Quantity int       `json:"quantity"`
}

// getCart lists the caller's cart
func (h *Handler) getCart(c *gin.Context) {
	lines, err := h.carts.List(c.Request.Context(), currentUser(c))
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			c.JSON(http.StatusNotFound, gin.H{"message": "You have no carts"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lines})
}

// addToCart adds a product+size to the caller's cart
func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.carts.Add(c.Request.Context(), currentUser(c), req.ProductID, req.Size, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Added to cart"})
}

// updateCart sets a cart line's quantity
func (h *Handler) updateCart(c *gin.Context) {
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.carts.UpdateQuantity(c.Request.Context(), currentUser(c), req.ID, req.Quantity); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

// deleteCartItem removes one cart line
func (h *Handler) deleteCartItem(c *gin.Context) {
	cartID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid cart id"})
		return
	}

	if err := h.carts.Delete(c.Request.Context(), currentUser(c), cartID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown error, cart not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart deleted"})
}

// clearCart removes every cart line for the caller
func (h *Handler) clearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
