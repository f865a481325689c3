// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	redisdb "github.com/your-org/bookstore-backend/internal/infrastructure/database/redis"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
)

// sessionHeader carries the guest cart session id between requests
const sessionHeader = "X-Cart-Session"

// CartHandler handles cart endpoints for users and guests
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, redisClient, cfg),
		config:      cfg,
	}
}

// GetCart returns the cart for the current user or guest session
func (h *CartHandler) GetCart(c *gin.Context) {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		response, err := h.cartService.GetCart(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve cart",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": response})
		return
	}

	response, err := h.cartService.GetGuestCart(c.Request.Context(), c.GetHeader(sessionHeader))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.Header(sessionHeader, response.SessionID)
	c.JSON(http.StatusOK, gin.H{"data": response})
}

// AddItem adds a book to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		response, err := h.cartService.AddItem(userID, &req)
		if err != nil {
			h.cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Item added to cart",
			"data":    response,
		})
		return
	}

	response, err := h.cartService.AddGuestItem(c.Request.Context(), c.GetHeader(sessionHeader), &req)
	if err != nil {
		h.cartError(c, err)
		return
	}

	c.Header(sessionHeader, response.SessionID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"data":    response,
	})
}

// UpdateItem changes the quantity of a cart line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cart item ID",
		})
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		response, err := h.cartService.UpdateItem(userID, uint(id), &req)
		if err != nil {
			h.cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Cart updated",
			"data":    response,
		})
		return
	}

	// For guests the path parameter is the book id, not a row id.
	response, err := h.cartService.UpdateGuestItem(c.Request.Context(), c.GetHeader(sessionHeader), uint(id), &req)
	if err != nil {
		h.cartError(c, err)
		return
	}

	c.Header(sessionHeader, response.SessionID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated",
		"data":    response,
	})
}

// RemoveItem removes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cart item ID",
		})
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		response, err := h.cartService.RemoveItem(userID, uint(id))
		if err != nil {
			h.cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Item removed from cart",
			"data":    response,
		})
		return
	}

	// For guests the path parameter is the book id, not a row id.
	response, err := h.cartService.RemoveGuestItem(c.Request.Context(), c.GetHeader(sessionHeader), uint(id))
	if err != nil {
		h.cartError(c, err)
		return
	}

	c.Header(sessionHeader, response.SessionID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    response,
	})
}

// ClearCart removes every line from the cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		if err := h.cartService.Clear(userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to clear cart",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Cart cleared",
		})
		return
	}

	if err := h.cartService.ClearGuestCart(c.Request.Context(), c.GetHeader(sessionHeader)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

// MergeCart folds a guest session cart into the authenticated user's cart
func (h *CartHandler) MergeCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	sessionID := c.GetHeader(sessionHeader)
	if err := h.cartService.MergeGuestCart(c.Request.Context(), sessionID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to merge cart",
		})
		return
	}

	response, err := h.cartService.GetCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart merged",
		"data":    response,
	})
}

func (h *CartHandler) cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrBookNotFound), errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart operation failed"})
	}
}
