// internal/interfaces/http/handlers/promotion.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/promotion"
)

// PromotionHandler handles promotion endpoints
type PromotionHandler struct {
	promotionService *promotion.Service
	config           *config.Config
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(db *gorm.DB, cfg *config.Config) *PromotionHandler {
	return &PromotionHandler{
		promotionService: promotion.NewService(db, cfg),
		config:           cfg,
	}
}

// GetActivePromotions lists promotions currently granting discounts
func (h *PromotionHandler) GetActivePromotions(c *gin.Context) {
	promotions, err := h.promotionService.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve promotions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": promotions,
	})
}

// AdminListPromotions lists every promotion for the admin dashboard
func (h *PromotionHandler) AdminListPromotions(c *gin.Context) {
	promotions, err := h.promotionService.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve promotions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": promotions,
	})
}

// CreatePromotion handles admin promotion creation
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var req promotion.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.promotionService.Create(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Promotion created successfully",
		"data":    p,
	})
}

// UpdatePromotion handles admin promotion updates
func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promotion ID",
		})
		return
	}

	var req promotion.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.promotionService.Update(uint(id), &req)
	if err != nil {
		if errors.Is(err, promotion.ErrPromotionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion updated successfully",
		"data":    p,
	})
}

// DeletePromotion handles admin promotion deletion
func (h *PromotionHandler) DeletePromotion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promotion ID",
		})
		return
	}

	if err := h.promotionService.Delete(uint(id)); err != nil {
		if errors.Is(err, promotion.ErrPromotionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete promotion",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion deleted successfully",
	})
}
