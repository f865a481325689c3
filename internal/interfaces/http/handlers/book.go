// internal/interfaces/http/handlers/book.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
)

// BookHandler handles book catalog endpoints
type BookHandler struct {
	bookService *book.Service
	config      *config.Config
}

// NewBookHandler creates a new book handler
func NewBookHandler(db *gorm.DB, cfg *config.Config) *BookHandler {
	return &BookHandler{
		bookService: book.NewService(db, cfg),
		config:      cfg,
	}
}

// GetBooks handles the public book listing with filters and pagination
func (h *BookHandler) GetBooks(c *gin.Context) {
	var req book.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.bookService.List(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve books",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}

// GetBook handles the public book detail view
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	b, err := h.bookService.Get(uint(id))
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve book",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": b,
	})
}

// AdminListBooks returns the full catalog for the admin dashboard
func (h *BookHandler) AdminListBooks(c *gin.Context) {
	books, err := h.bookService.ListAdmin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve books",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": books,
	})
}

// CreateBook handles admin book creation
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req book.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.bookService.Create(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Book created successfully",
		"data":    b,
	})
}

// UpdateBook handles admin book updates
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	var req book.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.bookService.Update(uint(id), &req)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
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
		"message": "Book updated successfully",
		"data":    b,
	})
}

// DeleteBook handles admin book deletion
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	if err := h.bookService.Delete(uint(id)); err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete book",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book deleted successfully",
	})
}
