// internal/interfaces/http/handlers/directory.go
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

// DirectoryHandler handles the author and publisher directory endpoints
type DirectoryHandler struct {
	directoryService *book.DirectoryService
	config           *config.Config
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(db *gorm.DB, cfg *config.Config) *DirectoryHandler {
	return &DirectoryHandler{
		directoryService: book.NewDirectoryService(db, cfg),
		config:           cfg,
	}
}

// GetAuthors handles the author listing
func (h *DirectoryHandler) GetAuthors(c *gin.Context) {
	authors, err := h.directoryService.ListAuthors()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve authors",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": authors,
	})
}

// CreateAuthor handles admin author creation
func (h *DirectoryHandler) CreateAuthor(c *gin.Context) {
	var req book.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	author, err := h.directoryService.CreateAuthor(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Author created successfully",
		"data":    author,
	})
}

// UpdateAuthor handles admin author updates
func (h *DirectoryHandler) UpdateAuthor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid author ID",
		})
		return
	}

	var req book.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	author, err := h.directoryService.UpdateAuthor(uint(id), &req)
	if err != nil {
		if errors.Is(err, book.ErrAuthorNotFound) {
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
		"message": "Author updated successfully",
		"data":    author,
	})
}

// DeleteAuthor handles admin author deletion
func (h *DirectoryHandler) DeleteAuthor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid author ID",
		})
		return
	}

	if err := h.directoryService.DeleteAuthor(uint(id)); err != nil {
		if errors.Is(err, book.ErrAuthorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete author",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Author deleted successfully",
	})
}

// GetPublishers handles the publisher listing
func (h *DirectoryHandler) GetPublishers(c *gin.Context) {
	publishers, err := h.directoryService.ListPublishers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve publishers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": publishers,
	})
}

// CreatePublisher handles admin publisher creation
func (h *DirectoryHandler) CreatePublisher(c *gin.Context) {
	var req book.PublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	publisher, err := h.directoryService.CreatePublisher(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Publisher created successfully",
		"data":    publisher,
	})
}

// UpdatePublisher handles admin publisher updates
func (h *DirectoryHandler) UpdatePublisher(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid publisher ID",
		})
		return
	}

	var req book.PublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	publisher, err := h.directoryService.UpdatePublisher(uint(id), &req)
	if err != nil {
		if errors.Is(err, book.ErrPublisherNotFound) {
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
		"message": "Publisher updated successfully",
		"data":    publisher,
	})
}

// DeletePublisher handles admin publisher deletion
func (h *DirectoryHandler) DeletePublisher(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid publisher ID",
		})
		return
	}

	if err := h.directoryService.DeletePublisher(uint(id)); err != nil {
		if errors.Is(err, book.ErrPublisherNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete publisher",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Publisher deleted successfully",
	})
}
