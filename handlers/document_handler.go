package handlers

import (
	"net/http"

	"legiscope-backend/models"
	"legiscope-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles HTTP requests for policy documents
type DocumentHandler struct {
	documentRepo *repository.DocumentRepository
	fileRepo     *repository.FileRepository
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentRepo *repository.DocumentRepository, fileRepo *repository.FileRepository) *DocumentHandler {
	return &DocumentHandler{
		documentRepo: documentRepo,
		fileRepo:     fileRepo,
	}
}

// CreateDocumentRequest represents the request body for creating a policy document
type CreateDocumentRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	FileName    string `json:"file_name" binding:"required"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// CreateDocument handles POST /api/documents
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	document := &models.PolicyDocument{
		UserID:   userID,
		FileName: req.FileName,
	}
	if req.Description != "" {
		document.Description = &req.Description
	}
	if req.Content != "" {
		document.Content = &req.Content
	}

	if err := h.documentRepo.Create(c.Request.Context(), document); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    document,
	})
}

// GetDocument handles GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid document ID format",
			},
		})
		return
	}

	document, err := h.documentRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Policy document not found",
			},
		})
		return
	}

	files, err := h.fileRepo.ListByDocumentID(c.Request.Context(), id)
	if err != nil {
		files = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"document": document,
			"files":    files,
		},
	})
}

// ListDocuments handles GET /api/documents?user_id=...
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	userIDStr := c.Query("user_id")
	if userIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_USER_ID",
				"message": "user_id query parameter is required",
			},
		})
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	documents, err := h.documentRepo.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FETCH_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    documents,
	})
}

// UpdateDocumentContentRequest represents the request body for replacing document text
type UpdateDocumentContentRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdateDocumentContent handles PUT /api/documents/:id/content
func (h *DocumentHandler) UpdateDocumentContent(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid document ID format",
			},
		})
		return
	}

	var req UpdateDocumentContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	if _, err := h.documentRepo.GetByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Policy document not found",
			},
		})
		return
	}

	if err := h.documentRepo.UpdateContent(c.Request.Context(), id, req.Content); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":      id,
			"message": "Document content updated",
		},
	})
}
