package handlers

import (
	"net/http"

	"legiscope-backend/models"
	"legiscope-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegulationHandler handles HTTP requests for regulations
type RegulationHandler struct {
	regulationRepo *repository.RegulationRepository
}

// NewRegulationHandler creates a new regulation handler
func NewRegulationHandler(regulationRepo *repository.RegulationRepository) *RegulationHandler {
	return &RegulationHandler{
		regulationRepo: regulationRepo,
	}
}

// CreateRegulationRequest represents the request body for creating a regulation
type CreateRegulationRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Motivation   string `json:"motivation"`
}

// CreateRegulation handles POST /api/regulations
func (h *RegulationHandler) CreateRegulation(c *gin.Context) {
	var req CreateRegulationRequest
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

	regulation := &models.Regulation{
		Name:         req.Name,
		Description:  req.Description,
		Requirements: req.Requirements,
		Motivation:   req.Motivation,
	}

	if err := h.regulationRepo.Create(c.Request.Context(), regulation); err != nil {
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
		"data":    regulation,
	})
}

// GetRegulation handles GET /api/regulations/:id
func (h *RegulationHandler) GetRegulation(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid regulation ID format",
			},
		})
		return
	}

	regulation, err := h.regulationRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Regulation not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    regulation,
	})
}

// ListRegulations handles GET /api/regulations
func (h *RegulationHandler) ListRegulations(c *gin.Context) {
	regulations, err := h.regulationRepo.List(c.Request.Context())
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
		"data":    regulations,
	})
}
