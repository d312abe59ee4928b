package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"legiscope-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EvaluationHandler handles HTTP requests for policy evaluations
type EvaluationHandler struct {
	evaluationService *service.EvaluationService
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evaluationService *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: evaluationService,
	}
}

// CreateEvaluationRequest represents the request body for starting an evaluation
type CreateEvaluationRequest struct {
	DocumentID   string `json:"document_id" binding:"required"`
	RegulationID string `json:"regulation_id" binding:"required"`
	Content      string `json:"content"`
}

// CreateEvaluation handles POST /api/evaluations
func (h *EvaluationHandler) CreateEvaluation(c *gin.Context) {
	var req CreateEvaluationRequest
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

	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DOCUMENT_ID",
				"message": "Invalid document_id format",
			},
		})
		return
	}

	regulationID, err := uuid.Parse(req.RegulationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REGULATION_ID",
				"message": "Invalid regulation_id format",
			},
		})
		return
	}

	serviceReq := service.StartEvaluationRequest{
		DocumentID:   documentID,
		RegulationID: regulationID,
		Content:      req.Content,
	}

	result, err := h.evaluationService.StartEvaluation(c.Request.Context(), serviceReq)
	if err != nil {
		status := http.StatusInternalServerError
		code := "START_FAILED"
		switch {
		case errors.Is(err, service.ErrRegulationNotFound):
			status = http.StatusNotFound
			code = "REGULATION_NOT_FOUND"
		case errors.Is(err, service.ErrDocumentNotFound):
			status = http.StatusNotFound
			code = "DOCUMENT_NOT_FOUND"
		case errors.Is(err, service.ErrMissingIdentifiers):
			status = http.StatusBadRequest
			code = "MISSING_IDENTIFIERS"
		case errors.Is(err, service.ErrClassifierNotConfigured):
			status = http.StatusServiceUnavailable
			code = "CLASSIFIER_UNAVAILABLE"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	// Run the evaluation in the background. The client polls
	// GET /api/evaluations/:id for the result.
	go func() {
		bgCtx := context.Background()
		if err := h.evaluationService.ProcessEvaluation(bgCtx, result.EvaluationID, serviceReq); err != nil {
			log.Printf("Warning: Evaluation %s failed: %v", result.EvaluationID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"evaluation_id": result.EvaluationID,
			"status":        result.Status,
			"message":       "Evaluation started. Poll GET /api/evaluations/{id} for results.",
		},
	})
}

// GetEvaluation handles GET /api/evaluations/:id
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid evaluation ID format",
			},
		})
		return
	}

	result, err := h.evaluationService.GetEvaluation(c.Request.Context(), service.GetEvaluationRequest{
		EvaluationID: id,
	})
	if err != nil {
		if errors.Is(err, service.ErrEvaluationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Evaluation not found",
				},
			})
			return
		}
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
		"data": gin.H{
			"evaluation": result.Evaluation,
			"highlights": result.Highlights,
		},
	})
}

// ListEvaluations handles GET /api/documents/:id/evaluations
func (h *EvaluationHandler) ListEvaluations(c *gin.Context) {
	idStr := c.Param("id")
	documentID, err := uuid.Parse(idStr)
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

	evaluations, err := h.evaluationService.ListEvaluations(c.Request.Context(), documentID)
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
		"data":    evaluations,
	})
}
