package handlers

import (
	"net/http"

	"orderdesk-backend/dtos"
	"orderdesk-backend/middleware"
	"orderdesk-backend/models"
	"orderdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSubmissionLimit = 50

type SubmissionHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// GetSubmissions lists the audit log of the caller's shop, newest first.
func (h *SubmissionHandler) GetSubmissions(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Submission audit log is not configured"})
		return
	}

	var q dtos.SubmissionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultSubmissionLimit
	}

	query := h.DB.Where("shop_id = ?", c.GetInt(middleware.ContextShopID))
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var submissions []models.OrderSubmission
	if err := query.Order("created_at DESC").Limit(q.Limit).Find(&submissions).Error; err != nil {
		h.Log.Error("failed to fetch submissions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": submissions})
}
