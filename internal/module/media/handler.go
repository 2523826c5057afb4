package media

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/adapter/outbound/s3"
	"github.com/videoflow/server/internal/utils/middleware"
)

// Presigner issues direct-upload parameters.
type Presigner interface {
	PresignUpload(ctx context.Context, teamID uuid.UUID, kind, filename, contentType string) (*s3.UploadParams, error)
}

// UploadParamsRequest asks for presigned upload parameters.
type UploadParamsRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=videos thumbnails"`
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// Handler handles media upload support requests.
type Handler struct {
	presigner Presigner
	logger    *zap.Logger
}

// NewHandler creates a media handler.
func NewHandler(presigner Presigner, logger *zap.Logger) *Handler {
	return &Handler{presigner: presigner, logger: logger}
}

// RegisterRoutes registers media routes on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/media/upload-params", h.UploadParams)
}

// UploadParams returns an object key and presigned PUT URL so clients
// upload media straight to storage.
func (h *Handler) UploadParams(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	if teamID == uuid.Nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "no_team"})
		return
	}

	var req UploadParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	params, err := h.presigner.PresignUpload(c.Request.Context(), teamID, req.Kind, req.Filename, req.ContentType)
	if err != nil {
		h.logger.Error("presigning upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, params)
}
