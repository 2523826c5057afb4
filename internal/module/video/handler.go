package video

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/utils/middleware"
)

// Handler handles video HTTP requests.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new video handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers video routes on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/videos")
	{
		grp.POST("/upload", h.Upload)
		grp.GET("", h.List)
		grp.GET("/:id", h.Get)
		grp.POST("/:id/approve", h.Approve)
		grp.POST("/:id/publish", h.Publish)
		grp.POST("/:id/reject", h.Reject)
		grp.DELETE("/:id", h.Delete)
		grp.POST("/:id/thumbnail", h.GenerateThumbnail)
	}
}

// Upload registers an uploaded media object as a pending video.
func (h *Handler) Upload(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	if teamID == uuid.Nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "no_team"})
		return
	}

	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	v, err := h.service.Create(c.Request.Context(), teamID, middleware.GetUserID(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, v.ToResponse())
}

// List returns the caller's team videos, optionally filtered by status.
func (h *Handler) List(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	if teamID == uuid.Nil {
		c.JSON(http.StatusOK, gin.H{"videos": []*Response{}})
		return
	}

	var status *Status
	if raw := c.Query("status"); raw != "" {
		s := Status(raw)
		status = &s
	}

	videos, err := h.service.List(c.Request.Context(), teamID, status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]*Response, 0, len(videos))
	for _, v := range videos {
		resp = append(resp, v.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"videos": resp})
}

// Get returns one video in the caller's team.
func (h *Handler) Get(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_video_id"})
		return
	}

	v, err := h.service.Get(c.Request.Context(), teamID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, v.ToResponse())
}

// Approve approves a pending video and attempts to publish it.
func (h *Handler) Approve(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_video_id"})
		return
	}

	v, notice, err := h.service.Approve(c.Request.Context(), teamID, middleware.GetUserID(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := gin.H{"video": v.ToResponse()}
	if notice != "" {
		resp["notice"] = notice
	}
	c.JSON(http.StatusOK, resp)
}

// Publish retries the YouTube upload of an approved video.
func (h *Handler) Publish(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_video_id"})
		return
	}

	v, err := h.service.Publish(c.Request.Context(), teamID, middleware.GetUserID(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, v.ToResponse())
}

// Reject rejects a pending video with a reason.
func (h *Handler) Reject(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_video_id"})
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason_required"})
		return
	}

	v, err := h.service.Reject(c.Request.Context(), teamID, middleware.GetUserID(c), id, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, v.ToResponse())
}

// Delete removes a video and its stored media.
func (h *Handler) Delete(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_video_id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), teamID, middleware.GetUserID(c), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "video deleted"})
}

// GenerateThumbnail creates an AI thumbnail and attaches it to the video.
func (h *Handler) GenerateThumbnail(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_video_id"})
		return
	}

	var req ThumbnailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	v, err := h.service.GenerateThumbnail(c.Request.Context(), teamID, middleware.GetUserID(c), id, req.Prompt, req.Size)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, v.ToResponse())
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch err {
	case ErrVideoNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "video_not_found"})
	case ErrInsufficientPermission:
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient_permission"})
	case ErrInvalidTransition:
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_status_transition"})
	case ErrReasonRequired:
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason_required"})
	case ErrYouTubeNotConnected:
		c.JSON(http.StatusBadRequest, gin.H{"error": "youtube_not_connected"})
	case ErrPublishUnavailable:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "publish_unavailable"})
	default:
		h.logger.Error("video handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
