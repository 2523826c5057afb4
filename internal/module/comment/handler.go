package comment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/module/video"
	"github.com/videoflow/server/internal/utils/middleware"
)

// Handler handles comment HTTP requests.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new comment handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers comment routes on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// The :id segment is a video ID for GET/POST and a comment ID for the
	// rest; gin requires one wildcard name per position.
	grp := r.Group("/comments")
	{
		grp.GET("/:id", h.List)
		grp.POST("/:id", h.Add)
		grp.PUT("/:id", h.Update)
		grp.DELETE("/:id", h.Delete)
		grp.POST("/:id/reaction", h.ToggleReaction)
	}
}

// List returns a video's comments with replies and reaction counts.
func (h *Handler) List(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_video_id"})
		return
	}

	comments, err := h.service.List(c.Request.Context(), middleware.GetTeamID(c), videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Add creates a comment or a reply on a video.
func (h *Handler) Add(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_video_id"})
		return
	}

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	created, err := h.service.Add(c.Request.Context(), middleware.GetTeamID(c), middleware.GetUserID(c), videoID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(created, nil))
}

// Update edits a comment body.
func (h *Handler) Update(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_comment_id"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), middleware.GetTeamID(c), middleware.GetUserID(c), commentID, req.Body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(updated, nil))
}

// Delete removes a comment and, for top-level comments, its replies.
func (h *Handler) Delete(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_comment_id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.GetTeamID(c), middleware.GetUserID(c), commentID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

// ToggleReaction toggles the caller's reaction on a comment.
func (h *Handler) ToggleReaction(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_comment_id"})
		return
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	counts, err := h.service.ToggleReaction(c.Request.Context(), middleware.GetTeamID(c), middleware.GetUserID(c), commentID, ReactionType(req.Type))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reactions": counts})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch err {
	case ErrCommentNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "comment_not_found"})
	case video.ErrVideoNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "video_not_found"})
	case ErrNotAuthor:
		c.JSON(http.StatusForbidden, gin.H{"error": "not_comment_author"})
	case ErrInsufficientPermission:
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient_permission"})
	case ErrParentNotTopLevel:
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent_not_top_level"})
	case ErrParentVideoMismatch:
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent_video_mismatch"})
	case ErrInvalidReaction:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_reaction_type"})
	default:
		h.logger.Error("comment handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
