package youtube

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/utils/middleware"
)

// Handler handles YouTube connect HTTP requests.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new YouTube handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers YouTube routes on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/youtube")
	{
		grp.GET("/auth-url", h.AuthURL)
		grp.POST("/callback", h.Callback)
		grp.GET("/status", h.Status)
		grp.DELETE("/disconnect", h.Disconnect)
	}
}

// AuthURL starts the connect flow.
func (h *Handler) AuthURL(c *gin.Context) {
	url, err := h.service.AuthURL(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_url": url})
}

// Callback finishes the connect flow with the OAuth redirect parameters.
func (h *Handler) Callback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	channel, err := h.service.HandleCallback(c.Request.Context(), req.State, req.Code)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"channel": channel})
}

// Status reports the connection state.
func (h *Handler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Disconnect drops the caller's YouTube connection.
func (h *Handler) Disconnect(c *gin.Context) {
	if err := h.service.Disconnect(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "youtube disconnected"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch err {
	case ErrInvalidState:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_oauth_state"})
	case ErrNotConnected:
		c.JSON(http.StatusBadRequest, gin.H{"error": "youtube_not_connected"})
	case ErrNoChannel:
		c.JSON(http.StatusBadRequest, gin.H{"error": "no_youtube_channel"})
	default:
		h.logger.Error("youtube handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
