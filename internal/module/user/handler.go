package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/videoflow/server/internal/module/auth"
	"github.com/videoflow/server/internal/utils/middleware"
)

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// Handler handles HTTP requests for accounts and sessions.
type Handler struct {
	service *Service
	jwt     *auth.JWTManager
	cookie  CookieConfig
}

// NewHandler creates a new user handler.
func NewHandler(service *Service, jwt *auth.JWTManager, cookie CookieConfig) *Handler {
	return &Handler{
		service: service,
		jwt:     jwt,
		cookie:  cookie,
	}
}

// RegisterPublicRoutes registers unauthenticated routes.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

// RegisterRoutes registers authenticated routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)

	users := r.Group("/users")
	{
		users.PATCH("/me", h.UpdateProfile)
		users.PUT("/me/password", h.ChangePassword)
	}
}

// Register handles account registration and opens a session.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	role, err := h.service.EffectiveRole(c.Request.Context(), u)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if !h.issueSession(c, u, role) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u.ToResponse(role)})
}

// Login handles credential login and opens a session.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	role, err := h.service.EffectiveRole(c.Request.Context(), u)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if !h.issueSession(c, u, role) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.ToResponse(role)})
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the current account.
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	u, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	role, err := h.service.EffectiveRole(c.Request.Context(), u)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u.ToResponse(role)})
}

// UpdateProfile updates the current account's profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	role, err := h.service.EffectiveRole(c.Request.Context(), u)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u.ToResponse(role)})
}

// ChangePassword changes the current account's password.
func (h *Handler) ChangePassword(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// issueSession signs a token and sets the HTTP-only session cookie.
func (h *Handler) issueSession(c *gin.Context, u *User, role string) bool {
	token, _, err := h.jwt.GenerateToken(u.ID, u.Email, u.TeamID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return false
	}

	c.SetCookie(h.cookie.Name, token, int(h.jwt.TokenExpiry().Seconds()), "/", h.cookie.Domain, h.cookie.Secure, true)
	return true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
	case errors.Is(err, ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email_already_registered"})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
	case errors.Is(err, ErrWrongPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "wrong_password"})
	case errors.Is(err, ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_role"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
