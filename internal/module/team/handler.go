package team

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/utils/middleware"
)

// Handler handles team HTTP requests.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new team handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers team routes on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/team")
	{
		grp.GET("", h.Get)
		grp.GET("/members", h.ListMembers)
		grp.POST("/invite", h.Invite)
		grp.POST("/invitations/:token/accept", h.AcceptInvitation)
		grp.PUT("/members/:id/role", h.UpdateMemberRole)
		grp.DELETE("/members/:id", h.RemoveMember)
		grp.POST("/transfer-creator", h.TransferCreator)
		grp.POST("/promote-sole-member", h.PromoteSoleMember)
	}
}

// Get returns the caller's team.
func (h *Handler) Get(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	if teamID == uuid.Nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team_not_found"})
		return
	}

	t, err := h.service.Get(c.Request.Context(), teamID, middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, t.ToResponse())
}

// ListMembers returns the caller's team members.
func (h *Handler) ListMembers(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	if teamID == uuid.Nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team_not_found"})
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), teamID, middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]*MemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, members[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"members": resp})
}

// Invite invites a user to the caller's team by email.
func (h *Handler) Invite(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	if teamID == uuid.Nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team_not_found"})
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	invitation, err := h.service.Invite(c.Request.Context(), teamID, middleware.GetUserID(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invitation.ToResponse())
}

// AcceptInvitation joins the caller to the inviting team.
func (h *Handler) AcceptInvitation(c *gin.Context) {
	token := c.Param("token")

	t, err := h.service.AcceptInvitation(c.Request.Context(), token, middleware.GetUserID(c), middleware.GetEmail(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, t.ToResponse())
}

// UpdateMemberRole changes a member's team-scoped role.
func (h *Handler) UpdateMemberRole(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	if teamID == uuid.Nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team_not_found"})
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_user_id"})
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if err := h.service.UpdateMemberRole(c.Request.Context(), teamID, targetID, middleware.GetUserID(c), Role(req.Role)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

// RemoveMember removes a member from the caller's team.
func (h *Handler) RemoveMember(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	if teamID == uuid.Nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team_not_found"})
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_user_id"})
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), teamID, targetID, middleware.GetUserID(c)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}

// TransferCreator hands the creator role to another member.
func (h *Handler) TransferCreator(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	if teamID == uuid.Nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team_not_found"})
		return
	}

	var req TransferCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if err := h.service.TransferCreator(c.Request.Context(), teamID, middleware.GetUserID(c), req.UserID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "creator transferred"})
}

// PromoteSoleMember promotes the caller to creator when they are the only
// member of a creator-less team.
func (h *Handler) PromoteSoleMember(c *gin.Context) {
	teamID := middleware.GetTeamID(c)
	if teamID == uuid.Nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "team_not_found"})
		return
	}

	if err := h.service.PromoteSoleMemberToCreator(c.Request.Context(), teamID, middleware.GetUserID(c)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "promoted to creator"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch err {
	case ErrTeamNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "team_not_found"})
	case ErrMemberNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "member_not_found"})
	case ErrAlreadyMember:
		c.JSON(http.StatusConflict, gin.H{"error": "already_member"})
	case ErrInsufficientPermission:
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient_permission"})
	case ErrCannotAssignCreator:
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot_assign_creator"})
	case ErrCannotRemoveCreator:
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot_remove_creator"})
	case ErrNotSoleMember:
		c.JSON(http.StatusConflict, gin.H{"error": "not_sole_member"})
	case ErrInvalidRole:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_role"})
	case ErrInvitationNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "invitation_not_found"})
	case ErrInvitationExpired:
		c.JSON(http.StatusGone, gin.H{"error": "invitation_expired"})
	case ErrInvitationAlreadyProcessed:
		c.JSON(http.StatusConflict, gin.H{"error": "invitation_already_processed"})
	case ErrInvitationAlreadyPending:
		c.JSON(http.StatusConflict, gin.H{"error": "invitation_already_pending"})
	case ErrInvitationNotForYou:
		c.JSON(http.StatusForbidden, gin.H{"error": "invitation_not_for_you"})
	default:
		h.logger.Error("team handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
