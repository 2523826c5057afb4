package team

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserDirectory is the slice of the user module the team service needs.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*DirectoryUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*DirectoryUser, error)
	AssignTeam(ctx context.Context, userID uuid.UUID, teamID *uuid.UUID) error
}

// DirectoryUser is a minimal user view for membership operations.
type DirectoryUser struct {
	ID     uuid.UUID
	Email  string
	Name   string
	TeamID *uuid.UUID
}

// InviteMailer sends invitation emails.
type InviteMailer interface {
	SendTeamInvitation(ctx context.Context, to, inviterName, teamName, token string) error
}

// Service provides team business logic.
type Service struct {
	repo   Repository
	users  UserDirectory
	mailer InviteMailer
	logger *zap.Logger
}

// NewService creates a new team service.
func NewService(repo Repository, users UserDirectory, mailer InviteMailer, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		mailer: mailer,
		logger: logger,
	}
}

// ProvisionForOwner creates a team and its creator membership for a new
// creator registration.
func (s *Service) ProvisionForOwner(ctx context.Context, ownerID uuid.UUID, ownerName string) (uuid.UUID, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	t := &Team{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    fmt.Sprintf("%s's Team", ownerName),
	}
	if err := txRepo.CreateTeam(ctx, t); err != nil {
		return uuid.Nil, err
	}

	member := &Member{
		TeamID:   t.ID,
		UserID:   ownerID,
		Role:     RoleCreator,
		Status:   MemberStatusActive,
		JoinedAt: time.Now(),
	}
	if err := txRepo.AddMember(ctx, member); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("team provisioned",
		zap.String("team_id", t.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)

	return t.ID, nil
}

// EffectiveRole resolves the team-scoped role for an active member.
func (s *Service) EffectiveRole(ctx context.Context, teamID, userID uuid.UUID) (string, error) {
	member, err := s.repo.GetMember(ctx, teamID, userID)
	if err != nil {
		return "", err
	}
	if !member.IsActive() {
		return "", ErrMemberNotFound
	}
	return string(member.Role), nil
}

// OwnerID returns the team's current owner.
func (s *Service) OwnerID(ctx context.Context, teamID uuid.UUID) (uuid.UUID, error) {
	t, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return uuid.Nil, err
	}
	return t.OwnerID, nil
}

// Get returns a team by ID if the requester is a member.
func (s *Service) Get(ctx context.Context, teamID, requesterID uuid.UUID) (*Team, error) {
	if _, err := s.repo.GetMember(ctx, teamID, requesterID); err != nil {
		if err == ErrMemberNotFound {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return s.repo.GetTeamByID(ctx, teamID)
}

// ListMembers lists team members with user details.
func (s *Service) ListMembers(ctx context.Context, teamID, requesterID uuid.UUID) ([]MemberWithUser, error) {
	if _, err := s.repo.GetMember(ctx, teamID, requesterID); err != nil {
		if err == ErrMemberNotFound {
			return nil, ErrInsufficientPermission
		}
		return nil, err
	}
	return s.repo.ListMembersWithUsers(ctx, teamID)
}

// Invite creates an invitation and sends the invite email.
func (s *Service) Invite(ctx context.Context, teamID, inviterID uuid.UUID, req *InviteRequest) (*Invitation, error) {
	inviter, err := s.repo.GetMember(ctx, teamID, inviterID)
	if err != nil {
		if err == ErrMemberNotFound {
			return nil, ErrInsufficientPermission
		}
		return nil, err
	}
	if !inviter.Role.HasPermission(PermInvite) {
		return nil, ErrInsufficientPermission
	}

	role := Role(req.Role)
	if !IsValidInviteRole(role) {
		return nil, ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	invitee, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if invitee != nil {
		if _, err := s.repo.GetMember(ctx, teamID, invitee.ID); err == nil {
			return nil, ErrAlreadyMember
		} else if err != ErrMemberNotFound {
			return nil, err
		}
	}

	existing, err := s.repo.GetPendingInvitationByEmail(ctx, teamID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrInvitationAlreadyPending
	}

	token, err := generateInviteToken(32)
	if err != nil {
		return nil, err
	}

	invitation := &Invitation{
		ID:           uuid.New(),
		TeamID:       teamID,
		InviterID:    inviterID,
		InviteeEmail: email,
		Role:         role,
		Token:        token,
		Status:       InvitationStatusPending,
		ExpiresAt:    time.Now().Add(7 * 24 * time.Hour),
	}

	if err := s.repo.CreateInvitation(ctx, invitation); err != nil {
		return nil, err
	}

	t, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	inviterUser, err := s.users.FindByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	inviterName := ""
	if inviterUser != nil {
		inviterName = inviterUser.Name
	}

	// Delivery failure does not undo the invitation.
	if err := s.mailer.SendTeamInvitation(ctx, email, inviterName, t.Name, token); err != nil {
		s.logger.Warn("invitation email failed",
			zap.String("invitation_id", invitation.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("invitation sent",
		zap.String("invitation_id", invitation.ID.String()),
		zap.String("team_id", teamID.String()),
	)

	return invitation, nil
}

// AcceptInvitation joins the invited user to the team.
func (s *Service) AcceptInvitation(ctx context.Context, token string, userID uuid.UUID, userEmail string) (*Team, error) {
	invitation, err := s.repo.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(invitation.InviteeEmail, userEmail) {
		return nil, ErrInvitationNotForYou
	}
	if !invitation.IsPending() {
		return nil, ErrInvitationAlreadyProcessed
	}
	if invitation.IsExpired() {
		_ = s.repo.UpdateInvitationStatus(ctx, invitation.ID, InvitationStatusExpired)
		return nil, ErrInvitationExpired
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u != nil && u.TeamID != nil {
		return nil, ErrAlreadyMember
	}

	t, err := s.repo.GetTeamByID(ctx, invitation.TeamID)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	member := &Member{
		TeamID:   t.ID,
		UserID:   userID,
		Role:     invitation.Role,
		Status:   MemberStatusActive,
		JoinedAt: time.Now(),
	}
	if err := txRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}
	if err := txRepo.UpdateInvitationStatus(ctx, invitation.ID, InvitationStatusAccepted); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := s.users.AssignTeam(ctx, userID, &t.ID); err != nil {
		return nil, err
	}

	s.logger.Info("invitation accepted",
		zap.String("team_id", t.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return t, nil
}

// UpdateMemberRole changes a member's team-scoped role. The creator role is
// never assigned here; use TransferCreator.
func (s *Service) UpdateMemberRole(ctx context.Context, teamID, targetUserID, requesterID uuid.UUID, newRole Role) error {
	requester, err := s.repo.GetMember(ctx, teamID, requesterID)
	if err != nil {
		if err == ErrMemberNotFound {
			return ErrInsufficientPermission
		}
		return err
	}
	if !requester.Role.HasPermission(PermUpdateRole) {
		return ErrInsufficientPermission
	}

	if !newRole.IsValid() {
		return ErrInvalidRole
	}
	if newRole == RoleCreator {
		return ErrCannotAssignCreator
	}

	target, err := s.repo.GetMember(ctx, teamID, targetUserID)
	if err != nil {
		return err
	}
	if target.Role == RoleCreator {
		return ErrCannotAssignCreator
	}

	return s.repo.UpdateMemberRole(ctx, teamID, targetUserID, newRole)
}

// RemoveMember removes a member (or lets a member leave) and clears the
// user's team reference.
func (s *Service) RemoveMember(ctx context.Context, teamID, targetUserID, requesterID uuid.UUID) error {
	target, err := s.repo.GetMember(ctx, teamID, targetUserID)
	if err != nil {
		return err
	}
	if target.Role == RoleCreator {
		return ErrCannotRemoveCreator
	}

	if targetUserID != requesterID {
		requester, err := s.repo.GetMember(ctx, teamID, requesterID)
		if err != nil {
			if err == ErrMemberNotFound {
				return ErrInsufficientPermission
			}
			return err
		}
		if !requester.Role.HasPermission(PermRemoveMember) {
			return ErrInsufficientPermission
		}
	}

	if err := s.repo.RemoveMember(ctx, teamID, targetUserID); err != nil {
		return err
	}

	return s.users.AssignTeam(ctx, targetUserID, nil)
}

// TransferCreator moves the creator role from the requester to the target in
// one transaction, keeping the one-creator-per-team invariant.
func (s *Service) TransferCreator(ctx context.Context, teamID, requesterID, targetUserID uuid.UUID) error {
	requester, err := s.repo.GetMember(ctx, teamID, requesterID)
	if err != nil {
		if err == ErrMemberNotFound {
			return ErrInsufficientPermission
		}
		return err
	}
	if requester.Role != RoleCreator {
		return ErrInsufficientPermission
	}

	target, err := s.repo.GetMember(ctx, teamID, targetUserID)
	if err != nil {
		return err
	}
	if !target.IsActive() {
		return ErrMemberNotFound
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.UpdateMemberRole(ctx, teamID, requesterID, RoleManager); err != nil {
		return err
	}
	if err := txRepo.UpdateMemberRole(ctx, teamID, targetUserID, RoleCreator); err != nil {
		return err
	}

	t, err := txRepo.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	t.OwnerID = targetUserID
	if err := txRepo.UpdateTeam(ctx, t); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.logger.Info("creator transferred",
		zap.String("team_id", teamID.String()),
		zap.String("from", requesterID.String()),
		zap.String("to", targetUserID.String()),
	)

	return nil
}

// PromoteSoleMemberToCreator promotes the requester to creator when they are
// the only member and the team has no creator. This is a deliberate, named
// operation, not a side effect of invite or role-update calls.
func (s *Service) PromoteSoleMemberToCreator(ctx context.Context, teamID, requesterID uuid.UUID) error {
	count, err := s.repo.CountMembers(ctx, teamID)
	if err != nil {
		return err
	}
	if count != 1 {
		return ErrNotSoleMember
	}

	member, err := s.repo.GetMember(ctx, teamID, requesterID)
	if err != nil {
		if err == ErrMemberNotFound {
			return ErrNotSoleMember
		}
		return err
	}
	if member.Role == RoleCreator {
		return nil // already holds it
	}

	if err := s.repo.UpdateMemberRole(ctx, teamID, requesterID, RoleCreator); err != nil {
		return err
	}

	t, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	t.OwnerID = requesterID
	return s.repo.UpdateTeam(ctx, t)
}

// generateInviteToken generates a cryptographically secure random token.
func generateInviteToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
