package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/module/auth"
)

// TeamProvisioner creates the initial team for a creator registration.
type TeamProvisioner interface {
	ProvisionForOwner(ctx context.Context, ownerID uuid.UUID, ownerName string) (uuid.UUID, error)
}

// RoleResolver returns the team-scoped role for a member, the single source
// of truth for in-team authorization.
type RoleResolver interface {
	EffectiveRole(ctx context.Context, teamID, userID uuid.UUID) (string, error)
}

// Service provides account business logic.
type Service struct {
	repo   Repository
	teams  TeamProvisioner
	roles  RoleResolver
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, teams TeamProvisioner, roles RoleResolver, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		teams:  teams,
		roles:  roles,
		logger: logger,
	}
}

// Register creates a new account. A creator registration also provisions the
// user's team and the creator membership.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && err != ErrUserNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	role := Role(req.Role)
	if req.Role == "" {
		role = RoleEditor
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if role == RoleCreator {
		teamID, err := s.teams.ProvisionForOwner(ctx, u.ID, u.Name)
		if err != nil {
			return nil, err
		}
		u.TeamID = &teamID
		if err := s.repo.SetTeam(ctx, u.ID, &teamID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(role)),
	)

	return u, nil
}

// Authenticate verifies credentials and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// EffectiveRole resolves the team-scoped role carried in issued tokens. Users
// without a team fall back to their individual default role.
func (s *Service) EffectiveRole(ctx context.Context, u *User) (string, error) {
	if u.TeamID == nil {
		return string(u.Role), nil
	}
	return s.roles.EffectiveRole(ctx, *u.TeamID, u.ID)
}

// Get returns a user by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile updates mutable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(u.PasswordHash, current) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}

	u.PasswordHash = hash
	return s.repo.Update(ctx, u)
}
