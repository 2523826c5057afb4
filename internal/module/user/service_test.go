package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/videoflow/server/internal/module/auth"
	"github.com/videoflow/server/internal/shared/logger"
)

type fakeRepo struct {
	byID    map[uuid.UUID]*User
	byEmail map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]*User),
	}
}

func (r *fakeRepo) Create(ctx context.Context, u *User) error {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeRepo) Update(ctx context.Context, u *User) error {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeRepo) SetTeam(ctx context.Context, userID uuid.UUID, teamID *uuid.UUID) error {
	u, ok := r.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.TeamID = teamID
	return nil
}

func (r *fakeRepo) SetYouTubeTokens(ctx context.Context, userID uuid.UUID, tokens *YouTubeTokens) error {
	u, ok := r.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.YouTubeAccessToken = &tokens.AccessToken
	u.YouTubeRefreshToken = &tokens.RefreshToken
	return nil
}

func (r *fakeRepo) ClearYouTubeTokens(ctx context.Context, userID uuid.UUID) error {
	u, ok := r.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.YouTubeAccessToken = nil
	u.YouTubeRefreshToken = nil
	return nil
}

func (r *fakeRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *fakeRepo) BeginTx(ctx context.Context) (*gorm.DB, error) {
	return nil, errors.New("transactions not supported in fake")
}

type fakeProvisioner struct {
	teamID uuid.UUID
	calls  int
}

func (p *fakeProvisioner) ProvisionForOwner(ctx context.Context, ownerID uuid.UUID, ownerName string) (uuid.UUID, error) {
	p.calls++
	return p.teamID, nil
}

type fakeRoles struct {
	role string
	err  error
}

func (r *fakeRoles) EffectiveRole(ctx context.Context, teamID, userID uuid.UUID) (string, error) {
	return r.role, r.err
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeProvisioner, *fakeRoles) {
	t.Helper()
	repo := newFakeRepo()
	teams := &fakeProvisioner{teamID: uuid.New()}
	roles := &fakeRoles{role: "editor"}
	return NewService(repo, teams, roles, logger.NewNop()), repo, teams, roles
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("editor registration does not provision a team", func(t *testing.T) {
		svc, _, teams, _ := newTestService(t)

		u, err := svc.Register(ctx, &RegisterRequest{
			Email:    "Editor@Example.com",
			Name:     "  Eva  ",
			Password: "password123",
			Role:     "editor",
		})
		require.NoError(t, err)

		assert.Equal(t, "editor@example.com", u.Email)
		assert.Equal(t, "Eva", u.Name)
		assert.Equal(t, RoleEditor, u.Role)
		assert.Nil(t, u.TeamID)
		assert.Equal(t, 0, teams.calls)
	})

	t.Run("creator registration provisions a team", func(t *testing.T) {
		svc, repo, teams, _ := newTestService(t)

		u, err := svc.Register(ctx, &RegisterRequest{
			Email:    "creator@example.com",
			Name:     "Cora",
			Password: "password123",
			Role:     "creator",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, teams.calls)
		require.NotNil(t, u.TeamID)
		assert.Equal(t, teams.teamID, *u.TeamID)

		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.TeamID)
		assert.Equal(t, teams.teamID, *stored.TeamID)
	})

	t.Run("defaults to editor when role omitted", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		u, err := svc.Register(ctx, &RegisterRequest{
			Email:    "someone@example.com",
			Name:     "Sam",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, RoleEditor, u.Role)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.Register(ctx, &RegisterRequest{
			Email:    "dup@example.com",
			Name:     "First",
			Password: "password123",
		})
		require.NoError(t, err)

		_, err = svc.Register(ctx, &RegisterRequest{
			Email:    "DUP@example.com",
			Name:     "Second",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.Register(ctx, &RegisterRequest{
			Email:    "x@example.com",
			Name:     "X",
			Password: "password123",
			Role:     "admin",
		})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("password is stored as a hash", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)

		u, err := svc.Register(ctx, &RegisterRequest{
			Email:    "hash@example.com",
			Name:     "Hank",
			Password: "password123",
		})
		require.NoError(t, err)

		stored := repo.byID[u.ID]
		assert.NotEqual(t, "password123", stored.PasswordHash)
		assert.True(t, auth.CheckPassword(stored.PasswordHash, "password123"))
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(ctx, &RegisterRequest{
		Email:    "login@example.com",
		Name:     "Lia",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, " Login@Example.com ", "password123")
		require.NoError(t, err)
		assert.Equal(t, "login@example.com", u.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "login@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestEffectiveRole(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to individual role without a team", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		role, err := svc.EffectiveRole(ctx, &User{ID: uuid.New(), Role: RoleManager})
		require.NoError(t, err)
		assert.Equal(t, "manager", role)
	})

	t.Run("resolves through the team for members", func(t *testing.T) {
		svc, _, _, roles := newTestService(t)
		roles.role = "creator"

		teamID := uuid.New()
		role, err := svc.EffectiveRole(ctx, &User{ID: uuid.New(), Role: RoleEditor, TeamID: &teamID})
		require.NoError(t, err)
		assert.Equal(t, "creator", role)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newTestService(t)

	u, err := svc.Register(ctx, &RegisterRequest{
		Email:    "pw@example.com",
		Name:     "Pat",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, u.ID, "wrong", "newpassword1")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("changes the stored hash", func(t *testing.T) {
		err := svc.ChangePassword(ctx, u.ID, "password123", "newpassword1")
		require.NoError(t, err)

		stored := repo.byID[u.ID]
		assert.True(t, auth.CheckPassword(stored.PasswordHash, "newpassword1"))
	})
}
