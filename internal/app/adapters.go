package app

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/videoflow/server/internal/module/team"
	"github.com/videoflow/server/internal/module/user"
)

// teamUserDirectory adapts the user repository to the team module's
// UserDirectory interface. Defined in the app package to avoid cyclic
// imports between modules.
type teamUserDirectory struct {
	repo user.Repository
}

func newTeamUserDirectory(repo user.Repository) *teamUserDirectory {
	return &teamUserDirectory{repo: repo}
}

// FindByEmail looks a user up by email. A missing user is (nil, nil); the
// team service treats absence as a normal invite outcome, not an error.
func (a *teamUserDirectory) FindByEmail(ctx context.Context, email string) (*team.DirectoryUser, error) {
	u, err := a.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDirectoryUser(u), nil
}

func (a *teamUserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*team.DirectoryUser, error) {
	u, err := a.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDirectoryUser(u), nil
}

func (a *teamUserDirectory) AssignTeam(ctx context.Context, userID uuid.UUID, teamID *uuid.UUID) error {
	return a.repo.SetTeam(ctx, userID, teamID)
}

func toDirectoryUser(u *user.User) *team.DirectoryUser {
	return &team.DirectoryUser{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		TeamID: u.TeamID,
	}
}

// teamRecipientResolver adapts the team repository to the notification
// module's RecipientResolver. It reads the repository directly so the
// notifier can be built before the team service that depends on it.
type teamRecipientResolver struct {
	repo team.Repository
}

func newTeamRecipientResolver(repo team.Repository) *teamRecipientResolver {
	return &teamRecipientResolver{repo: repo}
}

// ActiveMemberEmails returns the emails of active members, minus the
// excluded user.
func (a *teamRecipientResolver) ActiveMemberEmails(ctx context.Context, teamID, exclude uuid.UUID) ([]string, error) {
	members, err := a.repo.ListMembersWithUsers(ctx, teamID)
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(members))
	for i := range members {
		m := &members[i]
		if m.UserID == exclude || !m.IsActive() {
			continue
		}
		emails = append(emails, m.Email)
	}
	return emails, nil
}

// wsUserDirectory adapts the user repository to the realtime handler's
// UserDirectory interface.
type wsUserDirectory struct {
	repo user.Repository
}

func newWSUserDirectory(repo user.Repository) *wsUserDirectory {
	return &wsUserDirectory{repo: repo}
}

func (a *wsUserDirectory) GetName(ctx context.Context, id uuid.UUID) (string, error) {
	u, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Name, nil
}
