package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	oauthStateKeyPrefix = "videoflow:oauth:state:"
	oauthStateTTL       = 10 * time.Minute
)

// ErrStateNotFound indicates the OAuth state is unknown or expired.
var ErrStateNotFound = errors.New("oauth state not found")

// OAuthStateStore keeps OAuth CSRF states in redis with a short TTL.
type OAuthStateStore struct {
	client *redis.Client
}

// NewOAuthStateStore creates a new OAuth state store.
func NewOAuthStateStore(client *redis.Client) *OAuthStateStore {
	return &OAuthStateStore{client: client}
}

// Set stores a state keyed to the user who started the flow.
func (s *OAuthStateStore) Set(ctx context.Context, state, userID string) error {
	return s.client.Set(ctx, oauthStateKeyPrefix+state, userID, oauthStateTTL).Err()
}

// Consume returns the user bound to the state and deletes it, so each state
// validates at most once.
func (s *OAuthStateStore) Consume(ctx context.Context, state string) (string, error) {
	key := oauthStateKeyPrefix + state
	userID, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrStateNotFound
		}
		return "", err
	}
	return userID, nil
}
