package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// LoginChecker resolves a session token to the logged-in user.
// Used by the auth middleware on every protected request.
type LoginChecker struct {
	service *Service
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		service: NewService(ttl, redisClient),
	}
}

// GetLoggedUserID returns the user ID for the given session token,
// or ErrNotLoggedIn when the session is unknown or expired.
func (lc *LoginChecker) GetLoggedUserID(ctx context.Context, token string) (int, error) {
	session, err := lc.service.GetSession(ctx, token)
	if err != nil {
		return 0, err
	}
	return session.UserID, nil
}
