package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

func (lc *LoginChecker) UserID(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNotLoggedIn
	}

	cmd := lc.redisClient.HGetAll(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}

	session := cmd.Val()
	userID := session[sessionFieldUserID]
	if userID == "" {
		return "", ErrNotLoggedIn
	}

	createdAtUnix, err := strconv.ParseInt(session[sessionFieldCreatedAt], 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse session created at: %w", err)
	}

	if lc.now().Sub(time.Unix(createdAtUnix, 0)) > lc.ttl {
		return "", ErrNotLoggedIn
	}

	return userID, nil
}
