package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	userTokenPrefix = "login:user:token"
	userTokenExpire = 30 * time.Minute
)

// TokenRepository stores the single valid access token per user: logging
// in elsewhere invalidates the previous session.
type TokenRepository struct {
	Client *redis.Client
}

func tokenKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", userTokenPrefix, userID)
}

func (r *TokenRepository) AddUserToken(userID uint64, token string) error {
	if err := r.Client.Set(context.Background(), tokenKey(userID), token, userTokenExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *TokenRepository) GetUserToken(userID uint64) (string, error) {
	token, err := r.Client.Get(context.Background(), tokenKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// ExtendUserToken refreshes the sliding expiry after a successful auth.
func (r *TokenRepository) ExtendUserToken(userID uint64) error {
	if err := r.Client.Expire(context.Background(), tokenKey(userID), userTokenExpire).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *TokenRepository) DeleteUserToken(userID uint64) error {
	if err := r.Client.Del(context.Background(), tokenKey(userID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}
