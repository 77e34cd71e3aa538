package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultEmailCodeTTL = 5 * time.Minute

	emailCodePrefix = "email:code"
	pendingSuffix   = "pending"
	confirmedSuffix = "confirmed"
)

var (
	ErrCodeNotFound        = errors.New("email code not found")
	ErrCodeDeleteFailed    = errors.New("email code delete failed")
	ErrCodePendingFailed   = errors.New("code pending failed")
	ErrCodeConfirmedFailed = errors.New("code confirmed failed")
)

// EmailRepository stores verification codes in two phases: pending while
// the mail is being sent, confirmed once it left the dialer. Only
// confirmed codes are accepted at verification time.
type EmailRepository struct {
	Client *redis.Client
}

func codeKey(scope, phase, email string) string {
	return fmt.Sprintf("%s:%s:%s:%s", emailCodePrefix, scope, phase, email)
}

func (e *EmailRepository) SetPending(scope, email, code string) error {
	key := codeKey(scope, pendingSuffix, email)
	if err := e.Client.Set(context.Background(), key, code, DefaultEmailCodeTTL).Err(); err != nil {
		return ErrCodePendingFailed
	}
	return nil
}

// ConfirmPending atomically moves the pending code to confirmed with a
// fresh TTL, via a lua script so the value, TTL and delete move together.
func (e *EmailRepository) ConfirmPending(scope, email string) error {
	srcKey := codeKey(scope, pendingSuffix, email)
	dstKey := codeKey(scope, confirmedSuffix, email)

	script := `
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
redis.call("SET", KEYS[2], val, "PX", ARGV[1])
redis.call("DEL", KEYS[1])
return 1
`
	px := int64(DefaultEmailCodeTTL / time.Millisecond)
	res := e.Client.Eval(context.Background(), script, []string{srcKey, dstKey}, px)
	if err := res.Err(); err != nil {
		return ErrCodeConfirmedFailed
	}
	if ok, _ := res.Int(); ok != 1 {
		return ErrCodeConfirmedFailed
	}
	return nil
}

func (e *EmailRepository) DeletePending(scope, email string) error {
	key := codeKey(scope, pendingSuffix, email)
	if err := e.Client.Del(context.Background(), key).Err(); err != nil {
		return ErrCodeDeleteFailed
	}
	return nil
}

func (e *EmailRepository) GetConfirmed(scope, email string) (string, error) {
	key := codeKey(scope, confirmedSuffix, email)
	val, err := e.Client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", ErrCodeNotFound
	}
	return val, nil
}

func (e *EmailRepository) DeleteConfirmed(scope, email string) error {
	key := codeKey(scope, confirmedSuffix, email)
	if err := e.Client.Del(context.Background(), key).Err(); err != nil {
		return ErrCodeDeleteFailed
	}
	return nil
}
