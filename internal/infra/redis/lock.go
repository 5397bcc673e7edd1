package redis

import (
	"context"
	"fmt"
	"time"

	"telegram-image-bot/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Locker guards the one-in-flight-generation-per-chat invariant.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

type RedisLocker struct {
	cli *redis.Client
}

func NewLocker(c *Client) *RedisLocker {
	return &RedisLocker{cli: c.cli}
}

func GenerationLockKey(chatID int64) string {
	return fmt.Sprintf("gen_lock:%d", chatID)
}

// TryLock attempts a SETNX once; a held lock means a generation is already
// running for this chat, which the caller reports to the user rather than
// waiting out.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := l.cli.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrGenerationInFlight
	}
	return token, nil
}

var luaUnlock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	_, err := luaUnlock.Run(ctx, l.cli, []string{key}, token).Result()
	return err
}
