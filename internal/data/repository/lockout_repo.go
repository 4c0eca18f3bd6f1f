package repository

import (
	"context"
	"fmt"

	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LockoutRepository menghitung login gagal per user di redis. TTL key lock
// adalah masa blokir, jadi user terbuka lagi tanpa job terpisah.
type LockoutRepository interface {
	RegisterFailure(ctx context.Context, userID uuid.UUID) (attempts int, locked bool, err error)
	Reset(ctx context.Context, userID uuid.UUID) error
	IsLocked(ctx context.Context, userID uuid.UUID) (bool, error)
}

type lockoutRepository struct {
	rdb    *redis.Client
	config utils.LockoutConfig
	log    *zap.Logger
}

func NewLockoutRepository(rdb *redis.Client, config utils.LockoutConfig, log *zap.Logger) LockoutRepository {
	return &lockoutRepository{
		rdb:    rdb,
		config: config,
		log:    log.With(zap.String("repository", "lockout")),
	}
}

// KEYS[1] counter, KEYS[2] lock; ARGV[1] max attempts, ARGV[2] window ms
var registerFailureScript = redis.NewScript(`
local attempts = redis.call('INCR', KEYS[1])
if attempts == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
if attempts >= tonumber(ARGV[1]) then
	redis.call('SET', KEYS[2], '1', 'PX', ARGV[2])
	redis.call('DEL', KEYS[1])
	return {attempts, 1}
end
return {attempts, 0}
`)

func failKey(userID uuid.UUID) string {
	return "login:fail:" + userID.String()
}

func lockKey(userID uuid.UUID) string {
	return "login:lock:" + userID.String()
}

func (r *lockoutRepository) RegisterFailure(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	res, err := registerFailureScript.Run(ctx, r.rdb,
		[]string{failKey(userID), lockKey(userID)},
		r.config.MaxAttempts,
		r.config.Duration.Milliseconds(),
	).Int64Slice()
	if err != nil {
		r.log.Error("Failed to register login failure",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, false, fmt.Errorf("register login failure %s: %w", userID.String(), err)
	}

	return int(res[0]), res[1] == 1, nil
}

func (r *lockoutRepository) Reset(ctx context.Context, userID uuid.UUID) error {
	if err := r.rdb.Del(ctx, failKey(userID)).Err(); err != nil {
		r.log.Error("Failed to reset login failures",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("reset login failures %s: %w", userID.String(), err)
	}
	return nil
}

func (r *lockoutRepository) IsLocked(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := r.rdb.Exists(ctx, lockKey(userID)).Result()
	if err != nil {
		r.log.Error("Failed to check login lock",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("check login lock %s: %w", userID.String(), err)
	}
	return n > 0, nil
}
