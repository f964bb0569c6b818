package lock

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/rentfolio/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("lock",
	fx.Provide(NewFromConfig),
)

// NewFromConfig returns a nil Locker when redis is not configured. Callers
// treat nil as "no cross-instance locking".
func NewFromConfig(cfg config.Config, log *zap.Logger) *Locker {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, distributed locking disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewLocker(client)
}
