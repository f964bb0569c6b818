package sms

import (
	"github.com/smallbiznis/rentfolio/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.sms",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	switch cfg.SMS.Provider {
	case "gateway":
		return NewGateway(Config{
			URL:        cfg.SMS.GatewayURL,
			AccountID:  cfg.SMS.AccountID,
			AuthToken:  cfg.SMS.AuthToken,
			FromNumber: cfg.SMS.FromNumber,
		})
	case "log":
		return NewLog(log)
	case "", "noop":
		return &NoOpProvider{}
	}
	log.Warn("unknown sms provider, falling back to noop", zap.String("provider", cfg.SMS.Provider))
	return &NoOpProvider{}
}
