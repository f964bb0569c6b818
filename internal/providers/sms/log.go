package sms

import (
	"context"

	"go.uber.org/zap"
)

// LogProvider writes messages to the application log instead of sending
// them. Meant for local development.
type LogProvider struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *LogProvider {
	return &LogProvider{log: log.Named("providers.sms")}
}

func (p *LogProvider) Name() string { return "log" }

func (p *LogProvider) Send(ctx context.Context, to string, body string) error {
	p.log.Info("sms message", zap.String("to", to), zap.String("body", body))
	return nil
}
