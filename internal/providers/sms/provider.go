package sms

import "context"

// Provider delivers one outbound SMS. Implementations must be safe for
// concurrent use.
type Provider interface {
	Name() string
	Send(ctx context.Context, to string, body string) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Name() string { return "noop" }

func (p *NoOpProvider) Send(ctx context.Context, to string, body string) error {
	return nil
}
